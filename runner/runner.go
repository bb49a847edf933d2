// Package runner applies the include rewriter to every source file under a
// root directory.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/internal/runlog"
	"github.com/LegacyCodeHQ/relativize/rewriter"
	"github.com/LegacyCodeHQ/relativize/sourcefs"
)

var log = runlog.New("runner")

// Config describes one rewrite run.
type Config struct {
	// Root is the directory whose source files are rewritten.
	Root string
	// Extensions is the allow-list of source extensions. Empty means
	// sourcefs.DefaultExtensions.
	Extensions []string
	// Exclude holds doublestar patterns relative to Root.
	Exclude []string
	// IncludeDirsFile optionally lists auxiliary include directories.
	IncludeDirsFile string
	// WorkingDir substitutes $(cwd) in include directory entries. Empty
	// means the process working directory.
	WorkingDir string
	DryRun     bool
	// StagingDir, when set, receives modified files under their path
	// relative to Root instead of overwriting them. It must be empty.
	StagingDir    string
	CaseSensitive bool
	Brackets      bool
	// OutputEncoding forces the encoding modified files are written with.
	OutputEncoding *sourcefs.Encoding
	Chooser        headers.Chooser
	// Reader reads file content. Nil reads from disk.
	Reader sourcefs.ContentReader
}

// Totals accumulates the outcome of a run.
type Totals struct {
	FilesScanned int
	FilesChanged int
	Replacements int
}

// Add returns the sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		FilesScanned: t.FilesScanned + o.FilesScanned,
		FilesChanged: t.FilesChanged + o.FilesChanged,
		Replacements: t.Replacements + o.Replacements,
	}
}

// Observer receives the trace of a run. It cannot influence the outcome.
type Observer interface {
	rewriter.Reporter
	// Prepared is called once the inputs are loaded, before any file is
	// processed.
	Prepared(Plan)
	// Warn reports a recoverable problem.
	Warn(message string)
	// FileStarted is called before each source file is rewritten.
	FileStarted(path string)
	// FileWritten is called after a modified file is written. target is
	// empty in a dry run.
	FileWritten(source, target string, data []byte)
}

// Plan summarises the inputs of a run.
type Plan struct {
	Root         string
	IncludeDirs  []string
	IncludeFiles int
	SourceFiles  []string
	DryRun       bool
}

// Run rewrites every source file under cfg.Root.
func Run(ctx context.Context, cfg Config, obs Observer) (Totals, error) {
	if obs == nil {
		obs = NopObserver{}
	}

	session, err := Prepare(cfg, obs)
	if err != nil {
		return Totals{}, err
	}
	return session.Run(ctx, session.SourceFiles())
}

// Session holds the loaded inputs of a run so that passes can be repeated.
type Session struct {
	cfg      Config
	root     string
	obs      Observer
	index    *headers.Index
	dirs     headers.IncludeDirs
	sources  []string
	rewriter *rewriter.Rewriter
}

// Prepare validates cfg, loads the include directories and indexes the source
// tree. Every error it returns is a *ConfigurationError.
func Prepare(cfg Config, obs Observer) (*Session, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if cfg.Reader == nil {
		cfg.Reader = sourcefs.FilesystemContentReader()
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = sourcefs.DefaultExtensions
	}
	if err := sourcefs.ValidatePatterns(cfg.Exclude); err != nil {
		return nil, &ConfigurationError{Op: "validate exclude patterns", Err: err}
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, &ConfigurationError{Op: "resolve root", Path: cfg.Root, Err: err}
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, &ConfigurationError{Op: "open root", Path: root, Err: errors.New("not a directory")}
	}

	cwd := cfg.WorkingDir
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return nil, &ConfigurationError{Op: "resolve working directory", Err: err}
		}
	}

	var dirs headers.IncludeDirs
	var includeFiles []headers.SourceFile
	if cfg.IncludeDirsFile != "" {
		var diagnostics []headers.Diagnostic
		dirs, diagnostics, err = headers.LoadIncludeDirFile(cfg.IncludeDirsFile, cwd)
		if err != nil {
			return nil, &ConfigurationError{Op: "load include directories", Path: cfg.IncludeDirsFile, Err: err}
		}
		for _, d := range diagnostics {
			log.Warn("ignoring include directory", runlog.Fields{"line": d.Line, "entry": d.Entry, "reason": d.Reason})
			obs.Warn(fmt.Sprintf("ignoring include directory %s", d))
		}

		for _, dir := range dirs.Dirs() {
			files, err := sourcefs.Collect(dir, sourcefs.CollectOptions{})
			if err != nil {
				return nil, &ConfigurationError{Op: "list include directory", Path: dir, Err: err}
			}
			includeFiles = append(includeFiles, headers.NewSourceFiles(files)...)
		}
	}

	if cfg.StagingDir != "" {
		if err := checkStagingDir(cfg.StagingDir); err != nil {
			return nil, &ConfigurationError{Op: "check staging directory", Path: cfg.StagingDir, Err: err}
		}
	}

	sources, err := sourcefs.Collect(root, sourcefs.CollectOptions{Extensions: cfg.Extensions, Exclude: cfg.Exclude})
	if err != nil {
		return nil, &ConfigurationError{Op: "list source files", Path: root, Err: err}
	}

	s := &Session{
		cfg:     cfg,
		root:    root,
		obs:     obs,
		index:   headers.NewIndex(headers.NewSourceFiles(sources), includeFiles),
		dirs:    dirs,
		sources: sources,
	}
	s.rewriter = rewriter.New(rewriter.Options{
		Index:         s.index,
		Dirs:          dirs,
		Chooser:       cfg.Chooser,
		CaseSensitive: cfg.CaseSensitive,
		Brackets:      cfg.Brackets,
		Reporter:      loggingReporter{next: obs},
	})

	obs.Prepared(Plan{
		Root:         root,
		IncludeDirs:  dirs.Dirs(),
		IncludeFiles: len(includeFiles),
		SourceFiles:  sources,
		DryRun:       cfg.DryRun,
	})
	log.Info("prepared run", runlog.Fields{
		"root":          root,
		"sources":       len(sources),
		"include_dirs":  dirs.Len(),
		"include_files": len(includeFiles),
	})

	return s, nil
}

// Root returns the absolute root directory.
func (s *Session) Root() string {
	return s.root
}

// Index returns the candidate index built from the source tree and the
// include directories.
func (s *Session) Index() *headers.Index {
	return s.index
}

// SourceFiles returns the files found under the root when the session was
// prepared, in discovery order.
func (s *Session) SourceFiles() []string {
	return append([]string(nil), s.sources...)
}

// Run rewrites paths, which must be files known to the session, in order. It
// stops at the first error; files already written stay written.
func (s *Session) Run(ctx context.Context, paths []string) (Totals, error) {
	var totals Totals
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return totals, err
		}

		fileTotals, err := s.rewriteFile(path)
		totals = totals.Add(fileTotals)
		if err != nil {
			log.Error("run stopped", runlog.Fields{"file": path, "error": err.Error()})
			return totals, err
		}
	}

	log.Info("run finished", runlog.Fields{
		"scanned":      totals.FilesScanned,
		"changed":      totals.FilesChanged,
		"replacements": totals.Replacements,
	})
	return totals, nil
}

func (s *Session) rewriteFile(path string) (Totals, error) {
	s.obs.FileStarted(path)

	text, err := sourcefs.ReadText(s.cfg.Reader, path)
	if err != nil {
		return Totals{}, err
	}
	if text.Fallback {
		log.Warn("encoding not detected", runlog.Fields{"file": path, "encoding": text.Encoding.Name})
		s.obs.Warn(fmt.Sprintf("could not detect the encoding of %s, assuming %s", path, text.Encoding.Name))
	}
	totals := Totals{FilesScanned: 1}

	result, err := s.rewriter.Rewrite(text.Content, headers.NewSourceFile(path))
	if err != nil {
		return totals, fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	if !result.Changed {
		return totals, nil
	}
	totals.FilesChanged = 1
	totals.Replacements = result.Replacements

	if s.cfg.DryRun {
		s.obs.FileWritten(path, "", nil)
		return totals, nil
	}

	target, err := s.targetPath(path)
	if err != nil {
		return totals, err
	}

	enc := text.Encoding
	if s.cfg.OutputEncoding != nil {
		enc = *s.cfg.OutputEncoding
	}
	data, err := enc.Encode(result.Text)
	if err != nil {
		return totals, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := sourcefs.WriteFile(target, data); err != nil {
		return totals, err
	}

	log.Debug("wrote file", runlog.Fields{"source": path, "target": target, "replacements": result.Replacements})
	s.obs.FileWritten(path, target, data)
	return totals, nil
}

func (s *Session) targetPath(path string) (string, error) {
	if s.cfg.StagingDir == "" {
		return path, nil
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", fmt.Errorf("failed to compute staging path for %s: %w", path, err)
	}
	return filepath.Join(s.cfg.StagingDir, rel), nil
}

func checkStagingDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return errors.New("staging directory is not empty")
	}
	return nil
}

// loggingReporter copies every rewrite event to the developer log before
// passing it on.
type loggingReporter struct {
	next rewriter.Reporter
}

func (r loggingReporter) Report(e rewriter.Event) {
	fields := runlog.Fields{
		"event":      e.Kind.String(),
		"file":       e.File,
		"directive":  e.Directive,
		"candidates": len(e.Candidates),
	}
	if e.Replacement != "" {
		fields["replacement"] = e.Replacement
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	log.Debug("include directive", fields)
	r.next.Report(e)
}

// NopObserver ignores the trace.
type NopObserver struct{}

func (NopObserver) Report(rewriter.Event)              {}
func (NopObserver) Prepared(Plan)                      {}
func (NopObserver) Warn(string)                        {}
func (NopObserver) FileStarted(string)                 {}
func (NopObserver) FileWritten(string, string, []byte) {}
