// Package options holds the flags shared by commands that operate on a
// source tree, merged with the project's TOML config.
package options

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/internal/config"
	"github.com/LegacyCodeHQ/relativize/runner"
	"github.com/LegacyCodeHQ/relativize/sourcefs"
)

const (
	flagPath        = "path"
	flagIncludeDirs = "additional-include-dir-file"
	flagConfig      = "config"
	flagIgnoreCase  = "ignore-case"
	flagBrackets    = "use-brackets"
	flagExt         = "ext"
	flagExclude     = "exclude"
	flagDryRun      = "dry-run"
	flagStaging     = "staging"
	flagChoose      = "choose"
	flagEncoding    = "encoding"
)

// Options are the raw flag values.
type Options struct {
	Root            string
	IncludeDirsFile string
	ConfigPath      string
	IgnoreCase      bool
	UseBrackets     bool
	Extensions      []string
	Exclude         []string
	DryRun          bool
	StagingDir      string
	Choose          string
	Encoding        string
}

// AddSourceFlags registers the flags describing the source tree and how
// headers are matched.
func AddSourceFlags(cmd *cobra.Command, o *Options) {
	cmd.Flags().StringVarP(&o.Root, flagPath, "p", "", "Root directory of the source files to process (default: current directory)")
	cmd.Flags().StringVarP(&o.IncludeDirsFile, flagIncludeDirs, "a", "", "Text file listing additional include directories, one per line")
	cmd.Flags().StringVar(&o.ConfigPath, flagConfig, "", fmt.Sprintf("Config file (default: <path>/%s when present)", config.FileName))
	cmd.Flags().BoolVarP(&o.IgnoreCase, flagIgnoreCase, "i", false, "Ignore case when matching header files by name")
	cmd.Flags().BoolVarP(&o.UseBrackets, flagBrackets, "b", false, "Match #include <...> directives in addition to quoted ones")
	cmd.Flags().StringSliceVarP(&o.Extensions, flagExt, "e", sourcefs.DefaultExtensions, "Source file extensions to process (comma-separated)")
	cmd.Flags().StringSliceVarP(&o.Exclude, flagExclude, "x", nil, "Glob patterns, relative to the root, of paths to skip (comma-separated)")
}

// AddRewriteFlags registers the flags controlling how files are rewritten.
func AddRewriteFlags(cmd *cobra.Command, o *Options, defaultPolicy headers.Policy) {
	o.Choose = string(defaultPolicy)
	cmd.Flags().BoolVarP(&o.DryRun, flagDryRun, "d", false, "Print potential replacements without writing files")
	cmd.Flags().StringVarP(&o.StagingDir, flagStaging, "s", "", "Write modified files under this empty directory instead of in place")
	cmd.Flags().StringVar(&o.Choose, flagChoose, o.Choose, fmt.Sprintf("How to pick between several matching headers (%s)", policyNames()))
	cmd.Flags().StringVar(&o.Encoding, flagEncoding, "", "Encoding to write modified files with (default: the file's detected encoding)")
}

// Settings are the flags merged over the config file.
type Settings struct {
	Root       string
	ConfigPath string
	config.Config
	DryRun     bool
	StagingDir string
}

// Resolve merges the flags set on cmd over the config file. Flags the user
// did not set take the config's value.
func (o *Options) Resolve(cmd *cobra.Command) (Settings, error) {
	root := o.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var cfg config.Config
	var cfgPath string
	if o.ConfigPath != "" {
		cfg, err = config.Load(o.ConfigPath)
		cfgPath = o.ConfigPath
	} else {
		cfg, cfgPath, err = config.LoadForRoot(absRoot)
	}
	if err != nil {
		return Settings{}, &runner.ConfigurationError{Op: "load config", Err: err}
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed(flagIncludeDirs) {
		cfg.IncludeDirsFile = o.IncludeDirsFile
	}
	if changed(flagIgnoreCase) {
		cfg.IgnoreCase = o.IgnoreCase
	}
	if changed(flagBrackets) {
		cfg.UseBrackets = o.UseBrackets
	}
	if changed(flagExt) {
		cfg.Extensions = o.Extensions
	}
	if changed(flagExclude) {
		cfg.Exclude = o.Exclude
	}
	if changed(flagChoose) || cfg.Choose == "" {
		cfg.Choose = o.Choose
	}
	if changed(flagEncoding) {
		cfg.Encoding = o.Encoding
	}

	if err := cfg.Validate(); err != nil {
		return Settings{}, &runner.ConfigurationError{Op: "validate options", Err: err}
	}

	return Settings{
		Root:       absRoot,
		ConfigPath: cfgPath,
		Config:     cfg,
		DryRun:     o.DryRun,
		StagingDir: o.StagingDir,
	}, nil
}

// RunnerConfig builds the runner configuration for s with chooser.
func (s Settings) RunnerConfig(chooser headers.Chooser) (runner.Config, error) {
	rc := runner.Config{
		Root:            s.Root,
		Extensions:      s.Extensions,
		Exclude:         s.Exclude,
		IncludeDirsFile: s.IncludeDirsFile,
		DryRun:          s.DryRun,
		StagingDir:      s.StagingDir,
		CaseSensitive:   !s.IgnoreCase,
		Brackets:        s.UseBrackets,
		Chooser:         chooser,
	}

	if s.Encoding != "" {
		enc, err := sourcefs.LookupEncoding(s.Encoding)
		if err != nil {
			return runner.Config{}, &runner.ConfigurationError{Op: "resolve encoding", Err: err}
		}
		rc.OutputEncoding = &enc
	}
	return rc, nil
}

func policyNames() string {
	var names string
	for i, p := range headers.Policies() {
		if i > 0 {
			names += ", "
		}
		names += string(p)
	}
	return names
}

// WarningObserver prints run warnings to W and ignores the rest of the trace.
type WarningObserver struct {
	runner.NopObserver
	W io.Writer
}

func (o WarningObserver) Warn(message string) {
	fmt.Fprintf(o.W, "Warning: %s\n", message)
}
