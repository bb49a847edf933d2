// Package rewriter replaces the paths of #include directives with paths
// relative to the including file or to the most specific include directory.
package rewriter

import (
	"errors"
	"strings"

	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/relpath"
)

// Options configures a Rewriter.
type Options struct {
	Index *headers.Index
	Dirs  headers.IncludeDirs
	// Chooser picks between several candidates. Nil skips ambiguous
	// directives.
	Chooser       headers.Chooser
	CaseSensitive bool
	// Brackets also matches #include <...> directives.
	Brackets bool
	// Reporter receives the trace. Nil discards it.
	Reporter Reporter
}

// Rewriter rewrites the include directives of one file at a time.
type Rewriter struct {
	index         *headers.Index
	dirs          headers.IncludeDirs
	chooser       headers.Chooser
	caseSensitive bool
	brackets      bool
	reporter      Reporter
}

// New returns a Rewriter for opts.
func New(opts Options) *Rewriter {
	r := &Rewriter{
		index:         opts.Index,
		dirs:          opts.Dirs,
		chooser:       opts.Chooser,
		caseSensitive: opts.CaseSensitive,
		brackets:      opts.Brackets,
		reporter:      opts.Reporter,
	}
	if r.index == nil {
		r.index = headers.NewIndex(nil, nil)
	}
	if r.chooser == nil {
		r.chooser = headers.SkipAmbiguous{}
	}
	if r.reporter == nil {
		r.reporter = nopReporter{}
	}
	return r
}

// Result is the outcome of rewriting one file.
type Result struct {
	// Text is the new content. It is the input string itself when Changed
	// is false.
	Text         string
	Changed      bool
	Replacements int
}

// Rewrite replaces every include directive in text whose header resolves to
// a project file. Directives that cannot be resolved are left as they are.
// The only error is one returned by the Chooser, in which case no result is
// produced for the file.
func (r *Rewriter) Rewrite(text string, file headers.SourceFile) (Result, error) {
	directives := FindDirectives(text, r.brackets)

	var sb strings.Builder
	replacements := 0
	last := 0
	for _, d := range directives {
		replacement, ok, err := r.resolve(d, file)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}

		if replacements == 0 {
			sb.Grow(len(text))
		}
		sb.WriteString(text[last:d.Start])
		sb.WriteString(replacement)
		last = d.End
		replacements++
	}

	if replacements == 0 {
		return Result{Text: text}, nil
	}

	sb.WriteString(text[last:])
	return Result{Text: sb.String(), Changed: true, Replacements: replacements}, nil
}

// resolve returns the replacement for d and whether it should be applied.
func (r *Rewriter) resolve(d Directive, file headers.SourceFile) (string, bool, error) {
	event := Event{File: file.Path, Directive: d.Text, Header: d.HeaderName()}
	r.report(event, EventMatch)

	candidates := r.index.Find(event.Header, r.caseSensitive)
	event.Candidates = candidates
	if len(candidates) == 0 {
		event.Suggestion, _ = r.index.Suggest(event.Header)
		r.report(event, EventNoCandidates)
		return "", false, nil
	}

	chosen := candidates[0]
	if len(candidates) > 1 {
		r.report(event, EventAmbiguous)
		choice, err := r.chooser.Choose(event.Header, candidates)
		if err != nil {
			return "", false, err
		}
		if choice.Skipped || choice.Index < 0 || choice.Index >= len(candidates) {
			r.report(event, EventSkipped)
			return "", false, nil
		}
		chosen = candidates[choice.Index]
	}
	event.Chosen = chosen.Path

	replacement, err := r.directiveFor(d, file, chosen)
	if err != nil {
		event.Err = err
		r.report(event, EventFailed)
		return "", false, nil
	}
	event.Replacement = replacement

	if replacement == d.Text {
		r.report(event, EventUnchanged)
		return "", false, nil
	}

	r.report(event, EventReplaced)
	return replacement, true, nil
}

func (r *Rewriter) directiveFor(d Directive, file, header headers.SourceFile) (string, error) {
	if header.Dir == file.Dir {
		return `#include "` + header.Name + `"`, nil
	}

	var path string
	var err error
	if dir, ok := r.dirs.Rank(header.Path); ok {
		path, err = relpath.Relative(dir, header.Path, relpath.FromDir)
	} else {
		path, err = relpath.Relative(file.Path, header.Path, relpath.FromFile)
	}
	if err != nil {
		return "", err
	}

	path = strings.ReplaceAll(relpath.StripCurrentDir(path), `\`, "/")
	return "#include " + d.Open + path + d.Close, nil
}

func (r *Rewriter) report(e Event, kind EventKind) {
	e.Kind = kind
	r.reporter.Report(e)
}

// IsAmbiguity reports whether err came from a chooser that refuses to pick
// between candidates.
func IsAmbiguity(err error) bool {
	var ambiguity *headers.AmbiguityError
	return errors.As(err, &ambiguity)
}
