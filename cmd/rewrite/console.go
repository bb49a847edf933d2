package rewrite

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/LegacyCodeHQ/relativize/rewriter"
	"github.com/LegacyCodeHQ/relativize/runner"
)

// consoleObserver prints the rewrite trace. Colours are only emitted when
// out is a terminal.
type consoleObserver struct {
	runner.NopObserver
	out    io.Writer
	errOut io.Writer
	// promptListsCandidates is set when an interactive chooser already
	// prints the candidates and the skip notice.
	promptListsCandidates bool

	label    lipgloss.Style
	removed  lipgloss.Style
	inserted lipgloss.Style
}

func newConsoleObserver(out, errOut io.Writer, promptListsCandidates bool) *consoleObserver {
	renderer := lipgloss.NewRenderer(out)
	return &consoleObserver{
		out:                   out,
		errOut:                errOut,
		promptListsCandidates: promptListsCandidates,
		label:                 renderer.NewStyle().Foreground(lipgloss.Color("6")),
		removed:               renderer.NewStyle().Foreground(lipgloss.Color("1")),
		inserted:              renderer.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

func (o *consoleObserver) Prepared(plan runner.Plan) {
	fmt.Fprintf(o.out, "Root directory: %s\n", plan.Root)
	fmt.Fprintln(o.out, "Include paths:")
	for _, dir := range plan.IncludeDirs {
		fmt.Fprintf(o.out, "\t%s\n", dir)
	}
	fmt.Fprintf(o.out, "Total include files: %d\n", plan.IncludeFiles)
	fmt.Fprintf(o.out, "%d source files found...\n", len(plan.SourceFiles))
	if plan.DryRun {
		fmt.Fprintln(o.out, "Performing dry run...")
	}
}

func (o *consoleObserver) Warn(message string) {
	fmt.Fprintf(o.errOut, "Warning: %s\n", message)
}

func (o *consoleObserver) FileStarted(path string) {
	fmt.Fprintf(o.out, "%s: %s\n", o.label.Render("Including file"), path)
}

func (o *consoleObserver) Report(e rewriter.Event) {
	switch e.Kind {
	case rewriter.EventMatch:
		fmt.Fprintf(o.out, "\t%s: %s\n", o.label.Render("Match"), e.Directive)
	case rewriter.EventNoCandidates:
		if e.Suggestion != "" {
			fmt.Fprintf(o.out, "\t\tNo matching headers found (did you mean %q?)...\n", e.Suggestion)
			return
		}
		fmt.Fprintln(o.out, "\t\tNo matching headers found...")
	case rewriter.EventAmbiguous:
		if o.promptListsCandidates {
			return
		}
		fmt.Fprintf(o.out, "\t\tFound %d matching headers\n", len(e.Candidates))
	case rewriter.EventSkipped:
		if o.promptListsCandidates {
			return
		}
		fmt.Fprintln(o.out, "\t\tSkipping...")
	case rewriter.EventUnchanged:
		fmt.Fprintln(o.out, "\t\tNo replacement required.")
	case rewriter.EventReplaced:
		fmt.Fprintf(o.out, "\t\t%s -> %s\n", o.removed.Render(e.Directive), o.inserted.Render(e.Replacement))
	case rewriter.EventFailed:
		fmt.Fprintf(o.out, "\t\tUnable to compute a relative path: %v\n", e.Err)
	}
}
