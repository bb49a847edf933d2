package rewriter

import "github.com/LegacyCodeHQ/relativize/headers"

// EventKind identifies what happened to a directive.
type EventKind int

const (
	// EventMatch is reported for every directive found, before resolution.
	EventMatch EventKind = iota
	// EventNoCandidates means no file has the header's base name.
	EventNoCandidates
	// EventAmbiguous means several candidates exist and the chooser is about
	// to be consulted.
	EventAmbiguous
	// EventSkipped means the chooser declined to pick a candidate.
	EventSkipped
	// EventUnchanged means the directive already has the computed form.
	EventUnchanged
	// EventReplaced means the directive text was substituted.
	EventReplaced
	// EventFailed means a relative path could not be computed.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventMatch:
		return "match"
	case EventNoCandidates:
		return "no-candidates"
	case EventAmbiguous:
		return "ambiguous"
	case EventSkipped:
		return "skipped"
	case EventUnchanged:
		return "unchanged"
	case EventReplaced:
		return "replaced"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes one step of rewriting a directive.
type Event struct {
	Kind        EventKind
	File        string
	Directive   string
	Header      string
	Replacement string
	Candidates  []headers.SourceFile
	Chosen      string
	Suggestion  string
	Err         error
}

// Reporter receives the rewrite trace. It must not influence the outcome.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) {
	f(e)
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}
