package rewriter

import (
	"regexp"

	"github.com/LegacyCodeHQ/relativize/headers"
)

var (
	quotedDirective          = regexp.MustCompile(`#[ \t]*include[ \t]*(")([^"\r\n]*)(")`)
	quotedOrBracketDirective = regexp.MustCompile(`#[ \t]*include[ \t]*(?:(")([^"\r\n]*)(")|(<)([^<>\r\n]*)(>))`)
)

// Directive is one #include match in a file's text.
type Directive struct {
	// Text is the whole matched text, e.g. `#include "util.h"`.
	Text  string
	Open  string
	Path  string
	Close string
	// Start and End are byte offsets of Text in the scanned content.
	Start int
	End   int
}

// HeaderName returns the base name of the referenced path.
func (d Directive) HeaderName() string {
	return headers.IncludeBaseName(d.Path)
}

// FindDirectives returns the non-overlapping include directives in text,
// left to right. Angle-bracket directives are only matched when brackets is
// set.
func FindDirectives(text string, brackets bool) []Directive {
	pattern := quotedDirective
	if brackets {
		pattern = quotedOrBracketDirective
	}

	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	directives := make([]Directive, 0, len(matches))
	for _, m := range matches {
		d := Directive{
			Text:  text[m[0]:m[1]],
			Start: m[0],
			End:   m[1],
		}
		// Groups 1-3 are the quoted form; 4-6 the bracketed one.
		group := 1
		if m[2] < 0 {
			group = 4
		}
		d.Open = text[m[2*group]:m[2*group+1]]
		d.Path = text[m[2*group+2]:m[2*group+3]]
		d.Close = text[m[2*group+4]:m[2*group+5]]
		directives = append(directives, d)
	}
	return directives
}
