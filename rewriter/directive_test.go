package rewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDirectives_QuotesOnly(t *testing.T) {
	text := "#include \"a.h\"\n#include <vector>\n#  include\t\"lib/b.h\"\n"

	directives := FindDirectives(text, false)

	require.Len(t, directives, 2)
	assert.Equal(t, Directive{Text: `#include "a.h"`, Open: `"`, Path: "a.h", Close: `"`, Start: 0, End: 14}, directives[0])
	assert.Equal(t, "#  include\t\"lib/b.h\"", directives[1].Text)
	assert.Equal(t, "lib/b.h", directives[1].Path)
	assert.Equal(t, directives[1].Text, text[directives[1].Start:directives[1].End])
}

func TestFindDirectives_WithBrackets(t *testing.T) {
	text := "#include <sys/types.h>\n#include \"a.h\"\n"

	directives := FindDirectives(text, true)

	require.Len(t, directives, 2)
	assert.Equal(t, "<", directives[0].Open)
	assert.Equal(t, "sys/types.h", directives[0].Path)
	assert.Equal(t, ">", directives[0].Close)
	assert.Equal(t, `"`, directives[1].Open)
	assert.Equal(t, `"`, directives[1].Close)
}

func TestFindDirectives_DoesNotSpanLinesOrMixDelimiters(t *testing.T) {
	text := "#include \"broken\n#include <mixed.h\"\n#include \"ok.h\" // \"comment\"\n"

	directives := FindDirectives(text, true)

	require.Len(t, directives, 1)
	assert.Equal(t, "ok.h", directives[0].Path)
}

func TestDirectiveHeaderName(t *testing.T) {
	tests := map[string]string{
		"util.h":                "util.h",
		"../include/util.h":     "util.h",
		`C:\sdk\include\util.h`: "util.h",
		"vector":                "vector",
	}

	for path, want := range tests {
		assert.Equal(t, want, Directive{Path: path}.HeaderName(), path)
	}
}
