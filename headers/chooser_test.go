package headers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoCandidates = NewSourceFiles([]string{"/proj/a/foo.h", "/proj/b/foo.h"})

func TestFirstMatch(t *testing.T) {
	choice, err := FirstMatch{}.Choose("foo.h", twoCandidates)

	require.NoError(t, err)
	assert.Equal(t, Selected(0), choice)
}

func TestSkipAmbiguous(t *testing.T) {
	choice, err := SkipAmbiguous{}.Choose("foo.h", twoCandidates)

	require.NoError(t, err)
	assert.True(t, choice.Skipped)
}

func TestFailOnAmbiguity(t *testing.T) {
	choice, err := FailOnAmbiguity{}.Choose("foo.h", twoCandidates)

	var ambiguity *AmbiguityError
	require.ErrorAs(t, err, &ambiguity)
	assert.True(t, choice.Skipped)
	assert.Equal(t, "foo.h", ambiguity.Header)
	assert.Contains(t, err.Error(), "/proj/b/foo.h")
}

func TestInteractivePrompt_Strict(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Choice
	}{
		{name: "picks second", input: "2\n", want: Selected(1)},
		{name: "zero skips", input: "0\n", want: Skip},
		{name: "reprompts on garbage", input: "abc\n7\n-1\n1\n", want: Selected(0)},
		{name: "end of input skips", input: "9\n", want: Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			prompt := NewInteractivePrompt(strings.NewReader(tt.input), &out, PromptStrict)

			choice, err := prompt.Choose("foo.h", twoCandidates)

			require.NoError(t, err)
			assert.Equal(t, tt.want, choice)
			assert.Contains(t, out.String(), "[1]: /proj/a/foo.h")
			assert.Contains(t, out.String(), "[2]: /proj/b/foo.h")
		})
	}
}

func TestInteractivePrompt_StrictCountsPrompts(t *testing.T) {
	var out bytes.Buffer
	prompt := NewInteractivePrompt(strings.NewReader("x\n3\n2\n"), &out, PromptStrict)

	choice, err := prompt.Choose("foo.h", twoCandidates)

	require.NoError(t, err)
	assert.Equal(t, Selected(1), choice)
	assert.Equal(t, 3, strings.Count(out.String(), "0 to skip"))
}

func TestInteractivePrompt_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Choice
	}{
		{name: "picks second", input: "2\n", want: Selected(1)},
		{name: "zero defaults to first", input: "0\n", want: Selected(0)},
		{name: "garbage defaults to first", input: "two\n", want: Selected(0)},
		{name: "out of range defaults to first", input: "3\n", want: Selected(0)},
		{name: "end of input defaults to first", input: "", want: Selected(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			prompt := NewInteractivePrompt(strings.NewReader(tt.input), &out, PromptLenient)

			choice, err := prompt.Choose("foo.h", twoCandidates)

			require.NoError(t, err)
			assert.Equal(t, tt.want, choice)
		})
	}
}

func TestInteractivePrompt_SharesInputAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	prompt := NewInteractivePrompt(strings.NewReader("2\n0\n"), &out, PromptStrict)

	first, err := prompt.Choose("foo.h", twoCandidates)
	require.NoError(t, err)
	second, err := prompt.Choose("foo.h", twoCandidates)
	require.NoError(t, err)

	assert.Equal(t, Selected(1), first)
	assert.Equal(t, Skip, second)
}

func TestNewChooser(t *testing.T) {
	for _, policy := range Policies() {
		chooser, err := NewChooser(policy, strings.NewReader(""), &bytes.Buffer{})
		require.NoError(t, err, policy)
		assert.NotNil(t, chooser)
	}

	_, err := NewChooser("random", nil, nil)
	assert.ErrorContains(t, err, "unknown disambiguation policy")
}
