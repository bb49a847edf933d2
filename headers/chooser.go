package headers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Choice is the outcome of picking between candidates.
type Choice struct {
	// Index is the chosen candidate, valid when Skipped is false.
	Index   int
	Skipped bool
}

// Selected picks the candidate at index i.
func Selected(i int) Choice {
	return Choice{Index: i}
}

// Skip leaves the directive unchanged.
var Skip = Choice{Skipped: true}

// Chooser picks one of several candidates for a header. It is only consulted
// when more than one candidate exists.
type Chooser interface {
	Choose(header string, candidates []SourceFile) (Choice, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(header string, candidates []SourceFile) (Choice, error)

func (f ChooserFunc) Choose(header string, candidates []SourceFile) (Choice, error) {
	return f(header, candidates)
}

// FirstMatch always picks the first candidate in discovery order.
type FirstMatch struct{}

func (FirstMatch) Choose(string, []SourceFile) (Choice, error) {
	return Selected(0), nil
}

// SkipAmbiguous leaves every ambiguous directive unchanged.
type SkipAmbiguous struct{}

func (SkipAmbiguous) Choose(string, []SourceFile) (Choice, error) {
	return Skip, nil
}

// AmbiguityError reports a header with several candidates under a policy
// that does not allow picking one.
type AmbiguityError struct {
	Header     string
	Candidates []SourceFile
}

func (e *AmbiguityError) Error() string {
	paths := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		paths = append(paths, c.Path)
	}
	return fmt.Sprintf("header %q is ambiguous: %s", e.Header, strings.Join(paths, ", "))
}

// FailOnAmbiguity rejects every ambiguous directive with an *AmbiguityError.
type FailOnAmbiguity struct{}

func (FailOnAmbiguity) Choose(header string, candidates []SourceFile) (Choice, error) {
	return Skip, &AmbiguityError{Header: header, Candidates: candidates}
}

// PromptMode selects how an InteractivePrompt treats operator input.
type PromptMode int

const (
	// PromptStrict asks until it reads a number in [0, count]; 0 skips.
	PromptStrict PromptMode = iota
	// PromptLenient asks once; anything but a number in [1, count] picks
	// the first candidate.
	PromptLenient
)

// InteractivePrompt lists the candidates and reads the operator's pick, one
// line per prompt.
type InteractivePrompt struct {
	mode    PromptMode
	scanner *bufio.Scanner
	out     io.Writer
}

// NewInteractivePrompt reads answers from in and writes prompts to out.
func NewInteractivePrompt(in io.Reader, out io.Writer, mode PromptMode) *InteractivePrompt {
	return &InteractivePrompt{
		mode:    mode,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (p *InteractivePrompt) Choose(_ string, candidates []SourceFile) (Choice, error) {
	fmt.Fprintln(p.out, "\t\tFound multiple matching headers:")
	for i, c := range candidates {
		fmt.Fprintf(p.out, "\t\t\t[%d]: %s\n", i+1, c.Path)
	}

	if p.mode == PromptLenient {
		return p.chooseLenient(len(candidates)), nil
	}
	return p.chooseStrict(len(candidates)), nil
}

func (p *InteractivePrompt) chooseLenient(count int) Choice {
	fmt.Fprintln(p.out, "\t\tChoose header (enter number 1 or greater):")
	line, _ := p.readLine()

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > count {
		fmt.Fprintln(p.out, "\t\tChoosing the first result...")
		return Selected(0)
	}
	return Selected(n - 1)
}

func (p *InteractivePrompt) chooseStrict(count int) Choice {
	for {
		fmt.Fprint(p.out, "\t\tChoose header (enter number 1 or greater, 0 to skip): ")
		line, ok := p.readLine()
		if !ok {
			fmt.Fprintln(p.out, "\n\t\tNo more input. Skipping...")
			return Skip
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 0 || n > count {
			continue
		}
		if n == 0 {
			fmt.Fprintln(p.out, "\t\tSkipping...")
			return Skip
		}
		return Selected(n - 1)
	}
}

func (p *InteractivePrompt) readLine() (string, bool) {
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// Policy names a disambiguation behaviour selectable from the command line.
type Policy string

const (
	PolicyPrompt        Policy = "prompt"
	PolicyPromptLenient Policy = "prompt-lenient"
	PolicyFirst         Policy = "first"
	PolicySkip          Policy = "skip"
	PolicyFail          Policy = "fail"
)

// Policies returns every supported policy in display order.
func Policies() []Policy {
	return []Policy{PolicyPrompt, PolicyPromptLenient, PolicyFirst, PolicySkip, PolicyFail}
}

// Interactive reports whether the policy reads operator input.
func (p Policy) Interactive() bool {
	return p == PolicyPrompt || p == PolicyPromptLenient
}

// NewChooser returns the Chooser for policy. in and out are only used by the
// interactive policies.
func NewChooser(policy Policy, in io.Reader, out io.Writer) (Chooser, error) {
	switch policy {
	case PolicyPrompt:
		return NewInteractivePrompt(in, out, PromptStrict), nil
	case PolicyPromptLenient:
		return NewInteractivePrompt(in, out, PromptLenient), nil
	case PolicyFirst:
		return FirstMatch{}, nil
	case PolicySkip:
		return SkipAmbiguous{}, nil
	case PolicyFail:
		return FailOnAmbiguity{}, nil
	default:
		return nil, fmt.Errorf("unknown disambiguation policy: %s (valid options: %s)", policy, policyList())
	}
}

func policyList() string {
	names := make([]string, 0, len(Policies()))
	for _, p := range Policies() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
