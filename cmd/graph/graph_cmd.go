package graph

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/relativize/cmd/options"
	"github.com/LegacyCodeHQ/relativize/includegraph"
	"github.com/LegacyCodeHQ/relativize/runner"
)

type graphOptions struct {
	options.Options
	allCandidates bool
	cycles        bool
}

// Cmd represents the graph command.
var Cmd = NewCommand()

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the include graph of the source tree",
		Long: `Print the include graph of the source tree in Graphviz DOT format.

Each directive is resolved by file name the same way rewrite resolves it.
Directives with several candidates add no edge unless --all-candidates is
set, in which case an edge is drawn to every candidate.

Examples:
  relativize graph | dot -Tsvg > includes.svg
  relativize graph -p ./src --all-candidates
  relativize graph --cycles                    # list include cycles only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	options.AddSourceFlags(cmd, &opts.Options)
	cmd.Flags().BoolVar(&opts.allCandidates, "all-candidates", false, "Draw an edge to every candidate of an ambiguous directive")
	cmd.Flags().BoolVar(&opts.cycles, "cycles", false, "Print the files involved in include cycles instead of the graph")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	settings, err := opts.Resolve(cmd)
	if err != nil {
		return err
	}
	cfg, err := settings.RunnerConfig(nil)
	if err != nil {
		return err
	}

	session, err := runner.Prepare(cfg, options.WarningObserver{W: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	g, err := includegraph.Build(cmd.Context(), session.SourceFiles(), includegraph.Options{
		Root:          session.Root(),
		Index:         session.Index(),
		CaseSensitive: cfg.CaseSensitive,
		Brackets:      cfg.Brackets,
		AllCandidates: opts.allCandidates,
	})
	if err != nil {
		return fmt.Errorf("failed to build include graph: %w", err)
	}

	if !opts.cycles {
		return g.WriteDOT(cmd.OutOrStdout())
	}

	cycles, err := g.Cycles()
	if err != nil {
		return fmt.Errorf("failed to find include cycles: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(cycles) == 0 {
		fmt.Fprintln(out, "No include cycles found.")
		return nil
	}
	for i, files := range cycles {
		fmt.Fprintf(out, "Cycle %d: %s\n", i+1, strings.Join(files, ", "))
	}
	return nil
}
