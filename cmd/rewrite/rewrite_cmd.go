package rewrite

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/relativize/cmd/options"
	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/rewriter"
	"github.com/LegacyCodeHQ/relativize/runner"
)

// Cmd represents the rewrite command.
var Cmd = NewCommand()

// NewCommand returns a new rewrite command instance.
func NewCommand() *cobra.Command {
	opts := &options.Options{}

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite #include directives to use relative paths",
		Long: `Read every source file under the root directory and rewrite its #include
directives so that each path is relative to the including file, or to the most
specific additional include directory containing the header.

Headers are matched by file name. When several files share a name the
--choose policy decides which one is used.

Examples:
  relativize rewrite                                  # current directory, in place
  relativize rewrite -p ./src -d                      # dry run
  relativize rewrite -a include_dirs.txt -b           # include directories, <...> too
  relativize rewrite -s ../staging --choose first     # write copies, never prompt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRewrite(cmd, opts)
		},
	}

	options.AddSourceFlags(cmd, opts)
	options.AddRewriteFlags(cmd, opts, headers.PolicyPrompt)

	return cmd
}

func runRewrite(cmd *cobra.Command, opts *options.Options) error {
	settings, err := opts.Resolve(cmd)
	if err != nil {
		return err
	}

	policy := headers.Policy(settings.Choose)
	chooser, err := headers.NewChooser(policy, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := settings.RunnerConfig(chooser)
	if err != nil {
		return err
	}

	obs := newConsoleObserver(cmd.OutOrStdout(), cmd.ErrOrStderr(), policy.Interactive())
	totals, err := runner.Run(cmd.Context(), cfg, obs)
	if err != nil {
		if rewriter.IsAmbiguity(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Hint: use --choose first, prompt or skip to continue past ambiguous headers.")
		}
		return fmt.Errorf("rewrite failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Replaced %d include directives in %d files (%d files scanned).\n",
		totals.Replacements, totals.FilesChanged, totals.FilesScanned)
	return nil
}
