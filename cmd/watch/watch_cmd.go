package watch

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/relativize/cmd/options"
	"github.com/LegacyCodeHQ/relativize/headers"
)

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &options.Options{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite #include directives whenever source files change",
		Long: `Run a rewrite pass over the root directory, then watch it and run another
pass whenever a source file is created, modified or removed.

Changes made by the passes themselves do not trigger a new pass. Prompting is
not available while watching; --choose must be first, skip or fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	options.AddSourceFlags(cmd, opts)
	options.AddRewriteFlags(cmd, opts, headers.PolicySkip)

	return cmd
}

func runWatch(cmd *cobra.Command, opts *options.Options) error {
	settings, err := opts.Resolve(cmd)
	if err != nil {
		return err
	}
	if settings.StagingDir != "" {
		return fmt.Errorf("--staging cannot be used with watch")
	}

	policy := headers.Policy(settings.Choose)
	if policy.Interactive() {
		return fmt.Errorf("--choose %s is not supported by watch (use first, skip or fail)", policy)
	}
	chooser, err := headers.NewChooser(policy, nil, nil)
	if err != nil {
		return err
	}

	cfg, err := settings.RunnerConfig(chooser)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", settings.Root)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return newRewriteLoop(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()).run(ctx)
}
