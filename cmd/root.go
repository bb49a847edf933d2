package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/relativize/cmd/graph"
	"github.com/LegacyCodeHQ/relativize/cmd/includes"
	"github.com/LegacyCodeHQ/relativize/cmd/rewrite"
	"github.com/LegacyCodeHQ/relativize/cmd/watch"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relativize",
		Short: "Rewrite C/C++ #include directives to use relative paths",
		Long: `Relativize rewrites the #include directives of a C/C++ source tree so that
every project header is included by its path relative to the including file,
or to the most specific additional include directory that contains it.

Use 'relativize --help' to see all available commands, or
'relativize <command> --help' for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.AddCommand(rewrite.NewCommand())
	cmd.AddCommand(includes.NewCommand())
	cmd.AddCommand(graph.NewCommand())
	cmd.AddCommand(watch.NewCommand())

	// Initialize annotations for version template
	cmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
