package includes

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/relativize/cmd/options"
	"github.com/LegacyCodeHQ/relativize/cparse"
	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/runner"
	"github.com/LegacyCodeHQ/relativize/sourcefs"
)

// Cmd represents the includes command.
var Cmd = NewCommand()

// NewCommand returns a new includes command instance.
func NewCommand() *cobra.Command {
	opts := &options.Options{}

	cmd := &cobra.Command{
		Use:   "includes <file>...",
		Short: "List the #include directives of files and the headers they match",
		Long: `List every #include directive of the given files with its line number and
kind, followed by the project files that have the included file name.

File arguments are resolved against the root directory.

Examples:
  relativize includes src/main.cpp
  relativize includes -p ./src -a include_dirs.txt main.cpp util.h`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIncludes(cmd, opts, args)
		},
	}

	options.AddSourceFlags(cmd, opts)

	return cmd
}

func runIncludes(cmd *cobra.Command, opts *options.Options, args []string) error {
	settings, err := opts.Resolve(cmd)
	if err != nil {
		return err
	}
	cfg, err := settings.RunnerConfig(nil)
	if err != nil {
		return err
	}

	resolver, err := newPathResolver(settings.Root)
	if err != nil {
		return err
	}
	files := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := resolver.resolve(arg)
		if err != nil {
			return err
		}
		files = append(files, path)
	}

	session, err := runner.Prepare(cfg, options.WarningObserver{W: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	l := lister{
		out:           cmd.OutOrStdout(),
		root:          session.Root(),
		index:         session.Index(),
		caseSensitive: cfg.CaseSensitive,
		brackets:      cfg.Brackets,
		read:          sourcefs.FilesystemContentReader(),
	}
	for _, file := range files {
		if err := l.list(cmd, file); err != nil {
			return err
		}
	}
	return nil
}

type lister struct {
	out           io.Writer
	root          string
	index         *headers.Index
	caseSensitive bool
	brackets      bool
	read          sourcefs.ContentReader
}

func (l lister) list(cmd *cobra.Command, file string) error {
	text, err := sourcefs.ReadText(l.read, file)
	if err != nil {
		return err
	}
	found, err := cparse.ParseIncludes(cmd.Context(), []byte(text.Content), cparse.DialectFor(file))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	fmt.Fprintln(l.out, l.display(file))
	if len(found) == 0 {
		fmt.Fprintln(l.out, "  no #include directives")
		return nil
	}

	for _, inc := range found {
		fmt.Fprintf(l.out, "  %d: %s %s\n", inc.Line, inc.Kind, quote(inc))
		if inc.Kind == cparse.IncludeSystem && !l.brackets {
			fmt.Fprintln(l.out, "      not matched without --use-brackets")
			continue
		}

		name := headers.IncludeBaseName(inc.Path)
		candidates := l.index.Find(name, l.caseSensitive)
		if len(candidates) == 0 {
			if suggestion, ok := l.index.Suggest(name); ok {
				fmt.Fprintf(l.out, "      no matching headers (did you mean %q?)\n", suggestion)
			} else {
				fmt.Fprintln(l.out, "      no matching headers")
			}
			continue
		}
		for _, c := range candidates {
			fmt.Fprintf(l.out, "      %s\n", l.display(c.Path))
		}
	}
	return nil
}

func (l lister) display(path string) string {
	if rel, err := filepath.Rel(l.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

func quote(inc cparse.Include) string {
	if inc.Kind == cparse.IncludeSystem {
		return "<" + inc.Path + ">"
	}
	return `"` + inc.Path + `"`
}
