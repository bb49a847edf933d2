package internal

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	rewritecmd "github.com/LegacyCodeHQ/relativize/cmd/rewrite"
)

// RewriteSubcommand runs the rewrite command with args and returns its
// standard output.
func RewriteSubcommand(t *testing.T, args ...string) string {
	t.Helper()

	cmd := rewritecmd.NewCommand()
	cmd.SetArgs(args)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))

	err := cmd.Execute()
	require.NoError(t, err, "stderr: %s", strings.TrimSpace(stderr.String()))

	return stdout.String()
}

// CopyFixture copies the named fixture tree into a temporary directory and
// returns its path.
func CopyFixture(t *testing.T, name string) string {
	t.Helper()

	src := filepath.Join(RepoRoot(t), "testdata", "integration", "fixtures", name)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)

	return dst
}

// SnapshotTree renders every file under root, sorted by path, as one text
// block suitable for golden comparison.
func SnapshotTree(t *testing.T, root string) string {
	t.Helper()

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)

	var sb strings.Builder
	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		sb.WriteString("== " + filepath.ToSlash(rel) + " ==\n")
		sb.Write(data)
	}
	return sb.String()
}

// RepoRoot returns the directory holding go.mod.
func RepoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	repoRoot := wd
	for i := 0; i < 10; i++ {
		_, err = os.Stat(filepath.Join(repoRoot, "go.mod"))
		if err == nil {
			return repoRoot
		}

		parent := filepath.Dir(repoRoot)
		if parent == repoRoot {
			break
		}
		repoRoot = parent
	}

	require.NoError(t, err, "expected repo root with go.mod, got %s", repoRoot)
	return repoRoot
}
