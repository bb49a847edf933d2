package includes

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	cmd.SetArgs(args)

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return stdout.String(), err
}

func TestIncludesCommand_ListsDirectivesAndCandidates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.cpp":   "#include \"util.h\"\n#include <vector>\n\n#include \"utl.h\"\n#include \"dup.h\"\n",
		"lib/util.h": "",
		"a/dup.h":    "",
		"b/dup.h":    "",
	})

	out, err := execute(t, "-p", root, "main.cpp")
	require.NoError(t, err)

	expected := `main.cpp
  1: local "util.h"
      lib/util.h
  2: system <vector>
      not matched without --use-brackets
  4: local "utl.h"
      no matching headers (did you mean "util.h"?)
  5: local "dup.h"
      a/dup.h
      b/dup.h
`
	assert.Equal(t, expected, out)
}

func TestIncludesCommand_BracketsResolved(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.cpp": "#include <vector>\n",
	})

	out, err := execute(t, "-p", root, "-b", "main.cpp")
	require.NoError(t, err)
	assert.Contains(t, out, "  1: system <vector>\n      no matching headers\n")
}

func TestIncludesCommand_NoDirectives(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.cpp": "int main() { return 0; }\n",
	})

	out, err := execute(t, "-p", root, "main.cpp")
	require.NoError(t, err)
	assert.Equal(t, "main.cpp\n  no #include directives\n", out)
}

func TestIncludesCommand_IgnoreCase(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.cpp":   "#include \"Util.h\"\n",
		"lib/util.h": "",
	})

	out, err := execute(t, "-p", root, "main.cpp")
	require.NoError(t, err)
	assert.Contains(t, out, `did you mean "util.h"?`)

	out, err = execute(t, "-p", root, "-i", "main.cpp")
	require.NoError(t, err)
	assert.Contains(t, out, "      lib/util.h\n")
}

func TestIncludesCommand_RequiresFiles(t *testing.T) {
	_, err := execute(t, "-p", t.TempDir())
	require.Error(t, err)
}

func TestIncludesCommand_RejectsFilesOutsideRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"main.cpp": ""})

	_, err := execute(t, "-p", root, filepath.Join(t.TempDir(), "other.cpp"))
	require.Error(t, err)
}
