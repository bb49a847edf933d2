package graph

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

func TestGraphCommand_DOT(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.cpp":      "#include \"engine.h\"\n",
		"core/engine.h": "",
	})

	out, err := execute(t, "-p", root)
	require.NoError(t, err)

	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"main.cpp" -> "core/engine.h"`)
}

func TestGraphCommand_AllCandidates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.cpp": "#include \"dup.h\"\n",
		"a/dup.h":  "",
		"b/dup.h":  "",
	})

	out, err := execute(t, "-p", root)
	require.NoError(t, err)
	assert.NotContains(t, out, "->")

	out, err = execute(t, "-p", root, "--all-candidates")
	require.NoError(t, err)
	assert.Contains(t, out, `"main.cpp" -> "a/dup.h"`)
	assert.Contains(t, out, `"main.cpp" -> "b/dup.h"`)
}

func TestGraphCommand_Cycles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.h":      "#include \"b.h\"\n",
		"b.h":      "#include \"a.h\"\n",
		"main.cpp": "#include \"a.h\"\n",
	})

	out, err := execute(t, "-p", root, "--cycles")
	require.NoError(t, err)
	assert.Equal(t, "Cycle 1: a.h, b.h\n", out)
}

func TestGraphCommand_NoCycles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.h":      "",
		"main.cpp": "#include \"a.h\"\n",
	})

	out, err := execute(t, "-p", root, "--cycles")
	require.NoError(t, err)
	assert.Equal(t, "No include cycles found.\n", out)
}

func TestGraphCommand_MissingRoot(t *testing.T) {
	_, err := execute(t, "-p", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
