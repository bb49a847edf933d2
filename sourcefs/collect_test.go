package sourcefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("// "+f+"\n"), 0o644))
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestCollect_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/a.cpp",
		"src/a.h",
		"src/readme.md",
		"include/lib.hpp",
		"include/detail/impl.inl",
		".git/config.h",
	)

	files, err := Collect(root, CollectOptions{Extensions: DefaultExtensions})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"include/detail/impl.inl",
		"include/lib.hpp",
		"src/a.cpp",
		"src/a.h",
	}, relAll(t, root, files))
}

func TestCollect_NoExtensionsReturnsEverything(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "string", "vector", "bits/stl_algo.h")

	files, err := Collect(root, CollectOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"bits/stl_algo.h", "string", "vector"}, relAll(t, root, files))
}

func TestCollect_Exclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/a.cpp",
		"build/gen/out.h",
		"third_party/zlib/zlib.h",
		"src/generated_parser.cpp",
	)

	files, err := Collect(root, CollectOptions{
		Extensions: DefaultExtensions,
		Exclude:    []string{"build", "third_party/**", "**/generated_*"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.cpp"}, relAll(t, root, files))
}

func TestCollect_ReturnsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.c")

	files, err := Collect(root, CollectOptions{Extensions: DefaultExtensions})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]))
}

func TestValidatePatterns(t *testing.T) {
	assert.NoError(t, ValidatePatterns([]string{"**/*.h", "build"}))
	assert.Error(t, ValidatePatterns([]string{"[unterminated"}))
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("/src/a.h", DefaultExtensions))
	assert.True(t, HasExtension("/src/a.c++", DefaultExtensions))
	assert.False(t, HasExtension("/src/a.H", DefaultExtensions))
	assert.False(t, HasExtension("/src/notes.txt", DefaultExtensions))
	assert.True(t, HasExtension("/src/notes.txt", nil))
}

func TestSkippedDir(t *testing.T) {
	assert.True(t, SkippedDir(".git"))
	assert.False(t, SkippedDir("src"))
}
