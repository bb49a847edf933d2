package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
exclude = ["third_party/**"]
include_dirs_file = "include_dirs.txt"
use_brackets = true
choose = "first"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Default().Extensions, cfg.Extensions)
	assert.Equal(t, []string{"third_party/**"}, cfg.Exclude)
	assert.Equal(t, filepath.Join(dir, "include_dirs.txt"), cfg.IncludeDirsFile)
	assert.True(t, cfg.UseBrackets)
	assert.False(t, cfg.IgnoreCase)
	assert.Equal(t, "first", cfg.Choose)
}

func TestLoad_OverridesExtensions(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `extensions = [".cc", ".hh"]`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".cc", ".hh"}, cfg.Extensions)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `dry_run = true`)

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"policy":   `choose = "coinflip"`,
		"encoding": `encoding = "klingon"`,
		"pattern":  `exclude = ["[oops"]`,
		"syntax":   `choose = `,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadForRoot_MissingFileUsesDefaults(t *testing.T) {
	cfg, path, err := LoadForRoot(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoadForRoot_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `ignore_case = true`)

	cfg, path, err := LoadForRoot(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)
	assert.True(t, cfg.IgnoreCase)
}
