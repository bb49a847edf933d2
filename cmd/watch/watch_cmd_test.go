package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatchCommand_RewritesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	writeSource(t, filepath.Join(root, "lib", "util.h"), "")
	mainPath := filepath.Join(root, "main.cpp")
	writeSource(t, mainPath, "#include \"util.h\"\n")

	cmd := NewCommand()
	cmd.SetArgs([]string{"-p", root})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(mainPath)
		return err == nil && string(data) == "#include \"lib/util.h\"\n"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, stdout.String(), "Watching "+root)
}

func TestWatchCommand_RejectsInteractivePolicy(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"-p", t.TempDir(), "--choose", "prompt"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported by watch")
}

func TestWatchCommand_RejectsStaging(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"-p", t.TempDir(), "-s", t.TempDir()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--staging")
}
