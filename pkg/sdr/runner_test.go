package sdr

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool writes an executable shell script standing in for rtl_power_fftw.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake_rtl_power_fftw")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRunnerRun(t *testing.T) {
	tool := fakeTool(t, `echo "# args: $*"
echo "442000000 -50.5"
echo "442001953 -49.0"
`)

	c := DefaultConfig()
	c.Runtime = tool
	c.Output = filepath.Join(t.TempDir(), "scan.txt")

	r, err := NewRunner(c)
	require.NoError(t, err)
	assert.Equal(t, c, r.Config())

	path, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.Output, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# args: -f 442000000:443000000 -b 512 -t 10\n442000000 -50.5\n442001953 -49.0\n", string(data))
}

func TestRunnerRunFailure(t *testing.T) {
	tool := fakeTool(t, `echo "usb_claim_interface error -6" >&2
exit 1
`)

	c := DefaultConfig()
	c.Runtime = tool
	c.Output = filepath.Join(t.TempDir(), "scan.txt")

	r, err := NewRunner(c)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
	assert.Contains(t, err.Error(), "usb_claim_interface error -6")
}

func TestRunnerRunFailureKeepsPreviousScan(t *testing.T) {
	tool := fakeTool(t, `echo "442000000 -10.0"
exit 1
`)

	dir := t.TempDir()
	c := DefaultConfig()
	c.Runtime = tool
	c.Output = filepath.Join(dir, "scan.txt")
	require.NoError(t, os.WriteFile(c.Output, []byte("442000000 -50.5\n"), 0o644))

	r, err := NewRunner(c)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(c.Output)
	require.NoError(t, err)
	assert.Equal(t, "442000000 -50.5\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary scan file must be removed")
}

func TestRunnerCancelled(t *testing.T) {
	tool := fakeTool(t, "sleep 5\n")

	c := DefaultConfig()
	c.Runtime = tool
	c.Output = filepath.Join(t.TempDir(), "scan.txt")

	r, err := NewRunner(c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx)
	assert.Error(t, err)
}

func TestNewRunnerErrors(t *testing.T) {
	c := DefaultConfig()
	c.Runtime = "definitely-not-an-sdr-tool"
	_, err := NewRunner(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error finding runtime")

	c = DefaultConfig()
	c.Bins = 0
	_, err = NewRunner(c)
	assert.Error(t, err)
}
