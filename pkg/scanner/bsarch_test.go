package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// fakeTool writes a shell script standing in for the archive tool and
// returns its path. Archive path and mode arrive as $1 and $2.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tool stub requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "bsarch")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestExecArchiveToolCapturesOutput(t *testing.T) {
	tool := scanner.NewExecArchiveTool(fakeTool(t, `echo "listing for $1 mode $2"; echo "warn" >&2`), nil)

	stdout, stderr, err := tool.Inspect(context.Background(), "/mods/a.ba2", scanner.ToolModeList)
	require.NoError(t, err)
	assert.Contains(t, stdout, "listing for /mods/a.ba2 mode -list")
	assert.Contains(t, stderr, "warn")
}

func TestExecArchiveToolNonZeroExit(t *testing.T) {
	tool := scanner.NewExecArchiveTool(fakeTool(t, `echo "partial"; echo "corrupt archive" >&2; exit 3`), nil)

	stdout, stderr, err := tool.Inspect(context.Background(), "/mods/a.ba2", scanner.ToolModeDump)
	assert.ErrorIs(t, err, scanner.ErrToolNonZeroExit)
	assert.Contains(t, err.Error(), "corrupt archive")
	assert.Contains(t, stdout, "partial")
	assert.Contains(t, stderr, "corrupt archive")
}

func TestExecArchiveToolMissingExecutable(t *testing.T) {
	tool := scanner.NewExecArchiveTool(filepath.Join(t.TempDir(), "nope"), nil)

	_, _, err := tool.Inspect(context.Background(), "/mods/a.ba2", scanner.ToolModeList)
	assert.ErrorIs(t, err, scanner.ErrToolStart)
}

func TestExecArchiveToolHonorsCallerCancellation(t *testing.T) {
	tool := scanner.NewExecArchiveTool(fakeTool(t, `sleep 30`), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := tool.Inspect(ctx, "/mods/a.ba2", scanner.ToolModeList)
	assert.Error(t, err)
}
