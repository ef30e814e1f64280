package cli_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/assert"

	"github.com/evildarkarchon/ClassicLib/internal/cli"
	"github.com/evildarkarchon/ClassicLib/internal/cli/hooks"
	"github.com/evildarkarchon/ClassicLib/internal/testutil"
	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// The real progress bar must satisfy the hooks interface directly.
var _ hooks.ProgressBar = (*progressbar.ProgressBar)(nil)

func TestRunDryRunCompletes(t *testing.T) {
	mods := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(mods, "ModA", "music.mp3"), "x")

	opts := scanner.Options{
		ModsPath:   mods,
		BackupPath: filepath.Join(t.TempDir(), "backup"),
		DryRun:     true,
		Warn:       scanner.Warnings{ToolMissing: "tool warning\n"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := cli.Run(context.Background(), opts, logger)
	assert.NoError(t, err)
}
