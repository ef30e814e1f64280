package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// ToolMode selects the archive tool subcommand.
type ToolMode string

const (
	// ToolModeDump produces the block-per-texture output used for
	// BTDX-DX10 archives.
	ToolModeDump ToolMode = "-dump"
	// ToolModeList produces the line-per-entry output used for BTDX-GNRL
	// archives.
	ToolModeList ToolMode = "-list"
)

// ArchiveTool runs the external archive inspection binary against one
// archive and returns its captured output. Implementations MUST enforce
// a bounded timeout and MUST be safe for concurrent use; the engine
// serializes calls only through the subprocess limiter.
type ArchiveTool interface {
	Inspect(ctx context.Context, archivePath string, mode ToolMode) (stdout string, stderr string, err error)
}

// ExecArchiveTool implements ArchiveTool using os/exec with a hard
// per-invocation timeout. On expiry the subprocess is killed and
// ErrToolTimeout is returned.
type ExecArchiveTool struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewExecArchiveTool creates a tool invoker for the executable at path.
func NewExecArchiveTool(path string, loggerHandler slog.Handler) *ExecArchiveTool {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "archiveTool"))
	return &ExecArchiveTool{path: path, timeout: ToolTimeout, logger: logger}
}

// Inspect runs `<tool> <archive> <mode>` and captures stdout/stderr, each
// capped at maxToolOutputBytes.
func (t *ExecArchiveTool) Inspect(ctx context.Context, archivePath string, mode ToolMode) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.path, archivePath, string(mode))
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &cappedWriter{w: &stdoutBuf, remaining: maxToolOutputBytes}
	cmd.Stderr = &cappedWriter{w: &stderrBuf, remaining: maxToolOutputBytes}

	t.logger.Debug("Invoking archive tool",
		slog.String("archive", archivePath),
		slog.String("mode", string(mode)))

	runErr := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if ctx.Err() == context.DeadlineExceeded {
		t.logger.Warn("Archive tool timed out",
			slog.String("archive", archivePath),
			slog.Duration("timeout", t.timeout))
		return stdout, stderr, fmt.Errorf("%w: %s", ErrToolTimeout, archivePath)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			t.logger.Warn("Archive tool exited non-zero",
				slog.String("archive", archivePath),
				slog.Int("exitCode", exitErr.ExitCode()),
				slog.String("stderr", stderr))
			return stdout, stderr, fmt.Errorf("%w: exit code %d: %s", ErrToolNonZeroExit, exitErr.ExitCode(), stderr)
		}
		return stdout, stderr, fmt.Errorf("%w: %v", ErrToolStart, runErr)
	}
	return stdout, stderr, nil
}

// cappedWriter discards bytes beyond its remaining budget. exec.Cmd keeps
// writing; the cap only bounds what we retain.
type cappedWriter struct {
	w         io.Writer
	remaining int
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if c.remaining <= 0 {
		return n, nil
	}
	if n > c.remaining {
		p = p[:c.remaining]
	}
	written, err := c.w.Write(p)
	c.remaining -= written
	if err != nil {
		return written, err
	}
	return n, nil
}
