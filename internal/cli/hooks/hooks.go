// Package hooks bridges scanner events to the CLI's output layer
// (logger and progress bar).
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// ProgressBar defines the interface needed to interact with the
// progress bar. The signatures mirror *progressbar.ProgressBar so the
// real bar satisfies it directly.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// NoOpProgressBar provides a default null implementation.
type NoOpProgressBar struct{}

// Add implements ProgressBar.
func (n *NoOpProgressBar) Add(num int) error { return nil }

// Describe implements ProgressBar.
func (n *NoOpProgressBar) Describe(description string) {}

// Close implements ProgressBar.
func (n *NoOpProgressBar) Close() error { return nil }

// CLIHooks implements the scanner.Hooks interface. Status updates
// arrive concurrently from scan workers; the mutex serializes progress
// bar access.
type CLIHooks struct {
	logger         *slog.Logger
	verboseEnabled bool
	progressBar    ProgressBar
	mu             sync.Mutex
}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for progBar if
// not applicable; a NoOp version will be used.
func NewCLIHooks(logger *slog.Logger, verboseEnabled bool, progBar ProgressBar) scanner.Hooks {
	if progBar == nil {
		progBar = &NoOpProgressBar{}
	}
	return &CLIHooks{
		logger:         logger,
		verboseEnabled: verboseEnabled,
		progressBar:    progBar,
	}
}

// OnTargetDiscovered handles the event when a scan target (directory or
// archive) is found by the walker.
func (h *CLIHooks) OnTargetDiscovered(path string) error {
	if h.verboseEnabled {
		h.logger.Debug("Scan target discovered", "path", path)
	}
	return nil
}

// OnTargetStatusUpdate handles events when a target's processing status
// changes. This method MUST be thread-safe.
func (h *CLIHooks) OnTargetStatusUpdate(path string, status scanner.Status, message string, duration time.Duration) error {
	if h.verboseEnabled {
		logLevel := slog.LevelDebug
		logMsg := "Target status updated"
		attrs := []any{
			slog.String("path", path),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			logKey := "message"
			if status == scanner.StatusFailed {
				logKey = "error"
			}
			attrs = append(attrs, slog.String(logKey, message))
		}

		switch status {
		case scanner.StatusSuccess, scanner.StatusSkipped:
			logLevel = slog.LevelInfo
		case scanner.StatusFailed:
			logLevel = slog.LevelError
			logMsg = "Target processing failed"
		}
		h.logger.Log(nil, logLevel, logMsg, attrs...)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	isFinalState := status == scanner.StatusSuccess ||
		status == scanner.StatusFailed ||
		status == scanner.StatusSkipped
	if isFinalState {
		_ = h.progressBar.Add(1)
	}
	if status == scanner.StatusFailed {
		h.logger.Error("Target processing failed", "path", path, "error", message)
	}
	return nil
}

// OnScanComplete finalizes the progress bar when the whole run
// finishes. The final report output is handled by the CLI layer.
func (h *CLIHooks) OnScanComplete(report scanner.Report) error {
	h.mu.Lock()
	_ = h.progressBar.Close()
	h.mu.Unlock()
	// Newline after the progress bar to prevent prompt overlap.
	_, _ = fmt.Fprintf(os.Stderr, "\n")
	return nil
}
