// Package cli orchestrates the main application logic after
// configuration loading: run locking, progress reporting and final
// report output.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/evildarkarchon/ClassicLib/internal/cli/hooks"
	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// lockFileName guards against two scans relocating files out of the
// same mod tree at once.
const lockFileName = "classiclib-scan.lock"

// Run executes a full scan with the validated options and writes the
// report to stdout in the configured format.
func Run(ctx context.Context, opts scanner.Options, logger *slog.Logger) error {
	if !opts.DryRun {
		lock := flock.New(filepath.Join(os.TempDir(), lockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			logger.Error("Could not acquire scan lock", slog.Any("error", err))
			return fmt.Errorf("%w: %v", scanner.ErrScanLocked, err)
		}
		if !locked {
			logger.Error("Another scan is already running", slog.String("lockFile", lock.Path()))
			return fmt.Errorf("%w: another scan is already running", scanner.ErrScanLocked)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	var bar hooks.ProgressBar
	interactive := isatty.IsTerminal(os.Stderr.Fd()) && !opts.Verbose && opts.OutputFormat == scanner.OutputFormatText
	if interactive {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scanning mod files..."),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
		)
	}
	opts.EventHooks = hooks.NewCLIHooks(logger, opts.Verbose, bar)

	engine, err := scanner.NewEngine(opts)
	if err != nil {
		logger.Error("Engine initialization failed", slog.Any("error", err))
		return err
	}

	report, runErr := engine.Run(ctx)
	if runErr != nil && !errors.Is(runErr, scanner.ErrModsPathInvalid) {
		logger.Error("Scan run failed", slog.Any("error", runErr))
		return runErr
	}

	if opts.OutputFormat == scanner.OutputFormatJSON {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("Failed to encode JSON report", slog.Any("error", err))
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		fmt.Println(string(encoded))
		return runErr
	}

	printTextReport(report, interactive)
	return runErr
}

// printTextReport writes the report text plus a short colored summary
// footer. Color is suppressed automatically when stdout is not a
// terminal.
func printTextReport(report *scanner.Report, interactive bool) {
	fmt.Print(report.Text)
	if !interactive {
		return
	}

	bold := color.New(color.Bold)
	fmt.Println()
	_, _ = bold.Println("SCAN SUMMARY")
	fmt.Printf("  Directories scanned : %d\n", report.Summary.DirectoriesScanned)
	fmt.Printf("  Archives scanned    : %d\n", report.Summary.ArchivesScanned)
	fmt.Printf("  Log files scanned   : %d\n", report.Summary.LogFilesScanned)

	issues := report.Summary.UnpackedIssueCount + report.Summary.ArchivedIssueCount
	switch {
	case report.Summary.FatalErrorOccurred:
		_, _ = color.New(color.FgRed, color.Bold).Printf("  Scan aborted with a fatal error\n")
	case issues > 0 || report.Summary.LogErrorBlocks > 0:
		_, _ = color.New(color.FgYellow).Printf("  Issues found        : %d (+%d log files with errors)\n",
			issues, report.Summary.LogErrorBlocks)
	default:
		_, _ = color.New(color.FgGreen).Printf("  No issues found\n")
	}
	if report.Summary.DryRun {
		fmt.Println("  Dry run: no files were moved")
	}
	fmt.Printf("  Duration            : %.2fs\n", report.Summary.DurationSeconds)
}
