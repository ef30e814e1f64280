package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Engine coordinates a full diagnostic scan. Construct with NewEngine;
// one Engine handles one Run.
type Engine struct {
	opts     Options
	logger   *slog.Logger
	hooks    Hooks
	tool     ArchiveTool
	governor *Governor

	dirsScanned     atomic.Int64
	archivesScanned atomic.Int64
	logFilesScanned atomic.Int64
	unpackedIssues  atomic.Int64
	archivedIssues  atomic.Int64
	logErrorBlocks  atomic.Int64
}

// NewEngine validates the options, fills injected-dependency defaults
// and returns a ready engine. Validation failures wrap
// ErrSettingsValidation; a missing mods path is not a validation
// failure, the scans report it as a prerequisite warning instead.
func NewEngine(opts Options) (*Engine, error) {
	switch opts.OutputFormat {
	case "", OutputFormatText, OutputFormatJSON:
	default:
		return nil, fmt.Errorf("%w: invalid output format '%s'", ErrSettingsValidation, opts.OutputFormat)
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = OutputFormatText
	}
	if opts.ModsPath != "" && opts.BackupPath == "" {
		return nil, fmt.Errorf("%w: backup path is required when a mods path is set", ErrSettingsValidation)
	}
	if opts.XSEAcronym == "" {
		opts.XSEAcronym = "XSE"
	}
	applyWarningDefaults(&opts.Warn)

	handler := opts.Logger
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	governor := opts.Governor
	if governor == nil {
		governor = NewGovernor()
	}
	logger := slog.New(handler).With(slog.String("component", "engine"))
	tool := opts.ArchiveTool
	if tool == nil {
		tool = NewExecArchiveTool(opts.ToolPath, handler)
	}

	return &Engine{
		opts:     opts,
		logger:   logger,
		hooks:    hooks,
		tool:     tool,
		governor: governor,
	}, nil
}

// applyWarningDefaults fills empty warning strings so callers that skip
// the settings layer still get actionable text.
func applyWarningDefaults(w *Warnings) {
	if w.ModsPathMissing == "" {
		w.ModsPathMissing = "❌ MODS FOLDER PATH NOT PROVIDED OR FOUND.\n" +
			"To scan your mod files, set the path to your staging mods folder.\n"
	}
	if w.ModsPathInvalid == "" {
		w.ModsPathInvalid = "❌ MODS FOLDER PATH IS INVALID.\n" +
			"The configured staging mods folder does not exist or is not a directory.\n"
	}
	if w.ToolMissing == "" {
		w.ToolMissing = "❌ ARCHIVE TOOL EXECUTABLE NOT FOUND.\n" +
			"Set the path to the BSArch executable to scan archived files.\n"
	}
}

// Run executes the whole scan: loose files, archives, then the log
// error check when a logs folder is configured. Prerequisite problems
// (missing mods path or tool) degrade into their warning text and the
// run continues; traversal failures and cancellation abort. The
// returned report is populated as far as the run got, even on error.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		Summary: ReportSummary{
			RunID:          uuid.NewString(),
			ModsPath:       e.opts.ModsPath,
			BackupPath:     e.opts.BackupPath,
			ConfigFilePath: e.opts.ConfigFilePath,
			DryRun:         e.opts.DryRun,
			SchemaVersion:  ReportSchemaVersion,
		},
	}
	e.logger.Info("Scan run starting",
		slog.String("runID", report.Summary.RunID),
		slog.String("modsPath", e.opts.ModsPath),
		slog.Bool("dryRun", e.opts.DryRun))

	var text string

	if e.opts.ModsPath != "" {
		if info, statErr := os.Stat(e.opts.ModsPath); statErr != nil || !info.IsDir() {
			e.logger.Error("Mods folder path is invalid", slog.String("path", e.opts.ModsPath))
			report.Summary.PrerequisiteWarning = true
			report.Text = e.opts.Warn.ModsPathInvalid
			e.finish(report, start)
			return report, fmt.Errorf("%w: %s", ErrModsPathInvalid, e.opts.ModsPath)
		}
	}

	unpacked, err := e.ScanUnpacked(ctx)
	modsMissing := errors.Is(err, ErrModsPathMissing)
	if err != nil && !modsMissing {
		report.Summary.FatalErrorOccurred = true
		report.Text = text + unpacked
		e.finish(report, start)
		return report, err
	}
	if modsMissing {
		report.Summary.PrerequisiteWarning = true
	}
	text += unpacked

	archived, err := e.ScanArchived(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrModsPathMissing):
			report.Summary.PrerequisiteWarning = true
			// The unpacked scan already emitted this warning text.
			archived = ""
		case errors.Is(err, ErrToolMissing):
			report.Summary.PrerequisiteWarning = true
		default:
			report.Summary.FatalErrorOccurred = true
			report.Text = text + archived
			e.finish(report, start)
			return report, err
		}
	}
	text += archived

	if e.opts.LogsPath != "" {
		logReport, err := e.CheckLogErrors(ctx, e.opts.LogsPath)
		if err != nil {
			report.Summary.FatalErrorOccurred = true
			report.Text = text
			e.finish(report, start)
			return report, err
		}
		text += logReport
	}

	report.Text = text
	e.finish(report, start)
	e.logger.Info("Scan run complete",
		slog.String("runID", report.Summary.RunID),
		slog.Int64("unpackedIssues", e.unpackedIssues.Load()),
		slog.Int64("archivedIssues", e.archivedIssues.Load()),
		slog.Float64("durationSeconds", report.Summary.DurationSeconds))

	if hookErr := e.hooks.OnScanComplete(*report); hookErr != nil {
		e.logger.Warn("OnScanComplete hook failed", slog.Any("error", hookErr))
	}
	return report, nil
}

// finish stamps the summary counters and timing onto the report.
func (e *Engine) finish(report *Report, start time.Time) {
	report.Summary.DirectoriesScanned = int(e.dirsScanned.Load())
	report.Summary.ArchivesScanned = int(e.archivesScanned.Load())
	report.Summary.LogFilesScanned = int(e.logFilesScanned.Load())
	report.Summary.UnpackedIssueCount = int(e.unpackedIssues.Load())
	report.Summary.ArchivedIssueCount = int(e.archivedIssues.Load())
	report.Summary.LogErrorBlocks = int(e.logErrorBlocks.Load())
	report.Summary.DurationSeconds = time.Since(start).Seconds()
	report.Summary.Timestamp = time.Now().UTC()
}
