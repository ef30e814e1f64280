package scanner

import (
	"log/slog"
	"time"
)

// Hooks defines callbacks for status updates during a scan.
// Implementations MUST be thread-safe as methods may be called concurrently.
type Hooks interface {
	OnTargetDiscovered(path string) error
	OnTargetStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnScanComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks
// interface.
type NoOpHooks struct{}

// OnTargetDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnTargetDiscovered(path string) error { return nil }

// OnTargetStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnTargetStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnScanComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnScanComplete(report Report) error { return nil }

// Warnings holds the user-facing strings returned when a scan cannot run
// at all. Supplied by the settings provider so the wording stays
// configurable; the scan only ever returns them verbatim.
type Warnings struct {
	ModsPathMissing string `mapstructure:"modsPathMissing"`
	ModsPathInvalid string `mapstructure:"modsPathInvalid"`
	ToolMissing     string `mapstructure:"toolMissing"`
}

// Options holds all configuration for a scan run. Built once per
// invocation; read-only afterward and shared by reference across all
// tasks.
type Options struct {
	// --- Core paths ---
	ModsPath   string `mapstructure:"modsPath"`   // Root of the mod asset tree
	BackupPath string `mapstructure:"backupPath"` // Destination for relocated entries
	LogsPath   string `mapstructure:"logsPath"`   // Folder scanned for log errors ("" disables)
	ToolPath   string `mapstructure:"toolPath"`   // Archive inspection executable

	// --- Game / script extender ---
	XSEAcronym     string   `mapstructure:"-"` // e.g. "F4SE", from the game database
	XSEScriptFiles []string `mapstructure:"-"` // Script filenames whose copies collide

	// --- Log error scan patterns ---
	CatchLogErrors   []string `mapstructure:"catchLogErrors"`
	ExcludeLogFiles  []string `mapstructure:"excludeLogFiles"`
	ExcludeLogErrors []string `mapstructure:"excludeLogErrors"`

	// --- Behavior & control ---
	DryRun       bool         `mapstructure:"dryRun"`       // Suppress moves, keep report text identical
	OutputFormat OutputFormat `mapstructure:"outputFormat"` // ("text", "json") for the final report
	Verbose      bool         `mapstructure:"verbose"`

	// --- Reporting metadata ---
	AppVersion     string `mapstructure:"-"`
	ConfigFilePath string `mapstructure:"-"`

	// --- User-facing warning strings ---
	Warn Warnings `mapstructure:"warnings"`

	// --- Injected dependencies ---
	EventHooks  Hooks        `mapstructure:"-"` // Optional: status callbacks
	Logger      slog.Handler `mapstructure:"-"` // Optional: logging backend
	ArchiveTool ArchiveTool  `mapstructure:"-"` // Optional: tool invoker (testing)
	Governor    *Governor    `mapstructure:"-"` // Optional: limiter set (testing)
}
