package scanner

import "errors"

// Exported error variables. These represent the categories of failure a
// scan can report; callers can check against them using errors.Is.

var (
	// ErrSettingsValidation indicates the provided Options failed the
	// validation checks performed by NewEngine. Returned directly as a
	// fatal error.
	ErrSettingsValidation = errors.New("invalid scanner options provided")

	// ErrModsPathMissing indicates no mod assets path was configured.
	// The scan short-circuits with the settings-supplied warning string.
	ErrModsPathMissing = errors.New("mods folder path not configured")

	// ErrModsPathInvalid indicates the configured mod assets path does
	// not exist or cannot be accessed.
	ErrModsPathInvalid = errors.New("mods folder path not accessible")

	// ErrToolMissing indicates the external archive inspection executable
	// was not found at its configured path.
	ErrToolMissing = errors.New("archive tool executable not found")

	// ErrTraversal indicates the scan root could not be walked. Traversal
	// is the one stage where failure is global: the scan aborts with a
	// user-facing result instead of partial output.
	ErrTraversal = errors.New("could not access mod files")

	// ErrToolStart indicates the archive tool process could not be started.
	ErrToolStart = errors.New("archive tool failed to start")

	// ErrToolTimeout indicates an archive tool invocation exceeded
	// ToolTimeout. The archive's result is dropped with a warning; this is
	// never fatal to the overall scan.
	ErrToolTimeout = errors.New("archive tool timed out")

	// ErrToolNonZeroExit indicates the archive tool exited with a non-zero
	// status. Captured stderr is included in the wrapping error.
	ErrToolNonZeroExit = errors.New("archive tool exited non-zero")

	// ErrToolOutput indicates the archive tool reported a failure through
	// its output ("Error:" in the dump mode's final block).
	ErrToolOutput = errors.New("archive tool reported an error")

	// ErrRelocate indicates a cleanup move into the backup directory
	// failed. Recorded as a warning; never aborts the directory's
	// processing.
	ErrRelocate = errors.New("failed to relocate entry to backup")

	// ErrScanLocked indicates another scan holds the relocation lock on
	// the backup directory.
	ErrScanLocked = errors.New("another scan is already running")
)
