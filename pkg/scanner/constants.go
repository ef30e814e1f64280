package scanner

import "time"

// Concurrency ceilings. The four limiters are independent and not
// interchangeable; a task holds at most one slot at a time.
const (
	// MaxConcurrentSubprocesses bounds simultaneous archive tool processes.
	MaxConcurrentSubprocesses = 4
	// MaxConcurrentFileOps bounds simultaneous file move operations.
	MaxConcurrentFileOps = 10
	// MaxConcurrentLogReads bounds simultaneous log file reads.
	MaxConcurrentLogReads = 20
	// MaxConcurrentTextureReads bounds simultaneous DDS header reads.
	MaxConcurrentTextureReads = 50
)

// DirectoryBatchSize is the number of directory tasks dispatched per wave
// during the loose files scan. Waves run sequentially; tasks within a wave
// run concurrently.
const DirectoryBatchSize = 50

// ToolTimeout is the hard ceiling on a single archive tool invocation.
// On expiry the subprocess is killed and the archive's result is dropped
// with a warning; there is no retry.
const ToolTimeout = 30 * time.Second

// maxToolOutputBytes caps captured tool stdout/stderr to keep a rogue or
// corrupted archive from exhausting memory.
const maxToolOutputBytes = 10 * 1024 * 1024

// Preamble sizes of the archive tool's two output formats. The dump output
// opens with four metadata blocks; the list output opens with fifteen
// header lines.
const (
	dumpPreambleBlocks = 4
	listPreambleLines  = 15
)

// ReportSchemaVersion indicates the version of the JSON report structure.
const ReportSchemaVersion = "1.0"

// docFilterNames are the documentation-indicator substrings that mark a
// .txt file for relocation. Fixed, not user-configurable.
var docFilterNames = []string{"readme", "changes", "changelog", "change log"}
