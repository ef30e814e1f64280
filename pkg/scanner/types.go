package scanner

// IssueCategory identifies one class of known failure-causing pattern
// detected during a mod files scan. The set is closed; render order per
// scan mode is defined in report.go.
type IssueCategory string

const (
	// IssueArchiveFormat flags archives whose 12-byte header is neither
	// BTDX-GNRL nor BTDX-DX10.
	IssueArchiveFormat IssueCategory = "ba2_frmt"
	// IssueAnimData flags containers carrying custom animation file data.
	IssueAnimData IssueCategory = "animdata"
	// IssueTextureDims flags DDS textures whose width or height is odd.
	IssueTextureDims IssueCategory = "tex_dims"
	// IssueTextureFormat flags texture files that are not DDS.
	IssueTextureFormat IssueCategory = "tex_frmt"
	// IssueSoundFormat flags sound files in formats the game cannot play.
	IssueSoundFormat IssueCategory = "snd_frmt"
	// IssueXSEFile flags copies of script extender script files shipped
	// inside mod packages.
	IssueXSEFile IssueCategory = "xse_file"
	// IssuePrevis flags loose precombine/previs data.
	IssuePrevis IssueCategory = "previs"
	// IssueCleanup records documentation files and fomod folders that
	// were relocated to the backup directory.
	IssueCleanup IssueCategory = "cleanup"
)

// allCategories lists every category for registry initialization.
var allCategories = []IssueCategory{
	IssueArchiveFormat,
	IssueAnimData,
	IssueTextureDims,
	IssueTextureFormat,
	IssueSoundFormat,
	IssueXSEFile,
	IssuePrevis,
	IssueCleanup,
}

// ScanMode selects which half of the mod files scan a report section
// describes. The two modes share most categories but differ in template
// wording and render order.
type ScanMode string

const (
	ScanModeUnpacked ScanMode = "unpacked"
	ScanModeArchived ScanMode = "archived"
)

// Status defines the possible processing states of a scan target.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// OutputFormat defines the format for the final report printed to
// standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)
