package scanner

import (
	"fmt"
	"strings"
	"time"
)

// Fixed section banners of the mod files scan report.
const (
	unpackedBanner = "=================== MOD FILES SCAN ====================\n" +
		"========= RESULTS FROM UNPACKED / LOOSE FILES =========\n"
	archivedBanner = "\n========== RESULTS FROM ARCHIVED / BA2 FILES ==========\n"
)

// unpackedOrder and archivedOrder fix the render order of issue
// categories per scan mode. The two differ only in their mode-specific
// leading category.
var (
	unpackedOrder = []IssueCategory{
		IssueCleanup,
		IssueAnimData,
		IssueTextureDims,
		IssueTextureFormat,
		IssueSoundFormat,
		IssueXSEFile,
		IssuePrevis,
	}
	archivedOrder = []IssueCategory{
		IssueArchiveFormat,
		IssueAnimData,
		IssueTextureDims,
		IssueTextureFormat,
		IssueSoundFormat,
		IssueXSEFile,
		IssuePrevis,
	}
)

// issueMessages returns the static template text emitted ahead of each
// non-empty category's lines, per scan mode. The templates embed the
// script extender acronym where the wording mentions it.
func issueMessages(xseAcronym string, mode ScanMode) map[IssueCategory]string {
	messages := map[IssueCategory]string{
		IssueTextureDims: "\n# ⚠️ DDS DIMENSIONS ARE NOT DIVISIBLE BY 2 ⚠️\n" +
			"▶️ Any mods that have texture files with incorrect dimensions\n" +
			"  are very likely to cause a *Texture (DDS) Crash*. For further details,\n" +
			"  read the *How To Read Crash Logs.pdf* included with the CLASSIC exe.\n\n",
		IssueTextureFormat: "\n# ❓ TEXTURE FILES HAVE INCORRECT FORMAT, SHOULD BE DDS ❓\n" +
			"▶️ Any files with an incorrect file format will not work.\n" +
			"  Mod authors should convert these files to their proper game format.\n" +
			"  If possible, notify the original mod authors about these problems.\n\n",
		IssueSoundFormat: "\n# ❓ SOUND FILES HAVE INCORRECT FORMAT, SHOULD BE XWM OR WAV ❓\n" +
			"▶️ Any files with an incorrect file format will not work.\n" +
			"  Mod authors should convert these files to their proper game format.\n" +
			"  If possible, notify the original mod authors about these problems.\n\n",
	}

	if mode == ScanModeUnpacked {
		messages[IssueXSEFile] = fmt.Sprintf("\n# ⚠️ FOLDERS CONTAIN COPIES OF *%s* SCRIPT FILES ⚠️\n", xseAcronym) +
			"▶️ Any mods with copies of original Script Extender files\n" +
			"  may cause script related problems or crashes.\n\n"
		messages[IssuePrevis] = "\n# ⚠️ FOLDERS CONTAIN LOOSE PRECOMBINE / PREVIS FILES ⚠️\n" +
			"▶️ Any mods that contain custom precombine/previs files\n" +
			"  should load after the PRP.esp plugin from Previs Repair Pack (PRP).\n" +
			"  Otherwise, see if there is a PRP patch available for these mods.\n\n"
		messages[IssueAnimData] = "\n# ❓ FOLDERS CONTAIN CUSTOM ANIMATION FILE DATA ❓\n" +
			"▶️ Any mods that have their own custom Animation File Data\n" +
			"  may rarely cause an *Animation Corruption Crash*. For further details,\n" +
			"  read the *How To Read Crash Logs.pdf* included with the CLASSIC exe.\n\n"
		messages[IssueCleanup] = "\n# 📄 DOCUMENTATION FILES MOVED TO 'CLASSIC Backup\\Cleaned Files' 📄\n"
	} else {
		messages[IssueXSEFile] = fmt.Sprintf("\n# ⚠️ BA2 ARCHIVES CONTAIN COPIES OF *%s* SCRIPT FILES ⚠️\n", xseAcronym) +
			"▶️ Any mods with copies of original Script Extender files\n" +
			"  may cause script related problems or crashes.\n\n"
		messages[IssuePrevis] = "\n# ⚠️ BA2 ARCHIVES CONTAIN CUSTOM PRECOMBINE / PREVIS FILES ⚠️\n" +
			"▶️ Any mods that contain custom precombine/previs files\n" +
			"  should load after the PRP.esp plugin from Previs Repair Pack (PRP).\n" +
			"  Otherwise, see if there is a PRP patch available for these mods.\n\n"
		messages[IssueAnimData] = "\n# ❓ BA2 ARCHIVES CONTAIN CUSTOM ANIMATION FILE DATA ❓\n" +
			"▶️ Any mods that have their own custom Animation File Data\n" +
			"  may rarely cause an *Animation Corruption Crash*. For further details,\n" +
			"  read the *How To Read Crash Logs.pdf* included with the CLASSIC exe.\n\n"
		messages[IssueArchiveFormat] = "\n# ❓ BA2 ARCHIVES HAVE INCORRECT FORMAT, SHOULD BE BTDX-GNRL OR BTDX-DX10 ❓\n" +
			"▶️ Any files with an incorrect file format will not work.\n" +
			"  Mod authors should convert these files to their proper game format.\n" +
			"  If possible, notify the original mod authors about these problems.\n\n"
	}
	return messages
}

// categoryOrder returns the fixed render order for mode.
func categoryOrder(mode ScanMode) []IssueCategory {
	if mode == ScanModeUnpacked {
		return unpackedOrder
	}
	return archivedOrder
}

// renderSection renders one scan mode's registry contents: the banner,
// then per non-empty category the static template text followed by the
// category's lines in lexicographic order. Empty categories are omitted
// entirely.
func renderSection(reg *Registry, mode ScanMode, xseAcronym string) string {
	var b strings.Builder
	if mode == ScanModeUnpacked {
		b.WriteString(unpackedBanner)
	} else {
		b.WriteString(archivedBanner)
	}
	messages := issueMessages(xseAcronym, mode)
	for _, category := range categoryOrder(mode) {
		lines := reg.Lines(category)
		if len(lines) == 0 {
			continue
		}
		b.WriteString(messages[category])
		for _, line := range lines {
			b.WriteString(line)
		}
	}
	return b.String()
}

// Report summarizes the result of a single scan run. Text carries the
// full user-facing report blob; the remaining fields are structured
// metadata for JSON output.
type Report struct {
	Summary ReportSummary `json:"summary"`
	Text    string        `json:"text"`
}

// ReportSummary contains aggregated statistics for a scan run.
type ReportSummary struct {
	RunID               string    `json:"runId"`
	ModsPath            string    `json:"modsPath"`
	BackupPath          string    `json:"backupPath,omitempty"`
	ConfigFilePath      string    `json:"configFilePath,omitempty"`
	DirectoriesScanned  int       `json:"directoriesScanned"`
	ArchivesScanned     int       `json:"archivesScanned"`
	LogFilesScanned     int       `json:"logFilesScanned"`
	UnpackedIssueCount  int       `json:"unpackedIssueCount"`
	ArchivedIssueCount  int       `json:"archivedIssueCount"`
	LogErrorBlocks      int       `json:"logErrorBlocks"`
	DryRun              bool      `json:"dryRun"`
	DurationSeconds     float64   `json:"durationSeconds"`
	Timestamp           time.Time `json:"timestamp"`
	SchemaVersion       string    `json:"schemaVersion,omitempty"`
	FatalErrorOccurred  bool      `json:"fatalError"`
	PrerequisiteWarning bool      `json:"prerequisiteWarning,omitempty"`
}
