package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ScanArchived performs the archive scan: every .ba2 under the mod root
// gets its fixed-size header checked, and well-formed archives are
// handed to the external inspection tool for a content listing. Each
// archive collects issues into a task-local registry that is merged on
// completion, so one bad archive never poisons the shared results.
func (e *Engine) ScanArchived(ctx context.Context) (string, error) {
	if e.opts.ModsPath == "" {
		return e.opts.Warn.ModsPathMissing, fmt.Errorf("%w", ErrModsPathMissing)
	}
	if _, err := os.Stat(e.opts.ToolPath); err != nil {
		e.logger.Error("Archive tool executable not found", slog.String("path", e.opts.ToolPath))
		return e.opts.Warn.ToolMissing, fmt.Errorf("%w: %s", ErrToolMissing, e.opts.ToolPath)
	}

	targets, err := collectArchiveTargets(e.opts.ModsPath)
	if err != nil {
		e.logger.Error("Error accessing mod archives", slog.String("path", e.opts.ModsPath), slog.Any("error", err))
		return "Error: Could not access mod files", err
	}
	e.logger.Info("Performing archived files scan",
		slog.String("path", e.opts.ModsPath),
		slog.Int("archives", len(targets)))
	for _, t := range targets {
		if hookErr := e.hooks.OnTargetDiscovered(t); hookErr != nil {
			e.logger.Warn("OnTargetDiscovered hook failed", slog.String("path", t), slog.Any("error", hookErr))
		}
		if hookErr := e.hooks.OnTargetStatusUpdate(t, StatusPending, "", 0); hookErr != nil {
			e.logger.Warn("OnTargetStatusUpdate hook failed", slog.String("path", t), slog.Any("error", hookErr))
		}
	}

	reg := NewRegistry()
	waveErr := e.governor.RunWaves(ctx, len(targets), func(i int) {
		start := time.Now()
		local := NewRegistry()
		status, detail := e.processArchive(ctx, targets[i], local)
		reg.Merge(local)
		if hookErr := e.hooks.OnTargetStatusUpdate(targets[i], status, detail, time.Since(start)); hookErr != nil {
			e.logger.Warn("OnTargetStatusUpdate hook failed", slog.String("path", targets[i]), slog.Any("error", hookErr))
		}
	})
	if waveErr != nil {
		return "", waveErr
	}

	e.archivesScanned.Store(int64(len(targets)))
	e.archivedIssues.Store(int64(reg.Total()))
	return renderSection(reg, ScanModeArchived, e.opts.XSEAcronym), nil
}

// processArchive handles one archive end to end: header decode, format
// gate, then tool dispatch. Texture archives are dumped for per-entry
// metadata; general archives are listed for filename checks.
func (e *Engine) processArchive(ctx context.Context, path string, local *Registry) (Status, string) {
	name := filepath.Base(path)

	hdr, err := e.readArchiveHeader(ctx, path)
	if err != nil {
		e.logger.Warn("Failed to read file", slog.String("file", name), slog.Any("error", err))
		return StatusFailed, err.Error()
	}

	kind := hdr.Kind()
	if kind == ArchiveUnknown {
		local.Add(IssueArchiveFormat, fmt.Sprintf("  - %s : %q\n", name, hdr.Raw))
		return StatusSuccess, ""
	}

	if err := e.governor.Subprocess.Acquire(ctx); err != nil {
		return StatusSkipped, "scan cancelled"
	}
	defer e.governor.Subprocess.Release()

	mode := ToolModeList
	if kind == ArchiveTexture {
		mode = ToolModeDump
	}
	stdout, stderr, err := e.tool.Inspect(ctx, path, mode)
	if err != nil {
		e.logger.Error("Archive tool command failed",
			slog.String("file", name),
			slog.String("stderr", strings.TrimSpace(stderr)),
			slog.Any("error", err))
		return StatusFailed, err.Error()
	}

	if kind == ArchiveTexture {
		e.classifyDumpOutput(name, stdout, stderr, local)
	} else {
		e.classifyListOutput(name, filepath.Dir(path), stdout, local)
	}
	return StatusSuccess, ""
}

// readArchiveHeader reads the archive's fixed-size header under the
// file-operation limiter.
func (e *Engine) readArchiveHeader(ctx context.Context, path string) (ArchiveHeader, error) {
	if err := e.governor.FileOps.Acquire(ctx); err != nil {
		return ArchiveHeader{}, err
	}
	defer e.governor.FileOps.Release()

	f, err := os.Open(path)
	if err != nil {
		return ArchiveHeader{}, err
	}
	defer f.Close()

	buf := make([]byte, ArchiveHeaderLen)
	if _, err := io.ReadFull(f, buf); err != nil {
		return ArchiveHeader{}, err
	}
	return DecodeArchiveHeader(buf)
}

// classifyDumpOutput parses the tool's dump listing for a texture
// archive. The dump is block-structured with a fixed preamble; each
// block starts with the entry path, carries the container format on its
// second line and the dimensions on its third. A trailing block that
// opens with "Error:" marks the whole dump as unusable. Malformed
// blocks are skipped rather than aborting the archive.
func (e *Engine) classifyDumpOutput(name, stdout, stderr string, local *Registry) {
	blocks := strings.Split(stdout, "\n\n")
	if last := blocks[len(blocks)-1]; strings.HasPrefix(last, "Error:") {
		e.logger.Error("Archive tool reported a dump error",
			slog.String("file", name),
			slog.String("detail", strings.TrimSpace(last)),
			slog.String("stderr", strings.TrimSpace(stderr)),
			slog.Any("error", ErrToolOutput))
		return
	}
	if len(blocks) <= dumpPreambleBlocks {
		return
	}

	for _, block := range blocks[dumpPreambleBlocks:] {
		if block == "" {
			continue
		}
		lines := strings.SplitN(block, "\n", 4)
		if len(lines) < 3 {
			continue
		}
		entry := lines[0]

		if !strings.Contains(lines[1], "Ext: dds") {
			ext := entry
			if idx := strings.LastIndex(entry, "."); idx >= 0 {
				ext = entry[idx+1:]
			}
			local.Add(IssueTextureFormat, fmt.Sprintf("  - %s : %s > %s\n", strings.ToUpper(ext), name, entry))
			continue
		}

		fields := strings.Fields(lines[2])
		if len(fields) < 4 {
			continue
		}
		width, height := fields[1], fields[3]
		if decimalOdd(width) || decimalOdd(height) {
			local.Add(IssueTextureDims, fmt.Sprintf("  - %sx%s : %s > %s\n", width, height, name, entry))
		}
	}
}

// classifyListOutput parses the tool's plain listing for a general
// archive. Listings use the archive's native backslash separators; the
// whole output is lowercased before matching. The animation-data,
// script-extender and previs categories record at most one line per
// archive.
func (e *Engine) classifyListOutput(name, parentDir, stdout string, local *Registry) {
	lines := strings.Split(strings.ToLower(stdout), "\n")
	if len(lines) <= listPreambleLines {
		return
	}

	hasAnimData := false
	hasXSEFiles := false
	hasPrevisFiles := false
	parentLower := strings.ToLower(parentDir)

	for _, line := range lines[listPreambleLines:] {
		switch {
		case strings.HasSuffix(line, ".mp3") || strings.HasSuffix(line, ".m4a"):
			local.Add(IssueSoundFormat, fmt.Sprintf("  - %s : %s > %s\n", strings.ToUpper(line[len(line)-3:]), name, line))

		case !hasAnimData && strings.Contains(line, "animationfiledata"):
			hasAnimData = true
			local.Add(IssueAnimData, fmt.Sprintf("  - %s\n", name))

		case !hasXSEFiles && e.lineHasXSEScript(line) && !strings.Contains(parentLower, "workshop framework"):
			hasXSEFiles = true
			local.Add(IssueXSEFile, fmt.Sprintf("  - %s\n", name))

		case !hasPrevisFiles && (strings.HasSuffix(line, ".uvd") || strings.HasSuffix(line, "_oc.nif")):
			hasPrevisFiles = true
			local.Add(IssuePrevis, fmt.Sprintf("  - %s\n", name))
		}
	}
}

// lineHasXSEScript reports whether the lowercased listing line names a
// configured script extender file under a scripts directory.
func (e *Engine) lineHasXSEScript(line string) bool {
	for _, name := range e.opts.XSEScriptFiles {
		if strings.Contains(line, `scripts\`+strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// decimalOdd reports whether s is a decimal integer with an odd value.
// Non-numeric dimension tokens never flag.
func decimalOdd(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n%2 != 0
}
