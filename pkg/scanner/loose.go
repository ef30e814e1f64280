package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ScanUnpacked performs the loose files scan: one bottom-up traversal of
// the mod root, then directory tasks dispatched in sequential waves with
// all tasks of a wave running concurrently. Returns the rendered report
// section.
//
// A missing mods path short-circuits with the settings-supplied warning
// string. A traversal failure aborts the scan; everything else is
// per-item recoverable.
func (e *Engine) ScanUnpacked(ctx context.Context) (string, error) {
	if e.opts.ModsPath == "" {
		return e.opts.Warn.ModsPathMissing, fmt.Errorf("%w", ErrModsPathMissing)
	}

	if !e.opts.DryRun {
		if err := os.MkdirAll(e.opts.BackupPath, 0o755); err != nil {
			return "", fmt.Errorf("%w: cannot create backup directory '%s': %v", ErrSettingsValidation, e.opts.BackupPath, err)
		}
	}

	targets, err := collectDirTargets(e.opts.ModsPath)
	if err != nil {
		e.logger.Error("Error accessing mod files", slog.String("path", e.opts.ModsPath), slog.Any("error", err))
		return "Error: Could not access mod files", err
	}
	e.logger.Info("Mods folder path found, performing mod files scan",
		slog.String("path", e.opts.ModsPath),
		slog.Int("directories", len(targets)))
	for _, t := range targets {
		if hookErr := e.hooks.OnTargetDiscovered(t.Root); hookErr != nil {
			e.logger.Warn("OnTargetDiscovered hook failed", slog.String("path", t.Root), slog.Any("error", hookErr))
		}
		if hookErr := e.hooks.OnTargetStatusUpdate(t.Root, StatusPending, "", 0); hookErr != nil {
			e.logger.Warn("OnTargetStatusUpdate hook failed", slog.String("path", t.Root), slog.Any("error", hookErr))
		}
	}

	reg := NewRegistry()
	waveErr := e.governor.RunWaves(ctx, len(targets), func(i int) {
		start := time.Now()
		e.processDirectory(ctx, targets[i], reg)
		if hookErr := e.hooks.OnTargetStatusUpdate(targets[i].Root, StatusSuccess, "", time.Since(start)); hookErr != nil {
			e.logger.Warn("OnTargetStatusUpdate hook failed", slog.String("path", targets[i].Root), slog.Any("error", hookErr))
		}
	})
	if waveErr != nil {
		return "", waveErr
	}

	e.dirsScanned.Store(int64(len(targets)))
	e.unpackedIssues.Store(int64(reg.Total()))
	return renderSection(reg, ScanModeUnpacked, e.opts.XSEAcronym), nil
}

// processDirectory classifies one directory's immediate entries. The
// animation-data, script-extender and previs categories record at most
// one line per directory; the remaining categories stay exhaustive.
func (e *Engine) processDirectory(ctx context.Context, t DirTarget, reg *Registry) {
	relRoot, relErr := filepath.Rel(e.opts.ModsPath, t.Root)
	if relErr != nil {
		e.logger.Warn("Could not compute relative path", slog.String("path", t.Root), slog.Any("error", relErr))
		return
	}
	rootMain := filepath.ToSlash(filepath.Dir(relRoot))

	hasAnimData := false
	hasXSEFiles := false
	hasPrevisFiles := false

	for _, dirname := range t.Dirs {
		switch strings.ToLower(dirname) {
		case "animationfiledata":
			if !hasAnimData {
				hasAnimData = true
				reg.Add(IssueAnimData, fmt.Sprintf("  - %s\n", rootMain))
			}
		case "fomod":
			e.relocate(ctx, filepath.Join(t.Root, dirname), reg)
		}
	}

	var textures []textureTarget
	for _, filename := range t.Files {
		lower := strings.ToLower(filename)
		path := filepath.Join(t.Root, filename)
		rel, err := filepath.Rel(e.opts.ModsPath, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		ext := strings.ToLower(filepath.Ext(filename))

		switch {
		case strings.HasSuffix(lower, ".txt") && containsAny(lower, docFilterNames):
			e.relocate(ctx, path, reg)

		case ext == ".dds":
			textures = append(textures, textureTarget{path: path, rel: rel})

		case (ext == ".tga" || ext == ".png") && !pathHasSegment(path, "BodySlide"):
			reg.Add(IssueTextureFormat, fmt.Sprintf("  - %s : %s\n", strings.ToUpper(ext[1:]), rel))

		case ext == ".mp3" || ext == ".m4a":
			reg.Add(IssueSoundFormat, fmt.Sprintf("  - %s : %s\n", strings.ToUpper(ext[1:]), rel))

		case !hasXSEFiles && e.isXSEScript(lower) &&
			!strings.Contains(strings.ToLower(t.Root), "workshop framework") &&
			filepath.Base(t.Root) == "Scripts":
			hasXSEFiles = true
			reg.Add(IssueXSEFile, fmt.Sprintf("  - %s\n", rootMain))

		case !hasPrevisFiles && (strings.HasSuffix(lower, ".uvd") || strings.HasSuffix(lower, "_oc.nif")):
			hasPrevisFiles = true
			reg.Add(IssuePrevis, fmt.Sprintf("  - %s\n", rootMain))
		}
	}

	if len(textures) > 0 {
		e.checkTextureBatch(ctx, textures, reg)
	}
}

// isXSEScript reports whether the lowercase filename matches one of the
// configured script extender script files.
func (e *Engine) isXSEScript(lowerName string) bool {
	for _, name := range e.opts.XSEScriptFiles {
		if lowerName == strings.ToLower(name) {
			return true
		}
	}
	return false
}

// relocate moves one entry (file or directory) into the backup
// destination, preserving its path relative to the mod root, under the
// file-operation limiter. In dry-run mode the move is skipped entirely
// but the cleanup line is still recorded so report text stays identical.
// Failures are warnings; the directory's processing continues.
func (e *Engine) relocate(ctx context.Context, path string, reg *Registry) {
	if err := e.governor.FileOps.Acquire(ctx); err != nil {
		return
	}
	defer e.governor.FileOps.Release()

	rel, err := filepath.Rel(e.opts.ModsPath, path)
	if err != nil {
		e.logger.Warn("Could not compute relative path for relocation", slog.String("path", path), slog.Any("error", err))
		return
	}
	dest := filepath.Join(e.opts.BackupPath, rel)

	if !e.opts.DryRun {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			e.logger.Warn("Failed to prepare backup destination",
				slog.String("path", dest), slog.Any("error", fmt.Errorf("%w: %v", ErrRelocate, err)))
			return
		}
		if err := os.Rename(path, dest); err != nil {
			e.logger.Warn("Failed to relocate entry",
				slog.String("source", path),
				slog.String("dest", dest),
				slog.Any("error", fmt.Errorf("%w: %v", ErrRelocate, err)))
			return
		}
	}

	reg.Add(IssueCleanup, fmt.Sprintf("  - %s\n", filepath.ToSlash(rel)))
}

// containsAny reports whether s contains at least one of the fragments.
func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// pathHasSegment reports whether any path component equals segment
// exactly.
func pathHasSegment(path, segment string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == segment {
			return true
		}
	}
	return false
}
