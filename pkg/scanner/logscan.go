package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evildarkarchon/ClassicLib/pkg/scanner/encoding"
)

// CheckLogErrors inspects every non-crash log file directly under the
// logs folder for configured error fragments. Files are read
// concurrently under the log-read limiter; the assembled report keeps
// the files in discovery order regardless of completion order.
func (e *Engine) CheckLogErrors(ctx context.Context, folderPath string) (string, error) {
	catchErrors := lowerAll(e.opts.CatchLogErrors)
	ignoreFiles := lowerAll(e.opts.ExcludeLogFiles)
	ignoreErrors := lowerAll(e.opts.ExcludeLogErrors)

	candidates, err := filepath.Glob(filepath.Join(folderPath, "*.log"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTraversal, err)
	}

	var logFiles []string
	for _, path := range candidates {
		lowerName := strings.ToLower(filepath.Base(path))
		if strings.Contains(lowerName, "crash-") {
			continue
		}
		if containsAny(strings.ToLower(path), ignoreFiles) {
			continue
		}
		logFiles = append(logFiles, path)
	}
	e.logger.Info("Scanning log files for recorded errors",
		slog.String("folder", folderPath),
		slog.Int("files", len(logFiles)))

	handler := encoding.NewCharsetHandler("windows-1252")
	reports := make([]string, len(logFiles))
	blocks := 0
	var blocksMu sync.Mutex

	var wg sync.WaitGroup
	for i, path := range logFiles {
		if err := e.governor.LogReads.Acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer e.governor.LogReads.Release()
			report, found := e.scanSingleLog(handler, path, catchErrors, ignoreErrors)
			reports[i] = report
			if found {
				blocksMu.Lock()
				blocks++
				blocksMu.Unlock()
			}
		}(i, path)
	}
	wg.Wait()

	e.logFilesScanned.Store(int64(len(logFiles)))
	e.logErrorBlocks.Store(int64(blocks))
	return strings.Join(reports, ""), nil
}

// scanSingleLog reads one log file and formats its error block. The
// second return reports whether the file contributed a block of
// detected errors (an unreadable file contributes a notice but no
// block).
func (e *Engine) scanSingleLog(handler encoding.Handler, path string, catchErrors, ignoreErrors []string) (string, bool) {
	lines, err := encoding.ReadFileLines(handler, path)
	if err != nil {
		e.logger.Warn("Unable to scan log file", slog.String("path", path), slog.Any("error", err))
		return fmt.Sprintf("❌ ERROR : Unable to scan this log file :\n  %s", path), false
	}

	var detected []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, catchErrors) {
			continue
		}
		if containsAny(lower, ignoreErrors) {
			continue
		}
		detected = append(detected, "ERROR > "+line)
	}
	if len(detected) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("[!] CAUTION : THE FOLLOWING LOG FILE REPORTS ONE OR MORE ERRORS!\n")
	b.WriteString("[ Errors do not necessarily mean that the mod is not working. ]\n")
	fmt.Fprintf(&b, "\nLOG PATH > %s\n", path)
	for _, line := range detected {
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "\n* TOTAL NUMBER OF DETECTED LOG ERRORS * : %d\n", len(detected))
	return b.String(), true
}

// lowerAll returns the fragments lowercased with empties dropped, so
// case-insensitive matching never has to re-fold the configuration.
func lowerAll(fragments []string) []string {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
