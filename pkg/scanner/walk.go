package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirTarget is one unit of work for the loose files scan: a directory
// path plus its immediate subdirectory and file names. Created by one
// synchronous traversal pass before dispatch; never mutated; consumed
// exactly once.
type DirTarget struct {
	Root  string
	Dirs  []string
	Files []string
}

// collectDirTargets walks root once and returns a bottom-up list of
// directory targets (children before parents, so relocated entries are
// never revisited). A traversal failure aborts the whole scan: this is
// the one stage where failure is global rather than per-item.
func collectDirTargets(root string) ([]DirTarget, error) {
	var targets []DirTarget
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		entries, readErr := readDirSplit(path)
		if readErr != nil {
			return readErr
		}
		targets = append(targets, entries)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraversal, err)
	}
	// WalkDir visits parents before children; reverse for bottom-up order.
	for i, j := 0, len(targets)-1; i < j; i, j = i+1, j-1 {
		targets[i], targets[j] = targets[j], targets[i]
	}
	return targets, nil
}

// readDirSplit lists one directory's immediate entries split into
// subdirectory and file names.
func readDirSplit(path string) (DirTarget, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return DirTarget{}, err
	}
	t := DirTarget{Root: path}
	for _, e := range entries {
		if e.IsDir() {
			t.Dirs = append(t.Dirs, e.Name())
		} else {
			t.Files = append(t.Files, e.Name())
		}
	}
	return t, nil
}

// collectArchiveTargets walks root once and returns the paths of all .ba2
// archives, excluding the previs repair pack's own main archive.
func collectArchiveTargets(root string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".ba2") && name != "prp - main.ba2" {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraversal, err)
	}
	return archives, nil
}
