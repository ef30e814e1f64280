package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateDummyFile creates a dummy file with specified content at the
// given path, ensuring parent directories exist. It uses require
// assertions for test setup.
func CreateDummyFile(t *testing.T, path string, content string) {
	t.Helper()
	fullPath := filepath.Clean(path)
	dir := filepath.Dir(fullPath)
	err := os.MkdirAll(dir, 0755)
	require.NoError(t, err, "Failed to create directory %s for dummy file", dir)
	err = os.WriteFile(fullPath, []byte(content), 0644)
	require.NoError(t, err, "Failed to write dummy file %s", fullPath)
}

// CreateDummyDir ensures a directory exists at the given path, creating
// parents if needed.
func CreateDummyDir(t *testing.T, path string) {
	t.Helper()
	err := os.MkdirAll(filepath.Clean(path), 0755)
	require.NoError(t, err, "Failed to create dummy directory %s", path)
}

// CreateDDSFile writes a minimal texture file carrying a valid DDS
// header with the given dimensions, padded to the full header length.
func CreateDDSFile(t *testing.T, path string, width, height uint32) {
	t.Helper()
	buf := make([]byte, 128)
	copy(buf, "DDS ")
	binary.LittleEndian.PutUint32(buf[12:], width)
	binary.LittleEndian.PutUint32(buf[16:], height)
	err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0755)
	require.NoError(t, err, "Failed to create directory for DDS file")
	err = os.WriteFile(path, buf, 0644)
	require.NoError(t, err, "Failed to write DDS file %s", path)
}

// CreateArchiveFile writes a file that starts with a 12-byte archive
// header: magic, four version/padding bytes, then the format tag.
func CreateArchiveFile(t *testing.T, path, magic, format string) {
	t.Helper()
	buf := make([]byte, 12)
	copy(buf[0:4], magic)
	copy(buf[8:12], format)
	err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0755)
	require.NoError(t, err, "Failed to create directory for archive file")
	err = os.WriteFile(path, buf, 0644)
	require.NoError(t, err, "Failed to write archive file %s", path)
}
