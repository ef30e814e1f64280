// Package testutil provides shared helpers and mock implementations for
// interfaces defined in pkg/scanner. The mocks are built on
// testify/mock; configure expectations with .On(...).Return(...).
package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// MockArchiveTool provides a mock implementation of the
// scanner.ArchiveTool interface. Tests feed it canned stdout/stderr per
// archive instead of shelling out to the real executable.
type MockArchiveTool struct {
	mock.Mock
}

// Inspect mocks the Inspect method.
func (m *MockArchiveTool) Inspect(ctx context.Context, archivePath string, mode scanner.ToolMode) (string, string, error) {
	args := m.Called(ctx, archivePath, mode)
	return args.String(0), args.String(1), args.Error(2)
}

// MockHooks provides a mock implementation of the scanner.Hooks
// interface. All methods may be called concurrently; testify/mock is
// safe for concurrent Called invocations.
type MockHooks struct {
	mock.Mock
}

// OnTargetDiscovered mocks the OnTargetDiscovered method.
func (m *MockHooks) OnTargetDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnTargetStatusUpdate mocks the OnTargetStatusUpdate method.
func (m *MockHooks) OnTargetStatusUpdate(path string, status scanner.Status, message string, duration time.Duration) error {
	args := m.Called(path, status, message, duration)
	return args.Error(0)
}

// OnScanComplete mocks the OnScanComplete method.
func (m *MockHooks) OnScanComplete(report scanner.Report) error {
	args := m.Called(report)
	return args.Error(0)
}
