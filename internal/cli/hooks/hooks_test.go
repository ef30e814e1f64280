package hooks_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/evildarkarchon/ClassicLib/internal/cli/hooks"
	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// countingBar records progress bar interactions for assertions.
type countingBar struct {
	mu     sync.Mutex
	adds   int
	closed bool
}

func (b *countingBar) Add(num int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adds += num
	return nil
}

func (b *countingBar) Describe(string) {}

func (b *countingBar) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusUpdateAdvancesBarOnFinalStates(t *testing.T) {
	bar := &countingBar{}
	h := hooks.NewCLIHooks(newTestLogger(), false, bar)

	assert.NoError(t, h.OnTargetStatusUpdate("a", scanner.StatusPending, "", 0))
	assert.NoError(t, h.OnTargetStatusUpdate("a", scanner.StatusSuccess, "", time.Millisecond))
	assert.NoError(t, h.OnTargetStatusUpdate("b", scanner.StatusFailed, "boom", 0))
	assert.NoError(t, h.OnTargetStatusUpdate("c", scanner.StatusSkipped, "", 0))

	assert.Equal(t, 3, bar.adds, "only final states should advance the bar")
}

func TestVerboseModeBypassesBar(t *testing.T) {
	bar := &countingBar{}
	h := hooks.NewCLIHooks(newTestLogger(), true, bar)

	assert.NoError(t, h.OnTargetDiscovered("some/path"))
	assert.NoError(t, h.OnTargetStatusUpdate("some/path", scanner.StatusSuccess, "", 0))

	assert.Zero(t, bar.adds)
}

func TestConcurrentStatusUpdates(t *testing.T) {
	bar := &countingBar{}
	h := hooks.NewCLIHooks(newTestLogger(), false, bar)

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = h.OnTargetStatusUpdate("p", scanner.StatusSuccess, "", 0)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, bar.adds)
}

func TestScanCompleteClosesBar(t *testing.T) {
	bar := &countingBar{}
	h := hooks.NewCLIHooks(newTestLogger(), false, bar)

	assert.NoError(t, h.OnScanComplete(scanner.Report{}))
	assert.True(t, bar.closed)
}

func TestNilBarUsesNoOp(t *testing.T) {
	h := hooks.NewCLIHooks(newTestLogger(), false, nil)
	assert.NoError(t, h.OnTargetStatusUpdate("a", scanner.StatusSuccess, "", 0))
	assert.NoError(t, h.OnScanComplete(scanner.Report{}))
}
