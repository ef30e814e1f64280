package scanner

import (
	"context"
	"sync"
)

// Limiter is a counting semaphore bounding concurrent access to one
// resource class. Acquire blocks until a slot is free or the context is
// cancelled; every successful Acquire must be paired with Release before
// the task completes or fails.
type Limiter chan struct{}

// NewLimiter creates a limiter admitting at most n concurrent holders.
func NewLimiter(n int) Limiter {
	return make(Limiter, n)
}

// Acquire takes a slot, blocking until one is available.
func (l Limiter) Acquire(ctx context.Context) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired slot.
func (l Limiter) Release() {
	<-l
}

// Governor owns the four independent concurrency ceilings of a scan run
// plus the directory-batch size. Constructed once per invocation and
// passed to every task; there are no ambient globals.
type Governor struct {
	Subprocess   Limiter // archive tool invocations
	FileOps      Limiter // file move/read operations
	LogReads     Limiter // log file reads
	TextureReads Limiter // DDS header reads

	batchSize int
}

// NewGovernor creates a governor with the fixed production ceilings.
func NewGovernor() *Governor {
	return &Governor{
		Subprocess:   NewLimiter(MaxConcurrentSubprocesses),
		FileOps:      NewLimiter(MaxConcurrentFileOps),
		LogReads:     NewLimiter(MaxConcurrentLogReads),
		TextureReads: NewLimiter(MaxConcurrentTextureReads),
		batchSize:    DirectoryBatchSize,
	}
}

// BatchSize reports the directory wave size.
func (g *Governor) BatchSize() int {
	if g.batchSize <= 0 {
		return DirectoryBatchSize
	}
	return g.batchSize
}

// RunWaves executes fn(0..n-1) in sequential waves of BatchSize tasks.
// Tasks within a wave run concurrently; a wave only starts after the
// previous one has fully drained. Returns the context error if
// cancellation interrupts dispatch; already-started tasks run to
// completion first.
func (g *Governor) RunWaves(ctx context.Context, n int, fn func(i int)) error {
	size := g.BatchSize()
	for start := 0; start < n; start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + size
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fn(i)
			}(i)
		}
		wg.Wait()
	}
	return nil
}
