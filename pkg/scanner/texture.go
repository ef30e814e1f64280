package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

type textureTarget struct {
	path string
	rel  string
}

// checkTextureBatch reads the fixed-size header of every texture in the
// batch concurrently, gated by the texture-read limiter, and records the
// files whose dimensions are not both divisible by two. Files that are
// too short or carry a different magic are skipped silently; read errors
// are logged and skipped.
func (e *Engine) checkTextureBatch(ctx context.Context, targets []textureTarget, reg *Registry) {
	var wg sync.WaitGroup
	for _, t := range targets {
		if err := e.governor.TextureReads.Acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(t textureTarget) {
			defer wg.Done()
			defer e.governor.TextureReads.Release()
			e.checkTexture(t, reg)
		}(t)
	}
	wg.Wait()
}

func (e *Engine) checkTexture(t textureTarget, reg *Registry) {
	f, err := os.Open(t.path)
	if err != nil {
		e.logger.Warn("Could not open texture file", slog.String("path", t.path), slog.Any("error", err))
		return
	}
	defer f.Close()

	buf := make([]byte, TextureHeaderLen)
	if _, err := io.ReadFull(f, buf); err != nil {
		// Shorter than a header, nothing to check.
		return
	}

	hdr, ok, err := DecodeTextureHeader(buf)
	if err != nil || !ok {
		return
	}
	if hdr.OddDimensions() {
		reg.Add(IssueTextureDims, fmt.Sprintf("  - %s (%dx%d)\n", t.rel, hdr.Width, hdr.Height))
	}
}
