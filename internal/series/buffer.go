// Package series holds the rolling price/volume window fed to pattern analysis.
package series

import (
	"sync"

	"RiskSentinel/internal/model"
)

// Buffer keeps the most recent samples up to a fixed capacity.
type Buffer struct {
	mu    sync.RWMutex
	buf   []model.PatternSample
	start int
	size  int
}

// NewBuffer creates a Buffer holding at most capacity samples. Capacity below 1 is raised to 1.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{buf: make([]model.PatternSample, capacity)}
}

// Push appends a sample, evicting the oldest one when full.
func (b *Buffer) Push(s model.PatternSample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size < len(b.buf) {
		b.buf[(b.start+b.size)%len(b.buf)] = s
		b.size++
		return
	}
	b.buf[b.start] = s
	b.start = (b.start + 1) % len(b.buf)
}

// Len returns the number of samples held.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the maximum number of samples held.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Snapshot returns a copy of the samples, oldest first.
func (b *Buffer) Snapshot() []model.PatternSample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.PatternSample, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}
	return out
}

// Latest returns the newest sample, if any.
func (b *Buffer) Latest() (model.PatternSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.size == 0 {
		return model.PatternSample{}, false
	}
	return b.buf[(b.start+b.size-1)%len(b.buf)], true
}
