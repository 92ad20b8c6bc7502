package capture

import (
	"context"
	"sync"
)

// FrameBuffer holds the most recent encoded frame for any number of readers.
// The pipeline owns the camera; viewers read from here instead.
type FrameBuffer struct {
	mu      sync.Mutex
	data    []byte
	seq     uint64
	updated chan struct{}
}

// NewFrameBuffer creates an empty buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{updated: make(chan struct{})}
}

// Put replaces the current frame and wakes waiting readers.
func (b *FrameBuffer) Put(jpeg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = jpeg
	b.seq++
	close(b.updated)
	b.updated = make(chan struct{})
}

// Latest returns the current frame and its sequence number. Sequence 0 means
// nothing has been stored yet.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data, b.seq
}

// Next blocks until a frame newer than after is stored or ctx is done.
func (b *FrameBuffer) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		b.mu.Lock()
		if b.seq > after {
			data, seq := b.data, b.seq
			b.mu.Unlock()
			return data, seq, nil
		}
		wait := b.updated
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-wait:
		}
	}
}
