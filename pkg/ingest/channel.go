package ingest

import (
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default capacity of a Buffer.
const DefaultBufferSize = 512

// Buffer is a Channel backed by a single receive buffer guarded by a
// ready flag. The producer fills the buffer while the flag is clear and
// publishes it by setting the flag; the consumer owns the buffer until
// it calls Release. While the consumer holds a partial packet, the
// producer may only append to it.
type Buffer struct {
	ready    atomic.Bool
	held     atomic.Bool
	overflow atomic.Bool
	buf      []byte
	size     int
	mu       sync.Mutex
}

// NewBuffer creates a Buffer holding at most size bytes.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{size: size, buf: make([]byte, 0, size)}
}

// Offer publishes data if the buffer is free, or appends it to a held
// partial packet. It reports false when the consumer still holds the
// buffer or data doesn't fit, data is dropped in that case.
func (c *Buffer) Offer(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready.Load() {
		if len(data) > c.size {
			return false
		}
		c.buf = append(c.buf[:0], data...)
		c.ready.Store(true)
		return true
	}
	if !c.held.Load() {
		return false
	}
	if len(c.buf)+len(data) > c.size {
		// the held packet can't complete anymore
		c.overflow.Store(true)
		return false
	}
	// bytes before len(c.buf) are never written while the flag is set
	c.buf = append(c.buf, data...)
	return true
}

// Poll returns the published buffer. The returned slice is valid until
// Release.
func (c *Buffer) Poll() ([]byte, bool) {
	if !c.ready.Load() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf, true
}

// Hold keeps a partial packet for the next Poll and lets the producer
// append to it. It returns false when the packet overflowed the buffer.
func (c *Buffer) Hold() bool {
	if c.overflow.Load() {
		return false
	}
	c.held.Store(true)
	return true
}

// Release hands the buffer back to the producer.
func (c *Buffer) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held.Store(false)
	c.overflow.Store(false)
	c.ready.Store(false)
}
