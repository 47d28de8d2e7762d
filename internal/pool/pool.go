// Package pool provides the packet-buffer pool adapter installed once at
// startup via Bridge.Install. Actual packet-buffer pooling is out of this
// core's scope — the core only depends on the small Acquire/Release
// capability this package satisfies — but a real adapter needs to exist
// for the entry point to install. Grounded on the sync.Pool reuse pattern
// in thesyncim-bwe's interceptor/pool.go.
package pool

import "sync"

const defaultBufferSize = 1500 // the typical Ethernet MTU, matching RTP packet sizing

// BufferPool is a sync.Pool-backed []byte pool satisfying bridge.PoolAdapter.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool returns a BufferPool whose buffers default to
// defaultBufferSize.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, defaultBufferSize)
				return &buf
			},
		},
	}
}

// Acquire returns a buffer from the pool, allocating a fresh one if empty.
func (p *BufferPool) Acquire() []byte {
	buf := p.pool.Get().(*[]byte)
	return *buf
}

// Release returns buf to the pool for reuse.
func (p *BufferPool) Release(buf []byte) {
	p.pool.Put(&buf)
}
