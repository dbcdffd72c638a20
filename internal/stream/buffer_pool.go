package stream

import "sync"

type bufferPool struct {
	pool        *sync.Pool
	initialSize int
}

// NewBufferPool creates a new BufferPool
func NewBufferPool(initialSize int) BufferPool {
	if initialSize <= 0 {
		initialSize = DefaultChunkConfig().BufferSize
	}

	return &bufferPool{
		initialSize: initialSize,
		pool: &sync.Pool{
			New: func() any {
				buf := make([]byte, 0, initialSize)
				return &buf
			},
		},
	}
}

func (p *bufferPool) Get() *[]byte {
	buf := p.pool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// Put is a no-op for nil.
func (p *bufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}

func (p *bufferPool) GetInitialSize() int {
	return p.initialSize
}
