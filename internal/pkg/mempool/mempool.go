package mempool

import (
	"github.com/colega/zeropool"
)

// SlicePool hands out byte slices of one fixed length.
type SlicePool struct {
	pool zeropool.Pool[[]byte]
	size int
}

func NewSlicePool(size int) *SlicePool {
	return &SlicePool{
		size: size,
		pool: zeropool.New(func() []byte {
			return make([]byte, size)
		}),
	}
}

// Get returns a slice of len Size. Its content is whatever the previous user left.
func (p *SlicePool) Get() []byte {
	return p.pool.Get()[:p.size]
}

// Put returns s to the pool, s must not be used after this.
func (p *SlicePool) Put(s []byte) {
	if cap(s) < p.size {
		return
	}

	p.pool.Put(s[:p.size])
}

func (p *SlicePool) Size() int {
	return p.size
}
