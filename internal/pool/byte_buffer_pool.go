// Package pool provides reusable byte buffers for the file-transfer
// reassembly engine. FT Buffer instances are expensive to allocate (they are sized
// to a transfer's declared file_size) and short-lived relative to a pool's overall
// uptime, so ft.Buffer keeps its data in a ByteBuffer that ft.Pool recycles
// through its own free-list instead of reallocating it for the next transfer.
// ByteBufferPool and the default GetFTBuffer/PutFTBuffer pool add
// sync.Pool-backed reuse on top; the ft package does not use them.
package pool

import "sync"

// Default and max-retained sizes for recycled FT buffers. A buffer larger than
// FTBufferMaxThreshold is discarded on Put rather than retained, so one outsized
// transfer cannot pin a large allocation in the pool indefinitely.
const (
	FTBufferDefaultSize  = 1024 * 64   // 64KiB, a reasonable default chunk accumulator size
	FTBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer wraps a growable byte slice for reuse across FT transfers.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its allocated capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the current capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the buffer's length to n, growing its backing array first if
// n exceeds the current capacity. Unlike a plain slice re-slice, this never
// panics on an oversized n.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 {
		panic("pool: SetLength: negative length")
	}

	bb.Grow(n)
	bb.B = bb.B[:n]
}

// Grow ensures the buffer can hold at least requiredTotal bytes without
// reallocating, copying any existing content into the new backing array.
func (bb *ByteBuffer) Grow(requiredTotal int) {
	if cap(bb.B) >= requiredTotal {
		return
	}

	growTo := FTBufferDefaultSize
	if growTo < requiredTotal {
		growTo = requiredTotal
	}

	newBuf := make([]byte, len(bb.B), growTo)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a sync.Pool of ByteBuffers bounded by a max retention size.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers default to defaultSize and
// whose Put discards any buffer whose capacity exceeds maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool, allocating one if none is idle.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it instead if its
// capacity exceeds the pool's max threshold.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var ftBufferDefaultPool = NewByteBufferPool(FTBufferDefaultSize, FTBufferMaxThreshold)

// GetFTBuffer retrieves a ByteBuffer from the default FT buffer pool.
func GetFTBuffer() *ByteBuffer {
	return ftBufferDefaultPool.Get()
}

// PutFTBuffer returns a ByteBuffer to the default FT buffer pool.
func PutFTBuffer(bb *ByteBuffer) {
	ftBufferDefaultPool.Put(bb)
}
