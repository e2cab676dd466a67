package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferGrowPreservesContent(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.B = append(bb.B, []byte("abcd")...)
	bb.Grow(64)
	require.GreaterOrEqual(t, bb.Cap(), 64)
	require.Equal(t, []byte("abcd"), bb.Bytes())
}

func TestByteBufferSetLength(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.SetLength(10)
	require.Equal(t, 10, bb.Len())
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)
	bb := p.Get()
	bb.Grow(1024)
	p.Put(bb)

	fresh := p.Get()
	require.Less(t, fresh.Cap(), 1024)
}

func TestGetPutFTBuffer(t *testing.T) {
	bb := GetFTBuffer()
	require.NotNil(t, bb)
	bb.B = append(bb.B, 1, 2, 3)
	PutFTBuffer(bb)

	again := GetFTBuffer()
	require.Equal(t, 0, again.Len())
}
