package verbose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayIteratorSplitsInt32Elements(t *testing.T) {
	v := Value{
		Kind:            KindInt,
		IsArray:         true,
		Signed:          true,
		Width:           32,
		ArrayDimensions: []uint16{2, 2},
		ArrayData: []byte{
			0, 0, 0, 1,
			0, 0, 0, 2,
			0, 0, 0, 3,
			0xFF, 0xFF, 0xFF, 0xFF, // -1
		},
	}

	it, err := NewArrayIterator(v, true)
	require.NoError(t, err)

	var got []int64
	for it.Next() {
		elem, err := it.Value()
		require.NoError(t, err)
		require.Equal(t, KindInt, elem.Kind)
		got = append(got, elem.Int.Int64())
	}

	require.NoError(t, it.Err())
	require.Equal(t, []int64{1, 2, 3, -1}, got)
}

func TestArrayIteratorBoolElements(t *testing.T) {
	v := Value{
		Kind:            KindBool,
		IsArray:         true,
		ArrayDimensions: []uint16{3},
		ArrayData:       []byte{1, 0, 1},
	}

	it, err := NewArrayIterator(v, true)
	require.NoError(t, err)

	var got []bool
	for it.Next() {
		elem, err := it.Value()
		require.NoError(t, err)
		got = append(got, elem.Bool)
	}

	require.NoError(t, it.Err())
	require.Equal(t, []bool{true, false, true}, got)
}

func TestArrayIteratorTruncatedDataFails(t *testing.T) {
	v := Value{
		Kind:            KindInt,
		IsArray:         true,
		Width:           32,
		ArrayDimensions: []uint16{2},
		ArrayData:       []byte{0, 0, 0, 1}, // only one element's worth of bytes
	}

	it, err := NewArrayIterator(v, true)
	require.NoError(t, err)

	require.True(t, it.Next())
	_, err = it.Value()
	require.NoError(t, err)

	require.True(t, it.Next())
	_, err = it.Value()
	require.Error(t, err)
	require.False(t, it.Next())
	require.Error(t, it.Err())
}

func TestNewArrayIteratorRejectsNonArray(t *testing.T) {
	_, err := NewArrayIterator(Value{Kind: KindInt}, true)
	require.Error(t, err)
}
