package verbose

import (
	"errors"
	"testing"

	"github.com/dlt-go/dltcore/errs"
	"github.com/stretchr/testify/require"
)

func TestDecodeTypeInfoRejectsReservedBit(t *testing.T) {
	_, err := DecodeTypeInfo([4]byte{0b0001_0000, 0b1000_0000, 0, 0})

	var target *errs.InvalidTypeInfo
	require.True(t, errors.As(err, &target))
}

func TestDecodeTypeInfoRejectsMultipleBaseKinds(t *testing.T) {
	_, err := DecodeTypeInfo([4]byte{0b0011_0000, 0, 0, 0}) // BOOL + SINT

	var target *errs.InvalidTypeInfo
	require.True(t, errors.As(err, &target))
}

func TestDecodeTypeInfoRejectsZeroBaseKinds(t *testing.T) {
	_, err := DecodeTypeInfo([4]byte{0, 0, 0, 0})

	var target *errs.InvalidTypeInfo
	require.True(t, errors.As(err, &target))
}

func TestTypeInfoUint64WithVarInfo(t *testing.T) {
	word := [4]byte{0b0100_0100, 0b0000_1000, 0, 0}

	ti, err := DecodeTypeInfo(word)
	require.NoError(t, err)
	require.Equal(t, KindInt, ti.Kind)
	require.False(t, ti.Signed)
	require.Equal(t, 64, ti.Width)
	require.True(t, ti.HasVarInfo)

	require.Equal(t, word, ti.Encode())
}

func TestTypeInfoArrayOfFloat32(t *testing.T) {
	word := [4]byte{0b1000_0011, 0b0000_0001, 0, 0}

	ti, err := DecodeTypeInfo(word)
	require.NoError(t, err)
	require.Equal(t, KindFloat, ti.Kind)
	require.Equal(t, 32, ti.Width)
	require.True(t, ti.IsArray)

	require.Equal(t, word, ti.Encode())
}

func TestTypeInfoRejectsArrayWithoutNumericBase(t *testing.T) {
	// STRING + ARRAY is not a valid combination per spec.
	_, err := DecodeTypeInfo([4]byte{0, 0b0000_0011, 0, 0})

	var target *errs.InvalidTypeInfo
	require.True(t, errors.As(err, &target))
}

func TestTypeInfoRejectsFixedPointOnNonInt(t *testing.T) {
	_, err := DecodeTypeInfo([4]byte{0b1000_0011, 0b0001_0000, 0, 0}) // FLOAT + FIXED_POINT

	var target *errs.InvalidTypeInfo
	require.True(t, errors.As(err, &target))
}

func TestTypeInfoRejectsVarInfoOnTraceInfo(t *testing.T) {
	_, err := DecodeTypeInfo([4]byte{0, 0b0010_1000, 0, 0}) // TRACE_INFO + VARINFO

	var target *errs.InvalidTypeInfo
	require.True(t, errors.As(err, &target))
}
