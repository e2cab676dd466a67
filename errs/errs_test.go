package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessagesNonEmpty(t *testing.T) {
	cases := []error{
		&UnexpectedEndOfSlice{Layer: LayerDltHeader, MinimumSize: 4, ActualSize: 2},
		&UnsupportedDltVersion{Version: 5},
		&DltMessageLengthTooSmall{Required: 10, Actual: 4},
		&StorageHeaderStartPattern{Actual: [4]byte{0, 0, 0, 0}},
		&InvalidTypeInfo{Bytes: [4]byte{0xff, 0xff, 0, 0}},
		&InvalidBoolValue{Byte: 2},
		&VariableNameStringMissingNullTermination{},
		&VariableUnitStringMissingNullTermination{},
		&ArrayDimensionsOverflow{Dimensions: []uint16{0xffff, 0xffff, 0xffff, 0xffff}},
		&StructDataLengthOverflow{Declared: 5, Remaining: 2},
		&Utf8{Inner: errors.New("bad byte")},
		&NetworkTypeUserDefinedOutsideOfRange{Value: 99},
		&FileSizeTooBig{FileSize: 1 << 40, MaxAllowed: 1 << 32},
		&InconsistantHeaderLenValues{FileSize: 100, NumberOfPackages: 2, BufferSize: 10},
		&AllocationFailure{Len: 1 << 40},
		&UnexpectedPackageNrInDataPkg{Expected: 3, Got: 5},
		&DataLenNotMatchingBufferSize{HeaderBufferLen: 20, DataPktLen: 10, DataPktNr: 2, NumberOfPackages: 3},
		&DataForUnknownStream{FileSerial: 42},
		&EndForUnknownStream{FileSerial: 42},
	}

	for _, err := range cases {
		require.NotEmpty(t, err.Error())
	}
}

func TestUtf8Unwrap(t *testing.T) {
	inner := errors.New("invalid continuation byte")
	wrapped := fmt.Errorf("decode string: %w", &Utf8{Inner: inner})

	var target *Utf8
	require.True(t, errors.As(wrapped, &target))
	require.ErrorIs(t, target, inner)
}
