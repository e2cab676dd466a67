package dltcore

import (
	"testing"

	"github.com/dlt-go/dltcore/header"
	"github.com/stretchr/testify/require"
)

func buildVerboseMessage(numArgs uint8, payload []byte) []byte {
	h := header.Header{
		Flags:       header.Flags(0).WithExtendedHeader(true).WithVersion(header.VersionWritten),
		HasExtended: true,
		ExtendedHeader: header.Extended{
			MessageInfo:       1, // VERB bit set
			NumberOfArguments: numArgs,
			ApplicationID:     [4]byte{'A', 'P', 'P', '1'},
			ContextID:         [4]byte{'C', 'T', 'X', '1'},
		},
	}
	h.Length = uint16(h.HeaderLen() + len(payload))

	return append(h.Bytes(), payload...)
}

func TestParsePacketAndDecodeVerbosePayload(t *testing.T) {
	// One verbose UINT32 argument: type-info word then a 4-byte little-endian value.
	typeInfo := []byte{0b0100_0011, 0, 0, 0}
	valueBytes := []byte{42, 0, 0, 0}

	payload := append(append([]byte{}, typeInfo...), valueBytes...)
	buf := buildVerboseMessage(1, payload)

	slice, err := ParsePacket(buf)
	require.NoError(t, err)
	require.True(t, slice.IsVerbose())

	values, err := DecodeVerbosePayload(slice)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, uint64(42), values[0].Int.Uint64())
}

func TestParseHeaderMatchesPacketHeaderLen(t *testing.T) {
	buf := []byte{0x20, 0x00, 0x00, 0x04}

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, 4, h.HeaderLen())
}

func TestNewFTPoolStartsEmpty(t *testing.T) {
	pool := NewFTPool[string, int]()

	require.Equal(t, 0, pool.ActiveTransfers())
}
