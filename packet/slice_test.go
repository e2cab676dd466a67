package packet

import (
	"errors"
	"testing"

	"github.com/dlt-go/dltcore/errs"
	"github.com/dlt-go/dltcore/header"
	"github.com/stretchr/testify/require"
)

func buildExtended(verbose bool, bigEndian bool, payload []byte) []byte {
	flags := header.Flags(0).WithExtendedHeader(true).WithVersion(header.VersionWritten)
	if bigEndian {
		flags = flags.WithBigEndian(true)
	}

	msgInfo := byte(0)
	if verbose {
		msgInfo = 1
	}

	h := header.Header{
		Flags:          flags,
		MessageCounter: 0,
		HasExtended:    true,
		ExtendedHeader: header.Extended{
			MessageInfo:       msgInfo,
			NumberOfArguments: 0,
			ApplicationID:     [4]byte{'A', 'P', 'P', '1'},
			ContextID:         [4]byte{'C', 'T', 'X', '1'},
		},
	}
	h.Length = uint16(h.HeaderLen() + len(payload))

	return append(h.Bytes(), payload...)
}

func TestMessageIDNonVerboseBigEndian(t *testing.T) {
	buf := buildExtended(false, true, []byte{0x12, 0x34, 0x56, 0x78})

	s, err := FromSlice(buf)
	require.NoError(t, err)

	id, ok := s.MessageID()
	require.True(t, ok)
	require.Equal(t, uint32(0x12345678), id)
}

func TestMessageIDNonVerboseLittleEndian(t *testing.T) {
	buf := buildExtended(false, false, []byte{0x12, 0x34, 0x56, 0x78})

	s, err := FromSlice(buf)
	require.NoError(t, err)

	id, ok := s.MessageID()
	require.True(t, ok)
	require.Equal(t, uint32(0x78563412), id)
}

func TestMessageIDVerboseIsNone(t *testing.T) {
	buf := buildExtended(true, true, []byte{0x12, 0x34, 0x56, 0x78})

	s, err := FromSlice(buf)
	require.NoError(t, err)

	_, ok := s.MessageID()
	require.False(t, ok)
}

func TestFromSliceMessageLengthTooSmall(t *testing.T) {
	flags := header.Flags(0).WithECU(true).WithVersion(header.VersionWritten)
	buf := []byte{byte(flags), 0x00, 0x00, 0x04} // length=4 but header_len=8

	_, err := FromSlice(buf)

	var target *errs.DltMessageLengthTooSmall
	require.True(t, errors.As(err, &target))
	require.Equal(t, 8, target.Required)
	require.Equal(t, 4, target.Actual)
}

func TestFromSliceShortBuffer(t *testing.T) {
	_, err := FromSlice([]byte{0x20})

	var target *errs.UnexpectedEndOfSlice
	require.True(t, errors.As(err, &target))
}
