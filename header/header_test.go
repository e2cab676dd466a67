package header

import (
	"errors"
	"testing"

	"github.com/dlt-go/dltcore/errs"
	"github.com/stretchr/testify/require"
)

func TestMinimalHeaderRoundTrip(t *testing.T) {
	h := Header{
		Flags:          Flags(0).WithVersion(VersionWritten),
		MessageCounter: 0,
		Length:         4,
	}

	want := []byte{0x20, 0x00, 0x00, 0x04}
	require.Equal(t, want, h.Bytes())

	got, err := Parse(want)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestFullFlagHeaderRoundTrip(t *testing.T) {
	flags := Flags(0).
		WithExtendedHeader(true).
		WithBigEndian(true).
		WithECU(true).
		WithSessionID(true).
		WithTimestamp(true).
		WithVersion(VersionWritten)

	h := Header{
		Flags:          flags,
		MessageCounter: 0x2A,
		Length:         26,
		ECUID:          [4]byte{'E', 'C', 'U', '1'},
		ECUIDPresent:   true,
		SessionID:      0x01020304,
		SessionIDSet:   true,
		Timestamp:      0x10203040,
		TimestampSet:   true,
		HasExtended:    true,
		ExtendedHeader: Extended{
			MessageInfo:       0x41,
			NumberOfArguments: 0x02,
			ApplicationID:     [4]byte{'A', 'P', 'P', '1'},
			ContextID:         [4]byte{'C', 'T', 'X', '1'},
		},
	}

	require.Equal(t, byte(0x3F), byte(flags))
	bytes := h.Bytes()
	require.Equal(t, []byte{0x3F, 0x2A, 0x00, 0x1A}, bytes[:4])
	require.Equal(t, 26, h.HeaderLen())

	got, err := Parse(bytes)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestParseShortBufferYieldsUnexpectedEndOfSlice(t *testing.T) {
	_, err := Parse([]byte{0x20, 0x00})

	var target *errs.UnexpectedEndOfSlice
	require.True(t, errors.As(err, &target))
	require.Equal(t, 4, target.MinimumSize)
	require.Equal(t, 2, target.ActualSize)
}

func TestParseShortForComputedHeaderLen(t *testing.T) {
	flags := Flags(0).WithECU(true).WithVersion(VersionWritten)
	buf := []byte{byte(flags), 0x00, 0x00, 0x08, 'E', 'C'} // missing 2 ECU bytes

	_, err := Parse(buf)

	var target *errs.UnexpectedEndOfSlice
	require.True(t, errors.As(err, &target))
	require.Equal(t, 8, target.MinimumSize)
	require.Equal(t, 6, target.ActualSize)
}

func TestParseUnsupportedVersion(t *testing.T) {
	flags := Flags(0).WithVersion(5)
	_, err := Parse([]byte{byte(flags), 0, 0, 4})

	var target *errs.UnsupportedDltVersion
	require.True(t, errors.As(err, &target))
	require.EqualValues(t, 5, target.Version)
}

func TestIsVerbose(t *testing.T) {
	h := Header{
		Flags:       Flags(0).WithExtendedHeader(true),
		HasExtended: true,
		ExtendedHeader: Extended{
			MessageInfo: 0b0000_0001,
		},
	}
	require.True(t, h.IsVerbose())

	h.ExtendedHeader.MessageInfo = 0b0000_0000
	require.False(t, h.IsVerbose())

	h.Flags = Flags(0)
	h.HasExtended = false
	require.False(t, h.IsVerbose())
}

func TestAcceptsBothDecodableVersions(t *testing.T) {
	for _, v := range []uint8{0, 1} {
		flags := Flags(0).WithVersion(v)
		_, err := Parse([]byte{byte(flags), 0, 0, 4})
		require.NoError(t, err)
	}
}
