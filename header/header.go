package header

import (
	"encoding/binary"

	"github.com/dlt-go/dltcore/errs"
)

// Header is the parsed form of a DLT standard header: the fixed 4-byte prefix
// plus whichever optional fields its Flags select.
type Header struct {
	Flags           Flags
	MessageCounter  uint8
	Length          uint16
	ECUID           [4]byte
	ECUIDPresent    bool
	SessionID       uint32
	SessionIDSet    bool
	Timestamp       uint32
	TimestampSet    bool
	ExtendedHeader  Extended
	HasExtended     bool
}

// HeaderLen returns the byte length of h's encoded form (base header plus
// whichever optional fields are present), computed from h.Flags.
func (h Header) HeaderLen() int {
	return h.Flags.HeaderLen()
}

// IsVerbose reports whether h carries an extended header whose VERB bit is
// set. A header with no extended header is never verbose.
func (h Header) IsVerbose() bool {
	return h.Flags.HasExtendedHeader() && h.ExtendedHeader.IsVerbose()
}

// Parse decodes a Header from the start of buf. It requires at least 4 bytes
// for the base prefix, then at least HeaderLen() bytes total for the optional
// fields flags select, consuming exactly that many bytes in fixed order: ECU
// id, session id, timestamp, extended header.
func Parse(buf []byte) (Header, error) {
	if len(buf) < 4 {
		return Header{}, &errs.UnexpectedEndOfSlice{
			Layer:       errs.LayerDltHeader,
			MinimumSize: 4,
			ActualSize:  len(buf),
		}
	}

	flags := Flags(buf[0])
	if err := flags.Validate(); err != nil {
		return Header{}, err
	}

	h := Header{
		Flags:          flags,
		MessageCounter: buf[1],
		Length:         binary.BigEndian.Uint16(buf[2:4]),
	}

	need := h.HeaderLen()
	if len(buf) < need {
		return Header{}, &errs.UnexpectedEndOfSlice{
			Layer:       errs.LayerDltHeader,
			MinimumSize: need,
			ActualSize:  len(buf),
		}
	}

	off := 4
	if flags.HasECU() {
		copy(h.ECUID[:], buf[off:off+4])
		h.ECUIDPresent = true
		off += 4
	}

	if flags.HasSessionID() {
		h.SessionID = binary.BigEndian.Uint32(buf[off : off+4])
		h.SessionIDSet = true
		off += 4
	}

	if flags.HasTimestamp() {
		h.Timestamp = binary.BigEndian.Uint32(buf[off : off+4])
		h.TimestampSet = true
		off += 4
	}

	if flags.HasExtendedHeader() {
		ext, err := parseExtended(buf[off : off+extendedHeaderLen])
		if err != nil {
			return Header{}, err
		}

		h.ExtendedHeader = ext
		h.HasExtended = true
	}

	return h, nil
}

// Bytes serializes h to its wire form. The protocol version is always
// written as VersionWritten regardless of the version carried by h.Flags;
// decoders accept both 0 and 1.
func (h Header) Bytes() []byte {
	flags := h.Flags.WithVersion(VersionWritten)

	out := make([]byte, 0, h.HeaderLen())
	out = append(out, byte(flags), h.MessageCounter, 0, 0)
	binary.BigEndian.PutUint16(out[2:4], h.Length)

	if flags.HasECU() {
		out = append(out, h.ECUID[:]...)
	}

	if flags.HasSessionID() {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], h.SessionID)
		out = append(out, b[:]...)
	}

	if flags.HasTimestamp() {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], h.Timestamp)
		out = append(out, b[:]...)
	}

	if flags.HasExtendedHeader() {
		out = h.ExtendedHeader.appendBytes(out)
	}

	return out
}
