// Package packet implements the zero-copy Packet Slice View: a borrow over
// exactly the bytes one DLT message occupies, with cheap accessors that read
// header fields directly from fixed offsets instead of materializing a full
// header struct.
package packet

import (
	"encoding/binary"

	"github.com/dlt-go/dltcore/endian"
	"github.com/dlt-go/dltcore/errs"
	"github.com/dlt-go/dltcore/header"
)

const (
	flagExtendedHeader = 0b0000_0001
	flagBigEndian      = 0b0000_0010
	extendedHeaderSize = 10
)

// Slice is a borrowed view over exactly the bytes of one DLT message. It
// allocates nothing; the backing buffer must outlive the Slice and must not
// be mutated while the Slice is live.
type Slice struct {
	buf       []byte
	headerLen int
}

// FromSlice validates buf as a complete DLT message and returns a Slice
// borrowing exactly its Length-field-declared bytes. It requires at least 4
// bytes, a decodable version, and Length >= the header length flags compute;
// any shorter buffer or inconsistency is a typed error.
func FromSlice(buf []byte) (Slice, error) {
	if len(buf) < 4 {
		return Slice{}, &errs.UnexpectedEndOfSlice{
			Layer:       errs.LayerPacketSlice,
			MinimumSize: 4,
			ActualSize:  len(buf),
		}
	}

	flags := header.Flags(buf[0])
	if err := flags.Validate(); err != nil {
		return Slice{}, err
	}

	length := int(binary.BigEndian.Uint16(buf[2:4]))
	if len(buf) < length {
		return Slice{}, &errs.UnexpectedEndOfSlice{
			Layer:       errs.LayerPacketSlice,
			MinimumSize: length,
			ActualSize:  len(buf),
		}
	}

	headerLen := flags.HeaderLen()
	if length < headerLen {
		return Slice{}, &errs.DltMessageLengthTooSmall{Required: headerLen, Actual: length}
	}

	return Slice{buf: buf[:length], headerLen: headerLen}, nil
}

// Bytes returns the full borrowed message bytes, including the header.
func (s Slice) Bytes() []byte {
	return s.buf
}

// Len returns the total message length (header plus payload).
func (s Slice) Len() int {
	return len(s.buf)
}

// HasExtendedHeader reports bit 0 of the flag byte.
func (s Slice) HasExtendedHeader() bool {
	return s.buf[0]&flagExtendedHeader != 0
}

// IsBigEndian reports bit 1 of the flag byte (payload endianness).
func (s Slice) IsBigEndian() bool {
	return s.buf[0]&flagBigEndian != 0
}

// PayloadEngine returns the endian.Engine selected by IsBigEndian.
func (s Slice) PayloadEngine() endian.Engine {
	return endian.Select(s.IsBigEndian())
}

// IsVerbose reports whether the message carries an extended header whose
// VERB bit is set. A message with no extended header is never verbose.
func (s Slice) IsVerbose() bool {
	if !s.HasExtendedHeader() {
		return false
	}

	return s.buf[s.headerLen-extendedHeaderSize]&0b0000_0001 != 0
}

// ExtendedHeader parses the 10-byte extended header, if present.
func (s Slice) ExtendedHeader() (header.Extended, bool) {
	if !s.HasExtendedHeader() {
		return header.Extended{}, false
	}

	start := s.headerLen - extendedHeaderSize
	buf := s.buf[start:s.headerLen]

	var ext header.Extended
	ext.MessageInfo = buf[0]
	ext.NumberOfArguments = buf[1]
	copy(ext.ApplicationID[:], buf[2:6])
	copy(ext.ContextID[:], buf[6:10])

	return ext, true
}

// Payload returns the bytes after the header: [headerLen, Len()).
func (s Slice) Payload() []byte {
	return s.buf[s.headerLen:]
}

// MessageID returns the first 4 payload bytes decoded at payload endianness,
// for non-verbose packets only. It returns (0, false) for verbose packets or
// when fewer than 4 payload bytes remain.
func (s Slice) MessageID() (uint32, bool) {
	id, _, ok := s.MessageIDAndPayload()
	return id, ok
}

// MessageIDAndPayload returns the non-verbose message id plus the bytes that
// follow it. It returns (_, _, false) for verbose packets or short payloads.
func (s Slice) MessageIDAndPayload() (uint32, []byte, bool) {
	if s.IsVerbose() {
		return 0, nil, false
	}

	payload := s.Payload()
	if len(payload) < 4 {
		return 0, nil, false
	}

	return s.PayloadEngine().Uint32(payload[:4]), payload[4:], true
}

// NonVerbosePayload returns the payload bytes after the 4-byte message id,
// for non-verbose packets only.
func (s Slice) NonVerbosePayload() ([]byte, bool) {
	_, rest, ok := s.MessageIDAndPayload()
	return rest, ok
}

// Header materializes a full header.Header from the borrowed bytes.
func (s Slice) Header() (header.Header, error) {
	return header.Parse(s.buf)
}
