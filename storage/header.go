// Package storage implements the file-framing collaborator that wraps each
// DLT packet on disk or on a recording stream: a 16-byte storage header
// followed by the packet's own bytes, repeated back to back. This is
// additive scaffolding around the core codec packages, not a redefinition of
// the wire format they implement.
package storage

import (
	"encoding/binary"

	"github.com/dlt-go/dltcore/errs"
)

// HeaderLen is the fixed size of a storage header: 4 magic bytes, a 4-byte
// little-endian timestamp in seconds, a 4-byte little-endian microseconds
// component, and a raw 4-byte ECU id.
const HeaderLen = 16

var magic = [4]byte{0x44, 0x4C, 0x54, 0x01} // "DLT" + version 1

// Header is the storage wrapper preceding each packet in a recording.
// Unlike the DLT header's optional, big-endian-capable fields, the storage
// header's timestamp fields are always little-endian on the wire, matching
// the byte order of the recording tool's host platform rather than the
// protocol's own endianness flag.
type Header struct {
	Seconds      uint32
	Microseconds uint32
	ECUID        [4]byte
}

// ParseHeader reads a storage header from the front of buf. buf must be at
// least HeaderLen bytes.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, &errs.UnexpectedEndOfSlice{Layer: errs.LayerStorage, MinimumSize: HeaderLen, ActualSize: len(buf)}
	}

	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		var got [4]byte
		copy(got[:], buf[0:4])

		return Header{}, &errs.StorageHeaderStartPattern{Actual: got}
	}

	var h Header
	h.Seconds = binary.LittleEndian.Uint32(buf[4:8])
	h.Microseconds = binary.LittleEndian.Uint32(buf[8:12])
	copy(h.ECUID[:], buf[12:16])

	return h, nil
}

// Bytes encodes h back into its 16-byte wire form.
func (h Header) Bytes() [HeaderLen]byte {
	var out [HeaderLen]byte
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint32(out[4:8], h.Seconds)
	binary.LittleEndian.PutUint32(out[8:12], h.Microseconds)
	copy(out[12:16], h.ECUID[:])

	return out
}
