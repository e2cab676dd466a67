// Package header implements the DLT standard header: the fixed 4-byte prefix,
// its optional trailing fields, and the 10-byte extended header, per the wire
// layout of the Diagnostic Log and Trace protocol.
package header

import "github.com/dlt-go/dltcore/errs"

// Flags models the htype byte that opens every DLT message. Bit layout
// (LSB-first): bit0 EXT, bit1 MSBF, bit2 ECU, bit3 SID, bit4 TMS, bits5-7
// protocol version.
type Flags uint8

const (
	flagExtendedHeader Flags = 0b0000_0001
	flagBigEndian      Flags = 0b0000_0010
	flagECU            Flags = 0b0000_0100
	flagSessionID      Flags = 0b0000_1000
	flagTimestamp      Flags = 0b0001_0000
	versionMask        Flags = 0b1110_0000
	versionShift             = 5
)

// VersionWritten is the protocol version this codec always writes, regardless
// of the version carried by the in-memory Header. Readers must accept both 0
// and 1.
const VersionWritten uint8 = 1

// versionSupported reports whether v is a decodable protocol version.
func versionSupported(v uint8) bool {
	return v == 0 || v == 1
}

// HasExtendedHeader reports whether the EXT bit is set.
func (f Flags) HasExtendedHeader() bool { return f&flagExtendedHeader != 0 }

// IsBigEndian reports whether the MSBF bit is set (payload is big-endian).
func (f Flags) IsBigEndian() bool { return f&flagBigEndian != 0 }

// HasECU reports whether a 4-byte ECU id follows the base header.
func (f Flags) HasECU() bool { return f&flagECU != 0 }

// HasSessionID reports whether a 4-byte session id follows the base header.
func (f Flags) HasSessionID() bool { return f&flagSessionID != 0 }

// HasTimestamp reports whether a 4-byte timestamp follows the base header.
func (f Flags) HasTimestamp() bool { return f&flagTimestamp != 0 }

// Version extracts the 3-bit protocol version from bits 5-7.
func (f Flags) Version() uint8 { return uint8((f & versionMask) >> versionShift) }

// WithExtendedHeader returns f with the EXT bit set to v.
func (f Flags) WithExtendedHeader(v bool) Flags { return setBit(f, flagExtendedHeader, v) }

// WithBigEndian returns f with the MSBF bit set to v.
func (f Flags) WithBigEndian(v bool) Flags { return setBit(f, flagBigEndian, v) }

// WithECU returns f with the ECU-present bit set to v.
func (f Flags) WithECU(v bool) Flags { return setBit(f, flagECU, v) }

// WithSessionID returns f with the session-id-present bit set to v.
func (f Flags) WithSessionID(v bool) Flags { return setBit(f, flagSessionID, v) }

// WithTimestamp returns f with the timestamp-present bit set to v.
func (f Flags) WithTimestamp(v bool) Flags { return setBit(f, flagTimestamp, v) }

// WithVersion returns f with bits 5-7 replaced by the low 3 bits of v. It does
// not validate v; Validate does that separately so callers can distinguish
// "built a flags value" from "confirmed it is decodable".
func (f Flags) WithVersion(v uint8) Flags {
	return (f &^ versionMask) | Flags(v)<<versionShift&versionMask
}

func setBit(f, mask Flags, v bool) Flags {
	if v {
		return f | mask
	}

	return f &^ mask
}

// Validate reports an error if the encoded version is not decodable.
func (f Flags) Validate() error {
	if !versionSupported(f.Version()) {
		return &errs.UnsupportedDltVersion{Version: f.Version()}
	}

	return nil
}

// HeaderLen returns the byte length of the base header plus whichever
// optional fields f selects: 4 + 4·ECU + 4·SID + 4·TMS + 10·EXT.
func (f Flags) HeaderLen() int {
	n := 4
	if f.HasECU() {
		n += 4
	}

	if f.HasSessionID() {
		n += 4
	}

	if f.HasTimestamp() {
		n += 4
	}

	if f.HasExtendedHeader() {
		n += 10
	}

	return n
}
