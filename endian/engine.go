// Package endian provides byte order utilities for binary encoding and decoding.
//
// It combines encoding/binary's ByteOrder and AppendByteOrder interfaces into a
// single Engine interface so the rest of the codebase can select an endianness
// once (from a DLT header's MSBF flag, or a storage header's fixed convention)
// and pass the resulting value around instead of branching on a bool at every
// read/write site.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from the standard library into
// a single interface. binary.LittleEndian and binary.BigEndian both satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Big returns the big-endian engine. DLT header fields are always big-endian;
// payload fields use this engine when the MSBF flag is set.
func Big() Engine {
	return binary.BigEndian
}

// Little returns the little-endian engine. Payload fields use this engine when
// the MSBF flag is clear; the storage collaborator's timestamp fields are
// little-endian per spec.
func Little() Engine {
	return binary.LittleEndian
}

// Select returns Big() when bigEndian is true, Little() otherwise. This mirrors
// the MSBF bit's direct meaning: callers pass the flag bit straight through.
func Select(bigEndian bool) Engine {
	if bigEndian {
		return Big()
	}

	return Little()
}

// hostEndian reports the host's native byte order, used by
// IsNativeLittleEndian and IsNativeBigEndian.
func hostEndian() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host CPU is little-endian.
func IsNativeLittleEndian() bool {
	return hostEndian() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host CPU is big-endian.
func IsNativeBigEndian() bool {
	return hostEndian() == binary.BigEndian
}
