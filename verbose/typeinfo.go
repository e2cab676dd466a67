// Package verbose implements the verbose-argument type system: the 32-bit
// type-info codec, the bounds-checked field slicer, and the tagged Value sum
// type produced by decoding (and consumed by encoding) one verbose argument.
package verbose

import "github.com/dlt-go/dltcore/errs"

// Kind identifies the base kind a type-info word selects. Exactly one Kind is
// legal per word; Array is tracked orthogonally on TypeInfo.IsArray since it
// may co-occur with a numeric Kind to describe an array's element type.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindRaw
	KindTraceInfo
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindRaw:
		return "raw"
	case KindTraceInfo:
		return "trace_info"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Byte 0 bit layout: bits 0-3 type-length nibble, bit4 BOOL, bit5 SINT,
// bit6 UINT, bit7 FLOAT.
const (
	bitBool  = 0b0001_0000
	bitSint  = 0b0010_0000
	bitUint  = 0b0100_0000
	bitFloat = 0b1000_0000
	nibble   = 0b0000_1111
)

// Byte 1 bit layout: bit0 ARRAY, bit1 STRING, bit2 RAW, bit3 VARINFO,
// bit4 FIXED_POINT, bit5 TRACE_INFO, bit6 STRUCT. Bit7 is reserved.
const (
	bitArray      = 0b0000_0001
	bitString     = 0b0000_0010
	bitRaw        = 0b0000_0100
	bitVarInfo    = 0b0000_1000
	bitFixedPoint = 0b0001_0000
	bitTraceInfo  = 0b0010_0000
	bitStruct     = 0b0100_0000
	byte1Reserved = 0b1000_0000
)

// widthFromNibble maps the type-length nibble to a bit width. 0, 6, and 7 are
// not valid numeric widths.
var widthFromNibble = map[uint8]int{1: 8, 2: 16, 3: 32, 4: 64, 5: 128}

var nibbleFromWidth = map[int]uint8{8: 1, 16: 2, 32: 3, 64: 4, 128: 5}

// TypeInfo is the decoded, validated form of a verbose type-info word.
type TypeInfo struct {
	Kind          Kind
	IsArray       bool
	Signed        bool // meaningful only when Kind == KindInt
	Width         int  // bit width for numeric kinds and array elements; 0 otherwise
	HasVarInfo    bool
	HasFixedPoint bool
	ASCII         bool // meaningful only when Kind == KindString: true selects ASCII, false UTF-8
}

// DecodeTypeInfo validates and decodes a 4-byte type-info word.
func DecodeTypeInfo(word [4]byte) (TypeInfo, error) {
	b0, b1 := word[0], word[1]

	if b1&byte1Reserved != 0 {
		return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
	}

	// Bytes 2 and 3 are reserved in their entirety.
	if word[2] != 0 || word[3] != 0 {
		return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
	}

	numericBits := 0
	if b0&bitBool != 0 {
		numericBits++
	}

	if b0&bitSint != 0 {
		numericBits++
	}

	if b0&bitUint != 0 {
		numericBits++
	}

	if b0&bitFloat != 0 {
		numericBits++
	}

	baseBits := numericBits
	if b1&bitString != 0 {
		baseBits++
	}

	if b1&bitRaw != 0 {
		baseBits++
	}

	if b1&bitTraceInfo != 0 {
		baseBits++
	}

	if b1&bitStruct != 0 {
		baseBits++
	}

	if baseBits != 1 {
		return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
	}

	isArray := b1&bitArray != 0
	if isArray && numericBits != 1 {
		return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
	}

	ti := TypeInfo{
		IsArray:       isArray,
		HasVarInfo:    b1&bitVarInfo != 0,
		HasFixedPoint: b1&bitFixedPoint != 0,
	}

	n := b0 & nibble

	switch {
	case b0&bitBool != 0:
		ti.Kind = KindBool
		if n != 0 {
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
	case b0&bitSint != 0, b0&bitUint != 0:
		ti.Kind = KindInt
		ti.Signed = b0&bitSint != 0
		width, ok := widthFromNibble[n]
		if !ok {
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
		ti.Width = width
	case b0&bitFloat != 0:
		ti.Kind = KindFloat
		width, ok := widthFromNibble[n]
		if !ok {
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
		ti.Width = width
	case b1&bitString != 0:
		ti.Kind = KindString
		switch n {
		case 0:
			ti.ASCII = false
		case 1:
			ti.ASCII = true
		default:
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
	case b1&bitRaw != 0:
		ti.Kind = KindRaw
		if n != 0 {
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
	case b1&bitTraceInfo != 0:
		ti.Kind = KindTraceInfo
		if n != 0 || ti.HasVarInfo {
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
	case b1&bitStruct != 0:
		ti.Kind = KindStruct
		if n != 0 {
			return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
		}
	}

	if ti.HasFixedPoint && ti.Kind != KindInt {
		return TypeInfo{}, &errs.InvalidTypeInfo{Bytes: word}
	}

	return ti, nil
}

// Encode serializes ti back to its 4-byte wire form.
func (ti TypeInfo) Encode() [4]byte {
	var word [4]byte

	switch ti.Kind {
	case KindBool:
		word[0] |= bitBool
	case KindInt:
		if ti.Signed {
			word[0] |= bitSint
		} else {
			word[0] |= bitUint
		}

		word[0] |= nibbleFromWidth[ti.Width]
	case KindFloat:
		word[0] |= bitFloat
		word[0] |= nibbleFromWidth[ti.Width]
	case KindString:
		word[1] |= bitString
		if ti.ASCII {
			word[0] |= 1
		}
	case KindRaw:
		word[1] |= bitRaw
	case KindTraceInfo:
		word[1] |= bitTraceInfo
	case KindStruct:
		word[1] |= bitStruct
	}

	if ti.IsArray {
		word[1] |= bitArray
	}

	if ti.HasVarInfo {
		word[1] |= bitVarInfo
	}

	if ti.HasFixedPoint {
		word[1] |= bitFixedPoint
	}

	return word
}
