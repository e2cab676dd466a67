package verbose

import (
	"github.com/dlt-go/dltcore/endian"
)

// CapacityError reports that appending a verbose value would exceed a
// bounded output buffer's capacity. No partial bytes are appended when this
// is returned: every EncodeValue call first measures the full encoded length
// and checks capacity before writing anything.
type CapacityError struct {
	Needed    int
	Remaining int
}

func (e *CapacityError) Error() string {
	return "verbose: capacity exceeded"
}

// EncodeValue appends the wire encoding of v to dst. A dst with zero
// capacity (such as nil) grows the normal Go way, like append. A dst with
// non-zero capacity, including a slice returned by an earlier EncodeValue
// call, is treated as a fixed-capacity output buffer bounded by cap(dst):
// EncodeValue returns a CapacityError, with dst returned unchanged, if the
// encoding would not fit — no partial write is ever observable.
func EncodeValue(dst []byte, v Value, bigEndian bool) ([]byte, error) {
	buf := appendValue(nil, v, bigEndian)

	if cap(dst) > 0 {
		remaining := cap(dst) - len(dst)
		if remaining < len(buf) {
			return dst, &CapacityError{Needed: len(buf), Remaining: remaining}
		}
	}

	return append(dst, buf...), nil
}

func appendVarInfo(dst []byte, vi *VariableInfo, bigEndian bool, withUnit bool) []byte {
	eng := endian.Select(bigEndian)

	nameLen := uint16(len(vi.Name) + 1)

	if withUnit {
		unitLen := uint16(len(vi.Unit) + 1)
		dst = eng.AppendUint16(dst, nameLen)
		dst = eng.AppendUint16(dst, unitLen)
		dst = append(dst, []byte(vi.Name)...)
		dst = append(dst, 0)
		dst = append(dst, []byte(vi.Unit)...)
		dst = append(dst, 0)

		return dst
	}

	dst = eng.AppendUint16(dst, nameLen)
	dst = append(dst, []byte(vi.Name)...)
	dst = append(dst, 0)

	return dst
}

func appendScaling(dst []byte, sc *Scaling, bigEndian bool) []byte {
	eng := endian.Select(bigEndian)
	dst = eng.AppendUint32(dst, float32ToBits(sc.Quantization))

	switch sc.Width {
	case 32:
		dst = eng.AppendUint32(dst, uint32(sc.Offset.Lo))
	case 64:
		dst = eng.AppendUint64(dst, sc.Offset.Lo)
	case 128:
		if bigEndian {
			dst = eng.AppendUint64(dst, sc.Offset.Hi)
			dst = eng.AppendUint64(dst, sc.Offset.Lo)
		} else {
			dst = eng.AppendUint64(dst, sc.Offset.Lo)
			dst = eng.AppendUint64(dst, sc.Offset.Hi)
		}
	}

	return dst
}

func appendIntWidth(dst []byte, width int, v Int128, bigEndian bool) []byte {
	eng := endian.Select(bigEndian)

	switch width {
	case 8:
		dst = append(dst, byte(v.Lo))
	case 16:
		dst = eng.AppendUint16(dst, uint16(v.Lo))
	case 32:
		dst = eng.AppendUint32(dst, uint32(v.Lo))
	case 64:
		dst = eng.AppendUint64(dst, v.Lo)
	case 128:
		if bigEndian {
			dst = eng.AppendUint64(dst, v.Hi)
			dst = eng.AppendUint64(dst, v.Lo)
		} else {
			dst = eng.AppendUint64(dst, v.Lo)
			dst = eng.AppendUint64(dst, v.Hi)
		}
	}

	return dst
}

func typeInfoFor(v Value) TypeInfo {
	return TypeInfo{
		Kind:          v.Kind,
		IsArray:       v.IsArray,
		Signed:        v.Signed,
		Width:         v.Width,
		HasVarInfo:    v.VarInfo != nil,
		HasFixedPoint: v.Scaling != nil,
		ASCII:         v.ASCII,
	}
}

func appendValue(dst []byte, v Value, bigEndian bool) []byte {
	ti := typeInfoFor(v)
	word := ti.Encode()
	dst = append(dst, word[:]...)

	if v.IsArray {
		return appendArrayBody(dst, v, bigEndian)
	}

	switch v.Kind {
	case KindBool:
		if v.VarInfo != nil {
			dst = appendVarInfo(dst, v.VarInfo, bigEndian, false)
		}

		b := byte(0)
		if v.Bool {
			b = 1
		}

		dst = append(dst, b)
	case KindInt:
		if v.VarInfo != nil {
			dst = appendVarInfo(dst, v.VarInfo, bigEndian, true)
		}

		if v.Scaling != nil {
			dst = appendScaling(dst, v.Scaling, bigEndian)
		}

		dst = appendIntWidth(dst, v.Width, v.Int, bigEndian)
	case KindFloat:
		if v.VarInfo != nil {
			dst = appendVarInfo(dst, v.VarInfo, bigEndian, true)
		}

		eng := endian.Select(bigEndian)

		switch v.Width {
		case 16:
			dst = eng.AppendUint16(dst, uint16(v.RawBits.Lo))
		case 32:
			dst = eng.AppendUint32(dst, float32ToBits(v.F32))
		case 64:
			dst = eng.AppendUint64(dst, float64ToBits(v.F64))
		case 128:
			if bigEndian {
				dst = eng.AppendUint64(dst, v.RawBits.Hi)
				dst = eng.AppendUint64(dst, v.RawBits.Lo)
			} else {
				dst = eng.AppendUint64(dst, v.RawBits.Lo)
				dst = eng.AppendUint64(dst, v.RawBits.Hi)
			}
		}
	case KindString:
		eng := endian.Select(bigEndian)
		l := uint16(len(v.Str) + 1)
		dst = eng.AppendUint16(dst, l)

		if v.VarInfo != nil {
			dst = appendVarInfo(dst, v.VarInfo, bigEndian, false)
		}

		dst = append(dst, []byte(v.Str)...)
		dst = append(dst, 0)
	case KindRaw:
		eng := endian.Select(bigEndian)
		dst = eng.AppendUint16(dst, uint16(len(v.Raw)))

		if v.VarInfo != nil {
			dst = appendVarInfo(dst, v.VarInfo, bigEndian, false)
		}

		dst = append(dst, v.Raw...)
	case KindTraceInfo:
		eng := endian.Select(false)
		dst = eng.AppendUint16(dst, uint16(len(v.TraceInfo)))
		dst = append(dst, v.TraceInfo...)
	case KindStruct:
		eng := endian.Select(bigEndian)
		dst = eng.AppendUint16(dst, v.StructEntryCount)

		if v.VarInfo != nil {
			dst = appendVarInfo(dst, v.VarInfo, bigEndian, false)
		}

		dst = append(dst, v.StructData...)
	}

	return dst
}

func appendArrayBody(dst []byte, v Value, bigEndian bool) []byte {
	eng := endian.Select(bigEndian)
	dst = eng.AppendUint16(dst, uint16(len(v.ArrayDimensions)))

	for _, d := range v.ArrayDimensions {
		dst = eng.AppendUint16(dst, d)
	}

	if v.VarInfo != nil {
		dst = appendVarInfo(dst, v.VarInfo, bigEndian, true)
	}

	if v.Scaling != nil {
		dst = appendScaling(dst, v.Scaling, bigEndian)
	}

	dst = append(dst, v.ArrayData...)

	return dst
}
