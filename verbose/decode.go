package verbose

import (
	"unicode/utf8"

	"github.com/dlt-go/dltcore/errs"
)

// DecodeValue reads one complete verbose argument (type-info word plus its
// payload) from s at the given payload endianness.
func DecodeValue(s *Slicer, bigEndian bool) (Value, error) {
	wordBytes, err := s.ReadRaw(4)
	if err != nil {
		return Value{}, err
	}

	var word [4]byte
	copy(word[:], wordBytes)

	ti, err := DecodeTypeInfo(word)
	if err != nil {
		return Value{}, err
	}

	if ti.IsArray {
		return decodeArray(s, bigEndian, ti)
	}

	switch ti.Kind {
	case KindBool:
		return decodeBool(s, bigEndian, ti)
	case KindInt:
		return decodeInt(s, bigEndian, ti)
	case KindFloat:
		return decodeFloat(s, bigEndian, ti)
	case KindString:
		return decodeString(s, bigEndian, ti)
	case KindRaw:
		return decodeRaw(s, bigEndian, ti)
	case KindTraceInfo:
		return decodeTraceInfo(s, ti)
	case KindStruct:
		return decodeStruct(s, bigEndian, ti)
	default:
		return Value{}, &errs.InvalidTypeInfo{Bytes: word}
	}
}

func readOptionalVarInfo(s *Slicer, bigEndian bool, has bool) (*VariableInfo, error) {
	if !has {
		return nil, nil
	}

	name, unit, err := s.ReadVarNameAndUnit(bigEndian)
	if err != nil {
		return nil, err
	}

	return &VariableInfo{Name: name, Unit: unit}, nil
}

func decodeBool(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	var varInfo *VariableInfo

	if ti.HasVarInfo {
		name, err := s.ReadVarName(bigEndian)
		if err != nil {
			return Value{}, err
		}

		varInfo = &VariableInfo{Name: name}
	}

	b, err := s.ReadU8()
	if err != nil {
		return Value{}, err
	}

	if b != 0 && b != 1 {
		return Value{}, &errs.InvalidBoolValue{Byte: b}
	}

	return Value{Kind: KindBool, VarInfo: varInfo, Bool: b == 1}, nil
}

func readIntWidth(s *Slicer, bigEndian bool, width int) (Int128, error) {
	switch width {
	case 8:
		v, err := s.ReadU8()
		return Int128{Lo: uint64(v)}, err
	case 16:
		v, err := s.ReadU16(bigEndian)
		return Int128{Lo: uint64(v)}, err
	case 32:
		v, err := s.ReadU32(bigEndian)
		return Int128{Lo: uint64(v)}, err
	case 64:
		v, err := s.ReadU64(bigEndian)
		return Int128{Lo: v}, err
	case 128:
		hi, lo, err := s.ReadU128(bigEndian)
		return Int128{Hi: hi, Lo: lo}, err
	default:
		return Int128{}, &errs.InvalidTypeInfo{}
	}
}

func decodeInt(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	varInfo, err := readOptionalVarInfo(s, bigEndian, ti.HasVarInfo)
	if err != nil {
		return Value{}, err
	}

	scaling, err := s.ReadScaling(bigEndian, ti)
	if err != nil {
		return Value{}, err
	}

	v, err := readIntWidth(s, bigEndian, ti.Width)
	if err != nil {
		return Value{}, err
	}

	if ti.Signed && ti.Width < 128 {
		shift := uint(64 - ti.Width)
		v = Int128FromInt64(int64(v.Lo<<shift) >> shift)
	}

	return Value{
		Kind:    KindInt,
		VarInfo: varInfo,
		Scaling: scaling,
		Signed:  ti.Signed,
		Width:   ti.Width,
		Int:     v,
	}, nil
}

func decodeFloat(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	varInfo, err := readOptionalVarInfo(s, bigEndian, ti.HasVarInfo)
	if err != nil {
		return Value{}, err
	}

	val := Value{Kind: KindFloat, VarInfo: varInfo, Width: ti.Width}

	switch ti.Width {
	case 16:
		bits, err := s.ReadF16(bigEndian)
		if err != nil {
			return Value{}, err
		}

		val.RawBits = Int128{Lo: uint64(bits)}
	case 32:
		f, err := s.ReadF32(bigEndian)
		if err != nil {
			return Value{}, err
		}

		val.F32 = f
	case 64:
		f, err := s.ReadF64(bigEndian)
		if err != nil {
			return Value{}, err
		}

		val.F64 = f
	case 128:
		hi, lo, err := s.ReadF128(bigEndian)
		if err != nil {
			return Value{}, err
		}

		val.RawBits = Int128{Hi: hi, Lo: lo}
	default:
		return Value{}, &errs.InvalidTypeInfo{}
	}

	return val, nil
}

func decodeString(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	start := s.offset

	l, err := s.ReadU16(bigEndian)
	if err != nil {
		return Value{}, err
	}

	var varInfo *VariableInfo

	if ti.HasVarInfo {
		name, err := s.ReadVarName(bigEndian)
		if err != nil {
			s.offset = start
			return Value{}, err
		}

		varInfo = &VariableInfo{Name: name}
	}

	raw, err := s.ReadRaw(int(l))
	if err != nil {
		s.offset = start
		return Value{}, err
	}

	if l > 0 && raw[len(raw)-1] != 0 {
		s.offset = start
		return Value{}, &errs.VariableNameStringMissingNullTermination{}
	}

	str := ""
	if l > 0 {
		body := raw[:len(raw)-1]
		if !utf8.Valid(body) {
			s.offset = start
			return Value{}, &errs.Utf8{Inner: errInvalidUTF8}
		}

		str = string(body)
	}

	return Value{Kind: KindString, VarInfo: varInfo, Str: str, ASCII: ti.ASCII}, nil
}

func decodeRaw(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	start := s.offset

	l, err := s.ReadU16(bigEndian)
	if err != nil {
		return Value{}, err
	}

	var varInfo *VariableInfo

	if ti.HasVarInfo {
		name, err := s.ReadVarName(bigEndian)
		if err != nil {
			s.offset = start
			return Value{}, err
		}

		varInfo = &VariableInfo{Name: name}
	}

	raw, err := s.ReadRaw(int(l))
	if err != nil {
		s.offset = start
		return Value{}, err
	}

	return Value{Kind: KindRaw, VarInfo: varInfo, Raw: raw}, nil
}

func decodeTraceInfo(s *Slicer, ti TypeInfo) (Value, error) {
	l, err := s.ReadU16(false)
	if err != nil {
		return Value{}, err
	}

	raw, err := s.ReadRaw(int(l))
	if err != nil {
		return Value{}, err
	}

	return Value{Kind: KindTraceInfo, TraceInfo: raw}, nil
}

func decodeStruct(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	start := s.offset

	n, err := s.ReadU16(bigEndian)
	if err != nil {
		return Value{}, err
	}

	var varInfo *VariableInfo

	if ti.HasVarInfo {
		name, err := s.ReadVarName(bigEndian)
		if err != nil {
			s.offset = start
			return Value{}, err
		}

		varInfo = &VariableInfo{Name: name}
	}

	remaining := s.Remaining()
	consumed, err := scanStructEntries(remaining, bigEndian, int(n))
	if err != nil {
		return Value{}, err
	}

	data, err := s.ReadRaw(consumed)
	if err != nil {
		return Value{}, err
	}

	return Value{Kind: KindStruct, VarInfo: varInfo, StructEntryCount: n, StructData: data}, nil
}

// scanStructEntries walks n complete verbose values starting at buf without
// retaining their decoded form, returning the total bytes they occupy. This
// lets decodeStruct borrow the nested span as one contiguous slice instead of
// copying each entry out individually.
func scanStructEntries(buf []byte, bigEndian bool, n int) (int, error) {
	sub := NewSlicer(buf)

	for i := 0; i < n; i++ {
		if _, err := DecodeValue(sub, bigEndian); err != nil {
			if _, ok := err.(*errs.UnexpectedEndOfSlice); ok {
				return 0, &errs.StructDataLengthOverflow{Declared: n, Remaining: len(buf)}
			}

			return 0, err
		}
	}

	return sub.Offset(), nil
}

func decodeArray(s *Slicer, bigEndian bool, ti TypeInfo) (Value, error) {
	start := s.offset

	dims, err := s.ReadArrayDimensions(bigEndian)
	if err != nil {
		return Value{}, err
	}

	count, err := ArrayElementCount(dims)
	if err != nil {
		return Value{}, err
	}

	var varInfo *VariableInfo

	if ti.HasVarInfo {
		name, unit, err := s.ReadVarNameAndUnit(bigEndian)
		if err != nil {
			s.offset = start
			return Value{}, err
		}

		varInfo = &VariableInfo{Name: name, Unit: unit}
	}

	scaling, err := s.ReadScaling(bigEndian, ti)
	if err != nil {
		return Value{}, err
	}

	byteWidth := ti.Width / 8
	if ti.Kind == KindBool {
		byteWidth = 1
	}

	totalBytes := int(count) * byteWidth

	data, err := s.ReadRaw(totalBytes)
	if err != nil {
		return Value{}, err
	}

	return Value{
		Kind:            ti.Kind,
		IsArray:         true,
		VarInfo:         varInfo,
		Scaling:         scaling,
		Signed:          ti.Signed,
		Width:           ti.Width,
		ArrayDimensions: dims,
		ArrayData:       data,
	}, nil
}
