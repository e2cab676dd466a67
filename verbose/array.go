package verbose

import "github.com/dlt-go/dltcore/errs"

// ArrayIterator produces the elements of an array Value one at a time,
// splitting ArrayData in row-major order instead of materializing every
// element up front. It decodes lazily the same way Iterator does for
// top-level verbose arguments.
type ArrayIterator struct {
	slicer    *Slicer
	bigEndian bool
	kind      Kind
	signed    bool
	width     int

	remaining uint64
	err       error
}

// NewArrayIterator wraps an array Value's borrowed ArrayData for lazy,
// element-at-a-time decoding. v must have IsArray set.
func NewArrayIterator(v Value, bigEndian bool) (*ArrayIterator, error) {
	if !v.IsArray {
		return nil, &errs.InvalidTypeInfo{}
	}

	count, err := v.ArrayElementCount()
	if err != nil {
		return nil, err
	}

	return &ArrayIterator{
		slicer:    NewSlicer(v.ArrayData),
		bigEndian: bigEndian,
		kind:      v.Kind,
		signed:    v.Signed,
		width:     v.Width,
		remaining: count,
	}, nil
}

// Next reports whether another element is available. Once it returns false,
// Err reports whether that was due to exhaustion (nil) or a decode failure.
func (it *ArrayIterator) Next() bool {
	return it.err == nil && it.remaining > 0
}

// Err returns the error that terminated iteration, if any.
func (it *ArrayIterator) Err() error {
	return it.err
}

// Value decodes and returns the next element. Callers must check Next
// before calling Value. The returned Value carries only the scalar fields
// relevant to the array's element Kind; IsArray is always false on it.
func (it *ArrayIterator) Value() (Value, error) {
	v, err := it.decodeElement()
	if err != nil {
		it.err = err
		it.remaining = 0

		return Value{}, err
	}

	it.remaining--

	return v, nil
}

func (it *ArrayIterator) decodeElement() (Value, error) {
	switch it.kind {
	case KindBool:
		b, err := it.slicer.ReadU8()
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: KindBool, Bool: b != 0}, nil
	case KindInt:
		return it.decodeIntElement()
	case KindFloat:
		return it.decodeFloatElement()
	default:
		return Value{}, &errs.InvalidTypeInfo{}
	}
}

func (it *ArrayIterator) decodeIntElement() (Value, error) {
	var n Int128
	var err error

	switch it.width {
	case 8:
		var u uint8
		u, err = it.slicer.ReadU8()
		n = Int128{Lo: uint64(u)}
	case 16:
		var u uint16
		u, err = it.slicer.ReadU16(it.bigEndian)
		n = Int128{Lo: uint64(u)}
	case 32:
		var u uint32
		u, err = it.slicer.ReadU32(it.bigEndian)
		n = Int128{Lo: uint64(u)}
	case 64:
		var u uint64
		u, err = it.slicer.ReadU64(it.bigEndian)
		n = Int128{Lo: u}
	case 128:
		var hi, lo uint64
		hi, lo, err = it.slicer.ReadU128(it.bigEndian)
		n = Int128{Hi: hi, Lo: lo}
	default:
		return Value{}, &errs.InvalidTypeInfo{}
	}

	if err != nil {
		return Value{}, err
	}

	if it.signed && it.width < 128 {
		shift := uint(64 - it.width)
		n = Int128FromInt64(int64(n.Lo<<shift) >> shift)
	}

	return Value{Kind: KindInt, Signed: it.signed, Width: it.width, Int: n}, nil
}

func (it *ArrayIterator) decodeFloatElement() (Value, error) {
	switch it.width {
	case 16:
		bits, err := it.slicer.ReadF16(it.bigEndian)
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: KindFloat, Width: 16, RawBits: Int128{Lo: uint64(bits)}}, nil
	case 32:
		f, err := it.slicer.ReadF32(it.bigEndian)
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: KindFloat, Width: 32, F32: f}, nil
	case 64:
		f, err := it.slicer.ReadF64(it.bigEndian)
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: KindFloat, Width: 64, F64: f}, nil
	case 128:
		hi, lo, err := it.slicer.ReadF128(it.bigEndian)
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: KindFloat, Width: 128, RawBits: Int128{Hi: hi, Lo: lo}}, nil
	default:
		return Value{}, &errs.InvalidTypeInfo{}
	}
}
