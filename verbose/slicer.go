package verbose

import (
	"errors"
	"math/bits"
	"unicode/utf8"

	"github.com/dlt-go/dltcore/endian"
	"github.com/dlt-go/dltcore/errs"
)

var errInvalidUTF8 = errors.New("invalid utf-8 sequence")

// Slicer is a bounds-checked cursor over a borrowed byte span. offset tracks
// bytes consumed so far and is used solely for error reporting; every read
// either fully succeeds and advances offset, or fails and leaves the cursor
// exactly where it was.
type Slicer struct {
	buf    []byte
	offset int
}

// NewSlicer wraps buf in a Slicer starting at offset 0.
func NewSlicer(buf []byte) *Slicer {
	return &Slicer{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (s *Slicer) Offset() int {
	return s.offset
}

// Remaining returns the bytes not yet consumed.
func (s *Slicer) Remaining() []byte {
	return s.buf[s.offset:]
}

func (s *Slicer) need(n int) error {
	if len(s.buf)-s.offset < n {
		return &errs.UnexpectedEndOfSlice{
			Layer:       errs.LayerVerboseValue,
			MinimumSize: s.offset + n,
			ActualSize:  len(s.buf),
		}
	}

	return nil
}

// ReadU8 consumes 1 byte.
func (s *Slicer) ReadU8() (uint8, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}

	v := s.buf[s.offset]
	s.offset++

	return v, nil
}

// ReadI8 consumes 1 byte, interpreted as signed.
func (s *Slicer) ReadI8() (int8, error) {
	v, err := s.ReadU8()
	return int8(v), err
}

// ReadU16 consumes 2 bytes at the given endianness.
func (s *Slicer) ReadU16(bigEndian bool) (uint16, error) {
	if err := s.need(2); err != nil {
		return 0, err
	}

	v := endian.Select(bigEndian).Uint16(s.buf[s.offset:])
	s.offset += 2

	return v, nil
}

// ReadI16 consumes 2 bytes at the given endianness, interpreted as signed.
func (s *Slicer) ReadI16(bigEndian bool) (int16, error) {
	v, err := s.ReadU16(bigEndian)
	return int16(v), err
}

// ReadU32 consumes 4 bytes at the given endianness.
func (s *Slicer) ReadU32(bigEndian bool) (uint32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}

	v := endian.Select(bigEndian).Uint32(s.buf[s.offset:])
	s.offset += 4

	return v, nil
}

// ReadI32 consumes 4 bytes at the given endianness, interpreted as signed.
func (s *Slicer) ReadI32(bigEndian bool) (int32, error) {
	v, err := s.ReadU32(bigEndian)
	return int32(v), err
}

// ReadU64 consumes 8 bytes at the given endianness.
func (s *Slicer) ReadU64(bigEndian bool) (uint64, error) {
	if err := s.need(8); err != nil {
		return 0, err
	}

	v := endian.Select(bigEndian).Uint64(s.buf[s.offset:])
	s.offset += 8

	return v, nil
}

// ReadI64 consumes 8 bytes at the given endianness, interpreted as signed.
func (s *Slicer) ReadI64(bigEndian bool) (int64, error) {
	v, err := s.ReadU64(bigEndian)
	return int64(v), err
}

// ReadU128 consumes 16 bytes at the given endianness, returning the high and
// low 64-bit halves in big-endian-of-halves order (Hi holds the
// most-significant 64 bits regardless of the wire endianness requested).
func (s *Slicer) ReadU128(bigEndian bool) (hi, lo uint64, err error) {
	if err = s.need(16); err != nil {
		return 0, 0, err
	}

	eng := endian.Select(bigEndian)
	buf := s.buf[s.offset : s.offset+16]

	if bigEndian {
		hi = eng.Uint64(buf[0:8])
		lo = eng.Uint64(buf[8:16])
	} else {
		lo = eng.Uint64(buf[0:8])
		hi = eng.Uint64(buf[8:16])
	}

	s.offset += 16

	return hi, lo, nil
}

// ReadF32 consumes 4 bytes and interprets them as an IEEE-754 float32.
func (s *Slicer) ReadF32(bigEndian bool) (float32, error) {
	v, err := s.ReadU32(bigEndian)
	return float32FromBits(v), err
}

// ReadF64 consumes 8 bytes and interprets them as an IEEE-754 float64.
func (s *Slicer) ReadF64(bigEndian bool) (float64, error) {
	v, err := s.ReadU64(bigEndian)
	return float64FromBits(v), err
}

// ReadF16 consumes 2 bytes and preserves them as a raw bit pattern; Go has no
// native float16, so callers are handed the bits unconverted.
func (s *Slicer) ReadF16(bigEndian bool) (uint16, error) {
	return s.ReadU16(bigEndian)
}

// ReadF128 consumes 16 bytes and preserves them as raw bit pattern halves;
// Go has no native float128.
func (s *Slicer) ReadF128(bigEndian bool) (hi, lo uint64, err error) {
	return s.ReadU128(bigEndian)
}

// ReadRaw borrows len bytes without copying.
func (s *Slicer) ReadRaw(n int) ([]byte, error) {
	if err := s.need(n); err != nil {
		return nil, err
	}

	v := s.buf[s.offset : s.offset+n]
	s.offset += n

	return v, nil
}

// ReadVarName reads a 16-bit length L, then if L>0 reads L bytes whose last
// byte must be 0, returning the first L-1 bytes decoded as UTF-8. L=0 yields
// the empty string without consuming a terminator byte.
func (s *Slicer) ReadVarName(bigEndian bool) (string, error) {
	start := s.offset

	l, err := s.ReadU16(bigEndian)
	if err != nil {
		return "", err
	}

	if l == 0 {
		return "", nil
	}

	raw, err := s.ReadRaw(int(l))
	if err != nil {
		s.offset = start
		return "", err
	}

	if raw[len(raw)-1] != 0 {
		s.offset = start
		return "", &errs.VariableNameStringMissingNullTermination{}
	}

	name := raw[:len(raw)-1]
	if !utf8.Valid(name) {
		s.offset = start
		return "", &errs.Utf8{Inner: errInvalidUTF8}
	}

	return string(name), nil
}

// ReadVarNameAndUnit reads two length-prefixed, zero-terminated strings in
// sequence: name then unit.
func (s *Slicer) ReadVarNameAndUnit(bigEndian bool) (name, unit string, err error) {
	start := s.offset

	nameLen, err := s.ReadU16(bigEndian)
	if err != nil {
		return "", "", err
	}

	unitLen, err := s.ReadU16(bigEndian)
	if err != nil {
		s.offset = start
		return "", "", err
	}

	if nameLen > 0 {
		raw, err := s.ReadRaw(int(nameLen))
		if err != nil {
			s.offset = start
			return "", "", err
		}

		if raw[len(raw)-1] != 0 {
			s.offset = start
			return "", "", &errs.VariableNameStringMissingNullTermination{}
		}

		nameBytes := raw[:len(raw)-1]
		if !utf8.Valid(nameBytes) {
			s.offset = start
			return "", "", &errs.Utf8{Inner: errInvalidUTF8}
		}

		name = string(nameBytes)
	}

	if unitLen > 0 {
		raw, err := s.ReadRaw(int(unitLen))
		if err != nil {
			s.offset = start
			return "", "", err
		}

		if raw[len(raw)-1] != 0 {
			s.offset = start
			return "", "", &errs.VariableUnitStringMissingNullTermination{}
		}

		unitBytes := raw[:len(raw)-1]
		if !utf8.Valid(unitBytes) {
			s.offset = start
			return "", "", &errs.Utf8{Inner: errInvalidUTF8}
		}

		unit = string(unitBytes)
	}

	return name, unit, nil
}

// ReadArrayDimensions reads a 16-bit dimension count D, then borrows 2*D
// bytes as the raw dimensions view (each a big/little-endian uint16 per
// bigEndian) and returns the parsed dimension values.
func (s *Slicer) ReadArrayDimensions(bigEndian bool) ([]uint16, error) {
	start := s.offset

	d, err := s.ReadU16(bigEndian)
	if err != nil {
		return nil, err
	}

	dims := make([]uint16, d)
	eng := endian.Select(bigEndian)

	raw, err := s.ReadRaw(int(d) * 2)
	if err != nil {
		s.offset = start
		return nil, err
	}

	for i := range dims {
		dims[i] = eng.Uint16(raw[i*2 : i*2+2])
	}

	return dims, nil
}

// ArrayElementCount multiplies dims together, failing with
// ArrayDimensionsOverflow if the product overflows a 64-bit accumulator.
func ArrayElementCount(dims []uint16) (uint64, error) {
	var total uint64 = 1
	for _, d := range dims {
		hi, lo := bits.Mul64(total, uint64(d))
		if hi != 0 {
			return 0, &errs.ArrayDimensionsOverflow{Dimensions: dims}
		}

		total = lo
	}

	return total, nil
}

// scalingWidths is the set of integer widths the wire format supports fixed
// point scaling for: i32, i64, i128.
var scalingWidths = map[int]bool{32: true, 64: true, 128: true}

// ReadScaling reads a fixed-point Scaling iff ti.HasFixedPoint, sized to
// ti.Width (32, 64, or 128 bits for the offset). It returns (nil, nil) when
// ti has no fixed-point flag.
func (s *Slicer) ReadScaling(bigEndian bool, ti TypeInfo) (*Scaling, error) {
	if !ti.HasFixedPoint {
		return nil, nil
	}

	if !scalingWidths[ti.Width] {
		return nil, &errs.InvalidTypeInfo{}
	}

	start := s.offset

	quant, err := s.ReadF32(bigEndian)
	if err != nil {
		return nil, err
	}

	sc := &Scaling{Quantization: quant, Width: ti.Width}

	switch ti.Width {
	case 32:
		v, err := s.ReadI32(bigEndian)
		if err != nil {
			s.offset = start
			return nil, err
		}

		sc.Offset = Int128FromInt64(int64(v))
	case 64:
		v, err := s.ReadI64(bigEndian)
		if err != nil {
			s.offset = start
			return nil, err
		}

		sc.Offset = Int128FromInt64(v)
	case 128:
		hi, lo, err := s.ReadU128(bigEndian)
		if err != nil {
			s.offset = start
			return nil, err
		}

		sc.Offset = Int128{Hi: hi, Lo: lo}
	}

	return sc, nil
}
