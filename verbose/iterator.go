package verbose

// Iterator produces verbose values one at a time from a payload slice, given
// the argument count carried in the extended header. It is lazy: no value is
// decoded until Value is called, and an error terminates iteration: Next
// returns false from then on and Err reports that error.
type Iterator struct {
	slicer    *Slicer
	bigEndian bool
	remaining int
	err       error
}

// NewIterator constructs an Iterator over payload, yielding up to numArgs
// values decoded at the given payload endianness.
func NewIterator(payload []byte, bigEndian bool, numArgs int) *Iterator {
	return &Iterator{
		slicer:    NewSlicer(payload),
		bigEndian: bigEndian,
		remaining: numArgs,
	}
}

// Next reports whether another value is available. Once it returns false,
// Err reports whether that was due to exhaustion (nil) or a decode failure.
func (it *Iterator) Next() bool {
	return it.err == nil && it.remaining > 0
}

// Value decodes and returns the next verbose value. Callers must check Next
// before calling Value.
func (it *Iterator) Value() (Value, error) {
	v, err := DecodeValue(it.slicer, it.bigEndian)
	if err != nil {
		it.err = err
		it.remaining = 0

		return Value{}, err
	}

	it.remaining--

	return v, nil
}

// Err returns the error that terminated iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Offset returns the number of payload bytes consumed so far.
func (it *Iterator) Offset() int {
	return it.slicer.Offset()
}

// All drains the iterator into a slice, stopping at the first error.
func (it *Iterator) All() ([]Value, error) {
	values := make([]Value, 0, it.remaining)

	for it.Next() {
		v, err := it.Value()
		if err != nil {
			return values, err
		}

		values = append(values, v)
	}

	return values, it.Err()
}
