package storage

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/dlt-go/dltcore/errs"
	"github.com/dlt-go/dltcore/internal/options"
	"github.com/dlt-go/dltcore/packet"
)

// defaultBufferSize is the bufio.Reader buffer size a Reader uses absent
// WithBufferSize.
const defaultBufferSize = 64 * 1024

// Reader streams (storage.Header, packet.Slice) pairs off a recording,
// framing each DLT message by the Length field in its own base header.
type Reader struct {
	src io.Reader
	r   *bufio.Reader
}

// NewReader wraps r for framed reading, applying any options.
func NewReader(r io.Reader, opts ...options.Option[*Reader]) *Reader {
	rd := &Reader{src: r, r: bufio.NewReaderSize(r, defaultBufferSize)}

	_ = options.Apply(rd, opts...)

	return rd
}

// WithBufferSize replaces the Reader's underlying bufio.Reader buffer size.
func WithBufferSize(n int) options.Option[*Reader] {
	return options.NoError(func(rd *Reader) {
		rd.r = bufio.NewReaderSize(rd.src, n)
	})
}

// Next reads one storage-framed message: a 16-byte storage header followed
// by a complete DLT message, the size of which is read off the message's
// own Length field. It returns io.EOF when the stream ends cleanly between
// messages, and a typed framing error for any other short or malformed read.
func (rd *Reader) Next() (Header, packet.Slice, error) {
	var hdrBuf [HeaderLen]byte
	if n, err := io.ReadFull(rd.r, hdrBuf[:]); err != nil {
		if err == io.EOF {
			return Header{}, packet.Slice{}, io.EOF
		}

		return Header{}, packet.Slice{}, shortReadErr(err, HeaderLen, n)
	}

	sh, err := ParseHeader(hdrBuf[:])
	if err != nil {
		return Header{}, packet.Slice{}, err
	}

	var lenPrefix [4]byte
	if n, err := io.ReadFull(rd.r, lenPrefix[:]); err != nil {
		return Header{}, packet.Slice{}, shortReadErr(err, 4, n)
	}

	length := int(binary.BigEndian.Uint16(lenPrefix[2:4]))
	if length < 4 {
		return Header{}, packet.Slice{}, &errs.DltMessageLengthTooSmall{Required: 4, Actual: length}
	}

	msgBuf := make([]byte, length)
	copy(msgBuf, lenPrefix[:])

	if length > 4 {
		if n, err := io.ReadFull(rd.r, msgBuf[4:]); err != nil {
			return Header{}, packet.Slice{}, shortReadErr(err, length-4, n)
		}
	}

	slice, err := packet.FromSlice(msgBuf)
	if err != nil {
		return Header{}, packet.Slice{}, err
	}

	return sh, slice, nil
}

func shortReadErr(err error, want, got int) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &errs.UnexpectedEndOfSlice{Layer: errs.LayerStorage, MinimumSize: want, ActualSize: got}
	}

	return err
}
