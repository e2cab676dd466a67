package ft

import (
	"errors"
	"testing"

	"github.com/dlt-go/dltcore/errs"
	"github.com/stretchr/testify/require"
)

func TestPoolHeaderOverwriteReinitializes(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", Header{FileSerialNumber: 5, FileName: "a.txt", FileSize: 20, NumberOfPackages: 1, BufferSize: 20}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, p.ActiveTransfers())

	_, err = p.Consume("can0", Data{FileSerialNumber: 5, PackageNr: 1, Payload: make([]byte, 20)}, 2)
	require.NoError(t, err)

	// A second FLST for the same stream reinitializes the buffer, discarding
	// the chunk already written.
	_, err = p.Consume("can0", Header{FileSerialNumber: 5, FileName: "a.txt", FileSize: 20, NumberOfPackages: 1, BufferSize: 20}, 3)
	require.NoError(t, err)
	require.Equal(t, 1, p.ActiveTransfers())

	// An inconsistent header for the same stream leaves it untouched.
	_, err = p.Consume("can0", Header{FileSerialNumber: 5, FileSize: 20, NumberOfPackages: 2, BufferSize: 20}, 4)
	var target *errs.InconsistantHeaderLenValues
	require.True(t, errors.As(err, &target))

	entry := p.entries[streamKey[string]{channel: "can0", fileSerial: 5}]
	require.Equal(t, 0, len(entry.buffer.sections))

	_, err = p.Consume("can0", Data{FileSerialNumber: 5, PackageNr: 1, Payload: make([]byte, 20)}, 5)
	require.NoError(t, err)
	_, err = p.Consume("can0", End{FileSerialNumber: 5}, 6)
	require.NoError(t, err)

	file, err := p.Consume("can0", End{FileSerialNumber: 5}, 6)
	require.Error(t, err)
	require.Nil(t, file)
}

func TestPoolCompletesAndRecyclesTransfer(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", Header{FileSerialNumber: 1, FileName: "x.bin", FileSize: 10, NumberOfPackages: 1, BufferSize: 10}, 0)
	require.NoError(t, err)

	completed, err := p.Consume("can0", Data{FileSerialNumber: 1, PackageNr: 1, Payload: make([]byte, 10)}, 1)
	require.NoError(t, err)
	require.Nil(t, completed)

	completed, err = p.Consume("can0", End{FileSerialNumber: 1}, 2)
	require.NoError(t, err)
	require.NotNil(t, completed)
	require.Equal(t, "x.bin", completed.FileName)
	require.Equal(t, 0, p.ActiveTransfers())
	require.Len(t, p.freeList, 1)

	// The recycled buffer is handed back out for the next transfer.
	_, err = p.Consume("can0", Header{FileSerialNumber: 2, FileName: "y.bin", FileSize: 4, NumberOfPackages: 1, BufferSize: 4}, 3)
	require.NoError(t, err)
	require.Empty(t, p.freeList)
}

func TestPoolDataForUnknownStream(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", Data{FileSerialNumber: 99, PackageNr: 1, Payload: []byte{1}}, 0)

	var target *errs.DataForUnknownStream
	require.True(t, errors.As(err, &target))
}

func TestPoolEndForUnknownStream(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", End{FileSerialNumber: 99}, 0)

	var target *errs.EndForUnknownStream
	require.True(t, errors.As(err, &target))
}

func TestPoolErrorPackageRemovesStreamSilently(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", Header{FileSerialNumber: 5, FileSize: 10, NumberOfPackages: 1, BufferSize: 10}, 0)
	require.NoError(t, err)

	result, err := p.Consume("can0", Error{FileSerialNumber: 5, ErrorCode: 3}, 1)
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, 0, p.ActiveTransfers())

	// Error for a stream that was never opened is ignored, not an error.
	result, err = p.Consume("can0", Error{FileSerialNumber: 999, ErrorCode: 3}, 2)
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestPoolInfoAndFileNotExistAreNoOps(t *testing.T) {
	p := NewPool[string, int]()

	result, err := p.Consume("can0", Info{FileSerialNumber: 1}, 0)
	require.NoError(t, err)
	require.Nil(t, result)

	_, err = p.Consume("can0", Header{FileSerialNumber: 5, FileSize: 10, NumberOfPackages: 1, BufferSize: 10}, 1)
	require.NoError(t, err)

	result, err = p.Consume("can0", FileNotExist{ErrorCode: 2, FileName: "missing.bin"}, 2)
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, 1, p.ActiveTransfers())
}

func TestPoolSeparatesStreamsByChannel(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", Header{FileSerialNumber: 1, FileSize: 4, NumberOfPackages: 1, BufferSize: 4}, 0)
	require.NoError(t, err)
	_, err = p.Consume("can1", Header{FileSerialNumber: 1, FileSize: 8, NumberOfPackages: 1, BufferSize: 8}, 0)
	require.NoError(t, err)

	require.Equal(t, 2, p.ActiveTransfers())
}

func TestPoolMaxActiveTransfersRejectsNewHeader(t *testing.T) {
	p := NewPool[string, int](WithMaxActiveTransfers[string, int](1))

	_, err := p.Consume("can0", Header{FileSerialNumber: 1, FileSize: 4, NumberOfPackages: 1, BufferSize: 4}, 0)
	require.NoError(t, err)

	_, err = p.Consume("can0", Header{FileSerialNumber: 2, FileSize: 4, NumberOfPackages: 1, BufferSize: 4}, 0)
	var target *errs.AllocationFailure
	require.True(t, errors.As(err, &target))
}

func TestPoolMaxTotalBytesRejectsNewHeader(t *testing.T) {
	p := NewPool[string, int](WithMaxTotalBytes[string, int](10))

	_, err := p.Consume("can0", Header{FileSerialNumber: 1, FileSize: 8, NumberOfPackages: 1, BufferSize: 8}, 0)
	require.NoError(t, err)

	_, err = p.Consume("can0", Header{FileSerialNumber: 2, FileSize: 8, NumberOfPackages: 1, BufferSize: 8}, 0)
	var target *errs.AllocationFailure
	require.True(t, errors.As(err, &target))
}

func TestPoolRetainEvictsStaleStreams(t *testing.T) {
	p := NewPool[string, int]()

	_, err := p.Consume("can0", Header{FileSerialNumber: 1, FileSize: 4, NumberOfPackages: 1, BufferSize: 4}, 100)
	require.NoError(t, err)
	_, err = p.Consume("can0", Header{FileSerialNumber: 2, FileSize: 4, NumberOfPackages: 1, BufferSize: 4}, 200)
	require.NoError(t, err)

	p.Retain(func(ts int) bool { return ts >= 150 })

	require.Equal(t, 1, p.ActiveTransfers())
	require.Len(t, p.freeList, 1)
	_, stillOpen := p.entries[streamKey[string]{channel: "can0", fileSerial: 2}]
	require.True(t, stillOpen)
}
