package ft

import (
	"math"

	"github.com/dlt-go/dltcore/errs"
	"github.com/dlt-go/dltcore/internal/pool"
)

// maxAllowedFileSize bounds how large a single transfer's declared file_size
// may be before New/Reinit refuses it, to avoid integer overflow when sizing
// the backing buffer on 32-bit platforms.
const maxAllowedFileSize = uint64(math.MaxInt32)

// CompletedFile is the finalized, in-memory view of a fully reassembled
// transfer, borrowed from its FT Buffer.
type CompletedFile struct {
	FileSerialNumber uint64
	FileName         string
	CreationDate     string
	Data             []byte
}

// Buffer reassembles one file transfer from its FLDA chunks. It tolerates
// out-of-order and duplicate chunks: a duplicate overwrites the same region
// with whatever content it carries (last writer wins; no content-equality
// check is performed, matching the reference behavior).
type Buffer struct {
	backing *pool.ByteBuffer

	fileSerialNumber uint64
	fileName         string
	creationDate     string
	fileSize         uint64
	numberOfPackages uint64
	bufferSize       uint64

	sections    []Range
	endReceived bool
}

// New allocates a Buffer for the transfer hdr declares, recycling backing
// (if non-nil, typically from a pool free-list) instead of allocating a new
// byte slice. Returns InconsistantHeaderLenValues or FileSizeTooBig if hdr's
// numeric fields do not satisfy the consistency invariants.
func New(hdr Header, backing *pool.ByteBuffer) (*Buffer, error) {
	if backing == nil {
		backing = pool.NewByteBuffer(0)
	}

	b := &Buffer{backing: backing}
	if err := b.Reinit(hdr); err != nil {
		return nil, err
	}

	return b, nil
}

// Reinit reinitializes b in place from a new header package, as happens when
// the FT Pool receives a second FLST for an already-open stream. On failure,
// b's previous state is left completely unchanged (validation runs before
// any mutation).
func (b *Buffer) Reinit(hdr Header) error {
	if err := validateHeader(hdr); err != nil {
		return err
	}

	b.fileSerialNumber = hdr.FileSerialNumber
	b.fileName = hdr.FileName
	b.creationDate = hdr.CreationDate
	b.fileSize = hdr.FileSize
	b.numberOfPackages = hdr.NumberOfPackages
	b.bufferSize = hdr.BufferSize
	b.sections = b.sections[:0]
	b.endReceived = false
	b.backing.Reset()
	b.backing.SetLength(0)

	return nil
}

func validateHeader(hdr Header) error {
	if hdr.FileSize > maxAllowedFileSize {
		return &errs.FileSizeTooBig{FileSize: hdr.FileSize, MaxAllowed: maxAllowedFileSize}
	}

	allZero := hdr.FileSize == 0 && hdr.NumberOfPackages == 0 && hdr.BufferSize == 0
	if allZero {
		return nil
	}

	if hdr.NumberOfPackages == 0 || hdr.BufferSize == 0 {
		return &errs.InconsistantHeaderLenValues{
			FileSize: hdr.FileSize, NumberOfPackages: hdr.NumberOfPackages, BufferSize: hdr.BufferSize,
		}
	}

	maxExpected := hdr.NumberOfPackages * hdr.BufferSize
	if hdr.BufferSize != 0 && maxExpected/hdr.BufferSize != hdr.NumberOfPackages {
		return &errs.InconsistantHeaderLenValues{
			FileSize: hdr.FileSize, NumberOfPackages: hdr.NumberOfPackages, BufferSize: hdr.BufferSize,
		}
	}

	minExpected := maxExpected - hdr.BufferSize + 1
	if hdr.FileSize > maxExpected || hdr.FileSize < minExpected {
		return &errs.InconsistantHeaderLenValues{
			FileSize: hdr.FileSize, NumberOfPackages: hdr.NumberOfPackages, BufferSize: hdr.BufferSize,
		}
	}

	return nil
}

// ConsumeData feeds one FLDA chunk into the buffer. pkg.PackageNr is 1-based.
func (b *Buffer) ConsumeData(pkg Data) error {
	if pkg.PackageNr < 1 || pkg.PackageNr > b.numberOfPackages {
		return &errs.UnexpectedPackageNrInDataPkg{Expected: b.numberOfPackages, Got: pkg.PackageNr}
	}

	insertionStart := (pkg.PackageNr - 1) * b.bufferSize

	expectedLen := b.bufferSize
	if pkg.PackageNr == b.numberOfPackages {
		if rem := b.fileSize % b.bufferSize; rem != 0 {
			expectedLen = rem
		}
	}

	if uint64(len(pkg.Payload)) != expectedLen {
		return &errs.DataLenNotMatchingBufferSize{
			HeaderBufferLen:  expectedLen,
			DataPktLen:       len(pkg.Payload),
			DataPktNr:        pkg.PackageNr,
			NumberOfPackages: b.numberOfPackages,
		}
	}

	end := insertionStart + expectedLen
	oldLen := uint64(b.backing.Len())

	if oldLen < end {
		b.backing.SetLength(int(end))

		// Zero-fill any gap between the old end of the buffer and this
		// chunk's insertion point; out-of-order arrivals leave such gaps
		// whenever a later package_nr is consumed before an earlier one.
		if oldLen < insertionStart {
			gap := b.backing.Bytes()[oldLen:insertionStart]
			for i := range gap {
				gap[i] = 0
			}
		}
	}

	copy(b.backing.Bytes()[insertionStart:end], pkg.Payload)
	b.sections = mergeInto(b.sections, Range{Start: insertionStart, End: end})

	return nil
}

// SetEndReceived marks that the transfer's FLFI end package arrived.
func (b *Buffer) SetEndReceived() {
	b.endReceived = true
}

// IsComplete reports whether the end package has arrived and the written
// sections cover exactly [0, fileSize).
func (b *Buffer) IsComplete() bool {
	return b.endReceived && coversWholeFile(b.sections, b.fileSize)
}

// TryFinalize returns the completed, borrowed file view iff IsComplete.
func (b *Buffer) TryFinalize() (CompletedFile, bool) {
	if !b.IsComplete() {
		return CompletedFile{}, false
	}

	return CompletedFile{
		FileSerialNumber: b.fileSerialNumber,
		FileName:         b.fileName,
		CreationDate:     b.creationDate,
		Data:             b.backing.Bytes()[:b.fileSize],
	}, true
}

// Recycle resets b's backing storage for reuse by a future transfer and
// returns the underlying pooled buffer so a caller can return it to a
// free-list directly.
func (b *Buffer) Recycle() *pool.ByteBuffer {
	backing := b.backing
	backing.Reset()

	return backing
}
