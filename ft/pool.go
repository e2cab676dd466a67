package ft

import (
	"github.com/dlt-go/dltcore/errs"
	"github.com/dlt-go/dltcore/internal/options"
	"github.com/dlt-go/dltcore/internal/pool"
)

// streamKey demultiplexes concurrent transfers by channel and file serial
// number, the same pair the reference pool keys on.
type streamKey[Channel comparable] struct {
	channel    Channel
	fileSerial uint64
}

type streamEntry[Timestamp any] struct {
	buffer    *Buffer
	timestamp Timestamp
}

// Pool maps (channel, file_serial_number) to an in-progress FT Buffer, and
// recycles buffers from completed or errored-out transfers through a
// free-list instead of discarding them. Pool has no internal locking; a
// caller needing concurrent access shards by channel id across independent
// Pool instances. Pool also has no intrinsic memory bound unless the host
// applies the WithMaxActiveTransfers / WithMaxTotalBytes options below — by
// default it will grow without limit under adversarial input, per spec.
type Pool[Channel comparable, Timestamp any] struct {
	entries  map[streamKey[Channel]]*streamEntry[Timestamp]
	freeList []*pool.ByteBuffer

	maxActiveTransfers int
	maxTotalBytes      uint64
	totalBytes         uint64
}

// NewPool constructs an empty Pool, applying any guard-rail options.
func NewPool[Channel comparable, Timestamp any](opts ...options.Option[*Pool[Channel, Timestamp]]) *Pool[Channel, Timestamp] {
	p := &Pool[Channel, Timestamp]{
		entries: make(map[streamKey[Channel]]*streamEntry[Timestamp]),
	}

	_ = options.Apply(p, opts...)

	return p
}

// WithMaxActiveTransfers caps the number of concurrently open transfers a
// Pool will accept; a Header package that would exceed the cap is rejected
// with AllocationFailure. This is a host policy layered on top of the core,
// not a core invariant (spec explicitly leaves the pool itself unbounded).
func WithMaxActiveTransfers[Channel comparable, Timestamp any](n int) options.Option[*Pool[Channel, Timestamp]] {
	return options.NoError(func(p *Pool[Channel, Timestamp]) { p.maxActiveTransfers = n })
}

// WithMaxTotalBytes caps the sum of declared file sizes across all open
// transfers; a Header package that would exceed the cap is rejected with
// AllocationFailure.
func WithMaxTotalBytes[Channel comparable, Timestamp any](n uint64) options.Option[*Pool[Channel, Timestamp]] {
	return options.NoError(func(p *Pool[Channel, Timestamp]) { p.maxTotalBytes = n })
}

func (p *Pool[Channel, Timestamp]) takeFromFreeList() *pool.ByteBuffer {
	if len(p.freeList) == 0 {
		return nil
	}

	bb := p.freeList[len(p.freeList)-1]
	p.freeList = p.freeList[:len(p.freeList)-1]

	return bb
}

func (p *Pool[Channel, Timestamp]) recycle(e *streamEntry[Timestamp]) {
	p.totalBytes -= e.buffer.fileSize
	p.freeList = append(p.freeList, e.buffer.Recycle())
}

// Consume feeds one classified FT Package into the pool for the given
// channel, returning the completed file view if this package finished a
// transfer. ts is recorded as the stream's last-seen timestamp for Retain's
// eviction.
func (p *Pool[Channel, Timestamp]) Consume(channel Channel, pkg Package, ts Timestamp) (*CompletedFile, error) {
	switch v := pkg.(type) {
	case Header:
		return p.consumeHeader(channel, v, ts)
	case Data:
		return p.consumeData(channel, v, ts)
	case End:
		return p.consumeEnd(channel, v, ts)
	case Error:
		p.consumeErrorOrIgnore(channel, v.FileSerialNumber)
		return nil, nil
	case FileNotExist:
		// No file_serial_number to key on, and no stream was ever opened for
		// it: informational only, matching Info below.
		return nil, nil
	case Info:
		return nil, nil
	default:
		return nil, nil
	}
}

func (p *Pool[Channel, Timestamp]) consumeHeader(channel Channel, hdr Header, ts Timestamp) (*CompletedFile, error) {
	key := streamKey[Channel]{channel: channel, fileSerial: hdr.FileSerialNumber}

	if existing, ok := p.entries[key]; ok {
		oldSize := existing.buffer.fileSize
		if err := existing.buffer.Reinit(hdr); err != nil {
			return nil, err
		}

		p.totalBytes = p.totalBytes - oldSize + hdr.FileSize
		existing.timestamp = ts

		return nil, nil
	}

	if p.maxActiveTransfers > 0 && len(p.entries) >= p.maxActiveTransfers {
		return nil, &errs.AllocationFailure{Len: hdr.FileSize}
	}

	if p.maxTotalBytes > 0 && p.totalBytes+hdr.FileSize > p.maxTotalBytes {
		return nil, &errs.AllocationFailure{Len: hdr.FileSize}
	}

	buf, err := New(hdr, p.takeFromFreeList())
	if err != nil {
		return nil, err
	}

	p.entries[key] = &streamEntry[Timestamp]{buffer: buf, timestamp: ts}
	p.totalBytes += hdr.FileSize

	return nil, nil
}

func (p *Pool[Channel, Timestamp]) consumeData(channel Channel, data Data, ts Timestamp) (*CompletedFile, error) {
	key := streamKey[Channel]{channel: channel, fileSerial: data.FileSerialNumber}

	entry, ok := p.entries[key]
	if !ok {
		return nil, &errs.DataForUnknownStream{FileSerial: data.FileSerialNumber}
	}

	if err := entry.buffer.ConsumeData(data); err != nil {
		return nil, err
	}

	entry.timestamp = ts

	if file, complete := entry.buffer.TryFinalize(); complete {
		delete(p.entries, key)
		p.recycle(entry)

		return &file, nil
	}

	return nil, nil
}

func (p *Pool[Channel, Timestamp]) consumeEnd(channel Channel, end End, ts Timestamp) (*CompletedFile, error) {
	key := streamKey[Channel]{channel: channel, fileSerial: end.FileSerialNumber}

	entry, ok := p.entries[key]
	if !ok {
		return nil, &errs.EndForUnknownStream{FileSerial: end.FileSerialNumber}
	}

	entry.buffer.SetEndReceived()
	entry.timestamp = ts

	if file, complete := entry.buffer.TryFinalize(); complete {
		delete(p.entries, key)
		p.recycle(entry)

		return &file, nil
	}

	return nil, nil
}

func (p *Pool[Channel, Timestamp]) consumeErrorOrIgnore(channel Channel, fileSerial uint64) {
	key := streamKey[Channel]{channel: channel, fileSerial: fileSerial}

	entry, ok := p.entries[key]
	if !ok {
		return
	}

	delete(p.entries, key)
	p.recycle(entry)
}

// Retain drops every entry whose timestamp fails fresh, recycling its
// buffer. This is the pool's only eviction mechanism; callers in untrusted
// environments should invoke it on a cadence alongside the active-transfer
// and total-bytes caps above.
func (p *Pool[Channel, Timestamp]) Retain(fresh func(Timestamp) bool) {
	for key, entry := range p.entries {
		if !fresh(entry.timestamp) {
			delete(p.entries, key)
			p.recycle(entry)
		}
	}
}

// ActiveTransfers returns the number of currently open transfers.
func (p *Pool[Channel, Timestamp]) ActiveTransfers() int {
	return len(p.entries)
}
