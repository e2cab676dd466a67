// Package dltcore implements a codec for the AUTOSAR Diagnostic Log and
// Trace (DLT) wire protocol: the fixed/extended header framing, the verbose
// argument type system used by non-plain-text log messages, and the
// file-transfer (FLST/FLDA/FLFI/FLIF/FLER) reassembly engine layered on top
// of verbose messages.
//
// # Core Features
//
//   - Zero-copy Packet Slice View over a single message's declared byte range
//   - Full header codec: base header, ECU id, session id, timestamp, extended header
//   - Verbose type-info codec covering bool/int/float/string/raw/struct/trace-info,
//     arrays, variable name+unit metadata, and fixed-point scaling
//   - Out-of-order, duplicate-tolerant file-transfer reassembly with a pool for
//     demultiplexing many concurrent transfers by channel
//
// # Basic Usage
//
// Parsing one message out of a byte slice and reading its payload:
//
//	slice, err := dltcore.ParsePacket(buf)
//	if err != nil {
//	    return err
//	}
//
//	if slice.IsVerbose() {
//	    values, err := dltcore.DecodeVerbosePayload(slice)
//	    // ...
//	} else {
//	    id, rest, _ := slice.MessageIDAndPayload()
//	    // ...
//	}
//
// Reassembling a file transfer carried over verbose messages:
//
//	pool := dltcore.NewFTPool[string, time.Time]()
//	// for each verbose message on the file-transfer channel:
//	it := dltcore.NewVerboseIterator(slice.Payload(), slice.IsBigEndian(), numArgs)
//	pkg, err := ft.Classify(it, numArgs)
//	completed, err := pool.Consume(channelID, pkg, time.Now())
//
// # Package Structure
//
// This file provides convenience wrappers around the header, packet, verbose,
// and ft packages for the most common entry points. For fine-grained control —
// constructing headers field by field, or running the verbose iterator
// manually — use those packages directly.
package dltcore

import (
	"github.com/dlt-go/dltcore/ft"
	"github.com/dlt-go/dltcore/header"
	"github.com/dlt-go/dltcore/internal/options"
	"github.com/dlt-go/dltcore/packet"
	"github.com/dlt-go/dltcore/verbose"
)

// ParsePacket validates buf as a complete DLT message and returns a
// zero-copy Slice borrowing exactly its declared Length bytes.
func ParsePacket(buf []byte) (packet.Slice, error) {
	return packet.FromSlice(buf)
}

// ParseHeader decodes a full header.Header from the start of buf, including
// whichever optional fields its flags select.
func ParseHeader(buf []byte) (header.Header, error) {
	return header.Parse(buf)
}

// NewVerboseIterator walks numArgs verbose arguments out of payload, decoded
// at the given endianness.
func NewVerboseIterator(payload []byte, bigEndian bool, numArgs int) *verbose.Iterator {
	return verbose.NewIterator(payload, bigEndian, numArgs)
}

// DecodeVerbosePayload decodes every verbose argument declared by
// slice.ExtendedHeader's NumberOfArguments from slice's payload. It returns
// an empty slice for a non-verbose slice or one with no extended header.
func DecodeVerbosePayload(slice packet.Slice) ([]verbose.Value, error) {
	ext, ok := slice.ExtendedHeader()
	if !ok || !ext.IsVerbose() {
		return nil, nil
	}

	it := verbose.NewIterator(slice.Payload(), slice.IsBigEndian(), int(ext.NumberOfArguments))

	return it.All()
}

// ClassifyFTPackage decodes a file-transfer package from numArgs verbose
// arguments in payload, dispatching on argument count and sentinel string.
func ClassifyFTPackage(payload []byte, bigEndian bool, numArgs int) (ft.Package, error) {
	it := verbose.NewIterator(payload, bigEndian, numArgs)

	return ft.Classify(it, numArgs)
}

// NewFTPool constructs an empty file-transfer reassembly pool keyed by
// Channel, recording Timestamp on each consumed package for Retain-based
// eviction. Guard-rail options (ft.WithMaxActiveTransfers, ft.WithMaxTotalBytes)
// may be passed through opts.
func NewFTPool[Channel comparable, Timestamp any](opts ...options.Option[*ft.Pool[Channel, Timestamp]]) *ft.Pool[Channel, Timestamp] {
	return ft.NewPool[Channel, Timestamp](opts...)
}
