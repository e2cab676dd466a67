// Package errs defines the structured, layer-tagged error types produced by
// every decoder in this module. Each error kind is its own struct implementing
// the error interface, so callers can recover exact fields with errors.As
// instead of parsing a message string. Call sites wrap these with fmt.Errorf's
// %w verb to attach context without losing the underlying type.
package errs

import "fmt"

// Layer identifies which decoder ran out of bytes, so UnexpectedEndOfSlice
// always points at the component that actually failed rather than a generic
// "short buffer" report.
type Layer string

const (
	LayerDltHeader    Layer = "dlt_header"
	LayerPacketSlice  Layer = "packet_slice"
	LayerVerboseValue Layer = "verbose_value"
	LayerFieldSlicer  Layer = "field_slicer"
	LayerStorage      Layer = "storage"
)

// UnexpectedEndOfSlice reports that a decoder needed minimumSize bytes but the
// input only had actualSize.
type UnexpectedEndOfSlice struct {
	Layer       Layer
	MinimumSize int
	ActualSize  int
}

func (e *UnexpectedEndOfSlice) Error() string {
	return fmt.Sprintf("%s: unexpected end of slice: need at least %d bytes, have %d", e.Layer, e.MinimumSize, e.ActualSize)
}

// UnsupportedDltVersion reports a header version byte outside {0, 1}.
type UnsupportedDltVersion struct {
	Version uint8
}

func (e *UnsupportedDltVersion) Error() string {
	return fmt.Sprintf("unsupported DLT version: %d", e.Version)
}

// DltMessageLengthTooSmall reports that the encoded length field is smaller
// than the header length computed from flags.
type DltMessageLengthTooSmall struct {
	Required int
	Actual   int
}

func (e *DltMessageLengthTooSmall) Error() string {
	return fmt.Sprintf("DLT message length too small: required at least %d, got %d", e.Required, e.Actual)
}

// StorageHeaderStartPattern reports that a storage wrapper's magic bytes did
// not match the expected "DLT\x01" pattern.
type StorageHeaderStartPattern struct {
	Actual [4]byte
}

func (e *StorageHeaderStartPattern) Error() string {
	return fmt.Sprintf("storage header start pattern mismatch: got % x", e.Actual)
}

// InvalidTypeInfo reports that a verbose type-info word violates the
// contradicting-mask validation rules.
type InvalidTypeInfo struct {
	Bytes [4]byte
}

func (e *InvalidTypeInfo) Error() string {
	return fmt.Sprintf("invalid verbose type info: % x", e.Bytes)
}

// InvalidBoolValue reports a verbose bool payload byte outside {0, 1}.
type InvalidBoolValue struct {
	Byte byte
}

func (e *InvalidBoolValue) Error() string {
	return fmt.Sprintf("invalid bool value byte: 0x%02x", e.Byte)
}

// VariableNameStringMissingNullTermination reports that a verbose variable
// name's declared length did not end in a 0 byte.
type VariableNameStringMissingNullTermination struct{}

func (e *VariableNameStringMissingNullTermination) Error() string {
	return "variable name string missing null termination"
}

// VariableUnitStringMissingNullTermination reports that a verbose variable
// unit's declared length did not end in a 0 byte.
type VariableUnitStringMissingNullTermination struct{}

func (e *VariableUnitStringMissingNullTermination) Error() string {
	return "variable unit string missing null termination"
}

// ArrayDimensionsOverflow reports that an array's dimension product overflowed
// a 64-bit accumulator.
type ArrayDimensionsOverflow struct {
	Dimensions []uint16
}

func (e *ArrayDimensionsOverflow) Error() string {
	return fmt.Sprintf("array dimensions overflow: %v", e.Dimensions)
}

// StructDataLengthOverflow reports that a struct value's declared nested
// entries exceed the bytes remaining in the enclosing packet.
type StructDataLengthOverflow struct {
	Declared  int
	Remaining int
}

func (e *StructDataLengthOverflow) Error() string {
	return fmt.Sprintf("struct data length overflow: declared %d entries exceed %d remaining bytes", e.Declared, e.Remaining)
}

// Utf8 wraps a UTF-8 validation failure encountered while decoding a verbose
// string-like payload.
type Utf8 struct {
	Inner error
}

func (e *Utf8) Error() string {
	return fmt.Sprintf("invalid utf-8: %v", e.Inner)
}

func (e *Utf8) Unwrap() error {
	return e.Inner
}

// NetworkTypeUserDefinedOutsideOfRange reports an extended-header sub-code
// write whose user-defined range value is out of bounds.
type NetworkTypeUserDefinedOutsideOfRange struct {
	Value int
}

func (e *NetworkTypeUserDefinedOutsideOfRange) Error() string {
	return fmt.Sprintf("network type user-defined value out of range: %d", e.Value)
}

// FileSizeTooBig reports that a FT header package's declared file_size cannot
// be represented by this platform's addressable memory.
type FileSizeTooBig struct {
	FileSize   uint64
	MaxAllowed uint64
}

func (e *FileSizeTooBig) Error() string {
	return fmt.Sprintf("file size too big: %d exceeds max allowed %d", e.FileSize, e.MaxAllowed)
}

// InconsistantHeaderLenValues reports that a FT header package's file_size,
// number_of_packages, and buffer_size are mutually inconsistent.
type InconsistantHeaderLenValues struct {
	FileSize         uint64
	NumberOfPackages uint64
	BufferSize       uint64
}

func (e *InconsistantHeaderLenValues) Error() string {
	return fmt.Sprintf("inconsistent FT header values: file_size=%d number_of_packages=%d buffer_size=%d",
		e.FileSize, e.NumberOfPackages, e.BufferSize)
}

// AllocationFailure reports that allocating a buffer of the requested length
// failed (or was refused as unreasonable).
type AllocationFailure struct {
	Len uint64
}

func (e *AllocationFailure) Error() string {
	return fmt.Sprintf("allocation failure: requested length %d", e.Len)
}

// UnexpectedPackageNrInDataPkg reports a FLDA package_nr outside
// [1, number_of_packages].
type UnexpectedPackageNrInDataPkg struct {
	Expected uint64
	Got      uint64
}

func (e *UnexpectedPackageNrInDataPkg) Error() string {
	return fmt.Sprintf("unexpected package number in data package: expected at most %d, got %d", e.Expected, e.Got)
}

// DataLenNotMatchingBufferSize reports a FLDA chunk whose payload length does
// not match the expected chunk size for its position.
type DataLenNotMatchingBufferSize struct {
	HeaderBufferLen  uint64
	DataPktLen       int
	DataPktNr        uint64
	NumberOfPackages uint64
}

func (e *DataLenNotMatchingBufferSize) Error() string {
	return fmt.Sprintf("data length %d does not match expected buffer size %d for package %d of %d",
		e.DataPktLen, e.HeaderBufferLen, e.DataPktNr, e.NumberOfPackages)
}

// DataForUnknownStream reports a FLDA package for a (channel, file_serial)
// pair with no open FT Buffer.
type DataForUnknownStream struct {
	FileSerial uint64
}

func (e *DataForUnknownStream) Error() string {
	return fmt.Sprintf("data package for unknown stream: file_serial_number=%d", e.FileSerial)
}

// EndForUnknownStream reports a FLFI package for a (channel, file_serial) pair
// with no open FT Buffer.
type EndForUnknownStream struct {
	FileSerial uint64
}

func (e *EndForUnknownStream) Error() string {
	return fmt.Sprintf("end package for unknown stream: file_serial_number=%d", e.FileSerial)
}
