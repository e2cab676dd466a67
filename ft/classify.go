package ft

import (
	"github.com/dlt-go/dltcore/errs"
	"github.com/dlt-go/dltcore/verbose"
)

// Header is the FLST package that opens a file transfer: 8 verbose
// arguments bracketed by the "FLST" sentinel string.
type Header struct {
	FileSerialNumber uint64
	FileName         string
	FileSize         uint64
	CreationDate     string
	NumberOfPackages uint64
	BufferSize       uint64
}

// Data is the FLDA package carrying one chunk of file data: 5 verbose
// arguments bracketed by the "FLDA" sentinel string.
type Data struct {
	FileSerialNumber uint64
	PackageNr        uint64
	Payload          []byte
}

// End is the FLFI package marking the end of a transfer: 3 verbose
// arguments bracketed by the "FLFI" sentinel string.
type End struct {
	FileSerialNumber uint64
}

// Info is the FLIF informational package: 7 verbose arguments bracketed by
// the "FLIF" sentinel string.
type Info struct {
	FileSerialNumber uint64
	FileName         string
	FileSize         uint64
	CreationDate     string
	NumberOfPackages uint64
}

// Error is the FLER error package for a known file: 9 verbose arguments
// bracketed by the "FLER" sentinel string.
type Error struct {
	ErrorCode        int64
	FileSerialNumber uint64
	LinuxErrorCode   int64
	FileName         string
	FileSize         uint64
	CreationDate     string
	NumberOfPackages uint64
}

// FileNotExist is the FLER variant reported when the requested file does not
// exist: 5 verbose arguments bracketed by the "FLER" sentinel string. Unlike
// Error, it carries no file serial number.
type FileNotExist struct {
	ErrorCode      int64
	LinuxErrorCode int64
	FileName       string
}

// Package is any one of the six FT package kinds Classify can produce.
type Package interface {
	isFTPackage()
}

func (Header) isFTPackage()       {}
func (Data) isFTPackage()         {}
func (End) isFTPackage()          {}
func (Info) isFTPackage()         {}
func (Error) isFTPackage()        {}
func (FileNotExist) isFTPackage() {}

func asUint64(v verbose.Value) (uint64, bool) {
	if v.Kind != verbose.KindInt || v.IsArray {
		return 0, false
	}

	if v.Signed {
		return uint64(v.Int.Int64()), true
	}

	return v.Int.Uint64(), true
}

// asInt64 extracts a signed integer carrier (DltFtInt in the original),
// used for error_code/linux_error_code fields.
func asInt64(v verbose.Value) (int64, bool) {
	if v.Kind != verbose.KindInt || v.IsArray {
		return 0, false
	}

	return v.Int.Int64(), true
}

func asString(v verbose.Value) (string, bool) {
	if v.Kind != verbose.KindString || v.IsArray {
		return "", false
	}

	return v.Str, true
}

func asRaw(v verbose.Value) ([]byte, bool) {
	if v.Kind != verbose.KindRaw || v.IsArray {
		return nil, false
	}

	return v.Raw, true
}

// Classify decodes numArgs verbose values from it and, based on argument
// count and the leading/trailing sentinel string, returns the corresponding
// FT Package. The first value must always be a sentinel string.
func Classify(it *verbose.Iterator, numArgs int) (Package, error) {
	values := make([]verbose.Value, 0, numArgs)

	for it.Next() {
		v, err := it.Value()
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	if err := it.Err(); err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, &errs.InvalidTypeInfo{}
	}

	sentinel, ok := asString(values[0])
	if !ok {
		return nil, &errs.InvalidTypeInfo{}
	}

	switch {
	case sentinel == "FLST" && len(values) == 8:
		return parseHeader(values)
	case sentinel == "FLDA" && len(values) == 5:
		return parseData(values)
	case sentinel == "FLFI" && len(values) == 3:
		return parseEnd(values)
	case sentinel == "FLIF" && len(values) == 7:
		return parseInfo(values)
	case sentinel == "FLER" && len(values) == 9:
		return parseError(values)
	case sentinel == "FLER" && len(values) == 5:
		return parseFileNotExist(values)
	default:
		return nil, &errs.InvalidTypeInfo{}
	}
}

func parseHeader(v []verbose.Value) (Header, error) {
	fsn, ok1 := asUint64(v[1])
	name, ok2 := asString(v[2])
	size, ok3 := asUint64(v[3])
	date, ok4 := asString(v[4])
	npkgs, ok5 := asUint64(v[5])
	bufSize, ok6 := asUint64(v[6])

	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return Header{}, &errs.InvalidTypeInfo{}
	}

	return Header{
		FileSerialNumber: fsn,
		FileName:         name,
		FileSize:         size,
		CreationDate:     date,
		NumberOfPackages: npkgs,
		BufferSize:       bufSize,
	}, nil
}

func parseData(v []verbose.Value) (Data, error) {
	fsn, ok1 := asUint64(v[1])
	pkgNr, ok2 := asUint64(v[2])
	raw, ok3 := asRaw(v[3])

	if !(ok1 && ok2 && ok3) {
		return Data{}, &errs.InvalidTypeInfo{}
	}

	return Data{FileSerialNumber: fsn, PackageNr: pkgNr, Payload: raw}, nil
}

func parseEnd(v []verbose.Value) (End, error) {
	fsn, ok := asUint64(v[1])
	if !ok {
		return End{}, &errs.InvalidTypeInfo{}
	}

	return End{FileSerialNumber: fsn}, nil
}

func parseInfo(v []verbose.Value) (Info, error) {
	fsn, ok1 := asUint64(v[1])
	name, ok2 := asString(v[2])
	size, ok3 := asUint64(v[3])
	date, ok4 := asString(v[4])
	npkgs, ok5 := asUint64(v[5])
	_, ok6 := asString(v[6])

	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return Info{}, &errs.InvalidTypeInfo{}
	}

	return Info{
		FileSerialNumber: fsn,
		FileName:         name,
		FileSize:         size,
		CreationDate:     date,
		NumberOfPackages: npkgs,
	}, nil
}

func parseError(v []verbose.Value) (Error, error) {
	code, ok1 := asInt64(v[1])
	fsn, ok2 := asUint64(v[2])
	linuxCode, ok3 := asInt64(v[3])
	name, ok4 := asString(v[4])
	size, ok5 := asUint64(v[5])
	date, ok6 := asString(v[6])
	npkgs, ok7 := asUint64(v[7])
	_, ok8 := asString(v[8])

	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8) {
		return Error{}, &errs.InvalidTypeInfo{}
	}

	return Error{
		ErrorCode:        code,
		FileSerialNumber: fsn,
		LinuxErrorCode:   linuxCode,
		FileName:         name,
		FileSize:         size,
		CreationDate:     date,
		NumberOfPackages: npkgs,
	}, nil
}

func parseFileNotExist(v []verbose.Value) (FileNotExist, error) {
	code, ok1 := asInt64(v[1])
	linuxCode, ok2 := asInt64(v[2])
	name, ok3 := asString(v[3])
	_, ok4 := asString(v[4])

	if !(ok1 && ok2 && ok3 && ok4) {
		return FileNotExist{}, &errs.InvalidTypeInfo{}
	}

	return FileNotExist{ErrorCode: code, LinuxErrorCode: linuxCode, FileName: name}, nil
}
