package header

import "github.com/dlt-go/dltcore/errs"

// extendedHeaderLen is the fixed size of the extended header on the wire.
const extendedHeaderLen = 10

// messageInfoVerb is bit 0 of the message_info byte: set for verbose messages.
const messageInfoVerb = 0b0000_0001

// messageTypeInfoMask isolates bits 4-7 of message_info (the sub-code).
const messageTypeInfoMask = 0b1111_0000

// Network Trace (NWT) sub-codes 5-15 are reserved for user-defined trace
// kinds, encoded as networkTraceUserDefinedBase+n for n in
// [0, networkTraceUserDefinedMax]; the 4-bit sub-code field caps n at 10.
const (
	networkTraceUserDefinedBase = 5
	networkTraceUserDefinedMax  = 10
)

// Extended is the 10-byte extended header: message classification plus the
// application and context ids. Ids are raw 4-byte identifiers, not integers,
// and are compared bytewise.
type Extended struct {
	MessageInfo       uint8
	NumberOfArguments uint8
	ApplicationID     [4]byte
	ContextID         [4]byte
}

// IsVerbose reports whether MessageInfo's VERB bit is set.
func (e Extended) IsVerbose() bool {
	return e.MessageInfo&messageInfoVerb != 0
}

// MessageType returns bits 1-3 of MessageInfo (the type code).
func (e Extended) MessageType() uint8 {
	return (e.MessageInfo >> 1) & 0b111
}

// MessageTypeInfo returns bits 4-7 of MessageInfo (the sub-code).
func (e Extended) MessageTypeInfo() uint8 {
	return (e.MessageInfo >> 4) & 0b1111
}

// parseExtended parses a 10-byte extended header from buf.
func parseExtended(buf []byte) (Extended, error) {
	if len(buf) < extendedHeaderLen {
		return Extended{}, &errs.UnexpectedEndOfSlice{
			Layer:       errs.LayerDltHeader,
			MinimumSize: extendedHeaderLen,
			ActualSize:  len(buf),
		}
	}

	var e Extended
	e.MessageInfo = buf[0]
	e.NumberOfArguments = buf[1]
	copy(e.ApplicationID[:], buf[2:6])
	copy(e.ContextID[:], buf[6:10])

	return e, nil
}

// WithNetworkTraceUserDefined returns a copy of e with its sub-code (bits
// 4-7 of message_info) set to the user-defined Network Trace kind n, leaving
// the type code and VERB bit untouched. n must fall in
// [0, networkTraceUserDefinedMax]; any other value yields
// NetworkTypeUserDefinedOutsideOfRange rather than silently wrapping into an
// unrelated sub-code.
func (e Extended) WithNetworkTraceUserDefined(n int) (Extended, error) {
	if n < 0 || n > networkTraceUserDefinedMax {
		return Extended{}, &errs.NetworkTypeUserDefinedOutsideOfRange{Value: n}
	}

	code := uint8(networkTraceUserDefinedBase + n)
	e.MessageInfo = (e.MessageInfo &^ messageTypeInfoMask) | (code << 4)

	return e, nil
}

// appendBytes appends the wire encoding of e to dst and returns the result.
func (e Extended) appendBytes(dst []byte) []byte {
	dst = append(dst, e.MessageInfo, e.NumberOfArguments)
	dst = append(dst, e.ApplicationID[:]...)
	dst = append(dst, e.ContextID[:]...)

	return dst
}
