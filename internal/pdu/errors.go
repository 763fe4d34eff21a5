package pdu

import "errors"

var (
	ErrUnknownMessageKind = errors.New("pdu: unknown message kind")
	ErrTruncated          = errors.New("pdu: truncated message")
	ErrTooManyEntries     = errors.New("pdu: too many entries for one message")
	ErrOIDTooLong         = errors.New("pdu: oid too long for one-byte length")
	ErrValueTooLong       = errors.New("pdu: value too long for two-byte length")
	ErrMessageTooLarge    = errors.New("pdu: message exceeds maximum size")
)
