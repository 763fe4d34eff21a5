package pdu

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/snmplite/internal/oid"
)

// Encode serializes msg into one self-describing buffer. The leading 4-byte
// size field always equals the length of the returned slice.
func Encode(m Message) ([]byte, error) {
	var (
		payload []byte
		status  *Status
		err     error
	)
	switch msg := m.(type) {
	case *GetRequest:
		payload, err = encodeGetPayload(msg.OIDs)
	case *SetRequest:
		payload, err = encodeBindings(msg.Bindings)
	case *GetBulkRequest:
		payload, err = encodeBulkPayload(msg.Start, msg.MaxRepetitions)
	case *Response:
		payload, err = encodeBindings(msg.Bindings)
		status = &msg.Status
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownMessageKind, m)
	}
	if err != nil {
		return nil, err
	}

	headerLen := HeaderSize
	if status != nil {
		headerLen = ResponseHeaderSize
	}
	total := headerLen + len(payload)
	if total > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, total)
	}

	buf := make([]byte, 0, total)
	buf = binary.BigEndian.AppendUint32(buf, uint32(total))
	buf = binary.BigEndian.AppendUint32(buf, m.RequestID())
	buf = append(buf, byte(m.Kind()))
	if status != nil {
		buf = append(buf, byte(*status))
	}
	return append(buf, payload...), nil
}

func encodeGetPayload(oids []oid.OID) ([]byte, error) {
	if len(oids) > maxEntriesPerMessage {
		return nil, fmt.Errorf("%w: %d oids", ErrTooManyEntries, len(oids))
	}
	buf := []byte{byte(len(oids))}
	for _, o := range oids {
		var err error
		buf, err = appendOID(buf, o)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func encodeBindings(bindings []Binding) ([]byte, error) {
	if len(bindings) > maxEntriesPerMessage {
		return nil, fmt.Errorf("%w: %d bindings", ErrTooManyEntries, len(bindings))
	}
	buf := []byte{byte(len(bindings))}
	for _, b := range bindings {
		var err error
		buf, err = appendOID(buf, b.OID)
		if err != nil {
			return nil, err
		}
		valueBytes, err := b.Value.Encode()
		if err != nil {
			return nil, err
		}
		if len(valueBytes) > maxValueBytes {
			return nil, fmt.Errorf("%w: %d bytes", ErrValueTooLong, len(valueBytes))
		}
		buf = append(buf, byte(b.Value.Type()))
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(valueBytes)))
		buf = append(buf, valueBytes...)
	}
	return buf, nil
}

func encodeBulkPayload(start oid.OID, maxRepetitions uint16) ([]byte, error) {
	buf, err := appendOID(nil, start)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint16(buf, maxRepetitions), nil
}

func appendOID(buf []byte, o oid.OID) ([]byte, error) {
	oidBytes, err := o.Encode()
	if err != nil {
		return nil, err
	}
	if len(oidBytes) > 255 {
		return nil, fmt.Errorf("%w: %d components", ErrOIDTooLong, len(oidBytes))
	}
	buf = append(buf, byte(len(oidBytes)))
	return append(buf, oidBytes...), nil
}
