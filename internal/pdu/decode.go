package pdu

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/value"
)

// Decode parses one complete message from data. Dispatch is purely on the
// kind tag at offset 8. Declared lengths inside the payload are never trusted
// beyond the bytes actually supplied; any overrun yields ErrTruncated.
func Decode(data []byte) (Message, error) {
	if len(data) < MinMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	reqID := binary.BigEndian.Uint32(data[requestIDOffset : requestIDOffset+4])
	kind := Kind(data[kindOffset])

	r := reader{data: data, off: HeaderSize}
	switch kind {
	case KindGetRequest:
		oids, err := r.oidListPayload()
		if err != nil {
			return nil, err
		}
		return &GetRequest{ReqID: reqID, OIDs: oids}, nil
	case KindSetRequest:
		bindings, err := r.bindingsPayload()
		if err != nil {
			return nil, err
		}
		return &SetRequest{ReqID: reqID, Bindings: bindings}, nil
	case KindGetBulkRequest:
		start, maxRep, err := r.bulkPayload()
		if err != nil {
			return nil, err
		}
		return &GetBulkRequest{ReqID: reqID, Start: start, MaxRepetitions: maxRep}, nil
	case KindResponse:
		status, err := r.byte()
		if err != nil {
			return nil, err
		}
		bindings, err := r.bindingsPayload()
		if err != nil {
			return nil, err
		}
		return &Response{ReqID: reqID, Status: Status(status), Bindings: bindings}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownMessageKind, uint8(kind))
	}
}

// PeekRequestID recovers the request id from a raw buffer so a best-effort
// error response can be correlated even when full decoding fails.
func PeekRequestID(data []byte) (uint32, bool) {
	if len(data) < requestIDOffset+4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(data[requestIDOffset : requestIDOffset+4]), true
}

// reader is a bounds-checked cursor over one message buffer.
type reader struct {
	data []byte
	off  int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.data)-r.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrTruncated, n, r.off, len(r.data))
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) oid() (oid.OID, error) {
	n, err := r.byte()
	if err != nil {
		return nil, err
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	return oid.Decode(b), nil
}

func (r *reader) oidListPayload() ([]oid.OID, error) {
	count, err := r.byte()
	if err != nil {
		return nil, err
	}
	oids := make([]oid.OID, 0, count)
	for i := 0; i < int(count); i++ {
		o, err := r.oid()
		if err != nil {
			return nil, err
		}
		oids = append(oids, o)
	}
	return oids, nil
}

func (r *reader) bindingsPayload() ([]Binding, error) {
	count, err := r.byte()
	if err != nil {
		return nil, err
	}
	bindings := make([]Binding, 0, count)
	for i := 0; i < int(count); i++ {
		o, err := r.oid()
		if err != nil {
			return nil, err
		}
		tag, err := r.byte()
		if err != nil {
			return nil, err
		}
		valueLen, err := r.uint16()
		if err != nil {
			return nil, err
		}
		valueBytes, err := r.take(int(valueLen))
		if err != nil {
			return nil, err
		}
		v, err := value.Decode(valueBytes, value.Type(tag))
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{OID: o, Value: v})
	}
	return bindings, nil
}

func (r *reader) bulkPayload() (oid.OID, uint16, error) {
	start, err := r.oid()
	if err != nil {
		return nil, 0, err
	}
	maxRep, err := r.uint16()
	if err != nil {
		return nil, 0, err
	}
	return start, maxRep, nil
}
