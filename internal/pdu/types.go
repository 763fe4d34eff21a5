package pdu

import (
	"fmt"

	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/value"
)

// Wire layout constants. Every message starts with a 4-byte total size that
// counts the whole message including itself, a 4-byte request id and a
// one-byte kind tag. Responses carry one extra status byte.
const (
	HeaderSize         = 9
	ResponseHeaderSize = 10
	MinMessageSize     = 9
	MaxMessageSize     = 64 * 1024

	kindOffset      = 8
	requestIDOffset = 4

	maxEntriesPerMessage = 255
	maxValueBytes        = 65535
)

// Kind is the one-byte message kind tag at offset 8.
type Kind uint8

const (
	KindGetRequest     Kind = 0xA0
	KindResponse       Kind = 0xA1
	KindSetRequest     Kind = 0xA3
	KindGetBulkRequest Kind = 0xA5
)

func (k Kind) String() string {
	switch k {
	case KindGetRequest:
		return "get_request"
	case KindResponse:
		return "response"
	case KindSetRequest:
		return "set_request"
	case KindGetBulkRequest:
		return "get_bulk_request"
	default:
		return fmt.Sprintf("kind(0x%02x)", uint8(k))
	}
}

// Status is the one-byte response status code.
type Status uint8

const (
	StatusSuccess   Status = 0
	StatusNoSuchOID Status = 1
	StatusBadValue  Status = 2
	StatusReadOnly  Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNoSuchOID:
		return "no_such_oid"
	case StatusBadValue:
		return "bad_value"
	case StatusReadOnly:
		return "read_only"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Binding is one (identifier, typed value) pair. Binding lists are
// order-preserving and may contain duplicates.
type Binding struct {
	OID   oid.OID
	Value value.Value
}

// Message is the closed set of wire message variants. The request id is
// caller-chosen, opaque, and echoed verbatim in responses.
type Message interface {
	Kind() Kind
	RequestID() uint32
}

// GetRequest asks for the current values of a list of identifiers.
type GetRequest struct {
	ReqID uint32
	OIDs  []oid.OID
}

func (m *GetRequest) Kind() Kind        { return KindGetRequest }
func (m *GetRequest) RequestID() uint32 { return m.ReqID }

// SetRequest asks to update a list of bindings all-or-nothing.
type SetRequest struct {
	ReqID    uint32
	Bindings []Binding
}

func (m *SetRequest) Kind() Kind        { return KindSetRequest }
func (m *SetRequest) RequestID() uint32 { return m.ReqID }

// GetBulkRequest asks for up to MaxRepetitions identifiers strictly after
// Start, in ascending order.
type GetBulkRequest struct {
	ReqID          uint32
	Start          oid.OID
	MaxRepetitions uint16
}

func (m *GetBulkRequest) Kind() Kind        { return KindGetBulkRequest }
func (m *GetBulkRequest) RequestID() uint32 { return m.ReqID }

// Response answers any request. Bindings is empty unless Status is
// StatusSuccess.
type Response struct {
	ReqID    uint32
	Status   Status
	Bindings []Binding
}

func (m *Response) Kind() Kind        { return KindResponse }
func (m *Response) RequestID() uint32 { return m.ReqID }
