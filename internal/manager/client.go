// Package manager is the client side of the management protocol: it opens a
// persistent connection to an agent, issues requests and matches responses.
package manager

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/pdu"
	"github.com/danmuck/snmplite/internal/stream"
)

const DefaultTimeout = 10 * time.Second

var ErrRequestIDMismatch = errors.New("manager: response request id does not match request")

// Client is one connection to an agent. It is not safe for concurrent use;
// the protocol processes requests on a connection strictly in order anyway.
type Client struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	nextID  uint32
}

// Dial connects to an agent. A non-positive timeout falls back to the
// default.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("manager: dial %s: %w", addr, err)
	}
	return &Client{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
		// Random starting point so ids from separate runs do not collide.
		nextID: rand.Uint32N(10000) + 1,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Get requests the current values of the given identifiers.
func (c *Client) Get(oids []oid.OID) (*pdu.Response, error) {
	return c.roundTrip(&pdu.GetRequest{ReqID: c.newRequestID(), OIDs: oids})
}

// Set asks the agent to apply the bindings all-or-nothing.
func (c *Client) Set(bindings []pdu.Binding) (*pdu.Response, error) {
	return c.roundTrip(&pdu.SetRequest{ReqID: c.newRequestID(), Bindings: bindings})
}

// GetBulk requests up to maxRepetitions identifiers strictly after start.
func (c *Client) GetBulk(start oid.OID, maxRepetitions uint16) (*pdu.Response, error) {
	return c.roundTrip(&pdu.GetBulkRequest{
		ReqID:          c.newRequestID(),
		Start:          start,
		MaxRepetitions: maxRepetitions,
	})
}

func (c *Client) newRequestID() uint32 {
	c.nextID++
	return c.nextID
}

func (c *Client) roundTrip(req pdu.Message) (*pdu.Response, error) {
	data, err := pdu.Encode(req)
	if err != nil {
		return nil, err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if _, err := c.conn.Write(data); err != nil {
		return nil, fmt.Errorf("manager: send: %w", err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	raw, err := stream.ReadMessage(c.reader)
	if err != nil {
		return nil, fmt.Errorf("manager: receive: %w", err)
	}
	msg, err := pdu.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("manager: decode response: %w", err)
	}
	resp, ok := msg.(*pdu.Response)
	if !ok {
		return nil, fmt.Errorf("manager: unexpected %s from agent", msg.Kind())
	}
	if resp.ReqID != req.RequestID() {
		return nil, fmt.Errorf("%w: got %d want %d",
			ErrRequestIDMismatch, resp.ReqID, req.RequestID())
	}
	return resp, nil
}
