// Package stream reassembles exactly one logical message from a byte stream,
// independent of how transport reads fragment or coalesce the bytes.
package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/snmplite/internal/pdu"
)

const sizeFieldLen = 4

var (
	ErrConnectionClosed   = errors.New("stream: connection closed")
	ErrInvalidMessageSize = errors.New("stream: invalid message size")
)

// ReadMessage reads one complete message from r and returns its raw bytes,
// size prefix included. The declared size is validated against the protocol
// minimum and ceiling before any of the remainder is read, so a hostile
// length never causes a large allocation or a read into nowhere.
//
// r must be a bufio.Reader so that bytes beyond the current message stay
// buffered for the next call; ReadMessage never consumes past the message
// boundary of the logical stream.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	var sizeField [sizeFieldLen]byte
	if _, err := io.ReadFull(r, sizeField[:]); err != nil {
		return nil, closedOr(err)
	}

	total := binary.BigEndian.Uint32(sizeField[:])
	if total < pdu.MinMessageSize || total > pdu.MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidMessageSize, total)
	}

	buf := make([]byte, total)
	copy(buf, sizeField[:])
	if _, err := io.ReadFull(r, buf[sizeFieldLen:]); err != nil {
		return nil, closedOr(err)
	}
	return buf, nil
}

// closedOr maps end-of-stream conditions onto ErrConnectionClosed and leaves
// transport errors (deadlines included) intact for the caller to classify.
func closedOr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrConnectionClosed
	}
	return err
}
