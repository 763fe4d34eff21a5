package stream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/pdu"
)

// chunkReader delivers at most n bytes per Read call.
type chunkReader struct {
	r io.Reader
	n int
}

func (c chunkReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}

func encodeGet(t *testing.T, reqID uint32, oids ...string) []byte {
	t.Helper()
	msg := &pdu.GetRequest{ReqID: reqID}
	for _, s := range oids {
		msg.OIDs = append(msg.OIDs, oid.MustParse(s))
	}
	data, err := pdu.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestReadMessageFragmentationIndependence(t *testing.T) {
	want := encodeGet(t, 77, "1.3.6.1.2.1.1.1.0", "1.3.6.1.2.1.1.5.0")
	sources := map[string]func() io.Reader{
		"whole buffer": func() io.Reader { return bytes.NewReader(want) },
		"one byte":     func() io.Reader { return iotest.OneByteReader(bytes.NewReader(want)) },
		"three bytes":  func() io.Reader { return chunkReader{r: bytes.NewReader(want), n: 3} },
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			got, err := ReadMessage(bufio.NewReader(src()))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("message mismatch:\n got %x\nwant %x", got, want)
			}
		})
	}
}

func TestReadMessageLeavesNextMessageAvailable(t *testing.T) {
	first := encodeGet(t, 1, "1.3.6.1")
	second := encodeGet(t, 2, "1.3.6.2")
	r := bufio.NewReader(bytes.NewReader(append(append([]byte{}, first...), second...)))

	got1, err := ReadMessage(r)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	got2, err := ReadMessage(r)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if !bytes.Equal(got1, first) || !bytes.Equal(got2, second) {
		t.Fatal("messages were not split at the declared boundary")
	}
	if _, err := ReadMessage(r); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed at end of stream, got %v", err)
	}
}

func TestReadMessageSizeBelowMinimum(t *testing.T) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], 8)
	_, err := ReadMessage(bufio.NewReader(bytes.NewReader(buf[:])))
	if !errors.Is(err, ErrInvalidMessageSize) {
		t.Fatalf("expected ErrInvalidMessageSize, got %v", err)
	}
}

func TestReadMessageSizeAboveCeilingFailsFast(t *testing.T) {
	// Only the size field is present; the reader must reject without
	// attempting to read the claimed remainder.
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], pdu.MaxMessageSize+1)
	_, err := ReadMessage(bufio.NewReader(bytes.NewReader(buf[:])))
	if !errors.Is(err, ErrInvalidMessageSize) {
		t.Fatalf("expected ErrInvalidMessageSize, got %v", err)
	}
}

func TestReadMessageClosedMidMessage(t *testing.T) {
	data := encodeGet(t, 5, "1.3.6.1.2.1.1.1.0")
	for _, cut := range []int{0, 2, 4, len(data) - 1} {
		_, err := ReadMessage(bufio.NewReader(bytes.NewReader(data[:cut])))
		if !errors.Is(err, ErrConnectionClosed) {
			t.Fatalf("cut %d: expected ErrConnectionClosed, got %v", cut, err)
		}
	}
}

func TestReadMessageMaximumSizeAccepted(t *testing.T) {
	raw := make([]byte, pdu.MaxMessageSize)
	binary.BigEndian.PutUint32(raw[:4], pdu.MaxMessageSize)
	raw[8] = 0xA0
	got, err := ReadMessage(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != pdu.MaxMessageSize {
		t.Fatalf("got %d bytes want %d", len(got), pdu.MaxMessageSize)
	}
}
