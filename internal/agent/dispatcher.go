package agent

import (
	"bufio"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/snmplite/internal/mib"
	"github.com/danmuck/snmplite/internal/observability"
	"github.com/danmuck/snmplite/internal/pdu"
	"github.com/danmuck/snmplite/internal/stream"
)

// session processes requests from one connection strictly in arrival order
// until the peer closes, the idle timeout fires, or the byte stream turns
// unattributable. Application-level faults never end the session; they are
// answered with an error status.
func (s *Server) session(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	reader := bufio.NewReader(conn)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		data, err := stream.ReadMessage(reader)
		if err != nil {
			switch {
			case errors.Is(err, stream.ErrConnectionClosed):
				log.Info().Str("remote", remote).Msg("connection closed by peer")
			case errors.Is(err, stream.ErrInvalidMessageSize):
				// The header itself cannot be trusted; no request id to
				// answer to, so drop the connection.
				log.Warn().Str("remote", remote).Err(err).Msg("unattributable message, closing")
			case isTimeout(err):
				log.Info().Str("remote", remote).Msg("idle timeout, closing")
			default:
				log.Warn().Str("remote", remote).Err(err).Msg("read failed, closing")
			}
			return
		}

		resp := s.dispatch(data)
		out, err := pdu.Encode(resp)
		if err != nil {
			// A response that cannot be encoded (oversized binding list)
			// degrades to the bare error status with no bindings.
			log.Error().Str("remote", remote).Err(err).Msg("response encode failed")
			out, err = pdu.Encode(&pdu.Response{ReqID: resp.ReqID, Status: pdu.StatusBadValue})
			if err != nil {
				return
			}
		}
		_ = conn.SetWriteDeadline(time.Now().Add(s.idleTimeout))
		if _, err := conn.Write(out); err != nil {
			log.Warn().Str("remote", remote).Err(err).Msg("write failed, closing")
			return
		}
	}
}

// dispatch decodes one complete message and routes it by kind. The stream
// reader guarantees at least a full header, so a request id is always
// recoverable and every malformed request gets a best-effort error response.
func (s *Server) dispatch(data []byte) *pdu.Response {
	started := time.Now()
	kind := "malformed"
	msg, err := pdu.Decode(data)

	var resp *pdu.Response
	switch {
	case err != nil:
		reqID, _ := pdu.PeekRequestID(data)
		log.Debug().Uint32("request_id", reqID).Err(err).Msg("undecodable request")
		resp = &pdu.Response{ReqID: reqID, Status: pdu.StatusBadValue}
	default:
		kind = msg.Kind().String()
		switch m := msg.(type) {
		case *pdu.GetRequest:
			resp = s.handleGet(m)
		case *pdu.SetRequest:
			resp = s.handleSet(m)
		case *pdu.GetBulkRequest:
			resp = s.handleBulk(m)
		default:
			// A response PDU is a recognized kind but not a request.
			resp = &pdu.Response{ReqID: msg.RequestID(), Status: pdu.StatusBadValue}
		}
	}

	observability.RecordRequest(kind, resp.Status.String(), time.Since(started))
	log.Debug().
		Str("kind", kind).
		Uint32("request_id", resp.ReqID).
		Str("status", resp.Status.String()).
		Int("bindings", len(resp.Bindings)).
		Msg("request handled")
	return resp
}

// handleGet resolves every requested identifier or none: the first missing
// one fails the whole request with no bindings, mirroring Set's atomicity.
// An empty identifier list succeeds trivially.
func (s *Server) handleGet(req *pdu.GetRequest) *pdu.Response {
	bindings, err := s.store.Read(req.OIDs)
	if err != nil {
		return &pdu.Response{ReqID: req.ReqID, Status: statusFor(err)}
	}
	return &pdu.Response{ReqID: req.ReqID, Status: pdu.StatusSuccess, Bindings: bindings}
}

func (s *Server) handleSet(req *pdu.SetRequest) *pdu.Response {
	if err := s.store.Set(req.Bindings); err != nil {
		return &pdu.Response{ReqID: req.ReqID, Status: statusFor(err)}
	}
	// Echo the applied bindings back on success.
	return &pdu.Response{ReqID: req.ReqID, Status: pdu.StatusSuccess, Bindings: req.Bindings}
}

// handleBulk always succeeds; an empty result set is a valid Success.
func (s *Server) handleBulk(req *pdu.GetBulkRequest) *pdu.Response {
	// A response carries a one-byte binding count, so no more than 255
	// repetitions can ever be returned.
	limit := int(req.MaxRepetitions)
	if limit > 255 {
		limit = 255
	}
	bindings := s.store.Walk(req.Start, limit)
	return &pdu.Response{ReqID: req.ReqID, Status: pdu.StatusSuccess, Bindings: bindings}
}

func statusFor(err error) pdu.Status {
	switch {
	case errors.Is(err, mib.ErrNoSuchOID):
		return pdu.StatusNoSuchOID
	case errors.Is(err, mib.ErrReadOnly):
		return pdu.StatusReadOnly
	case errors.Is(err, mib.ErrBadValue):
		return pdu.StatusBadValue
	default:
		return pdu.StatusBadValue
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
