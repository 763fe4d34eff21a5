// Package agent runs the management protocol server: accept loop,
// per-connection sessions and request dispatch against the value store.
package agent

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/snmplite/internal/mib"
	"github.com/danmuck/snmplite/internal/observability"
)

const DefaultIdleTimeout = 10 * time.Second

// Server owns the listener and the shared store. One goroutine serves each
// accepted connection; the store's own locking keeps them isolated.
type Server struct {
	addr        string
	idleTimeout time.Duration
	store       *mib.Store

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

func NewServer(addr string, idleTimeout time.Duration, store *mib.Store) *Server {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Server{addr: addr, idleTimeout: idleTimeout, store: store}
}

// Listen binds the TCP listener. Serve may then be called; Addr reports the
// bound address, useful when addr requested an ephemeral port.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	log.Info().Str("addr", ln.Addr().String()).Int("entries", s.store.Len()).
		Msg("agent listening")
	return nil
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then closes the listener
// and waits for in-flight sessions to finish.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.listener
		s.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Info().Msg("agent stopped")
				return nil
			}
			return err
		}
		observability.ConnectionOpened()
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("connection accepted")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer observability.ConnectionClosed()
			s.session(conn)
		}()
	}
}
