// Package server accepts line-protocol connections and feeds every received
// line to a shared dispatcher.
package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/sensorhandler/sensorhandler/internal/log"
	"github.com/sensorhandler/sensorhandler/internal/protocol"
)

// MaxLineLength caps a single protocol line on TCP and a single WebSocket
// message. A peer that exceeds it is disconnected.
const MaxLineLength = 64 * 1024

// Dispatcher receives every raw line read from a connection.
type Dispatcher interface {
	Dispatch(ctx context.Context, line string) error
}

// Server is the TCP acceptor. Each connection gets its own reader goroutine.
type Server struct {
	addr       string
	dispatcher Dispatcher
	logger     *slog.Logger
	rawLogger  log.RawLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	ln        net.Listener
	conns     map[io.Closer]struct{}
	wg        sync.WaitGroup
	ready     chan struct{}
	readyOnce sync.Once
}

func New(addr string, dispatcher Dispatcher, logger *slog.Logger, rawLogger log.RawLogger) *Server {
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:       addr,
		dispatcher: dispatcher,
		logger:     logger,
		rawLogger:  rawLogger,
		ctx:        ctx,
		cancel:     cancel,
		conns:      make(map[io.Closer]struct{}),
		ready:      make(chan struct{}),
	}
}

// ListenAndServe binds the listen address and accepts connections until
// Close is called. A bind failure is returned immediately.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("Listening", "addr", ln.Addr().String())

	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("Server stopped")
				return nil
			}
			s.logger.Error("Accept error", "error", err)
			continue
		}
		if !s.track(c) {
			_ = c.Close()
			continue
		}
		go func() {
			defer s.untrack(c)
			s.handleConn(c)
		}()
	}
}

// Ready returns a channel that is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound listen address, or nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops accepting, closes every open connection and waits for their
// readers to return. Readers blocked on a full queue are released.
func (s *Server) Close() error {
	s.cancel()

	s.mu.Lock()
	var err error
	if s.ln != nil {
		err = ignoreClosed(s.ln.Close())
	}
	for c := range s.conns {
		err = multierr.Append(err, ignoreClosed(c.Close()))
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) track(c io.Closer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c io.Closer) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	id := uuid.NewString()
	connLogger := s.logger.With("conn", id, "remote", conn.RemoteAddr().String())
	connLogger.Info("Client connected")

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), MaxLineLength)
	for sc.Scan() {
		line := sc.Text()
		s.rawLogger.Log(id, sc.Bytes())
		if !s.dispatch(connLogger, line) {
			return
		}
	}

	switch err := sc.Err(); {
	case err == nil || isExpectedDisconnect(err):
		connLogger.Info("Client disconnected")
	case errors.Is(err, bufio.ErrTooLong):
		connLogger.Warn("Line too long, closing connection", "limit", MaxLineLength)
	default:
		connLogger.Debug("Connection read error", "error", err)
	}
}

// dispatch hands one line to the dispatcher. It returns false once the
// server is shutting down and the reader should stop.
func (s *Server) dispatch(logger *slog.Logger, line string) bool {
	err := s.dispatcher.Dispatch(s.ctx, line)
	if err == nil {
		return true
	}
	var perr *protocol.Error
	if errors.As(err, &perr) {
		logger.Warn("Dropping line", "error", err)
		return true
	}
	if s.ctx.Err() != nil {
		return false
	}
	logger.Error("Dispatch failed", "error", err)
	return true
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func isExpectedDisconnect(err error) bool {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "connection reset") ||
		strings.Contains(e, "broken pipe") ||
		strings.Contains(e, "forcibly closed") ||
		strings.Contains(e, "use of closed network connection")
}
