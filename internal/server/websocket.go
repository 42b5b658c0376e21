package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"

	"github.com/sensorhandler/sensorhandler/internal/log"
)

const (
	wsShutdownTimeout = 5 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	// Clients are phones on the local network, not browsers on this origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketServer accepts WebSocket connections on "/". Every text message
// carries one or more newline-separated protocol lines.
type WebSocketServer struct {
	*Server

	httpSrv *http.Server
	once    sync.Once
}

func NewWebSocket(addr string, dispatcher Dispatcher, logger *slog.Logger, rawLogger log.RawLogger) *WebSocketServer {
	ws := &WebSocketServer{Server: New(addr, dispatcher, logger.With("transport", "websocket"), rawLogger)}
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleWS)
	ws.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ws.ctx },
	}
	return ws
}

// ListenAndServe binds the listen address and serves until Close.
func (ws *WebSocketServer) ListenAndServe() error {
	ln, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return err
	}
	ws.mu.Lock()
	if ws.ctx.Err() != nil {
		ws.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	ws.ln = ln
	ws.mu.Unlock()
	ws.readyOnce.Do(func() { close(ws.ready) })
	ws.logger.Info("Listening", "addr", ln.Addr().String())

	if err := ws.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket serve: %w", err)
	}
	ws.logger.Info("Server stopped")
	return nil
}

// Close shuts the HTTP server down and closes every upgraded connection.
func (ws *WebSocketServer) Close() error {
	var err error
	ws.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), wsShutdownTimeout)
		defer cancel()
		ws.cancel()
		// Upgraded connections are hijacked and not covered by Shutdown.
		err = multierr.Combine(ws.httpSrv.Shutdown(ctx), ws.Server.Close())
	})
	return err
}

func (ws *WebSocketServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Warn("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	if !ws.track(conn) {
		_ = conn.Close()
		return
	}
	defer ws.untrack(conn)
	defer conn.Close()
	conn.SetReadLimit(MaxLineLength)

	id := uuid.NewString()
	connLogger := ws.logger.With("conn", id, "remote", conn.RemoteAddr().String())
	connLogger.Info("Client connected")

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !isExpectedDisconnect(err) {
				connLogger.Debug("WebSocket read error", "error", err)
			} else {
				connLogger.Info("Client disconnected")
			}
			return
		}
		if msgType != websocket.TextMessage {
			connLogger.Debug("Ignoring non-text message", "type", msgType)
			continue
		}
		ws.rawLogger.Log(id, msg)
		for _, line := range strings.Split(string(msg), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !ws.dispatch(connLogger, line) {
				return
			}
		}
	}
}
