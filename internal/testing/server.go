package testing

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sensorhandler/sensorhandler/internal/log"
	"github.com/sensorhandler/sensorhandler/internal/protocol"
	"github.com/sensorhandler/sensorhandler/internal/server"
)

// Routes is a dispatcher wired to one buffered queue per protocol tag.
type Routes struct {
	*protocol.Dispatcher
	Queues map[protocol.Tag]chan string
}

func NewRoutes(size int) *Routes {
	r := &Routes{Dispatcher: protocol.NewDispatcher(), Queues: map[protocol.Tag]chan string{}}
	for _, tag := range protocol.Tags {
		q := make(chan string, size)
		r.Queues[tag] = q
		r.Register(tag, q)
	}
	return r
}

// Next waits for the next payload queued for tag.
func (r *Routes) Next(t testing.TB, tag protocol.Tag, timeout time.Duration) string {
	t.Helper()
	select {
	case p := <-r.Queues[tag]:
		return p
	case <-time.After(timeout):
		t.Fatalf("no payload for %s within %s", tag, timeout)
		return ""
	}
}

type listener interface {
	ListenAndServe() error
	Ready() <-chan struct{}
	Close() error
}

func start(t testing.TB, srv listener) {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-srv.Ready():
	case err := <-errCh:
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not become ready")
	}
	t.Cleanup(func() {
		_ = srv.Close()
	})
}

// StartServer runs a TCP acceptor on a loopback port and closes it when the
// test ends.
func StartServer(t testing.TB, d server.Dispatcher) *server.Server {
	t.Helper()
	srv := server.New("127.0.0.1:0", d, slog.Default(), log.NewRaw(nil))
	start(t, srv)
	return srv
}

// StartWebSocketServer is StartServer for the WebSocket acceptor.
func StartWebSocketServer(t testing.TB, d server.Dispatcher) *server.WebSocketServer {
	t.Helper()
	srv := server.NewWebSocket("127.0.0.1:0", d, slog.Default(), log.NewRaw(nil))
	start(t, srv)
	return srv
}
