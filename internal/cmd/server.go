package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/multierr"

	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/log"
	"github.com/sensorhandler/sensorhandler/internal/protocol"
	"github.com/sensorhandler/sensorhandler/internal/server"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

// DeviceConfig names the virtual devices created at startup.
type DeviceConfig struct {
	OsuName      string `help:"Name of the osu! key device" default:"Virtual osu! input" env:"SENSORHANDLER_DEVICE_OSU_NAME"`
	KeyboardName string `help:"Name of the keyboard device" default:"Virtual keyboard input" env:"SENSORHANDLER_DEVICE_KEYBOARD_NAME"`
	MouseName    string `help:"Name of the pointer device" default:"Virtual mouse input" env:"SENSORHANDLER_DEVICE_MOUSE_NAME"`
}

type Server struct {
	Listen    server.Config       `embed:""`
	QueueSize int                 `help:"Capacity of each channel queue; full queues block readers" default:"1024" env:"SENSORHANDLER_QUEUE_SIZE"`
	DryRun    bool                `help:"Log events instead of creating uinput devices" env:"SENSORHANDLER_DRY_RUN"`
	Mouse     channel.MouseConfig `embed:"" prefix:"mouse."`
	Device    DeviceConfig        `embed:"" prefix:"device."`

	// Opener overrides how sinks are created. Nil selects uinput, or the
	// logging sink with --dry-run.
	Opener sink.Opener `kong:"-"`
}

// Run is called by Kong when the server command is executed.
func (s *Server) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

// StartServer serves until ctx is done or an acceptor fails.
func (s *Server) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	rt, err := s.Start(ctx, logger, rawLogger)
	if err != nil {
		return err
	}
	return rt.Wait()
}

// Runtime is a started server: three channel workers behind one or two
// acceptors.
type Runtime struct {
	ctx     context.Context
	logger  *slog.Logger
	workers []*channel.Worker
	tcp     *server.Server
	ws      *server.WebSocketServer
	errCh   chan error
	wg      sync.WaitGroup
}

// Start opens every sink, starts the workers and binds the acceptors. It
// returns once the acceptors are ready. Any failure is returned after
// releasing what was already created.
func (s *Server) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) (*Runtime, error) {
	addr, err := s.Listen.ListenAddr()
	if err != nil {
		return nil, err
	}

	open := s.Opener
	if open == nil {
		open = sink.Open
		if s.DryRun {
			open = sink.NewLogSink(logger)
		}
	}

	routes := []struct {
		tag protocol.Tag
		dec channel.Decoder
	}{
		{protocol.TagOsu, channel.NewOsu(s.Device.OsuName)},
		{protocol.TagKeyboard, channel.NewKeyboard(s.Device.KeyboardName)},
		{protocol.TagMouse, channel.NewMouse(s.Device.MouseName, s.Mouse)},
	}
	sinks := make([]sink.Sink, 0, len(routes))
	for _, r := range routes {
		sk, err := open(r.dec.Profile())
		if err != nil {
			for _, opened := range sinks {
				err = multierr.Append(err, opened.Close())
			}
			return nil, fmt.Errorf("failed to create %s device: %w", r.dec.Name(), err)
		}
		sinks = append(sinks, sk)
	}

	rt := &Runtime{
		ctx:    ctx,
		logger: logger,
		errCh:  make(chan error, 2),
	}
	dispatcher := protocol.NewDispatcher()
	for i, r := range routes {
		w := channel.NewWorker(r.dec, sinks[i], s.QueueSize, logger)
		dispatcher.Register(r.tag, w.Queue())
		rt.workers = append(rt.workers, w)
	}
	for _, w := range rt.workers {
		w := w
		rt.wg.Add(1)
		go func() {
			defer rt.wg.Done()
			// Workers stop when their queue is closed, after the acceptors.
			_ = w.Run(context.Background())
		}()
	}

	logger.Info("Starting SensorHandler server", "addr", addr)
	rt.tcp = server.New(addr, dispatcher, logger, rawLogger)
	if err := rt.serve(rt.tcp); err != nil {
		rt.shutdown()
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.Listen.WsAddr != "" {
		rt.ws = server.NewWebSocket(s.Listen.WsAddr, dispatcher, logger, rawLogger)
		if err := rt.serve(rt.ws); err != nil {
			rt.shutdown()
			return nil, fmt.Errorf("failed to listen on %s: %w", s.Listen.WsAddr, err)
		}
	}
	return rt, nil
}

type acceptor interface {
	ListenAndServe() error
	Ready() <-chan struct{}
}

// serve runs a in the background and waits until it is bound.
func (rt *Runtime) serve(a acceptor) error {
	done := make(chan error, 1)
	go func() {
		err := a.ListenAndServe()
		done <- err
		if err != nil {
			rt.errCh <- err
		}
	}()
	select {
	case <-a.Ready():
		return nil
	case err := <-done:
		if err == nil {
			err = errors.New("acceptor stopped before it was ready")
		}
		return err
	}
}

// Addr is the bound TCP address.
func (rt *Runtime) Addr() net.Addr { return rt.tcp.Addr() }

// WebSocketAddr is the bound WebSocket address, or nil when disabled.
func (rt *Runtime) WebSocketAddr() net.Addr {
	if rt.ws == nil {
		return nil
	}
	return rt.ws.Addr()
}

// Stats returns the counters of every worker keyed by channel name.
func (rt *Runtime) Stats() map[string]channel.Stats {
	out := make(map[string]channel.Stats, len(rt.workers))
	for _, w := range rt.workers {
		out[w.Name()] = w.Stats()
	}
	return out
}

// Wait blocks until the context ends or an acceptor fails, then shuts
// everything down.
func (rt *Runtime) Wait() error {
	var err error
	select {
	case <-rt.ctx.Done():
		rt.logger.Info("Shutting down")
	case err = <-rt.errCh:
		rt.logger.Error("Acceptor failed", "error", err)
	}
	return multierr.Append(err, rt.shutdown())
}

// shutdown closes the acceptors, which waits for every reader, then closes
// the worker queues so each worker drains and releases held inputs.
func (rt *Runtime) shutdown() error {
	var err error
	if rt.ws != nil {
		err = multierr.Append(err, rt.ws.Close())
	}
	if rt.tcp != nil {
		err = multierr.Append(err, rt.tcp.Close())
	}
	for _, w := range rt.workers {
		w.CloseQueue()
	}
	rt.wg.Wait()
	return err
}
