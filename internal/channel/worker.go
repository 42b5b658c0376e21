// Package channel implements the per-category channel workers. Each worker
// is an actor that exclusively owns one sink and one decoder state and
// consumes payload strings from its queue.
package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/sensorhandler/sensorhandler/internal/log"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

// ErrDecode marks a payload that could not be decoded for its category.
var ErrDecode = errors.New("decode payload")

// Decoder turns one payload into the events for that frame, updating its
// own binding state. A failed decode must leave the state untouched.
type Decoder interface {
	Name() string
	Profile() sink.Profile
	Decode(payload string) ([]sink.Event, error)
	// Release returns events releasing everything still held and resets state.
	Release() []sink.Event
}

// Stats counts frames seen by a worker.
type Stats struct {
	Processed uint64
	Dropped   uint64
	EmitErrs  uint64
}

// Worker drains a queue of payloads into a Sink.
type Worker struct {
	decoder Decoder
	sink    sink.Sink
	queue   chan string
	logger  *slog.Logger

	processed atomic.Uint64
	dropped   atomic.Uint64
	emitErrs  atomic.Uint64
}

// NewWorker creates a worker with a queue holding up to queueSize payloads.
// The worker takes ownership of s and closes it when Run returns.
func NewWorker(d Decoder, s sink.Sink, queueSize int, logger *slog.Logger) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Worker{
		decoder: d,
		sink:    s,
		queue:   make(chan string, queueSize),
		logger:  logger.With("channel", d.Name()),
	}
}

func (w *Worker) Name() string { return w.decoder.Name() }

// Queue returns the send side of the worker's inbox.
func (w *Worker) Queue() chan<- string { return w.queue }

func (w *Worker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Dropped:   w.dropped.Load(),
		EmitErrs:  w.emitErrs.Load(),
	}
}

// CloseQueue closes the inbox once no producer will send again. Run drains
// what is left and returns.
func (w *Worker) CloseQueue() { close(w.queue) }

// Run processes payloads until ctx is cancelled or the queue is closed.
// Anything still held is released before the sink is closed.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Debug("Channel worker started")
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-w.queue:
			if !ok {
				return nil
			}
			_ = w.Process(payload)
		}
	}
}

// Process decodes and emits one frame synchronously. Only the goroutine
// that owns the worker may call it.
func (w *Worker) Process(payload string) error {
	events, err := w.decoder.Decode(payload)
	if err != nil {
		w.dropped.Add(1)
		w.logger.Warn("Dropped frame", "payload", payload, "error", err)
		return err
	}
	w.processed.Add(1)
	if len(events) == 0 {
		return nil
	}
	if w.logger.Enabled(context.Background(), log.LevelTrace) {
		w.logger.Log(context.Background(), log.LevelTrace, "frame", "payload", payload, "events", len(events))
	}
	if err := w.sink.Emit(events); err != nil {
		w.emitErrs.Add(1)
		w.logger.Error("Failed to emit events", "error", err)
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

func (w *Worker) shutdown() {
	if events := w.decoder.Release(); len(events) > 0 {
		if err := w.sink.Emit(events); err != nil {
			w.logger.Error("Failed to release held inputs", "error", err)
		}
	}
	if err := w.sink.Close(); err != nil {
		w.logger.Error("Failed to close sink", "error", err)
	}
	st := w.Stats()
	w.logger.Info("Channel worker stopped", "processed", st.Processed, "dropped", st.Dropped)
}
