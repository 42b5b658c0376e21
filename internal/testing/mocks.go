// Package testing holds shared fakes and helpers for package tests.
package testing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sensorhandler/sensorhandler/internal/sink"
)

// RecordingSink stores every emitted batch. It is safe for concurrent use so
// tests can inspect it while a worker goroutine emits.
type RecordingSink struct {
	mu      sync.Mutex
	batches [][]sink.Event
	closed  bool
	notify  chan struct{}

	// EmitErr, when set, is returned by Emit after recording the batch.
	EmitErr error
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{notify: make(chan struct{}, 1)}
}

func (r *RecordingSink) Emit(events []sink.Event) error {
	r.mu.Lock()
	cp := make([]sink.Event, len(events))
	copy(cp, events)
	r.batches = append(r.batches, cp)
	err := r.EmitErr
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return err
}

func (r *RecordingSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("sink closed twice")
	}
	r.closed = true
	return nil
}

// Batches returns a copy of every batch emitted so far.
func (r *RecordingSink) Batches() [][]sink.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]sink.Event, len(r.batches))
	copy(out, r.batches)
	return out
}

// Events returns all emitted events flattened in order.
func (r *RecordingSink) Events() []sink.Event {
	var out []sink.Event
	for _, b := range r.Batches() {
		out = append(out, b...)
	}
	return out
}

func (r *RecordingSink) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Len returns the number of emitted batches.
func (r *RecordingSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

// WaitBatches blocks until at least n batches were emitted or the timeout
// hits, then returns them.
func (r *RecordingSink) WaitBatches(t testing.TB, n int, timeout time.Duration) [][]sink.Event {
	t.Helper()
	r.WaitLen(t, n, timeout)
	return r.Batches()
}

// WaitLen is WaitBatches without copying the batches.
func (r *RecordingSink) WaitLen(t testing.TB, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for r.Len() < n {
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d batches, got %d", n, r.Len())
			return
		}
	}
}

// SinkSet hands out one RecordingSink per device name. Its Open method
// stands in for sink.Open.
type SinkSet struct {
	mu    sync.Mutex
	sinks map[string]*RecordingSink
}

func NewSinkSet() *SinkSet {
	return &SinkSet{sinks: map[string]*RecordingSink{}}
}

func (s *SinkSet) Open(p sink.Profile) (sink.Sink, error) {
	return s.Get(p.Name), nil
}

// Get returns the sink for a device name, creating it if needed.
func (s *SinkSet) Get(name string) *RecordingSink {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.sinks[name]
	if !ok {
		r = NewRecordingSink()
		s.sinks[name] = r
	}
	return r
}
