package protocol

import (
	"context"
	"fmt"
	"strings"
)

// Dispatcher routes parsed payloads to per-tag queues. Routes are registered
// once during startup; Dispatch is safe for concurrent use afterwards.
type Dispatcher struct {
	routes map[Tag]chan<- string
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{routes: make(map[Tag]chan<- string, len(Tags))}
}

// Register binds tag to queue, replacing any earlier binding.
func (d *Dispatcher) Register(tag Tag, queue chan<- string) {
	d.routes[tag] = queue
}

// Dispatch parses line and enqueues its payload. Blank lines are ignored.
// It blocks while the target queue is full, and returns ctx.Err() if the
// context ends first. Rejected lines yield a *Error and enqueue nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	tag, payload, err := ParseLine(line)
	if err != nil {
		return err
	}
	q, ok := d.routes[tag]
	if !ok {
		return &Error{Line: line, Err: fmt.Errorf("%w %q: no channel registered", ErrUnknownTag, tag)}
	}

	select {
	case q <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
