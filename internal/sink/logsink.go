package sink

import (
	"log/slog"
)

// logSink records every batch to a logger instead of touching the OS.
type logSink struct {
	profile Profile
	logger  *slog.Logger
}

// NewLogSink returns an Opener producing sinks that log batches at Info level.
func NewLogSink(logger *slog.Logger) Opener {
	return func(p Profile) (Sink, error) {
		logger.Info("Created logging sink", "device", p.Name, "keys", len(p.Keys), "axes", len(p.RelAxes))
		return &logSink{profile: p, logger: logger.With("device", p.Name)}, nil
	}
}

func (s *logSink) Emit(events []Event) error {
	if len(events) == 0 {
		return nil
	}
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.String()
	}
	s.logger.Info("emit", "events", names)
	return nil
}

func (s *logSink) Close() error {
	s.logger.Debug("Closed logging sink")
	return nil
}
