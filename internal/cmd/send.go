package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sensorhandler/sensorhandler/client"
)

// Send writes protocol lines to a running server, from arguments or stdin.
// Useful to exercise a host without a phone.
type Send struct {
	Addr  string        `help:"Server address" default:"127.0.0.1:2137" env:"SENSORHANDLER_SEND_ADDR"`
	Delay time.Duration `help:"Pause between lines" default:"0s"`
	Lines []string      `arg:"" optional:"" help:"Lines such as 'OSU|1'; read from stdin when omitted"`

	Stdin io.Reader `kong:"-"`
}

func (s *Send) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.SendLines(ctx, logger)
}

// SendLines dials Addr and writes every line in order.
func (s *Send) SendLines(ctx context.Context, logger *slog.Logger) error {
	c, err := client.Dial(ctx, s.Addr)
	if err != nil {
		return err
	}
	defer c.Close()

	next := s.source()
	sent := 0
	for {
		line, ok, err := next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := c.Send(line); err != nil {
			return fmt.Errorf("line %d: %w", sent+1, err)
		}
		sent++
		if s.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.Delay):
			}
		}
	}
	logger.Info("Sent lines", "addr", s.Addr, "count", sent)
	return nil
}

func (s *Send) source() func() (string, bool, error) {
	if len(s.Lines) > 0 {
		i := 0
		return func() (string, bool, error) {
			if i >= len(s.Lines) {
				return "", false, nil
			}
			i++
			return s.Lines[i-1], true, nil
		}
	}
	in := s.Stdin
	if in == nil {
		in = os.Stdin
	}
	sc := bufio.NewScanner(in)
	return func() (string, bool, error) {
		if sc.Scan() {
			return sc.Text(), true, nil
		}
		return "", false, sc.Err()
	}
}
