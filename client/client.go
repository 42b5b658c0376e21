// Package client sends controller state to a SensorHandler server over its
// newline-delimited TCP protocol.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"lukechampine.com/uint128"
)

// Config controls dialing and write timeouts.
type Config struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// Client holds one long-lived connection. It is safe for concurrent use;
// lines from concurrent callers are never interleaved.
type Client struct {
	mu   sync.Mutex
	conn io.WriteCloser
	cfg  Config
}

// Dial connects to addr with default timeouts.
func Dial(ctx context.Context, addr string) (*Client, error) {
	return DialWithConfig(ctx, addr, nil)
}

// DialWithConfig connects to addr. A nil cfg selects the defaults.
func DialWithConfig(ctx context.Context, addr string, cfg *Config) (*Client, error) {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	d := &net.Dialer{Timeout: c.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}
	return &Client{conn: conn, cfg: c}, nil
}

// New wraps an existing writer, for example a pipe in tests.
func New(w io.WriteCloser) *Client {
	return &Client{conn: w, cfg: defaultConfig()}
}

// Send writes one raw line; a newline is appended when missing.
func (c *Client) Send(line string) error {
	if line == "" || line[len(line)-1] != '\n' {
		line += "\n"
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if nc, ok := c.conn.(net.Conn); ok && c.cfg.WriteTimeout > 0 {
		_ = nc.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if _, err := io.WriteString(c.conn, line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Osu sends the full osu! key state.
func (c *Client) Osu(mask uint8) error { return c.Send(OsuLine(mask)) }

// Keyboard sends the full keyboard state.
func (c *Client) Keyboard(mask uint128.Uint128) error { return c.Send(KeyboardLine(mask)) }

// Mouse sends one pointer update.
func (c *Client) Mouse(f MouseFrame) error { return c.Send(MouseLine(f)) }

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
