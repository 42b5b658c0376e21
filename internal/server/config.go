package server

import (
	"fmt"
	"net"
	"strconv"
)

// Config is the listener configuration of the server command.
type Config struct {
	Addr   string `help:"TCP listen address for the line protocol" default:"0.0.0.0:2137" env:"SENSORHANDLER_ADDR"`
	Port   uint16 `short:"p" help:"Override the port of --addr; 0 keeps it" env:"SENSORHANDLER_PORT"`
	WsAddr string `help:"WebSocket listen address; empty disables the WebSocket acceptor" env:"SENSORHANDLER_WS_ADDR"`
}

// ListenAddr returns Addr with Port applied.
func (c Config) ListenAddr() (string, error) {
	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", c.Addr, err)
	}
	if c.Port != 0 {
		port = strconv.FormatUint(uint64(c.Port), 10)
	}
	return net.JoinHostPort(host, port), nil
}
