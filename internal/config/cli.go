// Package config holds the root kong command tree.
package config

import "github.com/sensorhandler/sensorhandler/internal/cmd"

// Log configures the slog handlers and the raw line logger.
type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"SENSORHANDLER_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"SENSORHANDLER_LOG_FILE"`
	RawFile string `help:"Write every received protocol line to this file" env:"SENSORHANDLER_LOG_RAW_FILE"`
}

// CLI is the root command.
type CLI struct {
	Config string `help:"Path to a JSON, YAML or TOML config file" type:"path" env:"SENSORHANDLER_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Server    cmd.Server        `cmd:"" help:"Accept phone connections and replay input on virtual devices" default:"withargs"`
	Keymap    cmd.Keymap        `cmd:"" help:"Print the bit layout of each channel"`
	Send      cmd.Send          `cmd:"" help:"Send protocol lines to a running server"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Install   cmd.Install       `cmd:"" help:"Install the server as a systemd service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Remove the systemd service"`
}
