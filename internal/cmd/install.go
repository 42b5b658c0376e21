package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Install registers the server as a system service.
type Install struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Extra flags passed to 'server' by the service"`
}

func (i *Install) Run(logger *slog.Logger) error {
	return install(logger, i.Args)
}

// Uninstall removes the system service created by install.
type Uninstall struct{}

func (u *Uninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
