//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

var errServiceUnsupported = errors.New("service installation is only supported on Linux")

func install(_ *slog.Logger, _ []string) error { return errServiceUnsupported }

func uninstall(_ *slog.Logger) error { return errServiceUnsupported }
