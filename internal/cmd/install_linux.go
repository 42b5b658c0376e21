//go:build linux

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

const (
	serviceName = "sensorhandler.service"
	servicePath = "/etc/systemd/system/sensorhandler.service"
)

func install(logger *slog.Logger, args []string) error {
	exePath, err := currentExecutable()
	if err != nil {
		return err
	}

	unit := systemdUnitContent(exePath, args)
	if err := os.WriteFile(servicePath, []byte(unit), 0o644); err != nil {
		return err
	}

	steps := [][]string{
		{"daemon-reload"},
		{"enable", serviceName},
		{"restart", serviceName},
	}

	for _, args := range steps {
		if err := runSystemctl(args...); err != nil {
			return err
		}
	}

	logger.Info("SensorHandler systemd service installed", "path", servicePath, "exe", exePath)
	return nil
}

func uninstall(logger *slog.Logger) error {
	err := multierr.Combine(
		runSystemctl("stop", serviceName),
		runSystemctl("disable", serviceName),
	)
	if rmErr := os.Remove(servicePath); rmErr != nil && !os.IsNotExist(rmErr) {
		err = multierr.Append(err, rmErr)
	}
	err = multierr.Append(err, runSystemctl("daemon-reload"))
	if err != nil {
		return err
	}

	logger.Info("SensorHandler systemd service removed", "path", servicePath)
	return nil
}

// systemdUnitContent renders the unit. The service needs write access to
// /dev/uinput, so it runs as root.
func systemdUnitContent(exePath string, args []string) string {
	cmdLine := []string{strconv.Quote(exePath), "server"}
	for _, a := range args {
		cmdLine = append(cmdLine, strconv.Quote(a))
	}
	return fmt.Sprintf(`[Unit]
Description=SensorHandler phone input server
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart=%s
WorkingDirectory=%s
Restart=on-failure

[Install]
WantedBy=multi-user.target
`, strings.Join(cmdLine, " "), filepath.Dir(exePath))
}

func runSystemctl(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
