package configpaths_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorhandler/sensorhandler/internal/configpaths"
)

func TestConfigCandidatePaths_UserPathFirst(t *testing.T) {
	cases := []struct {
		name     string
		userPath string
		pick     func(j, y, tm []string) []string
	}{
		{"json", "/tmp/custom.json", func(j, _, _ []string) []string { return j }},
		{"yaml", "/tmp/custom.yaml", func(_, y, _ []string) []string { return y }},
		{"yml", "/tmp/custom.yml", func(_, y, _ []string) []string { return y }},
		{"toml", "/tmp/custom.toml", func(_, _, tm []string) []string { return tm }},
		{"no extension", "/tmp/custom", func(j, _, _ []string) []string { return j }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tc.userPath)
			got := tc.pick(j, y, tm)
			require.NotEmpty(t, got)
			assert.Equal(t, tc.userPath, got[0])
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME is not consulted on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "sensorhandler"), dir)

	p, err := configpaths.DefaultNamedConfigPath("server", "yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "sensorhandler", "server.yaml"), p)
}
