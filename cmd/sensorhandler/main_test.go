package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("SENSORHANDLER_CONFIG", "")

	assert.Equal(t, "a.yaml", findUserConfig([]string{"server", "--config=a.yaml"}))
	assert.Equal(t, "b.toml", findUserConfig([]string{"--config", "b.toml", "server"}))
	assert.Equal(t, "", findUserConfig([]string{"server", "--config"}))

	t.Setenv("SENSORHANDLER_CONFIG", "/etc/x.json")
	assert.Equal(t, "/etc/x.json", findUserConfig([]string{"server"}))
	assert.Equal(t, "c.json", findUserConfig([]string{"--config=c.json"}))
}
