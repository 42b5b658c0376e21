package cmd_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/cmd"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
)

func TestBuildKeymaps(t *testing.T) {
	all := cmd.BuildKeymaps(channel.DefaultMouseConfig())
	require.Len(t, all, 3)
	assert.Equal(t, "osu", all[0].Channel)
	assert.Equal(t, 8, all[0].Width)
	assert.Equal(t, []cmd.KeymapEntry{
		{Bit: 0, Key: "Z", Code: keycode.KeyZ},
		{Bit: 1, Key: "X", Code: keycode.KeyX},
	}, all[0].Keys)
	assert.Len(t, all[1].Keys, 86)
	assert.Equal(t, 128, all[1].Width)
	assert.Len(t, all[2].Keys, 3)

	noMiddle := channel.DefaultMouseConfig()
	noMiddle.MiddleButton = false
	only := cmd.BuildKeymaps(noMiddle, "mouse")
	require.Len(t, only, 1)
	assert.Equal(t, "mouse", only[0].Channel)
	assert.Len(t, only[0].Keys, 2)
}

func TestKeymap_Formats(t *testing.T) {
	var out bytes.Buffer
	k := &cmd.Keymap{Channel: []string{"osu"}, Format: "text", Mouse: channel.DefaultMouseConfig(), Stdout: &out}
	require.NoError(t, k.Run())
	assert.Contains(t, out.String(), "osu (8-bit mask)")
	assert.Regexp(t, `(?m)^0\s+Z\s+44$`, out.String())

	out.Reset()
	k.Format = "json"
	require.NoError(t, k.Run())
	var fromJSON []cmd.ChannelKeymap
	require.NoError(t, json.Unmarshal(out.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "X", fromJSON[0].Keys[1].Key)

	out.Reset()
	k.Format = "yaml"
	k.Channel = []string{"keyboard"}
	require.NoError(t, k.Run())
	var fromYAML []cmd.ChannelKeymap
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "keyboard", fromYAML[0].Channel)
	assert.Equal(t, "0", fromYAML[0].Keys[0].Key)
}
