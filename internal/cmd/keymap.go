package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	yaml "gopkg.in/yaml.v3"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
)

// Keymap prints the bit layout of each channel so clients can build masks.
type Keymap struct {
	Channel []string `arg:"" optional:"" help:"Channels to list (default all)" enum:"osu,keyboard,mouse"`
	Format  string   `help:"Output format" enum:"text,json,yaml" default:"text" short:"f"`

	Mouse channel.MouseConfig `embed:"" prefix:"mouse."`

	Stdout io.Writer `kong:"-"`
}

// KeymapEntry is one bit of a channel mask.
type KeymapEntry struct {
	Bit  uint8  `json:"bit" yaml:"bit"`
	Key  string `json:"key" yaml:"key"`
	Code uint16 `json:"code" yaml:"code"`
}

// ChannelKeymap lists the bits of one protocol channel.
type ChannelKeymap struct {
	Channel string        `json:"channel" yaml:"channel"`
	Width   int           `json:"width" yaml:"width"`
	Keys    []KeymapEntry `json:"keys" yaml:"keys"`
}

func (k *Keymap) Run() error {
	maps := BuildKeymaps(k.Mouse, k.Channel...)
	w := k.Stdout
	if w == nil {
		w = os.Stdout
	}

	switch k.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(maps)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(maps)
	case "text", "":
		return writeKeymapText(w, maps)
	default:
		return fmt.Errorf("unsupported format: %s", k.Format)
	}
}

// BuildKeymaps returns the layout of the named channels, or all of them.
func BuildKeymaps(mouse channel.MouseConfig, names ...string) []ChannelKeymap {
	tables := []struct {
		name  string
		table *bitmask.Table
	}{
		{"osu", channel.NewOsu("").Table()},
		{"keyboard", channel.NewKeyboard("").Table()},
		{"mouse", channel.NewMouse("", mouse).Table()},
	}

	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}

	var out []ChannelKeymap
	for _, t := range tables {
		if len(want) > 0 && !want[t.name] {
			continue
		}
		m := ChannelKeymap{Channel: t.name, Width: t.table.Width()}
		for _, b := range t.table.Bindings() {
			m.Keys = append(m.Keys, KeymapEntry{Bit: b.Bit, Key: keycode.KeyName(b.Code), Code: b.Code})
		}
		out = append(out, m)
	}
	return out
}

func writeKeymapText(w io.Writer, maps []ChannelKeymap) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, m := range maps {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d-bit mask)\n", m.Channel, m.Width)
		fmt.Fprintln(tw, "BIT\tKEY\tCODE")
		for _, e := range m.Keys {
			fmt.Fprintf(tw, "%d\t%s\t%d\n", e.Bit, e.Key, e.Code)
		}
	}
	return tw.Flush()
}
