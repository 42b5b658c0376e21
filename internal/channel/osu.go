package channel

import (
	"fmt"

	"github.com/sensorhandler/sensorhandler/internal/bitmask"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/sink"
)

// OsuLayout binds the two osu! action keys: K1 and K2.
var OsuLayout = []bitmask.Entry{
	{Bit: 0, Code: keycode.KeyZ},
	{Bit: 1, Code: keycode.KeyX},
}

const osuWidth = 8

// Osu decodes 8-bit masks into the two osu! keys.
type Osu struct {
	name  string
	table *bitmask.Table
}

func NewOsu(deviceName string) *Osu {
	return &Osu{name: deviceName, table: bitmask.MustTable(osuWidth, OsuLayout)}
}

func (o *Osu) Name() string { return "osu" }

func (o *Osu) Profile() sink.Profile {
	return sink.Profile{
		Name:    o.name,
		Vendor:  0x5432,
		Product: 0x2345,
		Keys:    o.table.Codes(),
	}
}

func (o *Osu) Decode(payload string) ([]sink.Event, error) {
	m, err := bitmask.Parse(payload, osuWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return o.table.Apply(m, nil), nil
}

func (o *Osu) Release() []sink.Event { return o.table.ReleaseAll(nil) }

// Table exposes the binding table for inspection.
func (o *Osu) Table() *bitmask.Table { return o.table }
