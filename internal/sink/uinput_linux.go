//go:build linux

package sink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	"github.com/sensorhandler/sensorhandler/internal/keycode"
)

const uinputPath = "/dev/uinput"

// ioctl requests from linux/uinput.h
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566

	uinputMaxNameSize = 80
	absCnt            = 64
	busUSB            = 0x03
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev mirrors struct uinput_user_dev.
type uinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absCnt]int32
	Absmin     [absCnt]int32
	Absfuzz    [absCnt]int32
	Absflat    [absCnt]int32
}

// inputEvent mirrors struct input_event; Timeval has the native width.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type uinputSink struct {
	f       *os.File
	profile Profile
	buf     bytes.Buffer
}

// Open creates a uinput device declaring exactly the profile's keys and axes.
// It fails when /dev/uinput is missing or not writable by the current user.
func Open(p Profile) (Sink, error) {
	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s (check permissions or load the uinput module): %w", uinputPath, err)
	}
	if err := setup(f, p); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create virtual device %q: %w", p.Name, err)
	}
	return &uinputSink{f: f, profile: p}, nil
}

func ioctl(f *os.File, req uint, arg int) error {
	if err := unix.IoctlSetInt(int(f.Fd()), req, arg); err != nil {
		return os.NewSyscallError("ioctl", err)
	}
	return nil
}

func setup(f *os.File, p Profile) error {
	if err := ioctl(f, uiSetEvBit, keycode.EvSyn); err != nil {
		return err
	}
	if len(p.Keys) > 0 {
		if err := ioctl(f, uiSetEvBit, keycode.EvKey); err != nil {
			return err
		}
		for _, k := range p.Keys {
			if k > keycode.KeyMax {
				return fmt.Errorf("key code %#x out of range", k)
			}
			if err := ioctl(f, uiSetKeyBit, int(k)); err != nil {
				return err
			}
		}
	}
	if len(p.RelAxes) > 0 {
		if err := ioctl(f, uiSetEvBit, keycode.EvRel); err != nil {
			return err
		}
		for _, a := range p.RelAxes {
			if err := ioctl(f, uiSetRelBit, int(a)); err != nil {
				return err
			}
		}
	}

	dev := uinputUserDev{
		ID: inputID{Bustype: busUSB, Vendor: p.Vendor, Product: p.Product, Version: 1},
	}
	copy(dev.Name[:uinputMaxNameSize-1], p.Name)
	if err := binary.Write(f, binary.NativeEndian, &dev); err != nil {
		return fmt.Errorf("write device descriptor: %w", err)
	}
	return ioctl(f, uiDevCreate, 0)
}

func (s *uinputSink) Emit(events []Event) error {
	if len(events) == 0 {
		return nil
	}
	s.buf.Reset()
	for _, ev := range events {
		if !s.profile.Supports(ev) {
			return fmt.Errorf("%s: event %s not declared by device", s.profile.Name, ev)
		}
		_ = binary.Write(&s.buf, binary.NativeEndian, inputEvent{Type: ev.Type, Code: ev.Code, Value: ev.Value})
	}
	_ = binary.Write(&s.buf, binary.NativeEndian, inputEvent{Type: keycode.EvSyn, Code: keycode.SynReport})

	if _, err := s.f.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("%s: write events: %w", s.profile.Name, err)
	}
	return nil
}

func (s *uinputSink) Close() error {
	if s.f == nil {
		return nil
	}
	destroyErr := ioctl(s.f, uiDevDestroy, 0)
	closeErr := s.f.Close()
	s.f = nil
	return multierr.Combine(destroyErr, closeErr)
}
