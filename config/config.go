// Package config holds the fixed constants of one physical build.
// Everything here depends on how the key-bed was wired and measured,
// so it ships compiled in rather than as a runtime file.
package config

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/dogeystamp/geode-piano/pins"
)

// I2C topology: both expanders share one bus.
const (
	I2CBus   = "" // first available bus
	AddrA    = 0x20
	AddrB    = 0x27
	BusSpeed = 400 * physic.KiloHertz
)

// Matrix timing. One tick is a full strobe pass over all columns.
const (
	ScanInterval  = 10 * time.Millisecond
	DebounceTicks = 2
)

// Velocity curve, measured against this key-bed's action.
const (
	VelocityFloor   = 5 * time.Millisecond
	VelocityCeiling = 140 * time.Millisecond
	DefaultVelocity = 64
)

// MIDI transport. The f_midi USB gadget shows up as an ALSA rawmidi
// port with this name.
const (
	PortMatch = "f_midi"
	Channel   = 0
)

// Pedal and status LED lines.
const (
	PedalPin      = "GPIO8"
	PedalInverted = true // normally-closed pedal
	LEDPin        = "GPIO25"
)

// BoardPins lists the native GPIO lines wired into the matrix, in the
// order they map onto transparent pins after the expanders.
var BoardPins = [pins.NumBoardPins]string{
	"GPIO15", "GPIO14", "GPIO13", "GPIO12", "GPIO11", "GPIO10",
	"GPIO9", "GPIO18", "GPIO19", "GPIO20", "GPIO21", "GPIO22",
}
