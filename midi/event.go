// Package midi translates key events into channel voice messages and
// delivers them to an output port in submission order.
package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Controller numbers
const (
	SustainPedal uint8 = 64
)

// Event is one channel voice message, minus the channel.
// The channel is stamped on at the port boundary.
type Event struct {
	Type  uint8 // NoteOn, NoteOff, CC
	Data1 uint8 // note or controller number
	Data2 uint8 // velocity or controller value
}

// NoteOnEvent starts a note at the given velocity.
func NoteOnEvent(note, velocity uint8) Event {
	return Event{Type: NoteOn, Data1: note, Data2: velocity}
}

// NoteOffEvent releases a note. Release velocity is always zero.
func NoteOffEvent(note uint8) Event {
	return Event{Type: NoteOff, Data1: note}
}

// SustainEvent reports the sustain pedal state.
func SustainEvent(on bool) Event {
	var v uint8
	if on {
		v = 127
	}
	return Event{Type: CC, Data1: SustainPedal, Data2: v}
}

// Message renders the event as wire bytes on the given channel.
// Unknown event types render as nil.
func (e Event) Message(channel uint8) gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(channel, e.Data1, e.Data2)
	case NoteOff:
		return gomidi.NoteOff(channel, e.Data1)
	case CC:
		return gomidi.ControlChange(channel, e.Data1, e.Data2)
	}
	return nil
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("note on %d vel %d", e.Data1, e.Data2)
	case NoteOff:
		return fmt.Sprintf("note off %d", e.Data1)
	case CC:
		return fmt.Sprintf("cc %d val %d", e.Data1, e.Data2)
	}
	return fmt.Sprintf("unknown %#02x", e.Type)
}
