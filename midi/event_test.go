package midi

import (
	"bytes"
	"testing"
)

func TestEventMessageBytes(t *testing.T) {
	cases := []struct {
		ev      Event
		channel uint8
		want    []byte
	}{
		{NoteOnEvent(60, 100), 0, []byte{0x90, 60, 100}},
		{NoteOnEvent(21, 1), 5, []byte{0x95, 21, 1}},
		{NoteOffEvent(60), 0, []byte{0x80, 60, 0}},
		{SustainEvent(true), 0, []byte{0xb0, 64, 127}},
		{SustainEvent(false), 2, []byte{0xb2, 64, 0}},
	}
	for _, c := range cases {
		got := c.ev.Message(c.channel)
		if !bytes.Equal(got.Bytes(), c.want) {
			t.Errorf("%v on channel %d = % x, want % x", c.ev, c.channel, got.Bytes(), c.want)
		}
	}
}

func TestEventMessageUnknown(t *testing.T) {
	if msg := (Event{Type: 0x42}).Message(0); msg != nil {
		t.Errorf("unknown event type rendered % x", msg.Bytes())
	}
}

func TestEventString(t *testing.T) {
	cases := []struct {
		ev   Event
		want string
	}{
		{NoteOnEvent(60, 100), "note on 60 vel 100"},
		{NoteOffEvent(60), "note off 60"},
		{SustainEvent(true), "cc 64 val 127"},
		{SustainEvent(false), "cc 64 val 0"},
	}
	for _, c := range cases {
		if got := c.ev.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
