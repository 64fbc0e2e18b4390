package matrix

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/dogeystamp/geode-piano/keymap"
	"github.com/dogeystamp/geode-piano/midi"
)

// fakeDriver models the wiring electrically: a closed contact ties a
// row pin to a column pin, and a strobed column (output, driven low)
// pulls its closed rows low.
type fakeDriver struct {
	out    map[int]bool
	latch  uint64
	closed map[[2]int]bool
	fail   bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{out: make(map[int]bool), closed: make(map[[2]int]bool)}
}

func (d *fakeDriver) press(rowPin, colPin int) { d.closed[[2]int{rowPin, colPin}] = true }
func (d *fakeDriver) release(rowPin, colPin int) { delete(d.closed, [2]int{rowPin, colPin}) }

func (d *fakeDriver) NumPins() int { return 40 }

func (d *fakeDriver) SetInput(pin int) error { d.out[pin] = false; return nil }
func (d *fakeDriver) SetOutput(pin int) error { d.out[pin] = true; return nil }

func (d *fakeDriver) WriteAll(levels uint64) error {
	d.latch = levels
	return nil
}

func (d *fakeDriver) ReadAll() (uint64, error) {
	v := uint64(1)<<40 - 1
	if d.fail {
		return v, errors.New("no ack")
	}
	for pair := range d.closed {
		rowPin, colPin := pair[0], pair[1]
		if d.out[colPin] && d.latch&(uint64(1)<<colPin) == 0 {
			v &^= uint64(1) << rowPin
		}
	}
	return v, nil
}

type recorder struct {
	events []midi.Event
}

func (r *recorder) Send(ev midi.Event) { r.events = append(r.events, ev) }

// Test wiring: rows on pins 0..2, columns on pins 10..14.
var (
	testRowPins = []int{0, 1, 2}
	testColPins = []int{10, 11, 12, 13, 14}
)

func testConfig(km *keymap.Table) Config {
	return Config{
		ColPins:         testColPins,
		RowPins:         testRowPins,
		Keymap:          km,
		Tick:            time.Millisecond,
		DebounceTicks:   2,
		VelocityFloor:   2 * time.Millisecond,
		VelocityCeiling: 30 * time.Millisecond,
		DefaultVelocity: 64,
	}
}

func newTestMatrix(t *testing.T, km *keymap.Table) (*KeyMatrix, *fakeDriver, *recorder) {
	t.Helper()
	d := newFakeDriver()
	rec := &recorder{}
	m, err := New(testConfig(km), d, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, d, rec
}

// stepper drives the scan loop on a deterministic clock, one tick per
// millisecond.
type stepper struct {
	m   *KeyMatrix
	now time.Duration
}

func (s *stepper) run(n int) {
	for i := 0; i < n; i++ {
		s.now += time.Millisecond
		s.m.tick(s.now)
	}
}

func wantEvents(t *testing.T, rec *recorder, want ...midi.Event) {
	t.Helper()
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	}
}

func TestPressReleaseWithVelocity(t *testing.T) {
	var km keymap.Table
	km[2][3] = keymap.N1(60)
	km[2][4] = keymap.N2(60)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(2, 13) // half press
	s.run(2)       // debounced at 2ms
	wantEvents(t, rec)

	s.run(6)       // key travels
	d.press(2, 14) // bottoms out
	s.run(2)       // debounced at 10ms, 8ms after the half press

	wantEvents(t, rec, midi.NoteOnEvent(60, 100))

	d.release(2, 14)
	s.run(2)
	d.release(2, 13)
	s.run(2)

	wantEvents(t, rec, midi.NoteOnEvent(60, 100), midi.NoteOffEvent(60))
}

func TestAbandonedHalfPress(t *testing.T) {
	var km keymap.Table
	km[2][3] = keymap.N1(60)
	km[2][4] = keymap.N2(60)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(2, 13)
	s.run(2)
	d.release(2, 13)
	s.run(2)

	wantEvents(t, rec)
	if m.records[60].valid {
		t.Error("timing record survived the abandoned press")
	}
}

func TestFullPressWithoutHalf(t *testing.T) {
	var km keymap.Table
	km[2][3] = keymap.N1(60)
	km[2][4] = keymap.N2(60)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(2, 14)
	s.run(2)
	d.release(2, 14)
	s.run(2)

	wantEvents(t, rec, midi.NoteOnEvent(60, 64), midi.NoteOffEvent(60))
}

func TestRepeatedHalfPressKeepsLatest(t *testing.T) {
	var km keymap.Table
	km[2][3] = keymap.N1(60)
	km[2][4] = keymap.N2(60)
	m, _, rec := newTestMatrix(t, &km)

	m.keyDown(keymap.N1(60), 0)
	m.keyDown(keymap.N1(60), 50*time.Millisecond)
	m.keyDown(keymap.N2(60), 58*time.Millisecond)

	wantEvents(t, rec, midi.NoteOnEvent(60, 100))
}

func TestGlitchRejected(t *testing.T) {
	var km keymap.Table
	km[2][4] = keymap.N2(60)
	km[2][3] = keymap.N1(60)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	// One closed tick, then open again.
	d.press(2, 14)
	s.run(1)
	d.release(2, 14)
	s.run(3)

	wantEvents(t, rec)
	if m.contacts[2][4].closed {
		t.Error("single-tick glitch flipped the contact")
	}
}

func TestBounceOnReleaseHolds(t *testing.T) {
	var km keymap.Table
	km[2][3] = keymap.N1(60)
	km[2][4] = keymap.N2(60)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(2, 14)
	s.run(2)
	wantEvents(t, rec, midi.NoteOnEvent(60, 64))

	// Contact bounces open for a single tick.
	d.release(2, 14)
	s.run(1)
	d.press(2, 14)
	s.run(3)

	wantEvents(t, rec, midi.NoteOnEvent(60, 64))
}

func TestBusFaultHoldsState(t *testing.T) {
	var km keymap.Table
	km[2][3] = keymap.N1(60)
	km[2][4] = keymap.N2(60)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(2, 14)
	s.run(2)
	wantEvents(t, rec, midi.NoteOnEvent(60, 64))

	// One failed pass reads all-open but must not release the note.
	d.fail = true
	s.run(1)
	if m.faultStreak != 1 {
		t.Errorf("fault streak = %d after one failed pass, want 1", m.faultStreak)
	}
	d.fail = false
	s.run(2)
	wantEvents(t, rec, midi.NoteOnEvent(60, 64))
	if m.faultStreak != 0 {
		t.Errorf("fault streak = %d after recovery, want 0", m.faultStreak)
	}

	// A sustained fault is indistinguishable from a real release.
	d.fail = true
	s.run(2)
	wantEvents(t, rec, midi.NoteOnEvent(60, 64), midi.NoteOffEvent(60))
}

func TestOnOffAlternate(t *testing.T) {
	var km keymap.Table
	m, _, rec := newTestMatrix(t, &km)

	m.noteOn(60, 80)
	m.noteOn(60, 90)
	m.noteOff(60)
	m.noteOff(60)

	wantEvents(t, rec, midi.NoteOnEvent(60, 80), midi.NoteOffEvent(60))
}

func TestFixedVelocityKey(t *testing.T) {
	var km keymap.Table
	km[0][0] = keymap.N(72, 80)
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(0, 10)
	s.run(2)
	d.release(0, 10)
	s.run(2)

	wantEvents(t, rec, midi.NoteOnEvent(72, 80), midi.NoteOffEvent(72))
}

func TestUnmappedCoordinateIgnored(t *testing.T) {
	var km keymap.Table
	m, d, rec := newTestMatrix(t, &km)
	s := &stepper{m: m}

	d.press(1, 12)
	s.run(4)
	d.release(1, 12)
	s.run(4)

	wantEvents(t, rec)
}

func TestSetupParksPins(t *testing.T) {
	var km keymap.Table
	m, d, _ := newTestMatrix(t, &km)

	if err := m.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	for _, pin := range append(append([]int{}, testRowPins...), testColPins...) {
		if out, ok := d.out[pin]; !ok || out {
			t.Errorf("pin %d not parked as input", pin)
		}
	}
	if d.latch != 0 {
		t.Errorf("latch = %#x, want 0", d.latch)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	var km keymap.Table
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"nil keymap", func(c *Config) { c.Keymap = nil }},
		{"no columns", func(c *Config) { c.ColPins = nil }},
		{"duplicate pin", func(c *Config) { c.RowPins = []int{0, 0, 2} }},
		{"row doubles as column", func(c *Config) { c.RowPins = []int{10, 1, 2} }},
		{"pin out of range", func(c *Config) { c.RowPins = []int{0, 1, 40} }},
		{"zero tick", func(c *Config) { c.Tick = 0 }},
		{"zero debounce", func(c *Config) { c.DebounceTicks = 0 }},
		{"floor above ceiling", func(c *Config) { c.VelocityFloor = time.Second }},
		{"zero default velocity", func(c *Config) { c.DefaultVelocity = 0 }},
	}
	for _, c := range cases {
		cfg := testConfig(&km)
		c.mod(&cfg)
		if _, err := New(cfg, newFakeDriver(), &recorder{}); err == nil {
			t.Errorf("%s: New accepted a bad config", c.name)
		}
	}
}
