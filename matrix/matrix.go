// Package matrix scans the two-level key switch matrix and turns
// debounced contact changes into note events with velocity.
package matrix

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/dogeystamp/geode-piano/keymap"
	"github.com/dogeystamp/geode-piano/midi"
	"github.com/dogeystamp/geode-piano/pins"
)

// Sink consumes events in the order the scan loop produces them.
type Sink interface {
	Send(ev midi.Event)
}

// Config holds the per-installation scan constants.
type Config struct {
	// ColPins and RowPins give the transparent pin number for each
	// matrix column and row, indexed like the keymap table.
	ColPins []int
	RowPins []int
	Keymap  *keymap.Table

	// Tick is the period of one full matrix pass.
	Tick time.Duration
	// DebounceTicks is how many consecutive passes must agree before
	// a contact change is accepted.
	DebounceTicks int

	// VelocityFloor and VelocityCeiling clamp the half-press to
	// full-press travel time fed into the velocity curve.
	VelocityFloor   time.Duration
	VelocityCeiling time.Duration
	// DefaultVelocity is used when the full-press contact registers
	// without a timed half-press.
	DefaultVelocity uint8
}

// contact is the debounce state of one switch.
type contact struct {
	closed bool
	count  int
}

// timingRecord holds the instant a key's half-press contact closed,
// waiting for the full press.
type timingRecord struct {
	valid bool
	at    time.Duration
}

// KeyMatrix owns all per-contact and per-note state. Everything is
// fixed size and mutated only from the scan loop, so the hot path
// never allocates and never locks.
type KeyMatrix struct {
	cfg  Config
	drv  pins.Driver
	sink Sink

	contacts    [keymap.NumRows][keymap.NumCols]contact
	records     [128]timingRecord
	active      [128]bool
	start       time.Time
	faultStreak int
}

// New checks cfg against the driver and keymap dimensions.
func New(cfg Config, drv pins.Driver, sink Sink) (*KeyMatrix, error) {
	if cfg.Keymap == nil {
		return nil, errors.New("matrix: nil keymap")
	}
	if len(cfg.ColPins) == 0 || len(cfg.ColPins) > keymap.NumCols {
		return nil, errors.Errorf("matrix: %d column pins, want 1 to %d", len(cfg.ColPins), keymap.NumCols)
	}
	if len(cfg.RowPins) == 0 || len(cfg.RowPins) > keymap.NumRows {
		return nil, errors.Errorf("matrix: %d row pins, want 1 to %d", len(cfg.RowPins), keymap.NumRows)
	}
	seen := make(map[int]bool)
	for _, pin := range append(append([]int{}, cfg.ColPins...), cfg.RowPins...) {
		if pin < 0 || pin >= drv.NumPins() {
			return nil, errors.Wrapf(pins.ErrInvalidPin, "matrix: pin %d", pin)
		}
		if seen[pin] {
			return nil, errors.Errorf("matrix: pin %d wired to two lines", pin)
		}
		seen[pin] = true
	}
	if cfg.Tick <= 0 {
		return nil, errors.New("matrix: tick period must be positive")
	}
	if cfg.DebounceTicks < 1 {
		return nil, errors.New("matrix: debounce ticks must be at least 1")
	}
	if cfg.VelocityFloor >= cfg.VelocityCeiling {
		return nil, errors.New("matrix: velocity floor must be below ceiling")
	}
	if cfg.DefaultVelocity < 1 || cfg.DefaultVelocity > 127 {
		return nil, errors.Errorf("matrix: default velocity %d out of range", cfg.DefaultVelocity)
	}
	return &KeyMatrix{cfg: cfg, drv: drv, sink: sink}, nil
}

// Run scans the matrix until ctx is done. Blocking, run last in main.
func (m *KeyMatrix) Run(ctx context.Context) error {
	if err := m.setup(); err != nil {
		return err
	}
	slog.Info("matrix scanning",
		"rows", len(m.cfg.RowPins), "cols", len(m.cfg.ColPins), "tick", m.cfg.Tick)

	ticker := time.NewTicker(m.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.tick(time.Since(m.start))
		}
	}
}

// setup parks every matrix line as a pulled-up input and clears the
// output latch so a strobed column drives low.
func (m *KeyMatrix) setup() error {
	for _, pin := range m.cfg.RowPins {
		if err := m.drv.SetInput(pin); err != nil {
			return errors.Wrapf(err, "row pin %d", pin)
		}
	}
	for _, pin := range m.cfg.ColPins {
		if err := m.drv.SetInput(pin); err != nil {
			return errors.Wrapf(err, "column pin %d", pin)
		}
	}
	if err := m.drv.WriteAll(0); err != nil {
		return errors.Wrap(err, "clear latch")
	}
	m.start = time.Now()
	return nil
}

// tick strobes each column in turn and feeds every row sample through
// the debouncer. A failed strobe or read yields idle-high samples for
// that column, so a transient bus fault can never fake a key press.
func (m *KeyMatrix) tick(now time.Duration) {
	var faultErr error
	fault := func(err error) {
		if faultErr == nil {
			faultErr = err
		}
	}
	for ci, colPin := range m.cfg.ColPins {
		input := ^uint64(0)
		if err := m.drv.SetOutput(colPin); err != nil {
			fault(errors.Wrapf(err, "strobe pin %d", colPin))
		} else {
			v, err := m.drv.ReadAll()
			if err != nil {
				fault(err)
			}
			input = v
			if err := m.drv.SetInput(colPin); err != nil {
				fault(errors.Wrapf(err, "release pin %d", colPin))
			}
		}
		for ri, rowPin := range m.cfg.RowPins {
			closed := input&(uint64(1)<<rowPin) == 0
			m.observe(ri, ci, closed, now)
		}
	}
	m.logFaults(faultErr)
}

// logFaults reports the edges of a bus fault streak, not every
// faulted tick.
func (m *KeyMatrix) logFaults(err error) {
	switch {
	case err != nil && m.faultStreak == 0:
		slog.Warn("matrix bus fault, holding key state", "err", err)
		m.faultStreak = 1
	case err != nil:
		m.faultStreak++
	case m.faultStreak > 0:
		slog.Info("matrix bus recovered", "ticks", m.faultStreak)
		m.faultStreak = 0
	}
}

// observe runs the hysteresis counter for one contact and dispatches
// the key protocol once a change sticks.
func (m *KeyMatrix) observe(row, col int, raw bool, now time.Duration) {
	c := &m.contacts[row][col]
	if raw == c.closed {
		c.count = 0
		return
	}
	c.count++
	if c.count < m.cfg.DebounceTicks {
		return
	}
	c.closed = raw
	c.count = 0

	act := m.cfg.Keymap.At(row, col)
	if raw {
		m.keyDown(act, now)
	} else {
		m.keyUp(act)
	}
}

func (m *KeyMatrix) keyDown(act keymap.KeyAction, now time.Duration) {
	if act.Note > 127 {
		return
	}
	switch act.Kind {
	case keymap.KindN1:
		// Most recent half-press wins.
		m.records[act.Note] = timingRecord{valid: true, at: now}
	case keymap.KindN2:
		vel := m.cfg.DefaultVelocity
		if rec := &m.records[act.Note]; rec.valid {
			vel = Velocity(now-rec.at, m.cfg.VelocityFloor, m.cfg.VelocityCeiling)
			rec.valid = false
		}
		m.noteOn(act.Note, vel)
	case keymap.KindN:
		m.noteOn(act.Note, act.Velocity)
	}
}

func (m *KeyMatrix) keyUp(act keymap.KeyAction) {
	if act.Note > 127 {
		return
	}
	switch act.Kind {
	case keymap.KindN1:
		// Abandoned half-press, no event.
		m.records[act.Note].valid = false
	case keymap.KindN2, keymap.KindN:
		m.noteOff(act.Note)
	}
}

// noteOn and noteOff keep On and Off strictly alternating per note.

func (m *KeyMatrix) noteOn(note keymap.Note, vel uint8) {
	if m.active[note] {
		return
	}
	m.active[note] = true
	m.sink.Send(midi.NoteOnEvent(uint8(note), vel))
	slog.Debug("note on", "note", note, "velocity", vel)
}

func (m *KeyMatrix) noteOff(note keymap.Note) {
	if !m.active[note] {
		return
	}
	m.active[note] = false
	m.sink.Send(midi.NoteOffEvent(uint8(note)))
	slog.Debug("note off", "note", note)
}
