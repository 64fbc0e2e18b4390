// Package pins merges two MCP23017 port expanders and the board's own GPIO
// lines into one flat, transparently addressed pin space for the key-matrix
// scanner.
package pins

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

const (
	pinsPerExpander   = 16
	numExpanders      = 2
	usablePerExpander = pinsPerExpander - 2
	usableExpanderPin = numExpanders * usablePerExpander

	// NumBoardPins is the number of GPIO lines driven directly by the board.
	NumBoardPins = 12
	// NumPins is the size of the transparent address space.
	NumPins = usableExpanderPin + NumBoardPins
)

// ErrInvalidPin reports a pin outside the transparent address space.
var ErrInvalidPin = errors.New("invalid pin")

// Driver is the pin interface the scanner and diagnostic tools run against.
// TransparentPins implements it on real hardware.
type Driver interface {
	// NumPins is the number of addressable pins. ReadAll and WriteAll
	// use one bit per pin, pin 0 in the least significant position.
	NumPins() int
	// SetInput makes a pin a pull-up input.
	SetInput(pin int) error
	// SetOutput makes a pin an output driving its latched level.
	SetOutput(pin int) error
	// WriteAll latches output levels for every pin at once.
	WriteAll(levels uint64) error
	// ReadAll snapshots the level of every pin. On a bus fault the
	// affected expander's lines read as idle high (all contacts open)
	// and the error is returned alongside the snapshot.
	ReadAll() (uint64, error)
}

// TransparentPins is one addressing scheme over all the pins the firmware
// owns: expander A is pins 0-13, expander B is 14-27, then the board lines.
// GPA7 and GPB7 on each expander are left out of the space: the chip can
// misbehave when they are inputs, so they are pinned as outputs and never
// addressed. Which physical pin an address lands on is not supposed to
// matter; the keymap records whatever the wiring turned out to be.
type TransparentPins struct {
	mu       sync.Mutex
	exps     [numExpanders]*MCP23017
	board    [NumBoardPins]gpio.PinIO
	boardOut [NumBoardPins]bool
	latch    uint64
}

var _ Driver = (*TransparentPins)(nil)

// New initializes both expanders on bus and adopts the board lines.
// All expander pins come up as inputs except GPA7/GPB7.
func New(bus i2c.Bus, addrA, addrB uint16, board [NumBoardPins]gpio.PinIO) (*TransparentPins, error) {
	t := &TransparentPins{board: board}
	for i, addr := range []uint16{addrA, addrB} {
		m, err := NewMCP23017(bus, addr)
		if err != nil {
			return nil, err
		}
		// Park the unusable pins as outputs.
		if err := m.SetPinDir(7, false); err != nil {
			return nil, err
		}
		if err := m.SetPinDir(15, false); err != nil {
			return nil, err
		}
		t.exps[i] = m
	}
	for i, p := range board {
		if p == nil {
			return nil, errors.Errorf("board pin %d is nil", i)
		}
	}
	return t, nil
}

// pinRef locates a transparent pin on its backing hardware.
type pinRef struct {
	exp   int // expander index, or -1 for a board pin
	loc   uint8
	board int
}

func resolve(pin int) (pinRef, error) {
	if pin < 0 || pin >= NumPins {
		return pinRef{}, errors.Wrapf(ErrInvalidPin, "pin %d", pin)
	}
	if pin < usableExpanderPin {
		loc := uint8(pin % usablePerExpander)
		if loc >= 7 {
			loc++ // hop over GPA7
		}
		return pinRef{exp: pin / usablePerExpander, loc: loc, board: -1}, nil
	}
	return pinRef{exp: -1, board: pin - usableExpanderPin}, nil
}

// NumPins returns the size of the transparent address space.
func (t *TransparentPins) NumPins() int { return NumPins }

// SetInput makes a pin a pull-up input.
func (t *TransparentPins) SetInput(pin int) error {
	ref, err := resolve(pin)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ref.exp >= 0 {
		m := t.exps[ref.exp]
		if err := m.SetPinDir(ref.loc, true); err != nil {
			return err
		}
		return m.SetPullUp(ref.loc, true)
	}
	t.boardOut[ref.board] = false
	return t.board[ref.board].In(gpio.PullUp, gpio.NoEdge)
}

// SetOutput makes a pin an output driving its latched level.
func (t *TransparentPins) SetOutput(pin int) error {
	ref, err := resolve(pin)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ref.exp >= 0 {
		return t.exps[ref.exp].SetPinDir(ref.loc, false)
	}
	t.boardOut[ref.board] = true
	return t.board[ref.board].Out(t.latchLevel(pin))
}

// SetPull enables or disables the pull-up on an input pin. SetInput
// already enables it; this is for tools that want a floating input.
func (t *TransparentPins) SetPull(pin int, up bool) error {
	ref, err := resolve(pin)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ref.exp >= 0 {
		return t.exps[ref.exp].SetPullUp(ref.loc, up)
	}
	pull := gpio.PullUp
	if !up {
		pull = gpio.Float
	}
	t.boardOut[ref.board] = false
	return t.board[ref.board].In(pull, gpio.NoEdge)
}

func (t *TransparentPins) latchLevel(pin int) gpio.Level {
	return t.latch&(uint64(1)<<pin) != 0
}

// Write latches the level of one pin. Pins in input mode take the level
// when later switched to output.
func (t *TransparentPins) Write(pin int, level gpio.Level) error {
	ref, err := resolve(pin)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if level {
		t.latch |= uint64(1) << pin
	} else {
		t.latch &^= uint64(1) << pin
	}
	if ref.exp >= 0 {
		v := uint16(t.latch >> (ref.exp * usablePerExpander) & (1<<usablePerExpander - 1))
		raw := v&0x7f | (v>>7&0x7f)<<8
		return t.exps[ref.exp].WriteGPIOAB(raw)
	}
	if !t.boardOut[ref.board] {
		return nil
	}
	return t.board[ref.board].Out(level)
}

// WriteAll latches output levels for every pin from a single value.
// Board pins currently in input mode only store the level; it is applied
// when SetOutput flips them.
func (t *TransparentPins) WriteAll(levels uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latch = levels
	for i, m := range t.exps {
		v := uint16(levels >> (i * usablePerExpander) & (1<<usablePerExpander - 1))
		raw := v&0x7f | (v>>7&0x7f)<<8
		if err := m.WriteGPIOAB(raw); err != nil {
			return err
		}
	}
	for j, p := range t.board {
		if !t.boardOut[j] {
			continue
		}
		if err := p.Out(t.latchLevel(usableExpanderPin + j)); err != nil {
			return errors.Wrapf(err, "board pin %d", j)
		}
	}
	return nil
}

// ReadAll snapshots every pin into a single value, expander A in the low
// bits, then expander B, then the board lines. Each expander is one atomic
// 16-bit bus read. A failed expander read yields idle-high lines for that
// chip and the first such error, without aborting the rest of the snapshot.
func (t *TransparentPins) ReadAll() (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ret uint64
	var firstErr error
	for i, m := range t.exps {
		raw, err := m.ReadGPIOAB()
		if err != nil {
			raw = 0xffff
			if firstErr == nil {
				firstErr = err
			}
		}
		usable := uint64(raw&0x7f) | uint64(raw>>8&0x7f)<<7
		ret |= usable << (i * usablePerExpander)
	}
	for j, p := range t.board {
		if p.Read() == gpio.High {
			ret |= uint64(1) << (usableExpanderPin + j)
		}
	}
	return ret, firstErr
}

// Connection is a pair of pins found to be electrically joined.
type Connection struct {
	GND   int // pin that was strobed low
	Input int // pull-up input pin that followed it
}

// ScanConnections strobes every pin low in turn and reports which input
// pins followed it, to reverse-engineer matrix wiring one pressed key at a
// time. settle is a pause between strobing a pin and sampling, giving the
// lines time to settle through the pull-ups.
func ScanConnections(d Driver, settle time.Duration) ([]Connection, error) {
	n := d.NumPins()
	for pin := 0; pin < n; pin++ {
		if err := d.SetInput(pin); err != nil {
			return nil, err
		}
	}
	// Any pin strobed to output goes active low.
	if err := d.WriteAll(0); err != nil {
		return nil, err
	}

	var conns []Connection
	for gnd := 0; gnd < n; gnd++ {
		if err := d.SetOutput(gnd); err != nil {
			return nil, err
		}
		if settle > 0 {
			time.Sleep(settle)
		}
		input, err := d.ReadAll()
		if err != nil {
			return nil, err
		}
		if err := d.SetInput(gnd); err != nil {
			return nil, err
		}
		// Bits that differ from the idle pull-up pattern.
		mask := input ^ (uint64(1)<<n - 1 ^ uint64(1)<<gnd)
		for in := 0; in < n; in++ {
			if mask&(uint64(1)<<in) != 0 {
				conns = append(conns, Connection{GND: gnd, Input: in})
			}
		}
	}
	return conns, nil
}
