package pins

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
)

// MCP23017 register addresses with IOCON.BANK=0 (paired A/B) layout.
const (
	regIODIRA   = 0x00
	regIODIRB   = 0x01
	regIPOLA    = 0x02
	regIPOLB    = 0x03
	regGPINTENA = 0x04
	regGPINTENB = 0x05
	regDEFVALA  = 0x06
	regDEFVALB  = 0x07
	regINTCONA  = 0x08
	regINTCONB  = 0x09
	regIOCON    = 0x0a
	regGPPUA    = 0x0c
	regGPPUB    = 0x0d
	regINTFA    = 0x0e
	regINTFB    = 0x0f
	regINTCAPA  = 0x10
	regINTCAPB  = 0x11
	regGPIOA    = 0x12
	regGPIOB    = 0x13
	regOLATA    = 0x14
	regOLATB    = 0x15
)

// MCP23017 drives one 16-bit I2C port expander. Pins are numbered GPA0-7
// (0-7) then GPB0-7 (8-15). Direction, pull-up and latch registers are
// cached so repeated pin-mode flips cost at most one bus write each.
type MCP23017 struct {
	dev   i2c.Dev
	iodir uint16 // 1 = input
	gppu  uint16 // 1 = pull-up enabled
	olat  uint16
}

// NewMCP23017 initializes the expander at addr: every line an input,
// pull-ups off, output latch low.
func NewMCP23017(bus i2c.Bus, addr uint16) (*MCP23017, error) {
	if addr < 0x20 || addr > 0x27 {
		return nil, errors.Errorf("mcp23017: address %#x outside 0x20-0x27", addr)
	}
	m := &MCP23017{
		dev:   i2c.Dev{Bus: bus, Addr: addr},
		iodir: 0xffff,
	}
	if err := m.writeReg(regIOCON, 0x00); err != nil {
		return nil, errors.Wrapf(err, "mcp23017 %#x: configure", addr)
	}
	if err := m.writeReg16(regIODIRA, m.iodir); err != nil {
		return nil, errors.Wrapf(err, "mcp23017 %#x: reset directions", addr)
	}
	if err := m.writeReg16(regGPPUA, m.gppu); err != nil {
		return nil, errors.Wrapf(err, "mcp23017 %#x: reset pull-ups", addr)
	}
	if err := m.writeReg16(regOLATA, m.olat); err != nil {
		return nil, errors.Wrapf(err, "mcp23017 %#x: reset latch", addr)
	}
	return m, nil
}

func (m *MCP23017) writeReg(reg, val uint8) error {
	return m.dev.Tx([]byte{reg, val}, nil)
}

// writeReg16 writes a paired A/B register in one sequential transaction.
func (m *MCP23017) writeReg16(reg uint8, val uint16) error {
	return m.dev.Tx([]byte{reg, uint8(val), uint8(val >> 8)}, nil)
}

// portReg returns the A or B variant of a paired register for pin.
func portReg(reg, pin uint8) uint8 {
	if pin >= 8 {
		return reg + 1
	}
	return reg
}

// SetPinDir configures one pin as input (true) or output (false).
func (m *MCP23017) SetPinDir(pin uint8, input bool) error {
	if pin > 15 {
		return errors.Wrapf(ErrInvalidPin, "mcp23017 %#x: pin %d", m.dev.Addr, pin)
	}
	next := m.iodir &^ (1 << pin)
	if input {
		next = m.iodir | 1<<pin
	}
	if next == m.iodir {
		return nil
	}
	if err := m.writeReg(portReg(regIODIRA, pin), uint8(next>>(pin&8))); err != nil {
		return errors.Wrapf(err, "mcp23017 %#x: set direction of pin %d", m.dev.Addr, pin)
	}
	m.iodir = next
	return nil
}

// SetPullUp enables or disables the internal pull-up on one pin.
// The MCP23017 has no pull-downs.
func (m *MCP23017) SetPullUp(pin uint8, on bool) error {
	if pin > 15 {
		return errors.Wrapf(ErrInvalidPin, "mcp23017 %#x: pin %d", m.dev.Addr, pin)
	}
	next := m.gppu &^ (1 << pin)
	if on {
		next = m.gppu | 1<<pin
	}
	if next == m.gppu {
		return nil
	}
	if err := m.writeReg(portReg(regGPPUA, pin), uint8(next>>(pin&8))); err != nil {
		return errors.Wrapf(err, "mcp23017 %#x: set pull-up of pin %d", m.dev.Addr, pin)
	}
	m.gppu = next
	return nil
}

// ReadGPIOAB reads the level of all 16 pins in one bus transaction.
func (m *MCP23017) ReadGPIOAB() (uint16, error) {
	var buf [2]byte
	if err := m.dev.Tx([]byte{regGPIOA}, buf[:]); err != nil {
		return 0, errors.Wrapf(err, "mcp23017 %#x: read gpio", m.dev.Addr)
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

// WriteGPIOAB sets the output latch for all 16 pins. Pins in input mode
// take the latched level when later switched to output.
func (m *MCP23017) WriteGPIOAB(val uint16) error {
	if val == m.olat {
		return nil
	}
	if err := m.writeReg16(regOLATA, val); err != nil {
		return errors.Wrapf(err, "mcp23017 %#x: write latch", m.dev.Addr)
	}
	m.olat = val
	return nil
}
