// Package keymap maps key-matrix coordinates to the notes they play.
//
// Each 88-key piano key carries two switches at different travel depths: N1
// closes at half-press, N2 closes when the key bottoms out. The scanner times
// the gap between them to derive velocity. A coordinate can also carry a
// single plain switch (N) with a fixed velocity, or nothing at all (NOP).
package keymap

import (
	"fmt"

	"github.com/pkg/errors"
)

// Matrix dimensions of the installed key-bed.
const (
	NumRows = 22
	NumCols = 16
)

// Kind discriminates what the switch at a matrix coordinate does.
type Kind uint8

const (
	// KindNOP marks an unused coordinate.
	KindNOP Kind = iota
	// KindN is a single switch with a fixed velocity.
	KindN
	// KindN1 is the switch first triggered when pressing a key.
	KindN1
	// KindN2 is the switch triggered when the key bottoms out.
	KindN2
)

// KeyAction tells the scanner what a contact at some coordinate means.
// The zero value is a NOP.
type KeyAction struct {
	Kind     Kind
	Note     Note
	Velocity uint8 // fixed velocity, KindN only
}

// NOP is the action for unused matrix coordinates.
var NOP = KeyAction{}

// N1 maps a contact to the half-press switch of note n.
func N1(n Note) KeyAction { return KeyAction{Kind: KindN1, Note: n} }

// N2 maps a contact to the bottom-out switch of note n.
func N2(n Note) KeyAction { return KeyAction{Kind: KindN2, Note: n} }

// N maps a contact to a single-switch key with a fixed velocity.
// Be careful not to mix these with velocity-sensing actions for the same note.
func N(n Note, velocity uint8) KeyAction {
	return KeyAction{Kind: KindN, Note: n, Velocity: velocity}
}

func (a KeyAction) String() string {
	switch a.Kind {
	case KindN:
		return fmt.Sprintf("N(%s, %d)", a.Note, a.Velocity)
	case KindN1:
		return fmt.Sprintf("N1(%s)", a.Note)
	case KindN2:
		return fmt.Sprintf("N2(%s)", a.Note)
	}
	return "NOP"
}

// Table maps every matrix coordinate to its key action. It is indexed
// [row][column]: rows are pull-up input pins, columns are strobed GND pins.
type Table [NumRows][NumCols]KeyAction

// At returns the action at a coordinate, or NOP when out of range.
func (t *Table) At(row, col int) KeyAction {
	if row < 0 || row >= NumRows || col < 0 || col >= NumCols {
		return NOP
	}
	return t[row][col]
}

// Validate checks the wiring invariants of the table: every N1 entry pairs
// with exactly one N2 entry for the same note, no note is mapped both as a
// velocity-sensing and a fixed-velocity key, and no note is mapped twice.
func (t *Table) Validate() error {
	var n1, n2, n [128]uint8
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols; c++ {
			a := t[r][c]
			if a.Kind == KindNOP {
				continue
			}
			if a.Note > 127 {
				return errors.Errorf("row %d col %d: note %d out of range", r, c, a.Note)
			}
			switch a.Kind {
			case KindN1:
				n1[a.Note]++
			case KindN2:
				n2[a.Note]++
			case KindN:
				n[a.Note]++
			}
		}
	}
	for note := 0; note < 128; note++ {
		if n1[note] != n2[note] {
			return errors.Errorf("note %s: %d N1 entries for %d N2 entries", Note(note), n1[note], n2[note])
		}
		if n1[note] > 1 || n[note] > 1 {
			return errors.Errorf("note %s: mapped more than once", Note(note))
		}
		if n[note] > 0 && n1[note] > 0 {
			return errors.Errorf("note %s: mapped both as fixed and velocity-sensing", Note(note))
		}
	}
	return nil
}
