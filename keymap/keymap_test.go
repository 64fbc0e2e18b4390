package keymap

import "testing"

func TestGrandValidates(t *testing.T) {
	km := Grand()
	if err := km.Validate(); err != nil {
		t.Fatalf("installed keymap invalid: %v", err)
	}

	var n1, n2 int
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols; c++ {
			switch km[r][c].Kind {
			case KindN1:
				n1++
			case KindN2:
				n2++
			}
		}
	}
	if n1 != 88 || n2 != 88 {
		t.Errorf("installed keymap has %d N1 and %d N2 entries, want 88 each", n1, n2)
	}
}

func TestGrandPinLists(t *testing.T) {
	if len(GrandColPins) != NumCols {
		t.Errorf("GrandColPins has %d entries, want %d", len(GrandColPins), NumCols)
	}
	if len(GrandRowPins) != NumRows {
		t.Errorf("GrandRowPins has %d entries, want %d", len(GrandRowPins), NumRows)
	}
}

func TestValidateUnpaired(t *testing.T) {
	var km Table
	km[0][0] = N1(C4)
	if err := km.Validate(); err == nil {
		t.Error("N1 without matching N2 should not validate")
	}
	km[1][0] = N2(C4)
	if err := km.Validate(); err != nil {
		t.Errorf("paired N1/N2 should validate: %v", err)
	}
}

func TestValidateDoubleMapped(t *testing.T) {
	var km Table
	km[0][0] = N1(C4)
	km[1][0] = N2(C4)
	km[2][0] = N1(C4)
	km[3][0] = N2(C4)
	if err := km.Validate(); err == nil {
		t.Error("note mapped twice should not validate")
	}
}

func TestValidateMixedKinds(t *testing.T) {
	var km Table
	km[0][0] = N1(C4)
	km[1][0] = N2(C4)
	km[2][0] = N(C4, 64)
	if err := km.Validate(); err == nil {
		t.Error("note mapped both as N and N1/N2 should not validate")
	}
}

func TestAt(t *testing.T) {
	var km Table
	km[2][3] = N1(C4)

	if got := km.At(2, 3); got != N1(C4) {
		t.Errorf("At(2, 3) = %v, want N1(C4)", got)
	}
	if got := km.At(0, 0); got != NOP {
		t.Errorf("At(0, 0) = %v, want NOP", got)
	}
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {NumRows, 0}, {0, NumCols}} {
		if got := km.At(rc[0], rc[1]); got != NOP {
			t.Errorf("At(%d, %d) = %v, want NOP", rc[0], rc[1], got)
		}
	}
}

func TestNoteString(t *testing.T) {
	cases := []struct {
		note Note
		want string
	}{
		{A0, "A0"},
		{AS0, "A#0"},
		{C4, "C4"},
		{CS4, "C#4"},
		{B8, "B8"},
		{Note(60), "C4"},
	}
	for _, c := range cases {
		if got := c.note.String(); got != c.want {
			t.Errorf("Note(%d).String() = %q, want %q", uint8(c.note), got, c.want)
		}
	}
}

func TestActionString(t *testing.T) {
	cases := []struct {
		action KeyAction
		want   string
	}{
		{NOP, "NOP"},
		{N1(A0), "N1(A0)"},
		{N2(GS5), "N2(G#5)"},
		{N(C4, 64), "N(C4, 64)"},
	}
	for _, c := range cases {
		if got := c.action.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
