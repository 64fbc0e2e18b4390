package keymap

import "fmt"

// Note is a MIDI note number.
type Note uint8

// Note numbers covering the 88-key piano range and a bit above it.
const (
	A0  Note = 21
	AS0 Note = 22
	B0  Note = 23
	C1  Note = 24
	CS1 Note = 25
	D1  Note = 26
	DS1 Note = 27
	E1  Note = 28
	F1  Note = 29
	FS1 Note = 30
	G1  Note = 31
	GS1 Note = 32
	A1  Note = 33
	AS1 Note = 34
	B1  Note = 35
	C2  Note = 36
	CS2 Note = 37
	D2  Note = 38
	DS2 Note = 39
	E2  Note = 40
	F2  Note = 41
	FS2 Note = 42
	G2  Note = 43
	GS2 Note = 44
	A2  Note = 45
	AS2 Note = 46
	B2  Note = 47
	C3  Note = 48
	CS3 Note = 49
	D3  Note = 50
	DS3 Note = 51
	E3  Note = 52
	F3  Note = 53
	FS3 Note = 54
	G3  Note = 55
	GS3 Note = 56
	A3  Note = 57
	AS3 Note = 58
	B3  Note = 59
	C4  Note = 60
	CS4 Note = 61
	D4  Note = 62
	DS4 Note = 63
	E4  Note = 64
	F4  Note = 65
	FS4 Note = 66
	G4  Note = 67
	GS4 Note = 68
	A4  Note = 69
	AS4 Note = 70
	B4  Note = 71
	C5  Note = 72
	CS5 Note = 73
	D5  Note = 74
	DS5 Note = 75
	E5  Note = 76
	F5  Note = 77
	FS5 Note = 78
	G5  Note = 79
	GS5 Note = 80
	A5  Note = 81
	AS5 Note = 82
	B5  Note = 83
	C6  Note = 84
	CS6 Note = 85
	D6  Note = 86
	DS6 Note = 87
	E6  Note = 88
	F6  Note = 89
	FS6 Note = 90
	G6  Note = 91
	GS6 Note = 92
	A6  Note = 93
	AS6 Note = 94
	B6  Note = 95
	C7  Note = 96
	CS7 Note = 97
	D7  Note = 98
	DS7 Note = 99
	E7  Note = 100
	F7  Note = 101
	FS7 Note = 102
	G7  Note = 103
	GS7 Note = 104
	A7  Note = 105
	AS7 Note = 106
	B7  Note = 107
	C8  Note = 108
	CS8 Note = 109
	D8  Note = 110
	DS8 Note = 111
	E8  Note = 112
	F8  Note = 113
	FS8 Note = 114
	G8  Note = 115
	GS8 Note = 116
	A8  Note = 117
	AS8 Note = 118
	B8  Note = 119
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// String renders the note in scientific pitch notation, e.g. note 60 is "C4".
func (n Note) String() string {
	return fmt.Sprintf("%s%d", pitchNames[n%12], int(n)/12-1)
}
