package osc

import "math"

// Symbol is an OSC 'S' argument: wire-identical to a string but tagged
// distinctly so encode/decode round trips preserve which of 's'/'S' was
// used.
type Symbol string

// Impulse is the OSC 'I' argument: a no-payload marker, sometimes called
// "bang".
type Impulse struct{}

// Char is a single ASCII character argument ('c'), transmitted as 4 bytes
// with the value in the lowest byte.
type Char rune

// Color is the OSC 'r' argument: four bytes, red/green/blue/alpha.
type Color struct {
	R, G, B, A uint8
}

// MIDI is the OSC 'm' argument: four bytes, port/status/data1/data2.
type MIDI struct {
	Port, Status, Data1, Data2 byte
}

// Int converts a platform integer to the argument type OSC's wire format
// requires: int32 if n fits in 32 bits, int64 otherwise.
func Int(n int) any {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return int32(n)
	}
	return int64(n)
}
