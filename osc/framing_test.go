package osc

import (
	"bytes"
	"testing"
)

func TestPLHFrameRoundTrip(t *testing.T) {
	payload := []byte("hello world")
	framed := PLHFrame(payload)

	d := NewPLHDeframer()
	got := d.Feed(framed)
	if len(got) != 1 || !bytes.Equal(got[0], payload) {
		t.Errorf("Feed() = %v, want single payload %v", got, payload)
	}
}

func TestPLHDeframerArbitraryChunking(t *testing.T) {
	payloads := [][]byte{[]byte("first"), []byte("second message"), []byte("3")}
	var stream []byte
	for _, p := range payloads {
		stream = append(stream, PLHFrame(p)...)
	}

	for chunkSize := 1; chunkSize <= len(stream); chunkSize++ {
		d := NewPLHDeframer()
		var got [][]byte
		for i := 0; i < len(stream); i += chunkSize {
			end := i + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, d.Feed(stream[i:end])...)
		}
		if len(got) != len(payloads) {
			t.Fatalf("chunkSize=%d: got %d payloads, want %d", chunkSize, len(got), len(payloads))
		}
		for i := range payloads {
			if !bytes.Equal(got[i], payloads[i]) {
				t.Errorf("chunkSize=%d: payload %d = %v, want %v", chunkSize, i, got[i], payloads[i])
			}
		}
	}
}

func TestPLHDeframerZeroLengthNeverStarves(t *testing.T) {
	d := NewPLHDeframer()
	got := d.Feed([]byte{0, 0, 0, 0})
	if len(got) != 0 {
		t.Errorf("Feed() with zero-length header = %v, want no packets", got)
	}

	// Appending a real frame afterwards must still work; a zero length
	// must never wedge the deframer.
	got = d.Feed(PLHFrame([]byte("x")))
	if len(got) != 1 || string(got[0]) != "x" {
		t.Errorf("Feed() after zero-length header = %v, want [x]", got)
	}
}

func TestSLIPFrameRoundTrip(t *testing.T) {
	payload := []byte{0x01, slipEnd, 0x02, slipEsc, 0x03}
	framed := SLIPFrame(payload)

	d := NewSLIPDeframer()
	got := d.Feed(framed)
	if len(got) != 1 || !bytes.Equal(got[0], payload) {
		t.Errorf("Feed() = %v, want single payload %v", got, payload)
	}
}

func TestSLIPDeframerArbitraryChunking(t *testing.T) {
	payloads := [][]byte{
		[]byte("plain"),
		{0x01, slipEnd, 0x02, slipEsc, 0x03},
		[]byte("last"),
	}
	var stream []byte
	for _, p := range payloads {
		stream = append(stream, SLIPFrame(p)...)
	}

	for chunkSize := 1; chunkSize <= len(stream); chunkSize++ {
		d := NewSLIPDeframer()
		var got [][]byte
		for i := 0; i < len(stream); i += chunkSize {
			end := i + chunkSize
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, d.Feed(stream[i:end])...)
		}
		if len(got) != len(payloads) {
			t.Fatalf("chunkSize=%d: got %d payloads, want %d", chunkSize, len(got), len(payloads))
		}
		for i := range payloads {
			if !bytes.Equal(got[i], payloads[i]) {
				t.Errorf("chunkSize=%d: payload %d = %v, want %v", chunkSize, i, got[i], payloads[i])
			}
		}
	}
}

func TestSLIPDeframerIgnoresEmptyFrames(t *testing.T) {
	d := NewSLIPDeframer()
	// A leading run of END bytes (line noise) followed by one real frame.
	stream := append([]byte{slipEnd, slipEnd, slipEnd}, SLIPFrame([]byte("x"))...)

	got := d.Feed(stream)
	if len(got) != 1 || string(got[0]) != "x" {
		t.Errorf("Feed() = %v, want [x]", got)
	}
}

func TestFramingDispatch(t *testing.T) {
	for _, f := range []Framing{FramingPLH, FramingSLIP} {
		payload := []byte("/addr")
		framed := f.frame(payload)
		df := f.newDeframer()
		got := df.Feed(framed)
		if len(got) != 1 || !bytes.Equal(got[0], payload) {
			t.Errorf("Framing(%v): Feed() = %v, want single payload %v", f, got, payload)
		}
	}
}
