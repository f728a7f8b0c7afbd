package osc

import (
	"bytes"

	"github.com/Lobaro/slip"
)

// SLIP byte values, per RFC 1055 as used by OSC-over-TCP tooling.
const (
	slipEnd    = 0xC0
	slipEsc    = 0xDB
	slipEscEnd = 0xDC
	slipEscEsc = 0xDD
)

// SLIPFrame frames payload for SLIP transmission: an END byte, the
// payload with END/ESC byte-stuffed, then a trailing END byte. Encoding
// delegates to github.com/Lobaro/slip, the same library the reference TCP
// client/server use for their wire encoding.
func SLIPFrame(payload []byte) []byte {
	var buf bytes.Buffer
	w := slip.NewWriter(&buf)
	// Lobaro/slip's Writer cannot fail writing into a bytes.Buffer.
	_ = w.WritePacket(payload)
	return buf.Bytes()
}

// SLIPDeframer incrementally deframes a SLIP byte stream. Its state is a
// single partial-payload buffer and a one-bit "in escape" flag; it is
// push-based so it can be fed arbitrary chunk splits, which
// github.com/Lobaro/slip's io.Reader-based Reader cannot. It is safe for
// use by a single writer goroutine at a time; serializing concurrent
// access is the caller's responsibility.
type SLIPDeframer struct {
	partial  []byte
	inEscape bool
}

// NewSLIPDeframer returns an empty SLIPDeframer.
func NewSLIPDeframer() *SLIPDeframer {
	return &SLIPDeframer{}
}

// Feed processes each byte of chunk and returns every complete packet
// produced, in order. Empty frames between END bytes (leading or trailing
// END runs) are ignored, which lets peers flush line noise with a leading
// END.
func (d *SLIPDeframer) Feed(chunk []byte) [][]byte {
	var packets [][]byte

	for _, b := range chunk {
		if d.inEscape {
			switch b {
			case slipEscEnd:
				d.partial = append(d.partial, slipEnd)
			case slipEscEsc:
				d.partial = append(d.partial, slipEsc)
			default:
				d.partial = append(d.partial, b)
			}
			d.inEscape = false
			continue
		}

		switch b {
		case slipEnd:
			if len(d.partial) > 0 {
				packets = append(packets, d.partial)
				d.partial = nil
			}
		case slipEsc:
			d.inEscape = true
		default:
			d.partial = append(d.partial, b)
		}
	}

	return packets
}
