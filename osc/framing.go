package osc

// Framing selects which TCP stream framer a TCPClient or TCPServer uses
// to delimit message boundaries.
type Framing int

const (
	// FramingPLH frames with a 4-byte big-endian length prefix.
	FramingPLH Framing = iota
	// FramingSLIP frames with END/ESC byte stuffing.
	FramingSLIP
)

// frame encodes payload according to f.
func (f Framing) frame(payload []byte) []byte {
	switch f {
	case FramingSLIP:
		return SLIPFrame(payload)
	default:
		return PLHFrame(payload)
	}
}

// deframer is implemented by both *PLHDeframer and *SLIPDeframer.
type deframer interface {
	Feed(chunk []byte) [][]byte
}

// newDeframer returns a fresh deframer for f.
func (f Framing) newDeframer() deframer {
	switch f {
	case FramingSLIP:
		return NewSLIPDeframer()
	default:
		return NewPLHDeframer()
	}
}
