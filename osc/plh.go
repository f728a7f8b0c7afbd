package osc

import "encoding/binary"

// PLHFrame frames payload for Packet Length Header transmission: a 4-byte
// big-endian unsigned length followed by payload bytes.
func PLHFrame(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[4:], payload)
	return out
}

// PLHDeframer incrementally deframes a PLH byte stream. It is safe for
// use by a single writer goroutine at a time; serializing concurrent
// access is the caller's responsibility.
type PLHDeframer struct {
	buf []byte
}

// NewPLHDeframer returns an empty PLHDeframer.
func NewPLHDeframer() *PLHDeframer {
	return &PLHDeframer{}
}

// Feed appends chunk to the internal buffer and drains every complete
// frame it can, returning them in arrival order. It never discards a
// partial frame.
func (d *PLHDeframer) Feed(chunk []byte) [][]byte {
	d.buf = append(d.buf, chunk...)

	var packets [][]byte
	for {
		payload, ok := d.nextPacket()
		if !ok {
			break
		}
		packets = append(packets, payload)
	}
	return packets
}

// nextPacket returns one complete payload and true if the buffer holds a
// full frame, else nil, false. A frame with a declared length of 0 yields
// no packet; its header is dropped so that it cannot stall the frames
// behind it.
func (d *PLHDeframer) nextPacket() ([]byte, bool) {
	for len(d.buf) >= 4 && binary.BigEndian.Uint32(d.buf[:4]) == 0 {
		d.buf = d.buf[4:]
	}
	if len(d.buf) < 4 {
		return nil, false
	}
	length := binary.BigEndian.Uint32(d.buf[:4])
	total := 4 + int(length)
	if len(d.buf) < total {
		return nil, false
	}
	payload := append([]byte{}, d.buf[4:total]...)
	d.buf = d.buf[total:]
	return payload, true
}
