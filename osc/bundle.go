package osc

// Bundle is an OSC bundle: a time tag and an ordered sequence of elements,
// each itself a Packet (Message or Bundle). Bundles may nest to arbitrary
// depth.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// NewBundle returns a new Bundle with the given time tag and elements.
func NewBundle(timetag Timetag, elements ...Packet) *Bundle {
	return &Bundle{Timetag: timetag, Elements: append([]Packet{}, elements...)}
}

// Append appends a Packet (Message or Bundle) to the bundle.
func (b *Bundle) Append(p Packet) {
	b.Elements = append(b.Elements, p)
}

// MarshalBinary encodes the bundle to OSC wire bytes. Implements
// encoding.BinaryMarshaler.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	return encodeBundle(b)
}
