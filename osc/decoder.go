package osc

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// cursor walks a byte slice, tracking the read position.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) readBytes(n int) ([]byte, bool) {
	if c.remaining() < n {
		return nil, false
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

func (c *cursor) readInt32() (int32, error) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, ErrTruncated
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (c *cursor) readInt64() (int64, error) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, ErrTruncated
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (c *cursor) readUint64() (uint64, error) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint64(b), nil
}

// readPaddedString reads a null-terminated, 4-byte padded string.
func (c *cursor) readPaddedString() (string, error) {
	start := c.pos
	idx := -1
	for i := c.pos; i < len(c.data); i++ {
		if c.data[i] == 0 {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", ErrUnterminatedString
	}
	s := c.data[start:idx]
	if !utf8.Valid(s) {
		return "", ErrUnterminatedString
	}
	total := (idx - start) + 1
	total += padBytesNeeded(total)
	if c.remaining() < total {
		return "", ErrUnterminatedString
	}
	c.pos += total
	return string(s), nil
}

// readBlob reads a big-endian int32 length, that many content bytes, then
// padding to a 4-byte boundary.
func (c *cursor) readBlob() ([]byte, error) {
	n, err := c.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrInvalidPacket
	}
	b, ok := c.readBytes(int(n))
	if !ok {
		return nil, ErrTruncated
	}
	blob := append([]byte{}, b...)
	pad := padBytesNeeded(int(n))
	if _, ok := c.readBytes(pad); !ok {
		return nil, ErrTruncated
	}
	return blob, nil
}

// decodeMessage decodes an OSC message from data. data[0] is assumed to be
// '/'.
func decodeMessage(data []byte) (*Message, error) {
	c := &cursor{data: data}

	address, err := c.readPaddedString()
	if err != nil {
		return nil, err
	}
	if len(address) == 0 || address[0] != '/' {
		return nil, ErrInvalidPacket
	}

	msg := &Message{Address: address}

	if c.remaining() == 0 {
		return msg, nil
	}

	typeTags, err := c.readPaddedString()
	if err != nil {
		return nil, err
	}
	if len(typeTags) == 0 || typeTags[0] != ',' {
		return nil, ErrMissingTypeTag
	}
	typeTags = typeTags[1:]

	args, err := decodeArguments(c, typeTags)
	if err != nil {
		return nil, err
	}
	msg.Arguments = args

	return msg, nil
}

// decodeArguments walks the type tag string, maintaining an explicit stack
// of argument slices for array nesting.
func decodeArguments(c *cursor, typeTags string) ([]any, error) {
	root := []any{}
	stack := [][]any{root}

	push := func(v any) {
		top := len(stack) - 1
		stack[top] = append(stack[top], v)
	}

	for i := 0; i < len(typeTags); i++ {
		tag := typeTags[i]
		switch tag {
		case 'i':
			v, err := c.readInt32()
			if err != nil {
				return nil, err
			}
			push(v)
		case 'h':
			v, err := c.readInt64()
			if err != nil {
				return nil, err
			}
			push(v)
		case 'f':
			v, err := c.readInt32()
			if err != nil {
				return nil, err
			}
			push(math.Float32frombits(uint32(v)))
		case 'd':
			v, err := c.readUint64()
			if err != nil {
				return nil, err
			}
			push(math.Float64frombits(v))
		case 's':
			v, err := c.readPaddedString()
			if err != nil {
				return nil, err
			}
			push(v)
		case 'S':
			v, err := c.readPaddedString()
			if err != nil {
				return nil, err
			}
			push(Symbol(v))
		case 'b':
			v, err := c.readBlob()
			if err != nil {
				return nil, err
			}
			push(v)
		case 't':
			v, err := c.readUint64()
			if err != nil {
				return nil, err
			}
			push(NewTimetagFromRaw(v))
		case 'c':
			v, err := c.readInt32()
			if err != nil {
				return nil, err
			}
			if v&0xFF >= 128 {
				return nil, ErrInvalidPacket
			}
			push(Char(rune(byte(v))))
		case 'r':
			b, ok := c.readBytes(4)
			if !ok {
				return nil, ErrTruncated
			}
			push(Color{R: b[0], G: b[1], B: b[2], A: b[3]})
		case 'm':
			b, ok := c.readBytes(4)
			if !ok {
				return nil, ErrTruncated
			}
			push(MIDI{Port: b[0], Status: b[1], Data1: b[2], Data2: b[3]})
		case 'T':
			push(true)
		case 'F':
			push(false)
		case 'N':
			push(nil)
		case 'I':
			push(Impulse{})
		case '[':
			stack = append(stack, []any{})
		case ']':
			if len(stack) == 1 {
				return nil, ErrUnmatchedArrayClose
			}
			arr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top := len(stack) - 1
			stack[top] = append(stack[top], arr)
		default:
			return nil, &UnknownTypeTagError{Tag: tag}
		}
	}

	if len(stack) != 1 {
		return nil, ErrUnmatchedArrayClose
	}

	return stack[0], nil
}

// decodeBundle decodes an OSC bundle from data. data[0] is assumed to be
// '#'.
func decodeBundle(data []byte) (*Bundle, error) {
	if len(data) < 16 {
		return nil, ErrTruncated
	}

	c := &cursor{data: data}
	header, ok := c.readBytes(8)
	if !ok {
		return nil, ErrTruncated
	}
	if string(header) != "#bundle\x00" {
		return nil, ErrInvalidPacket
	}

	raw, err := c.readUint64()
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{Timetag: NewTimetagFromRaw(raw)}

	for c.remaining() > 0 {
		if c.remaining() < 4 {
			return nil, ErrTruncated
		}
		length, err := c.readInt32()
		if err != nil {
			return nil, err
		}
		if length <= 0 || int(length) > c.remaining() {
			return nil, ErrInvalidBundleElement
		}
		elemBytes, _ := c.readBytes(int(length))
		elem, err := ParsePacket(elemBytes)
		if err != nil {
			return nil, err
		}
		bundle.Elements = append(bundle.Elements, elem)
	}

	return bundle, nil
}
