package osc

import (
	"bytes"
	"encoding/binary"
)

// encodeMessage serializes an address pattern and its arguments:
// 1. the OSC address pattern, padded
// 2. the OSC type tag string, padded
// 3. the argument payloads, in order
func encodeMessage(msg *Message) ([]byte, error) {
	if len(msg.Address) == 0 || msg.Address[0] != '/' {
		return nil, ErrInvalidAddress
	}

	var data bytes.Buffer
	if err := writePaddedString(&data, msg.Address); err != nil {
		return nil, err
	}

	var tags bytes.Buffer
	tags.WriteByte(',')
	if err := writeTypeTags(&tags, msg.Arguments); err != nil {
		return nil, err
	}
	if err := writePaddedString(&data, tags.String()); err != nil {
		return nil, err
	}

	if err := writeArguments(&data, msg.Arguments); err != nil {
		return nil, err
	}

	return data.Bytes(), nil
}

// encodeBundle serializes the literal 8-byte header "#bundle\0", the time
// tag, then for each element its big-endian int32 length followed by the
// recursively encoded element bytes.
func encodeBundle(b *Bundle) ([]byte, error) {
	var data bytes.Buffer
	if err := writePaddedString(&data, "#bundle"); err != nil {
		return nil, err
	}
	if err := binary.Write(&data, binary.BigEndian, b.Timetag.Raw()); err != nil {
		return nil, err
	}

	for _, elem := range b.Elements {
		buf, err := elem.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := binary.Write(&data, binary.BigEndian, int32(len(buf))); err != nil {
			return nil, err
		}
		data.Write(buf)
	}

	return data.Bytes(), nil
}

// writeTypeTags walks arguments in order, emitting the single character
// tag for scalar arguments and bracketing an array's elements with '['
// and ']'.
func writeTypeTags(buf *bytes.Buffer, arguments []any) error {
	for _, arg := range arguments {
		if err := writeTypeTag(buf, arg); err != nil {
			return err
		}
	}
	return nil
}

func writeTypeTag(buf *bytes.Buffer, arg any) error {
	switch v := arg.(type) {
	case int32:
		buf.WriteByte('i')
	case int64:
		buf.WriteByte('h')
	case float32:
		buf.WriteByte('f')
	case float64:
		buf.WriteByte('d')
	case string:
		buf.WriteByte('s')
	case Symbol:
		buf.WriteByte('S')
	case []byte:
		buf.WriteByte('b')
	case bool:
		if v {
			buf.WriteByte('T')
		} else {
			buf.WriteByte('F')
		}
	case nil:
		buf.WriteByte('N')
	case Impulse:
		buf.WriteByte('I')
	case Timetag:
		buf.WriteByte('t')
	case Char:
		if v > 127 {
			return &InvalidCharacterError{Char: rune(v)}
		}
		buf.WriteByte('c')
	case Color:
		buf.WriteByte('r')
	case MIDI:
		buf.WriteByte('m')
	case []any:
		buf.WriteByte('[')
		if err := writeTypeTags(buf, v); err != nil {
			return err
		}
		buf.WriteByte(']')
	default:
		return &UnsupportedArgumentError{Value: arg}
	}
	return nil
}

// writeArguments writes argument payloads in order, skipping bracket
// characters (they contribute only to the tag string) and emitting no
// payload bytes for true/false/nil/impulse.
func writeArguments(data *bytes.Buffer, arguments []any) error {
	for _, arg := range arguments {
		if err := writeArgument(data, arg); err != nil {
			return err
		}
	}
	return nil
}

func writeArgument(data *bytes.Buffer, arg any) error {
	switch v := arg.(type) {
	case int32:
		return binary.Write(data, binary.BigEndian, v)
	case int64:
		return binary.Write(data, binary.BigEndian, v)
	case float32:
		return binary.Write(data, binary.BigEndian, v)
	case float64:
		return binary.Write(data, binary.BigEndian, v)
	case string:
		return writePaddedString(data, v)
	case Symbol:
		return writePaddedString(data, string(v))
	case []byte:
		return writeBlob(data, v)
	case bool, nil, Impulse:
		return nil
	case Timetag:
		return binary.Write(data, binary.BigEndian, v.Raw())
	case Char:
		return binary.Write(data, binary.BigEndian, int32(v))
	case Color:
		data.WriteByte(v.R)
		data.WriteByte(v.G)
		data.WriteByte(v.B)
		data.WriteByte(v.A)
		return nil
	case MIDI:
		data.WriteByte(v.Port)
		data.WriteByte(v.Status)
		data.WriteByte(v.Data1)
		data.WriteByte(v.Data2)
		return nil
	case []any:
		return writeArguments(data, v)
	default:
		return &UnsupportedArgumentError{Value: arg}
	}
}

// writePaddedString writes a null-terminated string to buf, zero-padded to
// a multiple of 4 bytes.
func writePaddedString(buf *bytes.Buffer, s string) error {
	buf.WriteString(s)
	buf.WriteByte(0)
	pad := padBytesNeeded(len(s) + 1)
	for i := 0; i < pad; i++ {
		buf.WriteByte(0)
	}
	return nil
}

// writeBlob writes data as a big-endian int32 length followed by the raw
// bytes, zero-padded to a multiple of 4.
func writeBlob(buf *bytes.Buffer, data []byte) error {
	if err := binary.Write(buf, binary.BigEndian, int32(len(data))); err != nil {
		return err
	}
	buf.Write(data)
	pad := padBytesNeeded(len(data))
	for i := 0; i < pad; i++ {
		buf.WriteByte(0)
	}
	return nil
}

// padBytesNeeded returns the number of zero bytes needed to bring n up to
// the next multiple of 4.
func padBytesNeeded(n int) int {
	return (4 - n%4) % 4
}
