package osc

import (
	"bytes"
	"fmt"
)

// Message is an OSC message: an address pattern and an ordered sequence of
// arguments. Once returned from the decoder a Message is not mutated by
// this package; Append is provided for building outgoing messages.
type Message struct {
	Address   string
	Arguments []any
}

// NewMessage returns a new Message addressed to address with the given
// arguments, if any.
func NewMessage(address string, arguments ...any) *Message {
	return &Message{Address: address, Arguments: append([]any{}, arguments...)}
}

// Append appends an argument to the message.
func (msg *Message) Append(argument any) {
	msg.Arguments = append(msg.Arguments, argument)
}

// CountArguments returns the number of arguments.
func (msg *Message) CountArguments() int {
	return len(msg.Arguments)
}

// Match reports whether the message's address matches the given address
// pattern, per the OSC 1.0 wildcard grammar (see Match).
func (msg *Message) Match(pattern string) bool {
	return Match(pattern, msg.Address)
}

// Equal reports whether msg and other have the same address and
// argument-by-argument equal arguments.
func (msg *Message) Equal(other *Message) bool {
	if msg.Address != other.Address || len(msg.Arguments) != len(other.Arguments) {
		return false
	}
	for i := range msg.Arguments {
		if !argumentsEqual(msg.Arguments[i], other.Arguments[i]) {
			return false
		}
	}
	return true
}

func argumentsEqual(a, b any) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !argumentsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// TypeTags returns the comma-prefixed type tag string for the message's
// current arguments, including array brackets.
func (msg *Message) TypeTags() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte(',')
	if err := writeTypeTags(&buf, msg.Arguments); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// String renders the message as a human-readable one-liner: address, type
// tags, and arguments. It is provided for debugging and logging by callers
// -- this package never calls it itself.
func (msg *Message) String() string {
	tags, err := msg.TypeTags()
	if err != nil {
		tags = ",?"
	}
	s := msg.Address + " " + tags
	for _, arg := range msg.Arguments {
		s += fmt.Sprintf(" %v", formatArgument(arg))
	}
	return s
}

func formatArgument(arg any) any {
	switch v := arg.(type) {
	case nil:
		return "Nil"
	case []byte:
		return fmt.Sprintf("blob(%d bytes)", len(v))
	case []any:
		parts := make([]any, len(v))
		for i, e := range v {
			parts[i] = formatArgument(e)
		}
		return parts
	default:
		return v
	}
}

// MarshalBinary encodes the message to OSC wire bytes. Implements
// encoding.BinaryMarshaler.
func (msg *Message) MarshalBinary() ([]byte, error) {
	return encodeMessage(msg)
}
