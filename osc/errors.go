package osc

import "fmt"

// Encoder errors.
var (
	// ErrInvalidAddress is returned when a Message's address pattern does
	// not begin with '/'.
	ErrInvalidAddress = fmt.Errorf("osc: address pattern must begin with '/'")
)

// InvalidCharacterError is returned by the encoder when a Char argument's
// code point exceeds the ASCII range.
type InvalidCharacterError struct {
	Char rune
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("osc: char argument %q is not ASCII", e.Char)
}

// UnsupportedArgumentError is returned by the encoder when an argument's
// Go type is not one of the types this package's tagged union supports.
type UnsupportedArgumentError struct {
	Value any
}

func (e *UnsupportedArgumentError) Error() string {
	return fmt.Sprintf("osc: unsupported argument type %T", e.Value)
}

// Decoder errors.
var (
	// ErrTruncated is returned when fewer bytes remain than a field
	// declares it needs.
	ErrTruncated = fmt.Errorf("osc: truncated packet")

	// ErrInvalidPacket is returned when the leading byte of a packet is
	// neither '/' nor '#', when a bundle's header does not read
	// "#bundle\x00", or when a char argument's value exceeds 127.
	ErrInvalidPacket = fmt.Errorf("osc: invalid packet")

	// ErrUnterminatedString is returned when a null-terminated string
	// field has no terminating zero byte within the remaining bytes, or
	// is not valid UTF-8.
	ErrUnterminatedString = fmt.Errorf("osc: unterminated string")

	// ErrMissingTypeTag is returned when a message's type tag string is
	// present but does not begin with ','.
	ErrMissingTypeTag = fmt.Errorf("osc: missing type tag string")

	// ErrUnmatchedArrayClose is returned when a ']' type tag has no
	// matching '[', or an array is left open at the end of the type tag
	// string.
	ErrUnmatchedArrayClose = fmt.Errorf("osc: unmatched array bracket")

	// ErrInvalidBundleElement is returned when a bundle element's
	// declared length is non-positive or exceeds the bytes remaining in
	// the enclosing container.
	ErrInvalidBundleElement = fmt.Errorf("osc: invalid bundle element length")
)

// UnknownTypeTagError is returned by the decoder when a type tag
// character is not one of the tags defined by this package.
type UnknownTypeTagError struct {
	Tag byte
}

func (e *UnknownTypeTagError) Error() string {
	return fmt.Sprintf("osc: unknown type tag %q", e.Tag)
}

// Transport errors.
var (
	// ErrNotConnected is returned by a TCP client's Send when the client
	// is not in the Connected state, by a TCP server's Send for an unknown
	// ConnID, by a UDP peer's sends after Stop, and by a UDP multicast's
	// sends before Start.
	ErrNotConnected = fmt.Errorf("osc: not connected")

	// ErrUnknownSender is returned by a UDP server's Send when the given
	// SenderEndpoint has no associated per-flow channel.
	ErrUnknownSender = fmt.Errorf("osc: unknown sender")
)
