package osc

import (
	"errors"
	"testing"
)

func TestParsePacketEmpty(t *testing.T) {
	if _, err := ParsePacket(nil); !errors.Is(err, ErrTruncated) {
		t.Errorf("ParsePacket(nil) error = %v, want ErrTruncated", err)
	}
}

func TestParsePacketInvalidLeadingByte(t *testing.T) {
	if _, err := ParsePacket([]byte("?notvalid")); !errors.Is(err, ErrInvalidPacket) {
		t.Errorf("ParsePacket() error = %v, want ErrInvalidPacket", err)
	}
}

func TestParsePacketDispatchesMessageAndBundle(t *testing.T) {
	msgRaw, err := NewMessage("/a").MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if p, err := ParsePacket(msgRaw); err != nil {
		t.Fatalf("ParsePacket() error = %v", err)
	} else if _, ok := p.(*Message); !ok {
		t.Errorf("ParsePacket() returned %T, want *Message", p)
	}

	bundleRaw, err := NewBundle(Immediate()).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if p, err := ParsePacket(bundleRaw); err != nil {
		t.Fatalf("ParsePacket() error = %v", err)
	} else if _, ok := p.(*Bundle); !ok {
		t.Errorf("ParsePacket() returned %T, want *Bundle", p)
	}
}

func TestParsePacketUnterminatedString(t *testing.T) {
	raw := []byte("/abc")
	if _, err := ParsePacket(raw); !errors.Is(err, ErrUnterminatedString) {
		t.Errorf("ParsePacket() error = %v, want ErrUnterminatedString", err)
	}
}

func TestParsePacketMissingTypeTag(t *testing.T) {
	raw := []byte("/a\x00\x00" + "i\x00\x00\x00")
	if _, err := ParsePacket(raw); !errors.Is(err, ErrMissingTypeTag) {
		t.Errorf("ParsePacket() error = %v, want ErrMissingTypeTag", err)
	}
}

func TestParsePacketUnknownTypeTag(t *testing.T) {
	raw := []byte("/a\x00\x00" + ",q\x00\x00")
	_, err := ParsePacket(raw)
	var unknown *UnknownTypeTagError
	if !errors.As(err, &unknown) {
		t.Fatalf("ParsePacket() error = %v, want *UnknownTypeTagError", err)
	}
	if unknown.Tag != 'q' {
		t.Errorf("UnknownTypeTagError.Tag = %q, want %q", unknown.Tag, 'q')
	}
}

func TestParsePacketUnmatchedArrayClose(t *testing.T) {
	raw := []byte("/a\x00\x00" + ",]\x00\x00")
	if _, err := ParsePacket(raw); !errors.Is(err, ErrUnmatchedArrayClose) {
		t.Errorf("ParsePacket() error = %v, want ErrUnmatchedArrayClose", err)
	}
}

func TestEncodePacket(t *testing.T) {
	msg := NewMessage("/a")
	got, err := EncodePacket(msg)
	if err != nil {
		t.Fatalf("EncodePacket() error = %v", err)
	}
	want, _ := msg.MarshalBinary()
	if string(got) != string(want) {
		t.Errorf("EncodePacket() = %v, want %v", got, want)
	}
}
