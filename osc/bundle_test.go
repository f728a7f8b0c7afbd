package osc

import "testing"

func TestBundleAppend(t *testing.T) {
	b := NewBundle(Immediate())
	b.Append(NewMessage("/a"))
	b.Append(NewMessage("/b"))

	if len(b.Elements) != 2 {
		t.Errorf("len(Elements) = %d, want 2", len(b.Elements))
	}
}

func TestBundleRoundTrip(t *testing.T) {
	inner := NewBundle(NewTimetagFromRaw(42), NewMessage("/inner", int32(1)))
	outer := NewBundle(Immediate(), NewMessage("/a", "x"), inner, NewMessage("/b"))

	raw, err := outer.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	p, err := ParsePacket(raw)
	if err != nil {
		t.Fatalf("ParsePacket() error = %v", err)
	}
	got, ok := p.(*Bundle)
	if !ok {
		t.Fatalf("ParsePacket() returned %T, want *Bundle", p)
	}

	if got.Timetag.Raw() != outer.Timetag.Raw() {
		t.Errorf("Timetag.Raw() = %d, want %d", got.Timetag.Raw(), outer.Timetag.Raw())
	}
	if len(got.Elements) != len(outer.Elements) {
		t.Fatalf("len(Elements) = %d, want %d", len(got.Elements), len(outer.Elements))
	}

	gotInner, ok := got.Elements[1].(*Bundle)
	if !ok {
		t.Fatalf("Elements[1] = %T, want *Bundle", got.Elements[1])
	}
	if gotInner.Timetag.Raw() != 42 {
		t.Errorf("nested bundle Timetag.Raw() = %d, want 42", gotInner.Timetag.Raw())
	}
	gotInnerMsg, ok := gotInner.Elements[0].(*Message)
	if !ok {
		t.Fatalf("nested bundle Elements[0] = %T, want *Message", gotInner.Elements[0])
	}
	if gotInnerMsg.Address != "/inner" {
		t.Errorf("nested message Address = %q, want /inner", gotInnerMsg.Address)
	}
}

func TestDecodeBundleTruncatedHeader(t *testing.T) {
	_, err := ParsePacket([]byte("#bun"))
	if err == nil {
		t.Errorf("ParsePacket() with truncated bundle header: expected error, got nil")
	}
}

func TestDecodeBundleInvalidElementLength(t *testing.T) {
	raw := []byte("#bundle\x00")
	raw = append(raw, make([]byte, 8)...)      // timetag
	raw = append(raw, 0xFF, 0xFF, 0xFF, 0xFF)  // negative length as int32

	_, err := ParsePacket(raw)
	if err == nil {
		t.Errorf("ParsePacket() with invalid element length: expected error, got nil")
	}
}
