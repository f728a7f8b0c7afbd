package osc

import (
	"testing"
	"time"
)

func TestTimetagImmediate(t *testing.T) {
	tt := Immediate()
	if !tt.IsImmediate() {
		t.Errorf("Immediate().IsImmediate() = false, want true")
	}
	if tt.Raw() != 1 {
		t.Errorf("Immediate().Raw() = %d, want 1", tt.Raw())
	}
}

func TestTimetagRoundTrip(t *testing.T) {
	in := time.Date(2023, time.June, 1, 12, 30, 0, 500000000, time.UTC)
	tt := NewTimetag(in)
	out := tt.Time()

	if diff := out.Sub(in); diff > time.Millisecond || diff < -time.Millisecond {
		t.Errorf("round trip through Timetag moved time by %v", diff)
	}
	if tt.IsImmediate() {
		t.Errorf("non-zero time should not be Immediate")
	}
}

func TestTimetagFromRaw(t *testing.T) {
	tt := NewTimetagFromRaw(0x1234567800000000)
	if tt.Raw() != 0x1234567800000000 {
		t.Errorf("Raw() = %#x, want %#x", tt.Raw(), uint64(0x1234567800000000))
	}
	if tt.SecondsSinceEpoch() != 0x12345678 {
		t.Errorf("SecondsSinceEpoch() = %#x, want %#x", tt.SecondsSinceEpoch(), uint32(0x12345678))
	}
}
