package osc

import "testing"

func TestInt(t *testing.T) {
	tc := []struct {
		name string
		in   int
		want any
	}{
		{"small positive fits int32", 123, int32(123)},
		{"small negative fits int32", -123, int32(-123)},
		{"max int32 fits int32", 1<<31 - 1, int32(1<<31 - 1)},
		{"above int32 range falls to int64", 1 << 31, int64(1 << 31)},
		{"below int32 range falls to int64", -(1 << 31) - 1, int64(-(1 << 31) - 1)},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Int(tt.in)
			if got != tt.want {
				t.Errorf("Int(%d) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}
