package osc

import "time"

// secondsFrom1900To1970 is the number of seconds between the NTP epoch
// (1 January 1900 UTC) and the Unix epoch (1 January 1970 UTC).
const secondsFrom1900To1970 = 2208988800

// timeTagImmediate is the sentinel raw value meaning "immediately". It has
// no wall-clock interpretation.
const timeTagImmediate = uint64(1)

// Timetag is an OSC 64-bit NTP time tag: the upper 32 bits are seconds
// since the NTP epoch, the lower 32 bits are a binary fraction of a second
// (unit 1/2^32 s).
type Timetag struct {
	raw uint64
}

// Immediate is the Timetag meaning "dispatch as soon as possible", encoded
// as the raw value 1.
func Immediate() Timetag {
	return Timetag{raw: timeTagImmediate}
}

// NewTimetag converts a wall-clock time to a Timetag.
func NewTimetag(t time.Time) Timetag {
	return Timetag{raw: timeToTimetag(t)}
}

// NewTimetagFromRaw wraps a raw 64-bit NTP value as a Timetag, preserving
// it verbatim (used by the decoder).
func NewTimetagFromRaw(raw uint64) Timetag {
	return Timetag{raw: raw}
}

// Raw returns the 64-bit NTP value.
func (t Timetag) Raw() uint64 {
	return t.raw
}

// IsImmediate reports whether the time tag is the "immediately" sentinel.
func (t Timetag) IsImmediate() bool {
	return t.raw == timeTagImmediate
}

// Time converts the time tag to a wall-clock time. The result is
// meaningless for the Immediate sentinel.
func (t Timetag) Time() time.Time {
	return timetagToTime(t.raw)
}

// SecondsSinceEpoch returns the upper 32 bits of the time tag: the number
// of seconds since the NTP epoch.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t.raw >> 32)
}

// FractionalSecond returns the lower 32 bits of the time tag: the
// fractional part of a second, in units of 1/2^32 s.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t.raw)
}

// timeToTimetag converts a wall-clock time to a raw 64-bit NTP time tag.
func timeToTimetag(t time.Time) uint64 {
	secs := uint64(t.Unix()+secondsFrom1900To1970) << 32
	frac := uint64(uint32(float64(t.Nanosecond()) * (1 << 32) / 1e9))
	return secs + frac
}

// timetagToTime converts a raw 64-bit NTP time tag to a wall-clock time.
func timetagToTime(raw uint64) time.Time {
	secs := int64(raw>>32) - secondsFrom1900To1970
	frac := uint32(raw)
	nanos := int64(float64(frac) * 1e9 / (1 << 32))
	return time.Unix(secs, nanos).UTC()
}
