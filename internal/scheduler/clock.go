package scheduler

import (
	"errors"
	"fmt"
)

// MinutesPerDay is the modulus applied to wall-clock arithmetic.
const MinutesPerDay = 24 * 60

// ErrInvalidClock indicates a wall-clock string is not a 24-hour HH:MM value.
var ErrInvalidClock = errors.New("scheduler: time must be HH:MM (24-hour)")

// Clock is a wall-clock time of day expressed as minutes since midnight.
type Clock int

// ParseClock converts a zero-padded "HH:MM" string into a Clock.
func ParseClock(value string) (Clock, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, ErrInvalidClock
	}
	hour, ok := twoDigits(value[0], value[1])
	if !ok || hour > 23 {
		return 0, ErrInvalidClock
	}
	minute, ok := twoDigits(value[3], value[4])
	if !ok || minute > 59 {
		return 0, ErrInvalidClock
	}
	return Clock(hour*60 + minute), nil
}

// MustParseClock is ParseClock for literals known to be valid.
func MustParseClock(value string) Clock {
	c, err := ParseClock(value)
	if err != nil {
		panic(fmt.Sprintf("scheduler: invalid clock literal %q", value))
	}
	return c
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// String formats the clock as zero-padded "HH:MM".
func (c Clock) String() string {
	m := normalizeMinutes(int(c))
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddHours returns start shifted by hours, wrapping modulo 24 hours.
//
// No day carry is produced: "23:00" plus 2 hours is "01:00" on the same
// calendar day as far as callers can tell.
func AddHours(start Clock, hours int) Clock {
	return Clock(normalizeMinutes(int(start) + hours*60))
}

func normalizeMinutes(m int) int {
	return ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that only touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

// BookableStartTimes lists the on-the-hour start times offered to guests.
var BookableStartTimes = []Clock{
	8 * 60, 9 * 60, 10 * 60, 11 * 60, 12 * 60,
	13 * 60, 14 * 60, 15 * 60, 16 * 60, 17 * 60,
	18 * 60, 19 * 60, 20 * 60,
}

// BookableDurations lists the durations, in hours, offered to guests.
var BookableDurations = []int{1, 2, 3, 4}
