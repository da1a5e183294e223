package qtoken

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSlotSize is the default time slot width in minutes.
const DefaultSlotSize = 5

// ErrInvalidConfiguration matches every InvalidConfigurationError.
var ErrInvalidConfiguration = errors.New("qtoken: invalid configuration")

// InvalidConfigurationError reports a protocol parameter that cannot be used.
type InvalidConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("qtoken: invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ValidateSlotSize checks that size lies in [1,30] and divides 60.
func ValidateSlotSize(size int) error {
	if size < 1 || size > 30 || 60%size != 0 {
		return &InvalidConfigurationError{
			Field:  "slot size",
			Value:  size,
			Reason: fmt.Sprintf("%d must be between 1 and 30 and divide 60 exactly", size),
		}
	}
	return nil
}

// TimeSlot is a coarse UTC time bucket.
//
// The zero value is not usable; create slots with NewTimeSlot.
type TimeSlot struct {
	at   time.Time
	size int
}

// NewTimeSlot returns the slot containing t for a slot width of size minutes.
func NewTimeSlot(t time.Time, size int) (TimeSlot, error) {
	if err := ValidateSlotSize(size); err != nil {
		return TimeSlot{}, err
	}
	return TimeSlot{at: t.UTC(), size: size}, nil
}

// String renders the slot as YYYYMMDDHH followed by the 2-digit slot index.
//
// A nonzero second pushes the minute forward by one before the index is
// taken, so a request sent just before a boundary lands in the next slot.
// At minute 59 this yields index 60/size within the same hour.
func (s TimeSlot) String() string {
	m := s.at.Minute()
	if s.at.Second() > 0 {
		m++
	}
	return formatSlot(s.at, m/s.size)
}

// Aliases returns every string that names this slot. A slot that starts on
// the hour is also written as index 60/size of the previous hour.
func (s TimeSlot) Aliases() []string {
	start := s.Start()
	out := []string{formatSlot(start, start.Minute()/s.size)}
	if start.Minute() == 0 {
		out = append(out, formatSlot(start.Add(-time.Hour), 60/s.size))
	}
	return out
}

// Start returns the UTC instant at which the slot begins.
func (s TimeSlot) Start() time.Time {
	m := s.at.Minute()
	if s.at.Second() > 0 {
		m++
	}
	hour := time.Date(s.at.Year(), s.at.Month(), s.at.Day(), s.at.Hour(), 0, 0, 0, time.UTC)
	return hour.Add(time.Duration(m/s.size*s.size) * time.Minute)
}

// Previous returns the slot one width earlier.
func (s TimeSlot) Previous() TimeSlot {
	return TimeSlot{at: s.Start().Add(-time.Duration(s.size) * time.Minute), size: s.size}
}

// Next returns the slot one width later.
func (s TimeSlot) Next() TimeSlot {
	return TimeSlot{at: s.Start().Add(time.Duration(s.size) * time.Minute), size: s.size}
}

func formatSlot(t time.Time, index int) string {
	return fmt.Sprintf("%04d%02d%02d%02d%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), index)
}

// Size returns the slot width in minutes.
func (s TimeSlot) Size() int {
	return s.size
}

// Time returns the instant the slot was computed from.
func (s TimeSlot) Time() time.Time {
	return s.at
}

// TimeSlotAt returns the slot string for t.
func TimeSlotAt(t time.Time, size int) (string, error) {
	slot, err := NewTimeSlot(t, size)
	if err != nil {
		return "", err
	}
	return slot.String(), nil
}

// CurrentTimeSlot returns the slot string for the current UTC time.
func CurrentTimeSlot(size int) (string, error) {
	return TimeSlotAt(time.Now(), size)
}

// YearMonth returns the UTC year and zero-padded month of t, e.g. "202403".
func YearMonth(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d%02d", t.Year(), int(t.Month()))
}
