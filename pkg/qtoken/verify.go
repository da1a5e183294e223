package qtoken

import (
	"crypto/subtle"
	"time"
)

// Tolerance is the band of (month, slot) pairs a verifier accepts around its own clock.
type Tolerance struct {
	// Slots is how many slots on each side of the current one are accepted.
	Slots int

	// Months accepts the previous and next calendar month as well.
	Months bool
}

// DefaultTolerance accepts one slot either side and the adjacent months.
func DefaultTolerance() Tolerance {
	return Tolerance{Slots: 1, Months: true}
}

// Candidates returns every API token the verifier accepts at instant t.
// The current month and slot come first.
func (p *Protocol) Candidates(authToken string, t time.Time, tol Tolerance) []string {
	if authToken == "" {
		return nil
	}

	t = t.UTC()
	months := []string{YearMonth(t)}
	if tol.Months {
		// Day 15 keeps AddDate from overflowing into the wrong month.
		anchor := time.Date(t.Year(), t.Month(), 15, 0, 0, 0, 0, time.UTC)
		months = append(months, YearMonth(anchor.AddDate(0, -1, 0)), YearMonth(anchor.AddDate(0, 1, 0)))
	}

	current := TimeSlot{at: t, size: p.slotSize}
	slots := current.Aliases()
	prev, next := current, current
	for i := 0; i < tol.Slots; i++ {
		prev = prev.Previous()
		next = next.Next()
		slots = append(slots, prev.Aliases()...)
		slots = append(slots, next.Aliases()...)
	}

	out := make([]string, 0, len(months)*len(slots))
	for _, ym := range months {
		for _, slot := range slots {
			out = append(out, p.apiToken(authToken, ym, slot))
		}
	}
	return out
}

// Verify reports whether token is an API token derived from authToken
// within the tolerance band around t.
//
// Every candidate is compared in constant time.
func (p *Protocol) Verify(token, authToken string, t time.Time, tol Tolerance) bool {
	if token == "" || authToken == "" {
		return false
	}

	ok := 0
	for _, candidate := range p.Candidates(authToken, t, tol) {
		ok |= subtle.ConstantTimeCompare([]byte(token), []byte(candidate))
	}
	return ok == 1
}
