package reservation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidRange      = errors.New("check-in must be before check-out")
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrPriceOverflow     = errors.New("price exceeds supported range")
	ErrInvalidGuestCount = errors.New("guest count must be at least 1")
	ErrNoteTooLong       = errors.New("notes are too long (max 500 characters)")
)

const (
	DateLayout    = "2006-01-02"
	MaxNoteLength = 500

	day           = 24 * time.Hour
	secondsPerDay = int64(day / time.Second)
)

// DateOf truncates t to its calendar date, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StayPeriod is the half-open date interval [checkIn, checkOut).
// A checkout and a check-in on the same date do not collide.
type StayPeriod struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayPeriod(checkIn, checkOut time.Time) (StayPeriod, error) {
	in, out := DateOf(checkIn), DateOf(checkOut)
	if !in.Before(out) {
		return StayPeriod{}, ErrInvalidRange
	}
	return StayPeriod{checkIn: in, checkOut: out}, nil
}

func (p StayPeriod) CheckIn() time.Time  { return p.checkIn }
func (p StayPeriod) CheckOut() time.Time { return p.checkOut }

// Nights is the whole number of calendar days between check-in and check-out.
// Counted from Unix seconds since time.Duration cannot span more than ~292 years.
func (p StayPeriod) Nights() int64 {
	return (p.checkOut.Unix() - p.checkIn.Unix()) / secondsPerDay
}

func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.checkIn.Before(other.checkOut) && other.checkIn.Before(p.checkOut)
}

func (p StayPeriod) StartsBefore(date time.Time) bool {
	return p.checkIn.Before(DateOf(date))
}

// Clip narrows the period to [from, to]. ok is false when nothing remains.
func (p StayPeriod) Clip(from, to time.Time) (StayPeriod, bool) {
	in, out := p.checkIn, p.checkOut
	if f := DateOf(from); in.Before(f) {
		in = f
	}
	if t := DateOf(to); out.After(t) {
		out = t
	}
	if !in.Before(out) {
		return StayPeriod{}, false
	}
	return StayPeriod{checkIn: in, checkOut: out}, true
}

func (p StayPeriod) String() string {
	return fmt.Sprintf("[%s,%s)", FormatDate(p.checkIn), FormatDate(p.checkOut))
}

// Money is an amount in minor currency units. Never floats.
type Money struct {
	minor int64
}

func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{minor: minor}, nil
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) Multiply(n int64) (Money, error) {
	if n < 0 {
		return Money{}, ErrNegativePrice
	}
	if n != 0 && m.minor > math.MaxInt64/n {
		return Money{}, ErrPriceOverflow
	}
	return Money{minor: m.minor * n}, nil
}

// String renders the amount with two decimal places, e.g. "150.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.minor/100, m.minor%100)
}

type GuestCount struct {
	value int
}

func NewGuestCount(n int) (GuestCount, error) {
	if n < 1 {
		return GuestCount{}, ErrInvalidGuestCount
	}
	return GuestCount{value: n}, nil
}

func (g GuestCount) Int() int {
	return g.value
}

type Note struct {
	value string
}

func NewNote(value string) (Note, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxNoteLength {
		return Note{}, ErrNoteTooLong
	}
	return Note{value: value}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
