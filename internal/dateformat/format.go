// Package dateformat formats and strictly parses dates with Moment-style
// patterns such as "YYYYMMDD" or "YYYY-MM-DD ddd".
package dateformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Formatter formats and parses dates against a clock and a location.
// It has no mutable state and is safe for concurrent use.
type Formatter struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		f.now = now
	}
}

// WithLocation sets the location used for formatting and parsing.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		f.loc = loc
	}
}

// New returns a Formatter reading the system clock in the local time zone.
func New(opts ...Option) *Formatter {
	f := &Formatter{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(f)
	}
	if f.loc == nil {
		f.loc = time.Local
	}
	return f
}

// At returns a copy of f whose clock is frozen at t.
func (f *Formatter) At(t time.Time) *Formatter {
	return &Formatter{now: func() time.Time { return t }, loc: f.loc}
}

// Now returns the current time in the formatter's location.
func (f *Formatter) Now() time.Time {
	return f.now().In(f.loc)
}

// Location returns the formatter's location.
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// FormatNow formats the current time with pattern.
func (f *Formatter) FormatNow(pattern string) string {
	return f.Format(f.Now(), pattern)
}

// Format formats t with pattern. It never fails: unknown letters are
// written as-is.
func (f *Formatter) Format(t time.Time, pattern string) string {
	var b strings.Builder
	for _, tok := range lex(pattern) {
		if tok.field == "" {
			b.WriteString(tok.literal)
			continue
		}
		b.WriteString(formatField(t, tok.field))
	}
	return b.String()
}

// Diff returns a - b.
func (f *Formatter) Diff(a, b time.Time) time.Duration {
	return a.Sub(b)
}

// IsBefore reports whether a is strictly before b.
func (f *Formatter) IsBefore(a, b time.Time) bool {
	return a.Before(b)
}

// IsAfter reports whether a is strictly after b.
func (f *Formatter) IsAfter(a, b time.Time) bool {
	return a.After(b)
}

func formatField(t time.Time, field string) string {
	switch field {
	case "YYYY":
		return pad(t.Year(), 4)
	case "YY":
		y := t.Year() % 100
		if y < 0 {
			y = -y
		}
		return pad(y, 2)
	case "Q":
		return strconv.Itoa((int(t.Month())-1)/3 + 1)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		return pad(int(t.Month()), 2)
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "DDDD":
		return pad(t.YearDay(), 3)
	case "DDD":
		return strconv.Itoa(t.YearDay())
	case "Do":
		return strconv.Itoa(t.Day()) + ordinalSuffix(t.Day())
	case "DD":
		return pad(t.Day(), 2)
	case "D":
		return strconv.Itoa(t.Day())
	case "dddd":
		return t.Weekday().String()
	case "ddd":
		return t.Weekday().String()[:3]
	case "dd":
		return t.Weekday().String()[:2]
	case "d":
		return strconv.Itoa(int(t.Weekday()))
	case "HH":
		return pad(t.Hour(), 2)
	case "H":
		return strconv.Itoa(t.Hour())
	case "hh":
		return pad(hour12(t.Hour()), 2)
	case "h":
		return strconv.Itoa(hour12(t.Hour()))
	case "kk":
		return pad(hour24(t.Hour()), 2)
	case "k":
		return strconv.Itoa(hour24(t.Hour()))
	case "mm":
		return pad(t.Minute(), 2)
	case "m":
		return strconv.Itoa(t.Minute())
	case "ss":
		return pad(t.Second(), 2)
	case "s":
		return strconv.Itoa(t.Second())
	case "SSS":
		return pad(t.Nanosecond()/1e6, 3)
	case "SS":
		return pad(t.Nanosecond()/1e7, 2)
	case "S":
		return strconv.Itoa(t.Nanosecond() / 1e8)
	case "A":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "a":
		if t.Hour() < 12 {
			return "am"
		}
		return "pm"
	case "Z":
		return offset(t, true)
	case "ZZ":
		return offset(t, false)
	}
	return field
}

func pad(n, width int) string {
	if n < 0 {
		return "-" + pad(-n, width)
	}
	return fmt.Sprintf("%0*d", width, n)
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func hour24(h int) int {
	if h == 0 {
		return 24
	}
	return h
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func offset(t time.Time, colon bool) string {
	_, secs := t.Zone()
	sign := "+"
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	h, m := secs/3600, (secs%3600)/60
	if colon {
		return fmt.Sprintf("%s%02d:%02d", sign, h, m)
	}
	return fmt.Sprintf("%s%02d%02d", sign, h, m)
}
