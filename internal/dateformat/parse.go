package dateformat

import (
	"strings"
	"time"
)

var (
	monthNames = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	weekdayNames = []string{
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	}
)

// fields collected while walking the pattern.
type parsed struct {
	year, month, day     int
	hasYear, hasMonth    bool
	hasDay               bool
	yearDay              int
	hasYearDay           bool
	hour, minute, second int
	nanos                int
	twelveHour           bool
	meridiem             string
	weekday              int
	hasWeekday           bool
	offset               int
	hasOffset            bool
}

// ParseStrict parses text against pattern. The parse fails unless text
// matches the pattern's structure exactly: fixed-width numbers need every
// digit, names must be whole English names, literals must match and no
// text may remain. Dates that overflow (month 13, February 30) or whose
// weekday disagrees with a weekday token are rejected.
//
// Date fields missing from the pattern default like Moment does: leading
// missing fields (year, then month, then day) take the current date, later
// ones start at their minimum.
func (f *Formatter) ParseStrict(text, pattern string) (time.Time, bool) {
	var p parsed
	rest := text
	for _, tok := range lex(pattern) {
		if tok.field == "" {
			if !strings.HasPrefix(rest, tok.literal) {
				return time.Time{}, false
			}
			rest = rest[len(tok.literal):]
			continue
		}
		var ok bool
		rest, ok = p.consume(rest, tok.field)
		if !ok {
			return time.Time{}, false
		}
	}
	if rest != "" {
		return time.Time{}, false
	}
	return p.build(f.Now(), f.loc)
}

func (p *parsed) consume(s, field string) (string, bool) {
	var (
		n  int
		ok bool
	)
	switch field {
	case "YYYY":
		if n, s, ok = digits(s, 4, 4); ok {
			p.year, p.hasYear = n, true
		}
	case "YY":
		if n, s, ok = digits(s, 2, 2); ok {
			if n > 68 {
				p.year = 1900 + n
			} else {
				p.year = 2000 + n
			}
			p.hasYear = true
		}
	case "Q":
		if n, s, ok = digits(s, 1, 1); ok {
			if n < 1 || n > 4 {
				return s, false
			}
			p.month, p.hasMonth = (n-1)*3+1, true
		}
	case "MMMM", "MMM":
		if n, s, ok = name(s, monthNames, field == "MMM"); ok {
			p.month, p.hasMonth = n+1, true
		}
	case "MM", "M":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			p.month, p.hasMonth = n, true
		}
	case "DDDD", "DDD":
		if n, s, ok = digits(s, minWidth(field), 3); ok {
			p.yearDay, p.hasYearDay = n, true
		}
	case "Do":
		if n, s, ok = digits(s, 1, 2); ok {
			suffix := ordinalSuffix(n)
			if !strings.HasPrefix(strings.ToLower(s), suffix) {
				return s, false
			}
			s = s[len(suffix):]
			p.day, p.hasDay = n, true
		}
	case "DD", "D":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			p.day, p.hasDay = n, true
		}
	case "dddd", "ddd":
		if n, s, ok = name(s, weekdayNames, field == "ddd"); ok {
			p.weekday, p.hasWeekday = n, true
		}
	case "dd":
		if n, s, ok = prefixName(s, weekdayNames, 2); ok {
			p.weekday, p.hasWeekday = n, true
		}
	case "d":
		if n, s, ok = digits(s, 1, 1); ok {
			if n > 6 {
				return s, false
			}
			p.weekday, p.hasWeekday = n, true
		}
	case "HH", "H":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			p.hour = n
		}
	case "hh", "h":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			if n < 1 || n > 12 {
				return s, false
			}
			p.hour, p.twelveHour = n, true
		}
	case "kk", "k":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			if n < 1 || n > 24 {
				return s, false
			}
			p.hour = n % 24
		}
	case "mm", "m":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			p.minute = n
		}
	case "ss", "s":
		if n, s, ok = digits(s, minWidth(field), 2); ok {
			p.second = n
		}
	case "SSS", "SS", "S":
		width := len(field)
		if n, s, ok = digits(s, width, width); ok {
			for i := width; i < 9; i++ {
				n *= 10
			}
			p.nanos = n
		}
	case "A", "a":
		if len(s) < 2 {
			return s, false
		}
		switch strings.ToLower(s[:2]) {
		case "am", "pm":
			p.meridiem = strings.ToLower(s[:2])
			s, ok = s[2:], true
		}
	case "Z", "ZZ":
		p.offset, s, ok = parseOffset(s, field == "Z")
		p.hasOffset = ok
	}
	return s, ok
}

func (p *parsed) build(now time.Time, loc *time.Location) (time.Time, bool) {
	if p.hasOffset {
		loc = time.FixedZone("", p.offset)
	}

	hour := p.hour
	if p.meridiem != "" {
		switch {
		case p.meridiem == "pm" && hour < 12:
			hour += 12
		case p.meridiem == "am" && hour == 12:
			hour = 0
		}
	}
	if hour > 23 || p.minute > 59 || p.second > 59 {
		return time.Time{}, false
	}

	year := p.year
	if !p.hasYear {
		year = now.Year()
	}

	var t time.Time
	if p.hasYearDay {
		if p.yearDay < 1 || p.yearDay > daysInYear(year) {
			return time.Time{}, false
		}
		t = time.Date(year, time.January, p.yearDay, hour, p.minute, p.second, p.nanos, loc)
		if (p.hasMonth && int(t.Month()) != p.month) || (p.hasDay && t.Day() != p.day) {
			return time.Time{}, false
		}
	} else {
		vals := [3]int{p.year, p.month, p.day}
		has := [3]bool{p.hasYear, p.hasMonth, p.hasDay}
		cur := [3]int{now.Year(), int(now.Month()), now.Day()}
		i := 0
		for ; i < 3 && !has[i]; i++ {
			vals[i] = cur[i]
		}
		for ; i < 3; i++ {
			if !has[i] {
				vals[i] = 1
			}
		}
		year, month, day := vals[0], vals[1], vals[2]
		if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
			return time.Time{}, false
		}
		t = time.Date(year, time.Month(month), day, hour, p.minute, p.second, p.nanos, loc)
	}

	if p.hasWeekday && int(t.Weekday()) != p.weekday {
		return time.Time{}, false
	}
	return t, true
}

// digits reads between min and max ASCII digits from the front of s,
// preferring the longest run.
func digits(s string, min, max int) (int, string, bool) {
	i := 0
	for i < max && i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < min {
		return 0, s, false
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	return n, s[i:], true
}

// minWidth is 2 for doubled tokens ("MM") and 1 for single ones ("M").
// Three-letter day-of-year tokens follow the same rule: DDDD needs 3.
func minWidth(field string) int {
	switch field {
	case "DDDD":
		return 3
	case "DDD":
		return 1
	}
	if len(field) >= 2 {
		return 2
	}
	return 1
}

// name matches a full (or, when short, three-letter) English name at the
// front of s, ignoring case.
func name(s string, names []string, short bool) (int, string, bool) {
	if short {
		return prefixName(s, names, 3)
	}
	for i, n := range names {
		if len(s) >= len(n) && strings.EqualFold(s[:len(n)], n) {
			return i, s[len(n):], true
		}
	}
	return 0, s, false
}

func prefixName(s string, names []string, width int) (int, string, bool) {
	if len(s) < width {
		return 0, s, false
	}
	for i, n := range names {
		if strings.EqualFold(s[:width], n[:width]) {
			return i, s[width:], true
		}
	}
	return 0, s, false
}

func parseOffset(s string, colon bool) (int, string, bool) {
	width := 5
	if colon {
		width = 6
	}
	if len(s) < width || (s[0] != '+' && s[0] != '-') {
		return 0, s, false
	}
	h, rest, ok := digits(s[1:], 2, 2)
	if !ok {
		return 0, s, false
	}
	if colon {
		if rest == "" || rest[0] != ':' {
			return 0, s, false
		}
		rest = rest[1:]
	}
	m, rest, ok := digits(rest, 2, 2)
	if !ok || m > 59 {
		return 0, s, false
	}
	secs := h*3600 + m*60
	if s[0] == '-' {
		secs = -secs
	}
	return secs, rest, true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
