package dateformat

import "strings"

// token is one element of a lexed pattern: either a field such as "YYYY"
// or a run of literal text.
type token struct {
	field   string
	literal string
}

// fields lists the supported pattern tokens. For tokens sharing a prefix the
// longer one comes first, so the first match is the longest.
var fields = []string{
	"YYYY", "YY",
	"Q",
	"MMMM", "MMM", "MM", "M",
	"DDDD", "DDD", "Do", "DD", "D",
	"dddd", "ddd", "dd", "d",
	"HH", "H", "hh", "h", "kk", "k",
	"mm", "m", "ss", "s",
	"SSS", "SS", "S",
	"A", "a",
	"ZZ", "Z",
}

// lex splits pattern into field and literal tokens. Text inside [brackets]
// and characters preceded by a backslash are literal. Letters that are not
// part of a known token are literal too.
func lex(pattern string) []token {
	var (
		out []token
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				lit.WriteString(pattern[i:])
				i = len(pattern)
				continue
			}
			lit.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		case '\\':
			if i+1 < len(pattern) {
				lit.WriteByte(pattern[i+1])
				i += 2
				continue
			}
		}

		matched := ""
		for _, f := range fields {
			if strings.HasPrefix(pattern[i:], f) {
				matched = f
				break
			}
		}
		if matched == "" {
			lit.WriteByte(pattern[i])
			i++
			continue
		}
		flush()
		out = append(out, token{field: matched})
		i += len(matched)
	}
	flush()
	return out
}
