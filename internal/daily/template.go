package daily

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Expand replaces every {{...}} placeholder in raw with the current date
// formatted by the placeholder's pattern, after dropping the braces and a
// "date:" marker. {{date}} itself is therefore read as a pattern. format
// is the daily pattern and is not applied to placeholders. The clock is read
// once, so all placeholders in one call share a timestamp.
func (r *Resolver) Expand(raw, format string) string {
	df := r.df.At(r.df.Now())
	return placeholderRe.ReplaceAllStringFunc(raw, func(match string) string {
		cleaned := strings.Replace(match, "{{", "", 1)
		cleaned = strings.Replace(cleaned, "}}", "", 1)
		cleaned = strings.Replace(cleaned, "date:", "", 1)
		return df.FormatNow(cleaned)
	})
}
