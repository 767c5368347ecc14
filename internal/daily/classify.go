package daily

import (
	"time"
	"unicode/utf8"

	"github.com/starford/dailyfolder/internal/models"
)

// DateOf strict-parses the leading characters of file's basename, as many as
// today's date formatted with format has. Patterns must expand to a fixed
// length; month or weekday names of varying width break this.
func (r *Resolver) DateOf(file models.CandidateFile, format string) (time.Time, bool) {
	return r.df.ParseStrict(r.prefix(file.Basename, format), format)
}

// IsDailyFile reports whether file is a daily file under s: its name starts
// with a valid date, it sits in a folder with exactly its basename, and that
// folder sits in a folder named s.Root. Deeper nesting is not recognized.
func (r *Resolver) IsDailyFile(file *models.CandidateFile, s models.Settings) bool {
	if file == nil {
		return false
	}
	_, ok := r.Resolve(*file, s)
	return ok
}

// Resolve returns file as a DailyFile if it is one.
func (r *Resolver) Resolve(file models.CandidateFile, s models.Settings) (models.DailyFile, bool) {
	prefix := r.prefix(file.Basename, s.Format)
	date, ok := r.df.ParseStrict(prefix, s.Format)
	if !ok {
		return models.DailyFile{}, false
	}
	if file.ParentName != file.Basename || file.GrandparentName != s.Root {
		return models.DailyFile{}, false
	}
	return models.DailyFile{File: file, Date: date, Prefix: prefix}, true
}

// Dailies filters files down to daily files, keeping their order.
func (r *Resolver) Dailies(files []models.CandidateFile, s models.Settings) []models.DailyFile {
	var out []models.DailyFile
	for _, f := range files {
		if d, ok := r.Resolve(f, s); ok {
			out = append(out, d)
		}
	}
	return out
}

func (r *Resolver) prefix(basename, format string) string {
	n := utf8.RuneCountInString(r.df.FormatNow(format))
	i := 0
	for pos := range basename {
		if i == n {
			return basename[:pos]
		}
		i++
	}
	return basename
}
