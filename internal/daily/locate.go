package daily

import (
	"time"

	"github.com/starford/dailyfolder/internal/models"
)

// FindToday returns the first daily file whose date prefix equals today's
// formatted date. Matching is by string, not calendar date.
func (r *Resolver) FindToday(files []models.CandidateFile, s models.Settings) (models.DailyFile, bool) {
	today := r.df.FormatNow(s.Format)
	for _, d := range r.Dailies(files, s) {
		if d.Prefix == today {
			return d, true
		}
	}
	return models.DailyFile{}, false
}

// FindNearest returns the daily file closest to reference that is strictly
// after it (forward) or strictly before it. Files dated exactly at reference
// are never returned. On equal distance the later date wins, then the
// smaller path, so the result does not depend on the order of files.
func (r *Resolver) FindNearest(files []models.CandidateFile, s models.Settings, reference time.Time, forward bool) (models.DailyFile, bool) {
	var (
		best     models.DailyFile
		bestDist time.Duration
		found    bool
	)
	for _, d := range r.Dailies(files, s) {
		if forward && !r.df.IsAfter(d.Date, reference) {
			continue
		}
		if !forward && !r.df.IsBefore(d.Date, reference) {
			continue
		}
		dist := abs(r.df.Diff(reference, d.Date))
		if !found || dist < bestDist || (dist == bestDist && preferred(d, best)) {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}

func preferred(a, b models.DailyFile) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.File.Path < b.File.Path
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
