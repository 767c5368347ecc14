// Package daily decides which vault files are daily files, maps them to
// dates, locates today's and the nearest daily file, and builds the paths
// and template content of new daily folders.
//
// Nothing here is cached: every call recomputes from the settings and file
// list it is given.
package daily

import (
	"github.com/starford/dailyfolder/internal/dateformat"
)

// Resolver evaluates daily-folder rules against a date formatter.
type Resolver struct {
	df *dateformat.Formatter
}

// NewResolver creates a Resolver using df for formatting and parsing.
func NewResolver(df *dateformat.Formatter) *Resolver {
	return &Resolver{df: df}
}

// Frozen returns a Resolver whose clock is fixed at the current instant, so
// that several paths built for one operation agree on the date.
func (r *Resolver) Frozen() *Resolver {
	return &Resolver{df: r.df.At(r.df.Now())}
}

// Formatter returns the underlying date formatter.
func (r *Resolver) Formatter() *dateformat.Formatter {
	return r.df
}
