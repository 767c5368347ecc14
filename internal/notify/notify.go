// Package notify delivers short user-facing notices about daily-folder
// commands to the terminal, the log and other sinks.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Notice is a transient message for the user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Notifier receives notices. Notify must not block for long; delivery is
// fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, n Notice)

// Notify calls f(ctx, n).
func (f Func) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice.
var Discard Notifier = Func(func(context.Context, Notice) {})

// Multi fans a notice out to every notifier in order.
type Multi []Notifier

// Notify forwards n to each notifier.
func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, x := range m {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

// Terminal prints notices as colored lines.
type Terminal struct {
	mu   sync.Mutex
	out  io.Writer
	info *color.Color
	warn *color.Color
	path *color.Color
}

// NewTerminal returns a Terminal writing to out. Colors are disabled
// automatically when out is not a terminal.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:  out,
		info: color.New(color.FgGreen),
		warn: color.New(color.FgYellow, color.Bold),
		path: color.New(color.FgCyan),
	}
}

// Notify writes n on a single line.
func (t *Terminal) Notify(_ context.Context, n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.info
	if n.Level == LevelWarn {
		c = t.warn
	}
	c.Fprint(t.out, n.Message)
	if n.Path != "" {
		fmt.Fprint(t.out, " ")
		t.path.Fprint(t.out, n.Path)
	}
	fmt.Fprintln(t.out)
}

// Log records notices through a slog.Logger.
type Log struct {
	Logger *slog.Logger
}

// Notify logs n at the level matching its severity.
func (l Log) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Level == LevelWarn {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{slog.String("notice", n.Message)}
	if n.Path != "" {
		attrs = append(attrs, slog.String("path", n.Path))
	}
	l.Logger.LogAttrs(ctx, level, "daily: notice", attrs...)
}
