package internal

import (
	"io"

	"github.com/starford/dailyfolder/internal/notify"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	notifier notify.Notifier
	logOut   io.Writer
	version  string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithNotifier adds a notifier that receives every notice besides the
// built-in ones.
func WithNotifier(n notify.Notifier) Option {
	return func(a *application) {
		a.notifier = n
	}
}

// WithLogOutput sets where the JSON log goes. Defaults to stdout, or
// stderr when stdout carries a protocol.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

func newApplication(opts []Option) *application {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
