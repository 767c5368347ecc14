package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/dailyfolder/internal"
	"github.com/starford/dailyfolder/internal/notify"
	pkgconfig "github.com/starford/dailyfolder/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

// withSession opens the vault for a one-shot command. Notices are printed
// to stderr, results to stdout.
func withSession(ctx context.Context, cmd *cli.Command, fn func(*internal.Session) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Keep one-shot output readable: only warnings reach the JSON log.
	if !cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelWarn
	}
	session, err := internal.Open(ctx,
		internal.WithConfig(cfg),
		internal.WithNotifier(notify.NewTerminal(os.Stderr)),
		internal.WithLogOutput(os.Stderr),
	)
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(session)
}

func joinArgs(cmd *cli.Command, from int) string {
	args := cmd.Args().Slice()
	if len(args) <= from {
		return ""
	}
	return strings.Join(args[from:], " ")
}

func today(ctx context.Context, cmd *cli.Command) error {
	return withSession(ctx, cmd, func(s *internal.Session) error {
		res, err := s.Service.OpenToday(ctx, cmd.String("description"))
		if err != nil {
			return err
		}
		fmt.Println(res.Path)
		return nil
	})
}

func nearest(forward bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		current := cmd.Args().First()
		if current == "" {
			return fmt.Errorf("path of the current daily note is required")
		}
		return withSession(ctx, cmd, func(s *internal.Session) error {
			d, err := s.Service.Nearest(ctx, current, forward)
			if err != nil {
				return err
			}
			fmt.Println(d.File.Path)
			return nil
		})
	}
}

func rename(ctx context.Context, cmd *cli.Command) error {
	current := cmd.Args().First()
	if current == "" {
		return fmt.Errorf("path of the daily note to rename is required")
	}
	return withSession(ctx, cmd, func(s *internal.Session) error {
		res, err := s.Service.Rename(ctx, current, joinArgs(cmd, 1))
		if err != nil {
			return err
		}
		fmt.Println(res.Path)
		return nil
	})
}

func describe(ctx context.Context, cmd *cli.Command) error {
	current := cmd.Args().First()
	if current == "" {
		return fmt.Errorf("path of a daily note is required")
	}
	return withSession(ctx, cmd, func(s *internal.Session) error {
		desc, err := s.Service.CurrentDescription(ctx, current)
		if err != nil {
			return err
		}
		fmt.Println(desc)
		return nil
	})
}

func preview(ctx context.Context, cmd *cli.Command) error {
	return withSession(ctx, cmd, func(s *internal.Session) error {
		fmt.Println(s.Service.Preview(ctx, joinArgs(cmd, 0)))
		return nil
	})
}

func showSettings(ctx context.Context, cmd *cli.Command) error {
	return withSession(ctx, cmd, func(s *internal.Session) error {
		cfg := s.Service.Settings(ctx)
		changed := false
		if cmd.IsSet("format") {
			cfg.Format, changed = cmd.String("format"), true
		}
		if cmd.IsSet("root") {
			cfg.Root, changed = cmd.String("root"), true
		}
		if cmd.IsSet("template") {
			cfg.TemplatePath, changed = cmd.String("template"), true
		}
		if cmd.IsSet("description") {
			cfg.DescriptionEnabled, changed = cmd.Bool("description"), true
		}
		if changed {
			var err error
			if cfg, err = s.Service.UpdateSettings(ctx, cfg); err != nil {
				return err
			}
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	})
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cmd := &cli.Command{
		Name:    "dailyfolder",
		Usage:   "Create, navigate and rename date-stamped daily folders in a Markdown vault",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log at the configured level in one-shot commands",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, event stream and vault watcher",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the daily-folder tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:  "today",
				Usage: "Open today's daily folder, creating it when missing; prints the note path",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Description appended to a new folder's name",
					},
				},
				Action: today,
			},
			{
				Name:      "next",
				Usage:     "Print the next daily note after the given one",
				ArgsUsage: "<path>",
				Action:    nearest(true),
			},
			{
				Name:      "prev",
				Aliases:   []string{"previous"},
				Usage:     "Print the previous daily note before the given one",
				ArgsUsage: "<path>",
				Action:    nearest(false),
			},
			{
				Name:      "rename",
				Usage:     "Rename a daily folder and its note to the date plus a new description",
				ArgsUsage: "<path> [description]",
				Action:    rename,
			},
			{
				Name:      "describe",
				Usage:     "Print the description part of a daily note's name",
				ArgsUsage: "<path>",
				Action:    describe,
			},
			{
				Name:      "preview",
				Usage:     "Print the folder path a description would produce today",
				ArgsUsage: "[description]",
				Action:    preview,
			},
			{
				Name:  "settings",
				Usage: "Show the daily-folder settings, changing the ones given as flags",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "Date pattern, e.g. YYYYMMDD"},
					&cli.StringFlag{Name: "root", Usage: "Folder holding the daily folders (empty for the vault root)"},
					&cli.StringFlag{Name: "template", Usage: "Template note copied into new daily notes"},
					&cli.BoolFlag{Name: "description", Usage: "Use descriptions when creating daily folders"},
				},
				Action: showSettings,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
