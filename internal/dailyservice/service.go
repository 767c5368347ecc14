// Package dailyservice runs the daily-folder commands against a vault:
// open or create today's daily folder, step to the next or previous one,
// rename the current one and manage the settings.
package dailyservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/starford/dailyfolder/internal/apperr"
	"github.com/starford/dailyfolder/internal/daily"
	"github.com/starford/dailyfolder/internal/dateformat"
	"github.com/starford/dailyfolder/internal/models"
	"github.com/starford/dailyfolder/internal/notify"
	"github.com/starford/dailyfolder/internal/settings"
	"github.com/starford/dailyfolder/internal/storage"
)

// Notice messages.
const (
	MsgOpened          = "Opened daily folder"
	MsgCreated         = "Created new daily folder"
	MsgTemplateProblem = "Problem loading template for daily folder"
	MsgNavigateNoDaily = "Open a daily folder file to use next/previous navigation"
	MsgRenamed         = "Renamed daily folder"
	MsgRenameNoDaily   = "Cannot rename - no daily folder active"
)

// Result describes the daily note an operation opened, created or renamed.
type Result struct {
	Path    string    `json:"path"`
	Folder  string    `json:"folder"`
	Date    time.Time `json:"date"`
	Created bool      `json:"created"`
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets where notices go. Defaults to notify.Discard.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithResolver sets the resolver, and with it the clock and time zone.
func WithResolver(r *daily.Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// Service coordinates storage, settings and the daily rules.
type Service struct {
	// mu serializes commands that change the vault or the settings.
	mu sync.Mutex

	store    storage.Provider
	repo     settings.Repository
	resolver *daily.Resolver
	notifier notify.Notifier
	logger   *slog.Logger

	cfgMu sync.RWMutex
	cfg   models.Settings
}

// New creates a Service and loads the persisted settings over defaults.
// repo may be nil, in which case settings changes live only in memory.
func New(ctx context.Context, store storage.Provider, repo settings.Repository, defaults models.Settings, opts ...Option) (*Service, error) {
	s := &Service{
		store:    store,
		repo:     repo,
		resolver: daily.NewResolver(dateformat.New()),
		notifier: notify.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	defaults.Normalize()
	s.cfg = defaults
	if repo != nil {
		cfg, err := repo.Load(ctx, defaults)
		if err != nil {
			return nil, fmt.Errorf("dailyservice: load settings: %w", err)
		}
		s.cfg = cfg
	}
	return s, nil
}

// Settings returns the settings in effect.
func (s *Service) Settings(_ context.Context) models.Settings {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// Resolver returns the resolver used for date rules.
func (s *Service) Resolver() *daily.Resolver {
	return s.resolver
}

// Today returns today's daily file, or apperr.ErrNotFound.
func (s *Service) Today(ctx context.Context) (models.DailyFile, error) {
	cfg := s.Settings(ctx)
	files, err := s.store.List()
	if err != nil {
		return models.DailyFile{}, fmt.Errorf("dailyservice: list: %w", err)
	}
	d, ok := s.resolver.FindToday(files, cfg)
	if !ok {
		return models.DailyFile{}, apperr.ErrNotFound
	}
	return d, nil
}

// OpenToday returns today's daily note, creating its folder and note when
// none exists yet. description is used only when descriptions are enabled.
//
// A configured template is read before anything is created, so a missing
// template aborts with apperr.ErrTemplateMissing and leaves the vault as it
// was. If creating the folder or writing the note fails, folders created by
// this call, the daily root included, are removed.
func (s *Service) OpenToday(ctx context.Context, description string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.Settings(ctx)
	r := s.resolver.Frozen()

	files, err := s.store.List()
	if err != nil {
		return Result{}, fmt.Errorf("dailyservice: list: %w", err)
	}
	if d, ok := r.FindToday(files, cfg); ok {
		s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelInfo, Message: MsgOpened, Path: d.File.Path})
		return resultOf(d, false), nil
	}

	content := ""
	if cfg.TemplatePath != "" {
		raw, err := s.store.Read(cfg.TemplatePath)
		if err != nil {
			s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelWarn, Message: MsgTemplateProblem, Path: cfg.TemplatePath})
			s.logger.Warn("daily: template unreadable",
				slog.String("template", cfg.TemplatePath),
				slog.String("error", err.Error()))
			return Result{}, fmt.Errorf("%w: %s", apperr.ErrTemplateMissing, cfg.TemplatePath)
		}
		content = r.Expand(string(raw), cfg.Format)
	}

	suffix := ""
	if cfg.DescriptionEnabled {
		suffix = daily.DescriptionSuffix(description)
	}
	folder := vaultPath(r.FolderPath(cfg.Root, cfg.Format, suffix))
	note := path.Join(folder, r.FileName(cfg.Format, suffix))

	if s.store.Exists(note) {
		return Result{}, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, note)
	}

	var created []string
	root := vaultPath(cfg.Root)
	if root != "" && !s.store.IsDir(root) {
		if err := s.store.CreateFolder(root); err != nil {
			return Result{}, fmt.Errorf("dailyservice: create root: %w", err)
		}
		created = append(created, root)
	}
	if !s.store.IsDir(folder) {
		if err := s.store.CreateFolder(folder); err != nil {
			s.removeFolders(created)
			return Result{}, fmt.Errorf("dailyservice: create folder: %w", err)
		}
		created = append(created, folder)
	}

	if err := s.store.Write(note, []byte(content)); err != nil {
		s.removeFolders(created)
		return Result{}, fmt.Errorf("dailyservice: write note: %w", err)
	}

	s.logger.Info("daily: created", slog.String("path", note))
	s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelInfo, Message: MsgCreated, Path: note})

	date, _ := r.DateOf(models.CandidateFromPath(note), cfg.Format)
	return Result{Path: note, Folder: folder, Date: date, Created: true}, nil
}

// Nearest returns the daily file closest to the one at currentPath, strictly
// later when forward is set and strictly earlier otherwise.
func (s *Service) Nearest(ctx context.Context, currentPath string, forward bool) (models.DailyFile, error) {
	cfg := s.Settings(ctx)

	current, ok := s.current(currentPath, cfg)
	if !ok {
		s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelWarn, Message: MsgNavigateNoDaily, Path: currentPath})
		return models.DailyFile{}, fmt.Errorf("%w: %s", apperr.ErrNotDailyFile, currentPath)
	}

	files, err := s.store.List()
	if err != nil {
		return models.DailyFile{}, fmt.Errorf("dailyservice: list: %w", err)
	}
	d, ok := s.resolver.FindNearest(files, cfg, current.Date, forward)
	if !ok {
		s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelInfo, Message: noneMessage(forward)})
		return models.DailyFile{}, apperr.ErrNotFound
	}
	return d, nil
}

// Rename gives the daily folder holding currentPath, and its note, the name
// date + DescriptionSuffix(description). The note is renamed first; if the
// folder rename then fails the note gets its old name back.
func (s *Service) Rename(ctx context.Context, currentPath, description string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.Settings(ctx)
	current, ok := s.current(currentPath, cfg)
	if !ok {
		s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelWarn, Message: MsgRenameNoDaily, Path: currentPath})
		return Result{}, fmt.Errorf("%w: %s", apperr.ErrNotDailyFile, currentPath)
	}

	name := s.resolver.Formatter().Format(current.Date, cfg.Format) + daily.DescriptionSuffix(description)
	oldNote := current.File.Path
	oldFolder := path.Dir(oldNote)
	tmpNote := path.Join(oldFolder, name+daily.NoteExt)
	newFolder := path.Join(path.Dir(oldFolder), name)
	newNote := path.Join(newFolder, name+daily.NoteExt)

	if newFolder != oldFolder && s.store.Exists(newFolder) {
		return Result{}, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, newFolder)
	}

	if err := s.store.Rename(oldNote, tmpNote); err != nil {
		return Result{}, fmt.Errorf("dailyservice: rename note: %w", err)
	}
	if err := s.store.Rename(oldFolder, newFolder); err != nil {
		if rbErr := s.store.Rename(tmpNote, oldNote); rbErr != nil {
			s.logger.Error("daily: rename rollback failed",
				slog.String("path", tmpNote),
				slog.String("error", rbErr.Error()))
		}
		return Result{}, fmt.Errorf("dailyservice: rename folder: %w", err)
	}

	s.logger.Info("daily: renamed", slog.String("from", oldNote), slog.String("to", newNote))
	s.notifier.Notify(ctx, notify.Notice{Level: notify.LevelInfo, Message: MsgRenamed, Path: newNote})
	return Result{Path: newNote, Folder: newFolder, Date: current.Date}, nil
}

// CurrentDescription returns the description part of the daily file at
// currentPath: its basename after the date prefix and one separator.
func (s *Service) CurrentDescription(ctx context.Context, currentPath string) (string, error) {
	cfg := s.Settings(ctx)
	current, ok := s.current(currentPath, cfg)
	if !ok {
		return "", fmt.Errorf("%w: %s", apperr.ErrNotDailyFile, currentPath)
	}
	rest := strings.TrimPrefix(current.File.Basename, current.Prefix)
	if _, size := utf8.DecodeRuneInString(rest); size > 0 {
		rest = rest[size:]
	}
	return rest, nil
}

// Preview returns the folder path a new daily folder would get for the
// description typed so far.
func (s *Service) Preview(ctx context.Context, partial string) string {
	return s.resolver.PathPreview(s.Settings(ctx), partial)
}

// UpdateSettings validates and stores cfg. The root must be an existing
// folder (or "" for the vault root) and the template, when set, an existing
// Markdown file. A trailing "/" on the root is dropped.
func (s *Service) UpdateSettings(ctx context.Context, cfg models.Settings) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", apperr.ErrInvalidSettings, err)
	}
	if cfg.Root != "" && !s.store.IsDir(cfg.Root) {
		return models.Settings{}, fmt.Errorf("%w: root: folder %q does not exist", apperr.ErrInvalidSettings, cfg.Root)
	}
	if cfg.TemplatePath != "" && !s.store.Exists(cfg.TemplatePath) {
		return models.Settings{}, fmt.Errorf("%w: template: %q does not exist", apperr.ErrInvalidSettings, cfg.TemplatePath)
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, cfg); err != nil {
			return models.Settings{}, err
		}
	}

	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()

	s.logger.Info("daily: settings updated",
		slog.String("format", cfg.Format),
		slog.String("root", cfg.Root),
		slog.String("template", cfg.TemplatePath),
		slog.Bool("description", cfg.DescriptionEnabled))
	return cfg, nil
}

// current resolves the file at p as a daily file.
func (s *Service) current(p string, cfg models.Settings) (models.DailyFile, bool) {
	file, err := s.store.Stat(vaultPath(p))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("daily: stat failed", slog.String("path", p), slog.String("error", err.Error()))
		}
		return models.DailyFile{}, false
	}
	return s.resolver.Resolve(file, cfg)
}

// removeFolders removes folders in reverse creation order.
func (s *Service) removeFolders(folders []string) {
	for i := len(folders) - 1; i >= 0; i-- {
		if err := s.store.Remove(folders[i]); err != nil {
			s.logger.Warn("daily: cleanup folder failed",
				slog.String("folder", folders[i]),
				slog.String("error", err.Error()))
		}
	}
}

func resultOf(d models.DailyFile, created bool) Result {
	return Result{Path: d.File.Path, Folder: path.Dir(d.File.Path), Date: d.Date, Created: created}
}

func noneMessage(forward bool) string {
	if forward {
		return "No newer daily folder files."
	}
	return "No older daily folder files."
}

// vaultPath turns a path built from the settings into a vault-relative one.
// With an empty root, folder paths start with "/".
func vaultPath(p string) string {
	return strings.TrimPrefix(p, "/")
}
