// Package watch reports daily files appearing, changing and disappearing in
// the vault.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/dailyfolder/internal/daily"
	"github.com/starford/dailyfolder/internal/models"
)

// EventCallback is called for every daily file change.
// kind is one of "created", "updated", "deleted"; path is vault-relative.
type EventCallback func(kind string, path string)

// SettingsFunc returns the settings in effect. It is called per event so
// that changes made while watching apply immediately.
type SettingsFunc func() models.Settings

// Watcher classifies fsnotify events on a vault.
type Watcher struct {
	root     string
	resolver *daily.Resolver
	settings SettingsFunc
	logger   *slog.Logger
	cb       EventCallback
}

// New creates a Watcher for the vault at root.
func New(root string, resolver *daily.Resolver, settings SettingsFunc, logger *slog.Logger, cb EventCallback) *Watcher {
	return &Watcher{root: root, resolver: resolver, settings: settings, logger: logger, cb: cb}
}

// Run watches the vault until ctx is cancelled.
//
// New directories are added to the watch list as they appear, and daily
// files already inside them are reported as created. A removed or renamed
// directory is reported as the deletion of the daily note it would hold.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}

	w.logger.Info("watcher: started", slog.String("root", w.root))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || isHidden(rel) {
		return
	}
	rel = filepath.ToSlash(rel)

	if ev.Op&fsnotify.Create != 0 {
		if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
			if addErr := addDirsRecursive(fw, ev.Name); addErr != nil {
				w.logger.Warn("watcher: add new dir failed",
					slog.String("path", rel),
					slog.String("error", addErr.Error()))
			}
			w.scanNewDir(ev.Name)
			return
		}
	}

	if !strings.HasSuffix(rel, daily.NoteExt) {
		// Only directories can be removed without a .md suffix that matters.
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.report("deleted", path.Join(rel, path.Base(rel)+daily.NoteExt))
		}
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		w.report("created", rel)
	case ev.Op&fsnotify.Write != 0:
		w.report("updated", rel)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// fsnotify reports the old name on rename; the new one arrives as a Create.
		w.report("deleted", rel)
	}
}

// report calls the callback when rel names a daily file under the current
// settings.
func (w *Watcher) report(kind, rel string) {
	file := models.CandidateFromPath(rel)
	if !w.resolver.IsDailyFile(&file, w.settings()) {
		return
	}
	w.logger.Debug("watcher: daily file", slog.String("path", rel), slog.String("op", kind))
	if w.cb != nil {
		w.cb(kind, rel)
	}
}

func (w *Watcher) scanNewDir(dir string) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, daily.NoteExt) {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, p)
		if relErr != nil {
			return nil
		}
		w.report("created", filepath.ToSlash(rel))
		return nil
	})
}

func isHidden(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
