// Package testutil provides shared test helpers for setting up vaults,
// settings databases and fixed clocks.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/dailyfolder/internal/daily"
	"github.com/starford/dailyfolder/internal/dateformat"
	"github.com/starford/dailyfolder/internal/notify"
	"github.com/starford/dailyfolder/internal/settings"
	"github.com/starford/dailyfolder/internal/storage"
)

// TestSettingsStore creates a temporary settings database that is
// automatically cleaned up.
func TestSettingsStore(t *testing.T) *settings.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dailyfolder-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := settings.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteFile creates a file (and its parent folders) inside the vault.
func WriteFile(t *testing.T, vaultDir, rel, content string) {
	t.Helper()
	full := filepath.Join(vaultDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// FixedResolver returns a resolver whose clock always reads now, in UTC.
func FixedResolver(now time.Time) *daily.Resolver {
	return daily.NewResolver(dateformat.New(
		dateformat.WithClock(func() time.Time { return now }),
		dateformat.WithLocation(time.UTC),
	))
}

// Notices records notices for later inspection.
type Notices struct {
	mu   sync.Mutex
	list []notify.Notice
}

// Notify records n.
func (r *Notices) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

// Messages returns the recorded messages in order.
func (r *Notices) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.list))
	for i, n := range r.list {
		out[i] = n.Message
	}
	return out
}
