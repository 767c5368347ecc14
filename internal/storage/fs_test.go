package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/starford/dailyfolder/internal/apperr"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadMissingIsNotExist(t *testing.T) {
	s := tempVault(t)
	_, err := s.Read("nope.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("dailies/20240101/20240101.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not md"))
	_ = s.Write(".obsidian/workspace.md", []byte("hidden"))

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })

	daily := items[1]
	if daily.Path != "dailies/20240101/20240101.md" {
		t.Errorf("path = %q", daily.Path)
	}
	if daily.Basename != "20240101" || daily.ParentName != "20240101" || daily.GrandparentName != "dailies" {
		t.Errorf("candidate = %+v", daily)
	}
	if items[0].ParentName != "" || items[0].GrandparentName != "" {
		t.Errorf("root file should have empty folder names: %+v", items[0])
	}
}

func TestStat(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("dailies/20240101/20240101.md", []byte("x"))

	c, err := s.Stat("dailies/20240101/20240101.md")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if c.Basename != "20240101" || c.GrandparentName != "dailies" {
		t.Errorf("candidate = %+v", c)
	}
	if _, err := s.Stat("dailies/20240101"); err == nil {
		t.Error("expected error for folder")
	}
	if _, err := s.Stat("dailies/missing.md"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestCreateFolder(t *testing.T) {
	s := tempVault(t)
	if err := s.CreateFolder("dailies"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if !s.IsDir("dailies") {
		t.Error("folder not created")
	}
	if err := s.CreateFolder("dailies"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("second create err = %v, want ErrAlreadyExists", err)
	}
	if err := s.CreateFolder("missing/child"); err == nil {
		t.Error("expected error when parent is missing")
	}
}

func TestRename(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("d/old/old.md", []byte("data"))

	if err := s.Rename("d/old/old.md", "d/old/new.md"); err != nil {
		t.Fatalf("Rename file: %v", err)
	}
	if err := s.Rename("d/old", "d/new"); err != nil {
		t.Fatalf("Rename folder: %v", err)
	}
	got, err := s.Read("d/new/new.md")
	if err != nil {
		t.Fatalf("Read after rename: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
	if s.Exists("d/old") {
		t.Error("old folder should not exist")
	}
}

func TestRenameRefusesOverwrite(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("b.md", []byte("b"))
	if err := s.Rename("a.md", "b.md"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
	got, _ := s.Read("b.md")
	if string(got) != "b" {
		t.Errorf("target overwritten: %q", got)
	}
}

func TestRemove(t *testing.T) {
	s := tempVault(t)
	_ = s.CreateFolder("empty")
	if err := s.Remove("empty"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Exists("empty") {
		t.Error("folder still exists")
	}
	if err := s.Remove(""); err == nil {
		t.Error("expected error removing the vault root")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if err := s.CreateFolder(p); err == nil {
			t.Errorf("expected error for folder %q", p)
		}
		if s.Exists(p) {
			t.Errorf("Exists(%q) should be false", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("atomic.md", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.md", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, tmpPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/dailyfolder-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "dailyfolder-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
