// Package models defines the domain types for dailyfolder.
package models

import (
	"path"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Settings is the daily-folder configuration. The JSON names match the
// persisted record; new fields merge over defaults when loaded.
type Settings struct {
	Format             string `json:"format" yaml:"format"`
	DescriptionEnabled bool   `json:"description" yaml:"description_enabled"`
	Root               string `json:"root" yaml:"root"`
	TemplatePath       string `json:"template" yaml:"template"`
}

var markdownPath = regexp.MustCompile(`\.md$`)

// Normalize removes a trailing "/" from Root.
func (s *Settings) Normalize() {
	s.Root = strings.TrimSuffix(s.Root, "/")
}

// Validate validates the settings. An empty format is allowed. Root must be
// a single folder name: daily files are matched by their grandparent's name,
// so a nested root would never match.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Root, validation.By(func(v any) error {
			root := v.(string)
			if strings.Contains(root, ".md") {
				return validation.NewError("validation_root_markdown", "must name a folder, not a .md file")
			}
			if strings.Contains(root, "/") {
				return validation.NewError("validation_root_nested", "must be a single folder name, nested folders are not supported")
			}
			return nil
		})),
		validation.Field(&s.TemplatePath, validation.Match(markdownPath).Error("must end with .md")),
	)
}

// CandidateFile is a Markdown file in the vault, described by its name and
// the names of the two folders above it. The vault root's name is "".
type CandidateFile struct {
	Basename        string `json:"basename"`
	ParentName      string `json:"parent_name"`
	GrandparentName string `json:"grandparent_name"`
	Path            string `json:"path"`
}

// DailyFile is a CandidateFile proven to be a daily file, with the date
// parsed from its name and the name prefix that was parsed.
type DailyFile struct {
	File   CandidateFile `json:"file"`
	Date   time.Time     `json:"date"`
	Prefix string        `json:"prefix"`
}

// CandidateFromPath describes the Markdown file at a vault-relative,
// slash-separated path. Folders above the vault root have name "".
func CandidateFromPath(rel string) CandidateFile {
	rel = strings.TrimPrefix(rel, "/")
	c := CandidateFile{
		Basename: strings.TrimSuffix(path.Base(rel), ".md"),
		Path:     rel,
	}
	dir := path.Dir(rel)
	if dir == "." {
		return c
	}
	c.ParentName = path.Base(dir)
	if grand := path.Dir(dir); grand != "." {
		c.GrandparentName = path.Base(grand)
	}
	return c
}
