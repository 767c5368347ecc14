package daily

import (
	"strings"

	"github.com/starford/dailyfolder/internal/models"
)

// NoteExt is the extension of every daily note.
const NoteExt = ".md"

// DescriptionSuffix turns free text into a name suffix: "" for empty input,
// otherwise "_" followed by the input with spaces replaced by "_". No other
// character is escaped.
func DescriptionSuffix(input string) string {
	if input == "" {
		return ""
	}
	return "_" + strings.ReplaceAll(input, " ", "_")
}

// FolderPath returns root + "/" + today's formatted date + suffix.
func (r *Resolver) FolderPath(root, format, suffix string) string {
	return root + "/" + r.df.FormatNow(format) + suffix
}

// FileName returns today's formatted date + suffix + ".md".
func (r *Resolver) FileName(format, suffix string) string {
	return r.df.FormatNow(format) + suffix + NoteExt
}

// PathPreview is the folder path a description typed so far would produce.
func (r *Resolver) PathPreview(s models.Settings, partialInput string) string {
	return r.FolderPath(s.Root, s.Format, DescriptionSuffix(partialInput))
}
