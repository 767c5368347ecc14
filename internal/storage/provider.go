// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/dailyfolder/internal/models"

// Provider is the interface for vault file operations. All paths are
// relative to the vault root and use "/" as separator.
type Provider interface {
	// List returns every .md file in the vault.
	List() ([]models.CandidateFile, error)
	// Stat describes the .md file at path; it fails if the file is missing.
	Stat(path string) (models.CandidateFile, error)
	// Exists reports whether anything exists at path.
	Exists(path string) bool
	// IsDir reports whether path is a folder. The empty path is the vault root.
	IsDir(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// CreateFolder creates one folder. The parent must exist and the folder must not.
	CreateFolder(path string) error
	// Rename moves a file or folder. The target must not exist.
	Rename(oldPath, newPath string) error
	// Remove deletes a file or an empty folder.
	Remove(path string) error
}
