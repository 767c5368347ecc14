package api

import (
	"path"
	"time"

	"github.com/starford/dailyfolder/internal/dailyservice"
	"github.com/starford/dailyfolder/internal/models"
)

// OpenTodayRequest is the request body for opening today's daily folder.
type OpenTodayRequest struct {
	Description string `json:"description" example:"team sync"`
}

// RenameRequest is the request body for renaming a daily folder.
type RenameRequest struct {
	Path        string `json:"path" example:"dailies/20240102/20240102.md" validate:"required"`
	Description string `json:"description" example:"planning"`
}

// DailyResult is the result of opening, creating or renaming a daily folder
// (aliased from the domain layer).
type DailyResult = dailyservice.Result

// DailyFile is a resolved daily note.
type DailyFile struct {
	Path   string    `json:"path" example:"dailies/20240102/20240102.md" validate:"required"`
	Folder string    `json:"folder" example:"dailies/20240102" validate:"required"`
	Date   time.Time `json:"date" validate:"required"`
	Prefix string    `json:"prefix" example:"20240102" validate:"required"`
}

func dailyFileDTO(d models.DailyFile) DailyFile {
	return DailyFile{Path: d.File.Path, Folder: path.Dir(d.File.Path), Date: d.Date, Prefix: d.Prefix}
}

// DescriptionResponse carries the description of an existing daily folder.
type DescriptionResponse struct {
	Path        string `json:"path" example:"dailies/20240102_sync/20240102_sync.md"`
	Description string `json:"description" example:"sync"`
}

// PreviewResponse carries the folder path a description would produce.
type PreviewResponse struct {
	Description string `json:"description" example:"team sync"`
	Path        string `json:"path" example:"dailies/20240102_team_sync"`
}

// Settings is the settings payload (aliased from the domain layer).
type Settings = models.Settings
