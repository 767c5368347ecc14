// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotDailyFile    = errors.New("not a daily file")
	ErrTemplateMissing = errors.New("template not found")
	ErrInvalidSettings = errors.New("invalid settings")
)
