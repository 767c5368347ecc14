package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/starford/dailyfolder/internal/dailyservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *dailyservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *dailyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// decodeOptional decodes a JSON body into v. An empty body leaves v as is.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// GetToday handles GET /api/daily/today.
//
//	@Summary		Find today's daily note
//	@Tags			daily
//	@Produce		json
//	@Success		200	{object}	DailyFile
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily/today [get]
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Today(r.Context())
	if err != nil {
		writeError(w, "find today", err)
		return
	}
	writeJSON(w, http.StatusOK, dailyFileDTO(d))
}

// OpenToday handles POST /api/daily/today.
//
//	@Summary		Open today's daily note, creating its folder when missing
//	@Tags			daily
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenTodayRequest	false	"Description for a new folder"
//	@Success		200		{object}	DailyResult	"Existing daily note"
//	@Success		201		{object}	DailyResult	"Created daily note"
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily/today [post]
func (h *Handler) OpenToday(w http.ResponseWriter, r *http.Request) {
	var req OpenTodayRequest
	if err := decodeOptional(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.OpenToday(r.Context(), req.Description)
	if err != nil {
		writeError(w, "open today", err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// Next handles GET /api/daily/next.
//
//	@Summary		Find the next daily note after the given one
//	@Tags			daily
//	@Produce		json
//	@Param			path	query		string	true	"Current daily note"
//	@Success		200		{object}	DailyFile
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily/next [get]
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.nearest(w, r, true)
}

// Previous handles GET /api/daily/previous.
//
//	@Summary		Find the previous daily note before the given one
//	@Tags			daily
//	@Produce		json
//	@Param			path	query		string	true	"Current daily note"
//	@Success		200		{object}	DailyFile
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily/previous [get]
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	h.nearest(w, r, false)
}

func (h *Handler) nearest(w http.ResponseWriter, r *http.Request, forward bool) {
	current := r.URL.Query().Get("path")
	if current == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	d, err := h.svc.Nearest(r.Context(), current, forward)
	if err != nil {
		writeError(w, "find nearest", err)
		return
	}
	writeJSON(w, http.StatusOK, dailyFileDTO(d))
}

// Rename handles POST /api/daily/rename.
//
//	@Summary		Rename a daily folder and its note
//	@Tags			daily
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenameRequest	true	"Daily note and new description"
//	@Success		200		{object}	DailyResult
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily/rename [post]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeOptional(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	res, err := h.svc.Rename(r.Context(), req.Path, req.Description)
	if err != nil {
		writeError(w, "rename", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Description handles GET /api/daily/description.
//
//	@Summary		Get the description part of a daily note's name
//	@Tags			daily
//	@Produce		json
//	@Param			path	query		string	true	"Daily note"
//	@Success		200		{object}	DescriptionResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily/description [get]
func (h *Handler) Description(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("path")
	if current == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	desc, err := h.svc.CurrentDescription(r.Context(), current)
	if err != nil {
		writeError(w, "current description", err)
		return
	}
	writeJSON(w, http.StatusOK, DescriptionResponse{Path: current, Description: desc})
}

// Preview handles GET /api/daily/preview.
//
//	@Summary		Preview the folder path for a description
//	@Tags			daily
//	@Produce		json
//	@Param			description	query		string	false	"Description typed so far"
//	@Success		200			{object}	PreviewResponse
//	@Security		BearerAuth
//	@Router			/daily/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	writeJSON(w, http.StatusOK, PreviewResponse{Description: desc, Path: h.svc.Preview(r.Context(), desc)})
}

// GetSettings handles GET /api/settings.
//
//	@Summary		Get the daily-folder settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	Settings
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings(r.Context()))
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary		Replace the daily-folder settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Settings	true	"New settings"
//	@Success		200		{object}	Settings
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	// Fields missing from the body keep their current value.
	cfg := h.svc.Settings(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	saved, err := h.svc.UpdateSettings(r.Context(), cfg)
	if err != nil {
		writeError(w, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
