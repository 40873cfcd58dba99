package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/dokodemo-door/internal/model"
	"github.com/sakif/dokodemo-door/internal/service"
)

// CaptureHandler serves the two shortcut ways of creating an entry: the
// quick-capture endpoint and the Telegram webhook.
type CaptureHandler struct {
	capture *service.CaptureService
	logger  *slog.Logger
}

func NewCaptureHandler(capture *service.CaptureService, logger *slog.Logger) *CaptureHandler {
	return &CaptureHandler{capture: capture, logger: logger}
}

type quickCaptureRequest struct {
	Text   string   `json:"text"`
	Title  *string  `json:"title"`
	Kind   *string  `json:"kind"`
	Status *string  `json:"status"`
	Source *string  `json:"source"`
	URL    *string  `json:"url"`
	Tags   []string `json:"tags"`
}

// HandleQuickCapture stores free text as a note.
//
// HTTP: POST /quick-capture
// REQUEST BODY: {"text": "Read Pluto https://example.com/pluto"}
func (h *CaptureHandler) HandleQuickCapture(w http.ResponseWriter, r *http.Request) {
	var req quickCaptureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	entry, err := h.capture.QuickCapture(r.Context(), service.QuickCaptureInput{
		Text:   req.Text,
		Title:  req.Title,
		Kind:   req.Kind,
		Status: req.Status,
		Source: req.Source,
		URL:    req.URL,
		Tags:   req.Tags,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

type acceptedResponse struct {
	Status  string `json:"status"`
	EntryID string `json:"entry_id"`
}

// HandleTelegramUpdate receives a Bot API update. The secret header is checked
// by auth.RequireTelegramSecret before this runs.
//
// HTTP: POST /integrations/telegram/update → 202 {"status":"accepted","entry_id":"..."}
func (h *CaptureHandler) HandleTelegramUpdate(w http.ResponseWriter, r *http.Request) {
	var update model.TelegramUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, h.logger, err)
		return
	}

	entry, err := h.capture.TelegramCapture(r.Context(), update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted", EntryID: entry.ID})
}
