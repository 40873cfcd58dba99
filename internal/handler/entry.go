package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
	"github.com/sakif/dokodemo-door/internal/service"
)

// EntryHandler serves the /entries resource.
type EntryHandler struct {
	entries *service.EntryService
	logger  *slog.Logger
}

func NewEntryHandler(entries *service.EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{entries: entries, logger: logger}
}

type createEntryRequest struct {
	Title  string   `json:"title"`
	Kind   string   `json:"kind"`
	Status string   `json:"status"`
	Notes  string   `json:"notes"`
	URL    *string  `json:"url"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

// HandleCreate stores a new entry.
//
// HTTP: POST /entries
// REQUEST BODY: {"title": "Pluto", "kind": "book", "tags": ["manga"]}
// status, notes, url, source and tags are optional.
func (h *EntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	entry, err := h.entries.Create(r.Context(), model.NewEntry{
		Title:  req.Title,
		Kind:   req.Kind,
		Status: req.Status,
		Notes:  req.Notes,
		URL:    req.URL,
		Source: req.Source,
		Tags:   req.Tags,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleList returns entries, newest first.
//
// HTTP: GET /entries?kind=book&status=planned&search=pluto&tag=manga&limit=20&offset=40
// Every query parameter is optional.
func (h *EntryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	entries, err := h.entries.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HTTP: GET /entries/{id}
func (h *EntryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleUpdate applies a partial update. Omitted fields keep their value;
// "tags" replaces the whole tag set, [] clears it.
//
// HTTP: PATCH /entries/{id}
func (h *EntryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.EntryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	entry, err := h.entries.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HTTP: DELETE /entries/{id} → 204 No Content
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.entries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseEntryFilter maps query parameters onto an EntryFilter. A parameter that
// is absent stays nil; limit and offset must be integers when present.
func parseEntryFilter(q url.Values) (model.EntryFilter, error) {
	var filter model.EntryFilter

	optional := func(key string) *string {
		if !q.Has(key) {
			return nil
		}
		v := q.Get(key)
		return &v
	}
	filter.Kind = optional("kind")
	filter.Status = optional("status")
	filter.Search = optional("search")
	filter.Tag = optional("tag")

	paging := []struct {
		key string
		dst **int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	}
	for _, p := range paging {
		raw := optional(p.key)
		if raw == nil {
			continue
		}
		n, err := strconv.Atoi(*raw)
		if err != nil {
			return model.EntryFilter{}, apperror.ValidationFailed(p.key, p.key+" must be an integer")
		}
		*p.dst = &n
	}

	return filter, nil
}
