package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON / writeError, so the wire format is
// decided here once.
//
// CONSISTENT ERROR FORMAT:
//
//	{"error": "invalid_status", "message": "invalid status `done`, allowed: ...",
//	 "field": "status", "allowed": ["planned", ...]}
//
// "error" is machine readable, "message" is for humans; field/value/allowed are
// present only when the failure is about one input field.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/dokodemo-door/internal/apperror"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Value   string   `json:"value,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// decodeJSON reads a single JSON document from the request body into dst.
// A malformed or oversized body is reported as a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "request body is required")
		}
		return apperror.ValidationFailed("body", "invalid JSON body: "+err.Error())
	}
	return nil
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
//
//	ErrValidation / ErrInvalidKind / ErrInvalidStatus → 400
//	ErrUnauthorized                                   → 401
//	ErrNotFound                                       → 404
//	ErrDuplicateName / ErrConflict                    → 409
//	anything else                                     → 500
//
// 500s never echo the error: the message may contain SQL or file paths. The
// full error, including a database Cause, goes to the log instead.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, errorType := classify(err)

	var appErr *apperror.AppError
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		attrs := []any{slog.String("error", err.Error())}
		if errors.As(err, &appErr) && appErr.Cause != nil {
			attrs = append(attrs, slog.String("cause", appErr.Cause.Error()))
		}
		logger.Error("request failed", attrs...)

		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
		return
	}

	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: appErr.Message,
		Field:   appErr.Field,
		Value:   appErr.Value,
		Allowed: appErr.Allowed,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrInvalidKind):
		return http.StatusBadRequest, "invalid_kind"
	case errors.Is(err, apperror.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_status"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
