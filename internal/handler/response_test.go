package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/dokodemo-door/internal/apperror"
)

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"validation", apperror.ValidationFailed("title", "title is required"), http.StatusBadRequest, "validation_error"},
		{"invalid kind", apperror.InvalidKind("manga"), http.StatusBadRequest, "invalid_kind"},
		{"invalid status", apperror.InvalidStatus("x", []string{"planned"}), http.StatusBadRequest, "invalid_status"},
		{"unauthorized", apperror.Unauthorized(), http.StatusUnauthorized, "unauthorized"},
		{"not found", apperror.NotFound("entry", "e1"), http.StatusNotFound, "not_found"},
		{"duplicate", apperror.DuplicateName("tag", "go"), http.StatusConflict, "duplicate_name"},
		{"conflict", apperror.Conflict("category", "in use by entries"), http.StatusConflict, "conflict"},
		{"wrapped", fmt.Errorf("creating entry: %w", apperror.NotFound("entry", "e1")), http.StatusNotFound, "not_found"},
		{"database", apperror.Database("listing entries", errors.New("disk I/O error")), http.StatusInternalServerError, "internal_error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rr := httptest.NewRecorder()

			writeError(rr, logger, tt.err)

			assert.Equal(t, tt.wantCode, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantType, resp.Error)

			if tt.wantCode == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", resp.Message)
				assert.Contains(t, logs.String(), "request failed")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestWriteError_LogsDatabaseCause(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rr := httptest.NewRecorder()

	writeError(rr, logger, apperror.Database("deleting tag", errors.New("database is locked")))

	assert.NotContains(t, rr.Body.String(), "locked")
	assert.Contains(t, logs.String(), "database is locked")
}
