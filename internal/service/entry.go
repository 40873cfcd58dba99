// Package service contains the business rules that sit between the HTTP
// handlers and the store.
//
// THE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → applies defaults, validates, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services depend on the repository interfaces, never on sqlstore, so tests
// inject in-memory fakes and main.go injects the real store.
//
// WHAT LIVES HERE (and not in the store):
//   - defaults a client may omit (status "planned", source "manual", ...)
//   - kind/status validation, which needs the categories table but is a rule,
//     not a storage concern
//   - capture heuristics (title from the first line, URL from the text)
//
// Normalization of names and tags stays in the store, so every caller gets it.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
	"github.com/sakif/dokodemo-door/internal/repository"
)

// EntryService handles entry creation, listing and updates.
type EntryService struct {
	entries    repository.EntryRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewEntryService(entries repository.EntryRepository, categories repository.CategoryRepository, logger *slog.Logger) *EntryService {
	return &EntryService{
		entries:    entries,
		categories: categories,
		logger:     logger,
	}
}

// Create validates and stores a new entry.
//
// Empty Status and Source fall back to "planned" and "manual". Title is
// trimmed and must not be empty. Kind must name an existing category.
func (s *EntryService) Create(ctx context.Context, in model.NewEntry) (*model.Entry, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if in.Kind == "" {
		return nil, apperror.ValidationFailed("kind", "kind is required")
	}
	if in.Status == "" {
		in.Status = model.StatusPlanned
	}
	if in.Source == "" {
		in.Source = model.SourceManual
	}

	if err := ValidateKind(ctx, s.categories, in.Kind); err != nil {
		return nil, err
	}
	if err := ValidateStatus(in.Status); err != nil {
		return nil, err
	}

	entry, err := s.entries.InsertEntry(ctx, in)
	if err != nil {
		s.logger.Error("failed to create entry",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	s.logger.Info("entry created",
		slog.String("id", entry.ID),
		slog.String("kind", entry.Kind),
		slog.String("source", entry.Source),
		slog.Int("tags", len(entry.Tags)),
	)
	return entry, nil
}

// Get returns one entry. Returns apperror.ErrNotFound if it doesn't exist.
func (s *EntryService) Get(ctx context.Context, id string) (*model.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "entry ID is required")
	}
	return s.entries.FetchEntry(ctx, id)
}

// List validates the supplied filters and returns the matching entries.
func (s *EntryService) List(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	if filter.Kind != nil {
		if err := ValidateKind(ctx, s.categories, *filter.Kind); err != nil {
			return nil, err
		}
	}
	if filter.Status != nil {
		if err := ValidateStatus(*filter.Status); err != nil {
			return nil, err
		}
	}
	entries, err := s.entries.ListEntries(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// Update applies a partial update. Only supplied fields are validated and
// changed; a supplied Tags replaces the whole tag set.
func (s *EntryService) Update(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "entry ID is required")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title cannot be empty")
		}
		patch.Title = &title
	}
	if patch.Kind != nil {
		if err := ValidateKind(ctx, s.categories, *patch.Kind); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if err := ValidateStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	entry, err := s.entries.UpdateEntry(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry updated",
		slog.String("id", entry.ID),
		slog.String("status", entry.Status),
	)
	return entry, nil
}

// Delete removes an entry. Returns apperror.ErrNotFound if it doesn't exist.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "entry ID is required")
	}

	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		return err
	}

	s.logger.Info("entry deleted", slog.String("id", id))
	return nil
}
