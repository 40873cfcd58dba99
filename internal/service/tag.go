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

// TagService exposes tags as a resource of their own. Tags are usually created
// implicitly when an entry is tagged; this is for managing them directly.
type TagService struct {
	repo   repository.TagRepository
	logger *slog.Logger
}

func NewTagService(repo repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{repo: repo, logger: logger}
}

func (s *TagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	tag, err := s.repo.CreateTag(ctx, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag created", slog.String("id", tag.ID), slog.String("name", tag.Name))
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		s.logger.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// Delete removes a tag from every entry. Cached tag lists of those entries are
// refreshed only when their tags are next written.
func (s *TagService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "tag ID is required")
	}

	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return err
	}

	s.logger.Info("tag deleted", slog.String("id", id))
	return nil
}
