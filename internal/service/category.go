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

type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*model.Category, error) {
	category, err := s.repo.CreateCategory(ctx, name, description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("name", category.Name),
	)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "category ID is required")
	}

	category, err := s.repo.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated",
		slog.String("id", category.ID),
		slog.String("name", category.Name),
	)
	return category, nil
}

// Delete removes a category. It fails with apperror.ErrConflict while any
// entry still uses the category name as its kind.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "category ID is required")
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", slog.String("id", id))
	return nil
}
