package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
	"github.com/sakif/dokodemo-door/internal/repository"
)

// ValidateStatus accepts exactly the four lifecycle statuses. The comparison is
// case-sensitive: "Planned" is rejected.
func ValidateStatus(status string) error {
	if slices.Contains(model.Statuses, status) {
		return nil
	}
	return apperror.InvalidStatus(status, model.Statuses)
}

// ValidateKind accepts a kind only if a category with exactly that name exists.
// The kind is not normalized first, so "Book" does not match category "book".
func ValidateKind(ctx context.Context, categories repository.CategoryRepository, kind string) error {
	exists, err := categories.CategoryExists(ctx, kind)
	if err != nil {
		return fmt.Errorf("validating kind: %w", err)
	}
	if !exists {
		return apperror.InvalidKind(kind)
	}
	return nil
}
