// Package repository declares the storage contracts the services depend on.
// The sqlstore package implements all three on top of SQLite or PostgreSQL.
package repository

import (
	"context"

	"github.com/sakif/dokodemo-door/internal/model"
)

type EntryRepository interface {
	InsertEntry(ctx context.Context, entry model.NewEntry) (*model.Entry, error)
	FetchEntry(ctx context.Context, id string) (*model.Entry, error)
	ListEntries(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error)
	UpdateEntry(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CategoryExists(ctx context.Context, name string) (bool, error)
}

type TagRepository interface {
	CreateTag(ctx context.Context, name string) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}
