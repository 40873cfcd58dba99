package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

const categoryReturning = "RETURNING id, name, description, created_at"

func (db *DB) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name cannot be empty")
	}

	query, args, err := db.builder().
		Insert("categories").
		Columns("id", "name", "description").
		Values(xid.New().String(), name, description).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return nil, wrapErr("creating category", err)
	}

	var category model.Category
	if err := db.conn.GetContext(ctx, &category, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.DuplicateName("category", name)
		}
		return nil, wrapErr("creating category", err)
	}
	return &category, nil
}

func (db *DB) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	query, args, err := db.builder().
		Select("id", "name", "description", "created_at").
		From("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, wrapErr("fetching category", err)
	}

	var category model.Category
	if err := db.conn.GetContext(ctx, &category, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category", id)
		}
		return nil, wrapErr("fetching category", err)
	}
	return &category, nil
}

// ListCategories returns every category ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	query, args, err := db.builder().
		Select("id", "name", "description", "created_at").
		From("categories").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, wrapErr("listing categories", err)
	}

	categories := []model.Category{}
	if err := db.conn.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, wrapErr("listing categories", err)
	}
	return categories, nil
}

// UpdateCategory merges patch into the stored category. A supplied name is
// normalized and must stay non-empty and unique.
//
// Renaming does not touch entries: entries whose kind matched the old name keep
// it, and the old name then fails kind validation on their next update.
func (db *DB) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	if patch.Name == nil && patch.Description == nil {
		return db.GetCategory(ctx, id)
	}

	q := db.builder().Update("categories")

	var name string
	if patch.Name != nil {
		name = model.NormalizeName(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "category name cannot be empty")
		}
		q = q.Set("name", name)
	}
	if patch.Description != nil {
		q = q.Set("description", *patch.Description)
	}

	query, args, err := q.
		Where(squirrel.Eq{"id": id}).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return nil, wrapErr("updating category", err)
	}

	var category model.Category
	if err := db.conn.GetContext(ctx, &category, query, args...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, apperror.NotFound("category", id)
		case isUniqueViolation(err):
			return nil, apperror.DuplicateName("category", name)
		}
		return nil, wrapErr("updating category", err)
	}
	return &category, nil
}

// DeleteCategory removes a category that no entry uses as its kind.
// The usage check and the delete share one transaction.
func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := db.builder().
			Select("1").
			From("entries e").
			Join("categories c ON c.name = e.kind").
			Where(squirrel.Eq{"c.id": id}).
			Prefix("SELECT EXISTS(").
			Suffix(")").
			ToSql()
		if err != nil {
			return err
		}

		var inUse bool
		if err := tx.GetContext(ctx, &inUse, query, args...); err != nil {
			return err
		}
		if inUse {
			return apperror.Conflict("category", "in use by entries")
		}

		query, args, err = db.builder().Delete("categories").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		return execExpectingRow(ctx, tx, "category", id, query, args...)
	})
	if err != nil {
		return wrapErr("deleting category", err)
	}
	return nil
}

// CategoryExists reports whether a category with exactly this name exists.
// The name is compared as given, without normalization.
func (db *DB) CategoryExists(ctx context.Context, name string) (bool, error) {
	query, args, err := db.builder().
		Select("1").
		From("categories").
		Where(squirrel.Eq{"name": name}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, wrapErr("checking category", err)
	}

	var exists bool
	if err := db.conn.GetContext(ctx, &exists, query, args...); err != nil {
		return false, wrapErr("checking category", err)
	}
	return exists, nil
}
