package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

// SyncTags replaces the tag set of an entry with exactly tags.
//
// THE ALGORITHM (full replace, not a diff):
//  1. normalize: trim, lowercase, drop empties, dedupe, sort
//  2. create every tag that does not exist yet (ON CONFLICT DO NOTHING, so a
//     concurrent insert of the same name is absorbed)
//  3. delete all associations of the entry
//  4. insert one association per tag, resolved by name
//  5. write the JSON cache onto the entry row
//
// All five steps share one transaction, so readers never observe the entry
// between steps 3 and 4. Calling it twice with the same input leaves the same
// relational and cached state.
func (db *DB) SyncTags(ctx context.Context, entryID string, tags []string) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return db.syncTags(ctx, tx, entryID, model.NormalizeTags(tags))
	})
	if err != nil {
		return wrapErr("syncing tags", err)
	}
	return nil
}

// syncTags runs steps 2-5 on an already normalized tag set using the caller's
// transaction.
func (db *DB) syncTags(ctx context.Context, tx sqlx.ExecerContext, entryID string, tags []string) error {
	for _, name := range tags {
		query, args, err := db.builder().
			Insert("tags").
			Columns("id", "name").
			Values(xid.New().String(), name).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("building tag insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting tag %q: %w", name, err)
		}
	}

	query, args, err := db.builder().
		Delete("entry_tags").
		Where(squirrel.Eq{"entry_id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building association delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clearing associations of %s: %w", entryID, err)
	}

	if len(tags) > 0 {
		// The nested select keeps the default `?` format; the outer builder
		// rewrites every placeholder once for the active dialect. The cast gives
		// postgres a type for a parameter that only appears in a select list.
		resolve := squirrel.Select().
			Column(squirrel.Expr("CAST(? AS TEXT)", entryID)).
			Column("id").
			From("tags").
			Where(squirrel.Eq{"name": tags})

		query, args, err = db.builder().
			Insert("entry_tags").
			Columns("entry_id", "tag_id").
			Select(resolve).
			ToSql()
		if err != nil {
			return fmt.Errorf("building association insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("associating tags with %s: %w", entryID, err)
		}
	}

	tagsJSON, err := encodeTags(tags)
	if err != nil {
		return err
	}

	query, args, err = db.builder().
		Update("entries").
		Set("tags_json", tagsJSON).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building cache update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("writing tag cache of %s: %w", entryID, err)
	}

	return nil
}

// CreateTag inserts a tag explicitly. The name is normalized; an empty name is
// a validation error and an existing name a DuplicateName error.
func (db *DB) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name cannot be empty")
	}

	query, args, err := db.builder().
		Insert("tags").
		Columns("id", "name").
		Values(xid.New().String(), name).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return nil, wrapErr("creating tag", err)
	}

	var tag model.Tag
	if err := db.conn.GetContext(ctx, &tag, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.DuplicateName("tag", name)
		}
		return nil, wrapErr("creating tag", err)
	}
	return &tag, nil
}

// ListTags returns every tag ordered by name.
func (db *DB) ListTags(ctx context.Context) ([]model.Tag, error) {
	query, args, err := db.builder().
		Select("id", "name", "created_at").
		From("tags").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, wrapErr("listing tags", err)
	}

	tags := []model.Tag{}
	if err := db.conn.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, wrapErr("listing tags", err)
	}
	return tags, nil
}

// DeleteTag removes a tag and its associations. The tags_json cache of the
// entries that carried it is not rewritten; FetchEntry recomputes tags from the
// association table, List keeps showing the cached value until the next sync.
func (db *DB) DeleteTag(ctx context.Context, id string) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := db.builder().Delete("entry_tags").Where(squirrel.Eq{"tag_id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		query, args, err = db.builder().Delete("tags").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		return execExpectingRow(ctx, tx, "tag", id, query, args...)
	})
	if err != nil {
		return wrapErr("deleting tag", err)
	}
	return nil
}

// execExpectingRow runs a statement and maps zero affected rows to NotFound.
func execExpectingRow(ctx context.Context, q sqlx.ExecerContext, resource, id, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("invalid tags payload in database: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
