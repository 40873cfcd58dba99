package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

// entryRow mirrors one row of an entry query. tags_json is either the cached
// column or the dialect's aggregation, depending on the query.
type entryRow struct {
	ID        string          `db:"id"`
	Title     string          `db:"title"`
	Kind      string          `db:"kind"`
	Status    string          `db:"status"`
	Notes     string          `db:"notes"`
	URL       *string         `db:"url"`
	Source    string          `db:"source"`
	TagsJSON  string          `db:"tags_json"`
	CreatedAt model.Timestamp `db:"created_at"`
	UpdatedAt model.Timestamp `db:"updated_at"`
}

func (r entryRow) toModel() (model.Entry, error) {
	tags, err := decodeTags(r.TagsJSON)
	if err != nil {
		return model.Entry{}, err
	}
	return model.Entry{
		ID:        r.ID,
		Title:     r.Title,
		Kind:      r.Kind,
		Status:    r.Status,
		Notes:     r.Notes,
		URL:       r.URL,
		Source:    r.Source,
		Tags:      tags,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// entryColumns is the select list shared by FetchEntry and ListEntries; only
// the tags expression differs.
func entryColumns(tagsExpr string) []string {
	return []string{
		"e.id", "e.title", "e.kind", "e.status", "e.notes", "e.url", "e.source",
		tagsExpr + " AS tags_json",
		"e.created_at", "e.updated_at",
	}
}

// InsertEntry stores a new entry and returns it as read back from the database.
// The row and its tag associations are written in one transaction.
func (db *DB) InsertEntry(ctx context.Context, entry model.NewEntry) (*model.Entry, error) {
	id := xid.New().String()
	tags := model.NormalizeTags(entry.Tags)

	tagsJSON, err := encodeTags(tags)
	if err != nil {
		return nil, wrapErr("inserting entry", err)
	}

	err = db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := db.builder().
			Insert("entries").
			Columns("id", "title", "kind", "status", "notes", "url", "source", "tags_json").
			Values(id, entry.Title, entry.Kind, entry.Status, entry.Notes, entry.URL, entry.Source, tagsJSON).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		if len(tags) == 0 {
			return nil
		}
		return db.syncTags(ctx, tx, id, tags)
	})
	if err != nil {
		return nil, wrapErr("inserting entry", err)
	}

	return db.FetchEntry(ctx, id)
}

// FetchEntry returns one entry. Its tags are recomputed from entry_tags rather
// than read from the cache.
func (db *DB) FetchEntry(ctx context.Context, id string) (*model.Entry, error) {
	query, args, err := db.builder().
		Select(entryColumns(db.dialect.TagsJSON("e.id"))...).
		From("entries e").
		Where(squirrel.Eq{"e.id": id}).
		ToSql()
	if err != nil {
		return nil, wrapErr("fetching entry", err)
	}

	var row entryRow
	if err := db.conn.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("entry", id)
		}
		return nil, wrapErr("fetching entry", err)
	}

	entry, err := row.toModel()
	if err != nil {
		return nil, wrapErr("fetching entry", err)
	}
	return &entry, nil
}

// ListEntries returns the entries matching every supplied filter, newest first.
// Tags come from the tags_json cache. The tag filter is normalized like stored
// tag names, so "Go " finds "go".
func (db *DB) ListEntries(ctx context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	limit, offset := filter.Page()

	q := db.builder().
		Select(entryColumns("e.tags_json")...).
		From("entries e")

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"e.kind": *filter.Kind})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"e.status": *filter.Status})
	}
	if filter.Search != nil {
		// Both sides go through the same Unicode folding; the term is matched
		// literally, % and _ included.
		pattern := "%" + escapeLike(strings.ToLower(*filter.Search)) + "%"
		q = q.Where(squirrel.Or{
			squirrel.Expr(db.dialect.Fold("e.title")+` LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(db.dialect.Fold("e.notes")+` LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if filter.Tag != nil {
		q = q.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM entry_tags et JOIN tags t ON t.id = et.tag_id WHERE et.entry_id = e.id AND t.name = ?)",
			model.NormalizeName(*filter.Tag),
		))
	}

	// xid ids grow with creation time, so id breaks ties between entries
	// created within the same timestamp tick.
	query, args, err := q.
		OrderBy("e.created_at DESC", "e.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, wrapErr("listing entries", err)
	}

	var rows []entryRow
	if err := db.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapErr("listing entries", err)
	}

	entries := make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toModel()
		if err != nil {
			return nil, wrapErr("listing entries", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UpdateEntry merges patch into the stored entry: nil fields keep their value,
// updated_at is refreshed by the database. A non-nil Tags replaces the tag set
// in the same transaction.
func (db *DB) UpdateEntry(ctx context.Context, id string, patch model.EntryPatch) (*model.Entry, error) {
	q := db.builder().Update("entries")
	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.Kind != nil {
		q = q.Set("kind", *patch.Kind)
	}
	if patch.Status != nil {
		q = q.Set("status", *patch.Status)
	}
	if patch.Notes != nil {
		q = q.Set("notes", *patch.Notes)
	}
	if patch.URL != nil {
		q = q.Set("url", *patch.URL)
	}
	if patch.Source != nil {
		q = q.Set("source", *patch.Source)
	}
	q = q.Set("updated_at", squirrel.Expr(db.dialect.Now())).
		Where(squirrel.Eq{"id": id})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, wrapErr("updating entry", err)
	}

	err = db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := execExpectingRow(ctx, tx, "entry", id, query, args...); err != nil {
			return err
		}
		if patch.Tags == nil {
			return nil
		}
		return db.syncTags(ctx, tx, id, model.NormalizeTags(*patch.Tags))
	})
	if err != nil {
		return nil, wrapErr("updating entry", err)
	}

	return db.FetchEntry(ctx, id)
}

// DeleteEntry removes an entry together with its tag associations.
func (db *DB) DeleteEntry(ctx context.Context, id string) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := db.builder().Delete("entry_tags").Where(squirrel.Eq{"entry_id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		query, args, err = db.builder().Delete("entries").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		return execExpectingRow(ctx, tx, "entry", id, query, args...)
	})
	if err != nil {
		return wrapErr("deleting entry", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match itself literally in a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
