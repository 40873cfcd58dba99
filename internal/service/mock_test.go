package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

// =========================================================================
// IN-MEMORY REPOSITORY
// =========================================================================
//
// memRepo implements all three repository interfaces with maps, the same way
// the store does on disk: names and tags are normalized, ids are generated.
// failWith, when set, is returned by every call so tests can simulate a
// database failure.

type memRepo struct {
	entries    map[string]*model.Entry
	categories map[string]*model.Category
	tags       map[string]*model.Tag
	nextID     int

	lastFilter model.EntryFilter
	lastPatch  model.EntryPatch
	failWith   error
}

func newMemRepo() *memRepo {
	r := &memRepo{
		entries:    make(map[string]*model.Entry),
		categories: make(map[string]*model.Category),
		tags:       make(map[string]*model.Tag),
	}
	r.categories["cat-default-note"] = &model.Category{ID: "cat-default-note", Name: model.DefaultKind}
	return r
}

func (m *memRepo) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memRepo) InsertEntry(_ context.Context, in model.NewEntry) (*model.Entry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	e := &model.Entry{
		ID:     m.id("entry"),
		Title:  in.Title,
		Kind:   in.Kind,
		Status: in.Status,
		Notes:  in.Notes,
		URL:    in.URL,
		Source: in.Source,
		Tags:   model.NormalizeTags(in.Tags),
	}
	m.entries[e.ID] = e
	out := *e
	return &out, nil
}

func (m *memRepo) FetchEntry(_ context.Context, id string) (*model.Entry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, apperror.NotFound("entry", id)
	}
	out := *e
	return &out, nil
}

func (m *memRepo) ListEntries(_ context.Context, filter model.EntryFilter) ([]model.Entry, error) {
	m.lastFilter = filter
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []model.Entry{}
	for _, e := range m.entries {
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *memRepo) UpdateEntry(_ context.Context, id string, patch model.EntryPatch) (*model.Entry, error) {
	m.lastPatch = patch
	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, apperror.NotFound("entry", id)
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Kind != nil {
		e.Kind = *patch.Kind
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.Tags != nil {
		e.Tags = model.NormalizeTags(*patch.Tags)
	}
	out := *e
	return &out, nil
}

func (m *memRepo) DeleteEntry(_ context.Context, id string) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.entries[id]; !ok {
		return apperror.NotFound("entry", id)
	}
	delete(m.entries, id)
	return nil
}

func (m *memRepo) CreateCategory(_ context.Context, name, description string) (*model.Category, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	name = model.NormalizeName(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name cannot be empty")
	}
	for _, c := range m.categories {
		if c.Name == name {
			return nil, apperror.DuplicateName("category", name)
		}
	}
	c := &model.Category{ID: m.id("cat"), Name: name, Description: description}
	m.categories[c.ID] = c
	out := *c
	return &out, nil
}

func (m *memRepo) GetCategory(_ context.Context, id string) (*model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFound("category", id)
	}
	out := *c
	return &out, nil
}

func (m *memRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []model.Category{}
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) UpdateCategory(_ context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFound("category", id)
	}
	if patch.Name != nil {
		c.Name = model.NormalizeName(*patch.Name)
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	out := *c
	return &out, nil
}

func (m *memRepo) DeleteCategory(_ context.Context, id string) error {
	c, ok := m.categories[id]
	if !ok {
		return apperror.NotFound("category", id)
	}
	for _, e := range m.entries {
		if e.Kind == c.Name {
			return apperror.Conflict("category", "in use by entries")
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *memRepo) CategoryExists(_ context.Context, name string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, c := range m.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) CreateTag(_ context.Context, name string) (*model.Tag, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name cannot be empty")
	}
	for _, t := range m.tags {
		if t.Name == name {
			return nil, apperror.DuplicateName("tag", name)
		}
	}
	t := &model.Tag{ID: m.id("tag"), Name: name}
	m.tags[t.ID] = t
	out := *t
	return &out, nil
}

func (m *memRepo) ListTags(_ context.Context) ([]model.Tag, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []model.Tag{}
	for _, t := range m.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memRepo) DeleteTag(_ context.Context, id string) error {
	if _, ok := m.tags[id]; !ok {
		return apperror.NotFound("tag", id)
	}
	delete(m.tags, id)
	return nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEntryService(t *testing.T) (*EntryService, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	return NewEntryService(repo, repo, testLogger()), repo
}

func strPtr(s string) *string { return &s }
