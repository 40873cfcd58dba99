package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

func TestCategoryService(t *testing.T) {
	repo := newMemRepo()
	svc := NewCategoryService(repo, testLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, " Fiction ", "novels")
	require.NoError(t, err)
	assert.Equal(t, "fiction", created.Name)

	_, err = svc.Create(ctx, "fiction", "")
	assert.ErrorIs(t, err, apperror.ErrDuplicateName)

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	updated, err := svc.Update(ctx, created.ID, model.CategoryPatch{Description: strPtr("long form")})
	require.NoError(t, err)
	assert.Equal(t, "long form", updated.Description)

	_, err = svc.Update(ctx, "", model.CategoryPatch{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	repo.entries["e1"] = &model.Entry{ID: "e1", Kind: "fiction"}
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), apperror.ErrConflict)

	delete(repo.entries, "e1")
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), apperror.ErrNotFound)
}

func TestTagService(t *testing.T) {
	repo := newMemRepo()
	svc := NewTagService(repo, testLogger())
	ctx := context.Background()

	tag, err := svc.Create(ctx, "Go")
	require.NoError(t, err)
	assert.Equal(t, "go", tag.Name)

	_, err = svc.Create(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	tags, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	require.NoError(t, svc.Delete(ctx, tag.ID))
	assert.ErrorIs(t, svc.Delete(ctx, tag.ID), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), apperror.ErrValidation)
}
