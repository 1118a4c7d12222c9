package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/repository/memory"
	"github.com/secondbrain/secondbrain-go/internal/validation"
)

type contentFixture struct {
	store   *memory.Store
	content *ContentService
	owner   *model.User
}

func newContentFixture(t *testing.T) contentFixture {
	t.Helper()
	store := memory.NewStore()
	owner := &model.User{Email: "a@x.com", Username: "alice", PasswordHash: "x"}
	require.NoError(t, store.Users().Create(context.Background(), owner))
	return contentFixture{
		store:   store,
		content: NewContentService(store.Contents(), store.Shares(), store.Users(), validation.New()),
		owner:   owner,
	}
}

func boolPtr(b bool) *bool { return &b }

func TestContentCreateAndList(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	created, err := f.content.Create(ctx, f.owner.ID, model.CreateContentRequest{
		Title: "t", Content: "c", Type: "text", Tags: []string{"x"},
	})
	require.NoError(t, err)
	assert.True(t, created.IsPublic)
	assert.Equal(t, []string{"x"}, created.Tags)

	list, err := f.content.List(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t", list[0].Title)
	assert.Equal(t, "c", list[0].Body)
	assert.Equal(t, model.ContentText, list[0].Type)
	assert.Equal(t, []string{"x"}, list[0].Tags)
}

func TestContentCreateTrimsTagsWithoutTouchingInput(t *testing.T) {
	f := newContentFixture(t)

	tags := []string{"  x  ", "y "}
	created, err := f.content.Create(context.Background(), f.owner.ID, model.CreateContentRequest{
		Title: "t", Content: "c", Type: "text", Tags: tags,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, created.Tags)
	assert.Equal(t, []string{"  x  ", "y "}, tags)
}

func TestContentCreateMissingFields(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.content.Create(context.Background(), f.owner.ID, model.CreateContentRequest{Title: "  ", Type: "blog"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")
	assert.Contains(t, verr.Fields, "type")

	list, err := f.content.List(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContentDeleteRemovesTags(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	created, err := f.content.Create(ctx, f.owner.ID, model.CreateContentRequest{
		Title: "t", Content: "c", Type: "link", Tags: []string{"x", "y"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, f.store.TagCount(created.ID))

	err = f.content.Delete(ctx, f.owner.ID+1, model.DeleteContentRequest{ContentID: created.ID})
	assert.ErrorIs(t, err, ErrContentNotFound)

	require.NoError(t, f.content.Delete(ctx, f.owner.ID, model.DeleteContentRequest{ContentID: created.ID}))
	assert.Zero(t, f.store.TagCount(created.ID))

	list, err := f.content.List(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = f.content.Delete(ctx, f.owner.ID, model.DeleteContentRequest{ContentID: created.ID})
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestContentUpdateVisibilityRequiresOwnership(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	created, err := f.content.Create(ctx, f.owner.ID, model.CreateContentRequest{Title: "t", Content: "c", Type: "text"})
	require.NoError(t, err)

	_, err = f.content.UpdateVisibility(ctx, f.owner.ID+1, model.UpdateVisibilityRequest{ContentID: created.ID, IsPublic: boolPtr(false)})
	assert.ErrorIs(t, err, ErrContentNotFound)

	counts, err := f.content.Counts(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Public, "non-owner update must not change the row")

	isPublic, err := f.content.UpdateVisibility(ctx, f.owner.ID, model.UpdateVisibilityRequest{ContentID: created.ID})
	require.NoError(t, err)
	assert.False(t, isPublic)

	isPublic, err = f.content.UpdateVisibility(ctx, f.owner.ID, model.UpdateVisibilityRequest{ContentID: created.ID, IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, isPublic)
}

func TestContentCounts(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	for i, public := range []bool{true, true, false} {
		_, err := f.content.Create(ctx, f.owner.ID, model.CreateContentRequest{
			Title: "t", Content: "c", Type: "text", IsPublic: boolPtr(public),
		})
		require.NoError(t, err, "item %d", i)
	}

	counts, err := f.content.Counts(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentCounts{Total: 3, Public: 2, Private: 1}, counts)
}

func TestPublicBrainExcludesPrivate(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	_, err := f.content.Create(ctx, f.owner.ID, model.CreateContentRequest{Title: "public", Content: "c", Type: "text", Tags: []string{"x"}})
	require.NoError(t, err)
	_, err = f.content.Create(ctx, f.owner.ID, model.CreateContentRequest{Title: "private", Content: "c", Type: "text", IsPublic: boolPtr(false)})
	require.NoError(t, err)

	link := &model.ShareLink{Hash: "h", UserID: f.owner.ID}
	require.NoError(t, f.store.Shares().Create(ctx, link))

	brain, err := f.content.PublicBrain(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "alice", brain.Username)
	require.Len(t, brain.Contents, 1)
	assert.Equal(t, "public", brain.Contents[0].Title)
	assert.Equal(t, []string{"x"}, brain.Contents[0].Tags)

	_, err = f.content.PublicBrain(ctx, "unknown")
	assert.ErrorIs(t, err, ErrBrainNotFound)
	_, err = f.content.PublicBrain(ctx, "")
	assert.ErrorIs(t, err, ErrBrainNotFound)
}
