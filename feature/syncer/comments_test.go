package syncer

import (
	"context"
	"testing"

	"content-sync/core/storage/mocks"
	"content-sync/feature/syncer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func commentPayload(externalID, source, body string) models.CommentPayload {
	return models.CommentPayload{
		AuthorName: "Bob",
		Content:    body,
		Date:       "2025-01-01 09:00:00",
		Author:     30,
		MetaInput: map[string]string{
			models.MetaCommentID: externalID,
			models.MetaSource:    source,
		},
	}
}

func TestAttachComments_DedupByExternalKey(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db, new(mocks.Client), "media", "http://localhost:9000")
	linker := NewCommentLinker(store, NewAuthorMapper(store, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	batch := []models.CommentPayload{
		commentPayload("5", "blog-a", "first"),
		commentPayload("6", "blog-a", "second"),
	}

	linker.Attach(ctx, 1, batch)
	linker.Attach(ctx, 1, batch)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAttachComments_SameIDDifferentSource(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db, new(mocks.Client), "media", "http://localhost:9000")
	linker := NewCommentLinker(store, NewAuthorMapper(store, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	// The same external comment ID from two source instances is two
	// distinct comments.
	linker.Attach(ctx, 1, []models.CommentPayload{commentPayload("5", "blog-a", "from a")})
	linker.Attach(ctx, 1, []models.CommentPayload{commentPayload("5", "blog-b", "from b")})

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAttachComments_AuthorRemapAndMeta(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db, new(mocks.Client), "media", "http://localhost:9000")
	linker := NewCommentLinker(store, NewAuthorMapper(store, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	user := models.User{Login: "bob"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, store.SetUserMeta(ctx, user.ID, models.MetaUserID, "30"))

	linker.Attach(ctx, 9, []models.CommentPayload{commentPayload("5", "blog-a", "hello")})

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.EqualValues(t, 9, comment.PostID)
	assert.Equal(t, user.ID, comment.AuthorID)

	var meta []models.CommentMeta
	require.NoError(t, db.Where("comment_id = ?", comment.ID).Find(&meta).Error)
	assert.Len(t, meta, 2)
}
