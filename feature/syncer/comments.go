package syncer

import (
	"context"

	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
)

// CommentLinker attaches incoming comments to a resolved local post.
// Comments are immutable once synced: a comment whose external identity pair
// already exists locally is skipped, never updated.
type CommentLinker struct {
	store   *Store
	authors *AuthorMapper
	logger  *zap.Logger
}

// NewCommentLinker creates a comment linker.
func NewCommentLinker(store *Store, authors *AuthorMapper, logger *zap.Logger) *CommentLinker {
	return &CommentLinker{store: store, authors: authors, logger: logger}
}

// Attach deduplicates and inserts the comments under the local post. One
// comment's failure does not abort the rest of the batch.
func (l *CommentLinker) Attach(ctx context.Context, localPostID uint, comments []models.CommentPayload) {
	if localPostID == 0 || len(comments) == 0 {
		return
	}

	for i := range comments {
		c := &comments[i]

		externalID, source := c.ExternalKey()
		existing, err := l.store.FindCommentByKey(ctx, externalID, source)
		if err != nil {
			l.logger.Warn("comment lookup failed, skipping",
				zap.String("external_id", externalID), zap.Error(err))
			continue
		}
		if existing != 0 {
			continue
		}

		comment := models.Comment{
			PostID:      localPostID,
			AuthorName:  c.AuthorName,
			AuthorEmail: c.AuthorEmail,
			AuthorID:    l.authors.MapAuthor(ctx, c.Author),
			Content:     c.Content,
			Date:        c.DateTime(),
		}

		id, err := l.store.CreateComment(ctx, &comment)
		if err != nil {
			l.logger.Warn("comment insert failed, skipping",
				zap.String("external_id", externalID), zap.Error(err))
			continue
		}

		for key, value := range c.MetaInput {
			if err := l.store.SetCommentMeta(ctx, id, key, value); err != nil {
				l.logger.Warn("comment meta write failed",
					zap.Uint("comment_id", id), zap.String("key", key), zap.Error(err))
			}
		}
	}
}
