package syncer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolver maps source-assigned external IDs to local records by querying
// the external-ID metadata the engine writes on every sync.
type Resolver struct {
	store *Store
}

// NewResolver creates an identity resolver over the content store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the local record of the given type carrying the external
// ID, or nil when the record has not been synced yet. Status is deliberately
// unconstrained: a draft or trashed record is still the sync target.
func (r *Resolver) Resolve(ctx context.Context, postType string, externalID uint64) (*models.Post, error) {
	if externalID == 0 {
		return nil, nil
	}
	var post models.Post
	err := r.store.DB().WithContext(ctx).
		Joins("JOIN postmeta ON postmeta.post_id = posts.id").
		Where("posts.post_type = ? AND postmeta.meta_key = ? AND postmeta.meta_value = ?",
			postType, models.MetaPostID, strconv.FormatUint(externalID, 10)).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s %d: %w", postType, externalID, err)
	}
	return &post, nil
}

// ResolveAnyID returns the local ID carrying the external ID regardless of
// record type, or zero when unknown. Connection endpoints are resolved this
// way because links may cross record types.
func (r *Resolver) ResolveAnyID(ctx context.Context, externalID uint64) (uint, error) {
	if externalID == 0 {
		return 0, nil
	}
	var meta models.PostMeta
	err := r.store.DB().WithContext(ctx).
		Where("meta_key = ? AND meta_value = ?", models.MetaPostID, strconv.FormatUint(externalID, 10)).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %d: %w", externalID, err)
	}
	return meta.PostID, nil
}

// AuthorMapper resolves source user IDs to local user IDs via the
// external-ID metadata written when users are synced.
type AuthorMapper struct {
	store  *Store
	logger *zap.Logger
}

// NewAuthorMapper creates an author mapper over the content store.
func NewAuthorMapper(store *Store, logger *zap.Logger) *AuthorMapper {
	return &AuthorMapper{store: store, logger: logger}
}

// MapAuthor returns the local user ID for a source user ID. Zero maps to
// zero. An unmapped ID falls back to the raw value: the caller may be
// syncing content before its author, and the reference must not be dropped.
// This conflates the two ID spaces when the author is never synced.
func (m *AuthorMapper) MapAuthor(ctx context.Context, externalUserID uint64) uint {
	if externalUserID == 0 {
		return 0
	}
	var meta models.UserMeta
	err := m.store.DB().WithContext(ctx).
		Where("meta_key = ? AND meta_value = ?", models.MetaUserID, strconv.FormatUint(externalUserID, 10)).
		First(&meta).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			m.logger.Warn("author lookup failed, using raw ID",
				zap.Uint64("external_user_id", externalUserID), zap.Error(err))
		}
		return uint(externalUserID)
	}
	return meta.UserID
}
