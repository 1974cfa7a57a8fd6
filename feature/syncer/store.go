package syncer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"time"

	"content-sync/core/storage"
	"content-sync/feature/syncer/models"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// mediaPrefix is the object key prefix ingested media files are stored under.
const mediaPrefix = "media/"

// Store is the content-store collaborator: typed records and their metadata
// in the database, ingested media files in object storage. It computes
// nothing about sync semantics; the engine decides what to write.
type Store struct {
	db      *gorm.DB
	client  storage.Client
	bucket  string
	baseURL string
}

// NewStore creates a content store over the given database and object storage.
func NewStore(db *gorm.DB, client storage.Client, bucket, baseURL string) *Store {
	return &Store{db: db, client: client, bucket: bucket, baseURL: baseURL}
}

// DB exposes the underlying connection for resolvers that query directly.
func (s *Store) DB() *gorm.DB { return s.db }

// SavePost inserts the post (ID zero) or updates it in place, then applies
// every meta key/value. Returns the local post ID.
func (s *Store) SavePost(ctx context.Context, post *models.Post, meta map[string]string) (uint, error) {
	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return 0, fmt.Errorf("save post: %w", err)
	}
	for key, value := range meta {
		if err := s.SetPostMeta(ctx, post.ID, key, value); err != nil {
			return 0, err
		}
	}
	return post.ID, nil
}

// SetPostMeta creates or replaces a single post meta row.
func (s *Store) SetPostMeta(ctx context.Context, postID uint, key, value string) error {
	var row models.PostMeta
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND meta_key = ?", postID, key).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.PostMeta{PostID: postID, Key: key, Value: value}
		return s.db.WithContext(ctx).Create(&row).Error
	case err != nil:
		return fmt.Errorf("set post meta %q: %w", key, err)
	default:
		row.Value = value
		return s.db.WithContext(ctx).Save(&row).Error
	}
}

// SetFeatured records the featured image reference on a post.
func (s *Store) SetFeatured(ctx context.Context, postID, attachmentID uint) error {
	return s.SetPostMeta(ctx, postID, models.MetaThumbnail, fmt.Sprintf("%d", attachmentID))
}

// ReplaceTerms replaces every term assignment of the taxonomy on the post.
func (s *Store) ReplaceTerms(ctx context.Context, postID uint, taxonomy string, terms []string) error {
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND taxonomy = ?", postID, taxonomy).
		Delete(&models.ObjectTerm{}).Error
	if err != nil {
		return fmt.Errorf("clear terms for %q: %w", taxonomy, err)
	}
	for _, term := range terms {
		row := models.ObjectTerm{PostID: postID, Taxonomy: taxonomy, Term: term}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("assign term %q: %w", term, err)
		}
	}
	return nil
}

// FindAttachmentByFilename returns the ID of an attachment whose stored URL
// contains the filename, or zero when none exists.
func (s *Store) FindAttachmentByFilename(ctx context.Context, filename string) (uint, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Where("post_type = ? AND guid LIKE ?", models.TypeAttachment, "%"+filename+"%").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find attachment %q: %w", filename, err)
	}
	return post.ID, nil
}

// IngestMedia uploads the downloaded file to object storage and creates the
// attachment record pointing at it. A failed record insert rolls the upload
// back so storage and database stay consistent.
func (s *Store) IngestMedia(ctx context.Context, tempPath, filename string, p *models.AttachmentPayload, parentID uint) (uint, error) {
	f, err := os.Open(tempPath)
	if err != nil {
		return 0, fmt.Errorf("open downloaded file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat downloaded file: %w", err)
	}

	objectName := mediaPrefix + filename
	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("upload %q: %w", objectName, err)
	}

	status := p.Status
	if status == "" {
		status = "inherit"
	}

	post := models.Post{
		Type:       models.TypeAttachment,
		Status:     status,
		Title:      p.Title,
		Content:    p.Content,
		Excerpt:    p.Excerpt,
		Parent:     parentID,
		GUID:       fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName),
		ModifiedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		_ = s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
		return 0, fmt.Errorf("create attachment record: %w", err)
	}

	for key, value := range p.MetaInput {
		if err := s.SetPostMeta(ctx, post.ID, key, value); err != nil {
			return 0, err
		}
	}

	return post.ID, nil
}

// FindUserByLogin returns the user with the given login, or nil.
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("user_login = ?", login).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", login, err)
	}
	return &user, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (uint, error) {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

// AssignRole sets the user's role.
func (s *Store) AssignRole(ctx context.Context, userID uint, role string) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

// SetUserMeta creates or replaces a single user meta row.
func (s *Store) SetUserMeta(ctx context.Context, userID uint, key, value string) error {
	var row models.UserMeta
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND meta_key = ?", userID, key).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.UserMeta{UserID: userID, Key: key, Value: value}
		return s.db.WithContext(ctx).Create(&row).Error
	case err != nil:
		return fmt.Errorf("set user meta %q: %w", key, err)
	default:
		row.Value = value
		return s.db.WithContext(ctx).Save(&row).Error
	}
}

// FindCommentByKey returns the ID of the comment carrying the given external
// identity pair, or zero when none exists.
func (s *Store) FindCommentByKey(ctx context.Context, externalID, source string) (uint, error) {
	if externalID == "" {
		return 0, nil
	}
	var row models.CommentMeta
	err := s.db.WithContext(ctx).
		Where("meta_key = ? AND meta_value = ?", models.MetaCommentID, externalID).
		Where("comment_id IN (?)", s.db.
			Model(&models.CommentMeta{}).
			Select("comment_id").
			Where("meta_key = ? AND meta_value = ?", models.MetaSource, source)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find comment %s/%s: %w", externalID, source, err)
	}
	return row.CommentID, nil
}

// CreateComment inserts a new comment row.
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (uint, error) {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}
	return comment.ID, nil
}

// SetCommentMeta creates a comment meta row. Comments are immutable once
// synced, so there is no replace path.
func (s *Store) SetCommentMeta(ctx context.Context, commentID uint, key, value string) error {
	row := models.CommentMeta{CommentID: commentID, Key: key, Value: value}
	return s.db.WithContext(ctx).Create(&row).Error
}

// CreateConnection inserts a named link between two local posts. No
// existence check is performed: re-delivered connections insert again.
func (s *Store) CreateConnection(ctx context.Context, connType string, fromID, toID uint) error {
	row := models.Connection{Type: connType, FromID: fromID, ToID: toID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create connection %q: %w", connType, err)
	}
	return nil
}
