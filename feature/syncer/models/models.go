package models

import "time"

// Meta keys carrying the external identity of synced records.
const (
	MetaPostID    = "content_sync_post_id"
	MetaUserID    = "content_sync_user_id"
	MetaCommentID = "content_sync_comment_id"
	MetaSource    = "content_sync_source"

	// MetaThumbnail is the meta key holding a post's featured image ID.
	MetaThumbnail = "_thumbnail_id"
)

// Post types with built-in taxonomy handling. Terms for any other type are
// re-applied explicitly on every sync.
const (
	TypePost       = "post"
	TypePage       = "page"
	TypeAttachment = "attachment"
)

// Post is a content record row. Attachments are posts of type "attachment"
// whose GUID holds the stored file URL.
type Post struct {
	ID         uint      `gorm:"primaryKey"`
	Type       string    `gorm:"column:post_type;index"`
	Status     string    `gorm:"column:post_status"`
	Title      string    `gorm:"column:post_title"`
	Content    string    `gorm:"column:post_content"`
	Excerpt    string    `gorm:"column:post_excerpt"`
	Name       string    `gorm:"column:post_name"`
	Parent     uint      `gorm:"column:post_parent"`
	Author     uint      `gorm:"column:post_author"`
	GUID       string    `gorm:"column:guid"`
	ModifiedAt time.Time `gorm:"column:post_modified"`
}

func (Post) TableName() string { return "posts" }

// PostMeta is a key/value metadata row attached to a post.
type PostMeta struct {
	ID     uint   `gorm:"primaryKey"`
	PostID uint   `gorm:"column:post_id;index"`
	Key    string `gorm:"column:meta_key;index"`
	Value  string `gorm:"column:meta_value"`
}

func (PostMeta) TableName() string { return "postmeta" }

// User is a local account row.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Login       string `gorm:"column:user_login;index"`
	Email       string `gorm:"column:user_email"`
	DisplayName string `gorm:"column:display_name"`
	Role        string `gorm:"column:role"`
}

func (User) TableName() string { return "users" }

// UserMeta is a key/value metadata row attached to a user.
type UserMeta struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"column:user_id;index"`
	Key    string `gorm:"column:meta_key;index"`
	Value  string `gorm:"column:meta_value"`
}

func (UserMeta) TableName() string { return "usermeta" }

// Comment is a comment row attached to a post.
type Comment struct {
	ID          uint      `gorm:"primaryKey"`
	PostID      uint      `gorm:"column:comment_post_id;index"`
	AuthorName  string    `gorm:"column:comment_author"`
	AuthorEmail string    `gorm:"column:comment_author_email"`
	AuthorID    uint      `gorm:"column:user_id"`
	Content     string    `gorm:"column:comment_content"`
	Date        time.Time `gorm:"column:comment_date"`
}

func (Comment) TableName() string { return "comments" }

// CommentMeta is a key/value metadata row attached to a comment.
type CommentMeta struct {
	ID        uint   `gorm:"primaryKey"`
	CommentID uint   `gorm:"column:comment_id;index"`
	Key       string `gorm:"column:meta_key;index"`
	Value     string `gorm:"column:meta_value"`
}

func (CommentMeta) TableName() string { return "commentmeta" }

// ObjectTerm assigns a taxonomy term to a post. Term assignment is a full
// replace per taxonomy on every sync of a non-standard post type.
type ObjectTerm struct {
	ID       uint   `gorm:"primaryKey"`
	PostID   uint   `gorm:"column:post_id;index"`
	Taxonomy string `gorm:"column:taxonomy"`
	Term     string `gorm:"column:term"`
}

func (ObjectTerm) TableName() string { return "object_terms" }

// Connection is a named many-to-many link between two local posts.
// Connections are written once and never updated or removed.
type Connection struct {
	ID     uint   `gorm:"primaryKey"`
	Type   string `gorm:"column:connection_type"`
	FromID uint   `gorm:"column:from_id"`
	ToID   uint   `gorm:"column:to_id"`
}

func (Connection) TableName() string { return "connections" }

// All returns every store model, in migration order.
func All() []any {
	return []any{
		&Post{}, &PostMeta{},
		&User{}, &UserMeta{},
		&Comment{}, &CommentMeta{},
		&ObjectTerm{}, &Connection{},
	}
}
