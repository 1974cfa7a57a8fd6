package models

import (
	"strconv"
	"time"
)

// TimeLayout is the wire format for modification timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// PostPayload is a content record as sent by the source instance.
// Field names mirror the sender's flat record layout; everything the engine
// recognizes is an explicit field, the rest rides in MetaInput.
type PostPayload struct {
	Type     string `json:"post_type"`
	Status   string `json:"post_status"`
	Title    string `json:"post_title"`
	Content  string `json:"post_content"`
	Excerpt  string `json:"post_excerpt"`
	Name     string `json:"post_name"`
	Modified string `json:"post_modified"`

	// Parent and Author are source-local IDs, remapped before persisting.
	Parent uint64 `json:"post_parent"`
	Author uint64 `json:"post_author"`

	MetaInput     map[string]string            `json:"meta_input"`
	TaxInput      map[string][]string          `json:"tax_input"`
	Comments      []CommentPayload             `json:"comments"`
	AttachedMedia map[string]AttachmentPayload `json:"attached_media"`
	FeaturedImage *AttachmentPayload           `json:"featured_image"`
	Connections   []ConnectionPayload          `json:"p2p_connections"`
}

// ExternalID returns the source-assigned post ID carried in the meta map.
func (p *PostPayload) ExternalID() uint64 {
	return parseID(p.MetaInput[MetaPostID])
}

// ModifiedTime parses the modification timestamp; zero when absent or invalid.
func (p *PostPayload) ModifiedTime() time.Time {
	t, err := time.Parse(TimeLayout, p.Modified)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsStandardType reports whether the payload is a plain post or page.
// Only non-standard types get explicit term re-assignment.
func (p *PostPayload) IsStandardType() bool {
	return p.Type == TypePost || p.Type == TypePage
}

// AttachmentPayload describes a media record whose file still lives on the
// source. GUID is the remote URL the file is fetched from.
type AttachmentPayload struct {
	GUID    string `json:"guid"`
	Title   string `json:"post_title"`
	Content string `json:"post_content"`
	Excerpt string `json:"post_excerpt"`
	Status  string `json:"post_status"`

	// Parent is the source-local ID of the owning record.
	Parent uint64 `json:"post_parent"`

	MetaInput map[string]string `json:"meta_input"`
}

// CommentPayload is a comment as sent by the source instance.
type CommentPayload struct {
	AuthorName  string `json:"comment_author"`
	AuthorEmail string `json:"comment_author_email"`
	Content     string `json:"comment_content"`
	Date        string `json:"comment_date"`

	// Author is the source-local user ID of the comment author.
	Author uint64 `json:"post_author"`

	MetaInput map[string]string `json:"meta_input"`
}

// ExternalKey returns the identity pair of the comment: the source-assigned
// comment ID and a tag naming which source instance it came from.
func (c *CommentPayload) ExternalKey() (string, string) {
	return c.MetaInput[MetaCommentID], c.MetaInput[MetaSource]
}

// DateTime parses the comment date; zero when absent or invalid.
func (c *CommentPayload) DateTime() time.Time {
	t, err := time.Parse(TimeLayout, c.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// UserPayload is a user account as sent by the source instance.
type UserPayload struct {
	Login       string `json:"user_login"`
	Email       string `json:"user_email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`

	MetaInput map[string]string `json:"meta_input"`
}

// ConnectionPayload names a link between two records by their external IDs.
type ConnectionPayload struct {
	From uint64 `json:"p2p_from"`
	To   uint64 `json:"p2p_to"`
	Type string `json:"p2p_type"`
}

func parseID(s string) uint64 {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
