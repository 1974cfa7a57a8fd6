package syncer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"content-sync/core/database"
	"content-sync/core/storage/mocks"
	"content-sync/feature/syncer/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupEngine(t *testing.T, db *gorm.DB) (*Engine, *Store) {
	t.Helper()
	store := NewStore(db, new(mocks.Client), "media", "http://localhost:9000")
	resolver := NewResolver(store)
	authors := NewAuthorMapper(store, zap.NewNop())
	media := NewMediaResolver(store, resolver, NewFetcher(time.Second), zap.NewNop())
	comments := NewCommentLinker(store, authors, zap.NewNop())
	return NewEngine(store, resolver, authors, media, comments, zap.NewNop()), store
}

func postPayload(externalID, modified string) *models.PostPayload {
	return &models.PostPayload{
		Type:     models.TypePost,
		Status:   "publish",
		Title:    "Hello",
		Content:  "Body",
		Modified: modified,
		MetaInput: map[string]string{
			models.MetaPostID: externalID,
		},
	}
}

func TestUpsert_CreatesOnce(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	first, err := engine.Upsert(ctx, postPayload("42", "2025-01-02 10:00:00"))
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.NotZero(t, first.ID)

	// Same record, unchanged modification time: skip with the existing ID.
	second, err := engine.Upsert(ctx, postPayload("42", "2025-01-02 10:00:00"))
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "post already exists", second.Message)

	var count int64
	db.Model(&models.Post{}).Where("post_type = ?", models.TypePost).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpsert_OlderIncomingSkips(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	first, err := engine.Upsert(ctx, postPayload("42", "2025-01-02 10:00:00"))
	require.NoError(t, err)

	older := postPayload("42", "2025-01-01 10:00:00")
	older.Title = "Stale"
	result, err := engine.Upsert(ctx, older)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, first.ID, result.ID)

	var post models.Post
	require.NoError(t, db.First(&post, first.ID).Error)
	assert.Equal(t, "Hello", post.Title)
}

func TestUpsert_NewerUpdatesInPlace(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	first, err := engine.Upsert(ctx, postPayload("42", "2025-01-02 10:00:00"))
	require.NoError(t, err)

	newer := postPayload("42", "2025-01-03 10:00:00")
	newer.Title = "Updated"
	result, err := engine.Upsert(ctx, newer)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, first.ID, result.ID)

	var count int64
	db.Model(&models.Post{}).Where("post_type = ?", models.TypePost).Count(&count)
	assert.EqualValues(t, 1, count)

	var post models.Post
	require.NoError(t, db.First(&post, first.ID).Error)
	assert.Equal(t, "Updated", post.Title)
}

func TestUpsert_ParentResolution(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	parent, err := engine.Upsert(ctx, postPayload("10", "2025-01-01 00:00:00"))
	require.NoError(t, err)

	child := postPayload("11", "2025-01-01 00:00:00")
	child.Parent = 10
	result, err := engine.Upsert(ctx, child)
	require.NoError(t, err)

	var post models.Post
	require.NoError(t, db.First(&post, result.ID).Error)
	assert.Equal(t, parent.ID, post.Parent)
}

func TestUpsert_UnknownParentFallsBackToZero(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	child := postPayload("11", "2025-01-01 00:00:00")
	child.Parent = 999
	result, err := engine.Upsert(ctx, child)
	require.NoError(t, err)
	assert.NotZero(t, result.ID)

	var post models.Post
	require.NoError(t, db.First(&post, result.ID).Error)
	assert.Zero(t, post.Parent)
}

func TestUpsert_CustomTypeTermsReplaced(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	payload := postPayload("7", "2025-01-01 00:00:00")
	payload.Type = "event"
	payload.TaxInput = map[string][]string{"venue": {"hall-a", "hall-b"}}

	result, err := engine.Upsert(ctx, payload)
	require.NoError(t, err)

	var terms []models.ObjectTerm
	require.NoError(t, db.Where("post_id = ?", result.ID).Find(&terms).Error)
	assert.Len(t, terms, 2)

	// A newer copy replaces the full term set, not merges.
	payload = postPayload("7", "2025-01-02 00:00:00")
	payload.Type = "event"
	payload.TaxInput = map[string][]string{"venue": {"hall-c"}}
	_, err = engine.Upsert(ctx, payload)
	require.NoError(t, err)

	require.NoError(t, db.Where("post_id = ?", result.ID).Find(&terms).Error)
	require.Len(t, terms, 1)
	assert.Equal(t, "hall-c", terms[0].Term)
}

func TestUpsert_EmbeddedMediaFailureIsolated(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	payload := postPayload("55", "2025-01-01 00:00:00")
	payload.AttachedMedia = map[string]models.AttachmentPayload{
		"901": {GUID: "http://127.0.0.1:1/unreachable/photo.jpg", Parent: 55},
	}

	result, err := engine.Upsert(ctx, payload)
	require.NoError(t, err)
	assert.NotZero(t, result.ID)

	// The unreachable attachment is simply absent.
	var count int64
	db.Model(&models.Post{}).Where("post_type = ?", models.TypeAttachment).Count(&count)
	assert.Zero(t, count)
}

func TestUpsert_FeaturedImageStoredAsThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("thumb-bytes"))
	}))
	defer server.Close()

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "media", "media/thumb.jpg", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	db := setupTestDB(t)
	store := NewStore(db, client, "media", "http://localhost:9000")
	resolver := NewResolver(store)
	authors := NewAuthorMapper(store, zap.NewNop())
	media := NewMediaResolver(store, resolver, NewFetcher(2*time.Second), zap.NewNop())
	comments := NewCommentLinker(store, authors, zap.NewNop())
	engine := NewEngine(store, resolver, authors, media, comments, zap.NewNop())
	ctx := context.Background()

	payload := postPayload("70", "2025-01-01 00:00:00")
	payload.FeaturedImage = &models.AttachmentPayload{
		GUID:  server.URL + "/img/thumb.jpg",
		Title: "Thumb",
	}

	result, err := engine.Upsert(ctx, payload)
	require.NoError(t, err)
	client.AssertExpectations(t)

	var attachment models.Post
	require.NoError(t, db.Where("post_type = ?", models.TypeAttachment).First(&attachment).Error)

	var meta models.PostMeta
	require.NoError(t, db.Where("post_id = ? AND meta_key = ?", result.ID, models.MetaThumbnail).
		First(&meta).Error)
	assert.Equal(t, fmt.Sprintf("%d", attachment.ID), meta.Value)
}

func TestUpsert_UnreachableFeaturedImageRecordsZero(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	payload := postPayload("71", "2025-01-01 00:00:00")
	payload.FeaturedImage = &models.AttachmentPayload{
		GUID: "http://127.0.0.1:1/unreachable/thumb.jpg",
	}

	// The post itself still succeeds; the featured reference degrades
	// to zero.
	result, err := engine.Upsert(ctx, payload)
	require.NoError(t, err)
	assert.NotZero(t, result.ID)

	var meta models.PostMeta
	require.NoError(t, db.Where("post_id = ? AND meta_key = ?", result.ID, models.MetaThumbnail).
		First(&meta).Error)
	assert.Equal(t, "0", meta.Value)

	var count int64
	db.Model(&models.Post{}).Where("post_type = ?", models.TypeAttachment).Count(&count)
	assert.Zero(t, count)
}

func TestUpsert_HooksFireForExistingAndNew(t *testing.T) {
	db := setupTestDB(t)
	engine, _ := setupEngine(t, db)
	ctx := context.Background()

	var calls []uint
	engine.RegisterHook(func(_ context.Context, localID uint, _ *models.PostPayload) {
		calls = append(calls, localID)
	})

	first, err := engine.Upsert(ctx, postPayload("42", "2025-01-02 10:00:00"))
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, first.ID, calls[0])

	// Re-delivery fires the hook against the existing record even though
	// the record itself is skipped.
	_, err = engine.Upsert(ctx, postPayload("42", "2025-01-02 10:00:00"))
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, first.ID, calls[1])
}

func TestConnectionLinkerHook(t *testing.T) {
	db := setupTestDB(t)
	engine, store := setupEngine(t, db)
	ctx := context.Background()

	linker := NewConnectionLinker(store, NewResolver(store), true, zap.NewNop())
	engine.RegisterHook(linker.Hook())

	from, err := engine.Upsert(ctx, postPayload("1", "2025-01-01 00:00:00"))
	require.NoError(t, err)

	to := postPayload("2", "2025-01-01 00:00:00")
	to.Connections = []models.ConnectionPayload{{From: 1, To: 2, Type: "related"}}
	toResult, err := engine.Upsert(ctx, to)
	require.NoError(t, err)

	var conns []models.Connection
	require.NoError(t, db.Find(&conns).Error)
	require.Len(t, conns, 1)
	assert.Equal(t, "related", conns[0].Type)
	assert.Equal(t, from.ID, conns[0].FromID)
	assert.Equal(t, toResult.ID, conns[0].ToID)
}

func TestConnectionLinkerUnresolvedEndpointDegradesToZero(t *testing.T) {
	db := setupTestDB(t)
	engine, store := setupEngine(t, db)
	ctx := context.Background()

	linker := NewConnectionLinker(store, NewResolver(store), true, zap.NewNop())
	engine.RegisterHook(linker.Hook())

	payload := postPayload("2", "2025-01-01 00:00:00")
	payload.Connections = []models.ConnectionPayload{{From: 404, To: 2, Type: "related"}}
	_, err := engine.Upsert(ctx, payload)
	require.NoError(t, err)

	var conns []models.Connection
	require.NoError(t, db.Find(&conns).Error)
	require.Len(t, conns, 1)
	assert.Zero(t, conns[0].FromID)
}
