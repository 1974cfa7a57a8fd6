package syncer

import (
	"context"
	"time"

	"content-sync/core/storage"
	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service wires the reconciliation components together and is the single
// entry point the HTTP handler talks to.
type Service struct {
	engine *Engine
	media  *MediaResolver
	users  *UserSyncer
	logger *zap.Logger
}

// NewService assembles the full sync pipeline over the given database and
// object storage. The connection linker is registered as the engine's first
// post-upsert hook.
func NewService(db *gorm.DB, client storage.Client, bucket, baseURL string, cfg Config, logger *zap.Logger) *Service {
	store := NewStore(db, client, bucket, baseURL)
	resolver := NewResolver(store)
	authors := NewAuthorMapper(store, logger)
	fetcher := NewFetcher(time.Duration(cfg.MediaTimeoutSeconds) * time.Second)
	media := NewMediaResolver(store, resolver, fetcher, logger)
	comments := NewCommentLinker(store, authors, logger)

	engine := NewEngine(store, resolver, authors, media, comments, logger)
	engine.RegisterHook(NewConnectionLinker(store, resolver, cfg.ConnectionsEnabled, logger).Hook())

	return &Service{
		engine: engine,
		media:  media,
		users:  NewUserSyncer(store, logger),
		logger: logger,
	}
}

// SyncPost reconciles one post or page record.
func (s *Service) SyncPost(ctx context.Context, p *models.PostPayload) (*Result, error) {
	return s.engine.Upsert(ctx, p)
}

// SyncAttachment resolves one standalone media record.
func (s *Service) SyncAttachment(ctx context.Context, p *models.AttachmentPayload) (*MediaResult, error) {
	return s.media.Resolve(ctx, p, 0)
}

// SyncUser reconciles one user account.
func (s *Service) SyncUser(ctx context.Context, p *models.UserPayload) (uint, error) {
	return s.users.Upsert(ctx, p)
}

// Engine exposes the upsert engine for hook registration.
func (s *Service) Engine() *Engine {
	return s.engine
}
