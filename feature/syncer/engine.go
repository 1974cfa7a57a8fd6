package syncer

import (
	"context"
	"fmt"

	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
)

// Result is the outcome of one upsert.
type Result struct {
	// ID is the local ID of the created or matched record.
	ID uint
	// Skipped is true when the record already existed and the incoming
	// copy was not strictly newer; no field update was applied.
	Skipped bool
	// Message explains a skip to the caller.
	Message string
}

// Engine is the idempotent-upsert state machine for content records. Given
// a fully-described record it decides create-vs-update, remaps parent and
// author references into the local key space, persists, and runs the
// attached side effects (media, featured image, comments, hooks).
type Engine struct {
	store    *Store
	resolver *Resolver
	authors  *AuthorMapper
	media    *MediaResolver
	comments *CommentLinker
	hooks    []Hook
	logger   *zap.Logger
}

// NewEngine creates an upsert engine.
func NewEngine(store *Store, resolver *Resolver, authors *AuthorMapper, media *MediaResolver, comments *CommentLinker, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		resolver: resolver,
		authors:  authors,
		media:    media,
		comments: comments,
		logger:   logger,
	}
}

// RegisterHook appends a post-upsert hook. Hooks run synchronously in
// registration order after every successful persist, and also against an
// existing record before the staleness check so re-delivery catches up
// side effects.
func (e *Engine) RegisterHook(h Hook) {
	e.hooks = append(e.hooks, h)
}

// Upsert reconciles one incoming content record against the store.
//
// When a record with the same external ID already exists, its media,
// featured image, comments and hooks are re-run first regardless of
// staleness, then the incoming record updates it in place only if strictly
// newer by modification time; otherwise the existing ID is reported as a
// skip. Equal timestamps skip.
func (e *Engine) Upsert(ctx context.Context, p *models.PostPayload) (*Result, error) {
	existing, err := e.resolver.Resolve(ctx, p.Type, p.ExternalID())
	if err != nil {
		return nil, err
	}

	var localID uint
	if existing != nil {
		// Side-effect catch-up on re-delivery, independent of whether the
		// record itself changes.
		e.applySideEffects(ctx, existing.ID, p)
		e.fireHooks(ctx, existing.ID, p)

		if !p.ModifiedTime().After(existing.ModifiedAt) {
			return &Result{ID: existing.ID, Skipped: true, Message: "post already exists"}, nil
		}
		localID = existing.ID
	}

	post := models.Post{
		ID:         localID,
		Type:       p.Type,
		Status:     p.Status,
		Title:      p.Title,
		Content:    p.Content,
		Excerpt:    p.Excerpt,
		Name:       p.Name,
		ModifiedAt: p.ModifiedTime(),
	}

	// Parent references are remapped, never fabricated: an unknown parent
	// becomes zero.
	if p.Parent != 0 {
		parent, err := e.resolver.Resolve(ctx, p.Type, p.Parent)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			post.Parent = parent.ID
		}
	}

	post.Author = e.authors.MapAuthor(ctx, p.Author)

	id, err := e.store.SavePost(ctx, &post, p.MetaInput)
	if err != nil {
		return nil, fmt.Errorf("persist %s: %w", p.Type, err)
	}

	if !p.IsStandardType() {
		for taxonomy, terms := range p.TaxInput {
			if err := e.store.ReplaceTerms(ctx, id, taxonomy, terms); err != nil {
				e.logger.Warn("term assignment failed",
					zap.String("taxonomy", taxonomy), zap.Error(err))
			}
		}
	}

	e.applySideEffects(ctx, id, p)
	e.fireHooks(ctx, id, p)

	return &Result{ID: id}, nil
}

// applySideEffects runs media attachment, featured image resolution, and
// comment attachment against a local ID. All three are idempotent; failures
// inside them are absorbed so the record itself still succeeds.
func (e *Engine) applySideEffects(ctx context.Context, localID uint, p *models.PostPayload) {
	for _, media := range p.AttachedMedia {
		// An attachment owned by the record on the source is re-parented
		// to the local record.
		var localParent uint
		if media.Parent != 0 {
			localParent = localID
		}
		e.media.ResolveEmbedded(ctx, &media, localParent)
	}

	if p.FeaturedImage != nil {
		thumbID := e.media.ResolveEmbedded(ctx, p.FeaturedImage, 0)
		if err := e.store.SetFeatured(ctx, localID, thumbID); err != nil {
			e.logger.Warn("featured image assignment failed",
				zap.Uint("post_id", localID), zap.Error(err))
		}
	}

	e.comments.Attach(ctx, localID, p.Comments)
}

func (e *Engine) fireHooks(ctx context.Context, localID uint, p *models.PostPayload) {
	for _, h := range e.hooks {
		h(ctx, localID, p)
	}
}
