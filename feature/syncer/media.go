package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"

	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
)

// ErrNoGUID is returned when an attachment payload carries no remote URL.
var ErrNoGUID = errors.New("attachment has no guid")

// MediaResult is the outcome of resolving one media reference.
type MediaResult struct {
	// ID is the local attachment ID (zero on validation failure).
	ID uint
	// Skipped is true when an equivalent file already existed locally.
	Skipped bool
	// Message explains a skip to the caller.
	Message string
}

// MediaResolver turns a remote media reference into a local attachment:
// either an existing one matched by filename, or a freshly fetched and
// ingested file.
type MediaResolver struct {
	store    *Store
	resolver *Resolver
	fetcher  *Fetcher
	logger   *zap.Logger
}

// NewMediaResolver creates a media resolver.
func NewMediaResolver(store *Store, resolver *Resolver, fetcher *Fetcher, logger *zap.Logger) *MediaResolver {
	return &MediaResolver{store: store, resolver: resolver, fetcher: fetcher, logger: logger}
}

// Resolve resolves one media reference. localParent, when non-zero, is the
// already-resolved local owner; otherwise the payload's external parent
// reference is resolved (zero when unknown).
//
// A file whose stored URL contains the reference's filename is treated as
// the same file and returned without any network fetch. Otherwise the remote
// file is downloaded under a scoped external-fetch permit and handed to the
// store; the temporary file is removed on every exit path.
func (m *MediaResolver) Resolve(ctx context.Context, p *models.AttachmentPayload, localParent uint) (*MediaResult, error) {
	if p.GUID == "" {
		return nil, ErrNoGUID
	}

	filename := filenameFromURL(p.GUID)
	if filename == "" {
		return nil, fmt.Errorf("no filename in media URL %q", p.GUID)
	}

	existing, err := m.store.FindAttachmentByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if existing != 0 {
		return &MediaResult{ID: existing, Skipped: true, Message: "file already exists"}, nil
	}

	parentID := localParent
	if parentID == 0 && p.Parent != 0 {
		parentID, err = m.resolver.ResolveAnyID(ctx, p.Parent)
		if err != nil {
			return nil, err
		}
	}

	// The fetch may reach an arbitrary remote host; permit it for this one
	// download only.
	release := m.fetcher.AllowExternal()
	defer release()

	tempPath, err := m.fetcher.Download(ctx, p.GUID)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tempPath)

	id, err := m.store.IngestMedia(ctx, tempPath, filename, p, parentID)
	if err != nil {
		return nil, err
	}

	return &MediaResult{ID: id}, nil
}

// ResolveEmbedded resolves a media reference as a sub-step of a larger
// record. Failures are absorbed to a zero ID so one missing image never
// fails the parent record.
func (m *MediaResolver) ResolveEmbedded(ctx context.Context, p *models.AttachmentPayload, localParent uint) uint {
	res, err := m.Resolve(ctx, p, localParent)
	if err != nil {
		m.logger.Warn("embedded media resolution failed",
			zap.String("guid", p.GUID), zap.Error(err))
		return 0
	}
	return res.ID
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
