package syncer

import (
	"context"

	"content-sync/feature/syncer/models"

	"go.uber.org/zap"
)

// Hook is invoked synchronously after every successful post upsert, in
// registration order, with the local ID and the incoming payload.
type Hook func(ctx context.Context, localID uint, p *models.PostPayload)

// ConnectionLinker creates named many-to-many links between already-synced
// records, running as a post-upsert hook.
type ConnectionLinker struct {
	store    *Store
	resolver *Resolver
	enabled  bool
	logger   *zap.Logger
}

// NewConnectionLinker creates a connection linker. When disabled, the hook
// is a no-op.
func NewConnectionLinker(store *Store, resolver *Resolver, enabled bool, logger *zap.Logger) *ConnectionLinker {
	return &ConnectionLinker{store: store, resolver: resolver, enabled: enabled, logger: logger}
}

// Hook returns the post-upsert hook. Endpoints are resolved by external ID
// across all record types; an unresolved endpoint degrades to zero and the
// connection is still written. No existence check is performed before the
// write: re-delivered connections insert again.
func (l *ConnectionLinker) Hook() Hook {
	return func(ctx context.Context, localID uint, p *models.PostPayload) {
		if !l.enabled || len(p.Connections) == 0 {
			return
		}

		for _, conn := range p.Connections {
			fromID, err := l.resolver.ResolveAnyID(ctx, conn.From)
			if err != nil {
				l.logger.Warn("connection endpoint lookup failed",
					zap.Uint64("from", conn.From), zap.Error(err))
			}
			toID, err := l.resolver.ResolveAnyID(ctx, conn.To)
			if err != nil {
				l.logger.Warn("connection endpoint lookup failed",
					zap.Uint64("to", conn.To), zap.Error(err))
			}

			if err := l.store.CreateConnection(ctx, conn.Type, fromID, toID); err != nil {
				l.logger.Warn("connection create failed",
					zap.String("type", conn.Type), zap.Error(err))
			}
		}
	}
}
