package syncer

import (
	"content-sync/core/middleware/auth"
	"content-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the sync feature.
func NewFeature(db *gorm.DB, client storage.Client, bucket, baseURL string, cfg Config, syncKey string, logger *zap.Logger) *Feature {
	svc := NewService(db, client, bucket, baseURL, cfg, logger)
	h := NewHandler(svc, auth.Config{SyncKey: syncKey})
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "syncer"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
