package syncer

import (
	"content-sync/core/logger"
	"content-sync/core/middleware/auth"
	"content-sync/feature/syncer/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sync API.
type Handler struct {
	service *Service
	authCfg auth.Config
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, authCfg auth.Config) *Handler {
	return &Handler{service: service, authCfg: authCfg}
}

// RegisterRoutes registers the sync routes. The status route stays outside
// the auth guard and reports the key check in its body instead.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync/v1")
	guard := auth.New(h.authCfg)

	group.Get("/status", h.HandleStatus)
	group.Post("/post", guard, h.HandleSyncPost)
	group.Post("/page", guard, h.HandleSyncPost)
	group.Post("/attachment", guard, h.HandleSyncAttachment)
	group.Post("/user", guard, h.HandleSyncUser)
}

// HandleStatus reports whether the caller's sync key matches.
// @Summary Connection status
// @Description Checks the caller's sync key and reports success or failure without rejecting the call.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]any "Status"
// @Router /sync/v1/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	ok := auth.Valid(c, h.authCfg)
	return c.JSON(fiber.Map{"success": ok, "data": fiber.Map{"ok": ok}})
}

// HandleSyncPost reconciles one post or page record.
// @Summary Sync a post or page
// @Description Idempotently creates or updates a content record identified by its external ID.
// @Tags sync
// @Accept json
// @Produce json
// @Param record body models.PostPayload true "Content record"
// @Success 200 {object} map[string]any "Local ID"
// @Failure 401 {object} map[string]any "Invalid sync key"
// @Router /sync/v1/post [post]
func (h *Handler) HandleSyncPost(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var payload models.PostPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondFailure(c, fiber.Map{"id": 0})
	}
	if payload.Type == "" {
		return respondFailure(c, fiber.Map{"id": 0})
	}

	result, err := h.service.SyncPost(c.Context(), &payload)
	if err != nil {
		l.Error("Post sync failed",
			zap.String("post_type", payload.Type),
			zap.Uint64("external_id", payload.ExternalID()),
			zap.Error(err))
		return respondFailure(c, fiber.Map{"id": 0, "debug": err.Error()})
	}

	if result.Skipped {
		return respondFailure(c, fiber.Map{"id": result.ID, "message": result.Message})
	}
	return respondSuccess(c, fiber.Map{"id": result.ID})
}

// HandleSyncAttachment resolves one standalone media record.
// @Summary Sync an attachment
// @Description Fetches the remote file unless an equivalent one already exists locally.
// @Tags sync
// @Accept json
// @Produce json
// @Param record body models.AttachmentPayload true "Attachment record"
// @Success 200 {object} map[string]any "Local ID"
// @Failure 401 {object} map[string]any "Invalid sync key"
// @Router /sync/v1/attachment [post]
func (h *Handler) HandleSyncAttachment(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var payload models.AttachmentPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondFailure(c, fiber.Map{"id": 0})
	}

	result, err := h.service.SyncAttachment(c.Context(), &payload)
	if err != nil {
		l.Error("Attachment sync failed",
			zap.String("guid", payload.GUID), zap.Error(err))
		return respondFailure(c, fiber.Map{"id": 0})
	}

	if result.Skipped {
		return respondFailure(c, fiber.Map{"id": result.ID, "message": result.Message})
	}
	return respondSuccess(c, fiber.Map{"id": result.ID})
}

// HandleSyncUser reconciles one user account.
// @Summary Sync a user
// @Description Creates the user when missing, applies metadata and assigns the role.
// @Tags sync
// @Accept json
// @Produce json
// @Param record body models.UserPayload true "User record"
// @Success 200 {object} map[string]any "Local user ID"
// @Failure 401 {object} map[string]any "Invalid sync key"
// @Router /sync/v1/user [post]
func (h *Handler) HandleSyncUser(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var payload models.UserPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondFailure(c, fiber.Map{"user_id": 0})
	}

	userID, err := h.service.SyncUser(c.Context(), &payload)
	if err != nil {
		l.Error("User sync failed",
			zap.String("login", payload.Login), zap.Error(err))
		return respondFailure(c, fiber.Map{"user_id": 0})
	}

	return respondSuccess(c, fiber.Map{"user_id": userID})
}

// The sender treats responses like its own JSON envelope: HTTP 200 with a
// success flag, failures carrying whatever data explains them.
func respondSuccess(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func respondFailure(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(fiber.Map{"success": false, "data": data})
}
