package logger_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"content-sync/core/logger"
	"content-sync/core/middleware/rayid"
)

func TestNew(t *testing.T) {
	l, err := logger.New(&logger.Config{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = logger.New(&logger.Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		logger.WithRayID(base, c).Info("handled")
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), 2000)
	require.NoError(t, err)
	defer resp.Body.Close()

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, resp.Header.Get(rayid.HeaderName), fields[rayid.LocalsKey])
	assert.NotEmpty(t, fields[rayid.LocalsKey])
}

func TestWithRayIDWithoutMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		logger.WithRayID(base, c).Info("handled")
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), 2000)
	require.NoError(t, err)
	defer resp.Body.Close()

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), rayid.LocalsKey)
}
