package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"turkgpt/internal/pkg/logger"
	"turkgpt/internal/pkg/serverutils"
	internalWS "turkgpt/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedApp() *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	h := NewSessionFeedHandler(internalWS.NewHub(nil, logger.NewNopLogger()), logger.NewNopLogger())
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func TestSessionFeed_RequiresUpgrade(t *testing.T) {
	resp, err := newFeedApp().Test(httptest.NewRequest(http.MethodGet, "/api/ws/sessions/"+uuid.NewString(), nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestSessionFeed_RejectsBadSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ws/sessions/not-a-uuid", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")

	resp, err := newFeedApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
