package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/FrankWaweru369/Infinity-backend/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp() *fiber.App {
	app := newApp(config.Config{CORSOrigins: "*"}, zap.NewNop())
	mountHealth(app)
	return app
}

func TestHealth(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body healthResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body.Status)
	assert.False(t, body.Timestamp.IsZero())
}

func TestBanner(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body bannerResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Infinity Social Media API", body.Message)
	assert.Equal(t, "/api/posts", body.Endpoints["posts"])
}

func TestRequestIDHeader(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
