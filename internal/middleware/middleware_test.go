package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hyperdrive/internal/models"
	appErr "hyperdrive/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	user *models.User
}

func (r staticResolver) Resolve(_ context.Context, authorization string) (*models.User, error) {
	if authorization != "Bearer ok" {
		return nil, appErr.New(appErr.CodeUnauthorized, "Not authenticated")
	}
	return r.user, nil
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if ae, ok := appErr.As(err); ok {
				switch ae.Code {
				case appErr.CodeUnauthorized:
					status = fiber.StatusUnauthorized
				case appErr.CodeRateLimited:
					status = fiber.StatusTooManyRequests
				}
				return c.Status(status).JSON(fiber.Map{"detail": ae.Message})
			}
			return c.SendStatus(status)
		},
	})
}

func whoami(c *fiber.Ctx) error {
	if u := CurrentUser(c); u != nil {
		return c.JSON(fiber.Map{"id": u.ID})
	}
	return c.JSON(fiber.Map{"id": nil})
}

func TestResolveUser(t *testing.T) {
	app := newApp()
	resolver := staticResolver{user: &models.User{ID: 9}}
	app.Get("/required", ResolveUser(resolver), whoami)
	app.Get("/optional", ResolveOptionalUser(resolver), whoami)

	cases := []struct {
		path   string
		auth   string
		status int
	}{
		{"/required", "Bearer ok", http.StatusOK},
		{"/required", "", http.StatusUnauthorized},
		{"/optional", "Bearer ok", http.StatusOK},
		{"/optional", "Bearer bad", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, "%s %q", tc.path, tc.auth)
	}
}

func TestDailyLimit(t *testing.T) {
	app := newApp()
	app.Post("/a", DailyLimit("a", 2, nil), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/b", DailyLimit("b", 1, nil), func(c *fiber.Ctx) error { return c.SendString("ok") })

	hit := func(path string) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, hit("/a"))
	assert.Equal(t, http.StatusOK, hit("/a"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/a"))
	assert.Equal(t, http.StatusOK, hit("/b"), "routes keep separate counters")
	assert.Equal(t, http.StatusTooManyRequests, hit("/b"))
}
