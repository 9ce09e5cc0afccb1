package handlers

import (
	"hyperdrive/internal/middleware"
	"hyperdrive/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes. requireUser decides
// who the token is issued for.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireUser fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/token", requireUser, h.HandleToken)
}

// HandleToken signs a fresh bearer token for the resolved user. Outside
// development this only refreshes an already valid token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	token, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":      token,
		"token_type": "bearer",
		"user":       user,
	})
}
