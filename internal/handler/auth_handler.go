package handler

import (
	"go-dulceria-api/internal/service"
	"go-dulceria-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles staff authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response)
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Token == "" {
		return fail(c, apperr.Validation("token_required", "El token es obligatorio"))
	}

	response, err := h.authService.ValidateToken(c.UserContext(), req.Token)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response)
}

// ChangePassword changes the password of the logged in user
// POST /api/v1/admin/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := uuid.Parse(actor(c))
	if err != nil {
		return fail(c, service.ErrInvalidToken)
	}
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contraseña actualizada"})
}
