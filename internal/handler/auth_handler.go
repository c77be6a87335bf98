package handler

import (
	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService service.AuthService
	log         *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	res, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

// Register creates a client account and logs it in
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	res, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

// Logout revokes the token used for this request
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "")
	}

	if err := h.authService.Logout(c.UserContext(), principal.User.ID, principal.TokenID); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the authenticated user with role and societe
// GET /api/auth/user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "")
	}

	user, err := h.authService.CurrentUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
