package handler

import (
	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const defaultPerPage = 15

type UserHandler struct {
	userService service.UserService
	log         *logrus.Logger
}

func NewUserHandler(userService service.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// GetUsers returns one page of users
// GET /api/users?page=&per_page=
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}

	users, total, err := h.userService.List(c.UserContext(), page, perPage)
	if err != nil {
		return fail(c, h.log, err)
	}

	meta := response.NewMeta(page, perPage, total)
	return c.JSON(fiber.Map{
		"data":         users,
		"current_page": meta.Page,
		"per_page":     meta.PerPage,
		"total":        meta.Total,
		"last_page":    meta.TotalPages,
	})
}

// GetUser returns a single user by ID
// GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// CreateUser handles user creation
// POST /api/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	user, err := h.userService.Create(c.UserContext(), &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// UpdateUser handles user update
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	user, err := h.userService.Update(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser handles user deletion
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.UserContext(), id, middleware.ActorID(c)); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
