package handler

import (
	"strconv"

	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RoleHandler struct {
	service service.RoleService
	log     *logrus.Logger
}

func NewRoleHandler(s service.RoleService, log *logrus.Logger) *RoleHandler {
	return &RoleHandler{service: s, log: log}
}

// GetRoles returns the active roles with their permissions
// GET /api/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", roles)
}

// GetRole returns one role with its users and permissions
// GET /api/roles/:id
func (h *RoleHandler) GetRole(c *fiber.Ctx) error {
	id, err := roleID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	role, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", role)
}

// SyncPermissions replaces the permission set of a role
// PUT /api/roles/:id/permissions
func (h *RoleHandler) SyncPermissions(c *fiber.Ctx) error {
	id, err := roleID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req service.SyncPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	role, err := h.service.SyncPermissions(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "Role permissions updated successfully", role)
}

// GetPermissions lists every permission ordered by name
// GET /api/permissions
func (h *RoleHandler) GetPermissions(c *fiber.Ctx) error {
	perms, err := h.service.ListPermissions(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", perms)
}

func roleID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
