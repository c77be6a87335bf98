package handler

import (
	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	service service.AdminService
	log     *logrus.Logger
}

func NewAdminHandler(s service.AdminService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{service: s, log: log}
}

func (h *AdminHandler) GetAdmins(c *fiber.Ctx) error {
	admins, err := h.service.List(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", admins)
}

func (h *AdminHandler) GetAdmin(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID")
	}

	admin, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", admin)
}

func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req service.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	admin, err := h.service.Create(c.UserContext(), &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusCreated, "Administrator created successfully", admin)
}

func (h *AdminHandler) UpdateAdmin(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID")
	}

	var req service.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	admin, err := h.service.Update(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "Administrator updated successfully", admin)
}

func (h *AdminHandler) DeleteAdmin(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID")
	}

	if err := h.service.Delete(c.UserContext(), id, middleware.ActorID(c)); err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "Administrator deleted successfully", nil)
}
