package handler

import (
	"time"

	"go-societe-admin/internal/middleware"
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SocieteHandler struct {
	service service.SocieteService
	log     *logrus.Logger
}

func NewSocieteHandler(s service.SocieteService, log *logrus.Logger) *SocieteHandler {
	return &SocieteHandler{service: s, log: log}
}

func (h *SocieteHandler) GetSocietes(c *fiber.Ctx) error {
	societes, err := h.service.List(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", societes)
}

func (h *SocieteHandler) GetSociete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid societe ID")
	}

	societe, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", societe)
}

// CreateSociete attaches an existing, unassigned administrator
// POST /api/societes
func (h *SocieteHandler) CreateSociete(c *fiber.Ctx) error {
	var req service.CreateSocieteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	societe, err := h.service.Create(c.UserContext(), &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusCreated, "Societe created successfully", societe)
}

// CreateSocieteWithAdmin creates the societe and a new administrator together
// POST /api/societes/with-admin
func (h *SocieteHandler) CreateSocieteWithAdmin(c *fiber.Ctx) error {
	var req service.CreateSocieteWithAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	societe, err := h.service.CreateWithAdmin(c.UserContext(), &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusCreated, "Societe and administrator created successfully", societe)
}

func (h *SocieteHandler) UpdateSociete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid societe ID")
	}

	var req service.UpdateSocieteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	societe, err := h.service.Update(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "Societe updated successfully", societe)
}

func (h *SocieteHandler) DeleteSociete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid societe ID")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "Societe deleted successfully", nil)
}

// ExportSocietes streams the societe list as an xlsx workbook
// GET /api/societes/export
func (h *SocieteHandler) ExportSocietes(c *fiber.Ctx) error {
	data, err := h.service.Export(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}

	filename := "societes_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
