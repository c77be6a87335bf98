package handler

import (
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SettingHandler struct {
	service service.SettingService
	log     *logrus.Logger
}

func NewSettingHandler(s service.SettingService, log *logrus.Logger) *SettingHandler {
	return &SettingHandler{service: s, log: log}
}

func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.All(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", settings)
}

func (h *SettingHandler) SaveSettings(c *fiber.Ctx) error {
	var req service.SaveSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, &req)
	}

	if err := h.service.Save(c.UserContext(), &req); err != nil {
		return fail(c, h.log, err)
	}

	settings, err := h.service.All(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "Settings saved successfully", settings)
}
