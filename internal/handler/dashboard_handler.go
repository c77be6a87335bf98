package handler

import (
	"go-societe-admin/internal/service"
	"go-societe-admin/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *logrus.Logger
}

func NewDashboardHandler(s service.DashboardService, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, fiber.StatusOK, "", stats)
}
