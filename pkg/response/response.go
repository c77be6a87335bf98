package response

import (
	"go-societe-admin/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta computes the page count for total items.
func NewMeta(page, perPage int, total int64) *Meta {
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Meta{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Fail(c *fiber.Ctx, status int, message string, errs interface{}) error {
	return c.Status(status).JSON(Response{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Bad request"
	}
	return Fail(c, fiber.StatusBadRequest, message, nil)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthenticated"
	}
	return Fail(c, fiber.StatusUnauthorized, message, nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Forbidden"
	}
	return Fail(c, fiber.StatusForbidden, message, nil)
}

// Error renders a classified service error. Anything that is not an
// *apperror.Error, or is of kind internal, becomes a generic 500.
func Error(c *fiber.Ctx, err error) error {
	ae, ok := apperror.As(err)
	if !ok || ae.Kind == apperror.KindInternal {
		return Fail(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}
	var fields interface{}
	if len(ae.Fields) > 0 {
		fields = ae.Fields
	}
	return Fail(c, ae.Status(), ae.Message, fields)
}
