package handler

import (
	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/response"
	"go-societe-admin/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// fail renders err through the response envelope. Errors the services did
// not classify become a 500 and are logged with the request line.
func fail(c *fiber.Ctx, log *logrus.Logger, err error) error {
	if apperror.KindOf(err) == apperror.KindInternal {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
	}
	return response.Error(c, err)
}

// invalidBody answers a failed BodyParser into dst. A malformed UUID in an
// otherwise valid body is a field error; anything else is invalid JSON.
func invalidBody(c *fiber.Ctx, dst interface{}) error {
	if err := validator.InvalidUUIDs(c.Body(), dst); err != nil {
		return response.Error(c, err)
	}
	return response.BadRequest(c, "Invalid JSON")
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
