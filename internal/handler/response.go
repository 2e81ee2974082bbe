package handler

import (
	"errors"
	"log"

	"go-dulceria-api/internal/middleware"
	"go-dulceria-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidJSON = apperr.Validation("invalid_json", "JSON inválido")

// fail writes err as {"error", "code"} with the status of its kind
func fail(c *fiber.Ctx, err error) error {
	code, msg := apperr.Public(err)
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": msg, "code": code})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidJSON
	}
	return nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid_id", "Identificador inválido")
	}
	return id, nil
}

// actor is the staff member making the request (set by auth middleware)
func actor(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok && id != "" {
		return id
	}
	return "system"
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message, "data": data})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{"message": message, "data": data})
}

// ErrorHandler renders errors that escape the handlers (unknown routes,
// body too large, recovered panics) in the same JSON shape
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": "http_error"})
	}
	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return fail(c, err)
}
