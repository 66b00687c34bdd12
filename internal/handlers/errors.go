package handlers

import (
	"errors"
	"log"

	"kasir/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to status codes and writes the error body.
// Validation failures carry their offending fields under "errors".
func respondError(c *fiber.Ctx, err error, message string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		body["message"] = "Validation failed"
		body["errors"] = verr.Fields
	}
	return c.Status(status).JSON(body)
}

// badRequest answers requests whose body could not be parsed at all.
func badRequest(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body for %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
