package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/flowershop/internal/classifier"
	"github.com/example/flowershop/internal/services"
)

// ErrorHandler is the fiber boundary for the error taxonomy. Service and
// classifier sentinels map to fixed status codes; anything unrecognized is
// logged with detail and returned as a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrFlowerNotFound):
		code = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrCartPaid),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrQuantityInvalid),
		errors.Is(err, classifier.ErrInvalidImage),
		errors.Is(err, classifier.ErrLowConfidence):
		code = fiber.StatusBadRequest
		message = err.Error()
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
