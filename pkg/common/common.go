package common

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrDealerNotFound     = errors.New("sub dealer not found")
	ErrVehicleAlreadySold = errors.New("vehicle already has a purchase recorded")

	ErrInvalidPrincipal = errors.New("loan principal must be greater than zero")
	ErrInvalidRate      = errors.New("interest rate cannot be negative")
	ErrInvalidTenure    = errors.New("loan tenure must be greater than zero")

	// ErrIntegrityViolation marks a payload that should never have reached the
	// persistence boundary, e.g. a cash purchase carrying loan fields. It is
	// fatal to the submission and is logged, never silently corrected.
	ErrIntegrityViolation = errors.New("purchase payload violates variant integrity")
)

// FieldErrors maps an input field name to a human readable message.
// Fields are validated independently; each field keeps its first failure.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return "validation failed"
}

// Set records a message for a field unless one is already present.
func (f FieldErrors) Set(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func SuccessResponse(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, fields FieldErrors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status": "error",
		"errors": fields,
	})
}
