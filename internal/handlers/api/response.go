package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated returns a 201 response with data wrapped in the standard envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonRejected returns a 422 response for an import where no row was valid.
// The import summary is included so clients can show every row error.
func jsonRejected(c fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status": "error",
		"error":  message,
		"data":   data,
	})
}

// ErrorHandler renders errors returned from handlers in the standard
// envelope. A *fiber.Error keeps its code and message; anything else is a 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return jsonError(c, code, message)
}
