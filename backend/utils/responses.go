package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse is the envelope of every successful API response.
// Degraded marks data that could only be kept for the current session.
type SuccessResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Degraded bool        `json:"degraded,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessDegraded is Success with the degraded flag set as given.
func SuccessDegraded(c *fiber.Ctx, status int, data interface{}, degraded bool) error {
	return c.Status(status).JSON(SuccessResponse{
		Success:  true,
		Data:     data,
		Degraded: degraded,
	})
}

func Error(c *fiber.Ctx, status int, err error, details ...interface{}) error {
	response := ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	}

	if len(details) > 0 {
		response.Details = details[0]
	}

	return c.Status(status).JSON(response)
}

// ValidationError answers 422 with the message and optional details such as
// the unchanged questionnaire step.
func ValidationError(c *fiber.Ctx, message string, details ...interface{}) error {
	return Error(c, fiber.StatusUnprocessableEntity, fiber.NewError(fiber.StatusUnprocessableEntity, message), details...)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, message))
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, message))
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, fiber.NewError(fiber.StatusUnauthorized, message))
}

func Conflict(c *fiber.Ctx, message string, details ...interface{}) error {
	return Error(c, fiber.StatusConflict, fiber.NewError(fiber.StatusConflict, message), details...)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, fiber.NewError(fiber.StatusInternalServerError, message))
}
