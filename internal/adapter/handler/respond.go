package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
)

// statusFor maps a domain error to its HTTP status. Unknown errors are
// internal; ErrInconsistent is kept distinct so an operator can spot a
// half-applied settlement in the logs and response alike.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidRecipient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadySettled), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInconsistent):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// fail logs and renders a domain error. Inconsistent settlements get
// an error-level log no matter what; everything else is warn-level
// request noise.
func fail(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, domain.ErrInconsistent) {
		slog.Error("settlement left inconsistent state", "op", op, "error", err)
	} else {
		slog.Warn("operation rejected", "op", op, "error", err)
	}
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
