package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/middleware"
	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

type AdminHandler struct {
	Admin *ledger.Admin
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus activates or blocks the target account. Activation also
// grants the one-time role-based welcome bonus.
func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	target := c.Params("email")
	acc, err := h.Admin.SetAccountStatus(c.Context(), middleware.Identity(c), target, domain.AccountStatus(req.Status))
	if err != nil {
		return fail(c, "set-status", err)
	}

	slog.Info("account status updated", "email", acc.Email, "status", acc.Status, "bonus_granted", acc.BonusGranted)
	return c.JSON(fiber.Map{
		"status":  "success",
		"account": acc,
	})
}
