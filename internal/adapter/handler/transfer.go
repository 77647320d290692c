package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/middleware"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

type TransferHandler struct {
	Engine *ledger.TransferEngine
}

type SendMoneyRequest struct {
	RecipientPhone string `json:"recipient_phone"`
	Amount         int64  `json:"amount"`
	PIN            string `json:"pin"`
}

// SendMoney settles an immediate user-to-user transfer.
func (h *TransferHandler) SendMoney(c *fiber.Ctx) error {
	var req SendMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Amount <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be positive"})
	}

	result, err := h.Engine.Transfer(c.Context(), middleware.Identity(c), req.RecipientPhone, req.Amount, req.PIN)
	if err != nil {
		return fail(c, "send-money", err)
	}

	slog.Info("send money settled", "tx_id", result.TxID, "amount", result.Amount, "fee", result.Fee)
	return c.JSON(fiber.Map{
		"status":  "success",
		"tx_id":   result.TxID,
		"amount":  result.Amount,
		"fee":     result.Fee,
		"balance": result.SenderBalance,
	})
}

// GetHistory returns the caller's settled transactions, newest first.
func (h *TransferHandler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	history, err := h.Engine.History(c.Context(), middleware.Identity(c), limit)
	if err != nil {
		return fail(c, "history", err)
	}
	return c.JSON(fiber.Map{"transactions": history})
}
