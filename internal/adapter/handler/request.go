package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/middleware"
	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

// RequestHandler is the HTTP surface of the two-phase cash-in/cash-out
// flow: users submit intents, agents list and approve them.
type RequestHandler struct {
	Workflow *ledger.ApprovalWorkflow
}

type SubmitRequestBody struct {
	AgentPhone string `json:"agent_phone"`
	Amount     int64  `json:"amount"`
	PIN        string `json:"pin"`
}

func (h *RequestHandler) SubmitCashIn(c *fiber.Ctx) error {
	return h.submit(c, domain.KindCashIn)
}

func (h *RequestHandler) SubmitCashOut(c *fiber.Ctx) error {
	return h.submit(c, domain.KindCashOut)
}

func (h *RequestHandler) submit(c *fiber.Ctx, kind domain.TransactionKind) error {
	var body SubmitRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if body.Amount <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be positive"})
	}

	req, err := h.Workflow.SubmitRequest(c.Context(), middleware.Identity(c), body.AgentPhone, body.Amount, body.PIN, kind)
	if err != nil {
		return fail(c, string(kind)+"-submit", err)
	}

	slog.Info("request submitted", "kind", kind, "request_id", req.ID, "amount", req.Amount, "fee", req.Fee)
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"status":     "pending",
		"request_id": req.ID,
		"tx_id":      req.TxID,
		"amount":     req.Amount,
		"fee":        req.Fee,
	})
}

// Approve settles a pending request on behalf of the calling agent.
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	req, err := h.Workflow.Approve(c.Context(), requestID, middleware.Identity(c))
	if err != nil {
		return fail(c, "approve", err)
	}

	slog.Info("request settled", "kind", req.Kind, "request_id", req.ID, "tx_id", req.TxID)
	return c.JSON(fiber.Map{
		"status": "settled",
		"tx_id":  req.TxID,
		"amount": req.Amount,
		"fee":    req.Fee,
	})
}

// Inbox lists the calling agent's requests with optional status
// filter, free-text search and paging.
func (h *RequestHandler) Inbox(c *fiber.Ctx) error {
	opts := ledger.ListRequestsOptions{
		AgentEmail: middleware.Identity(c),
		Status:     domain.RequestStatus(c.Query("status")),
		Search:     c.Query("search"),
		Offset:     c.QueryInt("offset", 0),
		Limit:      c.QueryInt("limit", 20),
	}

	requests, err := h.Workflow.Inbox(c.Context(), opts)
	if err != nil {
		return fail(c, "inbox", err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}
