package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/middleware"
	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/security"
)

// AccountDirectory is what the account surface needs from storage.
type AccountDirectory interface {
	CreateAccount(ctx context.Context, acc domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	SaveAPIKey(ctx context.Context, email, keyHash string) error
}

type AccountHandler struct {
	Repo AccountDirectory
}

// CreateAccountRequest defines what the user sends us at registration.
type CreateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	PIN   string `json:"pin"`
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("invalid account body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name == "" || req.Email == "" || req.PIN == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name, email and pin are required"})
	}
	if !domain.ValidPhone(req.Phone) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid phone number"})
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role. Use user, agent or admin"})
	}

	acc := domain.Account{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     domain.NormalizePhone(req.Phone),
		Role:      role,
		Status:    domain.StatusActive,
		Balance:   0,
		PINHash:   security.HashPIN(req.PIN),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Repo.CreateAccount(c.Context(), acc); err != nil {
		return fail(c, "create-account", err)
	}

	slog.Info("account created", "id", acc.ID, "email", acc.Email, "role", acc.Role)
	return c.Status(http.StatusCreated).JSON(acc)
}

// GenerateKey issues a bearer API key for the account. The raw key is
// shown exactly once; only its hash is stored.
func (h *AccountHandler) GenerateKey(c *fiber.Ctx) error {
	// Params are backed by fiber's reusable buffer; copy before the
	// store retains the email past this request.
	email := utils.CopyString(c.Params("email"))
	if _, err := h.Repo.FindByEmail(c.Context(), email); err != nil {
		return fail(c, "generate-key", err)
	}

	realKey, keyHash, err := security.GenerateAPIKey()
	if err != nil {
		slog.Error("crypto error generating key", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Crypto error"})
	}

	if err := h.Repo.SaveAPIKey(c.Context(), email, keyHash); err != nil {
		slog.Error("failed to save api key", "error", err, "email", email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save key"})
	}

	slog.Info("api key generated", "email", email)
	return c.JSON(fiber.Map{
		"api_key": realKey,
		"warning": "Save this now! We won't show it again.",
	})
}

// Balance returns the calling account.
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	acc, err := h.Repo.FindByEmail(c.Context(), middleware.Identity(c))
	if err != nil {
		return fail(c, "balance", err)
	}
	return c.JSON(acc)
}
