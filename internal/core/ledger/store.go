// Package ledger is the settlement core: it validates transfers,
// computes fees, mutates balances through the store contracts and
// records every settled operation. The HTTP layer hands it
// already-parsed intents; it knows nothing about transports.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
)

// AccountStore is the persistence contract for accounts. AdjustBalance
// must be a single atomic conditional update at the store: concurrent
// adjustments against one account serialize there, and an adjustment
// that would drive the balance negative fails with
// domain.ErrInsufficientFunds without mutating anything.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Account, error)
	AdjustBalance(ctx context.Context, email string, delta int64) (*domain.Account, error)
	SetStatus(ctx context.Context, email string, status domain.AccountStatus) error
	// GrantBonus credits amount and sets the bonus flag in one
	// conditional update. Returns false if the bonus was granted before.
	GrantBonus(ctx context.Context, email string, amount int64) (bool, error)
}

// TransactionLedger is the append-only record of settled operations.
type TransactionLedger interface {
	Append(ctx context.Context, rec domain.TransactionRecord) error
	// ListByParticipant returns records where identity is sender or
	// recipient, newest first, capped at limit (<=0 means the default cap).
	ListByParticipant(ctx context.Context, identity string, limit int) ([]domain.TransactionRecord, error)
}

// ListRequestsOptions filters and pages the pending-request inbox.
type ListRequestsOptions struct {
	AgentEmail string
	Status     domain.RequestStatus
	Search     string
	Offset     int
	Limit      int
}

// RequestQueue holds cash-in/cash-out intents between submission and
// approval. MarkSettled is a compare-and-set on the pending status.
type RequestQueue interface {
	Create(ctx context.Context, req domain.PendingRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PendingRequest, error)
	// MarkSettled transitions pending -> settled. Returns false if the
	// request was not in pending state.
	MarkSettled(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, opts ListRequestsOptions) ([]domain.PendingRequest, error)
}
