package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/security"
)

// ApprovalWorkflow drives the two-phase cash-in/cash-out flow: a user
// submits an intent, balances stay untouched, and an agent's approval
// settles it against fresh balances.
type ApprovalWorkflow struct {
	accounts AccountStore
	ledger   TransactionLedger
	requests RequestQueue
}

func NewApprovalWorkflow(accounts AccountStore, ledger TransactionLedger, requests RequestQueue) *ApprovalWorkflow {
	return &ApprovalWorkflow{accounts: accounts, ledger: ledger, requests: requests}
}

// SubmitRequest validates a cash-in/cash-out intent and enqueues it as
// pending. Cash-out charges a 1.5% fee and pre-checks the user's
// balance; this is a check only, not a hold, so the balance is
// re-verified at approval time. Cash-in is free and needs no check:
// the agent supplies the funds.
func (w *ApprovalWorkflow) SubmitRequest(ctx context.Context, userEmail, agentPhone string, amount int64, pin string, kind domain.TransactionKind) (*domain.PendingRequest, error) {
	if kind != domain.KindCashIn && kind != domain.KindCashOut {
		return nil, fmt.Errorf("%w: %q is not a deferred operation", domain.ErrInvalidRecipient, kind)
	}
	if amount <= 0 || amount > domain.MaxTransactionAmount {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}

	user, err := w.accounts.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userEmail, err)
	}

	agent, err := w.accounts.FindByPhone(ctx, domain.NormalizePhone(agentPhone))
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", agentPhone, err)
	}
	if agent.Role != domain.RoleAgent {
		return nil, fmt.Errorf("%w: %s settles against an agent, counterparty is %s", domain.ErrInvalidRecipient, kind, agent.Role)
	}

	if !security.VerifyPIN(pin, user.PINHash) {
		return nil, domain.ErrInvalidCredential
	}

	fee := domain.FeeFor(kind, amount)
	if kind == domain.KindCashOut && user.Balance < amount+fee {
		return nil, fmt.Errorf("%w: balance %d, need %d", domain.ErrInsufficientFunds, user.Balance, amount+fee)
	}

	txID, err := NewTransactionID()
	if err != nil {
		return nil, err
	}

	req := domain.PendingRequest{
		ID:          uuid.New(),
		Kind:        kind,
		SenderEmail: user.Email,
		SenderName:  user.Name,
		SenderPhone: user.Phone,
		AgentEmail:  agent.Email,
		AgentName:   agent.Name,
		AgentPhone:  agent.Phone,
		Amount:      amount,
		Fee:         fee,
		Status:      domain.RequestPending,
		TxID:        txID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := w.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("enqueue %s request: %w", kind, err)
	}
	return &req, nil
}

// Approve settles a pending request on behalf of its agent.
//
// Cash-out moves amount+fee from the user to the agent; cash-in moves
// amount from the agent to the user. The debit leg runs first in both
// cases so that an insufficient balance fails before anything moved; a
// failure of the second leg leaves the first applied and is surfaced
// as domain.ErrInconsistent. A request settles exactly once: a repeat
// approval fails with domain.ErrAlreadySettled.
func (w *ApprovalWorkflow) Approve(ctx context.Context, requestID uuid.UUID, agentEmail string) (*domain.PendingRequest, error) {
	req, err := w.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", requestID, err)
	}
	if req.Status == domain.RequestSettled {
		return nil, fmt.Errorf("request %s: %w", requestID, domain.ErrAlreadySettled)
	}
	if req.AgentEmail != agentEmail {
		return nil, fmt.Errorf("%w: request is addressed to a different agent", domain.ErrInvalidRecipient)
	}

	// Fresh balances, not the submission-time snapshot.
	user, err := w.accounts.FindByEmail(ctx, req.SenderEmail)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", req.SenderEmail, err)
	}
	agent, err := w.accounts.FindByEmail(ctx, req.AgentEmail)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", req.AgentEmail, err)
	}

	var debitEmail, creditEmail string
	var debitAmount, creditAmount int64
	switch req.Kind {
	case domain.KindCashOut:
		// Fee rides along to the agent on cash-out.
		debitEmail, creditEmail = user.Email, agent.Email
		debitAmount = req.Amount + req.Fee
		creditAmount = req.Amount + req.Fee
	case domain.KindCashIn:
		debitEmail, creditEmail = agent.Email, user.Email
		debitAmount = req.Amount
		creditAmount = req.Amount
	default:
		return nil, fmt.Errorf("%w: unknown request kind %q", domain.ErrConflict, req.Kind)
	}

	if _, err := w.accounts.AdjustBalance(ctx, debitEmail, -debitAmount); err != nil {
		return nil, fmt.Errorf("debit %s: %w", debitEmail, err)
	}
	if _, err := w.accounts.AdjustBalance(ctx, creditEmail, creditAmount); err != nil {
		return nil, fmt.Errorf("%w: %s debited %d but credit to %s failed: %v",
			domain.ErrInconsistent, debitEmail, debitAmount, creditEmail, err)
	}

	settled, err := w.requests.MarkSettled(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: balances moved but request %s could not be settled: %v",
			domain.ErrInconsistent, req.ID, err)
	}
	if !settled {
		// A concurrent approval won the settle race after our legs applied.
		return nil, fmt.Errorf("%w: request %s settled concurrently, balances need reconciliation",
			domain.ErrConflict, req.ID)
	}

	rec := domain.TransactionRecord{
		TxID:           req.TxID,
		Kind:           req.Kind,
		SenderEmail:    req.SenderEmail,
		SenderName:     req.SenderName,
		SenderPhone:    req.SenderPhone,
		RecipientEmail: req.AgentEmail,
		RecipientName:  req.AgentName,
		RecipientPhone: req.AgentPhone,
		Amount:         req.Amount,
		Fee:            req.Fee,
		CreatedAt:      time.Now().UTC(),
	}
	if err := w.ledger.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: request %s settled but ledger append failed: %v",
			domain.ErrInconsistent, req.ID, err)
	}

	req.Status = domain.RequestSettled
	return req, nil
}

// Inbox lists an agent's requests, optionally filtered by status or a
// free-text match on sender name / status.
func (w *ApprovalWorkflow) Inbox(ctx context.Context, opts ListRequestsOptions) ([]domain.PendingRequest, error) {
	return w.requests.List(ctx, opts)
}
