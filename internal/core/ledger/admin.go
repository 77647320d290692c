package ledger

import (
	"context"
	"fmt"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
)

// Admin performs the administrative status/bonus side-channel. It is
// not a transfer, but it shares the no-negative-balance and once-only
// invariants with the engine.
type Admin struct {
	accounts AccountStore
}

func NewAdmin(accounts AccountStore) *Admin {
	return &Admin{accounts: accounts}
}

// SetAccountStatus applies newStatus to the target account and, unless
// the account is being blocked, grants the role-based welcome bonus
// (40 for users, 10000 for agents) exactly once per account. Callers
// must hold the agent or admin role; anyone else is denied.
func (a *Admin) SetAccountStatus(ctx context.Context, callerEmail, targetEmail string, newStatus domain.AccountStatus) (*domain.Account, error) {
	caller, err := a.accounts.FindByEmail(ctx, callerEmail)
	if err != nil {
		return nil, fmt.Errorf("caller %s: %w", callerEmail, err)
	}
	switch caller.Role {
	case domain.RoleAgent, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: status updates need an agent or admin caller", domain.ErrInvalidRecipient)
	}

	if newStatus != domain.StatusActive && newStatus != domain.StatusBlocked {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrConflict, newStatus)
	}

	target, err := a.accounts.FindByEmail(ctx, targetEmail)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", targetEmail, err)
	}

	if err := a.accounts.SetStatus(ctx, target.Email, newStatus); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if newStatus != domain.StatusBlocked {
		if bonus := domain.BonusFor(target.Role); bonus > 0 {
			if _, err := a.accounts.GrantBonus(ctx, target.Email, bonus); err != nil {
				return nil, fmt.Errorf("grant bonus: %w", err)
			}
		}
	}

	updated, err := a.accounts.FindByEmail(ctx, target.Email)
	if err != nil {
		return nil, fmt.Errorf("reload target %s: %w", targetEmail, err)
	}
	return updated, nil
}
