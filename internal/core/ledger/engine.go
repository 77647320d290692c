package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/security"
)

// TransferEngine executes immediate user-to-user transfers.
type TransferEngine struct {
	accounts AccountStore
	ledger   TransactionLedger
}

func NewTransferEngine(accounts AccountStore, ledger TransactionLedger) *TransferEngine {
	return &TransferEngine{accounts: accounts, ledger: ledger}
}

// TransferResult acknowledges a settled send-money operation.
type TransferResult struct {
	TxID          string `json:"tx_id"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	SenderBalance int64  `json:"sender_balance"`
}

// Transfer validates and settles a send-money intent: debit the sender
// by amount+fee, credit the recipient by amount, append one ledger
// record. The fee is retained by the system, credited to nobody.
//
// The two balance legs are independent atomic adjustments, not one
// cross-account transaction. Validation failures happen before any
// mutation; a failure after the debit leg committed is surfaced as
// domain.ErrInconsistent and must be reconciled by an operator.
func (e *TransferEngine) Transfer(ctx context.Context, senderEmail, recipientPhone string, amount int64, pin string) (*TransferResult, error) {
	if amount <= 0 || amount > domain.MaxTransactionAmount {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}

	sender, err := e.accounts.FindByEmail(ctx, senderEmail)
	if err != nil {
		return nil, fmt.Errorf("sender %s: %w", senderEmail, err)
	}

	recipient, err := e.accounts.FindByPhone(ctx, domain.NormalizePhone(recipientPhone))
	if err != nil {
		return nil, fmt.Errorf("recipient %s: %w", recipientPhone, err)
	}
	if recipient.Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: send money is user to user, recipient is %s", domain.ErrInvalidRecipient, recipient.Role)
	}

	if !security.VerifyPIN(pin, sender.PINHash) {
		return nil, domain.ErrInvalidCredential
	}

	fee := domain.SendMoneyFee(amount)
	total := amount + fee
	if sender.Balance < total {
		return nil, fmt.Errorf("%w: balance %d, need %d", domain.ErrInsufficientFunds, sender.Balance, total)
	}

	debited, err := e.accounts.AdjustBalance(ctx, sender.Email, -total)
	if err != nil {
		return nil, fmt.Errorf("debit sender: %w", err)
	}

	if _, err := e.accounts.AdjustBalance(ctx, recipient.Email, amount); err != nil {
		return nil, fmt.Errorf("%w: sender debited %d but credit to %s failed: %v",
			domain.ErrInconsistent, total, recipient.Email, err)
	}

	txID, err := NewTransactionID()
	if err != nil {
		return nil, fmt.Errorf("%w: balances moved but id generation failed: %v", domain.ErrInconsistent, err)
	}

	rec := domain.TransactionRecord{
		TxID:           txID,
		Kind:           domain.KindSendMoney,
		SenderEmail:    sender.Email,
		SenderName:     sender.Name,
		SenderPhone:    sender.Phone,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		RecipientPhone: recipient.Phone,
		Amount:         amount,
		Fee:            fee,
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.ledger.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: balances moved but ledger append failed: %v", domain.ErrInconsistent, err)
	}

	return &TransferResult{
		TxID:          txID,
		Amount:        amount,
		Fee:           fee,
		SenderBalance: debited.Balance,
	}, nil
}

// History returns the caller's settled transactions, newest first.
func (e *TransferEngine) History(ctx context.Context, email string, limit int) ([]domain.TransactionRecord, error) {
	return e.ledger.ListByParticipant(ctx, email, limit)
}
