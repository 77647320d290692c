package domain

import "time"

// TransactionKind is the closed set of operations that can settle.
type TransactionKind string

const (
	KindSendMoney TransactionKind = "send-money"
	KindCashIn    TransactionKind = "cash-in"
	KindCashOut   TransactionKind = "cash-out"
)

// TransactionRecord is one settled movement of money. Records are
// append-only and never mutated. Sender and recipient are denormalized
// snapshots so history stays stable if an account is renamed later.
type TransactionRecord struct {
	TxID           string          `json:"tx_id"`
	Kind           TransactionKind `json:"kind"`
	SenderEmail    string          `json:"sender_email"`
	SenderName     string          `json:"sender_name"`
	SenderPhone    string          `json:"sender_phone"`
	RecipientEmail string          `json:"recipient_email"`
	RecipientName  string          `json:"recipient_name"`
	RecipientPhone string          `json:"recipient_phone"`
	Amount         int64           `json:"amount"`
	Fee            int64           `json:"fee"`
	CreatedAt      time.Time       `json:"created_at"`
}
