package domain

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending RequestStatus = "pending"
	RequestSettled RequestStatus = "settled"
)

// PendingRequest is a cash-in or cash-out intent waiting for agent
// approval. Balances are untouched until approval; the request is kept
// after settlement as an audit record and transitions to settled at
// most once.
type PendingRequest struct {
	ID          uuid.UUID       `json:"id"`
	Kind        TransactionKind `json:"kind"`
	SenderEmail string          `json:"sender_email"`
	SenderName  string          `json:"sender_name"`
	SenderPhone string          `json:"sender_phone"`
	AgentEmail  string          `json:"agent_email"`
	AgentName   string          `json:"agent_name"`
	AgentPhone  string          `json:"agent_phone"`
	Amount      int64           `json:"amount"`
	Fee         int64           `json:"fee"`
	Status      RequestStatus   `json:"status"`
	TxID        string          `json:"tx_id"`
	CreatedAt   time.Time       `json:"created_at"`
}
