package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
)

// LedgerRepository is the append-only Postgres transaction ledger.
// When a webhook URL is configured, every appended record also
// enqueues a delivery job for the background worker.
type LedgerRepository struct {
	db         *pgxpool.Pool
	webhookURL string
}

func NewLedgerRepository(db *pgxpool.Pool, webhookURL string) *LedgerRepository {
	return &LedgerRepository{db: db, webhookURL: webhookURL}
}

func (r *LedgerRepository) Append(ctx context.Context, rec domain.TransactionRecord) error {
	query := `
		INSERT INTO transactions (tx_id, kind, sender_email, sender_name, sender_phone,
			recipient_email, recipient_name, recipient_phone, amount, fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query, rec.TxID, rec.Kind, rec.SenderEmail, rec.SenderName,
		rec.SenderPhone, rec.RecipientEmail, rec.RecipientName, rec.RecipientPhone,
		rec.Amount, rec.Fee, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append transaction %s: %w", rec.TxID, err)
	}

	r.enqueueWebhook(ctx, rec)
	return nil
}

// enqueueWebhook queues a settlement notification. Delivery failures
// are the worker's problem; a failed enqueue is logged, not returned,
// because the settlement itself already committed.
func (r *LedgerRepository) enqueueWebhook(ctx context.Context, rec domain.TransactionRecord) {
	if r.webhookURL == "" {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": "transaction.settled",
		"data":  rec,
	})
	if err != nil {
		slog.Error("failed to marshal webhook payload", "error", err, "tx_id", rec.TxID)
		return
	}

	_, err = r.db.Exec(ctx, `INSERT INTO webhook_jobs (url, payload) VALUES ($1, $2)`, r.webhookURL, payload)
	if err != nil {
		slog.Error("failed to enqueue webhook job", "error", err, "tx_id", rec.TxID)
	}
}

func (r *LedgerRepository) ListByParticipant(ctx context.Context, identity string, limit int) ([]domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT tx_id, kind, sender_email, sender_name, sender_phone,
			recipient_email, recipient_name, recipient_phone, amount, fee, created_at
		FROM transactions
		WHERE sender_email = $1 OR recipient_email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", identity, err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var rec domain.TransactionRecord
		if err := rows.Scan(&rec.TxID, &rec.Kind, &rec.SenderEmail, &rec.SenderName,
			&rec.SenderPhone, &rec.RecipientEmail, &rec.RecipientName, &rec.RecipientPhone,
			&rec.Amount, &rec.Fee, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return records, nil
}
