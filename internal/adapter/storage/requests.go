package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

// RequestRepository is the Postgres pending-request queue. Settled
// requests are never deleted; they stay behind as audit records.
type RequestRepository struct {
	db *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, kind, sender_email, sender_name, sender_phone,
	agent_email, agent_name, agent_phone, amount, fee, status, tx_id, created_at`

func scanRequest(row pgx.Row) (*domain.PendingRequest, error) {
	var req domain.PendingRequest
	err := row.Scan(&req.ID, &req.Kind, &req.SenderEmail, &req.SenderName, &req.SenderPhone,
		&req.AgentEmail, &req.AgentName, &req.AgentPhone, &req.Amount, &req.Fee,
		&req.Status, &req.TxID, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req domain.PendingRequest) error {
	query := `
		INSERT INTO requests (id, kind, sender_email, sender_name, sender_phone,
			agent_email, agent_name, agent_phone, amount, fee, status, tx_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.Kind, req.SenderEmail, req.SenderName,
		req.SenderPhone, req.AgentEmail, req.AgentName, req.AgentPhone, req.Amount,
		req.Fee, req.Status, req.TxID, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create request %s: %w", req.ID, err)
	}
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PendingRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", id, err)
	}
	return req, nil
}

// MarkSettled is a compare-and-set on the pending status: only one
// caller ever sees a row transition.
func (r *RequestRepository) MarkSettled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE requests SET status = $1 WHERE id = $2 AND status = $3`
	tag, err := r.db.Exec(ctx, query, domain.RequestSettled, id, domain.RequestPending)
	if err != nil {
		return false, fmt.Errorf("settle request %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RequestRepository) List(ctx context.Context, opts ledger.ListRequestsOptions) ([]domain.PendingRequest, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		clauses []string
		args    []interface{}
	)
	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.AgentEmail != "" {
		clauses = append(clauses, "agent_email = "+addArg(opts.AgentEmail))
	}
	if opts.Status != "" {
		clauses = append(clauses, "status = "+addArg(opts.Status))
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		placeholder := addArg("%" + strings.ToLower(search) + "%")
		clauses = append(clauses, "(LOWER(sender_name) LIKE "+placeholder+" OR LOWER(status) LIKE "+placeholder+")")
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + addArg(limit) + " OFFSET " + addArg(offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.PendingRequest
	for rows.Next() {
		var req domain.PendingRequest
		if err := rows.Scan(&req.ID, &req.Kind, &req.SenderEmail, &req.SenderName, &req.SenderPhone,
			&req.AgentEmail, &req.AgentName, &req.AgentPhone, &req.Amount, &req.Fee,
			&req.Status, &req.TxID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return requests, nil
}

// GetCachedResponse and SaveResponse back the idempotency middleware.

func (r *RequestRepository) GetCachedResponse(ctx context.Context, key string) (int, []byte, bool, error) {
	var status int
	var body []byte
	err := r.db.QueryRow(ctx,
		`SELECT response_status, response_body FROM idempotency_keys WHERE key_id = $1`,
		key).Scan(&status, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return status, body, true, nil
}

func (r *RequestRepository) SaveResponse(ctx context.Context, key string, status int, body []byte) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO idempotency_keys (key_id, response_status, response_body) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		key, status, body)
	if err != nil {
		return fmt.Errorf("save idempotency key: %w", err)
	}
	return nil
}
