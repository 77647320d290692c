package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		bonus_granted BOOLEAN NOT NULL DEFAULT FALSE,
		pin_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		tx_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		sender_email TEXT NOT NULL,
		sender_name TEXT NOT NULL,
		sender_phone TEXT NOT NULL,
		recipient_email TEXT NOT NULL,
		recipient_name TEXT NOT NULL,
		recipient_phone TEXT NOT NULL,
		amount BIGINT NOT NULL,
		fee BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_sender ON transactions (sender_email, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_recipient ON transactions (recipient_email, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS requests (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		sender_email TEXT NOT NULL,
		sender_name TEXT NOT NULL,
		sender_phone TEXT NOT NULL,
		agent_email TEXT NOT NULL,
		agent_name TEXT NOT NULL,
		agent_phone TEXT NOT NULL,
		amount BIGINT NOT NULL,
		fee BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		tx_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_agent ON requests (agent_email, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		key_hash TEXT PRIMARY KEY,
		account_email TEXT NOT NULL REFERENCES accounts(email),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key_id TEXT PRIMARY KEY,
		response_status INT NOT NULL,
		response_body BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_jobs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		url TEXT NOT NULL,
		payload JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		attempts INT NOT NULL DEFAULT 0,
		next_run_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
