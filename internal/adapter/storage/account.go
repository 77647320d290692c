package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
)

// AccountRepository is the Postgres implementation of the account
// store. Balance changes go through a single conditional UPDATE so two
// concurrent adjustments against one account serialize at the row.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, name, email, phone, role, status, balance, bonus_granted, pin_hash, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.Phone, &acc.Role,
		&acc.Status, &acc.Balance, &acc.BonusGranted, &acc.PINHash, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// CreateAccount inserts a new account. A unique-constraint violation
// on email or phone maps to domain.ErrConflict.
func (r *AccountRepository) CreateAccount(ctx context.Context, acc domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, email, phone, role, status, balance, bonus_granted, pin_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, acc.ID, acc.Name, acc.Email, acc.Phone, acc.Role,
		acc.Status, acc.Balance, acc.BonusGranted, acc.PINHash, acc.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: email or phone already registered", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", email, err)
	}
	return acc, nil
}

func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone = $1`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, fmt.Errorf("phone %s: %w", phone, err)
	}
	return acc, nil
}

// AdjustBalance applies delta in one conditional UPDATE. The WHERE
// clause (and the CHECK constraint behind it) rejects any adjustment
// that would drive the balance negative.
func (r *AccountRepository) AdjustBalance(ctx context.Context, email string, delta int64) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1
		WHERE email = $2 AND balance + $1 >= 0
		RETURNING ` + accountColumns
	acc, err := scanAccount(r.db.QueryRow(ctx, query, delta, email))
	if errors.Is(err, domain.ErrNotFound) {
		// No row updated: the account is missing or the balance was short.
		var exists bool
		if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("adjust balance for %s: %w", email, checkErr)
		}
		if !exists {
			return nil, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: adjustment of %d rejected for %s", domain.ErrInsufficientFunds, delta, email)
	}
	if err != nil {
		return nil, fmt.Errorf("adjust balance for %s: %w", email, err)
	}
	return acc, nil
}

func (r *AccountRepository) SetStatus(ctx context.Context, email string, status domain.AccountStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET status = $1 WHERE email = $2`, status, email)
	if err != nil {
		return fmt.Errorf("set status for %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	return nil
}

// GrantBonus credits the bonus and flips the flag in one conditional
// UPDATE, so the bonus lands at most once even under concurrent calls.
func (r *AccountRepository) GrantBonus(ctx context.Context, email string, amount int64) (bool, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, bonus_granted = TRUE
		WHERE email = $2 AND bonus_granted = FALSE
	`
	tag, err := r.db.Exec(ctx, query, amount, email)
	if err != nil {
		return false, fmt.Errorf("grant bonus for %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists); checkErr != nil {
			return false, fmt.Errorf("grant bonus for %s: %w", email, checkErr)
		}
		if !exists {
			return false, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
		}
		return false, nil
	}
	return true, nil
}

// SaveAPIKey stores the hashed key for an account.
func (r *AccountRepository) SaveAPIKey(ctx context.Context, email, keyHash string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO api_keys (key_hash, account_email) VALUES ($1, $2)`, keyHash, email)
	if err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}
	return nil
}

// ResolveAPIKey maps a key hash back to the owning account's email.
func (r *AccountRepository) ResolveAPIKey(ctx context.Context, keyHash string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `SELECT account_email FROM api_keys WHERE key_hash = $1`, keyHash).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("api key: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolve api key: %w", err)
	}
	return email, nil
}
