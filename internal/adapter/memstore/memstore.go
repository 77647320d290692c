// Package memstore is an in-memory twin of the Postgres storage layer.
// It backs local development when no DATABASE_URL is configured and
// the engine test suites. All operations are guarded by one mutex, so
// each call is atomic the same way a single-row conditional update is.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JuborajSujon/mfs-backend/internal/core/domain"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
)

type cachedResponse struct {
	status int
	body   []byte
}

// Store holds accounts, the transaction ledger, the pending-request
// queue, API keys and idempotency responses.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*domain.Account // keyed by email
	phoneIndex   map[string]string          // phone -> email
	transactions []domain.TransactionRecord
	requests     map[uuid.UUID]*domain.PendingRequest
	apiKeys      map[string]string // key hash -> email
	idempotency  map[string]cachedResponse
}

func New() *Store {
	return &Store{
		accounts:    make(map[string]*domain.Account),
		phoneIndex:  make(map[string]string),
		requests:    make(map[uuid.UUID]*domain.PendingRequest),
		apiKeys:     make(map[string]string),
		idempotency: make(map[string]cachedResponse),
	}
}

// --- AccountStore ---

// CreateAccount inserts a new account, enforcing email and phone
// uniqueness the way the relational schema does.
func (s *Store) CreateAccount(_ context.Context, acc domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.Email]; exists {
		return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, acc.Email)
	}
	if _, exists := s.phoneIndex[acc.Phone]; exists {
		return fmt.Errorf("%w: phone %s already registered", domain.ErrConflict, acc.Phone)
	}

	snapshot := acc
	s.accounts[acc.Email] = &snapshot
	s.phoneIndex[acc.Phone] = acc.Email
	return nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(email)
}

func (s *Store) FindByPhone(_ context.Context, phone string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.phoneIndex[phone]
	if !ok {
		return nil, fmt.Errorf("phone %s: %w", phone, domain.ErrNotFound)
	}
	return s.lookupLocked(email)
}

func (s *Store) AdjustBalance(_ context.Context, email string, delta int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[email]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	if acc.Balance+delta < 0 {
		return nil, fmt.Errorf("%w: balance %d, delta %d", domain.ErrInsufficientFunds, acc.Balance, delta)
	}
	acc.Balance += delta

	snapshot := *acc
	return &snapshot, nil
}

func (s *Store) SetStatus(_ context.Context, email string, status domain.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[email]
	if !ok {
		return fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	acc.Status = status
	return nil
}

func (s *Store) GrantBonus(_ context.Context, email string, amount int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[email]
	if !ok {
		return false, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	if acc.BonusGranted {
		return false, nil
	}
	acc.Balance += amount
	acc.BonusGranted = true
	return true, nil
}

func (s *Store) lookupLocked(email string) (*domain.Account, error) {
	acc, ok := s.accounts[email]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	snapshot := *acc
	return &snapshot, nil
}

// --- TransactionLedger ---

func (s *Store) Append(_ context.Context, rec domain.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, rec)
	return nil
}

func (s *Store) ListByParticipant(_ context.Context, identity string, limit int) ([]domain.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	var out []domain.TransactionRecord
	for _, rec := range s.transactions {
		if rec.SenderEmail == identity || rec.RecipientEmail == identity {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- RequestQueue ---

func (s *Store) Create(_ context.Context, req domain.PendingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[req.ID]; exists {
		return fmt.Errorf("%w: request %s already exists", domain.ErrConflict, req.ID)
	}
	snapshot := req
	s.requests[req.ID] = &snapshot
	return nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*domain.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	snapshot := *req
	return &snapshot, nil
}

func (s *Store) MarkSettled(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return false, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	if req.Status != domain.RequestPending {
		return false, nil
	}
	req.Status = domain.RequestSettled
	return true, nil
}

func (s *Store) List(_ context.Context, opts ledger.ListRequestsOptions) ([]domain.PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	var out []domain.PendingRequest
	for _, req := range s.requests {
		if opts.AgentEmail != "" && req.AgentEmail != opts.AgentEmail {
			continue
		}
		if opts.Status != "" && req.Status != opts.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(req.SenderName), search) &&
			!strings.Contains(strings.ToLower(string(req.Status)), search) {
			continue
		}
		out = append(out, *req)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- API keys / idempotency (middleware support) ---

func (s *Store) SaveAPIKey(_ context.Context, email, keyHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[email]; !ok {
		return fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	s.apiKeys[keyHash] = email
	return nil
}

func (s *Store) ResolveAPIKey(_ context.Context, keyHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.apiKeys[keyHash]
	if !ok {
		return "", fmt.Errorf("api key: %w", domain.ErrNotFound)
	}
	return email, nil
}

func (s *Store) GetCachedResponse(_ context.Context, key string) (int, []byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.idempotency[key]
	if !ok {
		return 0, nil, false, nil
	}
	return cached.status, cached.body, true, nil
}

func (s *Store) SaveResponse(_ context.Context, key string, status int, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.idempotency[key]; !exists {
		s.idempotency[key] = cachedResponse{status: status, body: append([]byte(nil), body...)}
	}
	return nil
}
