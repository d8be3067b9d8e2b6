// Package ledger keeps the account's transaction history and answers the
// filtered views the dashboard and transactions pages render.
package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cash/internal/domain"
	"cash/pkg/errors"
	"cash/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows a transaction listing. Zero values mean "all".
type Filter struct {
	// Search matches case-insensitively against description and reference.
	Search string
	Status domain.TransactionStatus
	Type   domain.TransactionType
	// Window keeps only transactions newer than now-Window.
	Window time.Duration
}

// Summary aggregates the ledger the way the transactions page does:
// income is positive completed entries, withdrawals the absolute value of
// negative completed entries, pending the absolute value of anything
// still pending.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	PendingAmount    decimal.Decimal `json:"pending_amount"`
}

type Service struct {
	repo   Repository
	logger logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Record appends a transaction to the ledger.
func (s *Service) Record(ctx context.Context, tx *domain.Transaction) error {
	if err := s.repo.Create(ctx, tx); err != nil {
		return err
	}

	s.logger.Info("Transaction recorded", map[string]interface{}{
		"transaction_id": tx.ID,
		"reference":      tx.Reference,
		"type":           tx.Type,
		"amount":         tx.Amount,
		"status":         tx.Status,
	})
	return nil
}

// List returns matching transactions, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*domain.Transaction, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var cutoff time.Time
	if f.Window > 0 {
		cutoff = time.Now().Add(-f.Window)
	}

	var out []*domain.Transaction
	for _, tx := range txs {
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Reference), search) {
			continue
		}
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if !cutoff.IsZero() && tx.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, tx)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Recent returns the latest n transactions.
func (s *Service) Recent(ctx context.Context, n int) ([]*domain.Transaction, error) {
	txs, err := s.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	if len(txs) > n {
		txs = txs[:n]
	}
	return txs, nil
}

// Summarize computes the ledger totals.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalIncome:      decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		PendingAmount:    decimal.Zero,
	}
	for _, tx := range txs {
		switch {
		case tx.Status == domain.TxStatusPending:
			summary.PendingAmount = summary.PendingAmount.Add(tx.Amount.Abs())
		case tx.Status == domain.TxStatusCompleted && tx.Amount.IsPositive():
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case tx.Status == domain.TxStatusCompleted && tx.Amount.IsNegative():
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(tx.Amount.Abs())
		}
	}
	return summary, nil
}

// Get returns a single transaction by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus moves a transaction to a new status. failureReason is kept
// only when the new status is failed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, failureReason string) error {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	tx.Status = status
	if status == domain.TxStatusFailed {
		tx.FailureReason = failureReason
	} else {
		tx.FailureReason = ""
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		return err
	}

	s.logger.Info("Transaction status updated", map[string]interface{}{
		"transaction_id": id,
		"status":         status,
	})
	return nil
}

// Repository interface
type Repository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
}

// InMemoryRepository is the mock-state store behind the dashboard.
type InMemoryRepository struct {
	mu  sync.RWMutex
	txs map[uuid.UUID]*domain.Transaction
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		txs: make(map[uuid.UUID]*domain.Transaction),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.ID]; !ok {
		return errors.ErrTransactionNotFound
	}
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, errors.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}
