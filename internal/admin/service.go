// Package admin serves the administrative panel: platform stats, the user
// directory and the withdrawal approval queue.
package admin

import (
	"context"
	"time"

	"cash/internal/domain"
	"cash/internal/ledger"
	"cash/internal/offers"
	"cash/pkg/errors"
	"cash/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stats is the overview card block at the top of the panel.
type Stats struct {
	TotalUsers         int             `json:"total_users"`
	ActiveUsers        int             `json:"active_users"`
	TotalWithdrawals   decimal.Decimal `json:"total_withdrawals"`
	PendingWithdrawals decimal.Decimal `json:"pending_withdrawals"`
	TotalOffers        int             `json:"total_offers"`
	ActiveOffers       int             `json:"active_offers"`
}

// PendingWithdrawal is one row of the approval queue.
type PendingWithdrawal struct {
	TransactionID uuid.UUID                `json:"transaction_id"`
	Reference     string                   `json:"reference"`
	Amount        decimal.Decimal          `json:"amount"`
	Method        string                   `json:"method"`
	Status        domain.TransactionStatus `json:"status"`
	RequestedAt   time.Time                `json:"requested_at"`
}

// UserDirectory is the user store slice the panel reads.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]*UserAccount, error)
}

// LedgerAdmin is the ledger slice the panel drives.
type LedgerAdmin interface {
	List(ctx context.Context, f ledger.Filter) ([]*domain.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	Summarize(ctx context.Context) (*ledger.Summary, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus, failureReason string) error
}

// OfferCatalog is the offers slice the panel reads.
type OfferCatalog interface {
	List(ctx context.Context, f offers.Filter) ([]*domain.Offer, error)
}

type Service struct {
	users  UserDirectory
	ledger LedgerAdmin
	offers OfferCatalog
	logger logger.Logger
}

func NewService(users UserDirectory, ledgerAdmin LedgerAdmin, offerCatalog OfferCatalog, log logger.Logger) *Service {
	return &Service{
		users:  users,
		ledger: ledgerAdmin,
		offers: offerCatalog,
		logger: log,
	}
}

// Stats aggregates the platform overview.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := s.offers.List(ctx, offers.Filter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalUsers:         len(users),
		TotalWithdrawals:   summary.TotalWithdrawals,
		PendingWithdrawals: summary.PendingAmount,
		TotalOffers:        len(catalog),
	}
	for _, u := range users {
		if u.Status == "verified" {
			stats.ActiveUsers++
		}
	}
	for _, o := range catalog {
		if o.Status == domain.OfferStatusActive {
			stats.ActiveOffers++
		}
	}
	return stats, nil
}

// ListUsers returns the user directory.
func (s *Service) ListUsers(ctx context.Context) ([]*UserAccount, error) {
	return s.users.ListUsers(ctx)
}

// PendingWithdrawals returns the approval queue, newest first.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]*PendingWithdrawal, error) {
	txs, err := s.ledger.List(ctx, ledger.Filter{
		Status: domain.TxStatusPending,
		Type:   domain.TxWithdrawal,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*PendingWithdrawal, 0, len(txs))
	for _, tx := range txs {
		out = append(out, &PendingWithdrawal{
			TransactionID: tx.ID,
			Reference:     tx.Reference,
			Amount:        tx.Amount.Abs(),
			Method:        tx.Method,
			Status:        tx.Status,
			RequestedAt:   tx.CreatedAt,
		})
	}
	return out, nil
}

// ApproveWithdrawal marks a pending withdrawal completed.
func (s *Service) ApproveWithdrawal(ctx context.Context, txID uuid.UUID) error {
	if err := s.requirePendingWithdrawal(ctx, txID); err != nil {
		return err
	}
	if err := s.ledger.UpdateStatus(ctx, txID, domain.TxStatusCompleted, ""); err != nil {
		return err
	}

	s.logger.Info("Withdrawal approved", map[string]interface{}{
		"transaction_id": txID,
	})
	return nil
}

// RejectWithdrawal marks a pending withdrawal failed with a reason.
func (s *Service) RejectWithdrawal(ctx context.Context, txID uuid.UUID, reason string) error {
	if err := s.requirePendingWithdrawal(ctx, txID); err != nil {
		return err
	}
	if err := s.ledger.UpdateStatus(ctx, txID, domain.TxStatusFailed, reason); err != nil {
		return err
	}

	s.logger.Info("Withdrawal rejected", map[string]interface{}{
		"transaction_id": txID,
		"reason":         reason,
	})
	return nil
}

func (s *Service) requirePendingWithdrawal(ctx context.Context, txID uuid.UUID) error {
	tx, err := s.ledger.Get(ctx, txID)
	if err != nil {
		return errors.ErrWithdrawalNotFound
	}
	if tx.Type != domain.TxWithdrawal {
		return errors.ErrWithdrawalNotFound
	}
	if tx.Status != domain.TxStatusPending {
		return errors.ErrWithdrawalNotPending
	}
	return nil
}
