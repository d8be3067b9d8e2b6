package withdrawal

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"cash/internal/domain"
	"cash/pkg/errors"
	"cash/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is returned to the caller after a request was accepted and
// handed to the processing backend.
type Receipt struct {
	TransactionID  uuid.UUID                `json:"transaction_id"`
	Reference      string                   `json:"reference"`
	Amount         decimal.Decimal          `json:"amount"`
	Fee            decimal.Decimal          `json:"fee"`
	NetAmount      decimal.Decimal          `json:"net_amount"`
	ProcessingTime string                   `json:"processing_time"`
	Status         domain.TransactionStatus `json:"status"`
}

// Service validates withdrawal requests and, once approved, submits them
// to the processing backend and books a pending ledger entry.
type Service struct {
	catalog   Catalog
	submitter Submitter
	ledger    Ledger
	logger    logger.Logger

	refSeq atomic.Uint64
}

func NewService(catalog Catalog, submitter Submitter, ledger Ledger, log logger.Logger) *Service {
	return &Service{
		catalog:   catalog,
		submitter: submitter,
		ledger:    ledger,
		logger:    log,
	}
}

// Catalog exposes the method catalog for rendering.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Request runs the full accept path: validate, submit, book. Rejections
// and submission failures leave the ledger untouched.
func (s *Service) Request(ctx context.Context, req domain.WithdrawalRequest, balances domain.AccountBalances, verification domain.VerificationStatus) (*Receipt, error) {
	approval, err := Validate(req, balances, verification, s.catalog)
	if err != nil {
		return nil, err
	}

	if err := s.submitter.SubmitWithdrawal(ctx, req, approval); err != nil {
		s.logger.Error("Withdrawal submission failed", map[string]interface{}{
			"source": req.Source,
			"method": req.Method,
			"amount": req.Amount,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", errors.ErrWithdrawalSubmissionFailed, err)
	}

	method, _ := s.catalog.Find(req.Method)
	now := time.Now()

	tx := &domain.Transaction{
		ID:          uuid.New(),
		Reference:   s.nextReference(now),
		Type:        domain.TxWithdrawal,
		Amount:      req.Amount.Neg(),
		Fee:         approval.Fee,
		Description: method.Name + " Withdrawal",
		Status:      domain.TxStatusPending,
		Method:      method.Name,
		Source:      string(req.Source),
		CreatedAt:   now,
	}
	if err := s.ledger.Record(ctx, tx); err != nil {
		return nil, errors.Wrap(err, "record withdrawal")
	}

	s.logger.Info("Withdrawal submitted", map[string]interface{}{
		"transaction_id": tx.ID,
		"reference":      tx.Reference,
		"source":         req.Source,
		"method":         req.Method,
		"amount":         req.Amount,
		"fee":            approval.Fee,
		"net_amount":     approval.NetAmount,
	})

	return &Receipt{
		TransactionID:  tx.ID,
		Reference:      tx.Reference,
		Amount:         req.Amount,
		Fee:            approval.Fee,
		NetAmount:      approval.NetAmount,
		ProcessingTime: approval.ProcessingTime,
		Status:         tx.Status,
	}, nil
}

func (s *Service) nextReference(now time.Time) string {
	return fmt.Sprintf("WD-%s-%03d", now.Format("20060102"), s.refSeq.Add(1))
}

// Submitter is the withdrawal-processing backend. It is called only after
// the request was approved; the service does not retry it.
type Submitter interface {
	SubmitWithdrawal(ctx context.Context, req domain.WithdrawalRequest, approval *Approval) error
}

// Ledger books the pending transaction for an accepted request.
type Ledger interface {
	Record(ctx context.Context, tx *domain.Transaction) error
}
