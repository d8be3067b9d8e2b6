// Package dashboard aggregates the account overview shown on the landing
// page: balances per bucket, pending withdrawals and recent activity.
package dashboard

import (
	"context"

	"cash/internal/domain"
	"cash/internal/ledger"
	"cash/pkg/logger"

	"github.com/shopspring/decimal"
)

// Overview is everything the dashboard page renders above the charts.
type Overview struct {
	TotalBalance       decimal.Decimal       `json:"total_balance"`
	PersonalEarnings   decimal.Decimal       `json:"personal_earnings"`
	TeamEarnings       decimal.Decimal       `json:"team_earnings"`
	Bonuses            decimal.Decimal       `json:"bonuses"`
	Capital            decimal.Decimal       `json:"capital"`
	PendingWithdrawals decimal.Decimal       `json:"pending_withdrawals"`
	Verified           bool                  `json:"verified"`
	RecentTransactions []*domain.Transaction `json:"recent_transactions"`
}

// LedgerReader is the slice of the ledger service the dashboard needs.
type LedgerReader interface {
	Recent(ctx context.Context, n int) ([]*domain.Transaction, error)
	Summarize(ctx context.Context) (*ledger.Summary, error)
}

type Service struct {
	ledger LedgerReader
	logger logger.Logger
}

func NewService(ledgerReader LedgerReader, log logger.Logger) *Service {
	return &Service{
		ledger: ledgerReader,
		logger: log,
	}
}

const recentCount = 4

// Overview builds the landing-page aggregation from the caller-supplied
// balances and verification state.
func (s *Service) Overview(ctx context.Context, balances domain.AccountBalances, verification domain.VerificationStatus) (*Overview, error) {
	summary, err := s.ledger.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.ledger.Recent(ctx, recentCount)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, amount := range balances {
		total = total.Add(amount)
	}

	s.logger.Debug("Overview aggregated", map[string]interface{}{
		"total_balance":       total,
		"pending_withdrawals": summary.PendingAmount,
		"recent":              len(recent),
	})

	return &Overview{
		TotalBalance:       total,
		PersonalEarnings:   balances.Available(domain.SourcePersonal),
		TeamEarnings:       balances.Available(domain.SourceTeam),
		Bonuses:            balances.Available(domain.SourceBonus),
		Capital:            balances.Available(domain.SourceCapital),
		PendingWithdrawals: summary.PendingAmount,
		Verified:           verification.Eligible(),
		RecentTransactions: recent,
	}, nil
}
