package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxWithdrawal TransactionType = "withdrawal"
	TxEarning    TransactionType = "earning"
	TxBonus      TransactionType = "bonus"
	TxTeam       TransactionType = "team"
)

type TransactionStatus string

const (
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusPending   TransactionStatus = "pending"
	TxStatusFailed    TransactionStatus = "failed"
)

// Transaction is a single ledger entry. Amount is signed: withdrawals are
// negative, earnings/bonuses/commissions positive.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	Reference     string            `json:"reference"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Fee           decimal.Decimal   `json:"fee"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	Method        string            `json:"method,omitempty"`
	Source        string            `json:"source,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
