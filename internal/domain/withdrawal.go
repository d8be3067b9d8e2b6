package domain

import "github.com/shopspring/decimal"

// LedgerSource is one of the four balance buckets a withdrawal draws from.
type LedgerSource string

const (
	SourcePersonal LedgerSource = "personal"
	SourceTeam     LedgerSource = "team"
	SourceBonus    LedgerSource = "bonus"
	SourceCapital  LedgerSource = "capital"
)

// Valid reports whether the source is one of the known buckets.
func (s LedgerSource) Valid() bool {
	switch s {
	case SourcePersonal, SourceTeam, SourceBonus, SourceCapital:
		return true
	}
	return false
}

// AccountBalances maps each ledger source to its available amount. The core
// only reads it; ownership stays with the caller.
type AccountBalances map[LedgerSource]decimal.Decimal

// Available returns the balance for a source, zero if the bucket is absent.
func (b AccountBalances) Available(source LedgerSource) decimal.Decimal {
	if amount, ok := b[source]; ok {
		return amount
	}
	return decimal.Zero
}

// WithdrawalMethodID identifies a payout rail.
type WithdrawalMethodID string

const (
	MethodBankTransfer WithdrawalMethodID = "bank"
	MethodPayPal       WithdrawalMethodID = "paypal"
	MethodCrypto       WithdrawalMethodID = "crypto"
)

// PayoutDetails carries the method-shaped destination fields. Only the
// fields for the selected method are consulted.
type PayoutDetails struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	PayPalEmail   string `json:"paypal_email,omitempty"`
	CryptoAddress string `json:"crypto_address,omitempty"`
}

// WithdrawalRequest is the value object a withdrawal attempt is judged on.
type WithdrawalRequest struct {
	Source        LedgerSource       `json:"source"`
	Method        WithdrawalMethodID `json:"method"`
	Amount        decimal.Decimal    `json:"amount"`
	PayoutDetails PayoutDetails      `json:"payout_details"`
}
