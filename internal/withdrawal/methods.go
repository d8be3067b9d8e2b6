package withdrawal

import (
	"cash/internal/domain"
	"cash/pkg/config"

	"github.com/shopspring/decimal"
)

// Method is a payout rail with its flat fee and amount limits.
type Method struct {
	ID             domain.WithdrawalMethodID `json:"id"`
	Name           string                    `json:"name"`
	FeeFlat        decimal.Decimal           `json:"fee"`
	MinAmount      decimal.Decimal           `json:"min_amount"`
	MaxAmount      decimal.Decimal           `json:"max_amount"`
	ProcessingTime string                    `json:"processing_time"`
}

// Catalog is the read-only set of supported methods.
type Catalog []Method

// DefaultCatalog returns the platform's three payout rails.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:             domain.MethodBankTransfer,
			Name:           "Bank Transfer",
			FeeFlat:        decimal.NewFromFloat(5.00),
			MinAmount:      decimal.NewFromInt(50),
			MaxAmount:      decimal.NewFromInt(10000),
			ProcessingTime: "1-3 business days",
		},
		{
			ID:             domain.MethodPayPal,
			Name:           "PayPal",
			FeeFlat:        decimal.NewFromFloat(2.50),
			MinAmount:      decimal.NewFromInt(10),
			MaxAmount:      decimal.NewFromInt(5000),
			ProcessingTime: "24 hours",
		},
		{
			ID:             domain.MethodCrypto,
			Name:           "Cryptocurrency",
			FeeFlat:        decimal.NewFromFloat(15.00),
			MinAmount:      decimal.NewFromInt(100),
			MaxAmount:      decimal.NewFromInt(50000),
			ProcessingTime: "1-2 hours",
		},
	}
}

// WithFeeOverrides returns a copy of the catalog with non-zero configured
// fees applied.
func (c Catalog) WithFeeOverrides(cfg config.WithdrawalConfig) Catalog {
	overrides := map[domain.WithdrawalMethodID]decimal.Decimal{
		domain.MethodBankTransfer: cfg.BankFee,
		domain.MethodPayPal:       cfg.PayPalFee,
		domain.MethodCrypto:       cfg.CryptoFee,
	}

	out := make(Catalog, len(c))
	copy(out, c)
	for i := range out {
		if fee, ok := overrides[out[i].ID]; ok && fee.IsPositive() {
			out[i].FeeFlat = fee
		}
	}
	return out
}

// Find returns the method with the given id.
func (c Catalog) Find(id domain.WithdrawalMethodID) (Method, bool) {
	for _, m := range c {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}
