package withdrawal

import (
	"fmt"
	"strings"

	"cash/internal/domain"
	"cash/pkg/errors"

	"github.com/shopspring/decimal"
)

// Approval is the result of a request that passed every rule.
type Approval struct {
	Fee            decimal.Decimal `json:"fee"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	ProcessingTime string          `json:"processing_time"`
}

// Validate decides a withdrawal request against the account's balances,
// verification status and the method catalog. It is pure: same inputs,
// same decision. Rules run in a fixed order and the first failure wins.
func Validate(req domain.WithdrawalRequest, balances domain.AccountBalances, verification domain.VerificationStatus, catalog Catalog) (*Approval, error) {
	// Gate 0: the validator is the authority on eligibility even when the
	// caller hides the form.
	if !verification.Eligible() {
		return nil, errors.ErrAccountNotVerified
	}

	if !req.Source.Valid() {
		return nil, errors.ErrMissingSource
	}

	method, ok := catalog.Find(req.Method)
	if !ok {
		return nil, errors.ErrMissingMethod
	}

	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	if req.Amount.LessThan(method.MinAmount) {
		return nil, fmt.Errorf("%w: minimum withdrawal amount for %s is $%s",
			errors.ErrBelowMinimum, method.Name, method.MinAmount)
	}

	if req.Amount.GreaterThan(method.MaxAmount) {
		return nil, fmt.Errorf("%w: maximum withdrawal amount for %s is $%s",
			errors.ErrAboveMaximum, method.Name, method.MaxAmount)
	}

	if req.Amount.GreaterThan(balances.Available(req.Source)) {
		return nil, errors.ErrInsufficientBalance
	}

	if err := checkPayoutDetails(method, req.PayoutDetails); err != nil {
		return nil, err
	}

	net := req.Amount.Sub(method.FeeFlat)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return &Approval{
		Fee:            method.FeeFlat,
		NetAmount:      net,
		ProcessingTime: method.ProcessingTime,
	}, nil
}

func checkPayoutDetails(method Method, details domain.PayoutDetails) error {
	missing := func(fields ...string) error {
		return fmt.Errorf("%w: %s requires %s",
			errors.ErrIncompletePayoutDetails, method.Name, strings.Join(fields, ", "))
	}

	switch method.ID {
	case domain.MethodBankTransfer:
		if details.BankName == "" || details.AccountNumber == "" ||
			details.RoutingNumber == "" || details.AccountHolder == "" {
			return missing("bank name", "account number", "routing number", "account holder")
		}
	case domain.MethodPayPal:
		if details.PayPalEmail == "" {
			return missing("paypal email")
		}
	case domain.MethodCrypto:
		if details.CryptoAddress == "" {
			return missing("wallet address")
		}
	}
	return nil
}

// ParseAmount converts user input into a decimal amount. Unparseable or
// non-positive input maps to ErrInvalidAmount, matching rule 3.
func ParseAmount(input string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", errors.ErrInvalidAmount, input)
	}
	if !amount.IsPositive() {
		return decimal.Zero, errors.ErrInvalidAmount
	}
	return amount, nil
}
