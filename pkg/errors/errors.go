// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Registration errors
var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTermsNotAccepted   = errors.New("terms and conditions not accepted")
	ErrOtpSendFailed      = errors.New("failed to send otp")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrTooManyOtpAttempts = errors.New("too many otp attempts")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrWrongStep          = errors.New("wrong registration step")
)

// Withdrawal errors
var (
	ErrAccountNotVerified         = errors.New("account not verified")
	ErrMissingSource              = errors.New("withdrawal source not selected")
	ErrMissingMethod              = errors.New("withdrawal method not selected")
	ErrInvalidAmount              = errors.New("invalid withdrawal amount")
	ErrBelowMinimum               = errors.New("amount below method minimum")
	ErrAboveMaximum               = errors.New("amount above method maximum")
	ErrInsufficientBalance        = errors.New("insufficient balance")
	ErrIncompletePayoutDetails    = errors.New("incomplete payout details")
	ErrWithdrawalSubmissionFailed = errors.New("withdrawal submission failed")
	ErrWithdrawalNotFound         = errors.New("withdrawal not found")
	ErrWithdrawalNotPending       = errors.New("withdrawal is not pending")
)

// Document errors
var (
	ErrDocumentMissing    = errors.New("identity document missing")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// Catalog and lookup errors
var (
	ErrOfferNotFound       = errors.New("offer not found")
	ErrOfferNotActive      = errors.New("offer is not active")
	ErrOfferFull           = errors.New("offer has reached maximum participants")
	ErrOfferExpired        = errors.New("offer has expired")
	ErrAlreadyJoined       = errors.New("offer already joined")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
