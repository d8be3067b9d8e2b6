// Package registration drives the three-step sign-up flow: basic info,
// OTP verification, identity document upload. The flow is forward-only;
// a failed step leaves the current state untouched so the user can
// correct the draft and resubmit.
package registration

import (
	"context"
	"fmt"
	"time"

	"cash/internal/domain"
	"cash/pkg/errors"
	"cash/pkg/logger"
	"cash/pkg/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BasicInfo captures the step-1 fields. Validation tags run after the
// ordered password and terms checks, which own the first-failure contract.
type BasicInfo struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Flow is a single user's registration attempt. It owns the authoritative
// current step; the draft stays with the caller.
type Flow struct {
	step domain.RegistrationStep
	done bool

	otpAttempts    int
	maxOtpAttempts int

	otp       OtpService
	docs      DocumentStore
	registrar Registrar
	validate  *validator.Validator
	logger    logger.Logger
}

// NewFlow starts a flow at the basic-info step. maxOtpAttempts bounds
// failed OTP submissions; zero means unlimited.
func NewFlow(otp OtpService, docs DocumentStore, registrar Registrar, v *validator.Validator, maxOtpAttempts int, log logger.Logger) *Flow {
	return &Flow{
		step:           domain.StepBasicInfo,
		maxOtpAttempts: maxOtpAttempts,
		otp:            otp,
		docs:           docs,
		registrar:      registrar,
		validate:       v,
		logger:         log,
	}
}

// Step returns the current step, or "" once the flow has completed.
func (f *Flow) Step() domain.RegistrationStep {
	if f.done {
		return ""
	}
	return f.step
}

// Done reports whether the flow has produced an identity.
func (f *Flow) Done() bool {
	return f.done
}

// OtpAttempts returns the number of failed OTP submissions so far.
func (f *Flow) OtpAttempts() int {
	return f.otpAttempts
}

// Submit advances the flow by one step using the draft's current contents.
// The returned identity is non-nil only on the terminal transition.
func (f *Flow) Submit(ctx context.Context, draft *domain.RegistrationDraft) (*domain.UserIdentity, error) {
	switch f.Step() {
	case domain.StepBasicInfo:
		return nil, f.SubmitBasicInfo(ctx, draft)
	case domain.StepOtpVerification:
		return nil, f.SubmitOtp(ctx, draft)
	case domain.StepDocumentUpload:
		return f.SubmitDocuments(ctx, draft)
	default:
		return nil, errors.ErrWrongStep
	}
}

// FieldErrors reports step-1 problems keyed by field name for inline form
// rendering. It runs the same checks as SubmitBasicInfo but never advances
// the flow; nil means the draft would pass.
func (f *Flow) FieldErrors(draft *domain.RegistrationDraft) map[string]string {
	info := BasicInfo{
		FirstName:       draft.FirstName,
		LastName:        draft.LastName,
		Email:           draft.Email,
		Password:        draft.Password,
		ConfirmPassword: draft.ConfirmPassword,
	}
	return f.validate.ValidateStructured(&info)
}

// SubmitBasicInfo validates the step-1 fields, dispatches the OTP and
// advances to verification. Check order matters: password mismatch wins
// over unaccepted terms, which wins over field-level validation.
func (f *Flow) SubmitBasicInfo(ctx context.Context, draft *domain.RegistrationDraft) error {
	if f.Step() != domain.StepBasicInfo {
		return errors.ErrWrongStep
	}

	if draft.Password != draft.ConfirmPassword {
		return errors.ErrPasswordMismatch
	}
	if !draft.AgreedToTerms {
		return errors.ErrTermsNotAccepted
	}

	info := BasicInfo{
		FirstName:       draft.FirstName,
		LastName:        draft.LastName,
		Email:           draft.Email,
		Password:        draft.Password,
		ConfirmPassword: draft.ConfirmPassword,
	}
	if err := f.validate.Validate(&info); err != nil {
		return err
	}

	if err := f.otp.Send(ctx, draft.Email); err != nil {
		f.logger.Error("OTP dispatch failed", map[string]interface{}{
			"email": draft.Email,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %v", errors.ErrOtpSendFailed, err)
	}

	f.step = domain.StepOtpVerification
	f.logger.Info("Registration advanced", map[string]interface{}{
		"email": draft.Email,
		"step":  f.step,
	})
	return nil
}

// SubmitOtp checks the entered code against the verification oracle. A
// mismatch keeps the flow at this step for another attempt.
func (f *Flow) SubmitOtp(ctx context.Context, draft *domain.RegistrationDraft) error {
	if f.Step() != domain.StepOtpVerification {
		return errors.ErrWrongStep
	}
	if f.maxOtpAttempts > 0 && f.otpAttempts >= f.maxOtpAttempts {
		return errors.ErrTooManyOtpAttempts
	}

	ok, err := f.otp.Verify(ctx, draft.Email, draft.OtpCode)
	if err != nil {
		return errors.Wrap(err, "verify otp")
	}
	if !ok {
		f.otpAttempts++
		return errors.ErrInvalidOtp
	}

	f.step = domain.StepDocumentUpload
	f.logger.Info("Registration advanced", map[string]interface{}{
		"email": draft.Email,
		"step":  f.step,
	})
	return nil
}

// SubmitDocuments stores the uploaded ID and finalizes the registration.
// Any side-effect failure keeps the flow at this step.
func (f *Flow) SubmitDocuments(ctx context.Context, draft *domain.RegistrationDraft) (*domain.UserIdentity, error) {
	if f.Step() != domain.StepDocumentUpload {
		return nil, errors.ErrWrongStep
	}

	if err := f.docs.StoreIdentityDocuments(ctx, draft.Email, draft.Documents); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrRegistrationFailed, err)
	}

	identity, err := f.finalize(ctx, draft)
	if err != nil {
		return nil, err
	}

	f.done = true
	f.logger.Info("Registration completed", map[string]interface{}{
		"user_id": identity.ID,
		"email":   identity.Email,
	})
	return identity, nil
}

// finalize synthesizes the identity from the draft and hands it to the
// registrar. Only the bcrypt hash of the password is retained.
func (f *Flow) finalize(ctx context.Context, draft *domain.RegistrationDraft) (*domain.UserIdentity, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &domain.UserIdentity{
		ID:           uuid.New(),
		DisplayName:  validator.Sanitize(draft.FirstName + " " + draft.LastName),
		Email:        draft.Email,
		Role:         domain.RoleUser,
		Verified:     true,
		ReferralCode: draft.ReferralCode,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now(),
	}

	if err := f.registrar.CreateUser(ctx, identity); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrRegistrationFailed, err)
	}
	return identity, nil
}

// OtpService dispatches and verifies one-time passcodes.
type OtpService interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (bool, error)
}

// DocumentStore retains the uploaded identity documents.
type DocumentStore interface {
	StoreIdentityDocuments(ctx context.Context, ownerEmail string, docs domain.IdentityDocuments) error
}

// Registrar is the backend that records the finished identity.
type Registrar interface {
	CreateUser(ctx context.Context, identity *domain.UserIdentity) error
}
