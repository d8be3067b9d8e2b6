package domain

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStep identifies the current step of the sign-up flow.
// The flow is forward-only: basic info, then OTP verification, then
// identity document upload.
type RegistrationStep string

const (
	StepBasicInfo       RegistrationStep = "basic_info"
	StepOtpVerification RegistrationStep = "otp_verification"
	StepDocumentUpload  RegistrationStep = "document_upload"
)

// DocumentUpload is an opaque handle to a file the user selected. The flow
// never inspects the bytes; the document store does.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// IdentityDocuments holds both sides of the national ID. Both are optional
// until the upload step.
type IdentityDocuments struct {
	Front *DocumentUpload
	Back  *DocumentUpload
}

// RegistrationDraft is the mutable, not-yet-committed form state. It is
// owned by a single flow instance and discarded once an identity is
// produced or the flow is abandoned.
type RegistrationDraft struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	ReferralCode    string
	AgreedToTerms   bool
	OtpCode         string
	Documents       IdentityDocuments
}

// UserRole distinguishes regular users from administrators.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// UserIdentity is the immutable result of a completed registration.
type UserIdentity struct {
	ID           uuid.UUID `json:"id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	Verified     bool      `json:"verified"`
	ReferralCode string    `json:"referral_code,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// VerificationStatus tracks which account checks have passed.
type VerificationStatus struct {
	Email    bool `json:"email"`
	Phone    bool `json:"phone"`
	Identity bool `json:"identity"`
	Address  bool `json:"address"`
}

// Eligible reports whether the account may request withdrawals. Address
// verification is not required.
func (v VerificationStatus) Eligible() bool {
	return v.Email && v.Phone && v.Identity
}
