package registration

import (
	"context"
	"errors"
	"testing"

	"cash/internal/domain"
	casherrors "cash/pkg/errors"
	"cash/pkg/logger"
	"cash/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

type MockOtpService struct {
	mock.Mock
}

func (m *MockOtpService) Send(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockOtpService) Verify(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) StoreIdentityDocuments(ctx context.Context, ownerEmail string, docs domain.IdentityDocuments) error {
	args := m.Called(ctx, ownerEmail, docs)
	return args.Error(0)
}

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) CreateUser(ctx context.Context, identity *domain.UserIdentity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func newTestFlow(otp *MockOtpService, docs *MockDocumentStore, registrar *MockRegistrar, maxOtpAttempts int) *Flow {
	return NewFlow(otp, docs, registrar, validator.New(), maxOtpAttempts, logger.NewNop())
}

func validDraft() *domain.RegistrationDraft {
	return &domain.RegistrationDraft{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
		AgreedToTerms:   true,
	}
}

// --- Tests ---

func TestSubmitBasicInfoPasswordMismatch(t *testing.T) {
	flow := newTestFlow(new(MockOtpService), new(MockDocumentStore), new(MockRegistrar), 0)

	draft := validDraft()
	draft.ConfirmPassword = "something-else"
	// Mismatch wins regardless of other field values.
	draft.Email = ""
	draft.AgreedToTerms = false

	err := flow.SubmitBasicInfo(context.Background(), draft)
	assert.ErrorIs(t, err, casherrors.ErrPasswordMismatch)
	assert.Equal(t, domain.StepBasicInfo, flow.Step())
}

func TestSubmitBasicInfoTermsNotAccepted(t *testing.T) {
	flow := newTestFlow(new(MockOtpService), new(MockDocumentStore), new(MockRegistrar), 0)

	draft := validDraft()
	draft.AgreedToTerms = false

	err := flow.SubmitBasicInfo(context.Background(), draft)
	assert.ErrorIs(t, err, casherrors.ErrTermsNotAccepted)
	assert.Equal(t, domain.StepBasicInfo, flow.Step())
}

func TestFieldErrors(t *testing.T) {
	flow := newTestFlow(new(MockOtpService), new(MockDocumentStore), new(MockRegistrar), 0)

	errs := flow.FieldErrors(&domain.RegistrationDraft{})
	assert.Equal(t, "This field is required", errs["FirstName"])
	assert.Equal(t, "This field is required", errs["LastName"])
	assert.Equal(t, "Invalid email address", errs["Email"])
	assert.Contains(t, errs, "Password")

	mismatched := validDraft()
	mismatched.ConfirmPassword = "something-else"
	errs = flow.FieldErrors(mismatched)
	assert.Equal(t, "Fields do not match", errs["ConfirmPassword"])

	assert.Nil(t, flow.FieldErrors(validDraft()))
	// Inspecting the draft never advances the flow.
	assert.Equal(t, domain.StepBasicInfo, flow.Step())
}

func TestSubmitBasicInfoInvalidEmail(t *testing.T) {
	flow := newTestFlow(new(MockOtpService), new(MockDocumentStore), new(MockRegistrar), 0)

	draft := validDraft()
	draft.Email = "not-an-email"

	err := flow.SubmitBasicInfo(context.Background(), draft)
	assert.Error(t, err)
	assert.Equal(t, domain.StepBasicInfo, flow.Step())
}

func TestSubmitBasicInfoOtpSendFailure(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, "john@example.com").Return(errors.New("smtp down"))

	flow := newTestFlow(otp, new(MockDocumentStore), new(MockRegistrar), 0)

	err := flow.SubmitBasicInfo(context.Background(), validDraft())
	assert.ErrorIs(t, err, casherrors.ErrOtpSendFailed)
	assert.Equal(t, domain.StepBasicInfo, flow.Step())
	otp.AssertExpectations(t)
}

func TestSubmitBasicInfoAdvances(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, "john@example.com").Return(nil)

	flow := newTestFlow(otp, new(MockDocumentStore), new(MockRegistrar), 0)

	err := flow.SubmitBasicInfo(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.StepOtpVerification, flow.Step())
	otp.AssertExpectations(t)
}

func TestSubmitOtpWrongThenRight(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, "john@example.com").Return(nil)
	otp.On("Verify", mock.Anything, "john@example.com", "000000").Return(false, nil)
	otp.On("Verify", mock.Anything, "john@example.com", "123456").Return(true, nil)

	flow := newTestFlow(otp, new(MockDocumentStore), new(MockRegistrar), 0)
	ctx := context.Background()
	draft := validDraft()

	require.NoError(t, flow.SubmitBasicInfo(ctx, draft))

	draft.OtpCode = "000000"
	err := flow.SubmitOtp(ctx, draft)
	assert.ErrorIs(t, err, casherrors.ErrInvalidOtp)
	assert.Equal(t, domain.StepOtpVerification, flow.Step())
	assert.Equal(t, 1, flow.OtpAttempts())

	draft.OtpCode = "123456"
	require.NoError(t, flow.SubmitOtp(ctx, draft))
	assert.Equal(t, domain.StepDocumentUpload, flow.Step())
}

func TestSubmitOtpAttemptLimit(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, mock.Anything).Return(nil)
	otp.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	flow := newTestFlow(otp, new(MockDocumentStore), new(MockRegistrar), 2)
	ctx := context.Background()
	draft := validDraft()
	draft.OtpCode = "999999"

	require.NoError(t, flow.SubmitBasicInfo(ctx, draft))

	assert.ErrorIs(t, flow.SubmitOtp(ctx, draft), casherrors.ErrInvalidOtp)
	assert.ErrorIs(t, flow.SubmitOtp(ctx, draft), casherrors.ErrInvalidOtp)
	assert.ErrorIs(t, flow.SubmitOtp(ctx, draft), casherrors.ErrTooManyOtpAttempts)
}

func TestSubmitDocumentsProducesIdentity(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, mock.Anything).Return(nil)
	otp.On("Verify", mock.Anything, mock.Anything, "123456").Return(true, nil)

	docs := new(MockDocumentStore)
	docs.On("StoreIdentityDocuments", mock.Anything, "john@example.com", mock.Anything).Return(nil)

	registrar := new(MockRegistrar)
	registrar.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.UserIdentity")).Return(nil)

	flow := newTestFlow(otp, docs, registrar, 0)
	ctx := context.Background()
	draft := validDraft()

	require.NoError(t, flow.SubmitBasicInfo(ctx, draft))
	draft.OtpCode = "123456"
	require.NoError(t, flow.SubmitOtp(ctx, draft))

	draft.Documents = domain.IdentityDocuments{
		Front: &domain.DocumentUpload{FileName: "front.jpg", ContentType: "image/jpeg", Size: 1024},
		Back:  &domain.DocumentUpload{FileName: "back.jpg", ContentType: "image/jpeg", Size: 1024},
	}
	identity, err := flow.SubmitDocuments(ctx, draft)
	require.NoError(t, err)
	require.NotNil(t, identity)

	assert.Equal(t, "John Doe", identity.DisplayName)
	assert.Equal(t, "john@example.com", identity.Email)
	assert.Equal(t, domain.RoleUser, identity.Role)
	assert.True(t, identity.Verified)
	assert.NotEqual(t, identity.PasswordHash, draft.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(draft.Password)))

	assert.True(t, flow.Done())
	assert.Equal(t, domain.RegistrationStep(""), flow.Step())

	docs.AssertExpectations(t)
	registrar.AssertExpectations(t)
}

func TestDisplayNameIsEscaped(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, mock.Anything).Return(nil)
	otp.On("Verify", mock.Anything, mock.Anything, "123456").Return(true, nil)

	docs := new(MockDocumentStore)
	docs.On("StoreIdentityDocuments", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	registrar := new(MockRegistrar)
	registrar.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	flow := newTestFlow(otp, docs, registrar, 0)
	ctx := context.Background()
	draft := validDraft()
	draft.FirstName = "<b>John</b>"

	require.NoError(t, flow.SubmitBasicInfo(ctx, draft))
	draft.OtpCode = "123456"
	require.NoError(t, flow.SubmitOtp(ctx, draft))

	draft.Documents = domain.IdentityDocuments{
		Front: &domain.DocumentUpload{FileName: "front.jpg", ContentType: "image/jpeg", Size: 1024},
		Back:  &domain.DocumentUpload{FileName: "back.jpg", ContentType: "image/jpeg", Size: 1024},
	}
	identity, err := flow.SubmitDocuments(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;John&lt;/b&gt; Doe", identity.DisplayName)
}

func TestSubmitDocumentsStoreFailure(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, mock.Anything).Return(nil)
	otp.On("Verify", mock.Anything, mock.Anything, "123456").Return(true, nil)

	docs := new(MockDocumentStore)
	docs.On("StoreIdentityDocuments", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("storage offline"))

	flow := newTestFlow(otp, docs, new(MockRegistrar), 0)
	ctx := context.Background()
	draft := validDraft()

	require.NoError(t, flow.SubmitBasicInfo(ctx, draft))
	draft.OtpCode = "123456"
	require.NoError(t, flow.SubmitOtp(ctx, draft))

	identity, err := flow.SubmitDocuments(ctx, draft)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, casherrors.ErrRegistrationFailed)
	// The step is preserved for a retry.
	assert.Equal(t, domain.StepDocumentUpload, flow.Step())
	assert.False(t, flow.Done())
}

func TestSubmitDocumentsRegistrarFailure(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, mock.Anything).Return(nil)
	otp.On("Verify", mock.Anything, mock.Anything, "123456").Return(true, nil)

	docs := new(MockDocumentStore)
	docs.On("StoreIdentityDocuments", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	registrar := new(MockRegistrar)
	registrar.On("CreateUser", mock.Anything, mock.Anything).Return(errors.New("backend unavailable"))

	flow := newTestFlow(otp, docs, registrar, 0)
	ctx := context.Background()
	draft := validDraft()

	require.NoError(t, flow.SubmitBasicInfo(ctx, draft))
	draft.OtpCode = "123456"
	require.NoError(t, flow.SubmitOtp(ctx, draft))

	identity, err := flow.SubmitDocuments(ctx, draft)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, casherrors.ErrRegistrationFailed)
	assert.Equal(t, domain.StepDocumentUpload, flow.Step())
}

func TestWrongStepSubmissions(t *testing.T) {
	flow := newTestFlow(new(MockOtpService), new(MockDocumentStore), new(MockRegistrar), 0)
	ctx := context.Background()
	draft := validDraft()

	assert.ErrorIs(t, flow.SubmitOtp(ctx, draft), casherrors.ErrWrongStep)

	_, err := flow.SubmitDocuments(ctx, draft)
	assert.ErrorIs(t, err, casherrors.ErrWrongStep)
}

func TestSubmitDispatchesOnCurrentStep(t *testing.T) {
	otp := new(MockOtpService)
	otp.On("Send", mock.Anything, mock.Anything).Return(nil)
	otp.On("Verify", mock.Anything, mock.Anything, "123456").Return(true, nil)

	docs := new(MockDocumentStore)
	docs.On("StoreIdentityDocuments", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	registrar := new(MockRegistrar)
	registrar.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	flow := newTestFlow(otp, docs, registrar, 0)
	ctx := context.Background()
	draft := validDraft()
	draft.OtpCode = "123456"
	draft.Documents = domain.IdentityDocuments{
		Front: &domain.DocumentUpload{FileName: "front.png", ContentType: "image/png", Size: 10},
		Back:  &domain.DocumentUpload{FileName: "back.png", ContentType: "image/png", Size: 10},
	}

	identity, err := flow.Submit(ctx, draft)
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = flow.Submit(ctx, draft)
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = flow.Submit(ctx, draft)
	require.NoError(t, err)
	require.NotNil(t, identity)

	// Completed flows accept nothing further.
	_, err = flow.Submit(ctx, draft)
	assert.ErrorIs(t, err, casherrors.ErrWrongStep)
}
