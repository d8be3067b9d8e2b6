// Package otp implements the one-time passcode collaborators used by the
// registration flow. Delivery is simulated: codes are logged instead of
// mailed.
package otp

import (
	"context"
	"sync"
	"time"

	"cash/pkg/errors"
	"cash/pkg/logger"

	"github.com/pquerna/otp/totp"
)

// StaticService accepts exactly one fixed code. It is the development
// stand-in oracle behind the sign-up flow.
type StaticService struct {
	code   string
	logger logger.Logger
}

func NewStaticService(code string, log logger.Logger) *StaticService {
	return &StaticService{
		code:   code,
		logger: log,
	}
}

// Send simulates dispatching the code to the given address.
func (s *StaticService) Send(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("OTP dispatched", map[string]interface{}{
		"email": email,
		"code":  s.code,
	})
	return nil
}

// Verify reports whether the submitted code matches the fixed one.
func (s *StaticService) Verify(ctx context.Context, email, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return code == s.code, nil
}

// TOTPService issues and verifies time-based codes. One secret is kept per
// email address for the lifetime of the process.
type TOTPService struct {
	issuer string
	period uint

	mu      sync.Mutex
	secrets map[string]string

	logger logger.Logger
}

func NewTOTPService(issuer string, period time.Duration, log logger.Logger) *TOTPService {
	seconds := uint(period / time.Second)
	if seconds == 0 {
		seconds = 30
	}
	return &TOTPService{
		issuer:  issuer,
		period:  seconds,
		secrets: make(map[string]string),
		logger:  log,
	}
}

// Send provisions a secret for the address if none exists and logs the
// currently valid code in place of real delivery.
func (s *TOTPService) Send(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	secret, err := s.secretFor(email)
	if err != nil {
		return errors.Wrap(err, "provision totp secret")
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		return errors.Wrap(err, "generate totp code")
	}

	s.logger.Info("OTP dispatched", map[string]interface{}{
		"email": email,
		"code":  code,
	})
	return nil
}

// Verify validates the submitted code against the address's secret. An
// address that was never sent a code always fails.
func (s *TOTPService) Verify(ctx context.Context, email, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	secret, ok := s.secrets[email]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	return totp.Validate(code, secret), nil
}

// Peek returns the currently valid code for an address. It stands in for
// reading the delivered message during simulations and tests.
func (s *TOTPService) Peek(email string) (string, error) {
	s.mu.Lock()
	secret, ok := s.secrets[email]
	s.mu.Unlock()
	if !ok {
		return "", errors.Wrap(errors.ErrInvalidOtp, "no secret provisioned")
	}
	return totp.GenerateCode(secret, time.Now())
}

func (s *TOTPService) secretFor(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if secret, ok := s.secrets[email]; ok {
		return secret, nil
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: email,
		Period:      s.period,
	})
	if err != nil {
		return "", err
	}

	s.secrets[email] = key.Secret()
	return key.Secret(), nil
}
