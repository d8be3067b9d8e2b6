package otp

import (
	"context"
	"testing"
	"time"

	"cash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticServiceVerify(t *testing.T) {
	svc := NewStaticService("123456", logger.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "john@example.com"))

	ok, err := svc.Verify(ctx, "john@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, code := range []string{"000000", "12345", "1234567", "", " 123456"} {
		ok, err := svc.Verify(ctx, "john@example.com", code)
		require.NoError(t, err)
		assert.False(t, ok, "code %q", code)
	}
}

func TestStaticServiceHonorsContext(t *testing.T) {
	svc := NewStaticService("123456", logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, svc.Send(ctx, "john@example.com"))

	_, err := svc.Verify(ctx, "john@example.com", "123456")
	assert.Error(t, err)
}

func TestTOTPServiceRoundTrip(t *testing.T) {
	svc := NewTOTPService("cash", 30*time.Second, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "john@example.com"))

	code, err := svc.Peek("john@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	ok, err := svc.Verify(ctx, "john@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "john@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTOTPServiceUnknownAddressFails(t *testing.T) {
	svc := NewTOTPService("cash", 30*time.Second, logger.NewNop())
	ctx := context.Background()

	ok, err := svc.Verify(ctx, "nobody@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Peek("nobody@example.com")
	assert.Error(t, err)
}

func TestTOTPServiceSecretIsStable(t *testing.T) {
	svc := NewTOTPService("cash", 30*time.Second, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, "john@example.com"))
	first, err := svc.Peek("john@example.com")
	require.NoError(t, err)

	// A re-send must not rotate the secret out from under an open flow.
	require.NoError(t, svc.Send(ctx, "john@example.com"))
	second, err := svc.Peek("john@example.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
