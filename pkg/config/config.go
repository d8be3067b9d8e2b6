// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	App        AppConfig
	OTP        OTPConfig
	JWT        JWTConfig
	Documents  DocumentsConfig
	Withdrawal WithdrawalConfig
}

type AppConfig struct {
	Name string
}

type OTPConfig struct {
	// DevCode is the fixed code accepted by the development verifier.
	DevCode string
	// MaxAttempts bounds failed verification attempts per flow. Zero means
	// unlimited.
	MaxAttempts int
	// Issuer is the account name embedded in TOTP provisioning URIs.
	Issuer string
	// Period is the TOTP rotation interval.
	Period time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type DocumentsConfig struct {
	MaxUploadBytes int64
}

// WithdrawalConfig carries per-method overrides for the built-in catalog.
// Zero values leave the catalog defaults in place.
type WithdrawalConfig struct {
	BankFee   decimal.Decimal
	PayPalFee decimal.Decimal
	CryptoFee decimal.Decimal
}

func Load() *Config {
	return &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "cash-dashboard"),
		},
		OTP: OTPConfig{
			DevCode:     getEnv("OTP_DEV_CODE", "123456"),
			MaxAttempts: getIntEnv("OTP_MAX_ATTEMPTS", 0),
			Issuer:      getEnv("OTP_ISSUER", "cash"),
			Period:      getDurationEnv("OTP_PERIOD", 30*time.Second),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "change-this-secret"),
			Expiration: getDurationEnv("JWT_EXPIRATION", 15*time.Minute),
		},
		Documents: DocumentsConfig{
			MaxUploadBytes: getInt64Env("DOCS_MAX_UPLOAD_BYTES", 10<<20),
		},
		Withdrawal: WithdrawalConfig{
			BankFee:   getDecimalEnv("WITHDRAWAL_BANK_FEE", decimal.Zero),
			PayPalFee: getDecimalEnv("WITHDRAWAL_PAYPAL_FEE", decimal.Zero),
			CryptoFee: getDecimalEnv("WITHDRAWAL_CRYPTO_FEE", decimal.Zero),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
