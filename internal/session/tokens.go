// Package session hands a completed registration over to the caller's
// session layer as a signed token.
package session

import (
	"fmt"
	"time"

	"cash/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs short-lived identity tokens with HS256.
type TokenIssuer struct {
	secret string
	expiry time.Duration
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		expiry: expiry,
	}
}

// Token is returned to the presentation layer after registration completes.
type Token struct {
	AccessToken string               `json:"access_token"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        *domain.UserIdentity `json:"user"`
}

// Issue signs a token for a freshly created identity.
func (t *TokenIssuer) Issue(identity *domain.UserIdentity) (*Token, error) {
	expiresAt := time.Now().Add(t.expiry)

	claims := jwt.MapClaims{
		"user_id":  identity.ID.String(),
		"email":    identity.Email,
		"role":     string(identity.Role),
		"verified": identity.Verified,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        identity,
	}, nil
}

// Parse validates a signed token and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
