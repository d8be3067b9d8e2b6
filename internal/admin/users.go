package admin

import (
	"context"
	"sync"
	"time"

	"cash/internal/domain"
	"cash/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserAccount is the admin-panel view of a registered user.
type UserAccount struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Status   string          `json:"status"` // verified, pending, rejected
	JoinDate time.Time       `json:"join_date"`
	Balance  decimal.Decimal `json:"balance"`
}

// InMemoryUserStore keeps registered users. It doubles as the registrar
// the sign-up flow hands completed identities to.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*UserAccount
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[uuid.UUID]*UserAccount),
	}
}

// CreateUser records a freshly registered identity.
func (s *InMemoryUserStore) CreateUser(ctx context.Context, identity *domain.UserIdentity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	status := "pending"
	if identity.Verified {
		status = "verified"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[identity.ID] = &UserAccount{
		ID:       identity.ID,
		Name:     identity.DisplayName,
		Email:    identity.Email,
		Status:   status,
		JoinDate: identity.CreatedAt,
		Balance:  decimal.Zero,
	}
	return nil
}

// ListUsers returns every registered account.
func (s *InMemoryUserStore) ListUsers(ctx context.Context) ([]*UserAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*UserAccount, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

// FindUser returns one account by id.
func (s *InMemoryUserStore) FindUser(ctx context.Context, id uuid.UUID) (*UserAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
