// Package offers manages the rewards catalog: browsing, joining, and the
// admin-side lifecycle.
package offers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cash/internal/domain"
	"cash/pkg/errors"
	"cash/pkg/logger"
	"cash/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	SortNewest       SortOrder = "newest"
	SortReward       SortOrder = "reward"
	SortParticipants SortOrder = "participants"
)

// Filter narrows and orders a catalog listing. Zero values mean "all".
type Filter struct {
	// Search matches case-insensitively against title and description.
	Search string
	Type   domain.OfferType
	SortBy SortOrder
}

type Service struct {
	repo     Repository
	validate *validator.Validator
	logger   logger.Logger
}

func NewService(repo Repository, v *validator.Validator, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: v,
		logger:   log,
	}
}

// List returns matching offers in the requested order.
func (s *Service) List(ctx context.Context, f Filter) ([]*domain.Offer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*domain.Offer
	for _, offer := range offers {
		if search != "" &&
			!strings.Contains(strings.ToLower(offer.Title), search) &&
			!strings.Contains(strings.ToLower(offer.Description), search) {
			continue
		}
		if f.Type != "" && offer.Type != f.Type {
			continue
		}
		out = append(out, offer)
	}

	switch f.SortBy {
	case SortReward:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Reward.GreaterThan(out[j].Reward)
		})
	case SortParticipants:
		sort.Slice(out, func(i, j int) bool {
			return out[i].Participants > out[j].Participants
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			return out[i].StartDate.After(out[j].StartDate)
		})
	}
	return out, nil
}

// Get returns a single offer by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	return s.repo.FindByID(ctx, id)
}

// Join enrolls a user into an active, non-full, non-expired offer.
func (s *Service) Join(ctx context.Context, offerID, userID uuid.UUID) error {
	offer, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return err
	}

	if offer.Status != domain.OfferStatusActive {
		return errors.ErrOfferNotActive
	}
	if !offer.EndDate.IsZero() && time.Now().After(offer.EndDate) {
		return errors.ErrOfferExpired
	}
	if offer.MaxParticipants > 0 && offer.Participants >= offer.MaxParticipants {
		return errors.ErrOfferFull
	}

	joined, err := s.repo.HasJoined(ctx, offerID, userID)
	if err != nil {
		return err
	}
	if joined {
		return errors.ErrAlreadyJoined
	}

	if err := s.repo.AddParticipant(ctx, offerID, userID); err != nil {
		return err
	}

	s.logger.Info("Offer joined", map[string]interface{}{
		"offer_id": offerID,
		"user_id":  userID,
	})
	return nil
}

// CreateOfferRequest captures the admin form for a new offer.
type CreateOfferRequest struct {
	Title           string           `json:"title" validate:"required"`
	Description     string           `json:"description" validate:"required"`
	Type            domain.OfferType `json:"type" validate:"required,oneof=bonus team personal"`
	Reward          decimal.Decimal  `json:"reward" validate:"gt=0"`
	Currency        string           `json:"currency" validate:"required"`
	Eligibility     string           `json:"eligibility"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	MaxParticipants int              `json:"max_participants" validate:"gte=0"`
	Difficulty      string           `json:"difficulty"`
	Requirements    []string         `json:"requirements"`
	Featured        bool             `json:"featured"`
}

// Create adds a new offer in draft status.
func (s *Service) Create(ctx context.Context, req *CreateOfferRequest) (*domain.Offer, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Reward:          req.Reward,
		Currency:        req.Currency,
		Eligibility:     req.Eligibility,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxParticipants: req.MaxParticipants,
		Difficulty:      req.Difficulty,
		Requirements:    req.Requirements,
		Status:          domain.OfferStatusDraft,
		Featured:        req.Featured,
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.logger.Info("Offer created", map[string]interface{}{
		"offer_id": offer.ID,
		"title":    offer.Title,
		"type":     offer.Type,
	})
	return offer, nil
}

// Activate publishes a draft offer.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, domain.OfferStatusActive)
}

// Close retires an offer; it can no longer be joined.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, domain.OfferStatusClosed)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status domain.OfferStatus) error {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	offer.Status = status
	if err := s.repo.Update(ctx, offer); err != nil {
		return err
	}

	s.logger.Info("Offer status updated", map[string]interface{}{
		"offer_id": id,
		"status":   status,
	})
	return nil
}

// Repository interface
type Repository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	Update(ctx context.Context, offer *domain.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	List(ctx context.Context) ([]*domain.Offer, error)
	HasJoined(ctx context.Context, offerID, userID uuid.UUID) (bool, error)
	AddParticipant(ctx context.Context, offerID, userID uuid.UUID) error
}

// InMemoryRepository holds the catalog and join records in process memory.
type InMemoryRepository struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]*domain.Offer
	joins  map[uuid.UUID]map[uuid.UUID]bool
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		offers: make(map[uuid.UUID]*domain.Offer),
		joins:  make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, offer *domain.Offer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *offer
	r.offers[offer.ID] = &cp
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, offer *domain.Offer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return errors.ErrOfferNotFound
	}
	cp := *offer
	r.offers[offer.ID] = &cp
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.ErrOfferNotFound
	}
	cp := *offer
	return &cp, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*domain.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Offer, 0, len(r.offers))
	for _, offer := range r.offers {
		cp := *offer
		out = append(out, &cp)
	}
	return out, nil
}

func (r *InMemoryRepository) HasJoined(ctx context.Context, offerID, userID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.joins[offerID][userID], nil
}

func (r *InMemoryRepository) AddParticipant(ctx context.Context, offerID, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[offerID]
	if !ok {
		return errors.ErrOfferNotFound
	}
	if r.joins[offerID] == nil {
		r.joins[offerID] = make(map[uuid.UUID]bool)
	}
	r.joins[offerID][userID] = true
	offer.Participants++
	return nil
}
