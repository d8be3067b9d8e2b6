package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferType string

const (
	OfferBonus    OfferType = "bonus"
	OfferTeam     OfferType = "team"
	OfferPersonal OfferType = "personal"
)

type OfferStatus string

const (
	OfferStatusDraft  OfferStatus = "draft"
	OfferStatusActive OfferStatus = "active"
	OfferStatusClosed OfferStatus = "closed"
)

// Offer is a catalog entry users can join to earn rewards. Reward is
// interpreted against Currency ("USD", "%", "points").
type Offer struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Type            OfferType       `json:"type"`
	Reward          decimal.Decimal `json:"reward"`
	Currency        string          `json:"currency"`
	Eligibility     string          `json:"eligibility"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Participants    int             `json:"participants"`
	MaxParticipants int             `json:"max_participants,omitempty"` // 0 = unlimited
	Difficulty      string          `json:"difficulty"`
	Requirements    []string        `json:"requirements"`
	Status          OfferStatus     `json:"status"`
	Featured        bool            `json:"featured"`
}
