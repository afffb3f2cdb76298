package model

import (
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "PENDING"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusWithdrawn OfferStatus = "WITHDRAWN"
)

var offerStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusAccepted,
	OfferStatusRejected,
	OfferStatusWithdrawn,
}

// ParseOfferStatus is strict about case: only the exact enum tokens are accepted.
func ParseOfferStatus(s string) (OfferStatus, error) {
	for _, st := range offerStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	allowed := make([]string, 0, len(offerStatuses))
	for _, st := range offerStatuses {
		allowed = append(allowed, string(st))
	}
	return "", unknown(ErrUnknownStatus, s, allowed)
}

// Terminal reports whether no further transition is expected from s.
func (s OfferStatus) Terminal() bool {
	return s == OfferStatusAccepted || s == OfferStatusRejected || s == OfferStatusWithdrawn
}

type Offer struct {
	ID         uuid.UUID   `gorm:"type:char(36);primaryKey"`
	PropertyID uuid.UUID   `gorm:"column:property_id;type:char(36);index;not null"`
	BuyerID    uuid.UUID   `gorm:"column:buyer_id;type:char(36);index;not null"`
	Amount     float64     `gorm:"not null"`
	Status     OfferStatus `gorm:"size:32;not null"`
	CreatedAt  time.Time   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime"`
}

func (Offer) TableName() string {
	return "offers"
}

func (o Offer) Clone() Offer {
	return o
}
