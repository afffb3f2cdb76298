package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Buyer struct {
	ID                      uuid.UUID `gorm:"type:char(36);primaryKey"`
	FirstName               string    `gorm:"size:100"`
	LastName                string    `gorm:"size:100"`
	Email                   string    `gorm:"size:255;not null"`
	Username                string    `gorm:"size:100;index"`
	PasswordHash            string    `gorm:"column:password_hash;size:100"`
	Budget                  float64   `gorm:"not null"`
	PropertyTypesOfInterest []string  `gorm:"column:property_types_of_interest;serializer:json"`
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (Buyer) TableName() string {
	return "buyers"
}

func (b Buyer) Clone() Buyer {
	b.PropertyTypesOfInterest = slices.Clone(b.PropertyTypesOfInterest)
	return b
}

// AddInterest appends tag unless it is already present. It reports whether the set changed.
func (b *Buyer) AddInterest(tag string) bool {
	tag = normalizeToken(tag)
	if tag == "" || slices.Contains(b.PropertyTypesOfInterest, tag) {
		return false
	}
	b.PropertyTypesOfInterest = append(b.PropertyTypesOfInterest, tag)
	return true
}
