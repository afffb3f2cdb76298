package model

import (
	"time"

	"github.com/google/uuid"
)

type Seller struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;not null"`
	Username     string    `gorm:"size:100;index"`
	PasswordHash string    `gorm:"column:password_hash;size:100"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Seller) TableName() string {
	return "sellers"
}

func (s Seller) Clone() Seller {
	return s
}
