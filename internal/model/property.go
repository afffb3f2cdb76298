package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeVilla      PropertyType = "VILLA"
	PropertyTypeStudio     PropertyType = "STUDIO"
	PropertyTypeChalet     PropertyType = "CHALET"
	PropertyTypeLand       PropertyType = "LAND"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
)

var propertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeVilla,
	PropertyTypeStudio,
	PropertyTypeChalet,
	PropertyTypeLand,
	PropertyTypeCommercial,
}

// ParsePropertyType accepts the enum token in any case.
func ParsePropertyType(s string) (PropertyType, error) {
	tok := normalizeToken(s)
	for _, t := range propertyTypes {
		if string(t) == tok {
			return t, nil
		}
	}
	allowed := make([]string, 0, len(propertyTypes))
	for _, t := range propertyTypes {
		allowed = append(allowed, string(t))
	}
	return "", unknown(ErrUnknownType, s, allowed)
}

type PropertyStatus string

const (
	PropertyStatusForSale   PropertyStatus = "FOR_SALE"
	PropertyStatusPending   PropertyStatus = "PENDING"
	PropertyStatusSold      PropertyStatus = "SOLD"
	PropertyStatusOffMarket PropertyStatus = "OFF_MARKET"
)

var propertyStatuses = []PropertyStatus{
	PropertyStatusForSale,
	PropertyStatusPending,
	PropertyStatusSold,
	PropertyStatusOffMarket,
}

func ParsePropertyStatus(s string) (PropertyStatus, error) {
	tok := normalizeToken(s)
	for _, st := range propertyStatuses {
		if string(st) == tok {
			return st, nil
		}
	}
	allowed := make([]string, 0, len(propertyStatuses))
	for _, st := range propertyStatuses {
		allowed = append(allowed, string(st))
	}
	return "", unknown(ErrUnknownStatus, s, allowed)
}

type Property struct {
	ID          uuid.UUID         `gorm:"type:char(36);primaryKey"`
	Title       string            `gorm:"size:200;not null"`
	OwnerID     uuid.UUID         `gorm:"column:owner_id;type:char(36);index;not null"`
	Description string            `gorm:"type:text"`
	Location    string            `gorm:"size:200;index"`
	Price       float64           `gorm:"not null"`
	Size        float64           `gorm:"not null"`
	Type        PropertyType      `gorm:"size:32;not null"`
	Status      PropertyStatus    `gorm:"size:32;not null"`
	Features    datatypes.JSONMap `gorm:"type:json"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (Property) TableName() string {
	return "properties"
}

// Clone returns a copy that shares no maps with p.
func (p Property) Clone() Property {
	if p.Features != nil {
		f := make(datatypes.JSONMap, len(p.Features))
		for k, v := range p.Features {
			f[k] = v
		}
		p.Features = f
	}
	return p
}
