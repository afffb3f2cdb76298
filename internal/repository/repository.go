package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
)

var ErrNotFound = errors.New("record not found")

type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) error
	// Save inserts p or replaces the stored row with the same ID.
	Save(ctx context.Context, p *model.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	List(ctx context.Context) ([]model.Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Property, error)
	// ListByLocation matches location exactly, ignoring case.
	ListByLocation(ctx context.Context, location string) ([]model.Property, error)
	// Update applies fn to the stored row atomically. Nothing is written if fn fails.
	Update(ctx context.Context, id uuid.UUID, fn func(p *model.Property) error) (*model.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OfferRepository interface {
	Create(ctx context.Context, o *model.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]model.Offer, error)
	ListByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]model.Offer, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Offer, error)
	Update(ctx context.Context, id uuid.UUID, fn func(o *model.Offer) error) (*model.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error)
	DeleteByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error)
}

type BuyerRepository interface {
	Create(ctx context.Context, b *model.Buyer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error)
	List(ctx context.Context) ([]model.Buyer, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id uuid.UUID, fn func(b *model.Buyer) error) (*model.Buyer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SellerRepository interface {
	Create(ctx context.Context, s *model.Seller) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error)
	List(ctx context.Context) ([]model.Seller, error)
	Update(ctx context.Context, id uuid.UUID, fn func(s *model.Seller) error) (*model.Seller, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store groups the four tables so they can be injected as one unit.
type Store struct {
	Properties PropertyRepository
	Offers     OfferRepository
	Buyers     BuyerRepository
	Sellers    SellerRepository
}
