package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
)

type BuyerInput struct {
	FirstName               string
	LastName                string
	Email                   string
	Username                string
	Password                string
	Budget                  float64
	PropertyTypesOfInterest []string
}

type BuyerService interface {
	Create(ctx context.Context, in BuyerInput) (*model.Buyer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Buyer, error)
	List(ctx context.Context) ([]model.Buyer, error)
	UpdateBudget(ctx context.Context, id uuid.UUID, budget float64) (*model.Buyer, error)
	AddInterest(ctx context.Context, id uuid.UUID, propertyType string) (*model.Buyer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type buyerService struct {
	buyers repository.BuyerRepository
	offers repository.OfferRepository
	policy Policy
	log    *slog.Logger
}

func NewBuyerService(store *repository.Store, policy Policy, log *slog.Logger) BuyerService {
	return &buyerService{buyers: store.Buyers, offers: store.Offers, policy: policy, log: log}
}

func (s *buyerService) Create(ctx context.Context, in BuyerInput) (*model.Buyer, error) {
	if in.Budget <= 0 {
		return nil, invalid("budget must be positive")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, invalid("email is required")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	b := &model.Buyer{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Budget:       in.Budget,
	}
	for _, tag := range in.PropertyTypesOfInterest {
		b.AddInterest(tag)
	}
	if err := s.buyers.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "buyer registered", "buyer_id", b.ID)
	return b, nil
}

func (s *buyerService) Get(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	b, err := s.buyers.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "buyer")
	}
	return b, nil
}

func (s *buyerService) List(ctx context.Context) ([]model.Buyer, error) {
	return s.buyers.List(ctx)
}

func (s *buyerService) UpdateBudget(ctx context.Context, id uuid.UUID, budget float64) (*model.Buyer, error) {
	if budget <= 0 {
		return nil, invalid("budget must be positive")
	}
	b, err := s.buyers.Update(ctx, id, func(b *model.Buyer) error {
		b.Budget = budget
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "buyer")
	}
	return b, nil
}

func (s *buyerService) AddInterest(ctx context.Context, id uuid.UUID, propertyType string) (*model.Buyer, error) {
	if strings.TrimSpace(propertyType) == "" {
		return nil, invalid("type is required")
	}
	b, err := s.buyers.Update(ctx, id, func(b *model.Buyer) error {
		b.AddInterest(propertyType)
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "buyer")
	}
	return b, nil
}

func (s *buyerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buyers.FindByID(ctx, id); err != nil {
		return mapRepoErr(err, "buyer")
	}
	if s.policy.Delete == DeleteRestrict {
		offers, err := s.offers.ListByBuyer(ctx, id)
		if err != nil {
			return err
		}
		if len(offers) > 0 {
			return ErrHasDependents
		}
	}
	if err := s.buyers.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "buyer")
	}
	if s.policy.Delete == DeleteCascade {
		if _, err := s.offers.DeleteByBuyer(ctx, id); err != nil {
			return err
		}
	}
	s.log.InfoContext(ctx, "buyer deleted", "buyer_id", id)
	return nil
}
