package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
)

type SellerInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

type SellerPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Username  *string
	Password  *string
}

type SellerService interface {
	Create(ctx context.Context, in SellerInput) (*model.Seller, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Seller, error)
	List(ctx context.Context) ([]model.Seller, error)
	Update(ctx context.Context, id uuid.UUID, patch SellerPatch) (*model.Seller, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sellerService struct {
	sellers repository.SellerRepository
	props   repository.PropertyRepository
	offers  repository.OfferRepository
	policy  Policy
	log     *slog.Logger
}

func NewSellerService(store *repository.Store, policy Policy, log *slog.Logger) SellerService {
	return &sellerService{
		sellers: store.Sellers,
		props:   store.Properties,
		offers:  store.Offers,
		policy:  policy,
		log:     log,
	}
}

func (s *sellerService) Create(ctx context.Context, in SellerInput) (*model.Seller, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	if first == "" || last == "" || email == "" {
		return nil, invalid("first name, last name, and email are required")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	sl := &model.Seller{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
	}
	if err := s.sellers.Create(ctx, sl); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "seller registered", "seller_id", sl.ID)
	return sl, nil
}

func (s *sellerService) Get(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	sl, err := s.sellers.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "seller")
	}
	return sl, nil
}

func (s *sellerService) List(ctx context.Context) ([]model.Seller, error) {
	return s.sellers.List(ctx)
}

// Update overwrites the supplied fields. Blank names and emails are ignored.
func (s *sellerService) Update(ctx context.Context, id uuid.UUID, patch SellerPatch) (*model.Seller, error) {
	var hash string
	if patch.Password != nil && *patch.Password != "" {
		h, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	sl, err := s.sellers.Update(ctx, id, func(sl *model.Seller) error {
		if v, ok := nonBlank(patch.FirstName); ok {
			sl.FirstName = v
		}
		if v, ok := nonBlank(patch.LastName); ok {
			sl.LastName = v
		}
		if v, ok := nonBlank(patch.Email); ok {
			sl.Email = v
		}
		if patch.Username != nil {
			sl.Username = strings.TrimSpace(*patch.Username)
		}
		if hash != "" {
			sl.PasswordHash = hash
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "seller")
	}
	return sl, nil
}

func (s *sellerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sellers.FindByID(ctx, id); err != nil {
		return mapRepoErr(err, "seller")
	}
	props, err := s.props.ListByOwner(ctx, id)
	if err != nil {
		return err
	}
	switch s.policy.Delete {
	case DeleteRestrict:
		if len(props) > 0 {
			return ErrHasDependents
		}
	case DeleteCascade:
		for _, p := range props {
			if _, err := s.offers.DeleteByProperty(ctx, p.ID); err != nil {
				return err
			}
			if err := s.props.Delete(ctx, p.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
	}
	if err := s.sellers.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "seller")
	}
	s.log.InfoContext(ctx, "seller deleted", "seller_id", id, "properties", len(props))
	return nil
}
