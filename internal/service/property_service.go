package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
	"gorm.io/datatypes"
)

type PropertyInput struct {
	Title       string
	Description string
	Location    string
	OwnerID     uuid.UUID
	Price       float64
	Size        float64
	Type        string
	Status      string
	Features    map[string]any
}

// PropertyPatch carries the fields of a partial update. Nil means "leave as is".
type PropertyPatch struct {
	Title       *string
	Description *string
	Location    *string
	Price       *float64
	Size        *float64
	Type        *string
	Status      *string
	Features    map[string]any
}

type PropertyService interface {
	Create(ctx context.Context, in PropertyInput) (*model.Property, error)
	// Build validates in without touching storage. OwnerID is not checked.
	Build(in PropertyInput) (*model.Property, error)
	Publish(ctx context.Context, sellerID uuid.UUID, p *model.Property) (*model.Property, error)
	PublishExisting(ctx context.Context, sellerID, propertyID uuid.UUID) (*model.Property, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Property, error)
	List(ctx context.Context) ([]model.Property, error)
	ListByOwner(ctx context.Context, sellerID uuid.UUID) ([]model.Property, error)
	Search(ctx context.Context, location string) ([]model.Property, error)
	Update(ctx context.Context, id uuid.UUID, patch PropertyPatch) (*model.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type propertyService struct {
	props   repository.PropertyRepository
	offers  repository.OfferRepository
	sellers repository.SellerRepository
	policy  Policy
	log     *slog.Logger
}

func NewPropertyService(store *repository.Store, policy Policy, log *slog.Logger) PropertyService {
	return &propertyService{
		props:   store.Properties,
		offers:  store.Offers,
		sellers: store.Sellers,
		policy:  policy,
		log:     log,
	}
}

func (s *propertyService) Build(in PropertyInput) (*model.Property, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if in.Price < 0 {
		return nil, invalid("price must not be negative")
	}
	if in.Size < 0 {
		return nil, invalid("size must not be negative")
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, invalid("type is required")
	}
	typ, err := model.ParsePropertyType(in.Type)
	if err != nil {
		return nil, invalidErr(err)
	}
	status := model.PropertyStatusForSale
	if strings.TrimSpace(in.Status) != "" {
		if status, err = model.ParsePropertyStatus(in.Status); err != nil {
			return nil, invalidErr(err)
		}
	}
	p := &model.Property{
		Title:       title,
		OwnerID:     in.OwnerID,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Price:       in.Price,
		Size:        in.Size,
		Type:        typ,
		Status:      status,
	}
	if len(in.Features) > 0 {
		p.Features = datatypes.JSONMap(in.Features)
	}
	return p, nil
}

func (s *propertyService) Create(ctx context.Context, in PropertyInput) (*model.Property, error) {
	if in.OwnerID == uuid.Nil {
		return nil, invalid("ownerId is required")
	}
	p, err := s.Build(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.sellers.FindByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidf("seller %s does not exist", in.OwnerID)
		}
		return nil, err
	}
	if err := s.props.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "property created", "property_id", p.ID, "owner_id", p.OwnerID)
	return p, nil
}

func (s *propertyService) Publish(ctx context.Context, sellerID uuid.UUID, p *model.Property) (*model.Property, error) {
	if p == nil {
		return nil, invalid("property is required")
	}
	if _, err := model.ParsePropertyType(string(p.Type)); err != nil {
		return nil, invalidErr(err)
	}
	if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
		return nil, mapRepoErr(err, "seller")
	}
	if p.ID != uuid.Nil {
		stored, err := s.props.Update(ctx, p.ID, func(row *model.Property) error {
			if err := claim(row, sellerID); err != nil {
				return err
			}
			row.Title = p.Title
			row.Description = p.Description
			row.Location = p.Location
			row.Price = p.Price
			row.Size = p.Size
			row.Type = p.Type
			row.Features = p.Features
			return nil
		})
		switch {
		case err == nil:
			*p = *stored
			s.log.InfoContext(ctx, "property published", "property_id", p.ID, "seller_id", sellerID)
			return p, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	p.OwnerID = sellerID
	p.Status = model.PropertyStatusForSale
	if err := s.props.Save(ctx, p); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "property published", "property_id", p.ID, "seller_id", sellerID)
	return p, nil
}

// PublishExisting only claims the stored row and puts it on sale; other fields are left as stored.
func (s *propertyService) PublishExisting(ctx context.Context, sellerID, propertyID uuid.UUID) (*model.Property, error) {
	if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
		return nil, mapRepoErr(err, "seller")
	}
	p, err := s.props.Update(ctx, propertyID, func(row *model.Property) error {
		return claim(row, sellerID)
	})
	if err != nil {
		return nil, mapRepoErr(err, "property")
	}
	s.log.InfoContext(ctx, "property published", "property_id", p.ID, "seller_id", sellerID)
	return p, nil
}

// claim runs inside the row lock so two sellers cannot both take an unowned property.
func claim(p *model.Property, sellerID uuid.UUID) error {
	if p.OwnerID != uuid.Nil && p.OwnerID != sellerID {
		return ErrForbidden
	}
	p.OwnerID = sellerID
	p.Status = model.PropertyStatusForSale
	return nil
}

func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	p, err := s.props.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "property")
	}
	return p, nil
}

func (s *propertyService) List(ctx context.Context) ([]model.Property, error) {
	return s.props.List(ctx)
}

func (s *propertyService) ListByOwner(ctx context.Context, sellerID uuid.UUID) ([]model.Property, error) {
	if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
		return nil, mapRepoErr(err, "seller")
	}
	return s.props.ListByOwner(ctx, sellerID)
}

func (s *propertyService) Search(ctx context.Context, location string) ([]model.Property, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return s.props.List(ctx)
	}
	return s.props.ListByLocation(ctx, location)
}

func (s *propertyService) Update(ctx context.Context, id uuid.UUID, patch PropertyPatch) (*model.Property, error) {
	p, err := s.props.Update(ctx, id, func(p *model.Property) error {
		if v, ok := nonBlank(patch.Title); ok {
			p.Title = v
		}
		if v, ok := nonBlank(patch.Description); ok {
			p.Description = v
		}
		if v, ok := nonBlank(patch.Location); ok {
			p.Location = v
		}
		if patch.Price != nil && *patch.Price > 0 {
			p.Price = *patch.Price
		}
		if patch.Size != nil && *patch.Size > 0 {
			p.Size = *patch.Size
		}
		if v, ok := nonBlank(patch.Type); ok {
			t, err := model.ParsePropertyType(v)
			if err != nil {
				return invalidErr(err)
			}
			p.Type = t
		}
		if v, ok := nonBlank(patch.Status); ok {
			st, err := model.ParsePropertyStatus(v)
			if err != nil {
				return invalidErr(err)
			}
			p.Status = st
		}
		if len(patch.Features) > 0 {
			if p.Features == nil {
				p.Features = datatypes.JSONMap{}
			}
			for k, v := range patch.Features {
				p.Features[k] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "property")
	}
	return p, nil
}

func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.props.FindByID(ctx, id); err != nil {
		return mapRepoErr(err, "property")
	}
	if s.policy.Delete == DeleteRestrict {
		offers, err := s.offers.ListByProperty(ctx, id)
		if err != nil {
			return err
		}
		if len(offers) > 0 {
			return ErrHasDependents
		}
	}
	if err := s.props.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "property")
	}
	if s.policy.Delete == DeleteCascade {
		n, err := s.offers.DeleteByProperty(ctx, id)
		if err != nil {
			return err
		}
		s.log.InfoContext(ctx, "property deleted", "property_id", id, "offers_removed", n)
		return nil
	}
	s.log.InfoContext(ctx, "property deleted", "property_id", id)
	return nil
}

func nonBlank(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
