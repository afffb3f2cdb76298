package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
)

// NewMemoryStore returns process-local tables. Rows are listed oldest first.
func NewMemoryStore() *Store {
	return newMemoryStore(time.Now)
}

func newMemoryStore(now func() time.Time) *Store {
	return &Store{
		Properties: &memoryPropertyRepository{
			t:   newTable(model.Property.Clone, byCreated(func(p model.Property) (time.Time, uuid.UUID) { return p.CreatedAt, p.ID })),
			now: now,
		},
		Offers: &memoryOfferRepository{
			t:   newTable(model.Offer.Clone, byCreated(func(o model.Offer) (time.Time, uuid.UUID) { return o.CreatedAt, o.ID })),
			now: now,
		},
		Buyers: &memoryBuyerRepository{
			t:   newTable(model.Buyer.Clone, byCreated(func(b model.Buyer) (time.Time, uuid.UUID) { return b.CreatedAt, b.ID })),
			now: now,
		},
		Sellers: &memorySellerRepository{
			t:   newTable(model.Seller.Clone, byCreated(func(s model.Seller) (time.Time, uuid.UUID) { return s.CreatedAt, s.ID })),
			now: now,
		},
	}
}

func byCreated[T any](key func(T) (time.Time, uuid.UUID)) func(a, b T) int {
	return func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		if c := ta.Compare(tb); c != 0 {
			return c
		}
		return cmp.Compare(ia.String(), ib.String())
	}
}

func stamp(id *uuid.UUID, created, updated *time.Time, now time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

type memoryPropertyRepository struct {
	t   *table[model.Property]
	now func() time.Time
}

func (r *memoryPropertyRepository) Create(_ context.Context, p *model.Property) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, r.now())
	r.t.put(p.ID, *p)
	return nil
}

func (r *memoryPropertyRepository) Save(_ context.Context, p *model.Property) error {
	if existing, ok := r.t.get(p.ID); ok && p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, r.now())
	r.t.put(p.ID, *p)
	return nil
}

func (r *memoryPropertyRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Property, error) {
	p, ok := r.t.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryPropertyRepository) List(_ context.Context) ([]model.Property, error) {
	return r.t.filter(nil), nil
}

func (r *memoryPropertyRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Property, error) {
	return r.t.filter(func(p model.Property) bool { return p.OwnerID == ownerID }), nil
}

func (r *memoryPropertyRepository) ListByLocation(_ context.Context, location string) ([]model.Property, error) {
	return r.t.filter(func(p model.Property) bool { return strings.EqualFold(p.Location, location) }), nil
}

func (r *memoryPropertyRepository) Update(_ context.Context, id uuid.UUID, fn func(p *model.Property) error) (*model.Property, error) {
	p, err := r.t.update(id, func(p *model.Property) error {
		if err := fn(p); err != nil {
			return err
		}
		p.ID = id
		p.UpdatedAt = r.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *memoryPropertyRepository) Delete(_ context.Context, id uuid.UUID) error {
	if !r.t.remove(id) {
		return ErrNotFound
	}
	return nil
}

type memoryOfferRepository struct {
	t   *table[model.Offer]
	now func() time.Time
}

func (r *memoryOfferRepository) Create(_ context.Context, o *model.Offer) error {
	stamp(&o.ID, &o.CreatedAt, &o.UpdatedAt, r.now())
	r.t.put(o.ID, *o)
	return nil
}

func (r *memoryOfferRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Offer, error) {
	o, ok := r.t.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *memoryOfferRepository) List(_ context.Context) ([]model.Offer, error) {
	return r.t.filter(nil), nil
}

func (r *memoryOfferRepository) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]model.Offer, error) {
	return r.t.filter(func(o model.Offer) bool { return o.PropertyID == propertyID }), nil
}

func (r *memoryOfferRepository) ListByProperties(_ context.Context, propertyIDs []uuid.UUID) ([]model.Offer, error) {
	if len(propertyIDs) == 0 {
		return []model.Offer{}, nil
	}
	return r.t.filter(func(o model.Offer) bool { return slices.Contains(propertyIDs, o.PropertyID) }), nil
}

func (r *memoryOfferRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]model.Offer, error) {
	return r.t.filter(func(o model.Offer) bool { return o.BuyerID == buyerID }), nil
}

func (r *memoryOfferRepository) Update(_ context.Context, id uuid.UUID, fn func(o *model.Offer) error) (*model.Offer, error) {
	o, err := r.t.update(id, func(o *model.Offer) error {
		if err := fn(o); err != nil {
			return err
		}
		o.ID = id
		o.UpdatedAt = r.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *memoryOfferRepository) Delete(_ context.Context, id uuid.UUID) error {
	if !r.t.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (r *memoryOfferRepository) DeleteByProperty(_ context.Context, propertyID uuid.UUID) (int64, error) {
	return r.t.removeWhere(func(o model.Offer) bool { return o.PropertyID == propertyID }), nil
}

func (r *memoryOfferRepository) DeleteByBuyer(_ context.Context, buyerID uuid.UUID) (int64, error) {
	return r.t.removeWhere(func(o model.Offer) bool { return o.BuyerID == buyerID }), nil
}

type memoryBuyerRepository struct {
	t   *table[model.Buyer]
	now func() time.Time
}

func (r *memoryBuyerRepository) Create(_ context.Context, b *model.Buyer) error {
	stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt, r.now())
	r.t.put(b.ID, *b)
	return nil
}

func (r *memoryBuyerRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Buyer, error) {
	b, ok := r.t.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *memoryBuyerRepository) List(_ context.Context) ([]model.Buyer, error) {
	return r.t.filter(nil), nil
}

func (r *memoryBuyerRepository) Count(_ context.Context) (int64, error) {
	return int64(r.t.len()), nil
}

func (r *memoryBuyerRepository) Update(_ context.Context, id uuid.UUID, fn func(b *model.Buyer) error) (*model.Buyer, error) {
	b, err := r.t.update(id, func(b *model.Buyer) error {
		if err := fn(b); err != nil {
			return err
		}
		b.ID = id
		b.UpdatedAt = r.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *memoryBuyerRepository) Delete(_ context.Context, id uuid.UUID) error {
	if !r.t.remove(id) {
		return ErrNotFound
	}
	return nil
}

type memorySellerRepository struct {
	t   *table[model.Seller]
	now func() time.Time
}

func (r *memorySellerRepository) Create(_ context.Context, s *model.Seller) error {
	stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt, r.now())
	r.t.put(s.ID, *s)
	return nil
}

func (r *memorySellerRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Seller, error) {
	s, ok := r.t.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *memorySellerRepository) List(_ context.Context) ([]model.Seller, error) {
	return r.t.filter(nil), nil
}

func (r *memorySellerRepository) Update(_ context.Context, id uuid.UUID, fn func(s *model.Seller) error) (*model.Seller, error) {
	s, err := r.t.update(id, func(s *model.Seller) error {
		if err := fn(s); err != nil {
			return err
		}
		s.ID = id
		s.UpdatedAt = r.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *memorySellerRepository) Delete(_ context.Context, id uuid.UUID) error {
	if !r.t.remove(id) {
		return ErrNotFound
	}
	return nil
}
