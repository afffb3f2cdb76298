package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGormStore returns tables backed by db. Call Migrate once before use.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Properties: &propertyRepository{db: db},
		Offers:     &offerRepository{db: db},
		Buyers:     &buyerRepository{db: db},
		Sellers:    &sellerRepository{db: db},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Seller{}, &model.Buyer{}, &model.Property{}, &model.Offer{})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// lockedUpdate loads the row with FOR UPDATE, applies fn and saves it in one transaction.
func lockedUpdate[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, fn func(*T) error, setID func(*T)) (*T, error) {
	var out T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := fn(&row); err != nil {
			return err
		}
		setID(&row)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type propertyRepository struct {
	db *gorm.DB
}

func (r *propertyRepository) Create(ctx context.Context, p *model.Property) error {
	ensureID(&p.ID)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propertyRepository) Save(ctx context.Context, p *model.Property) error {
	ensureID(&p.ID)
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var p model.Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *propertyRepository) List(ctx context.Context) ([]model.Property, error) {
	var list []model.Property
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Property, error) {
	var list []model.Property
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *propertyRepository) ListByLocation(ctx context.Context, location string) ([]model.Property, error) {
	var list []model.Property
	if err := r.db.WithContext(ctx).
		Where("LOWER(location) = LOWER(?)", location).
		Order("created_at, id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *propertyRepository) Update(ctx context.Context, id uuid.UUID, fn func(p *model.Property) error) (*model.Property, error) {
	return lockedUpdate(ctx, r.db, id, fn, func(p *model.Property) { p.ID = id })
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Property{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type offerRepository struct {
	db *gorm.DB
}

func (r *offerRepository) Create(ctx context.Context, o *model.Offer) error {
	ensureID(&o.ID)
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var o model.Offer
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *offerRepository) List(ctx context.Context) ([]model.Offer, error) {
	var list []model.Offer
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *offerRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]model.Offer, error) {
	var list []model.Offer
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at, id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *offerRepository) ListByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]model.Offer, error) {
	if len(propertyIDs) == 0 {
		return []model.Offer{}, nil
	}
	var list []model.Offer
	if err := r.db.WithContext(ctx).
		Where("property_id IN ?", propertyIDs).
		Order("created_at, id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *offerRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Offer, error) {
	var list []model.Offer
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at, id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *offerRepository) Update(ctx context.Context, id uuid.UUID, fn func(o *model.Offer) error) (*model.Offer, error) {
	return lockedUpdate(ctx, r.db, id, fn, func(o *model.Offer) { o.ID = id })
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Offer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *offerRepository) DeleteByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Delete(&model.Offer{})
	return res.RowsAffected, res.Error
}

func (r *offerRepository) DeleteByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&model.Offer{})
	return res.RowsAffected, res.Error
}

type buyerRepository struct {
	db *gorm.DB
}

func (r *buyerRepository) Create(ctx context.Context, b *model.Buyer) error {
	ensureID(&b.ID)
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *buyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	var b model.Buyer
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *buyerRepository) List(ctx context.Context) ([]model.Buyer, error) {
	var list []model.Buyer
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *buyerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Buyer{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *buyerRepository) Update(ctx context.Context, id uuid.UUID, fn func(b *model.Buyer) error) (*model.Buyer, error) {
	return lockedUpdate(ctx, r.db, id, fn, func(b *model.Buyer) { b.ID = id })
}

func (r *buyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Buyer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type sellerRepository struct {
	db *gorm.DB
}

func (r *sellerRepository) Create(ctx context.Context, s *model.Seller) error {
	ensureID(&s.ID)
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	var s model.Seller
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *sellerRepository) List(ctx context.Context) ([]model.Seller, error) {
	var list []model.Seller
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *sellerRepository) Update(ctx context.Context, id uuid.UUID, fn func(s *model.Seller) error) (*model.Seller, error) {
	return lockedUpdate(ctx, r.db, id, fn, func(s *model.Seller) { s.ID = id })
}

func (r *sellerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Seller{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
