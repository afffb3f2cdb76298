// Package seed loads the demo fixture through the service layer.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
	"github.com/nikh123/RealEstateHub/internal/service"
)

type Services struct {
	Sellers    service.SellerService
	Buyers     service.BuyerService
	Properties service.PropertyService
}

type Result struct {
	Seller     *model.Seller
	Buyers     []*model.Buyer
	Properties []*model.Property
}

var demoBuyers = []service.BuyerInput{
	{FirstName: "Alice", LastName: "Martin", Email: "alice@demo.com", Username: "alice", Password: "pass123", Budget: 350000},
	{FirstName: "Jonathan", LastName: "Grossrieder", Email: "jonathan.grossrieder@unil.ch", Username: "Jon", Password: "pass456", Budget: 550000},
}

var demoSeller = service.SellerInput{FirstName: "Demo", LastName: "Seller", Email: "seller@demo.com", Username: "seller", Password: "pass789"}

var demoProperties = []service.PropertyInput{
	{
		Title:       "Modern Apartment",
		Description: "Bright apartment close to the lake",
		Location:    "Zurich",
		Price:       500000,
		Size:        75.5,
		Type:        string(model.PropertyTypeApartment),
		Features:    map[string]any{"bedrooms": 2, "bathrooms": 1},
	},
	{
		Title:       "Luxury Villa",
		Description: "Villa with garden and lake view",
		Location:    "Geneva",
		Price:       1200000,
		Size:        200,
		Type:        string(model.PropertyTypeVilla),
	},
}

// ShouldSeed reports whether the store is empty, or force is set.
func ShouldSeed(ctx context.Context, buyers repository.BuyerRepository, force bool) (bool, error) {
	n, err := buyers.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count buyers: %w", err)
	}
	return n == 0 || force, nil
}

// Demo creates the demo buyers, seller and the seller's published properties.
func Demo(ctx context.Context, s Services, log *slog.Logger) (*Result, error) {
	res := &Result{}
	for _, in := range demoBuyers {
		b, err := s.Buyers.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seed buyer %s: %w", in.Email, err)
		}
		res.Buyers = append(res.Buyers, b)
	}

	seller, err := s.Sellers.Create(ctx, demoSeller)
	if err != nil {
		return nil, fmt.Errorf("seed seller: %w", err)
	}
	res.Seller = seller

	for _, in := range demoProperties {
		p, err := s.Properties.Build(in)
		if err != nil {
			return nil, fmt.Errorf("seed property %q: %w", in.Title, err)
		}
		if p, err = s.Properties.Publish(ctx, seller.ID, p); err != nil {
			return nil, fmt.Errorf("publish property %q: %w", in.Title, err)
		}
		res.Properties = append(res.Properties, p)
	}

	log.InfoContext(ctx, "demo data seeded",
		"buyers", len(res.Buyers), "sellers", 1, "properties", len(res.Properties))
	return res, nil
}
