package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/logging"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
)

// interleavedProperties runs before once, ahead of the first read or update it sees.
type interleavedProperties struct {
	repository.PropertyRepository
	once   sync.Once
	before func()
}

func (r *interleavedProperties) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	r.once.Do(r.before)
	return r.PropertyRepository.FindByID(ctx, id)
}

func (r *interleavedProperties) Update(ctx context.Context, id uuid.UUID, fn func(p *model.Property) error) (*model.Property, error) {
	r.once.Do(r.before)
	return r.PropertyRepository.Update(ctx, id, fn)
}

func TestPublishNilProperty(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	s := f.seller(t)
	if _, err := f.properties.Publish(context.Background(), s.ID, nil); !isValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	s := f.seller(t)
	p := &model.Property{Title: "Luxury Villa", Location: "Geneva", Price: 1200000, Size: 200, Type: model.PropertyTypeVilla, Status: model.PropertyStatusOffMarket}

	first, err := f.properties.Publish(ctx, s.ID, p)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if first.Status != model.PropertyStatusForSale || first.OwnerID != s.ID {
		t.Fatalf("unexpected property: %+v", first)
	}
	second, err := f.properties.Publish(ctx, s.ID, p)
	if err != nil {
		t.Fatalf("publish again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("id changed: %s -> %s", first.ID, second.ID)
	}
	owned, err := f.properties.ListByOwner(ctx, s.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != first.ID {
		t.Fatalf("want property listed once, got %d", len(owned))
	}
	all, _ := f.properties.List(ctx)
	if len(all) != 1 {
		t.Fatalf("want one row, got %d", len(all))
	}
}

func TestPublishChecks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	owner := f.seller(t)
	other := f.seller(t)
	p := f.property(t, owner, 500000)

	if _, err := f.properties.PublishExisting(ctx, other.ID, p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if _, err := f.properties.PublishExisting(ctx, uuid.New(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown seller, got %v", err)
	}
	if _, err := f.properties.PublishExisting(ctx, owner.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown property, got %v", err)
	}

	if _, err := f.properties.Update(ctx, p.ID, PropertyPatch{Status: ptr("OFF_MARKET")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := f.properties.PublishExisting(ctx, owner.ID, p.ID)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if got.Status != model.PropertyStatusForSale || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("republish lost state: %+v", got)
	}
}

func TestPublishKeepsInterleavedUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	owner := f.seller(t)
	p := f.property(t, owner, 500000)
	if _, err := f.properties.Update(ctx, p.ID, PropertyPatch{Status: ptr("OFF_MARKET")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	store := *f.store
	store.Properties = &interleavedProperties{
		PropertyRepository: f.store.Properties,
		before: func() {
			if _, err := f.properties.Update(ctx, p.ID, PropertyPatch{Title: ptr("Renovated Apartment")}); err != nil {
				t.Errorf("interleaved update: %v", err)
			}
		},
	}
	svc := NewPropertyService(&store, DefaultPolicy(), logging.Discard())

	got, err := svc.PublishExisting(ctx, owner.ID, p.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	stored, _ := f.properties.Get(ctx, p.ID)
	for _, prop := range []*model.Property{got, stored} {
		if prop.Title != "Renovated Apartment" || prop.Status != model.PropertyStatusForSale {
			t.Fatalf("update lost by publish: title=%q status=%s", prop.Title, prop.Status)
		}
	}
}

func TestConcurrentPublishHasOneOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	unowned := &model.Property{Title: "Chalet", Location: "Verbier", Price: 900000, Type: model.PropertyTypeHouse, Status: model.PropertyStatusOffMarket}
	if err := f.store.Properties.Create(ctx, unowned); err != nil {
		t.Fatalf("create: %v", err)
	}

	sellers := make([]*model.Seller, 10)
	for i := range sellers {
		sellers[i] = f.seller(t)
	}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []uuid.UUID
		forbidden int
	)
	for _, s := range sellers {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.properties.PublishExisting(ctx, id, unowned.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, id)
			case errors.Is(err, ErrForbidden):
				forbidden++
			default:
				t.Errorf("publish: %v", err)
			}
		}(s.ID)
	}
	wg.Wait()

	if len(winners) != 1 || forbidden != len(sellers)-1 {
		t.Fatalf("want one owner and %d forbidden, got %d and %d", len(sellers)-1, len(winners), forbidden)
	}
	got, _ := f.properties.Get(ctx, unowned.ID)
	if got.OwnerID != winners[0] || got.Status != model.PropertyStatusForSale {
		t.Fatalf("unexpected property: %+v", got)
	}
}

func TestCreateProperty(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	s := f.seller(t)

	tests := []struct {
		name    string
		in      PropertyInput
		wantErr bool
	}{
		{"valid", PropertyInput{Title: "Flat", OwnerID: s.ID, Price: 1, Type: "apartment"}, false},
		{"status given", PropertyInput{Title: "Flat", OwnerID: s.ID, Type: "HOUSE", Status: "sold"}, false},
		{"missing owner", PropertyInput{Title: "Flat", Type: "HOUSE"}, true},
		{"unknown owner", PropertyInput{Title: "Flat", OwnerID: uuid.New(), Type: "HOUSE"}, true},
		{"bad type", PropertyInput{Title: "Flat", OwnerID: s.ID, Type: "CASTLE"}, true},
		{"missing type", PropertyInput{Title: "Flat", OwnerID: s.ID}, true},
		{"bad status", PropertyInput{Title: "Flat", OwnerID: s.ID, Type: "HOUSE", Status: "GONE"}, true},
		{"negative price", PropertyInput{Title: "Flat", OwnerID: s.ID, Type: "HOUSE", Price: -1}, true},
		{"blank title", PropertyInput{Title: " ", OwnerID: s.ID, Type: "HOUSE"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.properties.Create(context.Background(), tt.in)
			if tt.wantErr {
				if !isValidation(err) {
					t.Fatalf("want ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if tt.in.Status == "" && p.Status != model.PropertyStatusForSale {
				t.Fatalf("default status %s", p.Status)
			}
		})
	}
}

func TestUpdatePropertyPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p, err := f.properties.Create(ctx, PropertyInput{
		Title: "Modern Apartment", Location: "Zurich", OwnerID: f.seller(t).ID,
		Price: 500000, Size: 75.5, Type: "APARTMENT",
		Features: map[string]any{"bedrooms": 2, "bathrooms": 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := f.properties.Update(ctx, p.ID, PropertyPatch{
		Title:    ptr("  "),
		Location: ptr("Basel"),
		Price:    ptr(0.0),
		Size:     ptr(80.0),
		Features: map[string]any{"bedrooms": 3, "balcony": true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Modern Apartment" || got.Location != "Basel" || got.Price != 500000 || got.Size != 80 {
		t.Fatalf("unexpected patch result: %+v", got)
	}
	if got.Features["bedrooms"] != 3 || got.Features["bathrooms"] != 1 || got.Features["balcony"] != true {
		t.Fatalf("features not merged: %v", got.Features)
	}

	if _, err := f.properties.Update(ctx, p.ID, PropertyPatch{Location: ptr("Bern"), Type: ptr("CASTLE")}); !isValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	after, _ := f.properties.Get(ctx, p.ID)
	if after.Location != "Basel" {
		t.Fatalf("failed update was partially applied: %s", after.Location)
	}
	if _, err := f.properties.Update(ctx, uuid.New(), PropertyPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSearchByLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	s := f.seller(t)
	for _, loc := range []string{"Zurich", "ZURICH", "Geneva"} {
		if _, err := f.properties.Create(ctx, PropertyInput{Title: "x", OwnerID: s.ID, Location: loc, Type: "HOUSE"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	tests := []struct {
		location string
		want     int
	}{
		{"zurich", 2},
		{"Geneva", 1},
		{"Zug", 0},
		{"", 3},
	}
	for _, tt := range tests {
		got, err := f.properties.Search(ctx, tt.location)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(got) != tt.want {
			t.Fatalf("%q: got %d want %d", tt.location, len(got), tt.want)
		}
	}
}

func TestDeletePropertyPolicies(t *testing.T) {
	tests := []struct {
		policy     DeletePolicy
		wantErr    error
		wantOffers int
	}{
		{DeleteCascade, nil, 0},
		{DeleteRestrict, ErrHasDependents, 1},
		{DeleteOrphan, nil, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, Policy{Delete: tt.policy})
			p := f.property(t, f.seller(t), 500000)
			b := f.buyer(t, 600000)
			if _, err := f.offers.Place(ctx, p.ID, b.ID, 1000); err != nil {
				t.Fatalf("place: %v", err)
			}

			err := f.properties.Delete(ctx, p.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v want %v", err, tt.wantErr)
			}
			offers, _ := f.store.Offers.List(ctx)
			if len(offers) != tt.wantOffers {
				t.Fatalf("got %d offers want %d", len(offers), tt.wantOffers)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
