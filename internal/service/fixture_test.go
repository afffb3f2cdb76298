package service

import (
	"context"
	"sync"
	"testing"

	"github.com/nikh123/RealEstateHub/internal/logging"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/notify"
	"github.com/nikh123/RealEstateHub/internal/repository"
)

type fakeNotifier struct {
	mu     sync.Mutex
	result bool
	sent   []notify.OfferStatusChange
}

func (f *fakeNotifier) Notify(_ context.Context, c notify.OfferStatusChange) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return f.result && c.Recipient != ""
}

func (f *fakeNotifier) calls() []notify.OfferStatusChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.OfferStatusChange(nil), f.sent...)
}

type fixture struct {
	store      *repository.Store
	notifier   *fakeNotifier
	offers     OfferService
	properties PropertyService
	buyers     BuyerService
	sellers    SellerService
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	n := &fakeNotifier{result: true}
	log := logging.Discard()
	return &fixture{
		store:      store,
		notifier:   n,
		offers:     NewOfferService(store, n, "", policy, log),
		properties: NewPropertyService(store, policy, log),
		buyers:     NewBuyerService(store, policy, log),
		sellers:    NewSellerService(store, policy, log),
	}
}

func (f *fixture) seller(t *testing.T) *model.Seller {
	t.Helper()
	s, err := f.sellers.Create(context.Background(), SellerInput{FirstName: "Demo", LastName: "Seller", Email: "seller@demo.com"})
	if err != nil {
		t.Fatalf("create seller: %v", err)
	}
	return s
}

func (f *fixture) buyer(t *testing.T, budget float64) *model.Buyer {
	t.Helper()
	b, err := f.buyers.Create(context.Background(), BuyerInput{FirstName: "Alice", LastName: "Martin", Email: "alice@demo.com", Budget: budget})
	if err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	return b
}

func (f *fixture) property(t *testing.T, owner *model.Seller, price float64) *model.Property {
	t.Helper()
	p, err := f.properties.Create(context.Background(), PropertyInput{
		Title:    "Modern Apartment",
		Location: "Zurich",
		OwnerID:  owner.ID,
		Price:    price,
		Size:     75.5,
		Type:     "APARTMENT",
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}
