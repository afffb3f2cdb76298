package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/logging"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
)

// racingOffers runs before ahead of every insert.
type racingOffers struct {
	repository.OfferRepository
	before func()
}

func (r *racingOffers) Create(ctx context.Context, o *model.Offer) error {
	r.before()
	return r.OfferRepository.Create(ctx, o)
}

func TestPlaceOffer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)

	o, err := f.offers.Place(ctx, p.ID, b.ID, 480000)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.Status != model.OfferStatusPending || o.PropertyID != p.ID || o.BuyerID != b.ID || o.Amount != 480000 {
		t.Fatalf("unexpected offer: %+v", o)
	}
	if o.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned")
	}
}

func TestPlaceOfferAboveBudgetIsAllowed(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 100)
	if _, err := f.offers.Place(context.Background(), p.ID, b.ID, 480000); err != nil {
		t.Fatalf("budget is advisory, got %v", err)
	}
}

func TestPlaceOfferValidation(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)

	tests := []struct {
		name       string
		propertyID uuid.UUID
		buyerID    uuid.UUID
		amount     float64
	}{
		{"nil property", uuid.Nil, b.ID, 480000},
		{"nil buyer", p.ID, uuid.Nil, 480000},
		{"zero amount", p.ID, b.ID, 0},
		{"negative amount", p.ID, b.ID, -100000},
		{"unknown property", uuid.New(), b.ID, 480000},
		{"unknown buyer", p.ID, uuid.New(), 480000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.offers.Place(context.Background(), tt.propertyID, tt.buyerID, tt.amount)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
	all, _ := f.offers.List(context.Background())
	if len(all) != 0 {
		t.Fatalf("invalid offers were stored: %d", len(all))
	}
}

func TestPlaceOfferRacingDelete(t *testing.T) {
	tests := []struct {
		name      string
		policy    DeletePolicy
		wantErr   bool
		wantCount int
	}{
		{"cascade withdraws the offer", DeleteCascade, true, 0},
		{"orphan keeps the offer", DeleteOrphan, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			policy := Policy{Delete: tt.policy}
			f := newFixture(t, policy)
			p := f.property(t, f.seller(t), 500000)
			b := f.buyer(t, 600000)

			store := *f.store
			store.Offers = &racingOffers{
				OfferRepository: f.store.Offers,
				before: func() {
					if err := f.properties.Delete(ctx, p.ID); err != nil {
						t.Errorf("delete property: %v", err)
					}
				},
			}
			svc := NewOfferService(&store, f.notifier, "", policy, logging.Discard())

			_, err := svc.Place(ctx, p.ID, b.ID, 480000)
			if tt.wantErr != isValidation(err) {
				t.Fatalf("place: wantErr=%v, got %v", tt.wantErr, err)
			}
			left, err := f.store.Offers.ListByProperty(ctx, p.ID)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(left) != tt.wantCount {
				t.Fatalf("got %d offers for deleted property, want %d", len(left), tt.wantCount)
			}
		})
	}
}

func TestRespond(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)

	tests := []struct {
		accept bool
		want   model.OfferStatus
	}{
		{true, model.OfferStatusAccepted},
		{false, model.OfferStatusRejected},
	}
	for _, tt := range tests {
		o, err := f.offers.Place(ctx, p.ID, b.ID, 450000)
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		ch, err := f.offers.Respond(ctx, o.ID, tt.accept)
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if ch.Offer.Status != tt.want || ch.Previous != model.OfferStatusPending {
			t.Fatalf("got %s from %s, want %s", ch.Offer.Status, ch.Previous, tt.want)
		}
		if !ch.Notified {
			t.Fatalf("expected notification to be sent")
		}
	}

	if _, err := f.offers.Respond(ctx, uuid.Nil, true); !isValidation(err) {
		t.Fatalf("want ValidationError for nil offer, got %v", err)
	}
	if _, err := f.offers.Respond(ctx, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListByProperty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	s := f.seller(t)
	p := f.property(t, s, 500000)
	other := f.property(t, s, 100000)
	b := f.buyer(t, 600000)

	want := map[uuid.UUID]bool{}
	for _, amount := range []float64{400000, 420000, 440000} {
		o, err := f.offers.Place(ctx, p.ID, b.ID, amount)
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		want[o.ID] = true
	}
	if _, err := f.offers.Place(ctx, other.ID, b.ID, 90000); err != nil {
		t.Fatalf("place: %v", err)
	}

	got, err := f.offers.ListByProperty(ctx, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d offers, want %d", len(got), len(want))
	}
	for _, o := range got {
		if !want[o.ID] {
			t.Fatalf("unexpected offer %s", o.ID)
		}
	}
}

func TestAcceptLeavesPropertyForSaleByDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)

	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)
	ch, err := f.offers.Respond(ctx, o.ID, true)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if ch.Offer.Status != model.OfferStatusAccepted {
		t.Fatalf("got %s", ch.Offer.Status)
	}
	got, _ := f.properties.Get(ctx, p.ID)
	if got.Status != model.PropertyStatusForSale {
		t.Fatalf("property status changed to %s", got.Status)
	}
}

func TestRejectFirstAcceptSecond(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)

	first, _ := f.offers.Place(ctx, p.ID, b.ID, 400000)
	second, _ := f.offers.Place(ctx, p.ID, b.ID, 490000)
	if _, err := f.offers.Respond(ctx, first.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.offers.Respond(ctx, second.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, _ := f.offers.ListByProperty(ctx, p.ID)
	status := map[uuid.UUID]model.OfferStatus{}
	for _, o := range got {
		status[o.ID] = o.Status
	}
	if len(status) != 2 || status[first.ID] != model.OfferStatusRejected || status[second.ID] != model.OfferStatusAccepted {
		t.Fatalf("unexpected statuses: %v", status)
	}
}

func TestSetStatusUnknownValue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	for _, raw := range []string{"MAYBE", "accepted", ""} {
		_, err := f.offers.SetStatus(ctx, o.ID, raw)
		if !isValidation(err) {
			t.Fatalf("%q: want ValidationError, got %v", raw, err)
		}
		if !errors.Is(err, model.ErrUnknownStatus) {
			t.Fatalf("%q: want wrapped ErrUnknownStatus, got %v", raw, err)
		}
	}
	got, _ := f.offers.Get(ctx, o.ID)
	if got.Status != model.OfferStatusPending {
		t.Fatalf("offer mutated to %s", got.Status)
	}
	if n := len(f.notifier.calls()); n != 0 {
		t.Fatalf("expected no notification, got %d", n)
	}
}

func TestSetStatusNotifiesBuyer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	ch, err := f.offers.SetStatus(ctx, o.ID, "WITHDRAWN")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if ch.Offer.Status != model.OfferStatusWithdrawn || !ch.Notified {
		t.Fatalf("unexpected change: %+v", ch)
	}
	calls := f.notifier.calls()
	if len(calls) != 1 {
		t.Fatalf("got %d notifications", len(calls))
	}
	c := calls[0]
	if c.Recipient != b.Email || c.OldStatus != model.OfferStatusPending || c.NewStatus != model.OfferStatusWithdrawn || c.OfferID != o.ID {
		t.Fatalf("unexpected notification: %+v", c)
	}
}

func TestSetStatusDeliveryFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	f.notifier.result = false
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	ch, err := f.offers.SetStatus(ctx, o.ID, "ACCEPTED")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if ch.Notified {
		t.Fatalf("expected Notified=false")
	}
	got, _ := f.offers.Get(ctx, o.ID)
	if got.Status != model.OfferStatusAccepted {
		t.Fatalf("status not stored: %s", got.Status)
	}
}

func TestUnconditionalTransitionsByDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	for _, s := range []string{"REJECTED", "ACCEPTED", "PENDING"} {
		ch, err := f.offers.SetStatus(ctx, o.ID, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if string(ch.Offer.Status) != s {
			t.Fatalf("got %s want %s", ch.Offer.Status, s)
		}
	}
}

func TestStrictTransitions(t *testing.T) {
	ctx := context.Background()
	policy := DefaultPolicy()
	policy.StrictTransitions = true
	f := newFixture(t, policy)
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	if _, err := f.offers.Respond(ctx, o.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.offers.Respond(ctx, o.ID, true); !isValidation(err) {
		t.Fatalf("want ValidationError leaving terminal state, got %v", err)
	}
	if _, err := f.offers.SetStatus(ctx, o.ID, "PENDING"); !isValidation(err) {
		t.Fatalf("want ValidationError re-entering PENDING, got %v", err)
	}
	if _, err := f.offers.SetStatus(ctx, o.ID, "REJECTED"); err != nil {
		t.Fatalf("same-status update should pass: %v", err)
	}
	got, _ := f.offers.Get(ctx, o.ID)
	if got.Status != model.OfferStatusRejected {
		t.Fatalf("got %s", got.Status)
	}
	if n := len(f.notifier.calls()); n != 2 {
		t.Fatalf("refused transitions must not notify, got %d calls", n)
	}
}

func TestAcceptPolicies(t *testing.T) {
	ctx := context.Background()
	policy := DefaultPolicy()
	policy.AcceptPropertyStatus = model.PropertyStatusSold
	policy.RejectCompeting = true
	f := newFixture(t, policy)
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)

	winner, _ := f.offers.Place(ctx, p.ID, b.ID, 500000)
	loser, _ := f.offers.Place(ctx, p.ID, b.ID, 450000)
	withdrawn, _ := f.offers.Place(ctx, p.ID, b.ID, 300000)
	if _, err := f.offers.SetStatus(ctx, withdrawn.ID, "WITHDRAWN"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if _, err := f.offers.Respond(ctx, winner.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	prop, _ := f.properties.Get(ctx, p.ID)
	if prop.Status != model.PropertyStatusSold {
		t.Fatalf("property status %s, want SOLD", prop.Status)
	}
	got, _ := f.offers.Get(ctx, loser.ID)
	if got.Status != model.OfferStatusRejected {
		t.Fatalf("competing offer is %s", got.Status)
	}
	got, _ = f.offers.Get(ctx, withdrawn.ID)
	if got.Status != model.OfferStatusWithdrawn {
		t.Fatalf("withdrawn offer changed to %s", got.Status)
	}
	// withdraw + accept + one competing rejection
	if n := len(f.notifier.calls()); n != 3 {
		t.Fatalf("got %d notifications, want 3", n)
	}
}

func TestNotificationFallbackRecipient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	f.offers = NewOfferService(f.store, f.notifier, "ops@example.com", DefaultPolicy(), logging.Discard())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	if err := f.buyers.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete buyer: %v", err)
	}
	// cascade removed the offer, so put one back that points at the missing buyer
	orphan := &model.Offer{PropertyID: p.ID, BuyerID: b.ID, Amount: o.Amount, Status: model.OfferStatusPending}
	if err := f.store.Offers.Create(ctx, orphan); err != nil {
		t.Fatalf("create: %v", err)
	}
	ch, err := f.offers.Respond(ctx, orphan.ID, true)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	calls := f.notifier.calls()
	if !ch.Notified || calls[len(calls)-1].Recipient != "ops@example.com" {
		t.Fatalf("fallback recipient not used: %+v", calls)
	}
}

func TestListReceivedBySeller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	s1 := f.seller(t)
	s2 := f.seller(t)
	p1 := f.property(t, s1, 500000)
	p2 := f.property(t, s2, 200000)
	b := f.buyer(t, 600000)
	f.offers.Place(ctx, p1.ID, b.ID, 480000)
	f.offers.Place(ctx, p1.ID, b.ID, 490000)
	f.offers.Place(ctx, p2.ID, b.ID, 190000)

	got, err := f.offers.ListReceivedBySeller(ctx, s1.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d offers, want 2", len(got))
	}
	byBuyer, err := f.offers.ListByBuyer(ctx, b.ID)
	if err != nil || len(byBuyer) != 3 {
		t.Fatalf("by buyer: %d, %v", len(byBuyer), err)
	}
	if _, err := f.offers.ListReceivedBySeller(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := f.offers.ListByBuyer(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteOffer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultPolicy())
	p := f.property(t, f.seller(t), 500000)
	b := f.buyer(t, 600000)
	o, _ := f.offers.Place(ctx, p.ID, b.ID, 480000)

	if err := f.offers.Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.offers.Get(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := f.offers.Delete(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", err)
	}
}

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
