package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/notify"
	"github.com/nikh123/RealEstateHub/internal/reqctx"
	"github.com/nikh123/RealEstateHub/internal/repository"
)

// OfferNotifier is satisfied by *notify.Dispatcher.
type OfferNotifier interface {
	Notify(ctx context.Context, c notify.OfferStatusChange) bool
}

// StatusChange is the outcome of moving an offer to a new status.
type StatusChange struct {
	Offer    *model.Offer
	Previous model.OfferStatus
	// Notified is true when the buyer notification was delivered, or queued in async mode.
	Notified bool
}

type OfferService interface {
	Place(ctx context.Context, propertyID, buyerID uuid.UUID, amount float64) (*model.Offer, error)
	Respond(ctx context.Context, offerID uuid.UUID, accept bool) (*StatusChange, error)
	SetStatus(ctx context.Context, offerID uuid.UUID, rawStatus string) (*StatusChange, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]model.Offer, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Offer, error)
	ListReceivedBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type offerService struct {
	offers   repository.OfferRepository
	props    repository.PropertyRepository
	buyers   repository.BuyerRepository
	sellers  repository.SellerRepository
	notifier OfferNotifier
	fallback string
	policy   Policy
	log      *slog.Logger
}

// NewOfferService wires the offer lifecycle. fallbackRecipient is used when a buyer has no email.
func NewOfferService(store *repository.Store, notifier OfferNotifier, fallbackRecipient string, policy Policy, log *slog.Logger) OfferService {
	return &offerService{
		offers:   store.Offers,
		props:    store.Properties,
		buyers:   store.Buyers,
		sellers:  store.Sellers,
		notifier: notifier,
		fallback: fallbackRecipient,
		policy:   policy,
		log:      log,
	}
}

func (s *offerService) Place(ctx context.Context, propertyID, buyerID uuid.UUID, amount float64) (*model.Offer, error) {
	if propertyID == uuid.Nil {
		return nil, invalid("property is required")
	}
	if buyerID == uuid.Nil {
		return nil, invalid("buyer is required")
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, invalid("amount must be positive")
	}
	if _, err := s.props.FindByID(ctx, propertyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidf("property %s does not exist", propertyID)
		}
		return nil, err
	}
	buyer, err := s.buyers.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidf("buyer %s does not exist", buyerID)
		}
		return nil, err
	}
	if amount > buyer.Budget {
		s.log.WarnContext(ctx, "offer exceeds buyer budget",
			"buyer_id", buyerID, "amount", amount, "budget", buyer.Budget)
	}

	o := &model.Offer{
		PropertyID: propertyID,
		BuyerID:    buyerID,
		Amount:     amount,
		Status:     model.OfferStatusPending,
	}
	if err := s.offers.Create(ctx, o); err != nil {
		return nil, err
	}
	if s.policy.Delete != DeleteOrphan {
		if err := s.withdrawIfOrphaned(ctx, o); err != nil {
			return nil, err
		}
	}
	s.log.InfoContext(ctx, "offer placed", "offer_id", o.ID, "property_id", propertyID, "buyer_id", buyerID)
	return o, nil
}

// withdrawIfOrphaned removes o again when its property or buyer was deleted while it was being placed.
func (s *offerService) withdrawIfOrphaned(ctx context.Context, o *model.Offer) error {
	gone := ""
	if _, err := s.props.FindByID(ctx, o.PropertyID); errors.Is(err, repository.ErrNotFound) {
		gone = "property " + o.PropertyID.String()
	} else if err != nil {
		return err
	}
	if gone == "" {
		if _, err := s.buyers.FindByID(ctx, o.BuyerID); errors.Is(err, repository.ErrNotFound) {
			gone = "buyer " + o.BuyerID.String()
		} else if err != nil {
			return err
		}
	}
	if gone == "" {
		return nil
	}
	if err := s.offers.Delete(ctx, o.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.log.WarnContext(ctx, "offer withdrawn, parent deleted concurrently", "offer_id", o.ID, "parent", gone)
	return invalidf("%s does not exist", gone)
}

func (s *offerService) Respond(ctx context.Context, offerID uuid.UUID, accept bool) (*StatusChange, error) {
	if offerID == uuid.Nil {
		return nil, invalid("offer is required")
	}
	next := model.OfferStatusRejected
	if accept {
		next = model.OfferStatusAccepted
	}
	return s.transition(ctx, offerID, next)
}

func (s *offerService) SetStatus(ctx context.Context, offerID uuid.UUID, rawStatus string) (*StatusChange, error) {
	if offerID == uuid.Nil {
		return nil, invalid("offer is required")
	}
	next, err := model.ParseOfferStatus(rawStatus)
	if err != nil {
		return nil, invalidErr(err)
	}
	return s.transition(ctx, offerID, next)
}

func (s *offerService) transition(ctx context.Context, offerID uuid.UUID, next model.OfferStatus) (*StatusChange, error) {
	var prev model.OfferStatus
	o, err := s.offers.Update(ctx, offerID, func(o *model.Offer) error {
		prev = o.Status
		if !s.policy.allows(prev, next) {
			return invalidf("offer %s cannot move from %s to %s", offerID, prev, next)
		}
		o.Status = next
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "offer")
	}
	s.log.InfoContext(ctx, "offer status changed", "offer_id", o.ID, "from", prev, "to", next)

	change := &StatusChange{Offer: o, Previous: prev}
	change.Notified = s.notify(ctx, o, prev)
	if next == model.OfferStatusAccepted && prev != model.OfferStatusAccepted {
		s.afterAccept(ctx, o)
	}
	return change, nil
}

func (s *offerService) afterAccept(ctx context.Context, accepted *model.Offer) {
	if s.policy.AcceptPropertyStatus != "" {
		_, err := s.props.Update(ctx, accepted.PropertyID, func(p *model.Property) error {
			p.Status = s.policy.AcceptPropertyStatus
			return nil
		})
		if err != nil {
			s.log.WarnContext(ctx, "property status not updated after accept",
				"property_id", accepted.PropertyID, "err", err)
		}
	}
	if !s.policy.RejectCompeting {
		return
	}

	competing, err := s.offers.ListByProperty(ctx, accepted.PropertyID)
	if err != nil {
		s.log.WarnContext(ctx, "list competing offers", "property_id", accepted.PropertyID, "err", err)
		return
	}
	for _, c := range competing {
		if c.ID == accepted.ID || c.Status != model.OfferStatusPending {
			continue
		}
		skipped := false
		o, err := s.offers.Update(ctx, c.ID, func(o *model.Offer) error {
			if o.Status != model.OfferStatusPending {
				skipped = true
				return nil
			}
			o.Status = model.OfferStatusRejected
			return nil
		})
		if err != nil {
			s.log.WarnContext(ctx, "reject competing offer", "offer_id", c.ID, "err", err)
			continue
		}
		if skipped {
			continue
		}
		s.log.InfoContext(ctx, "competing offer rejected", "offer_id", o.ID, "accepted_offer_id", accepted.ID)
		s.notify(ctx, o, model.OfferStatusPending)
	}
}

func (s *offerService) notify(ctx context.Context, o *model.Offer, prev model.OfferStatus) bool {
	if s.notifier == nil {
		return false
	}
	recipient := s.fallback
	buyer, err := s.buyers.FindByID(ctx, o.BuyerID)
	switch {
	case err == nil && buyer.Email != "":
		recipient = buyer.Email
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.log.WarnContext(ctx, "lookup buyer for notification", "buyer_id", o.BuyerID, "err", err)
	}
	return s.notifier.Notify(ctx, notify.OfferStatusChange{
		OfferID:    o.ID,
		PropertyID: o.PropertyID,
		OldStatus:  prev,
		NewStatus:  o.Status,
		Recipient:  recipient,
		RequestID:  reqctx.RequestID(ctx),
	})
}

func (s *offerService) Get(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	o, err := s.offers.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "offer")
	}
	return o, nil
}

func (s *offerService) List(ctx context.Context) ([]model.Offer, error) {
	return s.offers.List(ctx)
}

func (s *offerService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]model.Offer, error) {
	return s.offers.ListByProperty(ctx, propertyID)
}

func (s *offerService) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]model.Offer, error) {
	if _, err := s.buyers.FindByID(ctx, buyerID); err != nil {
		return nil, mapRepoErr(err, "buyer")
	}
	return s.offers.ListByBuyer(ctx, buyerID)
}

func (s *offerService) ListReceivedBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Offer, error) {
	if _, err := s.sellers.FindByID(ctx, sellerID); err != nil {
		return nil, mapRepoErr(err, "seller")
	}
	props, err := s.props.ListByOwner(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	return s.offers.ListByProperties(ctx, ids)
}

func (s *offerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.offers.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "offer")
	}
	s.log.InfoContext(ctx, "offer deleted", "offer_id", id)
	return nil
}
