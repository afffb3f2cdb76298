package service

import "github.com/nikh123/RealEstateHub/internal/model"

type DeletePolicy string

const (
	// DeleteCascade removes dependent records along with the parent.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteRestrict refuses to delete a parent that still has dependents.
	DeleteRestrict DeletePolicy = "restrict"
	// DeleteOrphan leaves dependents pointing at the removed id.
	DeleteOrphan DeletePolicy = "orphan"
)

type Policy struct {
	// AcceptPropertyStatus, when set, is applied to the property of an accepted offer.
	AcceptPropertyStatus model.PropertyStatus
	// RejectCompeting rejects the other pending offers on a property once one is accepted.
	RejectCompeting bool
	// StrictTransitions forbids leaving a terminal offer status.
	StrictTransitions bool
	Delete            DeletePolicy
}

func DefaultPolicy() Policy {
	return Policy{Delete: DeleteCascade}
}

func (p Policy) allows(from, to model.OfferStatus) bool {
	if !p.StrictTransitions || from == to {
		return true
	}
	return !from.Terminal()
}
