package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/service"
)

type OfferHandler struct {
	svc service.OfferService
	log *slog.Logger
	// queued is set when notifications go through a background queue, so a
	// successful Notify means accepted for delivery rather than delivered.
	queued bool
}

func NewOfferHandler(svc service.OfferService, log *slog.Logger, queued bool) *OfferHandler {
	return &OfferHandler{svc: svc, log: log, queued: queued}
}

type OfferResponse struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"propertyId"`
	BuyerID    uuid.UUID `json:"buyerId"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type OfferStatusResponse struct {
	Offer                 OfferResponse `json:"offer"`
	EmailNotificationSent bool          `json:"emailNotificationSent"`
	Message               string        `json:"message"`
}

type CreateOfferRequest struct {
	PropertyID string  `json:"propertyId" validate:"required"`
	BuyerID    string  `json:"buyerId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
}

type UpdateOfferStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RespondOfferRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

func (h *OfferHandler) Create(c echo.Context) error {
	var req CreateOfferRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return badRequest(c, "invalid property id")
	}
	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		return badRequest(c, "invalid buyer id")
	}
	o, err := h.svc.Place(c.Request().Context(), propertyID, buyerID, req.Amount)
	if err != nil {
		return fail(c, h.log, err, "place offer")
	}
	return c.JSON(http.StatusCreated, toOfferResponse(o))
}

func (h *OfferHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid offer id")
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.log, err, "fetch offer")
	}
	return c.JSON(http.StatusOK, toOfferResponse(o))
}

func (h *OfferHandler) List(c echo.Context) error {
	offers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err, "fetch offers")
	}
	return c.JSON(http.StatusOK, toOfferResponses(offers))
}

func (h *OfferHandler) ListByProperty(c echo.Context) error {
	propertyID, ok := pathID(c, "propertyId")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	offers, err := h.svc.ListByProperty(c.Request().Context(), propertyID)
	if err != nil {
		return fail(c, h.log, err, "fetch property offers")
	}
	return c.JSON(http.StatusOK, toOfferResponses(offers))
}

func (h *OfferHandler) ListByBuyer(c echo.Context) error {
	buyerID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid buyer id")
	}
	offers, err := h.svc.ListByBuyer(c.Request().Context(), buyerID)
	if err != nil {
		return fail(c, h.log, err, "fetch buyer offers")
	}
	return c.JSON(http.StatusOK, toOfferResponses(offers))
}

func (h *OfferHandler) ListBySeller(c echo.Context) error {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	offers, err := h.svc.ListReceivedBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return fail(c, h.log, err, "fetch seller offers")
	}
	return c.JSON(http.StatusOK, toOfferResponses(offers))
}

func (h *OfferHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid offer id")
	}
	var req UpdateOfferStatusRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ch, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return fail(c, h.log, err, "update offer status")
	}
	return c.JSON(http.StatusOK, toOfferStatusResponse(ch, h.queued))
}

func (h *OfferHandler) Respond(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid offer id")
	}
	var req RespondOfferRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ch, err := h.svc.Respond(c.Request().Context(), id, *req.Accept)
	if err != nil {
		return fail(c, h.log, err, "respond to offer")
	}
	return c.JSON(http.StatusOK, toOfferStatusResponse(ch, h.queued))
}

func (h *OfferHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid offer id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, h.log, err, "delete offer")
	}
	return c.NoContent(http.StatusNoContent)
}

func toOfferStatusResponse(ch *service.StatusChange, queued bool) OfferStatusResponse {
	var msg string
	switch {
	case !ch.Notified:
		msg = "Offer status updated but email notification was not dispatched"
	case queued:
		msg = "Offer status updated and email notification queued"
	default:
		msg = "Offer status updated and email notification sent"
	}
	return OfferStatusResponse{
		Offer:                 toOfferResponse(ch.Offer),
		EmailNotificationSent: ch.Notified,
		Message:               msg,
	}
}

func toOfferResponse(o *model.Offer) OfferResponse {
	return OfferResponse{
		ID:         o.ID,
		PropertyID: o.PropertyID,
		BuyerID:    o.BuyerID,
		Amount:     o.Amount,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  o.UpdatedAt.Format(time.RFC3339),
	}
}

func toOfferResponses(offers []model.Offer) []OfferResponse {
	resp := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		resp = append(resp, toOfferResponse(&offers[i]))
	}
	return resp
}
