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

type PropertyHandler struct {
	svc service.PropertyService
	log *slog.Logger
}

func NewPropertyHandler(svc service.PropertyService, log *slog.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

type PropertyResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	OwnerID     uuid.UUID      `json:"ownerId"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Price       float64        `json:"price"`
	Size        float64        `json:"size"`
	Type        string         `json:"type"`
	Status      string         `json:"status"`
	Features    map[string]any `json:"features"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

type CreatePropertyRequest struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	OwnerID     string         `json:"ownerId" validate:"required"`
	Price       float64        `json:"price" validate:"gte=0"`
	Size        float64        `json:"size" validate:"gte=0"`
	Type        string         `json:"type" validate:"required"`
	Status      string         `json:"status"`
	Features    map[string]any `json:"features"`
}

// PublishPropertyRequest is CreatePropertyRequest without an owner; the seller comes from the path.
type PublishPropertyRequest struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Price       float64        `json:"price" validate:"gte=0"`
	Size        float64        `json:"size" validate:"gte=0"`
	Type        string         `json:"type" validate:"required"`
	Features    map[string]any `json:"features"`
}

type UpdatePropertyRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Location    *string        `json:"location"`
	Price       *float64       `json:"price"`
	Size        *float64       `json:"size"`
	Type        *string        `json:"type"`
	Status      *string        `json:"status"`
	Features    map[string]any `json:"features"`
}

func (h *PropertyHandler) Create(c echo.Context) error {
	var req CreatePropertyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return badRequest(c, "invalid owner id")
	}
	p, err := h.svc.Create(c.Request().Context(), service.PropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		OwnerID:     ownerID,
		Price:       req.Price,
		Size:        req.Size,
		Type:        req.Type,
		Status:      req.Status,
		Features:    req.Features,
	})
	if err != nil {
		return fail(c, h.log, err, "create property")
	}
	return c.JSON(http.StatusCreated, toPropertyResponse(p))
}

func (h *PropertyHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.log, err, "fetch property")
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

func (h *PropertyHandler) List(c echo.Context) error {
	props, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err, "fetch properties")
	}
	return c.JSON(http.StatusOK, toPropertyResponses(props))
}

func (h *PropertyHandler) Search(c echo.Context) error {
	props, err := h.svc.Search(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		return fail(c, h.log, err, "search properties")
	}
	return c.JSON(http.StatusOK, toPropertyResponses(props))
}

func (h *PropertyHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	var req UpdatePropertyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), id, service.PropertyPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Size:        req.Size,
		Type:        req.Type,
		Status:      req.Status,
		Features:    req.Features,
	})
	if err != nil {
		return fail(c, h.log, err, "update property")
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

func (h *PropertyHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, h.log, err, "delete property")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PropertyHandler) ListBySeller(c echo.Context) error {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	props, err := h.svc.ListByOwner(c.Request().Context(), sellerID)
	if err != nil {
		return fail(c, h.log, err, "fetch seller properties")
	}
	return c.JSON(http.StatusOK, toPropertyResponses(props))
}

func (h *PropertyHandler) PublishNew(c echo.Context) error {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	var req PublishPropertyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.Build(service.PropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Size:        req.Size,
		Type:        req.Type,
		Features:    req.Features,
	})
	if err != nil {
		return fail(c, h.log, err, "publish property")
	}
	if p, err = h.svc.Publish(c.Request().Context(), sellerID, p); err != nil {
		return fail(c, h.log, err, "publish property")
	}
	return c.JSON(http.StatusCreated, toPropertyResponse(p))
}

func (h *PropertyHandler) PublishExisting(c echo.Context) error {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	propertyID, ok := pathID(c, "propertyId")
	if !ok {
		return badRequest(c, "invalid property id")
	}
	p, err := h.svc.PublishExisting(c.Request().Context(), sellerID, propertyID)
	if err != nil {
		return fail(c, h.log, err, "publish property")
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

func toPropertyResponse(p *model.Property) PropertyResponse {
	features := map[string]any(p.Features)
	if features == nil {
		features = map[string]any{}
	}
	return PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		OwnerID:     p.OwnerID,
		Description: p.Description,
		Location:    p.Location,
		Price:       p.Price,
		Size:        p.Size,
		Type:        string(p.Type),
		Status:      string(p.Status),
		Features:    features,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPropertyResponses(props []model.Property) []PropertyResponse {
	resp := make([]PropertyResponse, 0, len(props))
	for i := range props {
		resp = append(resp, toPropertyResponse(&props[i]))
	}
	return resp
}
