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

type BuyerHandler struct {
	svc service.BuyerService
	log *slog.Logger
}

func NewBuyerHandler(svc service.BuyerService, log *slog.Logger) *BuyerHandler {
	return &BuyerHandler{svc: svc, log: log}
}

type BuyerResponse struct {
	ID                      uuid.UUID `json:"id"`
	FirstName               string    `json:"firstName"`
	LastName                string    `json:"lastName"`
	Email                   string    `json:"email"`
	Username                string    `json:"username"`
	Budget                  float64   `json:"budget"`
	PropertyTypesOfInterest []string  `json:"propertyTypesOfInterest"`
	Role                    string    `json:"role"`
	CreatedAt               string    `json:"createdAt"`
	UpdatedAt               string    `json:"updatedAt"`
}

type CreateBuyerRequest struct {
	FirstName               string   `json:"firstName"`
	LastName                string   `json:"lastName"`
	Email                   string   `json:"email" validate:"required,email"`
	Username                string   `json:"username"`
	Password                string   `json:"password"`
	Budget                  float64  `json:"budget" validate:"gt=0"`
	PropertyTypesOfInterest []string `json:"propertyTypesOfInterest"`
}

type UpdateBudgetRequest struct {
	Budget float64 `json:"budget" validate:"gt=0"`
}

type AddInterestRequest struct {
	Type string `json:"type" validate:"required"`
}

func (h *BuyerHandler) Create(c echo.Context) error {
	var req CreateBuyerRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	b, err := h.svc.Create(c.Request().Context(), service.BuyerInput{
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Email:                   req.Email,
		Username:                req.Username,
		Password:                req.Password,
		Budget:                  req.Budget,
		PropertyTypesOfInterest: req.PropertyTypesOfInterest,
	})
	if err != nil {
		return fail(c, h.log, err, "create buyer")
	}
	return c.JSON(http.StatusCreated, toBuyerResponse(b))
}

func (h *BuyerHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid buyer id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.log, err, "fetch buyer")
	}
	return c.JSON(http.StatusOK, toBuyerResponse(b))
}

func (h *BuyerHandler) List(c echo.Context) error {
	buyers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err, "fetch buyers")
	}
	resp := make([]BuyerResponse, 0, len(buyers))
	for i := range buyers {
		resp = append(resp, toBuyerResponse(&buyers[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BuyerHandler) UpdateBudget(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid buyer id")
	}
	var req UpdateBudgetRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	b, err := h.svc.UpdateBudget(c.Request().Context(), id, req.Budget)
	if err != nil {
		return fail(c, h.log, err, "update budget")
	}
	return c.JSON(http.StatusOK, toBuyerResponse(b))
}

func (h *BuyerHandler) AddInterest(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid buyer id")
	}
	var req AddInterestRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	b, err := h.svc.AddInterest(c.Request().Context(), id, req.Type)
	if err != nil {
		return fail(c, h.log, err, "add interest")
	}
	return c.JSON(http.StatusOK, toBuyerResponse(b))
}

func (h *BuyerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid buyer id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, h.log, err, "delete buyer")
	}
	return c.NoContent(http.StatusNoContent)
}

func toBuyerResponse(b *model.Buyer) BuyerResponse {
	interests := b.PropertyTypesOfInterest
	if interests == nil {
		interests = []string{}
	}
	return BuyerResponse{
		ID:                      b.ID,
		FirstName:               b.FirstName,
		LastName:                b.LastName,
		Email:                   b.Email,
		Username:                b.Username,
		Budget:                  b.Budget,
		PropertyTypesOfInterest: interests,
		Role:                    "Buyer",
		CreatedAt:               b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               b.UpdatedAt.Format(time.RFC3339),
	}
}
