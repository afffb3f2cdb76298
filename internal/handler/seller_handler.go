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

type SellerHandler struct {
	svc service.SellerService
	log *slog.Logger
}

func NewSellerHandler(svc service.SellerService, log *slog.Logger) *SellerHandler {
	return &SellerHandler{svc: svc, log: log}
}

type SellerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type CreateSellerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type UpdateSellerRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
}

func (h *SellerHandler) Create(c echo.Context) error {
	var req CreateSellerRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	s, err := h.svc.Create(c.Request().Context(), service.SellerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		return fail(c, h.log, err, "create seller")
	}
	return c.JSON(http.StatusCreated, toSellerResponse(s))
}

func (h *SellerHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	s, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.log, err, "fetch seller")
	}
	return c.JSON(http.StatusOK, toSellerResponse(s))
}

func (h *SellerHandler) List(c echo.Context) error {
	sellers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err, "fetch sellers")
	}
	resp := make([]SellerResponse, 0, len(sellers))
	for i := range sellers {
		resp = append(resp, toSellerResponse(&sellers[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SellerHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	var req UpdateSellerRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	s, err := h.svc.Update(c.Request().Context(), id, service.SellerPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		return fail(c, h.log, err, "update seller")
	}
	return c.JSON(http.StatusOK, toSellerResponse(s))
}

func (h *SellerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid seller id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, h.log, err, "delete seller")
	}
	return c.NoContent(http.StatusNoContent)
}

func toSellerResponse(s *model.Seller) SellerResponse {
	return SellerResponse{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Username:  s.Username,
		Role:      "Seller",
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}
