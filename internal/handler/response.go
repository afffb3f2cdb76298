package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikh123/RealEstateHub/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", message))
}

// fail maps a service error onto its HTTP status. Unexpected errors are logged and hidden.
func fail(c echo.Context, log *slog.Logger, err error, action string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return badRequest(c, ve.Error())
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "property belongs to another seller"))
	case errors.Is(err, service.ErrHasDependents):
		return c.JSON(http.StatusConflict, NewErrorResponse("conflict", "record still has dependent records"))
	}
	log.ErrorContext(c.Request().Context(), action, "err", err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to "+action))
}

func pathID(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

var errInvalidJSON = errors.New("invalid json")

// bind decodes the JSON body into req and runs struct validation.
// The returned error is safe to show to the client.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidJSON
	}
	return c.Validate(req)
}
