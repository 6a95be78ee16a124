// Package handler contains the HTTP handlers of the shipment API.
// Handlers bind requests with render.Bind, delegate to the application
// services and answer with dto.APIResponse envelopes.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/hapkiduki/freight-go/internal/application/dto"
	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/application/service"
	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/repository"
	"github.com/hapkiduki/freight-go/pkg/logger"
)

func meta(r *http.Request) *dto.ResponseMeta {
	return &dto.ResponseMeta{
		RequestID: logger.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func respond[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	render.Status(r, status)
	render.JSON(w, r, dto.NewSuccessResponse(data).WithMeta(meta(r)))
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, dto.NewErrorResponse[any](code, message).WithMeta(meta(r)))
}

// respondBindError answers a failed render.Bind: missing fields are 422,
// a body that does not decode is 400.
func respondBindError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *dto.FieldError
	if errors.As(err, &fieldErr) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, dto.NewValidationErrorResponse[any](fieldErr.ValidationErrors()).WithMeta(meta(r)))
		return
	}
	respondError(w, r, http.StatusBadRequest, dto.CodeInvalidRequest, "Request body is not valid JSON")
}

// respondServiceError maps application errors to HTTP statuses.
// Unclassified errors are logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, log port.Logger, err error) {
	switch {
	case service.IsValidationError(err):
		respondError(w, r, http.StatusUnprocessableEntity, dto.CodeValidation, err.Error())
	case repository.IsNotFoundError(err):
		respondError(w, r, http.StatusNotFound, dto.CodeNotFound, err.Error())
	case repository.IsConflictError(err),
		repository.IsDuplicateError(err),
		errors.Is(err, entity.ErrInvalidStatusTransition),
		errors.Is(err, entity.ErrShipmentNotEditable):
		respondError(w, r, http.StatusConflict, dto.CodeConflict, err.Error())
	case errors.Is(err, service.ErrTrackingNumberExhausted):
		log.WithContext(r.Context()).Error("Tracking number allocation failed", "error", err)
		respondError(w, r, http.StatusServiceUnavailable, dto.CodeTrackingExhausted, "Unable to allocate a tracking number, please retry")
	case errors.Is(err, repository.ErrConnectionFailed):
		log.WithContext(r.Context()).Error("Shipment store unavailable", "error", err)
		respondError(w, r, http.StatusServiceUnavailable, dto.CodeServiceUnavailable, "Shipment store unavailable")
	default:
		log.WithContext(r.Context()).Error("Request failed", "error", err, "path", r.URL.Path)
		respondError(w, r, http.StatusInternalServerError, dto.CodeInternal, "An unexpected error occurred")
	}
}
