package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/application/dto"
	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/application/service"
	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/repository"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/hapkiduki/freight-go/pkg/logger"
)

// ShipmentService is the application API the handlers drive.
type ShipmentService interface {
	Create(ctx context.Context, req dto.CreateShipmentRequest) (*entity.Shipment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shipment, error)
	Track(ctx context.Context, trackingNumber string) (*entity.Shipment, error)
	List(ctx context.Context, q dto.ListShipmentsQuery) ([]*entity.Shipment, int64, repository.ShipmentFilter, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateShipmentRequest) (*entity.Shipment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateStatusRequest) (*entity.Shipment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Quote(req dto.QuoteRequest) (*service.Quote, error)
}

// ShipmentHandler serves the shipment, tracking and measurement endpoints.
type ShipmentHandler struct {
	svc ShipmentService
	log port.Logger
}

// NewShipmentHandler creates a ShipmentHandler.
func NewShipmentHandler(svc ShipmentService, log port.Logger) *ShipmentHandler {
	if log == nil {
		log = port.NopLogger{}
	}
	return &ShipmentHandler{svc: svc, log: log}
}

// Routes mounts the handlers on r.
func (h *ShipmentHandler) Routes(r chi.Router) {
	r.Route("/shipments", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/status", h.UpdateStatus)
		})
	})
	r.Get("/track/{trackingNumber}", h.Track)
	r.Post("/measurements/quote", h.Quote)
	r.Get("/tracking-numbers/{value}/validate", h.ValidateTrackingNumber)
}

// Create handles POST /shipments.
func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShipmentRequest
	if err := render.Bind(r, &req); err != nil {
		respondBindError(w, r, err)
		return
	}

	s, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	w.Header().Set("Location", "/api/v1/shipments/"+s.ID.String())
	respond(w, r, http.StatusCreated, dto.NewShipmentResponse(s))
}

// Get handles GET /shipments/{id}.
func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.shipmentID(w, r)
	if !ok {
		return
	}

	s, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewShipmentResponse(s))
}

// List handles GET /shipments.
func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.ListShipmentsQuery{
		Status:      q.Get("status"),
		FreightMode: q.Get("freight_mode"),
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		Search:      q.Get("search"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
	}

	var err error
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		respondError(w, r, http.StatusBadRequest, dto.CodeInvalidRequest, "limit must be an integer")
		return
	}
	if query.Offset, err = intParam(q.Get("offset")); err != nil {
		respondError(w, r, http.StatusBadRequest, dto.CodeInvalidRequest, "offset must be an integer")
		return
	}

	shipments, total, filter, err := h.svc.List(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	items := make([]dto.ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		items = append(items, dto.NewShipmentResponse(s))
	}
	respond(w, r, http.StatusOK, dto.NewPaginateResponse(items, total, filter.Limit, filter.Offset))
}

// Update handles PATCH /shipments/{id}.
func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.shipmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateShipmentRequest
	if err := render.Bind(r, &req); err != nil {
		respondBindError(w, r, err)
		return
	}

	s, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewShipmentResponse(s))
}

// UpdateStatus handles PATCH /shipments/{id}/status.
func (h *ShipmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.shipmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := render.Bind(r, &req); err != nil {
		respondBindError(w, r, err)
		return
	}

	s, err := h.svc.UpdateStatus(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewShipmentResponse(s))
}

// Delete handles DELETE /shipments/{id}.
func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.shipmentID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Track handles GET /track/{trackingNumber}. It is the public lookup and
// exposes only the tracking view of a shipment.
func (h *ShipmentHandler) Track(w http.ResponseWriter, r *http.Request) {
	tn := chi.URLParam(r, "trackingNumber")
	ctx := logger.WithTrackingNumber(r.Context(), tn)

	s, err := h.svc.Track(ctx, tn)
	if err != nil {
		respondServiceError(w, r.WithContext(ctx), h.log, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewTrackingResponse(s))
}

// Quote handles POST /measurements/quote.
func (h *ShipmentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := render.Bind(r, &req); err != nil {
		respondBindError(w, r, err)
		return
	}

	q, err := h.svc.Quote(req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewQuoteResponse(q.FreightMode, q.Divisor, q.Measurements, q.Price))
}

// ValidateTrackingNumber handles GET /tracking-numbers/{value}/validate.
// A malformed value is a normal answer, not an error.
func (h *ShipmentHandler) ValidateTrackingNumber(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "value")
	respond(w, r, http.StatusOK, dto.TrackingValidationResponse{
		TrackingNumber: value,
		Valid:          valueobject.ValidateTrackingNumber(value),
	})
}

func (h *ShipmentHandler) shipmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, dto.CodeInvalidRequest, "Shipment id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
