package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/application/dto"
	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/repository"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

const (
	// DefaultInsertRetries bounds how often a create is retried after a
	// unique-constraint violation on the tracking number.
	DefaultInsertRetries = 3

	defaultPageSize = 20
	maxPageSize     = 100
)

// validationErrors are caller mistakes; the HTTP layer maps them to 422.
var validationErrors = []error{
	valueobject.ErrInvalidDimensions,
	valueobject.ErrDimensionTooLarge,
	valueobject.ErrInvalidFreightMode,
	valueobject.ErrInvalidCurrency,
	valueobject.ErrNegativeAmount,
	valueobject.ErrAmountOutOfRange,
	valueobject.ErrInvalidTrackingNumber,
	entity.ErrInvalidSender,
	entity.ErrInvalidReceiver,
	entity.ErrInvalidOrigin,
	entity.ErrInvalidDestination,
	entity.ErrInvalidWeight,
	entity.ErrWeightTooLarge,
	entity.ErrInvalidStatus,
	dto.ErrMissingField,
}

// IsValidationError reports whether err was caused by invalid input.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// TrackingNumberIssuer hands out unique tracking numbers.
type TrackingNumberIssuer interface {
	Generate(ctx context.Context) (valueobject.TrackingNumber, error)
	Release(ctx context.Context, tn valueobject.TrackingNumber)
}

// Quote is the measurement and price of a prospective shipment.
type Quote struct {
	FreightMode  valueobject.FreightMode
	Divisor      float64
	Measurements entity.Measurements
	Price        valueobject.Money
}

// ShipmentService implements the shipment use cases.
type ShipmentService struct {
	repo          repository.ShipmentRepository
	issuer        TrackingNumberIssuer
	freight       FreightSettings
	insertRetries int
	logger        port.Logger
}

// NewShipmentService creates a ShipmentService.
//
// Parameters:
//   - repo: shipment persistence
//   - issuer: tracking number source
//   - freight: measurement and pricing settings
//   - insertRetries: create attempts on tracking number conflicts (<= 0 uses DefaultInsertRetries)
//   - logger: structured logger
//
// Returns:
//   - *ShipmentService: the service
func NewShipmentService(
	repo repository.ShipmentRepository,
	issuer TrackingNumberIssuer,
	freight FreightSettings,
	insertRetries int,
	logger port.Logger,
) *ShipmentService {
	if insertRetries <= 0 {
		insertRetries = DefaultInsertRetries
	}
	if logger == nil {
		logger = port.NopLogger{}
	}
	return &ShipmentService{
		repo:          repo,
		issuer:        issuer,
		freight:       freight,
		insertRetries: insertRetries,
		logger:        logger,
	}
}

// Create books a new shipment.
// Dimensions are validated strictly; the tracking number is generated and
// checked for uniqueness before insert. An insert that still hits the
// unique constraint is retried with a fresh tracking number.
//
// Returns:
//   - *entity.Shipment: the persisted shipment
//   - error: a validation error, ErrTrackingNumberExhausted, or a storage error
func (s *ShipmentService) Create(ctx context.Context, req dto.CreateShipmentRequest) (*entity.Shipment, error) {
	mode, err := valueobject.ParseFreightMode(req.FreightMode)
	if err != nil {
		return nil, err
	}

	shipment, err := entity.NewShipment(req.SenderName, req.ReceiverName, req.Origin, req.Destination, mode, req.Weight)
	if err != nil {
		return nil, err
	}

	measurements, err := s.measure(req.Weight, req.Dimensions, mode)
	if err != nil {
		return nil, err
	}
	shipment.SetMeasurements(measurements)

	value, err := declaredValue(req.DeclaredValue, req.Currency)
	if err != nil {
		return nil, err
	}
	shipment.SetDeclaredValue(value)
	shipment.Notes = strings.TrimSpace(req.Notes)

	log := s.logger.WithContext(ctx)

	for attempt := 1; attempt <= s.insertRetries; attempt++ {
		tn, err := s.issuer.Generate(ctx)
		if err != nil {
			return nil, err
		}

		candidate := *shipment
		if err := candidate.AssignTrackingNumber(tn); err != nil {
			s.issuer.Release(ctx, tn)
			return nil, err
		}

		err = s.repo.Create(ctx, &candidate)
		s.issuer.Release(ctx, tn)
		if err == nil {
			log.Info("Shipment created",
				"shipment_id", candidate.ID,
				"tracking_number", candidate.TrackingNumber,
				"cbm", candidate.Measurements.CBM,
				"chargeable_weight", candidate.Measurements.Weight.Chargeable,
			)
			return &candidate, nil
		}
		if !repository.IsDuplicateError(err) {
			return nil, fmt.Errorf("create shipment: %w", err)
		}

		log.Warn("Tracking number taken at insert, retrying",
			"tracking_number", tn,
			"attempt", attempt,
		)
	}

	return nil, fmt.Errorf("%w: insert conflicted %d times", ErrTrackingNumberExhausted, s.insertRetries)
}

// GetByID returns a shipment.
func (s *ShipmentService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shipment, error) {
	return s.repo.GetByID(ctx, id)
}

// Track looks a shipment up by its public tracking number.
//
// Returns:
//   - error: valueobject.ErrInvalidTrackingNumber for malformed input,
//     repository.ErrShipmentNotFound if unknown
func (s *ShipmentService) Track(ctx context.Context, trackingNumber string) (*entity.Shipment, error) {
	tn, err := valueobject.ParseTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByTrackingNumber(ctx, tn)
}

// List returns a page of shipments and the total matching count.
func (s *ShipmentService) List(ctx context.Context, q dto.ListShipmentsQuery) ([]*entity.Shipment, int64, repository.ShipmentFilter, error) {
	filter := repository.ShipmentFilter{
		Origin:      strings.TrimSpace(q.Origin),
		Destination: strings.TrimSpace(q.Destination),
		SearchTerm:  strings.TrimSpace(q.Search),
		Limit:       q.Limit,
		Offset:      max(q.Offset, 0),
		SortBy:      q.SortBy,
		SortOrder:   q.SortOrder,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	filter.Limit = min(filter.Limit, maxPageSize)

	if q.Status != "" {
		status, err := entity.ParseShipmentStatus(q.Status)
		if err != nil {
			return nil, 0, filter, err
		}
		filter.Status = &status
	}
	if q.FreightMode != "" {
		mode, err := valueobject.ParseFreightMode(q.FreightMode)
		if err != nil {
			return nil, 0, filter, err
		}
		filter.FreightMode = &mode
	}

	shipments, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, filter, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, filter, err
	}
	return shipments, total, filter, nil
}

// Update applies a partial update. Measurements are recomputed when weight,
// dimensions or freight mode change. The tracking number never changes.
func (s *ShipmentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateShipmentRequest) (*entity.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := shipment.UpdateDetails(
		deref(req.SenderName), deref(req.ReceiverName),
		deref(req.Origin), deref(req.Destination),
		deref(req.Notes),
	); err != nil {
		return nil, err
	}

	if req.FreightMode != nil {
		mode, err := valueobject.ParseFreightMode(*req.FreightMode)
		if err != nil {
			return nil, err
		}
		if err := shipment.SetFreightMode(mode); err != nil {
			return nil, err
		}
	}
	if req.Weight != nil {
		if err := shipment.SetWeight(*req.Weight); err != nil {
			return nil, err
		}
	}
	if req.ChangesMeasurements() {
		dims := shipment.Measurements.Dimensions
		if req.Dimensions != nil {
			dims = *req.Dimensions
		}
		measurements, err := s.measure(shipment.Weight, dims, shipment.FreightMode)
		if err != nil {
			return nil, err
		}
		shipment.SetMeasurements(measurements)
	}

	if req.DeclaredValue != nil || req.Currency != nil {
		amount := shipment.DeclaredValue.ToFloat()
		if req.DeclaredValue != nil {
			amount = *req.DeclaredValue
		}
		currency := string(shipment.DeclaredValue.Currency)
		if req.Currency != nil {
			currency = *req.Currency
		}
		value, err := declaredValue(amount, currency)
		if err != nil {
			return nil, err
		}
		shipment.SetDeclaredValue(value)
	}

	if err := s.repo.Update(ctx, shipment); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("Shipment updated",
		"shipment_id", shipment.ID,
		"tracking_number", shipment.TrackingNumber,
		"version", shipment.Version,
	)
	return shipment, nil
}

// UpdateStatus moves a shipment to a new lifecycle status.
func (s *ShipmentService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateStatusRequest) (*entity.Shipment, error) {
	status, err := entity.ParseShipmentStatus(req.Status)
	if err != nil {
		return nil, err
	}

	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := shipment.Status
	if err := shipment.TransitionTo(status); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", err, previous, status)
	}
	if req.Notes != "" {
		shipment.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, shipment); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("Shipment status changed",
		"shipment_id", shipment.ID,
		"tracking_number", shipment.TrackingNumber,
		"from", previous,
		"to", status,
	)
	return shipment, nil
}

// Delete removes a shipment.
func (s *ShipmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithContext(ctx).Info("Shipment deleted", "shipment_id", id)
	return nil
}

// Quote measures and prices a prospective shipment without persisting it.
func (s *ShipmentService) Quote(req dto.QuoteRequest) (*Quote, error) {
	if err := entity.ValidateWeight(req.Weight); err != nil {
		return nil, err
	}
	mode, err := valueobject.ParseFreightMode(req.FreightMode)
	if err != nil {
		return nil, err
	}

	measurements, err := s.measure(req.Weight, req.Dimensions, mode)
	if err != nil {
		return nil, err
	}

	price, err := s.freight.Price(mode, measurements.Weight.Chargeable)
	if err != nil {
		return nil, fmt.Errorf("pricing %s freight: %w", mode, err)
	}

	return &Quote{
		FreightMode:  mode,
		Divisor:      s.freight.Divisor(mode),
		Measurements: measurements,
		Price:        price,
	}, nil
}

// measure strictly parses dimensions (when given) and derives CBM and
// chargeable weight with the mode's divisor.
func (s *ShipmentService) measure(weight float64, rawDimensions string, mode valueobject.FreightMode) (entity.Measurements, error) {
	divisor := s.freight.Divisor(mode)

	if strings.TrimSpace(rawDimensions) == "" {
		return entity.Measurements{
			Weight: valueobject.CalculateChargeableWeight(weight, "", divisor),
		}, nil
	}

	dims, err := valueobject.ParseDimensions(rawDimensions, s.freight.MaxDimension)
	if err != nil {
		return entity.Measurements{}, err
	}

	canonical := dims.String()
	return entity.Measurements{
		Dimensions: canonical,
		CBM:        valueobject.CalculateCBM(canonical),
		Weight:     valueobject.CalculateChargeableWeight(weight, canonical, divisor),
	}, nil
}

func declaredValue(amount float64, currency string) (valueobject.Money, error) {
	c, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoneyFromFloat(amount, c)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
