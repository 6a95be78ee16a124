package dto

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

// ErrMissingField is returned by Bind when a required field is absent.
var ErrMissingField = errors.New("required field missing")

// CreateShipmentRequest is the payload for booking a shipment.
type CreateShipmentRequest struct {
	// SenderName is the consignor.
	SenderName string `json:"sender_name"`

	// ReceiverName is the consignee.
	ReceiverName string `json:"receiver_name"`

	// Origin is the pickup location.
	Origin string `json:"origin"`

	// Destination is the delivery location.
	Destination string `json:"destination"`

	// FreightMode is air, sea, road or express (default air).
	FreightMode string `json:"freight_mode"`

	// Weight is the actual weight in kg.
	Weight float64 `json:"weight"`

	// Dimensions is free-form "L x W x H" in centimeters (optional).
	Dimensions string `json:"dimensions"`

	// DeclaredValue is the value of the goods in major units (optional).
	DeclaredValue float64 `json:"declared_value"`

	// Currency is the ISO 4217 code of DeclaredValue (default USD).
	Currency string `json:"currency"`

	// Notes is free text for operators.
	Notes string `json:"notes"`
}

// Bind implements render.Binder.
func (req *CreateShipmentRequest) Bind(*http.Request) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"sender_name", req.SenderName},
		{"receiver_name", req.ReceiverName},
		{"origin", req.Origin},
		{"destination", req.Destination},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &FieldError{Fields: missing, Err: ErrMissingField}
	}
	return nil
}

// UpdateShipmentRequest is a partial update; nil fields are left unchanged.
// The tracking number cannot be changed.
type UpdateShipmentRequest struct {
	SenderName    *string  `json:"sender_name,omitempty"`
	ReceiverName  *string  `json:"receiver_name,omitempty"`
	Origin        *string  `json:"origin,omitempty"`
	Destination   *string  `json:"destination,omitempty"`
	FreightMode   *string  `json:"freight_mode,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Dimensions    *string  `json:"dimensions,omitempty"`
	DeclaredValue *float64 `json:"declared_value,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Bind implements render.Binder.
func (req *UpdateShipmentRequest) Bind(*http.Request) error {
	return nil
}

// ChangesMeasurements reports whether the update affects CBM or chargeable weight.
func (req *UpdateShipmentRequest) ChangesMeasurements() bool {
	return req.Weight != nil || req.Dimensions != nil || req.FreightMode != nil
}

// UpdateStatusRequest moves a shipment through its lifecycle.
type UpdateStatusRequest struct {
	// Status is the target status.
	Status string `json:"status"`

	// Notes optionally replaces the operator notes.
	Notes string `json:"notes"`
}

// Bind implements render.Binder.
func (req *UpdateStatusRequest) Bind(*http.Request) error {
	if strings.TrimSpace(req.Status) == "" {
		return &FieldError{Fields: []string{"status"}, Err: ErrMissingField}
	}
	return nil
}

// QuoteRequest asks for measurements and price without booking.
type QuoteRequest struct {
	Weight      float64 `json:"weight"`
	Dimensions  string  `json:"dimensions"`
	FreightMode string  `json:"freight_mode"`
}

// Bind implements render.Binder.
func (req *QuoteRequest) Bind(*http.Request) error {
	if strings.TrimSpace(req.Dimensions) == "" {
		return &FieldError{Fields: []string{"dimensions"}, Err: ErrMissingField}
	}
	return nil
}

// ListShipmentsQuery holds list filters taken from the query string.
type ListShipmentsQuery struct {
	Status      string
	FreightMode string
	Origin      string
	Destination string
	Search      string
	Limit       int
	Offset      int
	SortBy      string
	SortOrder   string
}

// FieldError reports which request fields failed binding.
type FieldError struct {
	Fields []string
	Err    error
}

// Error implements error.
func (e *FieldError) Error() string {
	return e.Err.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors converts the field error into API validation errors.
func (e *FieldError) ValidationErrors() []ValidationError {
	out := make([]ValidationError, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, ValidationError{Field: f, Message: e.Err.Error()})
	}
	return out
}

// MeasurementsResponse is the wire form of entity.Measurements.
type MeasurementsResponse struct {
	Dimensions        string  `json:"dimensions"`
	CBM               float64 `json:"cbm"`
	ActualWeight      float64 `json:"actual_weight"`
	DimensionalWeight float64 `json:"dimensional_weight"`
	ChargeableWeight  float64 `json:"chargeable_weight"`
	IsDimensional     bool    `json:"is_dimensional"`
}

// ShipmentResponse is the wire form of a shipment.
type ShipmentResponse struct {
	ID             string               `json:"id"`
	TrackingNumber string               `json:"tracking_number"`
	SenderName     string               `json:"sender_name"`
	ReceiverName   string               `json:"receiver_name"`
	Origin         string               `json:"origin"`
	Destination    string               `json:"destination"`
	FreightMode    string               `json:"freight_mode"`
	Status         string               `json:"status"`
	Measurements   MeasurementsResponse `json:"measurements"`
	DeclaredValue  valueobject.Money    `json:"declared_value"`
	Notes          string               `json:"notes,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Version        int                  `json:"version"`
}

// NewShipmentResponse maps a shipment entity to its wire form.
func NewShipmentResponse(s *entity.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             s.ID.String(),
		TrackingNumber: s.TrackingNumber.String(),
		SenderName:     s.SenderName,
		ReceiverName:   s.ReceiverName,
		Origin:         s.Origin,
		Destination:    s.Destination,
		FreightMode:    string(s.FreightMode),
		Status:         string(s.Status),
		Measurements:   newMeasurementsResponse(s.Measurements),
		DeclaredValue:  s.DeclaredValue,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}

// TrackingResponse is the public view of a shipment; it omits parties and value.
type TrackingResponse struct {
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	FreightMode    string    `json:"freight_mode"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTrackingResponse maps a shipment entity to its public tracking view.
func NewTrackingResponse(s *entity.Shipment) TrackingResponse {
	return TrackingResponse{
		TrackingNumber: s.TrackingNumber.String(),
		Status:         string(s.Status),
		Origin:         s.Origin,
		Destination:    s.Destination,
		FreightMode:    string(s.FreightMode),
		UpdatedAt:      s.UpdatedAt,
	}
}

// QuoteResponse is the result of a measurement quote.
type QuoteResponse struct {
	FreightMode  string               `json:"freight_mode"`
	Divisor      float64              `json:"divisor"`
	Measurements MeasurementsResponse `json:"measurements"`
	Price        valueobject.Money    `json:"price"`
}

// TrackingValidationResponse reports whether a tracking number is well formed.
type TrackingValidationResponse struct {
	TrackingNumber string `json:"tracking_number"`
	Valid          bool   `json:"valid"`
}

func newMeasurementsResponse(m entity.Measurements) MeasurementsResponse {
	return MeasurementsResponse{
		Dimensions:        m.Dimensions,
		CBM:               m.CBM,
		ActualWeight:      m.Weight.Actual,
		DimensionalWeight: m.Weight.Dimensional,
		ChargeableWeight:  m.Weight.Chargeable,
		IsDimensional:     m.Weight.IsDimensional,
	}
}

// NewQuoteResponse builds a QuoteResponse.
func NewQuoteResponse(mode valueobject.FreightMode, divisor float64, m entity.Measurements, price valueobject.Money) QuoteResponse {
	return QuoteResponse{
		FreightMode:  string(mode),
		Divisor:      divisor,
		Measurements: newMeasurementsResponse(m),
		Price:        price,
	}
}
