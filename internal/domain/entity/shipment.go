// Package entity contains the core bussiness entities of the domain layer.
package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

// MaxWeight is the heaviest single shipment accepted, in kilograms.
// It is the payload of a 40ft container with headroom.
const MaxWeight = 50000.0

// Shipment errors define domain-specific error conditions for shipments.
var (
	ErrInvalidSender           = errors.New("sender name cannot be empty")
	ErrInvalidReceiver         = errors.New("receiver name cannot be empty")
	ErrInvalidOrigin           = errors.New("origin cannot be empty")
	ErrInvalidDestination      = errors.New("destination cannot be empty")
	ErrInvalidWeight           = errors.New("weight must be positive")
	ErrWeightTooLarge          = errors.New("weight exceeds the maximum shipment weight")
	ErrInvalidStatus           = errors.New("invalid shipment status")
	ErrInvalidStatusTransition = errors.New("shipment status transition not allowed")
	ErrTrackingNumberAssigned  = errors.New("tracking number already assigned")
	ErrTrackingNumberNotValid  = errors.New("tracking number failed validation")
	ErrShipmentNotEditable     = errors.New("shipment can no longer be edited")
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	ShipmentStatusPending        ShipmentStatus = "pending"          // Booked, not yet collected
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"       // Moving between facilities
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery" // On the final leg
	ShipmentStatusDelivered      ShipmentStatus = "delivered"        // Handed to the receiver
	ShipmentStatusOnHold         ShipmentStatus = "on_hold"          // Held at customs or a depot
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"        // Will not be delivered
)

// statusTransitions lists the statuses reachable from each status.
var statusTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentStatusPending:        {ShipmentStatusInTransit, ShipmentStatusOnHold, ShipmentStatusCancelled},
	ShipmentStatusInTransit:      {ShipmentStatusOutForDelivery, ShipmentStatusOnHold, ShipmentStatusCancelled},
	ShipmentStatusOutForDelivery: {ShipmentStatusDelivered, ShipmentStatusOnHold, ShipmentStatusCancelled},
	ShipmentStatusOnHold:         {ShipmentStatusInTransit, ShipmentStatusCancelled},
	ShipmentStatusDelivered:      {},
	ShipmentStatusCancelled:      {},
}

// ParseShipmentStatus validates a raw status value.
//
// Returns:
//   - ShipmentStatus: the parsed status
//   - error: ErrInvalidStatus if unknown
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	status := ShipmentStatus(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusTransitions[status]; !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsFinal reports whether no further transition is possible.
func (s ShipmentStatus) IsFinal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Measurements are the physical-to-billing values derived from weight and dimensions.
type Measurements struct {
	// Dimensions is the canonical "L x W x H" text in centimeters.
	Dimensions string `json:"dimensions"`

	// CBM is the volume in cubic meters.
	CBM float64 `json:"cbm"`

	// Weight is the billing weight breakdown.
	Weight valueobject.ChargeableWeight `json:"weight"`
}

type Shipment struct {
	// ID is the unique identifier for the shipment
	ID uuid.UUID `json:"id"`

	// TrackingNumber is the public identifier; immutable once assigned
	TrackingNumber valueobject.TrackingNumber `json:"tracking_number"`

	// SenderName is the consignor
	SenderName string `json:"sender_name"`

	// ReceiverName is the consignee
	ReceiverName string `json:"receiver_name"`

	// Origin is where the shipment is collected
	Origin string `json:"origin"`

	// Destination is where the shipment is delivered
	Destination string `json:"destination"`

	// FreightMode selects the transport and volumetric divisor
	FreightMode valueobject.FreightMode `json:"freight_mode"`

	// Weight is the declared actual weight in kilograms
	Weight float64 `json:"weight"`

	// Measurements holds CBM and chargeable weight
	Measurements Measurements `json:"measurements"`

	// DeclaredValue is the customs/insurance value of the goods
	DeclaredValue valueobject.Money `json:"declared_value"`

	// Status is the current lifecycle state
	Status ShipmentStatus `json:"status"`

	// Notes is free text for operators
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the timestamp when the shipment was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the shipment was last updated
	UpdatedAt time.Time `json:"updated_at"`

	// Version is used for optimistic locking
	Version int `json:"version"`
}

// NewShipment creates a new Shipment entity in pending state.
// The tracking number is assigned separately, once it has been checked
// for uniqueness.
//
// Parameters:
//   - sender: Name of the consignor (required)
//   - receiver: Name of the consignee (required)
//   - origin: Pickup location (required)
//   - destination: Delivery location (required)
//   - mode: Freight mode
//   - weight: Actual weight in kg (must be positive)
//
// Returns:
//   - *Shipment: newly created Shipment
//   - error: Validation error if input is invalid
func NewShipment(
	sender, receiver, origin, destination string,
	mode valueobject.FreightMode,
	weight float64,
) (*Shipment, error) {
	sender, receiver = strings.TrimSpace(sender), strings.TrimSpace(receiver)
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)

	switch {
	case sender == "":
		return nil, ErrInvalidSender
	case receiver == "":
		return nil, ErrInvalidReceiver
	case origin == "":
		return nil, ErrInvalidOrigin
	case destination == "":
		return nil, ErrInvalidDestination
	case !(weight > 0):
		return nil, ErrInvalidWeight
	case weight > MaxWeight:
		return nil, ErrWeightTooLarge
	case !mode.IsValid():
		return nil, valueobject.ErrInvalidFreightMode
	}

	now := time.Now().UTC()

	return &Shipment{
		ID:            uuid.New(),
		SenderName:    sender,
		ReceiverName:  receiver,
		Origin:        origin,
		Destination:   destination,
		FreightMode:   mode,
		Weight:        weight,
		Measurements:  Measurements{Weight: valueobject.ChargeableWeight{Actual: weight, Chargeable: weight}},
		DeclaredValue: valueobject.Zero(valueobject.CurrencyUSD),
		Status:        ShipmentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}, nil
}

// ValidateWeight checks that weight is a positive number of kilograms no
// larger than MaxWeight.
func ValidateWeight(weight float64) error {
	switch {
	case !(weight > 0):
		return ErrInvalidWeight
	case weight > MaxWeight:
		return ErrWeightTooLarge
	}
	return nil
}

// AssignTrackingNumber sets the tracking number exactly once.
//
// Parameters:
//   - tn: a validated tracking number
//
// Returns:
//   - error: ErrTrackingNumberAssigned if one is already set,
//     ErrTrackingNumberNotValid if tn fails validation
func (s *Shipment) AssignTrackingNumber(tn valueobject.TrackingNumber) error {
	if !s.TrackingNumber.IsZero() {
		return ErrTrackingNumberAssigned
	}
	if !valueobject.ValidateTrackingNumber(tn.String()) {
		return ErrTrackingNumberNotValid
	}
	s.TrackingNumber = tn
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetMeasurements records the derived CBM and chargeable weight.
//
// Parameters:
//   - m: measurements computed for the current weight, dimensions and mode
func (s *Shipment) SetMeasurements(m Measurements) {
	s.Measurements = m
	s.UpdatedAt = time.Now().UTC()
}

// SetWeight updates the shipment's actual weight.
//
// Parameters:
//   - weight: new weight in kilograms (must be positive)
//
// Returns:
//   - error: ErrInvalidWeight if weight is not positive,
//     ErrWeightTooLarge if it is above MaxWeight
func (s *Shipment) SetWeight(weight float64) error {
	if err := ValidateWeight(weight); err != nil {
		return err
	}
	s.Weight = weight
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetFreightMode updates the transport mode.
func (s *Shipment) SetFreightMode(mode valueobject.FreightMode) error {
	if !mode.IsValid() {
		return valueobject.ErrInvalidFreightMode
	}
	s.FreightMode = mode
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetDeclaredValue updates the declared value of the goods.
func (s *Shipment) SetDeclaredValue(value valueobject.Money) {
	s.DeclaredValue = value
	s.UpdatedAt = time.Now().UTC()
}

// UpdateDetails updates the shipment's descriptive information.
// Empty arguments keep the current value.
//
// Returns:
//   - error: ErrShipmentNotEditable once the shipment reached a final status
func (s *Shipment) UpdateDetails(sender, receiver, origin, destination, notes string) error {
	if s.Status.IsFinal() {
		return ErrShipmentNotEditable
	}
	if v := strings.TrimSpace(sender); v != "" {
		s.SenderName = v
	}
	if v := strings.TrimSpace(receiver); v != "" {
		s.ReceiverName = v
	}
	if v := strings.TrimSpace(origin); v != "" {
		s.Origin = v
	}
	if v := strings.TrimSpace(destination); v != "" {
		s.Destination = v
	}
	if notes != "" {
		s.Notes = notes
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// TransitionTo moves the shipment to the next status.
//
// Parameters:
//   - next: the target status
//
// Returns:
//   - error: ErrInvalidStatusTransition if next is not reachable
func (s *Shipment) TransitionTo(next ShipmentStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	s.Status = next
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// IsDelivered reports whether the shipment reached the receiver.
func (s *Shipment) IsDelivered() bool {
	return s.Status == ShipmentStatusDelivered
}
