package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShipment(t *testing.T) *Shipment {
	t.Helper()
	s, err := NewShipment("Acme Ltd", "Jane Roe", "Dubai", "Bogota", valueobject.FreightModeAir, 12.5)
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	s := newTestShipment(t)

	assert.Equal(t, ShipmentStatusPending, s.Status)
	assert.Equal(t, 1, s.Version)
	assert.True(t, s.TrackingNumber.IsZero())
	assert.Equal(t, 12.5, s.Measurements.Weight.Chargeable)
	assert.NotEqual(t, uuid.Nil, s.ID)
}

func TestNewShipment_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sender  string
		recv    string
		origin  string
		dest    string
		mode    valueobject.FreightMode
		weight  float64
		wantErr error
	}{
		{"missing sender", " ", "b", "c", "d", valueobject.FreightModeAir, 1, ErrInvalidSender},
		{"missing receiver", "a", "", "c", "d", valueobject.FreightModeAir, 1, ErrInvalidReceiver},
		{"missing origin", "a", "b", "", "d", valueobject.FreightModeAir, 1, ErrInvalidOrigin},
		{"missing destination", "a", "b", "c", "", valueobject.FreightModeAir, 1, ErrInvalidDestination},
		{"zero weight", "a", "b", "c", "d", valueobject.FreightModeAir, 0, ErrInvalidWeight},
		{"weight above maximum", "a", "b", "c", "d", valueobject.FreightModeAir, MaxWeight + 1, ErrWeightTooLarge},
		{"absurd weight", "a", "b", "c", "d", valueobject.FreightModeAir, 1e30, ErrWeightTooLarge},
		{"bad mode", "a", "b", "c", "d", valueobject.FreightMode("rail"), 1, valueobject.ErrInvalidFreightMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShipment(tt.sender, tt.recv, tt.origin, tt.dest, tt.mode, tt.weight)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestShipment_AssignTrackingNumber(t *testing.T) {
	s := newTestShipment(t)

	assert.ErrorIs(t, s.AssignTrackingNumber("WW123456783"), ErrTrackingNumberNotValid)
	require.NoError(t, s.AssignTrackingNumber("WW123456782"))
	assert.Equal(t, valueobject.TrackingNumber("WW123456782"), s.TrackingNumber)

	// Tracking numbers are immutable once assigned.
	assert.ErrorIs(t, s.AssignTrackingNumber("WW000000000"), ErrTrackingNumberAssigned)
	assert.Equal(t, valueobject.TrackingNumber("WW123456782"), s.TrackingNumber)
}

func TestShipment_TransitionTo(t *testing.T) {
	s := newTestShipment(t)

	require.NoError(t, s.TransitionTo(ShipmentStatusInTransit))
	require.NoError(t, s.TransitionTo(ShipmentStatusOnHold))
	require.NoError(t, s.TransitionTo(ShipmentStatusInTransit))
	require.NoError(t, s.TransitionTo(ShipmentStatusOutForDelivery))
	assert.ErrorIs(t, s.TransitionTo(ShipmentStatusPending), ErrInvalidStatusTransition)
	require.NoError(t, s.TransitionTo(ShipmentStatusDelivered))

	assert.True(t, s.IsDelivered())
	assert.True(t, s.Status.IsFinal())
	assert.ErrorIs(t, s.TransitionTo(ShipmentStatusCancelled), ErrInvalidStatusTransition)
	assert.ErrorIs(t, s.UpdateDetails("x", "", "", "", ""), ErrShipmentNotEditable)
}

func TestShipment_Setters(t *testing.T) {
	s := newTestShipment(t)

	assert.ErrorIs(t, s.SetWeight(-1), ErrInvalidWeight)
	assert.ErrorIs(t, s.SetWeight(1e20), ErrWeightTooLarge)
	require.NoError(t, s.SetWeight(MaxWeight))
	require.NoError(t, s.SetWeight(3))
	assert.Equal(t, 3.0, s.Weight)

	assert.ErrorIs(t, s.SetFreightMode("rail"), valueobject.ErrInvalidFreightMode)
	require.NoError(t, s.SetFreightMode(valueobject.FreightModeSea))

	require.NoError(t, s.UpdateDetails("", "John Doe", "", "Lima", "fragile"))
	assert.Equal(t, "Acme Ltd", s.SenderName)
	assert.Equal(t, "John Doe", s.ReceiverName)
	assert.Equal(t, "Lima", s.Destination)
	assert.Equal(t, "fragile", s.Notes)
}

func TestParseShipmentStatus(t *testing.T) {
	status, err := ParseShipmentStatus("IN_TRANSIT")
	require.NoError(t, err)
	assert.Equal(t, ShipmentStatusInTransit, status)

	_, err = ParseShipmentStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
