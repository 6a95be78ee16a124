// Package service contains the application services (use cases).
// Services orchestrate domain entities, repositories and driven ports; they
// hold no HTTP or storage specifics.
package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/domain/repository"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

const (
	// DefaultMaxAttempts bounds the collision-check loop.
	DefaultMaxAttempts = 10

	// DefaultReservationTTL is how long a reserved candidate is held.
	DefaultReservationTTL = 5 * time.Minute
)

// ErrTrackingNumberExhausted is returned when no unique tracking number was
// found within the attempt budget. A shipment cannot be created without one.
var ErrTrackingNumberExhausted = errors.New("unable to allocate a unique tracking number")

// TrackingNumberGenerator issues collision-checked tracking numbers.
//
// Each attempt draws a fresh 8 digit body, appends the Luhn check digit and
// probes the shipment store. Attempts run sequentially.
type TrackingNumberGenerator struct {
	checker        repository.TrackingNumberChecker
	reservation    port.TrackingReservation
	random         io.Reader
	maxAttempts    int
	reservationTTL time.Duration
	logger         port.Logger
	tracer         port.Tracer
}

// GeneratorOption configures a TrackingNumberGenerator.
type GeneratorOption func(*TrackingNumberGenerator)

// WithRandomSource replaces crypto/rand as the source of tracking digits.
func WithRandomSource(r io.Reader) GeneratorOption {
	return func(g *TrackingNumberGenerator) {
		if r != nil {
			g.random = r
		}
	}
}

// WithMaxAttempts sets the collision-check budget.
func WithMaxAttempts(n int) GeneratorOption {
	return func(g *TrackingNumberGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithReservation enables claiming candidates in a shared reservation store.
// A candidate that cannot be reserved counts as a collision.
func WithReservation(r port.TrackingReservation, ttl time.Duration) GeneratorOption {
	return func(g *TrackingNumberGenerator) {
		g.reservation = r
		if ttl > 0 {
			g.reservationTTL = ttl
		}
	}
}

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(l port.Logger) GeneratorOption {
	return func(g *TrackingNumberGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithGeneratorTracer sets the tracer.
func WithGeneratorTracer(t port.Tracer) GeneratorOption {
	return func(g *TrackingNumberGenerator) {
		if t != nil {
			g.tracer = t
		}
	}
}

// NewTrackingNumberGenerator creates a generator backed by the given store.
//
// Parameters:
//   - checker: existence lookup on the shipment store
//   - opts: optional settings
//
// Returns:
//   - *TrackingNumberGenerator: ready to use generator
func NewTrackingNumberGenerator(checker repository.TrackingNumberChecker, opts ...GeneratorOption) *TrackingNumberGenerator {
	g := &TrackingNumberGenerator{
		checker:        checker,
		random:         rand.Reader,
		maxAttempts:    DefaultMaxAttempts,
		reservationTTL: DefaultReservationTTL,
		logger:         port.NopLogger{},
		tracer:         port.NopTracer{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a tracking number no existing shipment uses.
// Every returned value has been checked against the store.
//
// Parameters:
//   - ctx: context passed to each store lookup
//
// Returns:
//   - valueobject.TrackingNumber: the unique tracking number
//   - error: ErrTrackingNumberExhausted after maxAttempts collisions,
//     or the store / random source error
func (g *TrackingNumberGenerator) Generate(ctx context.Context) (tn valueobject.TrackingNumber, err error) {
	ctx, span := g.tracer.StartSpan(ctx, "tracking_number.generate")
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.End()
	}()

	log := g.logger.WithContext(ctx)

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		candidate, err := g.candidate()
		if err != nil {
			return "", err
		}

		exists, err := g.checker.ExistsByTrackingNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check tracking number %s: %w", candidate, err)
		}
		if exists {
			log.Debug("Tracking number collision", "tracking_number", candidate, "attempt", attempt)
			span.AddEvent("collision", map[string]interface{}{"attempt": attempt})
			continue
		}

		if g.reservation != nil {
			reserved, err := g.reservation.Reserve(ctx, candidate, g.reservationTTL)
			if err != nil {
				return "", fmt.Errorf("reserve tracking number %s: %w", candidate, err)
			}
			if !reserved {
				log.Debug("Tracking number already reserved", "tracking_number", candidate, "attempt", attempt)
				span.AddEvent("reservation_conflict", map[string]interface{}{"attempt": attempt})
				continue
			}
		}

		span.SetAttribute("tracking.attempts", attempt)
		return candidate, nil
	}

	log.Warn("Tracking number generation exhausted", "attempts", g.maxAttempts)
	return "", fmt.Errorf("%w after %d attempts", ErrTrackingNumberExhausted, g.maxAttempts)
}

// Release drops the reservation of a tracking number, if reservations are enabled.
// Failures are logged; an unreleased claim simply expires.
func (g *TrackingNumberGenerator) Release(ctx context.Context, tn valueobject.TrackingNumber) {
	if g.reservation == nil {
		return
	}
	if err := g.reservation.Release(ctx, tn); err != nil {
		g.logger.WithContext(ctx).Warn("Failed to release tracking number reservation",
			"tracking_number", tn,
			"error", err,
		)
	}
}

// candidate draws a random 32-bit value, formats it in decimal padded to at
// least 8 digits, keeps the first 8, and appends the check digit.
func (g *TrackingNumberGenerator) candidate() (valueobject.TrackingNumber, error) {
	var buf [4]byte
	if _, err := io.ReadFull(g.random, buf[:]); err != nil {
		return "", fmt.Errorf("read random tracking digits: %w", err)
	}

	digits := fmt.Sprintf("%08d", binary.BigEndian.Uint32(buf[:]))
	return valueobject.NewTrackingNumber(digits[:valueobject.TrackingBodyLength])
}
