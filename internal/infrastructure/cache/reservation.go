// Package cache holds Redis-backed helpers shared by API instances.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/redis/go-redis/v9"
)

var _ port.TrackingReservation = (*TrackingReservation)(nil)

// TrackingReservation claims tracking numbers in Redis with SET NX so that
// several API instances never hand out the same candidate concurrently.
type TrackingReservation struct {
	client    *redis.Client
	namespace string
}

// Options configures the Redis connection.
type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// NewTrackingReservation creates a reservation store.
//
// Parameters:
//   - opts: connection settings; an empty namespace defaults to "freight"
//
// Returns:
//   - *TrackingReservation: the reservation store
func NewTrackingReservation(opts Options) *TrackingReservation {
	if opts.Namespace == "" {
		opts.Namespace = "freight"
	}
	return &TrackingReservation{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		namespace: opts.Namespace,
	}
}

// Reserve implements port.TrackingReservation.
func (r *TrackingReservation) Reserve(ctx context.Context, tn valueobject.TrackingNumber, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(tn), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release implements port.TrackingReservation.
func (r *TrackingReservation) Release(ctx context.Context, tn valueobject.TrackingNumber) error {
	if err := r.client.Del(ctx, r.key(tn)).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *TrackingReservation) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *TrackingReservation) Close() error {
	return r.client.Close()
}

func (r *TrackingReservation) key(tn valueobject.TrackingNumber) string {
	return fmt.Sprintf("%s:tracking:%s", r.namespace, tn)
}
