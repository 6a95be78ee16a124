package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/repository"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *ShipmentRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "freight.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newShipment(t *testing.T, body, origin string, mode valueobject.FreightMode) *entity.Shipment {
	t.Helper()
	s, err := entity.NewShipment("Acme Ltd", "Jane Roe", origin, "Bogota", mode, 12.5)
	require.NoError(t, err)

	tn, err := valueobject.NewTrackingNumber(body)
	require.NoError(t, err)
	require.NoError(t, s.AssignTrackingNumber(tn))

	s.SetMeasurements(entity.Measurements{
		Dimensions: "100 x 50 x 30",
		CBM:        0.15,
		Weight:     valueobject.CalculateChargeableWeight(12.5, "100 x 50 x 30", valueobject.DefaultDivisor),
	})
	s.SetDeclaredValue(valueobject.NewMoney(25000, valueobject.CurrencyEUR))
	return s
}

func TestShipmentRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	want := newShipment(t, "12345678", "Dubai", valueobject.FreightModeAir)

	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.GetByID(ctx, want.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GetByID mismatch (-want +got):\n%s", diff)
	}

	got, err = repo.GetByTrackingNumber(ctx, want.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, got.Measurements.Weight.IsDimensional)
	assert.Equal(t, 30.0, got.Measurements.Weight.Chargeable)
}

func TestShipmentRepository_ExistsByTrackingNumber(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	s := newShipment(t, "12345678", "Dubai", valueobject.FreightModeAir)

	exists, err := repo.ExistsByTrackingNumber(ctx, s.TrackingNumber)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, s))

	exists, err = repo.ExistsByTrackingNumber(ctx, s.TrackingNumber)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestShipmentRepository_CreateDuplicateTrackingNumber(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	require.NoError(t, repo.Create(ctx, newShipment(t, "12345678", "Dubai", valueobject.FreightModeAir)))

	err := repo.Create(ctx, newShipment(t, "12345678", "Lima", valueobject.FreightModeSea))
	assert.ErrorIs(t, err, repository.ErrDuplicateTrackingNumber)
	assert.True(t, repository.IsDuplicateError(err))
}

func TestShipmentRepository_CreateRequiresTrackingNumber(t *testing.T) {
	repo := openTestRepo(t)
	s, err := entity.NewShipment("a", "b", "c", "d", valueobject.FreightModeAir, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Create(context.Background(), s), repository.ErrInvalidInput)
}

func TestShipmentRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.True(t, repository.IsNotFoundError(err))

	_, err = repo.GetByTrackingNumber(ctx, "WW123456782")
	assert.ErrorIs(t, err, repository.ErrShipmentNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), repository.ErrShipmentNotFound)
}

func TestShipmentRepository_UpdateOptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	s := newShipment(t, "12345678", "Dubai", valueobject.FreightModeAir)
	require.NoError(t, repo.Create(ctx, s))

	stale, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, s.TransitionTo(entity.ShipmentStatusInTransit))
	require.NoError(t, repo.Update(ctx, s))
	assert.Equal(t, 2, s.Version)

	require.NoError(t, stale.TransitionTo(entity.ShipmentStatusCancelled))
	err = repo.Update(ctx, stale)
	assert.ErrorIs(t, err, repository.ErrOptimisticLock)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusInTransit, got.Status)
	assert.Equal(t, s.TrackingNumber, got.TrackingNumber)

	missing := newShipment(t, "87654321", "Dubai", valueobject.FreightModeAir)
	assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrShipmentNotFound)
}

func TestShipmentRepository_FindAllAndCount(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	require.NoError(t, repo.Create(ctx, newShipment(t, "10000000", "Dubai", valueobject.FreightModeAir)))
	require.NoError(t, repo.Create(ctx, newShipment(t, "20000000", "Dubai", valueobject.FreightModeSea)))
	require.NoError(t, repo.Create(ctx, newShipment(t, "30000000", "Lima", valueobject.FreightModeSea)))

	all, err := repo.FindAll(ctx, repository.ShipmentFilter{SortBy: "tracking_number", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "WW10000000", all[0].TrackingNumber.String()[:10])

	sea := valueobject.FreightModeSea
	filter := repository.ShipmentFilter{FreightMode: &sea, Origin: "dubai"}
	found, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "WW20000000", found[0].TrackingNumber.String()[:10])

	n, err := repo.Count(ctx, repository.ShipmentFilter{FreightMode: &sea})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	page, err := repo.FindAll(ctx, repository.ShipmentFilter{SortBy: "tracking_number", SortOrder: "asc", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "WW20000000", page[0].TrackingNumber.String()[:10])

	search, err := repo.FindAll(ctx, repository.ShipmentFilter{SearchTerm: "WW3000"})
	require.NoError(t, err)
	assert.Len(t, search, 1)
}

func TestShipmentRepository_DeleteAndPing(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	s := newShipment(t, "12345678", "Dubai", valueobject.FreightModeAir)
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Delete(ctx, s.ID))

	exists, err := repo.ExistsByTrackingNumber(ctx, s.TrackingNumber)
	require.NoError(t, err)
	assert.False(t, exists)
}
