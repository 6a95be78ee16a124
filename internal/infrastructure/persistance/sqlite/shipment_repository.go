// Package sqlite provides SQLite implementations of repository interfaces.
//
// WAL mode is enabled on Open so that tracking lookups from HTTP handlers
// never block the writer.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/repository"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"

	// Pure-Go SQLite driver, registered as "sqlite".
	"modernc.org/sqlite"
)

// schema is executed once on startup.
// tracking_number is UNIQUE: the generator's existence probe only narrows
// the collision window, this constraint closes it.
const schema = `
CREATE TABLE IF NOT EXISTS shipments (
    id                       TEXT    PRIMARY KEY,
    tracking_number          TEXT    NOT NULL UNIQUE,
    sender_name              TEXT    NOT NULL,
    receiver_name            TEXT    NOT NULL,
    origin                   TEXT    NOT NULL,
    destination              TEXT    NOT NULL,
    freight_mode             TEXT    NOT NULL,
    weight_kg                REAL    NOT NULL,
    dimensions               TEXT    NOT NULL DEFAULT '',
    cbm                      REAL    NOT NULL DEFAULT 0,
    dimensional_weight_kg    REAL    NOT NULL DEFAULT 0,
    chargeable_weight_kg     REAL    NOT NULL DEFAULT 0,
    is_dimensional           INTEGER NOT NULL DEFAULT 0,
    declared_value_amount    INTEGER NOT NULL DEFAULT 0,
    declared_value_currency  TEXT    NOT NULL DEFAULT 'USD',
    status                   TEXT    NOT NULL,
    notes                    TEXT    NOT NULL DEFAULT '',
    created_at               TEXT    NOT NULL,
    updated_at               TEXT    NOT NULL,
    version                  INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(status, created_at);
CREATE INDEX IF NOT EXISTS idx_shipments_created_at ON shipments(created_at);
`

// columns is the select list matching scanShipment.
const columns = `id, tracking_number, sender_name, receiver_name, origin, destination,
	freight_mode, weight_kg, dimensions, cbm, dimensional_weight_kg, chargeable_weight_kg,
	is_dimensional, declared_value_amount, declared_value_currency, status, notes,
	created_at, updated_at, version`

// sortColumns whitelists ShipmentFilter.SortBy values.
var sortColumns = map[string]string{
	"created_at":        "created_at",
	"updated_at":        "updated_at",
	"tracking_number":   "tracking_number",
	"weight":            "weight_kg",
	"chargeable_weight": "chargeable_weight_kg",
	"cbm":               "cbm",
	"status":            "status",
}

// ShipmentRepository is the SQLite implementation of repository.ShipmentRepository.
type ShipmentRepository struct {
	db *sql.DB
}

var _ repository.ShipmentRepository = (*ShipmentRepository)(nil)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/freight.db")
func Open(path string) (*ShipmentRepository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	repo, err := NewShipmentRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewShipmentRepository wraps an existing database handle and applies the schema.
func NewShipmentRepository(db *sql.DB) (*ShipmentRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &ShipmentRepository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *ShipmentRepository) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable.
func (r *ShipmentRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrConnectionFailed, err)
	}
	return nil
}

// Create inserts a new shipment.
func (r *ShipmentRepository) Create(ctx context.Context, s *entity.Shipment) error {
	if s == nil || s.TrackingNumber.IsZero() {
		return repository.ErrInvalidInput
	}

	const q = `
		INSERT INTO shipments (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		s.ID.String(),
		s.TrackingNumber.String(),
		s.SenderName,
		s.ReceiverName,
		s.Origin,
		s.Destination,
		string(s.FreightMode),
		s.Weight,
		s.Measurements.Dimensions,
		s.Measurements.CBM,
		s.Measurements.Weight.Dimensional,
		s.Measurements.Weight.Chargeable,
		s.Measurements.Weight.IsDimensional,
		s.DeclaredValue.Amount,
		string(s.DeclaredValue.Currency),
		string(s.Status),
		s.Notes,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
		s.Version,
	)
	if err != nil {
		if isTrackingNumberConflict(err) {
			return fmt.Errorf("sqlite: create shipment %s: %w", s.TrackingNumber, repository.ErrDuplicateTrackingNumber)
		}
		return fmt.Errorf("sqlite: create shipment %s: %w", s.TrackingNumber, err)
	}
	return nil
}

// ExistsByTrackingNumber probes for an exact tracking number match.
func (r *ShipmentRepository) ExistsByTrackingNumber(ctx context.Context, tn valueobject.TrackingNumber) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM shipments WHERE tracking_number = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, tn.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("sqlite: exists %s: %w", tn, err)
	}
	return exists, nil
}

// GetByID returns the shipment with the given ID.
func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shipment, error) {
	q := `SELECT ` + columns + ` FROM shipments WHERE id = ?`
	s, err := scanShipment(r.db.QueryRowContext(ctx, q, id.String()))
	if err != nil {
		return nil, fmt.Errorf("sqlite: get shipment %s: %w", id, err)
	}
	return s, nil
}

// GetByTrackingNumber returns the shipment with the given tracking number.
func (r *ShipmentRepository) GetByTrackingNumber(ctx context.Context, tn valueobject.TrackingNumber) (*entity.Shipment, error) {
	q := `SELECT ` + columns + ` FROM shipments WHERE tracking_number = ?`
	s, err := scanShipment(r.db.QueryRowContext(ctx, q, tn.String()))
	if err != nil {
		return nil, fmt.Errorf("sqlite: get shipment %s: %w", tn, err)
	}
	return s, nil
}

// Update writes every mutable column and bumps the version.
// On success s.Version is incremented to match the stored row.
func (r *ShipmentRepository) Update(ctx context.Context, s *entity.Shipment) error {
	const q = `
		UPDATE shipments SET
			sender_name = ?, receiver_name = ?, origin = ?, destination = ?,
			freight_mode = ?, weight_kg = ?, dimensions = ?, cbm = ?,
			dimensional_weight_kg = ?, chargeable_weight_kg = ?, is_dimensional = ?,
			declared_value_amount = ?, declared_value_currency = ?,
			status = ?, notes = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`

	res, err := r.db.ExecContext(ctx, q,
		s.SenderName,
		s.ReceiverName,
		s.Origin,
		s.Destination,
		string(s.FreightMode),
		s.Weight,
		s.Measurements.Dimensions,
		s.Measurements.CBM,
		s.Measurements.Weight.Dimensional,
		s.Measurements.Weight.Chargeable,
		s.Measurements.Weight.IsDimensional,
		s.DeclaredValue.Amount,
		string(s.DeclaredValue.Currency),
		string(s.Status),
		s.Notes,
		formatTime(s.UpdatedAt),
		s.ID.String(),
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update shipment %s: %w", s.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update shipment %s: %w", s.ID, err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
		return fmt.Errorf("sqlite: update shipment %s: %w", s.ID, repository.ErrOptimisticLock)
	}

	s.Version++
	return nil
}

// Delete removes the shipment with the given ID.
func (r *ShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipments WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("sqlite: delete shipment %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete shipment %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite: delete shipment %s: %w", id, repository.ErrShipmentNotFound)
	}
	return nil
}

// FindAll returns shipments matching filter, newest first unless SortBy says otherwise.
func (r *ShipmentRepository) FindAll(ctx context.Context, filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	where, args := buildWhere(filter)

	sortBy, ok := sortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	q := `SELECT ` + columns + ` FROM shipments` + where +
		fmt.Sprintf(" ORDER BY %s %s, id %s", sortBy, order, order)

	switch {
	case filter.Limit > 0:
		q += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, max(filter.Offset, 0))
	case filter.Offset > 0:
		q += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: find shipments: %w", err)
	}
	defer rows.Close()

	shipments := make([]*entity.Shipment, 0)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: find shipments: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: find shipments: %w", err)
	}
	return shipments, nil
}

// Count returns the number of shipments matching filter.
func (r *ShipmentRepository) Count(ctx context.Context, filter repository.ShipmentFilter) (int64, error) {
	where, args := buildWhere(filter)

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shipments`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count shipments: %w", err)
	}
	return n, nil
}

func buildWhere(f repository.ShipmentFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if f.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.FreightMode != nil {
		clauses = append(clauses, "freight_mode = ?")
		args = append(args, string(*f.FreightMode))
	}
	if f.Origin != "" {
		clauses = append(clauses, "origin = ? COLLATE NOCASE")
		args = append(args, f.Origin)
	}
	if f.Destination != "" {
		clauses = append(clauses, "destination = ? COLLATE NOCASE")
		args = append(args, f.Destination)
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		like := "%" + term + "%"
		clauses = append(clauses, "(tracking_number LIKE ? OR sender_name LIKE ? OR receiver_name LIKE ?)")
		args = append(args, like, like, like)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*entity.Shipment, error) {
	var (
		s                    entity.Shipment
		id, tn, mode, status string
		currency             string
		createdAt, updatedAt string
	)

	err := row.Scan(
		&id,
		&tn,
		&s.SenderName,
		&s.ReceiverName,
		&s.Origin,
		&s.Destination,
		&mode,
		&s.Weight,
		&s.Measurements.Dimensions,
		&s.Measurements.CBM,
		&s.Measurements.Weight.Dimensional,
		&s.Measurements.Weight.Chargeable,
		&s.Measurements.Weight.IsDimensional,
		&s.DeclaredValue.Amount,
		&currency,
		&status,
		&s.Notes,
		&createdAt,
		&updatedAt,
		&s.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	s.TrackingNumber = valueobject.TrackingNumber(tn)
	s.FreightMode = valueobject.FreightMode(mode)
	s.Status = entity.ShipmentStatus(status)
	s.DeclaredValue.Currency = valueobject.Currency(currency)
	s.Measurements.Weight.Actual = s.Weight

	return &s, nil
}

// isTrackingNumberConflict reports a UNIQUE violation on tracking_number.
// Primary key violations do not match.
func isTrackingNumberConflict(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	msg := se.Error()
	return strings.Contains(msg, "UNIQUE") && strings.Contains(msg, "shipments.tracking_number")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
