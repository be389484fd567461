package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/commerce-platform/inventory-service/internal/domain"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/metrics"
)

// Store is the sqlx-backed ledger store
type Store struct {
	db      *sqlx.DB
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB, logger *logging.Logger, m *metrics.Metrics) *Store {
	return &Store{
		db:      db,
		logger:  logger.WithComponent("postgres"),
		metrics: m,
	}
}

// Ping checks database connectivity for readiness probes
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx runs fn inside one transaction at read-committed isolation.
// Any error rolls the whole unit back.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&ledgerTx{tx: tx, store: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetRecord loads one record by id outside any transaction
func (s *Store) GetRecord(ctx context.Context, id int64) (*domain.InventoryRecord, error) {
	return getRecord(ctx, s.db, s, id)
}

// FindRecordsByVariant loads a variant's records across all locations
func (s *Store) FindRecordsByVariant(ctx context.Context, variantID int64) ([]domain.InventoryRecord, error) {
	start := time.Now()
	var records []domain.InventoryRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT * FROM inventory_records WHERE variant_id = $1 ORDER BY id`, variantID)
	s.observe(ctx, "inventory_records", "select", err, start, int64(len(records)))
	if err != nil {
		return nil, fmt.Errorf("find records by variant: %w", err)
	}
	return records, nil
}

// ListRecords loads every inventory record
func (s *Store) ListRecords(ctx context.Context) ([]domain.InventoryRecord, error) {
	start := time.Now()
	var records []domain.InventoryRecord
	err := s.db.SelectContext(ctx, &records, `SELECT * FROM inventory_records ORDER BY id`)
	s.observe(ctx, "inventory_records", "select", err, start, int64(len(records)))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// ListRecordsByLocation loads every record at one location
func (s *Store) ListRecordsByLocation(ctx context.Context, locationID int64) ([]domain.InventoryRecord, error) {
	start := time.Now()
	var records []domain.InventoryRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT * FROM inventory_records WHERE location_id = $1 ORDER BY id`, locationID)
	s.observe(ctx, "inventory_records", "select", err, start, int64(len(records)))
	if err != nil {
		return nil, fmt.Errorf("list records by location: %w", err)
	}
	return records, nil
}

// ListMovements loads one record's movement history, newest first
func (s *Store) ListMovements(ctx context.Context, inventoryID int64, limit, offset int64) ([]domain.InventoryMovement, int64, error) {
	start := time.Now()

	var total int64
	if err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM inventory_movements WHERE inventory_id = $1`, inventoryID); err != nil {
		s.observe(ctx, "inventory_movements", "count", err, start, 0)
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	var movements []domain.InventoryMovement
	err := s.db.SelectContext(ctx, &movements,
		`SELECT * FROM inventory_movements WHERE inventory_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		inventoryID, limit, offset)
	s.observe(ctx, "inventory_movements", "select", err, start, int64(len(movements)))
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return movements, total, nil
}

func (s *Store) observe(ctx context.Context, table, operation string, err error, start time.Time, rows int64) {
	duration := time.Since(start)
	success := err == nil || errors.Is(err, sql.ErrNoRows)
	if s.metrics != nil {
		s.metrics.RecordDBQuery(table, operation, success, duration)
	}
	s.logger.DatabaseQuery(ctx, table, operation, duration, success, rows)
}

// queryer covers both *sqlx.DB and *sqlx.Tx
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func getRecord(ctx context.Context, q queryer, s *Store, id int64) (*domain.InventoryRecord, error) {
	start := time.Now()
	var record domain.InventoryRecord
	err := q.GetContext(ctx, &record, `SELECT * FROM inventory_records WHERE id = $1`, id)
	s.observe(ctx, "inventory_records", "get", err, start, 1)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %d: %w", id, domain.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &record, nil
}

// ledgerTx is the transactional view handed to mutators
type ledgerTx struct {
	tx    *sqlx.Tx
	store *Store
}

func (t *ledgerTx) GetRecord(ctx context.Context, id int64) (*domain.InventoryRecord, error) {
	return getRecord(ctx, t.tx, t.store, id)
}

func (t *ledgerTx) GetRecordByVariantLocation(ctx context.Context, variantID, locationID int64) (*domain.InventoryRecord, error) {
	start := time.Now()
	var record domain.InventoryRecord
	err := t.tx.GetContext(ctx, &record,
		`SELECT * FROM inventory_records WHERE variant_id = $1 AND location_id = $2`, variantID, locationID)
	t.store.observe(ctx, "inventory_records", "get", err, start, 1)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("variant %d at location %d: %w", variantID, locationID, domain.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record by variant and location: %w", err)
	}
	return &record, nil
}

func (t *ledgerTx) FindRecordsByVariant(ctx context.Context, variantID int64) ([]domain.InventoryRecord, error) {
	start := time.Now()
	var records []domain.InventoryRecord
	err := t.tx.SelectContext(ctx, &records,
		`SELECT * FROM inventory_records WHERE variant_id = $1 ORDER BY id`, variantID)
	t.store.observe(ctx, "inventory_records", "select", err, start, int64(len(records)))
	if err != nil {
		return nil, fmt.Errorf("find records by variant: %w", err)
	}
	return records, nil
}

func (t *ledgerTx) CreateRecord(ctx context.Context, record *domain.InventoryRecord) error {
	start := time.Now()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	record.Version = 1

	err := t.tx.QueryRowxContext(ctx,
		`INSERT INTO inventory_records
		   (variant_id, location_id, quantity, reserved_qty, low_stock_alert, barcode, sell_when_out_of_stock, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		record.VariantID, record.LocationID, record.Quantity, record.ReservedQty,
		record.LowStockAlert, record.Barcode, record.SellWhenOutOfStock,
		record.Version, record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID)
	t.store.observe(ctx, "inventory_records", "insert", err, start, 1)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// UpdateRecord writes the record with an optimistic version check: the
// UPDATE matches the version the caller read, so a racing writer makes
// this affect zero rows and the batch rolls back with a conflict.
func (t *ledgerTx) UpdateRecord(ctx context.Context, record *domain.InventoryRecord) error {
	start := time.Now()
	record.UpdatedAt = time.Now().UTC()

	res, err := t.tx.ExecContext(ctx,
		`UPDATE inventory_records
		    SET quantity = $1, reserved_qty = $2, low_stock_alert = $3,
		        barcode = $4, sell_when_out_of_stock = $5,
		        version = version + 1, updated_at = $6
		  WHERE id = $7 AND version = $8`,
		record.Quantity, record.ReservedQty, record.LowStockAlert,
		record.Barcode, record.SellWhenOutOfStock, record.UpdatedAt,
		record.ID, record.Version,
	)
	if err != nil {
		t.store.observe(ctx, "inventory_records", "update", err, start, 0)
		return fmt.Errorf("update record: %w", err)
	}

	affected, err := res.RowsAffected()
	t.store.observe(ctx, "inventory_records", "update", err, start, affected)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %d: %w", record.ID, domain.ErrConcurrentUpdate)
	}

	record.Version++
	return nil
}

func (t *ledgerTx) AppendMovement(ctx context.Context, movement *domain.InventoryMovement) error {
	start := time.Now()
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}

	err := t.tx.QueryRowxContext(ctx,
		`INSERT INTO inventory_movements (inventory_id, quantity, type, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		movement.InventoryID, movement.Quantity, movement.Type, movement.Reason, movement.CreatedAt,
	).Scan(&movement.ID)
	t.store.observe(ctx, "inventory_movements", "insert", err, start, 1)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}
