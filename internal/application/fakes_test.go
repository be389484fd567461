package application

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/commerce-platform/inventory-service/internal/domain"
	"github.com/commerce-platform/inventory-service/pkg/logging"
)

func testLogger() *logging.Logger {
	config := logging.DefaultConfig("inventory-service-test")
	config.Output = io.Discard
	return logging.New(config)
}

// fakeLedger is an in-memory LedgerStore. WithinTx snapshots state before
// running the callback and restores it on error, mirroring the all-or-
// nothing batch semantics of the real store.
type fakeLedger struct {
	records        map[int64]*domain.InventoryRecord
	movements      []domain.InventoryMovement
	nextRecordID   int64
	nextMovementID int64
}

func newFakeLedger(records ...domain.InventoryRecord) *fakeLedger {
	l := &fakeLedger{
		records:        make(map[int64]*domain.InventoryRecord),
		nextRecordID:   1,
		nextMovementID: 1,
	}
	for i := range records {
		r := records[i]
		if r.Version == 0 {
			r.Version = 1
		}
		l.records[r.ID] = &r
		if r.ID >= l.nextRecordID {
			l.nextRecordID = r.ID + 1
		}
	}
	return l
}

func (l *fakeLedger) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	snapshot := l.snapshot()
	if err := fn(&fakeTx{ledger: l}); err != nil {
		l.restore(snapshot)
		return err
	}
	return nil
}

func (l *fakeLedger) snapshot() *fakeLedger {
	copied := &fakeLedger{
		records:        make(map[int64]*domain.InventoryRecord, len(l.records)),
		movements:      append([]domain.InventoryMovement(nil), l.movements...),
		nextRecordID:   l.nextRecordID,
		nextMovementID: l.nextMovementID,
	}
	for id, r := range l.records {
		c := *r
		copied.records[id] = &c
	}
	return copied
}

func (l *fakeLedger) restore(snapshot *fakeLedger) {
	l.records = snapshot.records
	l.movements = snapshot.movements
	l.nextRecordID = snapshot.nextRecordID
	l.nextMovementID = snapshot.nextMovementID
}

func (l *fakeLedger) GetRecord(ctx context.Context, id int64) (*domain.InventoryRecord, error) {
	return l.getRecord(id)
}

func (l *fakeLedger) getRecord(id int64) (*domain.InventoryRecord, error) {
	r, ok := l.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, domain.ErrRecordNotFound)
	}
	c := *r
	return &c, nil
}

func (l *fakeLedger) FindRecordsByVariant(ctx context.Context, variantID int64) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	for _, r := range l.records {
		if r.VariantID == variantID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *fakeLedger) ListRecords(ctx context.Context) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	for _, r := range l.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *fakeLedger) ListRecordsByLocation(ctx context.Context, locationID int64) ([]domain.InventoryRecord, error) {
	var out []domain.InventoryRecord
	for _, r := range l.records {
		if r.LocationID == locationID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *fakeLedger) ListMovements(ctx context.Context, inventoryID int64, limit, offset int64) ([]domain.InventoryMovement, int64, error) {
	var all []domain.InventoryMovement
	for _, m := range l.movements {
		if m.InventoryID == inventoryID {
			all = append(all, m)
		}
	}
	// newest first
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// movementsFor returns all movements against one record, oldest first
func (l *fakeLedger) movementsFor(inventoryID int64) []domain.InventoryMovement {
	var out []domain.InventoryMovement
	for _, m := range l.movements {
		if m.InventoryID == inventoryID {
			out = append(out, m)
		}
	}
	return out
}

func (l *fakeLedger) recordAt(variantID, locationID int64) *domain.InventoryRecord {
	for _, r := range l.records {
		if r.VariantID == variantID && r.LocationID == locationID {
			c := *r
			return &c
		}
	}
	return nil
}

type fakeTx struct {
	ledger *fakeLedger
}

func (t *fakeTx) GetRecord(ctx context.Context, id int64) (*domain.InventoryRecord, error) {
	return t.ledger.getRecord(id)
}

func (t *fakeTx) GetRecordByVariantLocation(ctx context.Context, variantID, locationID int64) (*domain.InventoryRecord, error) {
	if r := t.ledger.recordAt(variantID, locationID); r != nil {
		return r, nil
	}
	return nil, fmt.Errorf("variant %d location %d: %w", variantID, locationID, domain.ErrRecordNotFound)
}

func (t *fakeTx) FindRecordsByVariant(ctx context.Context, variantID int64) ([]domain.InventoryRecord, error) {
	return t.ledger.FindRecordsByVariant(ctx, variantID)
}

func (t *fakeTx) CreateRecord(ctx context.Context, record *domain.InventoryRecord) error {
	record.ID = t.ledger.nextRecordID
	t.ledger.nextRecordID++
	if record.Version == 0 {
		record.Version = 1
	}
	c := *record
	t.ledger.records[record.ID] = &c
	return nil
}

func (t *fakeTx) UpdateRecord(ctx context.Context, record *domain.InventoryRecord) error {
	stored, ok := t.ledger.records[record.ID]
	if !ok {
		return fmt.Errorf("record %d: %w", record.ID, domain.ErrRecordNotFound)
	}
	if stored.Version != record.Version {
		return fmt.Errorf("record %d: %w", record.ID, domain.ErrConcurrentUpdate)
	}
	record.Version++
	record.UpdatedAt = time.Now().UTC()
	c := *record
	t.ledger.records[record.ID] = &c
	return nil
}

func (t *fakeTx) AppendMovement(ctx context.Context, movement *domain.InventoryMovement) error {
	movement.ID = t.ledger.nextMovementID
	t.ledger.nextMovementID++
	t.ledger.movements = append(t.ledger.movements, *movement)
	return nil
}

type fakeCatalog struct {
	variants map[int64]domain.Variant
}

func newFakeCatalog(variants ...domain.Variant) *fakeCatalog {
	c := &fakeCatalog{variants: make(map[int64]domain.Variant)}
	for _, v := range variants {
		c.variants[v.ID] = v
	}
	return c
}

func (c *fakeCatalog) GetVariant(ctx context.Context, id int64) (*domain.Variant, error) {
	v, ok := c.variants[id]
	if !ok {
		return nil, fmt.Errorf("variant %d: %w", id, domain.ErrVariantNotFound)
	}
	return &v, nil
}

func (c *fakeCatalog) GetVariantBySKU(ctx context.Context, sku string) (*domain.Variant, error) {
	for _, v := range c.variants {
		if strings.EqualFold(v.SKU, sku) {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("sku %q: %w", sku, domain.ErrVariantNotFound)
}

func (c *fakeCatalog) SearchVariants(ctx context.Context, search string) ([]domain.Variant, error) {
	var out []domain.Variant
	for _, v := range c.variants {
		if v.Active && MatchesSearch(v, search) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type fakeLocations struct {
	locations map[int64]domain.Location
}

func newFakeLocations(locations ...domain.Location) *fakeLocations {
	l := &fakeLocations{locations: make(map[int64]domain.Location)}
	for _, loc := range locations {
		l.locations[loc.ID] = loc
	}
	return l
}

func (l *fakeLocations) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	loc, ok := l.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %d: %w", id, domain.ErrLocationNotFound)
	}
	return &loc, nil
}

func (l *fakeLocations) GetLocationByName(ctx context.Context, name string) (*domain.Location, error) {
	for _, loc := range l.locations {
		if loc.Active && strings.EqualFold(loc.Name, name) {
			return &loc, nil
		}
	}
	return nil, fmt.Errorf("location %q: %w", name, domain.ErrLocationNotFound)
}

func (l *fakeLocations) ListActiveLocations(ctx context.Context) ([]domain.Location, error) {
	var out []domain.Location
	for _, loc := range l.locations {
		if loc.Active {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeOrders struct {
	orders map[int64][]domain.CommittedOrder
}

func (o *fakeOrders) ListOpenOrdersForVariant(ctx context.Context, variantID int64) ([]domain.CommittedOrder, error) {
	return o.orders[variantID], nil
}

type syncRun struct {
	provider string
	imported int
	skipped  int
}

type fakeNotifier struct {
	changes   []domain.InventoryChange
	transfers []domain.TransferNotice
	syncs     []syncRun
}

func (n *fakeNotifier) Notify(ctx context.Context, change domain.InventoryChange) {
	n.changes = append(n.changes, change)
}

func (n *fakeNotifier) NotifyTransferApplied(ctx context.Context, notice domain.TransferNotice) {
	n.transfers = append(n.transfers, notice)
}

func (n *fakeNotifier) NotifySyncCompleted(ctx context.Context, provider string, imported, skipped int, duration time.Duration) {
	n.syncs = append(n.syncs, syncRun{provider: provider, imported: imported, skipped: skipped})
}

type fakeFeed struct {
	rows []StockFeedRow
	err  error
}

func (f *fakeFeed) Provider() string { return "shipstation" }

func (f *fakeFeed) FetchStock(ctx context.Context, sku string) ([]StockFeedRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	if sku == "" {
		return f.rows, nil
	}
	var out []StockFeedRow
	for _, row := range f.rows {
		if strings.EqualFold(row.SKU, sku) {
			out = append(out, row)
		}
	}
	return out, nil
}

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func boolPtr(v bool) *bool       { return &v }
func int64Ptr(v int64) *int64    { return &v }
func variantRef(v int64) string  { return domain.SyntheticRef(v).String() }
func recordRefID(v int64) string { return domain.RealRef(v).String() }
