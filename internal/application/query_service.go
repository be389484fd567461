package application

import (
	"context"
	"sort"
	"strings"

	"github.com/commerce-platform/inventory-service/internal/domain"
	"github.com/commerce-platform/inventory-service/pkg/api"
	"github.com/commerce-platform/inventory-service/pkg/logging"
)

// Management filter values
const (
	FilterAll        = "all"
	FilterLowStock   = "low-stock"
	FilterOutOfStock = "out-of-stock"
)

// FlatListQuery holds the flat listing filters
type FlatListQuery struct {
	LocationID *int64
	LowStock   bool
	OutOfStock bool
	Search     string
	Page       api.PageRequest
}

// QueryService is the aggregation reader: per-variant rollups, flat
// per-record listings and the derived low/out-of-stock views. It holds
// no locks and never participates in mutation transactions.
type QueryService struct {
	ledger    domain.LedgerStore
	catalog   domain.CatalogReader
	locations domain.LocationReader
	orders    domain.OrderReader
	logger    *logging.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(
	ledger domain.LedgerStore,
	catalog domain.CatalogReader,
	locations domain.LocationReader,
	orders domain.OrderReader,
	logger *logging.Logger,
) *QueryService {
	return &QueryService{
		ledger:    ledger,
		catalog:   catalog,
		locations: locations,
		orders:    orders,
		logger:    logger.WithComponent("query-service"),
	}
}

// ListManagement builds the per-variant rollup listing. The low/out-of-
// stock predicate spans derived cross-location values, so filtering and
// pagination happen in memory after aggregation; badge counts come from
// the unfiltered set so they are stable across filters and pages.
func (s *QueryService) ListManagement(ctx context.Context, search, filter string, page api.PageRequest) (*ManagementPage, error) {
	variants, err := s.catalog.SearchVariants(ctx, search)
	if err != nil {
		return nil, err
	}

	recordsByVariant, err := s.recordsByVariant(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ManagementRow, 0, len(variants))
	var counts BadgeCounts
	for _, v := range variants {
		agg := domain.AggregateRecords(recordsByVariant[v.ID])
		status := domain.Classify(agg)

		counts.All++
		switch status {
		case domain.StatusLowStock:
			counts.LowStock++
		case domain.StatusOutOfStock:
			counts.OutOfStock++
		}

		rows = append(rows, ManagementRow{
			VariantID:         v.ID,
			ProductID:         v.ProductID,
			ProductName:       v.ProductName,
			VariantName:       v.Name,
			SKU:               v.SKU,
			Price:             v.Price,
			CompareAtPrice:    v.CompareAtPrice,
			OnHand:            agg.OnHand,
			Committed:         agg.Reserved,
			Available:         agg.Available,
			LowStockThreshold: agg.LowStockThreshold,
			Status:            status,
		})
	}

	filtered := rows
	switch filter {
	case FilterLowStock:
		filtered = filterRows(rows, domain.StatusLowStock)
	case FilterOutOfStock:
		filtered = filterRows(rows, domain.StatusOutOfStock)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].ProductName != filtered[j].ProductName {
			return filtered[i].ProductName < filtered[j].ProductName
		}
		return filtered[i].VariantName < filtered[j].VariantName
	})

	pageRows := api.Slice(filtered, page)
	return &ManagementPage{
		PageResponse: api.NewPageResponse(pageRows, page.Page, page.PageSize, int64(len(filtered))),
		Counts:       counts,
	}, nil
}

// ListFlat builds the per-record listing. Without a location filter,
// variants with no record anywhere get one synthetic zero row so every
// catalog variant appears at least once.
func (s *QueryService) ListFlat(ctx context.Context, q FlatListQuery) (*api.PageResponse[FlatRow], error) {
	variants, err := s.catalog.SearchVariants(ctx, q.Search)
	if err != nil {
		return nil, err
	}

	locationNames, err := s.locationNames(ctx)
	if err != nil {
		return nil, err
	}

	recordsByVariant, err := s.recordsByVariant(ctx)
	if err != nil {
		return nil, err
	}

	var rows []FlatRow
	for _, v := range variants {
		records := recordsByVariant[v.ID]

		if q.LocationID != nil {
			for _, r := range records {
				if r.LocationID == *q.LocationID {
					rows = append(rows, flatRowFromRecord(v, r, locationNames))
				}
			}
			continue
		}

		if len(records) == 0 {
			rows = append(rows, syntheticFlatRow(v))
			continue
		}
		for _, r := range records {
			rows = append(rows, flatRowFromRecord(v, r, locationNames))
		}
	}

	if q.LowStock || q.OutOfStock {
		var kept []FlatRow
		for _, row := range rows {
			if (q.LowStock && row.Status == domain.StatusLowStock) ||
				(q.OutOfStock && row.Status == domain.StatusOutOfStock) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProductName != rows[j].ProductName {
			return rows[i].ProductName < rows[j].ProductName
		}
		if rows[i].VariantName != rows[j].VariantName {
			return rows[i].VariantName < rows[j].VariantName
		}
		return rows[i].LocationName < rows[j].LocationName
	})

	pageRows := api.Slice(rows, q.Page)
	resp := api.NewPageResponse(pageRows, q.Page.Page, q.Page.PageSize, int64(len(rows)))
	return &resp, nil
}

// GetVariantDetail returns the full per-location breakdown for one
// variant. Barcode and sellWhenOutOfStock come from the primary record,
// matching the identity the whole-variant update path writes to.
func (s *QueryService) GetVariantDetail(ctx context.Context, variantID int64) (*VariantDetail, error) {
	variant, err := s.catalog.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.FindRecordsByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	locationNames, err := s.locationNames(ctx)
	if err != nil {
		return nil, err
	}

	agg := domain.AggregateRecords(records)
	primary := domain.PrimaryRecord(records)

	detail := &VariantDetail{
		Variant:   *variant,
		Aggregate: agg,
		Status:    domain.Classify(agg),
		Locations: make([]LocationDetail, 0, len(records)),
	}
	if primary != nil {
		detail.Barcode = primary.Barcode
		detail.SellWhenOutOfStock = primary.SellWhenOutOfStock
	}

	for _, r := range records {
		detail.Locations = append(detail.Locations, LocationDetail{
			RecordID:     r.ID,
			LocationID:   r.LocationID,
			LocationName: locationNames[r.LocationID],
			Quantity:     r.Quantity,
			Reserved:     r.ReservedQty,
			Available:    r.Available(),
			IsPrimary:    primary != nil && r.ID == primary.ID,
		})
	}

	sort.SliceStable(detail.Locations, func(i, j int) bool {
		return detail.Locations[i].LocationName < detail.Locations[j].LocationName
	})

	return detail, nil
}

// GetAvailability is the public availability view for one variant
func (s *QueryService) GetAvailability(ctx context.Context, variantID int64) (*Availability, error) {
	if _, err := s.catalog.GetVariant(ctx, variantID); err != nil {
		return nil, err
	}

	records, err := s.ledger.FindRecordsByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	locationNames, err := s.locationNames(ctx)
	if err != nil {
		return nil, err
	}

	availability := &Availability{
		VariantID: variantID,
		Locations: make([]LocationAvailability, 0, len(records)),
	}

	for _, r := range records {
		available := r.Available()
		availability.Total += available
		availability.Locations = append(availability.Locations, LocationAvailability{
			LocationID:   r.LocationID,
			LocationName: locationNames[r.LocationID],
			Available:    available,
		})
	}

	availability.InStock = availability.Total > 0
	if primary := domain.PrimaryRecord(records); primary != nil && primary.SellWhenOutOfStock {
		availability.InStock = true
	}

	return availability, nil
}

// GetVariantRecords returns the raw per-location records for a variant
func (s *QueryService) GetVariantRecords(ctx context.Context, variantID int64) ([]domain.InventoryRecord, error) {
	if _, err := s.catalog.GetVariant(ctx, variantID); err != nil {
		return nil, err
	}
	return s.ledger.FindRecordsByVariant(ctx, variantID)
}

// ListLowStock returns every record currently classified LOW_STOCK
func (s *QueryService) ListLowStock(ctx context.Context) ([]domain.InventoryRecord, error) {
	return s.listByStatus(ctx, domain.StatusLowStock)
}

// ListOutOfStock returns every record currently classified OUT_OF_STOCK
func (s *QueryService) ListOutOfStock(ctx context.Context) ([]domain.InventoryRecord, error) {
	return s.listByStatus(ctx, domain.StatusOutOfStock)
}

// ListCommittedOrders returns open orders holding reserved stock
func (s *QueryService) ListCommittedOrders(ctx context.Context, variantID int64) ([]domain.CommittedOrder, error) {
	if _, err := s.catalog.GetVariant(ctx, variantID); err != nil {
		return nil, err
	}
	return s.orders.ListOpenOrdersForVariant(ctx, variantID)
}

// ListMovements returns the movement history for one record, newest first
func (s *QueryService) ListMovements(ctx context.Context, recordID int64, page api.PageRequest) (*api.PageResponse[domain.InventoryMovement], error) {
	if _, err := s.ledger.GetRecord(ctx, recordID); err != nil {
		return nil, err
	}

	movements, total, err := s.ledger.ListMovements(ctx, recordID, page.GetLimit(), page.GetOffset())
	if err != nil {
		return nil, err
	}

	resp := api.NewPageResponse(movements, page.Page, page.PageSize, total)
	return &resp, nil
}

// ListLocations returns the active stock locations
func (s *QueryService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locations.ListActiveLocations(ctx)
}

func (s *QueryService) listByStatus(ctx context.Context, status domain.StockStatus) ([]domain.InventoryRecord, error) {
	records, err := s.ledger.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.InventoryRecord, 0)
	for _, r := range records {
		if classifyRecord(r) == status {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *QueryService) recordsByVariant(ctx context.Context) (map[int64][]domain.InventoryRecord, error) {
	records, err := s.ledger.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]domain.InventoryRecord)
	for _, r := range records {
		grouped[r.VariantID] = append(grouped[r.VariantID], r)
	}
	return grouped, nil
}

func (s *QueryService) locationNames(ctx context.Context) (map[int64]string, error) {
	locations, err := s.locations.ListActiveLocations(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(locations))
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	return names, nil
}

func classifyRecord(r domain.InventoryRecord) domain.StockStatus {
	return domain.ClassifyRecords([]domain.InventoryRecord{r})
}

func flatRowFromRecord(v domain.Variant, r domain.InventoryRecord, locationNames map[int64]string) FlatRow {
	return FlatRow{
		ID:           domain.RealRef(r.ID).String(),
		VariantID:    v.ID,
		VariantName:  v.Name,
		ProductName:  v.ProductName,
		SKU:          v.SKU,
		LocationID:   r.LocationID,
		LocationName: locationNames[r.LocationID],
		Quantity:     r.Quantity,
		Reserved:     r.ReservedQty,
		Available:    r.Available(),
		Status:       classifyRecord(r),
	}
}

func syntheticFlatRow(v domain.Variant) FlatRow {
	return FlatRow{
		ID:           domain.SyntheticRef(v.ID).String(),
		Synthetic:    true,
		VariantID:    v.ID,
		VariantName:  v.Name,
		ProductName:  v.ProductName,
		SKU:          v.SKU,
		LocationName: domain.SyntheticLocationName,
		Status:       domain.StatusOutOfStock,
	}
}

func filterRows(rows []ManagementRow, status domain.StockStatus) []ManagementRow {
	filtered := make([]ManagementRow, 0, len(rows))
	for _, row := range rows {
		if row.Status == status {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// MatchesSearch is the in-memory equivalent of the catalog search
// predicate: every whitespace-separated term must match SKU, variant
// name or product name, case-insensitively. Fake catalogs in tests and
// the import path share it.
func MatchesSearch(v domain.Variant, search string) bool {
	terms := strings.Fields(strings.ToLower(search))
	for _, term := range terms {
		if !strings.Contains(strings.ToLower(v.SKU), term) &&
			!strings.Contains(strings.ToLower(v.Name), term) &&
			!strings.Contains(strings.ToLower(v.ProductName), term) {
			return false
		}
	}
	return true
}
