package domain

// StockStatus classifies a variant's aggregated availability
type StockStatus string

const (
	StatusInStock    StockStatus = "IN_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Aggregate is the cross-location availability rollup for one variant
type Aggregate struct {
	OnHand            int `json:"onHand"`
	Reserved          int `json:"reserved"`
	Available         int `json:"available"`
	LowStockThreshold int `json:"lowStockThreshold"`
}

// AggregateRecords folds a variant's records into an availability
// aggregate. Negative on-hand and reserved values are floored at zero
// so one bad row cannot drag the rollup negative. An empty set yields
// a zero aggregate with the default threshold.
func AggregateRecords(records []InventoryRecord) Aggregate {
	agg := Aggregate{LowStockThreshold: DefaultLowStockThreshold}

	for i, r := range records {
		agg.OnHand += max(0, r.Quantity)
		agg.Reserved += max(0, abs(r.ReservedQty))
		if i == 0 || r.LowStockAlert < agg.LowStockThreshold {
			agg.LowStockThreshold = r.LowStockAlert
		}
	}

	agg.Available = max(0, agg.OnHand-agg.Reserved)
	return agg
}

// Classify derives the stock status from an aggregate. Pure: equal
// inputs always yield equal results.
func Classify(agg Aggregate) StockStatus {
	switch {
	case agg.Available == 0:
		return StatusOutOfStock
	case agg.Available <= agg.LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ClassifyRecords is the common aggregate-then-classify composition
func ClassifyRecords(records []InventoryRecord) StockStatus {
	return Classify(AggregateRecords(records))
}
