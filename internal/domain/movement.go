package domain

import (
	"fmt"
	"time"
)

// MovementType is the unified movement vocabulary. Requests may use the
// business forms (PURCHASE, SALE, ...); the ledger persists only the
// direction forms INBOUND, OUTBOUND and ADJUSTMENT, with the business
// context carried in the movement reason.
type MovementType string

const (
	MovementPurchase      MovementType = "PURCHASE"
	MovementSale          MovementType = "SALE"
	MovementReturn        MovementType = "RETURN"
	MovementAdjustmentIn  MovementType = "ADJUSTMENT_IN"
	MovementAdjustmentOut MovementType = "ADJUSTMENT_OUT"
	MovementTransferIn    MovementType = "TRANSFER_IN"
	MovementTransferOut   MovementType = "TRANSFER_OUT"
	MovementInbound       MovementType = "INBOUND"
	MovementOutbound      MovementType = "OUTBOUND"
	MovementAdjustment    MovementType = "ADJUSTMENT"
)

// ParseMovementType validates a request-supplied movement type
func ParseMovementType(raw string) (MovementType, error) {
	t := MovementType(raw)
	switch t {
	case MovementPurchase, MovementSale, MovementReturn,
		MovementAdjustmentIn, MovementAdjustmentOut,
		MovementTransferIn, MovementTransferOut,
		MovementInbound, MovementOutbound, MovementAdjustment:
		return t, nil
	}
	return "", fmt.Errorf("invalid movement type %q", raw)
}

// Direction maps a movement type to its quantity sign: +1 inbound,
// -1 outbound, 0 for ADJUSTMENT whose sign follows the applied delta.
func (t MovementType) Direction() int {
	switch t {
	case MovementPurchase, MovementReturn, MovementAdjustmentIn, MovementTransferIn, MovementInbound:
		return 1
	case MovementSale, MovementAdjustmentOut, MovementTransferOut, MovementOutbound:
		return -1
	default:
		return 0
	}
}

// LedgerType reduces a business movement type to the persisted form
func (t MovementType) LedgerType() MovementType {
	switch t.Direction() {
	case 1:
		return MovementInbound
	case -1:
		return MovementOutbound
	default:
		return MovementAdjustment
	}
}

// LedgerTypeForDelta picks the persisted movement type for a signed delta
func LedgerTypeForDelta(delta int) MovementType {
	if delta > 0 {
		return MovementInbound
	}
	return MovementOutbound
}

// InventoryMovement is an append-only ledger line. Movements are created
// in the same transaction as the record write and never changed after.
type InventoryMovement struct {
	ID          int64        `db:"id" json:"id"`
	InventoryID int64        `db:"inventory_id" json:"inventoryId"`
	Quantity    int          `db:"quantity" json:"quantity"`
	Type        MovementType `db:"type" json:"type"`
	Reason      string       `db:"reason" json:"reason"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
}

// DefaultMovementReason is used when a mutation omits a reason
const DefaultMovementReason = "Manual adjustment"
