package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryAssignment status values.
const (
	AssignmentPending    = "pending"
	AssignmentLiquidated = "liquidated"
	AssignmentCancelled  = "cancelled"
)

// DeliveryAssignment is merchandise handed to a delivery worker to sell on
// route. It is created either from the desk (standalone) or attached to a
// credit sale, and settles through the liquidation flow.
type DeliveryAssignment struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_assignments_tenant_global,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_assignments_tenant_global,priority:2"`

	// EmployeeID is the delivery worker carrying the goods.
	EmployeeID          int64  `gorm:"not null;index"`
	CreatedByEmployeeID int64  `gorm:"not null"`
	// ShiftID is the desk shift the assignment left from; RepartidorShiftID is
	// the delivery worker's own shift. Either may be absent on offline rows
	// whose shift has not synced yet.
	ShiftID           *int64 `gorm:"index"`
	RepartidorShiftID *int64
	// SaleID links sale-attached assignments back to their credit sale.
	SaleID *int64 `gorm:"index"`

	AssignedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	AssignedAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Payment split recorded at liquidation.
	CashAmount   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CardAmount   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreditAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ActualCashDelivered is the cash the worker physically handed over.
	ActualCashDelivered    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	LiquidatedAt           *time.Time
	LiquidatedByEmployeeID *int64

	// WasEdited marks post-creation edits to the assigned figures; the reason
	// is mandatory when set.
	WasEdited  bool `gorm:"not null;default:false"`
	EditReason *string

	CancelledAt  *time.Time
	CancelReason *string
	Notes        *string

	TerminalID      *uuid.UUID `gorm:"type:uuid"`
	CreatedLocalUTC *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NetAmountToDeliver is assigned value minus everything returned. The caller
// supplies the summed returns because the model row does not carry them.
func (a *DeliveryAssignment) NetAmountToDeliver(returnedAmount decimal.Decimal) decimal.Decimal {
	return a.AssignedAmount.Sub(returnedAmount)
}
