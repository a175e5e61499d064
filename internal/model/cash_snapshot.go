package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashSnapshot caches the reconciliation figures for one shift. Exactly one
// row per shift. Writers that change any input set NeedsRecalculation; the
// read path recomputes before serving a stale row. Closing the shift
// freezes the snapshot so history never drifts.
type CashSnapshot struct {
	ID       int64 `gorm:"primaryKey"`
	TenantID int64 `gorm:"not null;index"`
	BranchID int64 `gorm:"not null;index"`
	ShiftID  int64 `gorm:"not null;uniqueIndex:ux_snapshots_shift"`

	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashSales     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CardSales     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditSales   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashPayments  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Expenses      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Deposits      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Withdrawals   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Delivery-side figures, only meaningful for delivery-worker shifts.
	AssignedTotal           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ReturnedTotal           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NetAmountToDeliver      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeliveryLiquidationCash decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeliveryWorkerExpenses  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	ExpectedCash        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ActualCashDelivered *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashDifference      *decimal.Decimal `gorm:"type:decimal(12,2)"`

	NeedsRecalculation bool `gorm:"not null;default:true"`
	// Frozen snapshots belong to closed shifts and are never recomputed.
	Frozen        bool `gorm:"not null;default:false"`
	LastUpdatedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
