package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeDebt status values. Status only moves forward:
// pendiente -> parcial -> pagado.
const (
	DebtPendiente = "pendiente"
	DebtParcial   = "parcial"
	DebtPagado    = "pagado"
)

// EmployeeDebt records cash a delivery worker still owes after a
// liquidation came up short. One debt per liquidated assignment at most;
// the unique index on LiquidationAssignmentID makes replayed liquidations
// harmless.
type EmployeeDebt struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_debts_tenant_global,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_debts_tenant_global,priority:2"`

	EmployeeID              int64  `gorm:"not null;index"`
	LiquidationAssignmentID int64  `gorm:"not null;uniqueIndex:ux_debts_assignment"`
	ShiftID                 *int64

	MontoDeuda  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status      string          `gorm:"type:varchar(10);not null;default:'pendiente';index"`

	FechaDeuda  time.Time `gorm:"not null"`
	FechaPagado *time.Time
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outstanding is what remains unpaid.
func (d *EmployeeDebt) Outstanding() decimal.Decimal {
	return d.MontoDeuda.Sub(d.MontoPagado)
}
