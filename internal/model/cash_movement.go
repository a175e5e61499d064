package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashMovement kinds. Deposits add to the drawer, expenses and withdrawals
// take from it.
const (
	MovementExpense    = "expense"
	MovementDeposit    = "deposit"
	MovementWithdrawal = "withdrawal"
)

// CashMovement is a manual drawer operation during a shift. Movements are
// never edited or deleted; mistakes are corrected with a compensating
// movement. Any write marks the shift's cash snapshot stale.
type CashMovement struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_movements_tenant_global,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_movements_tenant_global,priority:2"`

	Kind       string `gorm:"type:varchar(12);not null;index"`
	ShiftID    int64  `gorm:"not null;index"`
	EmployeeID int64  `gorm:"not null"`

	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	MovementDate time.Time      `gorm:"not null"`

	TerminalID      *uuid.UUID `gorm:"type:uuid"`
	CreatedLocalUTC *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
