package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryReturn sources.
const (
	ReturnSourceDesktop = "desktop"
	ReturnSourceMobile  = "mobile"
)

// DeliveryReturn is unsold merchandise a delivery worker brought back
// against an assignment. Desktop and mobile can both register returns for
// the same assignment, so the idempotency key includes the terminal:
// (tenant_id, global_id, terminal_id). TerminalID defaults to the zero UUID
// for rows created before terminals reported one.
type DeliveryReturn struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_returns_tenant_global_terminal,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_returns_tenant_global_terminal,priority:2"`
	TerminalID uuid.UUID `gorm:"type:uuid;not null;default:'00000000-0000-0000-0000-000000000000';uniqueIndex:ux_returns_tenant_global_terminal,priority:3"`

	AssignmentID int64 `gorm:"not null;index"`
	// EmployeeID is the delivery worker; RegisteredByEmployeeID whoever typed
	// the return in (desk staff or the worker themselves).
	EmployeeID             int64 `gorm:"not null;index"`
	RegisteredByEmployeeID int64 `gorm:"not null"`
	ShiftID                *int64

	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	ReturnDate time.Time `gorm:"not null"`
	Source     string    `gorm:"type:varchar(10);not null;default:'desktop'"`
	Notes      *string

	CreatedLocalUTC *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
