package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashCut is the close-of-shift reconciliation record: what the drawer
// should have held, what was counted, and the difference. Unlike the
// snapshot it is immutable once written.
type CashCut struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_cashcuts_tenant_global,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cashcuts_tenant_global,priority:2"`

	ShiftID    *int64 `gorm:"index"`
	EmployeeID int64  `gorm:"not null;index"`

	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`

	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashSales     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CardSales     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditSales   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashPayments  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Expenses      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Deposits      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Withdrawals   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	ExpectedCashInDrawer decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	CountedCash          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference           *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Notes    *string
	IsClosed bool `gorm:"not null;default:false"`
	// ReportPath points at the generated PDF, filled in by the report worker.
	ReportPath *string

	TerminalID      *uuid.UUID `gorm:"type:uuid"`
	CreatedLocalUTC *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
