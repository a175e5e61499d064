package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift is a cash-drawer work session for one employee at one branch.
// At most one OPEN shift may exist per employee; the partial unique index
// enforcing that is created in infra.NewDatabase.
type Shift struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_shifts_tenant_global,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_shifts_tenant_global,priority:2"`
	// LocalShiftID is the device-local row id the terminal knows the shift by.
	// Two open requests with the same LocalShiftID come from the same device.
	LocalShiftID *int64
	TerminalID   *uuid.UUID `gorm:"type:uuid"`
	EmployeeID   int64      `gorm:"not null;index"`

	StartTime     time.Time       `gorm:"not null"`
	EndTime       *time.Time
	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsOpen        bool            `gorm:"not null;default:true;index"`
	// TransactionCounter mirrors the terminal's running operation count,
	// used by support to spot devices that drifted from the server.
	TransactionCounter int `gorm:"not null;default:0"`

	// AutoClosed marks shifts the server closed on behalf of a device that
	// never sent an explicit close (new device opened over a stale session).
	AutoClosed   bool `gorm:"not null;default:false"`
	AutoClosedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
