package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncReturnRequest registers unsold merchandise against an assignment.
// The assignment travels by global id only; a return whose assignment has
// not synced yet is rejected so the device retries later.
type SyncReturnRequest struct {
	GlobalID   string  `json:"global_id"   validate:"required,uuid"`
	TerminalID *string `json:"terminal_id" validate:"omitempty,uuid"`

	AssignmentGlobalID   string  `json:"assignment_global_id"    validate:"required,uuid"`
	EmployeeGlobalID     string  `json:"employee_global_id"      validate:"required,uuid"`
	RegisteredByGlobalID string  `json:"registered_by_global_id" validate:"required,uuid"`
	ShiftGlobalID        *string `json:"shift_global_id"         validate:"omitempty,uuid"`

	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	// UnitPrice and Amount are optional: when absent the server prices the
	// return at the assignment's effective unit price.
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Amount    *decimal.Decimal `json:"amount"`

	ReturnDate time.Time `json:"return_date" validate:"required"`
	Source     string    `json:"source"      validate:"omitempty,oneof=desktop mobile"`
	Notes      *string   `json:"notes"`

	CreatedLocalUTC *time.Time `json:"created_local_utc"`
}

type ReturnResponse struct {
	ID           int64           `json:"id"`
	GlobalID     string          `json:"global_id"`
	AssignmentID int64           `json:"assignment_id"`
	EmployeeID   int64           `json:"employee_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
	ReturnDate   string          `json:"return_date"`
	Source       string          `json:"source"`
}
