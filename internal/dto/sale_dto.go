package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Sale sync ───────────────────────────────────────────────────────────────

type SyncSaleRequest struct {
	GlobalID         string  `json:"global_id"          validate:"required,uuid"`
	TerminalID       *string `json:"terminal_id"        validate:"omitempty,uuid"`
	EmployeeGlobalID string  `json:"employee_global_id" validate:"required,uuid"`
	ShiftGlobalID    *string `json:"shift_global_id"    validate:"omitempty,uuid"`

	TicketNumber int64           `json:"ticket_number" validate:"min=0"`
	TotalAmount  decimal.Decimal `json:"total_amount"  validate:"required"`
	CashAmount   decimal.Decimal `json:"cash_amount"   validate:"min=0"`
	CardAmount   decimal.Decimal `json:"card_amount"   validate:"min=0"`
	CreditAmount decimal.Decimal `json:"credit_amount" validate:"min=0"`
	PaymentMethod string         `json:"payment_method" validate:"omitempty,oneof=cash card credit mixed"`
	SaleType      string         `json:"sale_type"      validate:"omitempty,oneof=sale payment"`

	SaleDate        time.Time  `json:"sale_date" validate:"required"`
	CreatedLocalUTC *time.Time `json:"created_local_utc"`
}

type SyncSaleBatchRequest struct {
	Sales []SyncSaleRequest `json:"sales" validate:"required,min=1,dive"`
}

// ─── Cash movement sync ──────────────────────────────────────────────────────

// SyncMovementRequest serves expenses, deposits and withdrawals; the kind
// comes from the route, not the payload.
type SyncMovementRequest struct {
	GlobalID         string  `json:"global_id"          validate:"required,uuid"`
	TerminalID       *string `json:"terminal_id"        validate:"omitempty,uuid"`
	EmployeeGlobalID string  `json:"employee_global_id" validate:"required,uuid"`
	ShiftGlobalID    string  `json:"shift_global_id"    validate:"required,uuid"`

	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Description string          `json:"description" validate:"required,min=2"`
	Date        time.Time       `json:"date"        validate:"required"`

	CreatedLocalUTC *time.Time `json:"created_local_utc"`
}
