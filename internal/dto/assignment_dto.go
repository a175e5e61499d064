package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Sync DTOs ───────────────────────────────────────────────────────────────

// SyncAssignmentRequest carries one delivery assignment from a device. All
// cross-record references travel as global ids; the server resolves them to
// numeric ids before writing.
type SyncAssignmentRequest struct {
	GlobalID          string  `json:"global_id"           validate:"required,uuid"`
	TerminalID        *string `json:"terminal_id"         validate:"omitempty,uuid"`
	EmployeeGlobalID  string  `json:"employee_global_id"  validate:"required,uuid"`
	CreatedByGlobalID string  `json:"created_by_global_id" validate:"required,uuid"`
	// Optional references: absent when the parent record has not synced yet.
	ShiftGlobalID           *string `json:"shift_global_id"            validate:"omitempty,uuid"`
	RepartidorShiftGlobalID *string `json:"repartidor_shift_global_id" validate:"omitempty,uuid"`
	SaleGlobalID            *string `json:"sale_global_id"             validate:"omitempty,uuid"`

	AssignedQuantity decimal.Decimal `json:"assigned_quantity" validate:"required,gt=0"`
	AssignedAmount   decimal.Decimal `json:"assigned_amount"   validate:"required,gt=0"`
	UnitPrice        decimal.Decimal `json:"unit_price"        validate:"min=0"`

	Status string `json:"status" validate:"omitempty,oneof=pending liquidated cancelled"`

	CashAmount           *decimal.Decimal `json:"cash_amount"`
	CardAmount           *decimal.Decimal `json:"card_amount"`
	CreditAmount         *decimal.Decimal `json:"credit_amount"`
	ActualCashDelivered  *decimal.Decimal `json:"actual_cash_delivered"`
	LiquidatedAt         *time.Time       `json:"liquidated_at"`
	LiquidatedByGlobalID *string          `json:"liquidated_by_global_id" validate:"omitempty,uuid"`

	WasEdited  bool    `json:"was_edited"`
	EditReason *string `json:"edit_reason"`

	CancelledAt  *time.Time `json:"cancelled_at"`
	CancelReason *string    `json:"cancel_reason"`
	Notes        *string    `json:"notes"`

	CreatedLocalUTC *time.Time `json:"created_local_utc"`
}

type SyncAssignmentBatchRequest struct {
	Assignments []SyncAssignmentRequest `json:"assignments" validate:"required,min=1,dive"`
}

// LiquidateAssignmentRequest settles an assignment: the payment split as the
// route customers paid, and the cash the worker physically handed in.
type LiquidateAssignmentRequest struct {
	CashAmount           decimal.Decimal `json:"cash_amount"   validate:"min=0"`
	CardAmount           decimal.Decimal `json:"card_amount"   validate:"min=0"`
	CreditAmount         decimal.Decimal `json:"credit_amount" validate:"min=0"`
	ActualCashDelivered  decimal.Decimal `json:"actual_cash_delivered" validate:"min=0"`
	LiquidatedByGlobalID string          `json:"liquidated_by_global_id" validate:"required,uuid"`
	LiquidatedAt         *time.Time      `json:"liquidated_at"`
	Notes                *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AssignmentResponse struct {
	ID                  int64            `json:"id"`
	GlobalID            string           `json:"global_id"`
	EmployeeID          int64            `json:"employee_id"`
	Status              string           `json:"status"`
	AssignedQuantity    decimal.Decimal  `json:"assigned_quantity"`
	AssignedAmount      decimal.Decimal  `json:"assigned_amount"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	ReturnedQuantity    decimal.Decimal  `json:"returned_quantity"`
	ReturnedAmount      decimal.Decimal  `json:"returned_amount"`
	NetAmountToDeliver  decimal.Decimal  `json:"net_amount_to_deliver"`
	ActualCashDelivered *decimal.Decimal `json:"actual_cash_delivered"`
	WasEdited           bool             `json:"was_edited"`
	CreatedAt           string           `json:"created_at"`
}

type LiquidationResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	// Difference is delivered minus net-to-deliver; negative created a debt.
	Difference decimal.Decimal `json:"difference"`
	DebtID     *int64          `json:"debt_id,omitempty"`
	MontoDeuda *decimal.Decimal `json:"monto_deuda,omitempty"`
}

// RepartidorSummaryItem is one row of GET /api/repartidores/summary.
type RepartidorSummaryItem struct {
	EmployeeID         int64           `json:"employee_id"`
	FullName           string          `json:"full_name"`
	PendingAssignments int64           `json:"pending_assignments"`
	AssignedTotal      decimal.Decimal `json:"assigned_total"`
	ReturnedTotal      decimal.Decimal `json:"returned_total"`
	NetAmountToDeliver decimal.Decimal `json:"net_amount_to_deliver"`
	PendingDebt        decimal.Decimal `json:"pending_debt"`
}
