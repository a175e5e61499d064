package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Sync DTOs ───────────────────────────────────────────────────────────────

type SyncShiftOpenRequest struct {
	GlobalID         string  `json:"global_id"          validate:"required,uuid"`
	EmployeeGlobalID string  `json:"employee_global_id" validate:"required,uuid"`
	LocalShiftID     *int64  `json:"local_shift_id"`
	TerminalID       *string `json:"terminal_id"        validate:"omitempty,uuid"`

	StartTime          time.Time       `json:"start_time"          validate:"required"`
	InitialAmount      decimal.Decimal `json:"initial_amount"      validate:"min=0"`
	TransactionCounter int             `json:"transaction_counter" validate:"min=0"`
}

type SyncShiftCloseRequest struct {
	GlobalID           string           `json:"global_id" validate:"required,uuid"`
	EndTime            time.Time        `json:"end_time"  validate:"required"`
	FinalAmount        *decimal.Decimal `json:"final_amount"`
	TransactionCounter int              `json:"transaction_counter" validate:"min=0"`
}

// ─── Interactive DTOs ────────────────────────────────────────────────────────

type OpenShiftRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount" validate:"min=0"`
	LocalShiftID  *int64          `json:"local_shift_id"`
	TerminalID    *string         `json:"terminal_id"    validate:"omitempty,uuid"`
}

type CloseShiftRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash" validate:"min=0"`
	Notes       *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShiftResponse struct {
	ID                 int64            `json:"id"`
	GlobalID           string           `json:"global_id"`
	EmployeeID         int64            `json:"employee_id"`
	BranchID           int64            `json:"branch_id"`
	LocalShiftID       *int64           `json:"local_shift_id"`
	StartTime          string           `json:"start_time"`
	EndTime            *string          `json:"end_time"`
	InitialAmount      decimal.Decimal  `json:"initial_amount"`
	FinalAmount        *decimal.Decimal `json:"final_amount"`
	IsOpen             bool             `json:"is_open"`
	AutoClosed         bool             `json:"auto_closed"`
	TransactionCounter int              `json:"transaction_counter"`
}

type ShiftListResponse struct {
	Data  []ShiftResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ShiftHistoryFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// ShiftSummaryResponse is the live dashboard figure set for one shift.
type ShiftSummaryResponse struct {
	Shift        ShiftResponse   `json:"shift"`
	CashSales    decimal.Decimal `json:"cash_sales"`
	CardSales    decimal.Decimal `json:"card_sales"`
	CreditSales  decimal.Decimal `json:"credit_sales"`
	CashPayments decimal.Decimal `json:"cash_payments"`
	Expenses     decimal.Decimal `json:"expenses"`
	Deposits     decimal.Decimal `json:"deposits"`
	Withdrawals  decimal.Decimal `json:"withdrawals"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
}
