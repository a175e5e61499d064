package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Cash cut sync ───────────────────────────────────────────────────────────

type SyncCashCutRequest struct {
	GlobalID         string  `json:"global_id"          validate:"required,uuid"`
	TerminalID       *string `json:"terminal_id"        validate:"omitempty,uuid"`
	EmployeeGlobalID string  `json:"employee_global_id" validate:"required,uuid"`
	ShiftGlobalID    *string `json:"shift_global_id"    validate:"omitempty,uuid"`

	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time"   validate:"required"`

	InitialAmount decimal.Decimal `json:"initial_amount" validate:"min=0"`
	CashSales     decimal.Decimal `json:"cash_sales"     validate:"min=0"`
	CardSales     decimal.Decimal `json:"card_sales"     validate:"min=0"`
	CreditSales   decimal.Decimal `json:"credit_sales"   validate:"min=0"`
	CashPayments  decimal.Decimal `json:"cash_payments"  validate:"min=0"`
	Expenses      decimal.Decimal `json:"expenses"       validate:"min=0"`
	Deposits      decimal.Decimal `json:"deposits"       validate:"min=0"`
	Withdrawals   decimal.Decimal `json:"withdrawals"    validate:"min=0"`

	ExpectedCashInDrawer decimal.Decimal  `json:"expected_cash_in_drawer" validate:"min=0"`
	CountedCash          *decimal.Decimal `json:"counted_cash"`
	Difference           *decimal.Decimal `json:"difference"`

	Notes    *string `json:"notes"`
	IsClosed bool    `json:"is_closed"`

	CreatedLocalUTC *time.Time `json:"created_local_utc"`
}

type SyncCashCutBatchRequest struct {
	CashCuts []SyncCashCutRequest `json:"cash_cuts" validate:"required,min=1,dive"`
}

// ─── Snapshot responses ──────────────────────────────────────────────────────

type CashSnapshotResponse struct {
	ShiftID int64 `json:"shift_id"`

	InitialAmount decimal.Decimal `json:"initial_amount"`
	CashSales     decimal.Decimal `json:"cash_sales"`
	CardSales     decimal.Decimal `json:"card_sales"`
	CreditSales   decimal.Decimal `json:"credit_sales"`
	CashPayments  decimal.Decimal `json:"cash_payments"`
	Expenses      decimal.Decimal `json:"expenses"`
	Deposits      decimal.Decimal `json:"deposits"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`

	AssignedTotal           decimal.Decimal `json:"assigned_total"`
	ReturnedTotal           decimal.Decimal `json:"returned_total"`
	NetAmountToDeliver      decimal.Decimal `json:"net_amount_to_deliver"`
	DeliveryLiquidationCash decimal.Decimal `json:"delivery_liquidation_cash"`
	DeliveryWorkerExpenses  decimal.Decimal `json:"delivery_worker_expenses"`

	ExpectedCash        decimal.Decimal  `json:"expected_cash"`
	ActualCashDelivered *decimal.Decimal `json:"actual_cash_delivered"`
	CashDifference      *decimal.Decimal `json:"cash_difference"`

	Frozen        bool   `json:"frozen"`
	LastUpdatedAt string `json:"last_updated_at"`
}

type CashCutResponse struct {
	ID                   int64            `json:"id"`
	GlobalID             string           `json:"global_id"`
	EmployeeID           int64            `json:"employee_id"`
	ShiftID              *int64           `json:"shift_id"`
	StartTime            string           `json:"start_time"`
	EndTime              string           `json:"end_time"`
	ExpectedCashInDrawer decimal.Decimal  `json:"expected_cash_in_drawer"`
	CountedCash          *decimal.Decimal `json:"counted_cash"`
	Difference           *decimal.Decimal `json:"difference"`
	IsClosed             bool             `json:"is_closed"`
}
