package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterDebtPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Notes  *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DebtResponse struct {
	ID                      int64           `json:"id"`
	GlobalID                string          `json:"global_id"`
	EmployeeID              int64           `json:"employee_id"`
	LiquidationAssignmentID int64           `json:"liquidation_assignment_id"`
	MontoDeuda              decimal.Decimal `json:"monto_deuda"`
	MontoPagado             decimal.Decimal `json:"monto_pagado"`
	Outstanding             decimal.Decimal `json:"outstanding"`
	Status                  string          `json:"status"`
	FechaDeuda              string          `json:"fecha_deuda"`
	FechaPagado             *string         `json:"fecha_pagado"`
}

type DebtBranchSummaryResponse struct {
	EmployeeID   int64           `json:"employee_id"`
	FullName     string          `json:"full_name"`
	DebtCount    int64           `json:"debt_count"`
	TotalDeuda   decimal.Decimal `json:"total_deuda"`
	TotalPagado  decimal.Decimal `json:"total_pagado"`
	TotalPending decimal.Decimal `json:"total_pending"`
}
