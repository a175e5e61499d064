package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DebtBranchSummary aggregates outstanding debt per employee for a branch.
type DebtBranchSummary struct {
	EmployeeID   int64
	FullName     string
	DebtCount    int64
	TotalDeuda   decimal.Decimal
	TotalPagado  decimal.Decimal
	TotalPending decimal.Decimal
}

type DebtRepository interface {
	DB() *gorm.DB
	// InsertIgnore conflicts on the liquidation assignment, not the global id:
	// a replayed liquidation must never mint a second debt for the same
	// settlement.
	InsertIgnore(ctx context.Context, tx *gorm.DB, d *model.EmployeeDebt) (bool, error)
	FindByID(ctx context.Context, id int64) (*model.EmployeeDebt, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*model.EmployeeDebt, error)
	FindByAssignment(ctx context.Context, assignmentID int64) (*model.EmployeeDebt, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
	ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]model.EmployeeDebt, error)
	BranchSummary(ctx context.Context, tenantID, branchID int64) ([]DebtBranchSummary, error)
}

type debtRepo struct{ db *gorm.DB }

func NewDebtRepository(db *gorm.DB) DebtRepository { return &debtRepo{db: db} }

func (r *debtRepo) DB() *gorm.DB { return r.db }

func (r *debtRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, d *model.EmployeeDebt) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), d, "liquidation_assignment_id")
}

func (r *debtRepo) FindByID(ctx context.Context, id int64) (*model.EmployeeDebt, error) {
	var d model.EmployeeDebt
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *debtRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*model.EmployeeDebt, error) {
	var d model.EmployeeDebt
	err := forUpdate(tx.WithContext(ctx)).Where("id = ?", id).First(&d).Error
	return &d, err
}

func (r *debtRepo) FindByAssignment(ctx context.Context, assignmentID int64) (*model.EmployeeDebt, error) {
	var d model.EmployeeDebt
	err := r.db.WithContext(ctx).Where("liquidation_assignment_id = ?", assignmentID).First(&d).Error
	return &d, err
}

func (r *debtRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.EmployeeDebt{}).Where("id = ?", id).Updates(cols).Error
}

func (r *debtRepo) ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]model.EmployeeDebt, error) {
	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []model.EmployeeDebt
	err := q.Order("fecha_deuda DESC").Find(&out).Error
	return out, err
}

func (r *debtRepo) BranchSummary(ctx context.Context, tenantID, branchID int64) ([]DebtBranchSummary, error) {
	var out []DebtBranchSummary
	err := r.db.WithContext(ctx).Model(&model.EmployeeDebt{}).
		Select(`employee_debts.employee_id,
			employees.full_name,
			COUNT(*) AS debt_count,
			COALESCE(SUM(employee_debts.monto_deuda), 0) AS total_deuda,
			COALESCE(SUM(employee_debts.monto_pagado), 0) AS total_pagado,
			COALESCE(SUM(employee_debts.monto_deuda - employee_debts.monto_pagado), 0) AS total_pending`).
		Joins("JOIN employees ON employees.id = employee_debts.employee_id").
		Where("employee_debts.tenant_id = ? AND employee_debts.branch_id = ? AND employee_debts.status <> ?",
			tenantID, branchID, model.DebtPagado).
		Group("employee_debts.employee_id, employees.full_name").
		Order("total_pending DESC").
		Scan(&out).Error
	return out, err
}
