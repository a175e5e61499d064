package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	DB() *gorm.DB
	InsertIgnore(ctx context.Context, tx *gorm.DB, a *model.DeliveryAssignment) (bool, error)
	FindByID(ctx context.Context, id int64) (*model.DeliveryAssignment, error)
	FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.DeliveryAssignment, error)
	FindByGlobalIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.DeliveryAssignment, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
	ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]model.DeliveryAssignment, error)
	ListLiquidatedBySale(ctx context.Context, tx *gorm.DB, saleID int64) ([]model.DeliveryAssignment, error)
	// SumForShift aggregates assigned amount and liquidated delivery cash over
	// a delivery worker's shift, feeding the reconciliation calculator.
	SumForShift(ctx context.Context, repartidorShiftID int64) (assigned, liquidationCash decimal.Decimal, err error)
}

type assignmentRepo struct{ db *gorm.DB }

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository { return &assignmentRepo{db: db} }

func (r *assignmentRepo) DB() *gorm.DB { return r.db }

func (r *assignmentRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, a *model.DeliveryAssignment) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), a, "tenant_id", "global_id")
}

func (r *assignmentRepo) FindByID(ctx context.Context, id int64) (*model.DeliveryAssignment, error) {
	var a model.DeliveryAssignment
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *assignmentRepo) FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.DeliveryAssignment, error) {
	var a model.DeliveryAssignment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&a).Error
	return &a, err
}

func (r *assignmentRepo) FindByGlobalIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.DeliveryAssignment, error) {
	var a model.DeliveryAssignment
	err := forUpdate(tx.WithContext(ctx)).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&a).Error
	return &a, err
}

func (r *assignmentRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.DeliveryAssignment{}).Where("id = ?", id).Updates(cols).Error
}

func (r *assignmentRepo) ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]model.DeliveryAssignment, error) {
	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []model.DeliveryAssignment
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *assignmentRepo) ListLiquidatedBySale(ctx context.Context, tx *gorm.DB, saleID int64) ([]model.DeliveryAssignment, error) {
	var out []model.DeliveryAssignment
	err := tx.WithContext(ctx).
		Where("sale_id = ? AND status = ?", saleID, model.AssignmentLiquidated).
		Find(&out).Error
	return out, err
}

func (r *assignmentRepo) SumForShift(ctx context.Context, repartidorShiftID int64) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Assigned        decimal.Decimal
		LiquidationCash decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.DeliveryAssignment{}).
		Select(`COALESCE(SUM(assigned_amount), 0) AS assigned,
			COALESCE(SUM(CASE WHEN status = 'liquidated' THEN actual_cash_delivered ELSE 0 END), 0) AS liquidation_cash`).
		Where("repartidor_shift_id = ? AND status <> ?", repartidorShiftID, model.AssignmentCancelled).
		Scan(&row).Error
	return row.Assigned, row.LiquidationCash, err
}
