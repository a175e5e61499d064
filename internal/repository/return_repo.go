package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReturnRepository interface {
	DB() *gorm.DB
	InsertIgnore(ctx context.Context, tx *gorm.DB, dr *model.DeliveryReturn) (bool, error)
	// FindByKey looks a return up by its full idempotency key. Desktop and
	// mobile may reuse a global_id, so the terminal is part of the key.
	FindByKeyForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID, terminalID uuid.UUID) (*model.DeliveryReturn, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
	ListByAssignment(ctx context.Context, assignmentID int64) ([]model.DeliveryReturn, error)
	SumByAssignment(ctx context.Context, tx *gorm.DB, assignmentID int64) (quantity, amount decimal.Decimal, err error)
	SumReturnedByShift(ctx context.Context, shiftID int64) (decimal.Decimal, error)
}

type returnRepo struct{ db *gorm.DB }

func NewReturnRepository(db *gorm.DB) ReturnRepository { return &returnRepo{db: db} }

func (r *returnRepo) DB() *gorm.DB { return r.db }

func (r *returnRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, dr *model.DeliveryReturn) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), dr, "tenant_id", "global_id", "terminal_id")
}

func (r *returnRepo) FindByKeyForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID, terminalID uuid.UUID) (*model.DeliveryReturn, error) {
	var dr model.DeliveryReturn
	err := forUpdate(tx.WithContext(ctx)).
		Where("tenant_id = ? AND global_id = ? AND terminal_id = ?", tenantID, globalID, terminalID).
		First(&dr).Error
	return &dr, err
}

func (r *returnRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.DeliveryReturn{}).Where("id = ?", id).Updates(cols).Error
}

func (r *returnRepo) ListByAssignment(ctx context.Context, assignmentID int64) ([]model.DeliveryReturn, error) {
	var out []model.DeliveryReturn
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("return_date ASC").
		Find(&out).Error
	return out, err
}

func (r *returnRepo) SumByAssignment(ctx context.Context, tx *gorm.DB, assignmentID int64) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Quantity decimal.Decimal
		Amount   decimal.Decimal
	}
	err := tx.WithContext(ctx).Model(&model.DeliveryReturn{}).
		Select("COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(amount), 0) AS amount").
		Where("assignment_id = ?", assignmentID).
		Scan(&row).Error
	return row.Quantity, row.Amount, err
}

func (r *returnRepo) SumReturnedByShift(ctx context.Context, shiftID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.DeliveryReturn{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("shift_id = ?", shiftID).
		Scan(&total).Error
	return total, err
}
