package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashCutRepository interface {
	DB() *gorm.DB
	InsertIgnore(ctx context.Context, tx *gorm.DB, c *model.CashCut) (bool, error)
	FindByID(ctx context.Context, id int64) (*model.CashCut, error)
	FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.CashCut, error)
	FindByShift(ctx context.Context, shiftID int64) (*model.CashCut, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
	ListByBranch(ctx context.Context, tenantID, branchID int64, limit, offset int) ([]model.CashCut, int64, error)
}

type cashCutRepo struct{ db *gorm.DB }

func NewCashCutRepository(db *gorm.DB) CashCutRepository { return &cashCutRepo{db: db} }

func (r *cashCutRepo) DB() *gorm.DB { return r.db }

func (r *cashCutRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, c *model.CashCut) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), c, "tenant_id", "global_id")
}

func (r *cashCutRepo) FindByID(ctx context.Context, id int64) (*model.CashCut, error) {
	var c model.CashCut
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cashCutRepo) FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.CashCut, error) {
	var c model.CashCut
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&c).Error
	return &c, err
}

func (r *cashCutRepo) FindByShift(ctx context.Context, shiftID int64) (*model.CashCut, error) {
	var c model.CashCut
	err := r.db.WithContext(ctx).Where("shift_id = ?", shiftID).First(&c).Error
	return &c, err
}

func (r *cashCutRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.CashCut{}).Where("id = ?", id).Updates(cols).Error
}

func (r *cashCutRepo) ListByBranch(ctx context.Context, tenantID, branchID int64, limit, offset int) ([]model.CashCut, int64, error) {
	var cuts []model.CashCut
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashCut{}).
		Where("tenant_id = ? AND branch_id = ?", tenantID, branchID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("end_time DESC").Offset(offset).Limit(limit).Find(&cuts).Error
	return cuts, total, err
}
