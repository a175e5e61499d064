package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
	InsertIgnore(ctx context.Context, tx *gorm.DB, s *model.Shift) (bool, error)
	FindByID(ctx context.Context, id int64) (*model.Shift, error)
	FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.Shift, error)
	FindByGlobalIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.Shift, error)
	FindOpenByEmployee(ctx context.Context, tenantID, employeeID int64) (*model.Shift, error)
	FindOpenByEmployeeForUpdate(ctx context.Context, tx *gorm.DB, tenantID, employeeID int64) (*model.Shift, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
	History(ctx context.Context, tenantID, branchID int64, limit, offset int) ([]model.Shift, int64, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) DB() *gorm.DB { return r.db }

func (r *shiftRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, s *model.Shift) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), s, "tenant_id", "global_id")
}

func (r *shiftRepo) FindByID(ctx context.Context, id int64) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *shiftRepo) FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) FindByGlobalIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := forUpdate(tx.WithContext(ctx)).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) FindOpenByEmployee(ctx context.Context, tenantID, employeeID int64) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND is_open = true", tenantID, employeeID).
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) FindOpenByEmployeeForUpdate(ctx context.Context, tx *gorm.DB, tenantID, employeeID int64) (*model.Shift, error) {
	var s model.Shift
	err := forUpdate(tx.WithContext(ctx)).
		Where("tenant_id = ? AND employee_id = ? AND is_open = true", tenantID, employeeID).
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.Shift{}).Where("id = ?", id).Updates(cols).Error
}

func (r *shiftRepo) History(ctx context.Context, tenantID, branchID int64, limit, offset int) ([]model.Shift, int64, error) {
	var shifts []model.Shift
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Shift{}).
		Where("tenant_id = ? AND branch_id = ?", tenantID, branchID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("start_time DESC").Offset(offset).Limit(limit).Find(&shifts).Error
	return shifts, total, err
}
