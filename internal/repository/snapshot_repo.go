package repository

import (
	"context"

	"syapos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepository interface {
	DB() *gorm.DB
	FindByShift(ctx context.Context, shiftID int64) (*model.CashSnapshot, error)
	FindByShiftForUpdate(ctx context.Context, tx *gorm.DB, shiftID int64) (*model.CashSnapshot, error)
	// Save upserts on shift_id so concurrent recomputes collapse to one row.
	Save(ctx context.Context, tx *gorm.DB, s *model.CashSnapshot) error
	// MarkStale flips NeedsRecalculation on a shift's snapshot unless it is
	// frozen. Writers call it after any change to a reconciliation input.
	MarkStale(ctx context.Context, tx *gorm.DB, shiftID int64) error
	// ListStale returns unfrozen snapshots flagged for recalculation, oldest
	// first, for the background sweep.
	ListStale(ctx context.Context, limit int) ([]model.CashSnapshot, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
}

type snapshotRepo struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository { return &snapshotRepo{db: db} }

func (r *snapshotRepo) DB() *gorm.DB { return r.db }

func (r *snapshotRepo) FindByShift(ctx context.Context, shiftID int64) (*model.CashSnapshot, error) {
	var s model.CashSnapshot
	err := r.db.WithContext(ctx).Where("shift_id = ?", shiftID).First(&s).Error
	return &s, err
}

func (r *snapshotRepo) FindByShiftForUpdate(ctx context.Context, tx *gorm.DB, shiftID int64) (*model.CashSnapshot, error) {
	var s model.CashSnapshot
	err := forUpdate(tx.WithContext(ctx)).Where("shift_id = ?", shiftID).First(&s).Error
	return &s, err
}

func (r *snapshotRepo) Save(ctx context.Context, tx *gorm.DB, s *model.CashSnapshot) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shift_id"}},
		UpdateAll: true,
	}).Create(s).Error
}

func (r *snapshotRepo) MarkStale(ctx context.Context, tx *gorm.DB, shiftID int64) error {
	return tx.WithContext(ctx).Model(&model.CashSnapshot{}).
		Where("shift_id = ? AND frozen = false", shiftID).
		Update("needs_recalculation", true).Error
}

func (r *snapshotRepo) ListStale(ctx context.Context, limit int) ([]model.CashSnapshot, error) {
	var snaps []model.CashSnapshot
	err := r.db.WithContext(ctx).
		Where("needs_recalculation = true AND frozen = false").
		Order("updated_at ASC").
		Limit(limit).
		Find(&snaps).Error
	return snaps, err
}

func (r *snapshotRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.CashSnapshot{}).Where("id = ?", id).Updates(cols).Error
}
