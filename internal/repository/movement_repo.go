package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MovementRepository interface {
	DB() *gorm.DB
	InsertIgnore(ctx context.Context, tx *gorm.DB, m *model.CashMovement) (bool, error)
	FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.CashMovement, error)
	ListByShift(ctx context.Context, tenantID, shiftID int64, kind string) ([]model.CashMovement, error)
	// SumByShift returns totals keyed by movement kind for one shift.
	SumByShift(ctx context.Context, shiftID int64) (map[string]decimal.Decimal, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) DB() *gorm.DB { return r.db }

func (r *movementRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, m *model.CashMovement) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), m, "tenant_id", "global_id")
}

func (r *movementRepo) FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.CashMovement, error) {
	var m model.CashMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movementRepo) ListByShift(ctx context.Context, tenantID, shiftID int64, kind string) ([]model.CashMovement, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ? AND shift_id = ?", tenantID, shiftID)
	if kind != "" && kind != "all" {
		q = q.Where("kind = ?", kind)
	}
	var out []model.CashMovement
	err := q.Order("movement_date ASC").Find(&out).Error
	return out, err
}

func (r *movementRepo) SumByShift(ctx context.Context, shiftID int64) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Kind  string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total").
		Where("shift_id = ?", shiftID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]decimal.Decimal{
		model.MovementExpense:    decimal.Zero,
		model.MovementDeposit:    decimal.Zero,
		model.MovementWithdrawal: decimal.Zero,
	}
	for _, row := range rows {
		out[row.Kind] = row.Total
	}
	return out, nil
}
