package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleTotals are the per-method sums over a shift used by reconciliation.
// CashPayments is cash received on debt/credit payments, kept apart from
// cash sales because both feed the expected-cash formula separately.
type SaleTotals struct {
	CashSales    decimal.Decimal
	CardSales    decimal.Decimal
	CreditSales  decimal.Decimal
	CashPayments decimal.Decimal
}

type SaleRepository interface {
	DB() *gorm.DB
	InsertIgnore(ctx context.Context, tx *gorm.DB, s *model.Sale) (bool, error)
	FindByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Sale, error)
	FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.Sale, error)
	FindByGlobalIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.Sale, error)
	UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error
	SumByShift(ctx context.Context, shiftID int64) (SaleTotals, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) InsertIgnore(ctx context.Context, tx *gorm.DB, s *model.Sale) (bool, error) {
	return insertIgnore(tx.WithContext(ctx), s, "tenant_id", "global_id")
}

func (r *saleRepo) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Sale, error) {
	var s model.Sale
	err := tx.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) FindByGlobalIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := forUpdate(tx.WithContext(ctx)).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) UpdateColumns(ctx context.Context, tx *gorm.DB, id int64, cols map[string]any) error {
	return tx.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", id).Updates(cols).Error
}

func (r *saleRepo) SumByShift(ctx context.Context, shiftID int64) (SaleTotals, error) {
	var t SaleTotals
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`COALESCE(SUM(CASE WHEN sale_type = 'sale' THEN cash_amount ELSE 0 END), 0) AS cash_sales,
			COALESCE(SUM(CASE WHEN sale_type = 'sale' THEN card_amount ELSE 0 END), 0) AS card_sales,
			COALESCE(SUM(CASE WHEN sale_type = 'sale' THEN credit_amount ELSE 0 END), 0) AS credit_sales,
			COALESCE(SUM(CASE WHEN sale_type = 'payment' THEN cash_amount ELSE 0 END), 0) AS cash_payments`).
		Where("shift_id = ?", shiftID).
		Scan(&t).Error
	return t, err
}
