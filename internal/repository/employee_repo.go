package repository

import (
	"context"

	"syapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id int64) (*model.Employee, error)
	FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.Employee, error)
	FindByUsername(ctx context.Context, tenantID int64, username string) (*model.Employee, error)
	ListByBranch(ctx context.Context, tenantID, branchID int64) ([]model.Employee, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *employeeRepo) FindByGlobalID(ctx context.Context, tenantID int64, globalID uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND global_id = ?", tenantID, globalID).
		First(&e).Error
	return &e, err
}

func (r *employeeRepo) FindByUsername(ctx context.Context, tenantID int64, username string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND username = ? AND active = true", tenantID, username).
		First(&e).Error
	return &e, err
}

func (r *employeeRepo) ListByBranch(ctx context.Context, tenantID, branchID int64) ([]model.Employee, error) {
	var out []model.Employee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND home_branch_id = ? AND active = true", tenantID, branchID).
		Order("full_name ASC").
		Find(&out).Error
	return out, err
}
