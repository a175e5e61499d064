package repository

import (
	"context"

	"syapos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceTokenRepository interface {
	// Save upserts on the token string: a device that re-registers moves to
	// the new employee/branch and reactivates.
	Save(ctx context.Context, t *model.DeviceToken) error
	ListActiveByBranch(ctx context.Context, tenantID, branchID int64) ([]string, error)
	// ListActiveSupervisorsByBranch narrows to devices of administrators and
	// encargados, for events only supervisors should see.
	ListActiveSupervisorsByBranch(ctx context.Context, tenantID, branchID int64) ([]string, error)
	ListActiveByEmployee(ctx context.Context, employeeID int64) ([]string, error)
	Deactivate(ctx context.Context, tokens []string) error
}

type deviceTokenRepo struct{ db *gorm.DB }

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository { return &deviceTokenRepo{db: db} }

func (r *deviceTokenRepo) Save(ctx context.Context, t *model.DeviceToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "branch_id", "employee_id", "platform", "is_active", "updated_at"}),
	}).Create(t).Error
}

func (r *deviceTokenRepo) ListActiveByBranch(ctx context.Context, tenantID, branchID int64) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Distinct("token").
		Where("tenant_id = ? AND branch_id = ? AND is_active = true", tenantID, branchID).
		Pluck("token", &tokens).Error
	return tokens, err
}

func (r *deviceTokenRepo) ListActiveSupervisorsByBranch(ctx context.Context, tenantID, branchID int64) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Distinct("device_tokens.token").
		Joins("JOIN employees ON employees.id = device_tokens.employee_id").
		Where("device_tokens.tenant_id = ? AND device_tokens.branch_id = ? AND device_tokens.is_active = true", tenantID, branchID).
		Where("employees.role IN ?", []string{model.RoleAdministrador, model.RoleEncargado}).
		Pluck("device_tokens.token", &tokens).Error
	return tokens, err
}

func (r *deviceTokenRepo) ListActiveByEmployee(ctx context.Context, employeeID int64) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Distinct("token").
		Where("employee_id = ? AND is_active = true", employeeID).
		Pluck("token", &tokens).Error
	return tokens, err
}

func (r *deviceTokenRepo) Deactivate(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("token IN ?", tokens).
		Update("is_active", false).Error
}
