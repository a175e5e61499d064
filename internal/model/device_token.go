package model

import "time"

// DeviceToken is an FCM registration for one employee's device at a branch.
// Tokens that FCM reports as invalid are deactivated, never deleted, so we
// can see how often a device re-registers.
type DeviceToken struct {
	ID         int64  `gorm:"primaryKey"`
	TenantID   int64  `gorm:"not null;index"`
	BranchID   int64  `gorm:"not null;index"`
	EmployeeID int64  `gorm:"not null;index"`
	Token      string `gorm:"not null;uniqueIndex:ux_device_tokens_token"`
	Platform   string `gorm:"type:varchar(10);not null;default:'android'"`
	IsActive   bool   `gorm:"not null;default:true;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
