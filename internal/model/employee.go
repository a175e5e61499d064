package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee roles. Role names drive both route authorization and the
// capability level granted to the mobile app.
const (
	RoleAdministrador = "administrador"
	RoleEncargado     = "encargado"
	RoleCajero        = "cajero"
	RoleRepartidor    = "repartidor"
)

// Mobile capability levels derived from the role.
const (
	MobileNone  = "none"
	MobileBasic = "basic"
	MobileAdmin = "admin"
)

// Employee is a person working at a branch. Rows are server-authoritative:
// devices reference employees by GlobalID, never by the numeric ID.
type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	TenantID     int64     `gorm:"not null;uniqueIndex:ux_employees_tenant_global,priority:1;index"`
	GlobalID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_employees_tenant_global,priority:2"`
	HomeBranchID int64     `gorm:"not null;index"`
	Username     string    `gorm:"not null;index"`
	FullName     string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MobileCapability maps the role to what the mobile app may do.
// Supervisors get the admin surface, delivery workers the basic one,
// desk cashiers have no mobile access at all.
func (e *Employee) MobileCapability() string {
	switch e.Role {
	case RoleAdministrador, RoleEncargado:
		return MobileAdmin
	case RoleRepartidor:
		return MobileBasic
	default:
		return MobileNone
	}
}
