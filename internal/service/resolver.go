package service

import (
	"context"
	"errors"
	"fmt"

	"syapos/internal/model"
	"syapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver translates the global ids devices speak into server row ids.
// Required references fail with ErrUnresolvedReference when absent, so the
// device knows to sync the parent record first and retry. Optional
// references resolve to nil instead: the row syncs now and the link heals
// on a later pass.
type Resolver interface {
	ResolveEmployee(ctx context.Context, tenantID int64, globalID string) (*model.Employee, error)
	ResolveShiftID(ctx context.Context, tenantID int64, globalID *string, required bool) (*int64, error)
	ResolveSaleID(ctx context.Context, tenantID int64, globalID *string) (*int64, error)
	ResolveAssignment(ctx context.Context, tenantID int64, globalID string) (*model.DeliveryAssignment, error)
}

type resolver struct {
	employees   repository.EmployeeRepository
	shifts      repository.ShiftRepository
	sales       repository.SaleRepository
	assignments repository.AssignmentRepository
}

func NewResolver(
	employees repository.EmployeeRepository,
	shifts repository.ShiftRepository,
	sales repository.SaleRepository,
	assignments repository.AssignmentRepository,
) Resolver {
	return &resolver{employees: employees, shifts: shifts, sales: sales, assignments: assignments}
}

func (r *resolver) ResolveEmployee(ctx context.Context, tenantID int64, globalID string) (*model.Employee, error) {
	gid, err := uuid.Parse(globalID)
	if err != nil {
		return nil, fmt.Errorf("employee_global_id invalido: %w", err)
	}
	emp, err := r.employees.FindByGlobalID(ctx, tenantID, gid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("empleado %s: %w", globalID, ErrUnresolvedReference)
		}
		return nil, err
	}
	return emp, nil
}

func (r *resolver) ResolveShiftID(ctx context.Context, tenantID int64, globalID *string, required bool) (*int64, error) {
	if globalID == nil || *globalID == "" {
		if required {
			return nil, fmt.Errorf("shift_global_id requerido: %w", ErrUnresolvedReference)
		}
		return nil, nil
	}
	gid, err := uuid.Parse(*globalID)
	if err != nil {
		return nil, fmt.Errorf("shift_global_id invalido: %w", err)
	}
	sh, err := r.shifts.FindByGlobalID(ctx, tenantID, gid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if required {
				return nil, fmt.Errorf("turno %s: %w", *globalID, ErrUnresolvedReference)
			}
			// Optional link: leave unresolved, the row still syncs.
			return nil, nil
		}
		return nil, err
	}
	return &sh.ID, nil
}

func (r *resolver) ResolveSaleID(ctx context.Context, tenantID int64, globalID *string) (*int64, error) {
	if globalID == nil || *globalID == "" {
		return nil, nil
	}
	gid, err := uuid.Parse(*globalID)
	if err != nil {
		return nil, fmt.Errorf("sale_global_id invalido: %w", err)
	}
	sale, err := r.sales.FindByGlobalID(ctx, tenantID, gid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale.ID, nil
}

func (r *resolver) ResolveAssignment(ctx context.Context, tenantID int64, globalID string) (*model.DeliveryAssignment, error) {
	gid, err := uuid.Parse(globalID)
	if err != nil {
		return nil, fmt.Errorf("assignment_global_id invalido: %w", err)
	}
	a, err := r.assignments.FindByGlobalID(ctx, tenantID, gid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("asignacion %s: %w", globalID, ErrUnresolvedReference)
		}
		return nil, err
	}
	return a, nil
}
