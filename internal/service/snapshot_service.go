package service

import (
	"context"
	"errors"
	"time"

	"syapos/internal/model"
	"syapos/internal/reconcile"
	"syapos/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SnapshotService maintains the per-shift cash snapshot. Writers mark it
// stale, readers recompute on demand, and closing a shift freezes it.
type SnapshotService interface {
	// GetForShift serves the snapshot, recomputing first when it is stale,
	// missing, or force is set. Frozen snapshots are returned as stored.
	// Shifts of another tenant answer ErrNotFound.
	GetForShift(ctx context.Context, tenantID, shiftID int64, force bool) (*model.CashSnapshot, error)
	MarkStale(ctx context.Context, tx *gorm.DB, shiftID int64) error
	Recompute(ctx context.Context, shiftID int64) (*model.CashSnapshot, error)
	// Freeze recomputes one last time, stamps the delivered cash and
	// difference when given, and pins the snapshot against further writes.
	Freeze(ctx context.Context, shiftID int64, actualDelivered *decimal.Decimal) (*model.CashSnapshot, error)
}

type snapshotService struct {
	snapshots   repository.SnapshotRepository
	shifts      repository.ShiftRepository
	employees   repository.EmployeeRepository
	sales       repository.SaleRepository
	movements   repository.MovementRepository
	assignments repository.AssignmentRepository
	returns     repository.ReturnRepository
	log         zerolog.Logger
}

func NewSnapshotService(
	snapshots repository.SnapshotRepository,
	shifts repository.ShiftRepository,
	employees repository.EmployeeRepository,
	sales repository.SaleRepository,
	movements repository.MovementRepository,
	assignments repository.AssignmentRepository,
	returns repository.ReturnRepository,
	log zerolog.Logger,
) SnapshotService {
	return &snapshotService{
		snapshots:   snapshots,
		shifts:      shifts,
		employees:   employees,
		sales:       sales,
		movements:   movements,
		assignments: assignments,
		returns:     returns,
		log:         log,
	}
}

func (s *snapshotService) GetForShift(ctx context.Context, tenantID, shiftID int64, force bool) (*model.CashSnapshot, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil || shift.TenantID != tenantID {
		return nil, ErrNotFound
	}
	snap, err := s.snapshots.FindByShift(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Recompute(ctx, shiftID)
		}
		return nil, err
	}
	if snap.Frozen {
		return snap, nil
	}
	if snap.NeedsRecalculation || force {
		return s.Recompute(ctx, shiftID)
	}
	return snap, nil
}

func (s *snapshotService) MarkStale(ctx context.Context, tx *gorm.DB, shiftID int64) error {
	if tx == nil {
		tx = s.snapshots.DB()
	}
	if tx == nil {
		return nil
	}
	return s.snapshots.MarkStale(ctx, tx, shiftID)
}

func (s *snapshotService) Recompute(ctx context.Context, shiftID int64) (*model.CashSnapshot, error) {
	snap, err := s.build(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if db := s.snapshots.DB(); db != nil {
		if err := s.snapshots.Save(ctx, db, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (s *snapshotService) Freeze(ctx context.Context, shiftID int64, actualDelivered *decimal.Decimal) (*model.CashSnapshot, error) {
	// Already frozen: keep the historical figures untouched.
	if existing, err := s.snapshots.FindByShift(ctx, shiftID); err == nil && existing.Frozen {
		return existing, nil
	}

	snap, err := s.build(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	snap.Frozen = true
	snap.NeedsRecalculation = false
	if actualDelivered != nil {
		diff := reconcile.Difference(*actualDelivered, snap.ExpectedCash)
		snap.ActualCashDelivered = actualDelivered
		snap.CashDifference = &diff
	}
	if db := s.snapshots.DB(); db != nil {
		if err := s.snapshots.Save(ctx, db, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// build recomputes every input from storage. The result is authoritative:
// no figure is carried over from the previous snapshot except identity.
func (s *snapshotService) build(ctx context.Context, shiftID int64) (*model.CashSnapshot, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	emp, err := s.employees.FindByID(ctx, shift.EmployeeID)
	if err != nil {
		return nil, err
	}
	deliveryWorker := emp.Role == model.RoleRepartidor

	totals, err := s.sales.SumByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	moves, err := s.movements.SumByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	assigned, liquidationCash, err := s.assignments.SumForShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	returned, err := s.returns.SumReturnedByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	net := reconcile.NetToDeliver(assigned, returned)

	// A delivery worker's own expense movements reduce what they owe, so
	// they ride in the delivery slot of the formula instead of the desk one.
	expenses := moves[model.MovementExpense]
	deliveryExpenses := decimal.Zero
	if deliveryWorker {
		deliveryExpenses = expenses
		expenses = decimal.Zero
	}

	in := reconcile.Inputs{
		InitialAmount:           shift.InitialAmount,
		CashSales:               totals.CashSales,
		CashPayments:            totals.CashPayments,
		Expenses:                expenses,
		Deposits:                moves[model.MovementDeposit],
		Withdrawals:             moves[model.MovementWithdrawal],
		NetAmountToDeliver:      net,
		DeliveryLiquidationCash: liquidationCash,
		DeliveryWorkerExpenses:  deliveryExpenses,
		DeliveryWorker:          deliveryWorker,
	}

	return &model.CashSnapshot{
		TenantID:                shift.TenantID,
		BranchID:                shift.BranchID,
		ShiftID:                 shiftID,
		InitialAmount:           shift.InitialAmount,
		CashSales:               totals.CashSales,
		CardSales:               totals.CardSales,
		CreditSales:             totals.CreditSales,
		CashPayments:            totals.CashPayments,
		Expenses:                expenses,
		Deposits:                moves[model.MovementDeposit],
		Withdrawals:             moves[model.MovementWithdrawal],
		AssignedTotal:           assigned,
		ReturnedTotal:           returned,
		NetAmountToDeliver:      net,
		DeliveryLiquidationCash: liquidationCash,
		DeliveryWorkerExpenses:  deliveryExpenses,
		ExpectedCash:            reconcile.ExpectedCash(in),
		NeedsRecalculation:      false,
		LastUpdatedAt:           time.Now().UTC(),
	}, nil
}
