package service

import (
	"context"
	"fmt"

	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/notify"
	"syapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MovementService syncs manual drawer operations. One service covers the
// three kinds; the route decides which kind a payload lands as.
type MovementService interface {
	Sync(ctx context.Context, tenantID, branchID int64, kind string, req dto.SyncMovementRequest) (*model.CashMovement, bool, error)
	ListByShift(ctx context.Context, tenantID, shiftID int64, kind string) ([]model.CashMovement, error)
}

type movementService struct {
	movements repository.MovementRepository
	resolver  Resolver
	snapshots SnapshotService
	gate      *notify.Gate
	log       zerolog.Logger
}

func NewMovementService(
	movements repository.MovementRepository,
	resolver Resolver,
	snapshots SnapshotService,
	gate *notify.Gate,
	log zerolog.Logger,
) MovementService {
	return &movementService{movements: movements, resolver: resolver, snapshots: snapshots, gate: gate, log: log}
}

func (s *movementService) Sync(ctx context.Context, tenantID, branchID int64, kind string, req dto.SyncMovementRequest) (*model.CashMovement, bool, error) {
	switch kind {
	case model.MovementExpense, model.MovementDeposit, model.MovementWithdrawal:
	default:
		return nil, false, fmt.Errorf("tipo de movimiento desconocido: %s", kind)
	}

	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return nil, false, fmt.Errorf("global_id invalido: %w", err)
	}
	emp, err := s.resolver.ResolveEmployee(ctx, tenantID, req.EmployeeGlobalID)
	if err != nil {
		return nil, false, err
	}
	// Movements always belong to a shift; without it the amount would be
	// unattributable in reconciliation.
	shiftGID := req.ShiftGlobalID
	shiftID, err := s.resolver.ResolveShiftID(ctx, tenantID, &shiftGID, true)
	if err != nil {
		return nil, false, err
	}

	var (
		result   *model.CashMovement
		inserted bool
	)
	txErr := runTx(ctx, s.movements.DB(), func(tx *gorm.DB) error {
		m := &model.CashMovement{
			TenantID:        tenantID,
			BranchID:        branchID,
			GlobalID:        gid,
			Kind:            kind,
			ShiftID:         *shiftID,
			EmployeeID:      emp.ID,
			Amount:          req.Amount,
			Description:     req.Description,
			MovementDate:    req.Date,
			TerminalID:      parseOptionalUUID(req.TerminalID),
			CreatedLocalUTC: req.CreatedLocalUTC,
		}
		ins, err := s.movements.InsertIgnore(ctx, tx, m)
		if err != nil {
			return err
		}
		if !ins {
			// Movements are immutable: a replay surfaces the stored row
			// untouched, never a merge.
			existing, err := s.movements.FindByGlobalID(ctx, tenantID, gid)
			if err != nil {
				return err
			}
			result = existing
			return nil
		}
		inserted = true
		result = m
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	if inserted && s.snapshots != nil {
		if err := s.snapshots.MarkStale(ctx, nil, *shiftID); err != nil {
			s.log.Warn().Err(err).Int64("shift_id", *shiftID).Msg("snapshot stale mark failed")
		}
	}

	s.gate.Notify(ctx, inserted, true, notify.Event{
		Type:     "movement_synced",
		TenantID: tenantID,
		BranchID: branchID,
		Audience: notify.AudienceBranch,
		Data:     map[string]string{"movement_global_id": req.GlobalID, "kind": kind},
	})

	return result, inserted, nil
}

func (s *movementService) ListByShift(ctx context.Context, tenantID, shiftID int64, kind string) ([]model.CashMovement, error) {
	return s.movements.ListByShift(ctx, tenantID, shiftID, kind)
}
