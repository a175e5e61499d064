package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/notify"
	"syapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Locker serializes a critical section across branch servers. The redis
// implementation lives in infra; tests inject a pass-through.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

// ReportEnqueuer queues the close-of-shift PDF generation job.
type ReportEnqueuer interface {
	EnqueueCashCutReport(ctx context.Context, cashCutID int64) error
}

type ShiftService interface {
	// SyncOpen upserts a shift open coming from a device. The returned bool
	// reports whether this call inserted the shift (first sync) as opposed
	// to replaying it.
	SyncOpen(ctx context.Context, tenantID, branchID int64, req dto.SyncShiftOpenRequest) (*model.Shift, bool, error)
	SyncClose(ctx context.Context, tenantID int64, req dto.SyncShiftCloseRequest) (*model.Shift, error)

	Open(ctx context.Context, tenantID, branchID, employeeID int64, req dto.OpenShiftRequest) (*model.Shift, error)
	Close(ctx context.Context, tenantID, employeeID int64, req dto.CloseShiftRequest) (*model.Shift, *model.CashCut, error)
	Current(ctx context.Context, tenantID, employeeID int64) (*model.Shift, error)
	History(ctx context.Context, tenantID, branchID int64, f dto.ShiftHistoryFilter) (*dto.ShiftListResponse, error)
	Summary(ctx context.Context, tenantID, shiftID int64) (*dto.ShiftSummaryResponse, error)
}

type shiftService struct {
	shifts    repository.ShiftRepository
	employees repository.EmployeeRepository
	cashCuts  repository.CashCutRepository
	sales     repository.SaleRepository
	movements repository.MovementRepository
	snapshots SnapshotService
	gate      *notify.Gate
	locker    Locker
	reports   ReportEnqueuer
	log       zerolog.Logger
}

func NewShiftService(
	shifts repository.ShiftRepository,
	employees repository.EmployeeRepository,
	cashCuts repository.CashCutRepository,
	sales repository.SaleRepository,
	movements repository.MovementRepository,
	snapshots SnapshotService,
	gate *notify.Gate,
	locker Locker,
	reports ReportEnqueuer,
	log zerolog.Logger,
) ShiftService {
	return &shiftService{
		shifts:    shifts,
		employees: employees,
		cashCuts:  cashCuts,
		sales:     sales,
		movements: movements,
		snapshots: snapshots,
		gate:      gate,
		locker:    locker,
		reports:   reports,
		log:       log,
	}
}

// ── SyncOpen ──────────────────────────────────────────────────────────────────
// Device policy for an employee who already has an OPEN shift:
//   - same global_id          → replay, merge and return the existing row
//   - same local_shift_id     → same device retrying a different record: 409,
//     the client must reconcile against the existing shift
//   - different local ref     → a new device took over; auto-close the stale
//     shift and open the new one

func (s *shiftService) SyncOpen(ctx context.Context, tenantID, branchID int64, req dto.SyncShiftOpenRequest) (*model.Shift, bool, error) {
	emp, err := s.resolveEmployee(ctx, tenantID, req.EmployeeGlobalID)
	if err != nil {
		return nil, false, err
	}
	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return nil, false, fmt.Errorf("global_id invalido: %w", err)
	}

	var (
		result     *model.Shift
		inserted   bool
		autoClosed *model.Shift
	)

	txErr := runTx(ctx, s.shifts.DB(), func(tx *gorm.DB) error {
		// Replay of a shift we already hold, open or closed.
		existing, err := s.shifts.FindByGlobalIDForUpdate(ctx, tx, tenantID, gid)
		if err == nil {
			if cols := mergeShift(existing, req); len(cols) > 0 {
				if err := s.shifts.UpdateColumns(ctx, tx, existing.ID, cols); err != nil {
					return err
				}
			}
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		open, err := s.shifts.FindOpenByEmployeeForUpdate(ctx, tx, tenantID, emp.ID)
		if err == nil {
			if sameDevice(open.LocalShiftID, req.LocalShiftID) {
				return fmt.Errorf("turno %s: %w", open.GlobalID, ErrShiftConflict)
			}
			now := time.Now().UTC()
			if err := s.shifts.UpdateColumns(ctx, tx, open.ID, map[string]any{
				"is_open":        false,
				"end_time":       now,
				"auto_closed":    true,
				"auto_closed_at": now,
			}); err != nil {
				return err
			}
			autoClosed = open
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		shift := &model.Shift{
			TenantID:           tenantID,
			BranchID:           branchID,
			GlobalID:           gid,
			LocalShiftID:       req.LocalShiftID,
			TerminalID:         parseOptionalUUID(req.TerminalID),
			EmployeeID:         emp.ID,
			StartTime:          req.StartTime,
			InitialAmount:      req.InitialAmount,
			IsOpen:             true,
			TransactionCounter: req.TransactionCounter,
		}
		ins, err := s.shifts.InsertIgnore(ctx, tx, shift)
		if err != nil {
			return err
		}
		inserted = ins
		result = shift
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	if autoClosed != nil {
		// An auto-closed shift is settled without counted cash, so its
		// snapshot gets pinned the same as a regular close.
		if s.snapshots != nil {
			if _, err := s.snapshots.Freeze(ctx, autoClosed.ID, nil); err != nil {
				s.log.Warn().Err(err).Int64("shift_id", autoClosed.ID).Msg("snapshot freeze failed")
			}
		}
		s.log.Info().
			Int64("tenant_id", tenantID).
			Int64("employee_id", emp.ID).
			Str("stale_shift", autoClosed.GlobalID.String()).
			Str("new_shift", req.GlobalID).
			Msg("auto-closed stale open shift")
		s.gate.Notify(ctx, true, false, notify.Event{
			Type:     notify.EventShiftAutoClosed,
			TenantID: tenantID,
			BranchID: autoClosed.BranchID,
			Audience: notify.AudienceSupervisors,
			Title:    "Turno cerrado automaticamente",
			Body:     fmt.Sprintf("El turno anterior de %s fue cerrado por apertura desde otro dispositivo", emp.FullName),
			Data: map[string]string{
				"shift_global_id": autoClosed.GlobalID.String(),
			},
		})
	}

	s.gate.Notify(ctx, inserted, false, notify.Event{
		Type:     notify.EventShiftOpened,
		TenantID: tenantID,
		BranchID: branchID,
		Audience: notify.AudienceBranch,
		Title:    "Turno Iniciado",
		Body:     fmt.Sprintf("%s inicio turno con $%s", emp.FullName, req.InitialAmount.StringFixed(2)),
		Data: map[string]string{
			"shift_global_id": req.GlobalID,
		},
	})

	return result, inserted, nil
}

func (s *shiftService) SyncClose(ctx context.Context, tenantID int64, req dto.SyncShiftCloseRequest) (*model.Shift, error) {
	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return nil, fmt.Errorf("global_id invalido: %w", err)
	}

	var result *model.Shift
	txErr := runTx(ctx, s.shifts.DB(), func(tx *gorm.DB) error {
		shift, err := s.shifts.FindByGlobalIDForUpdate(ctx, tx, tenantID, gid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("turno %s: %w", req.GlobalID, ErrUnresolvedReference)
			}
			return err
		}
		if !shift.IsOpen {
			// Replayed close: already settled, nothing to do.
			result = shift
			return nil
		}
		cols := map[string]any{
			"is_open":  false,
			"end_time": req.EndTime,
		}
		if req.FinalAmount != nil {
			cols["final_amount"] = *req.FinalAmount
		}
		if req.TransactionCounter > shift.TransactionCounter {
			cols["transaction_counter"] = req.TransactionCounter
		}
		if err := s.shifts.UpdateColumns(ctx, tx, shift.ID, cols); err != nil {
			return err
		}
		result = shift
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Freeze outside the row-lock tx; the shift is closed so inputs are settled.
	if result != nil && s.snapshots != nil {
		if _, err := s.snapshots.Freeze(ctx, result.ID, nil); err != nil {
			s.log.Warn().Err(err).Int64("shift_id", result.ID).Msg("snapshot freeze failed")
		}
	}
	return result, nil
}

// ── Interactive lifecycle ─────────────────────────────────────────────────────

func (s *shiftService) Open(ctx context.Context, tenantID, branchID, employeeID int64, req dto.OpenShiftRequest) (*model.Shift, error) {
	var shift *model.Shift
	key := fmt.Sprintf("lock:shift-open:%d:%d", tenantID, employeeID)
	err := s.locker.WithLock(ctx, key, func() error {
		return runTx(ctx, s.shifts.DB(), func(tx *gorm.DB) error {
			if _, err := s.shifts.FindOpenByEmployeeForUpdate(ctx, tx, tenantID, employeeID); err == nil {
				return fmt.Errorf("ya existe un turno abierto: %w", ErrShiftConflict)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			shift = &model.Shift{
				TenantID:      tenantID,
				BranchID:      branchID,
				GlobalID:      uuid.New(),
				LocalShiftID:  req.LocalShiftID,
				TerminalID:    parseOptionalUUID(req.TerminalID),
				EmployeeID:    employeeID,
				StartTime:     time.Now().UTC(),
				InitialAmount: req.InitialAmount,
				IsOpen:        true,
			}
			_, err := s.shifts.InsertIgnore(ctx, tx, shift)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	emp, empErr := s.employees.FindByID(ctx, employeeID)
	name := ""
	if empErr == nil {
		name = emp.FullName
	}
	s.gate.Notify(ctx, true, false, notify.Event{
		Type:     notify.EventShiftOpened,
		TenantID: tenantID,
		BranchID: branchID,
		Audience: notify.AudienceBranch,
		Title:    "Turno Iniciado",
		Body:     fmt.Sprintf("%s inicio turno con $%s", name, req.InitialAmount.StringFixed(2)),
	})
	return shift, nil
}

func (s *shiftService) Close(ctx context.Context, tenantID, employeeID int64, req dto.CloseShiftRequest) (*model.Shift, *model.CashCut, error) {
	shift, err := s.shifts.FindOpenByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("sin turno abierto: %w", ErrShiftClosed)
		}
		return nil, nil, err
	}

	snap, err := s.snapshots.Freeze(ctx, shift.ID, &req.CountedCash)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	diff := req.CountedCash.Sub(snap.ExpectedCash)
	cut := &model.CashCut{
		TenantID:             tenantID,
		BranchID:             shift.BranchID,
		GlobalID:             uuid.New(),
		ShiftID:              &shift.ID,
		EmployeeID:           employeeID,
		StartTime:            shift.StartTime,
		EndTime:              now,
		InitialAmount:        snap.InitialAmount,
		CashSales:            snap.CashSales,
		CardSales:            snap.CardSales,
		CreditSales:          snap.CreditSales,
		CashPayments:         snap.CashPayments,
		Expenses:             snap.Expenses,
		Deposits:             snap.Deposits,
		Withdrawals:          snap.Withdrawals,
		ExpectedCashInDrawer: snap.ExpectedCash,
		CountedCash:          &req.CountedCash,
		Difference:           &diff,
		Notes:                req.Notes,
		IsClosed:             true,
	}

	txErr := runTx(ctx, s.shifts.DB(), func(tx *gorm.DB) error {
		if _, err := s.cashCuts.InsertIgnore(ctx, tx, cut); err != nil {
			return err
		}
		return s.shifts.UpdateColumns(ctx, tx, shift.ID, map[string]any{
			"is_open":      false,
			"end_time":     now,
			"final_amount": req.CountedCash,
		})
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	if s.reports != nil {
		if err := s.reports.EnqueueCashCutReport(ctx, cut.ID); err != nil {
			s.log.Warn().Err(err).Int64("cash_cut_id", cut.ID).Msg("report enqueue failed")
		}
	}

	emp, empErr := s.employees.FindByID(ctx, employeeID)
	name := ""
	if empErr == nil {
		name = emp.FullName
	}
	s.gate.Notify(ctx, true, false, notify.Event{
		Type:     notify.EventShiftClosed,
		TenantID: tenantID,
		BranchID: shift.BranchID,
		Audience: notify.AudienceBranch,
		Title:    "Corte de Caja",
		Body:     fmt.Sprintf("%s finalizo turno, diferencia $%s", name, diff.StringFixed(2)),
		Data: map[string]string{
			"shift_global_id": shift.GlobalID.String(),
			"difference":      diff.StringFixed(2),
		},
	})

	shift.IsOpen = false
	shift.EndTime = &now
	shift.FinalAmount = &req.CountedCash
	return shift, cut, nil
}

func (s *shiftService) Current(ctx context.Context, tenantID, employeeID int64) (*model.Shift, error) {
	shift, err := s.shifts.FindOpenByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) History(ctx context.Context, tenantID, branchID int64, f dto.ShiftHistoryFilter) (*dto.ShiftListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	shifts, total, err := s.shifts.History(ctx, tenantID, branchID, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		items = append(items, shiftToResponse(&shifts[i]))
	}
	return &dto.ShiftListResponse{Data: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *shiftService) Summary(ctx context.Context, tenantID, shiftID int64) (*dto.ShiftSummaryResponse, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil || shift.TenantID != tenantID {
		return nil, ErrNotFound
	}
	snap, err := s.snapshots.GetForShift(ctx, tenantID, shiftID, false)
	if err != nil {
		return nil, err
	}
	return &dto.ShiftSummaryResponse{
		Shift:        shiftToResponse(shift),
		CashSales:    snap.CashSales,
		CardSales:    snap.CardSales,
		CreditSales:  snap.CreditSales,
		CashPayments: snap.CashPayments,
		Expenses:     snap.Expenses,
		Deposits:     snap.Deposits,
		Withdrawals:  snap.Withdrawals,
		ExpectedCash: snap.ExpectedCash,
	}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *shiftService) resolveEmployee(ctx context.Context, tenantID int64, globalID string) (*model.Employee, error) {
	gid, err := uuid.Parse(globalID)
	if err != nil {
		return nil, fmt.Errorf("employee_global_id invalido: %w", err)
	}
	emp, err := s.employees.FindByGlobalID(ctx, tenantID, gid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("empleado %s: %w", globalID, ErrUnresolvedReference)
		}
		return nil, err
	}
	return emp, nil
}

// sameDevice reports whether two local shift refs identify the same device
// record. A nil ref never matches: without the local id we cannot prove the
// open came from the device that owns the stale shift.
func sameDevice(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func shiftToResponse(sh *model.Shift) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:                 sh.ID,
		GlobalID:           sh.GlobalID.String(),
		EmployeeID:         sh.EmployeeID,
		BranchID:           sh.BranchID,
		LocalShiftID:       sh.LocalShiftID,
		StartTime:          sh.StartTime.Format(time.RFC3339),
		InitialAmount:      sh.InitialAmount,
		FinalAmount:        sh.FinalAmount,
		IsOpen:             sh.IsOpen,
		AutoClosed:         sh.AutoClosed,
		TransactionCounter: sh.TransactionCounter,
	}
	if sh.EndTime != nil {
		t := sh.EndTime.Format(time.RFC3339)
		resp.EndTime = &t
	}
	return resp
}
