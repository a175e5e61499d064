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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AssignmentService interface {
	Sync(ctx context.Context, tenantID, branchID int64, req dto.SyncAssignmentRequest) (*model.DeliveryAssignment, bool, error)
	// SyncBatch isolates items: a bad record reports its own failure and the
	// rest of the batch still lands.
	SyncBatch(ctx context.Context, tenantID, branchID int64, req dto.SyncAssignmentBatchRequest) []dto.SyncResult
	Liquidate(ctx context.Context, tenantID int64, assignmentGlobalID string, req dto.LiquidateAssignmentRequest) (*dto.LiquidationResponse, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]dto.AssignmentResponse, error)
	RepartidoresSummary(ctx context.Context, tenantID, branchID int64) ([]dto.RepartidorSummaryItem, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	returns     repository.ReturnRepository
	debts       repository.DebtRepository
	sales       repository.SaleRepository
	employees   repository.EmployeeRepository
	resolver    Resolver
	snapshots   SnapshotService
	gate        *notify.Gate
	log         zerolog.Logger
}

func NewAssignmentService(
	assignments repository.AssignmentRepository,
	returns repository.ReturnRepository,
	debts repository.DebtRepository,
	sales repository.SaleRepository,
	employees repository.EmployeeRepository,
	resolver Resolver,
	snapshots SnapshotService,
	gate *notify.Gate,
	log zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		returns:     returns,
		debts:       debts,
		sales:       sales,
		employees:   employees,
		resolver:    resolver,
		snapshots:   snapshots,
		gate:        gate,
		log:         log,
	}
}

// ── Sync ──────────────────────────────────────────────────────────────────────

// assignmentOrigin captures where an assignment was born. One born from a
// credit sale must name the shift that made the sale; a direct assignment may
// sync before its shift does and link up later.
type assignmentOrigin struct {
	SaleID  *int64
	ShiftID *int64
}

func (s *assignmentService) resolveOrigin(ctx context.Context, tenantID int64, req dto.SyncAssignmentRequest) (assignmentOrigin, error) {
	saleID, err := s.resolver.ResolveSaleID(ctx, tenantID, req.SaleGlobalID)
	if err != nil {
		return assignmentOrigin{}, err
	}
	fromSale := req.SaleGlobalID != nil && *req.SaleGlobalID != ""
	shiftID, err := s.resolver.ResolveShiftID(ctx, tenantID, req.ShiftGlobalID, fromSale)
	if err != nil {
		return assignmentOrigin{}, err
	}
	return assignmentOrigin{SaleID: saleID, ShiftID: shiftID}, nil
}

func (s *assignmentService) Sync(ctx context.Context, tenantID, branchID int64, req dto.SyncAssignmentRequest) (*model.DeliveryAssignment, bool, error) {
	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return nil, false, fmt.Errorf("global_id invalido: %w", err)
	}
	if !req.AssignedQuantity.IsPositive() || !req.AssignedAmount.IsPositive() {
		return nil, false, fmt.Errorf("cantidad y monto asignados deben ser positivos: %w", ErrInvalidAmount)
	}
	if req.UnitPrice.IsNegative() {
		return nil, false, fmt.Errorf("precio unitario negativo: %w", ErrInvalidAmount)
	}

	emp, err := s.resolver.ResolveEmployee(ctx, tenantID, req.EmployeeGlobalID)
	if err != nil {
		return nil, false, err
	}
	creator, err := s.resolver.ResolveEmployee(ctx, tenantID, req.CreatedByGlobalID)
	if err != nil {
		return nil, false, err
	}
	origin, err := s.resolveOrigin(ctx, tenantID, req)
	if err != nil {
		return nil, false, err
	}
	repShiftID, err := s.resolver.ResolveShiftID(ctx, tenantID, req.RepartidorShiftGlobalID, false)
	if err != nil {
		return nil, false, err
	}

	status := req.Status
	if status == "" {
		status = model.AssignmentPending
	}

	var (
		result   *model.DeliveryAssignment
		inserted bool
	)
	txErr := runTx(ctx, s.assignments.DB(), func(tx *gorm.DB) error {
		a := &model.DeliveryAssignment{
			TenantID:            tenantID,
			BranchID:            branchID,
			GlobalID:            gid,
			EmployeeID:          emp.ID,
			CreatedByEmployeeID: creator.ID,
			ShiftID:             origin.ShiftID,
			RepartidorShiftID:   repShiftID,
			SaleID:              origin.SaleID,
			AssignedQuantity:    req.AssignedQuantity,
			AssignedAmount:      req.AssignedAmount,
			UnitPrice:           req.UnitPrice,
			Status:              status,
			CashAmount:          req.CashAmount,
			CardAmount:          req.CardAmount,
			CreditAmount:        req.CreditAmount,
			ActualCashDelivered: req.ActualCashDelivered,
			LiquidatedAt:        req.LiquidatedAt,
			WasEdited:           req.WasEdited,
			EditReason:          req.EditReason,
			CancelledAt:         req.CancelledAt,
			CancelReason:        req.CancelReason,
			Notes:               req.Notes,
			TerminalID:          parseOptionalUUID(req.TerminalID),
			CreatedLocalUTC:     req.CreatedLocalUTC,
		}
		ins, err := s.assignments.InsertIgnore(ctx, tx, a)
		if err != nil {
			return err
		}
		if ins {
			inserted = true
			result = a
			return nil
		}

		existing, err := s.assignments.FindByGlobalIDForUpdate(ctx, tx, tenantID, gid)
		if err != nil {
			return err
		}
		if cols := mergeAssignment(existing, req); len(cols) > 0 {
			if err := s.assignments.UpdateColumns(ctx, tx, existing.ID, cols); err != nil {
				return err
			}
		}
		result = existing
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	s.staleShifts(ctx, origin.ShiftID, repShiftID)

	s.gate.Notify(ctx, inserted, false, notify.Event{
		Type:       notify.EventAssignmentCreated,
		TenantID:   tenantID,
		BranchID:   branchID,
		Audience:   notify.AudienceEmployee,
		EmployeeID: emp.ID,
		Title:      "Nueva Asignacion",
		Body: fmt.Sprintf("Se te ha asignado %s por $%s",
			req.AssignedQuantity.String(), req.AssignedAmount.StringFixed(2)),
		Data: map[string]string{
			"assignment_global_id": req.GlobalID,
		},
	})

	return result, inserted, nil
}

func (s *assignmentService) SyncBatch(ctx context.Context, tenantID, branchID int64, req dto.SyncAssignmentBatchRequest) []dto.SyncResult {
	results := make([]dto.SyncResult, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		_, inserted, err := s.Sync(ctx, tenantID, branchID, item)
		r := dto.SyncResult{GlobalID: item.GlobalID, Success: err == nil}
		switch {
		case err != nil:
			r.Message = err.Error()
		case inserted:
			r.Action = "inserted"
		default:
			r.Action = "updated"
		}
		results = append(results, r)
	}
	return results
}

// ── Liquidate ─────────────────────────────────────────────────────────────────
// Settles an assignment in one transaction: records the payment split,
// compares delivered cash against the net amount to deliver, creates the
// debt when the worker came up short, and recomputes the linked sale's
// payment breakdown from all of its settled assignments.

func (s *assignmentService) Liquidate(ctx context.Context, tenantID int64, assignmentGlobalID string, req dto.LiquidateAssignmentRequest) (*dto.LiquidationResponse, error) {
	gid, err := uuid.Parse(assignmentGlobalID)
	if err != nil {
		return nil, fmt.Errorf("assignment_global_id invalido: %w", err)
	}
	liquidator, err := s.resolver.ResolveEmployee(ctx, tenantID, req.LiquidatedByGlobalID)
	if err != nil {
		return nil, err
	}

	var (
		resp         dto.LiquidationResponse
		debtInserted bool
		debt         *model.EmployeeDebt
		assignment   *model.DeliveryAssignment
	)

	txErr := runTx(ctx, s.assignments.DB(), func(tx *gorm.DB) error {
		a, err := s.assignments.FindByGlobalIDForUpdate(ctx, tx, tenantID, gid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("asignacion %s: %w", assignmentGlobalID, ErrUnresolvedReference)
			}
			return err
		}
		assignment = a

		if a.Status == model.AssignmentCancelled {
			return fmt.Errorf("asignacion %s cancelada: %w", assignmentGlobalID, ErrTerminalState)
		}

		returnedQty, returnedAmt, err := s.returns.SumByAssignment(ctx, tx, a.ID)
		if err != nil {
			return err
		}
		net := a.NetAmountToDeliver(returnedAmt)
		diff := req.ActualCashDelivered.Sub(net)

		if a.Status == model.AssignmentLiquidated {
			// Replay: the settlement already happened, surface the stored
			// outcome without touching anything.
			resp = s.liquidationResponse(a, returnedQty, returnedAmt, net, diff)
			if existing, err := s.debts.FindByAssignment(ctx, a.ID); err == nil {
				resp.DebtID = &existing.ID
				m := existing.MontoDeuda
				resp.MontoDeuda = &m
				resp.Difference = existing.MontoDeuda.Neg()
			}
			return nil
		}

		now := time.Now().UTC()
		liquidatedAt := now
		if req.LiquidatedAt != nil {
			liquidatedAt = *req.LiquidatedAt
		}
		cols := map[string]any{
			"status":                     model.AssignmentLiquidated,
			"cash_amount":                req.CashAmount,
			"card_amount":                req.CardAmount,
			"credit_amount":              req.CreditAmount,
			"actual_cash_delivered":      req.ActualCashDelivered,
			"liquidated_at":              liquidatedAt,
			"liquidated_by_employee_id":  liquidator.ID,
		}
		if req.Notes != nil {
			cols["notes"] = *req.Notes
		}
		if err := s.assignments.UpdateColumns(ctx, tx, a.ID, cols); err != nil {
			return err
		}
		a.Status = model.AssignmentLiquidated
		a.CashAmount = &req.CashAmount
		a.CardAmount = &req.CardAmount
		a.CreditAmount = &req.CreditAmount
		a.ActualCashDelivered = &req.ActualCashDelivered
		a.LiquidatedAt = &liquidatedAt

		if diff.IsNegative() {
			debt = &model.EmployeeDebt{
				TenantID:                tenantID,
				BranchID:                a.BranchID,
				GlobalID:                uuid.New(),
				EmployeeID:              a.EmployeeID,
				LiquidationAssignmentID: a.ID,
				ShiftID:                 a.RepartidorShiftID,
				MontoDeuda:              diff.Abs(),
				MontoPagado:             decimal.Zero,
				Status:                  model.DebtPendiente,
				FechaDeuda:              now,
			}
			ins, err := s.debts.InsertIgnore(ctx, tx, debt)
			if err != nil {
				return err
			}
			debtInserted = ins
		}

		if a.SaleID != nil {
			if err := s.recomputeSalePayments(ctx, tx, *a.SaleID); err != nil {
				return err
			}
		}

		resp = s.liquidationResponse(a, returnedQty, returnedAmt, net, diff)
		if debt != nil {
			resp.DebtID = &debt.ID
			m := debt.MontoDeuda
			resp.MontoDeuda = &m
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.staleShifts(ctx, assignment.ShiftID, assignment.RepartidorShiftID)

	if debt != nil {
		s.gate.Notify(ctx, debtInserted, false, notify.Event{
			Type:       notify.EventDebtCreated,
			TenantID:   tenantID,
			BranchID:   assignment.BranchID,
			Audience:   notify.AudienceSupervisors,
			EmployeeID: assignment.EmployeeID,
			Title:      "Deuda Registrada",
			Body:       fmt.Sprintf("Liquidacion con faltante de $%s", debt.MontoDeuda.StringFixed(2)),
			Data: map[string]string{
				"assignment_global_id": assignmentGlobalID,
				"monto_deuda":          debt.MontoDeuda.StringFixed(2),
			},
		})
	}

	return &resp, nil
}

// recomputeSalePayments rebuilds a credit sale's payment breakdown from the
// sum of all its liquidated assignments, then reclassifies the method.
func (s *assignmentService) recomputeSalePayments(ctx context.Context, tx *gorm.DB, saleID int64) error {
	liquidated, err := s.assignments.ListLiquidatedBySale(ctx, tx, saleID)
	if err != nil {
		return err
	}
	cash, card, credit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, a := range liquidated {
		if a.CashAmount != nil {
			cash = cash.Add(*a.CashAmount)
		}
		if a.CardAmount != nil {
			card = card.Add(*a.CardAmount)
		}
		if a.CreditAmount != nil {
			credit = credit.Add(*a.CreditAmount)
		}
	}
	return s.sales.UpdateColumns(ctx, tx, saleID, map[string]any{
		"cash_amount":    cash,
		"card_amount":    card,
		"credit_amount":  credit,
		"payment_method": model.ClassifyPayment(cash, card, credit),
	})
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *assignmentService) ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]dto.AssignmentResponse, error) {
	list, err := s.assignments.ListByEmployee(ctx, tenantID, employeeID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		a := &list[i]
		qty, amt, err := s.returns.SumByAssignment(ctx, s.returns.DB(), a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, assignmentToResponse(a, qty, amt))
	}
	return out, nil
}

func (s *assignmentService) RepartidoresSummary(ctx context.Context, tenantID, branchID int64) ([]dto.RepartidorSummaryItem, error) {
	emps, err := s.employees.ListByBranch(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RepartidorSummaryItem, 0)
	for _, emp := range emps {
		if emp.Role != model.RoleRepartidor {
			continue
		}
		pending, err := s.assignments.ListByEmployee(ctx, tenantID, emp.ID, model.AssignmentPending)
		if err != nil {
			return nil, err
		}
		assigned, returned := decimal.Zero, decimal.Zero
		for i := range pending {
			assigned = assigned.Add(pending[i].AssignedAmount)
			_, amt, err := s.returns.SumByAssignment(ctx, s.returns.DB(), pending[i].ID)
			if err != nil {
				return nil, err
			}
			returned = returned.Add(amt)
		}
		pendingDebt := decimal.Zero
		debts, err := s.debts.ListByEmployee(ctx, tenantID, emp.ID, "")
		if err != nil {
			return nil, err
		}
		for i := range debts {
			if debts[i].Status != model.DebtPagado {
				pendingDebt = pendingDebt.Add(debts[i].Outstanding())
			}
		}
		out = append(out, dto.RepartidorSummaryItem{
			EmployeeID:         emp.ID,
			FullName:           emp.FullName,
			PendingAssignments: int64(len(pending)),
			AssignedTotal:      assigned,
			ReturnedTotal:      returned,
			NetAmountToDeliver: assigned.Sub(returned),
			PendingDebt:        pendingDebt,
		})
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *assignmentService) staleShifts(ctx context.Context, shiftIDs ...*int64) {
	if s.snapshots == nil {
		return
	}
	for _, id := range shiftIDs {
		if id == nil {
			continue
		}
		if err := s.snapshots.MarkStale(ctx, nil, *id); err != nil {
			s.log.Warn().Err(err).Int64("shift_id", *id).Msg("snapshot stale mark failed")
		}
	}
}

func (s *assignmentService) liquidationResponse(a *model.DeliveryAssignment, returnedQty, returnedAmt, net, diff decimal.Decimal) dto.LiquidationResponse {
	return dto.LiquidationResponse{
		Assignment: assignmentToResponseSums(a, returnedQty, returnedAmt, net),
		Difference: diff,
	}
}

func assignmentToResponse(a *model.DeliveryAssignment, returnedQty, returnedAmt decimal.Decimal) dto.AssignmentResponse {
	return assignmentToResponseSums(a, returnedQty, returnedAmt, a.NetAmountToDeliver(returnedAmt))
}

func assignmentToResponseSums(a *model.DeliveryAssignment, returnedQty, returnedAmt, net decimal.Decimal) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:                  a.ID,
		GlobalID:            a.GlobalID.String(),
		EmployeeID:          a.EmployeeID,
		Status:              a.Status,
		AssignedQuantity:    a.AssignedQuantity,
		AssignedAmount:      a.AssignedAmount,
		UnitPrice:           a.UnitPrice,
		ReturnedQuantity:    returnedQty,
		ReturnedAmount:      returnedAmt,
		NetAmountToDeliver:  net,
		ActualCashDelivered: a.ActualCashDelivered,
		WasEdited:           a.WasEdited,
		CreatedAt:           a.CreatedAt.Format(time.RFC3339),
	}
}
