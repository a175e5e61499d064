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

type ReturnService interface {
	Sync(ctx context.Context, tenantID, branchID int64, req dto.SyncReturnRequest) (*model.DeliveryReturn, bool, error)
	ListByAssignment(ctx context.Context, tenantID int64, assignmentGlobalID string) ([]dto.ReturnResponse, error)
}

type returnService struct {
	returns     repository.ReturnRepository
	assignments repository.AssignmentRepository
	resolver    Resolver
	snapshots   SnapshotService
	gate        *notify.Gate
	log         zerolog.Logger
}

func NewReturnService(
	returns repository.ReturnRepository,
	assignments repository.AssignmentRepository,
	resolver Resolver,
	snapshots SnapshotService,
	gate *notify.Gate,
	log zerolog.Logger,
) ReturnService {
	return &returnService{
		returns:     returns,
		assignments: assignments,
		resolver:    resolver,
		snapshots:   snapshots,
		gate:        gate,
		log:         log,
	}
}

// Sync registers or replays a return. The assignment must already exist on
// the server; a return cannot heal that link later because its amount feeds
// the assignment's net immediately.
func (s *returnService) Sync(ctx context.Context, tenantID, branchID int64, req dto.SyncReturnRequest) (*model.DeliveryReturn, bool, error) {
	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return nil, false, fmt.Errorf("global_id invalido: %w", err)
	}
	if !req.Quantity.IsPositive() {
		return nil, false, fmt.Errorf("cantidad devuelta debe ser positiva: %w", ErrInvalidAmount)
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, false, fmt.Errorf("monto devuelto negativo: %w", ErrInvalidAmount)
	}

	assignment, err := s.resolver.ResolveAssignment(ctx, tenantID, req.AssignmentGlobalID)
	if err != nil {
		return nil, false, err
	}
	emp, err := s.resolver.ResolveEmployee(ctx, tenantID, req.EmployeeGlobalID)
	if err != nil {
		return nil, false, err
	}
	registeredBy, err := s.resolver.ResolveEmployee(ctx, tenantID, req.RegisteredByGlobalID)
	if err != nil {
		return nil, false, err
	}
	shiftID, err := s.resolver.ResolveShiftID(ctx, tenantID, req.ShiftGlobalID, false)
	if err != nil {
		return nil, false, err
	}

	unitPrice, amount := s.priceReturn(assignment, req)

	terminalID := uuid.Nil
	if t := parseOptionalUUID(req.TerminalID); t != nil {
		terminalID = *t
	}
	source := req.Source
	if source == "" {
		source = model.ReturnSourceDesktop
	}

	var (
		result   *model.DeliveryReturn
		inserted bool
	)
	txErr := runTx(ctx, s.returns.DB(), func(tx *gorm.DB) error {
		dr := &model.DeliveryReturn{
			TenantID:               tenantID,
			BranchID:               branchID,
			GlobalID:               gid,
			TerminalID:             terminalID,
			AssignmentID:           assignment.ID,
			EmployeeID:             emp.ID,
			RegisteredByEmployeeID: registeredBy.ID,
			ShiftID:                shiftID,
			Quantity:               req.Quantity,
			UnitPrice:              unitPrice,
			Amount:                 amount,
			ReturnDate:             req.ReturnDate,
			Source:                 source,
			Notes:                  req.Notes,
			CreatedLocalUTC:        req.CreatedLocalUTC,
		}
		ins, err := s.returns.InsertIgnore(ctx, tx, dr)
		if err != nil {
			return err
		}
		if ins {
			inserted = true
			result = dr
			return nil
		}

		existing, err := s.returns.FindByKeyForUpdate(ctx, tx, tenantID, gid, terminalID)
		if err != nil {
			return err
		}
		if cols := mergeReturn(existing, req); len(cols) > 0 {
			if err := s.returns.UpdateColumns(ctx, tx, existing.ID, cols); err != nil {
				return err
			}
		}
		result = existing
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	// The return changes the assignment's net, so both linked shifts go stale.
	if s.snapshots != nil {
		ids := []*int64{shiftID, assignment.ShiftID, assignment.RepartidorShiftID}
		for _, id := range ids {
			if id == nil {
				continue
			}
			if err := s.snapshots.MarkStale(ctx, nil, *id); err != nil {
				s.log.Warn().Err(err).Int64("shift_id", *id).Msg("snapshot stale mark failed")
			}
		}
	}

	s.gate.Notify(ctx, inserted, false, notify.Event{
		Type:     "return_registered",
		TenantID: tenantID,
		BranchID: branchID,
		Audience: notify.AudienceSupervisors,
		Title:    "Devolucion Registrada",
		Body:     fmt.Sprintf("Devolucion de %s por $%s", req.Quantity.String(), amount.StringFixed(2)),
		Data: map[string]string{
			"assignment_global_id": req.AssignmentGlobalID,
		},
	})

	return result, inserted, nil
}

// priceReturn fills the price fields a device may omit: the unit price
// defaults to the assignment's effective price (assigned amount over
// assigned quantity), and the amount to quantity times that price.
func (s *returnService) priceReturn(a *model.DeliveryAssignment, req dto.SyncReturnRequest) (decimal.Decimal, decimal.Decimal) {
	unitPrice := decimal.Zero
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	} else if a.AssignedQuantity.IsPositive() {
		unitPrice = a.AssignedAmount.Div(a.AssignedQuantity).Round(2)
	}
	amount := unitPrice.Mul(req.Quantity).Round(2)
	if req.Amount != nil {
		amount = *req.Amount
	}
	return unitPrice, amount
}

func (s *returnService) ListByAssignment(ctx context.Context, tenantID int64, assignmentGlobalID string) ([]dto.ReturnResponse, error) {
	assignment, err := s.resolver.ResolveAssignment(ctx, tenantID, assignmentGlobalID)
	if err != nil {
		if errors.Is(err, ErrUnresolvedReference) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	list, err := s.returns.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for i := range list {
		dr := &list[i]
		out = append(out, dto.ReturnResponse{
			ID:           dr.ID,
			GlobalID:     dr.GlobalID.String(),
			AssignmentID: dr.AssignmentID,
			EmployeeID:   dr.EmployeeID,
			Quantity:     dr.Quantity,
			UnitPrice:    dr.UnitPrice,
			Amount:       dr.Amount,
			ReturnDate:   dr.ReturnDate.Format(time.RFC3339),
			Source:       dr.Source,
		})
	}
	return out, nil
}
