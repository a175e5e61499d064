package service

import (
	"context"
	"testing"
	"time"

	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deliverySetup seeds a delivery worker with an open shift and a supervisor
// who creates and liquidates assignments.
type deliverySetup struct {
	env        *testEnv
	repartidor *model.Employee
	supervisor *model.Employee
	repShift   *model.Shift
}

func newDeliverySetup(t *testing.T) *deliverySetup {
	t.Helper()
	env := newTestEnv()
	repartidor := env.addEmployee(model.RoleRepartidor)
	supervisor := env.addEmployee(model.RoleEncargado)
	repShift := env.addShift(repartidor.ID, dec(0))
	return &deliverySetup{env: env, repartidor: repartidor, supervisor: supervisor, repShift: repShift}
}

func (s *deliverySetup) syncAssignment(t *testing.T, req dto.SyncAssignmentRequest) (*model.DeliveryAssignment, bool) {
	t.Helper()
	a, inserted, err := s.env.assignmentSvc.Sync(context.Background(), 1, 1, req)
	require.NoError(t, err)
	return a, inserted
}

func (s *deliverySetup) baseRequest() dto.SyncAssignmentRequest {
	gid := s.repShift.GlobalID.String()
	return dto.SyncAssignmentRequest{
		GlobalID:                uuid.NewString(),
		EmployeeGlobalID:        s.repartidor.GlobalID.String(),
		CreatedByGlobalID:       s.supervisor.GlobalID.String(),
		RepartidorShiftGlobalID: &gid,
		AssignedQuantity:        dec(10),
		AssignedAmount:          dec(500),
		UnitPrice:               dec(50),
	}
}

func (s *deliverySetup) registerReturn(t *testing.T, assignmentGID string, qty, amount decimal.Decimal) {
	t.Helper()
	_, _, err := s.env.returnSvc.Sync(context.Background(), 1, 1, dto.SyncReturnRequest{
		GlobalID:             uuid.NewString(),
		AssignmentGlobalID:   assignmentGID,
		EmployeeGlobalID:     s.repartidor.GlobalID.String(),
		RegisteredByGlobalID: s.supervisor.GlobalID.String(),
		Quantity:             qty,
		Amount:               &amount,
		ReturnDate:           time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestSyncAssignmentInsertaYMerge(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	created, inserted := s.syncAssignment(t, req)
	assert.True(t, inserted)
	assert.Equal(t, model.AssignmentPending, created.Status)

	// Pending rows accept corrected figures on replay.
	req.AssignedAmount = dec(550)
	replayed, inserted := s.syncAssignment(t, req)
	assert.False(t, inserted)
	assert.Equal(t, created.ID, replayed.ID)
	assert.Equal(t, "550", s.env.assignments.assignments[created.ID].AssignedAmount.String())

	// Push went to the assigned worker exactly once.
	require.Len(t, s.env.queue.events, 1)
	assert.Equal(t, notify.EventAssignmentCreated, s.env.queue.events[0].Type)
	assert.Equal(t, notify.AudienceEmployee, s.env.queue.events[0].Audience)
	assert.Equal(t, s.repartidor.ID, s.env.queue.events[0].EmployeeID)
}

func TestLiquidacionConFaltanteCreaDeuda(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	created, _ := s.syncAssignment(t, req)
	s.registerReturn(t, req.GlobalID, dec(2), dec(100))

	// Assigned 500, returned 100 -> net 400. Delivering 380 leaves 20 owing.
	resp, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(380),
		ActualCashDelivered:  dec(380),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "400", resp.Assignment.NetAmountToDeliver.String())
	assert.Equal(t, "-20", resp.Difference.String())
	require.NotNil(t, resp.MontoDeuda)
	assert.Equal(t, "20", resp.MontoDeuda.String())

	require.Len(t, s.env.debts.debts, 1)
	debt := s.env.debts.debts[*resp.DebtID]
	assert.Equal(t, model.DebtPendiente, debt.Status)
	assert.Equal(t, "20", debt.MontoDeuda.String())
	assert.Equal(t, s.repartidor.ID, debt.EmployeeID)
	assert.Equal(t, created.ID, debt.LiquidationAssignmentID)
	require.NotNil(t, debt.ShiftID)
	assert.Equal(t, s.repShift.ID, *debt.ShiftID)

	// Replayed liquidation surfaces the stored outcome without a second debt.
	resp2, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(380),
		ActualCashDelivered:  dec(380),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)
	assert.Len(t, s.env.debts.debts, 1)
	assert.Equal(t, "-20", resp2.Difference.String())
	require.NotNil(t, resp2.MontoDeuda)
	assert.Equal(t, "20", resp2.MontoDeuda.String())

	// debt_created notified exactly once.
	debtEvents := 0
	for _, ev := range s.env.queue.events {
		if ev.Type == notify.EventDebtCreated {
			debtEvents++
		}
	}
	assert.Equal(t, 1, debtEvents)
}

func TestLiquidacionCompletaSinDeuda(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	s.syncAssignment(t, req)
	s.registerReturn(t, req.GlobalID, dec(2), dec(100))

	resp, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(400),
		ActualCashDelivered:  dec(400),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Difference.IsZero())
	assert.Nil(t, resp.DebtID)
	assert.Empty(t, s.env.debts.debts)
}

func TestLiquidacionRecalculaPagosVenta(t *testing.T) {
	s := newDeliverySetup(t)

	deskShift := s.env.addShift(s.supervisor.ID, dec(100))
	deskGID := deskShift.GlobalID.String()
	sale := s.env.addSale(deskShift.ID, model.SaleTypeSale, dec(0), dec(0), dec(500))
	saleGID := sale.GlobalID.String()

	req := s.baseRequest()
	req.SaleGlobalID = &saleGID
	req.ShiftGlobalID = &deskGID
	s.syncAssignment(t, req)

	_, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(480),
		CardAmount:           dec(20),
		ActualCashDelivered:  dec(480),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)

	updated := s.env.sales.sales[sale.ID]
	assert.Equal(t, "480", updated.CashAmount.String())
	assert.Equal(t, "20", updated.CardAmount.String())
	assert.True(t, updated.CreditAmount.IsZero())
	assert.Equal(t, model.PaymentMixed, updated.PaymentMethod)
}

func TestSyncAssignmentRechazaNegativos(t *testing.T) {
	s := newDeliverySetup(t)

	// A negative quantity or amount would mint phantom debt at liquidation.
	req := s.baseRequest()
	req.AssignedQuantity = dec(-10)
	req.AssignedAmount = dec(-500)
	_, _, err := s.env.assignmentSvc.Sync(context.Background(), 1, 1, req)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, s.env.assignments.assignments)

	req = s.baseRequest()
	req.AssignedQuantity = decimal.Zero
	_, _, err = s.env.assignmentSvc.Sync(context.Background(), 1, 1, req)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSyncAssignmentDeVentaRequiereTurno(t *testing.T) {
	s := newDeliverySetup(t)

	deskShift := s.env.addShift(s.supervisor.ID, dec(100))
	sale := s.env.addSale(deskShift.ID, model.SaleTypeSale, dec(0), dec(0), dec(500))
	saleGID := sale.GlobalID.String()

	// Born from a credit sale, the assignment must name its shift of origin.
	req := s.baseRequest()
	req.SaleGlobalID = &saleGID
	_, _, err := s.env.assignmentSvc.Sync(context.Background(), 1, 1, req)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Empty(t, s.env.assignments.assignments)

	deskGID := deskShift.GlobalID.String()
	req.ShiftGlobalID = &deskGID
	created, inserted, err := s.env.assignmentSvc.Sync(context.Background(), 1, 1, req)
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NotNil(t, created.ShiftID)
	assert.Equal(t, deskShift.ID, *created.ShiftID)
}

func TestReturnCantidadNoPositiva(t *testing.T) {
	s := newDeliverySetup(t)
	req := s.baseRequest()
	s.syncAssignment(t, req)

	_, _, err := s.env.returnSvc.Sync(context.Background(), 1, 1, dto.SyncReturnRequest{
		GlobalID:             uuid.NewString(),
		AssignmentGlobalID:   req.GlobalID,
		EmployeeGlobalID:     s.repartidor.GlobalID.String(),
		RegisteredByGlobalID: s.supervisor.GlobalID.String(),
		Quantity:             decimal.Zero,
		ReturnDate:           time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, s.env.returns.returns)
}

func TestListReturnsConservaZonaHoraria(t *testing.T) {
	s := newDeliverySetup(t)
	req := s.baseRequest()
	s.syncAssignment(t, req)

	loc := time.FixedZone("ART", -3*60*60)
	when := time.Date(2026, 8, 28, 10, 30, 0, 0, loc)
	amount := dec(100)
	_, _, err := s.env.returnSvc.Sync(context.Background(), 1, 1, dto.SyncReturnRequest{
		GlobalID:             uuid.NewString(),
		AssignmentGlobalID:   req.GlobalID,
		EmployeeGlobalID:     s.repartidor.GlobalID.String(),
		RegisteredByGlobalID: s.supervisor.GlobalID.String(),
		Quantity:             dec(2),
		Amount:               &amount,
		ReturnDate:           when,
	})
	require.NoError(t, err)

	list, err := s.env.returnSvc.ListByAssignment(context.Background(), 1, req.GlobalID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	parsed, err := time.Parse(time.RFC3339, list[0].ReturnDate)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(when))
}

func TestLiquidacionCanceladaEsTerminal(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	created, _ := s.syncAssignment(t, req)
	s.env.assignments.assignments[created.ID].Status = model.AssignmentCancelled

	_, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		ActualCashDelivered:  dec(0),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestMergeLiquidadaRequiereAuditoria(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	created, _ := s.syncAssignment(t, req)
	_, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(500),
		ActualCashDelivered:  dec(500),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)

	// A plain replay cannot rewrite settled figures.
	req.AssignedAmount = dec(900)
	s.syncAssignment(t, req)
	assert.Equal(t, "500", s.env.assignments.assignments[created.ID].AssignedAmount.String())

	// An audited edit can, and leaves its trail.
	reason := "precio corregido por encargado"
	req.WasEdited = true
	req.EditReason = &reason
	s.syncAssignment(t, req)
	stored := s.env.assignments.assignments[created.ID]
	assert.Equal(t, "900", stored.AssignedAmount.String())
	assert.True(t, stored.WasEdited)
	require.NotNil(t, stored.EditReason)
	assert.Equal(t, reason, *stored.EditReason)
}

func TestMergeEstadoSoloAvanza(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	created, _ := s.syncAssignment(t, req)
	_, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, req.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(500),
		ActualCashDelivered:  dec(500),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)

	// A stale replay still carrying "pending" must not rewind the status.
	req.Status = model.AssignmentPending
	s.syncAssignment(t, req)
	assert.Equal(t, model.AssignmentLiquidated, s.env.assignments.assignments[created.ID].Status)
}

func TestReturnPrecioPorDefecto(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	s.syncAssignment(t, req)

	// No unit price nor amount: priced at 500/10 = 50 per unit.
	ret, inserted, err := s.env.returnSvc.Sync(context.Background(), 1, 1, dto.SyncReturnRequest{
		GlobalID:             uuid.NewString(),
		AssignmentGlobalID:   req.GlobalID,
		EmployeeGlobalID:     s.repartidor.GlobalID.String(),
		RegisteredByGlobalID: s.supervisor.GlobalID.String(),
		Quantity:             dec(3),
		ReturnDate:           time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "50", ret.UnitPrice.String())
	assert.Equal(t, "150", ret.Amount.String())
	assert.Equal(t, model.ReturnSourceDesktop, ret.Source)
}

func TestReturnReplayNoDuplica(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	s.syncAssignment(t, req)

	retReq := dto.SyncReturnRequest{
		GlobalID:             uuid.NewString(),
		AssignmentGlobalID:   req.GlobalID,
		EmployeeGlobalID:     s.repartidor.GlobalID.String(),
		RegisteredByGlobalID: s.supervisor.GlobalID.String(),
		Quantity:             dec(2),
		ReturnDate:           time.Now().UTC(),
	}
	_, inserted, err := s.env.returnSvc.Sync(context.Background(), 1, 1, retReq)
	require.NoError(t, err)
	assert.True(t, inserted)

	_, inserted, err = s.env.returnSvc.Sync(context.Background(), 1, 1, retReq)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Len(t, s.env.returns.returns, 1)
}

func TestReturnAsignacionNoSincronizada(t *testing.T) {
	s := newDeliverySetup(t)

	_, _, err := s.env.returnSvc.Sync(context.Background(), 1, 1, dto.SyncReturnRequest{
		GlobalID:             uuid.NewString(),
		AssignmentGlobalID:   uuid.NewString(),
		EmployeeGlobalID:     s.repartidor.GlobalID.String(),
		RegisteredByGlobalID: s.supervisor.GlobalID.String(),
		Quantity:             dec(1),
		ReturnDate:           time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestSyncBatchAislaFallas(t *testing.T) {
	s := newDeliverySetup(t)

	good := s.baseRequest()
	bad := s.baseRequest()
	bad.EmployeeGlobalID = uuid.NewString() // unknown employee

	results := s.env.assignmentSvc.SyncBatch(context.Background(), 1, 1, dto.SyncAssignmentBatchRequest{
		Assignments: []dto.SyncAssignmentRequest{good, bad},
	})
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "inserted", results[0].Action)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Message)
	assert.Len(t, s.env.assignments.assignments, 1)
}

func TestRepartidoresSummary(t *testing.T) {
	s := newDeliverySetup(t)

	req := s.baseRequest()
	s.syncAssignment(t, req)
	s.registerReturn(t, req.GlobalID, dec(2), dec(100))

	// A settled-short assignment contributes outstanding debt.
	other := s.baseRequest()
	s.syncAssignment(t, other)
	_, err := s.env.assignmentSvc.Liquidate(context.Background(), 1, other.GlobalID, dto.LiquidateAssignmentRequest{
		CashAmount:           dec(470),
		ActualCashDelivered:  dec(470),
		LiquidatedByGlobalID: s.supervisor.GlobalID.String(),
	})
	require.NoError(t, err)

	rows, err := s.env.assignmentSvc.RepartidoresSummary(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, s.repartidor.ID, row.EmployeeID)
	assert.Equal(t, int64(1), row.PendingAssignments)
	assert.Equal(t, "500", row.AssignedTotal.String())
	assert.Equal(t, "100", row.ReturnedTotal.String())
	assert.Equal(t, "400", row.NetAmountToDeliver.String())
	assert.Equal(t, "30", row.PendingDebt.String())
}
