package service

import (
	"context"
	"testing"
	"time"

	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncOpenInsertaYReplay(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	req := dto.SyncShiftOpenRequest{
		GlobalID:           uuid.NewString(),
		EmployeeGlobalID:   emp.GlobalID.String(),
		LocalShiftID:       ptrInt64(7),
		StartTime:          time.Now().UTC(),
		InitialAmount:      dec(100),
		TransactionCounter: 3,
	}
	shift, inserted, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, req)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, shift.IsOpen)

	// Replay with a newer counter: same row, counter advances, no second push.
	req.TransactionCounter = 9
	replayed, inserted, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, req)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, shift.ID, replayed.ID)
	assert.Equal(t, 9, env.shifts.shifts[shift.ID].TransactionCounter)
	assert.Len(t, env.queue.events, 1)
	assert.Equal(t, notify.EventShiftOpened, env.queue.events[0].Type)
}

func TestSyncOpenNoRetrocedeContador(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	req := dto.SyncShiftOpenRequest{
		GlobalID:           uuid.NewString(),
		EmployeeGlobalID:   emp.GlobalID.String(),
		StartTime:          time.Now().UTC(),
		InitialAmount:      dec(100),
		TransactionCounter: 9,
	}
	shift, _, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, req)
	require.NoError(t, err)

	req.TransactionCounter = 3
	_, _, err = env.shiftSvc.SyncOpen(context.Background(), 1, 1, req)
	require.NoError(t, err)
	assert.Equal(t, 9, env.shifts.shifts[shift.ID].TransactionCounter)
}

func TestSyncOpenMismoDispositivoConflicto(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	open := dto.SyncShiftOpenRequest{
		GlobalID:         uuid.NewString(),
		EmployeeGlobalID: emp.GlobalID.String(),
		LocalShiftID:     ptrInt64(7),
		StartTime:        time.Now().UTC(),
		InitialAmount:    dec(100),
	}
	_, _, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, open)
	require.NoError(t, err)

	// Same device (same local_shift_id) retries with a different global_id:
	// the client must reconcile, not open twice.
	open.GlobalID = uuid.NewString()
	_, _, err = env.shiftSvc.SyncOpen(context.Background(), 1, 1, open)
	assert.ErrorIs(t, err, ErrShiftConflict)
}

func TestSyncOpenAutoCierraTurnoViejo(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	first := dto.SyncShiftOpenRequest{
		GlobalID:         uuid.NewString(),
		EmployeeGlobalID: emp.GlobalID.String(),
		LocalShiftID:     ptrInt64(7),
		StartTime:        time.Now().UTC(),
		InitialAmount:    dec(100),
	}
	stale, _, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, first)
	require.NoError(t, err)

	// A new device opens over the stale session.
	second := dto.SyncShiftOpenRequest{
		GlobalID:         uuid.NewString(),
		EmployeeGlobalID: emp.GlobalID.String(),
		LocalShiftID:     ptrInt64(8),
		StartTime:        time.Now().UTC(),
		InitialAmount:    dec(200),
	}
	fresh, inserted, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, second)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, fresh.IsOpen)

	closed := env.shifts.shifts[stale.ID]
	assert.False(t, closed.IsOpen)
	assert.True(t, closed.AutoClosed)
	require.NotNil(t, closed.AutoClosedAt)

	// Same as a regular close: the stale shift's snapshot ends up pinned,
	// just without counted cash.
	snap, ok := env.snapshots.byShift[stale.ID]
	require.True(t, ok)
	assert.True(t, snap.Frozen)
	assert.Nil(t, snap.ActualCashDelivered)

	types := make([]string, 0, len(env.queue.events))
	for _, ev := range env.queue.events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, notify.EventShiftAutoClosed)
}

func TestSyncCloseIdempotente(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	open := dto.SyncShiftOpenRequest{
		GlobalID:         uuid.NewString(),
		EmployeeGlobalID: emp.GlobalID.String(),
		StartTime:        time.Now().UTC(),
		InitialAmount:    dec(100),
	}
	shift, _, err := env.shiftSvc.SyncOpen(context.Background(), 1, 1, open)
	require.NoError(t, err)

	final := dec(150)
	closeReq := dto.SyncShiftCloseRequest{
		GlobalID:    open.GlobalID,
		EndTime:     time.Now().UTC(),
		FinalAmount: &final,
	}
	closed, err := env.shiftSvc.SyncClose(context.Background(), 1, closeReq)
	require.NoError(t, err)
	assert.Equal(t, shift.ID, closed.ID)
	assert.False(t, env.shifts.shifts[shift.ID].IsOpen)

	// Replayed close is a no-op, not an error.
	_, err = env.shiftSvc.SyncClose(context.Background(), 1, closeReq)
	require.NoError(t, err)

	// Closing freezes the snapshot.
	snap, ok := env.snapshots.byShift[shift.ID]
	require.True(t, ok)
	assert.True(t, snap.Frozen)
}

func TestSyncCloseTurnoDesconocido(t *testing.T) {
	env := newTestEnv()

	_, err := env.shiftSvc.SyncClose(context.Background(), 1, dto.SyncShiftCloseRequest{
		GlobalID: uuid.NewString(),
		EndTime:  time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestOpenInteractivoDuplicado(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	_, err := env.shiftSvc.Open(context.Background(), 1, 1, emp.ID, dto.OpenShiftRequest{
		InitialAmount: dec(100),
	})
	require.NoError(t, err)

	_, err = env.shiftSvc.Open(context.Background(), 1, 1, emp.ID, dto.OpenShiftRequest{
		InitialAmount: dec(200),
	})
	assert.ErrorIs(t, err, ErrShiftConflict)
}

func TestCloseGeneraCorteConEsperado(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	shift := env.addShift(emp.ID, dec(100))
	env.addSale(shift.ID, model.SaleTypeSale, dec(500), dec(200), dec(0))
	env.addSale(shift.ID, model.SaleTypePayment, dec(50), dec(0), dec(0))
	env.addMovement(shift.ID, model.MovementDeposit, dec(20))
	env.addMovement(shift.ID, model.MovementExpense, dec(30))
	env.addMovement(shift.ID, model.MovementWithdrawal, dec(10))

	// 100 + 500 + 50 + 20 - 30 - 10 = 630
	closed, cut, err := env.shiftSvc.Close(context.Background(), 1, emp.ID, dto.CloseShiftRequest{
		CountedCash: dec(630),
	})
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)

	assert.Equal(t, "630", cut.ExpectedCashInDrawer.String())
	require.NotNil(t, cut.Difference)
	assert.True(t, cut.Difference.IsZero())
	assert.Equal(t, "500", cut.CashSales.String())
	assert.Equal(t, "200", cut.CardSales.String())
	assert.Equal(t, "50", cut.CashPayments.String())

	// The PDF report job is queued with the stored cut id.
	require.Len(t, env.reports.ids, 1)
	assert.Equal(t, cut.ID, env.reports.ids[0])

	// Drawer short by 30 on a second employee's shift.
	emp2 := env.addEmployee(model.RoleCajero)
	env.addShift(emp2.ID, dec(100))
	_, cut2, err := env.shiftSvc.Close(context.Background(), 1, emp2.ID, dto.CloseShiftRequest{
		CountedCash: dec(70),
	})
	require.NoError(t, err)
	assert.Equal(t, "-30", cut2.Difference.String())
}

func TestCloseSinTurnoAbierto(t *testing.T) {
	env := newTestEnv()
	emp := env.addEmployee(model.RoleCajero)

	_, _, err := env.shiftSvc.Close(context.Background(), 1, emp.ID, dto.CloseShiftRequest{
		CountedCash: dec(0),
	})
	assert.ErrorIs(t, err, ErrShiftClosed)
}
