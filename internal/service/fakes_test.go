package service

import (
	"context"
	"time"

	"syapos/internal/model"
	"syapos/internal/notify"
	"syapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. DB() returns nil so runTx passes the callback
// straight through; the snapshot repo hands out a dummy handle because the
// snapshot service nil-checks it before saving.

var dummyDB = &gorm.DB{}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptrInt64(v int64) *int64 { return &v }

// ── employees ────────────────────────────────────────────────────────────────

type fakeEmployeeRepo struct {
	seq  int64
	byID map[int64]*model.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byID: map[int64]*model.Employee{}}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	r.seq++
	e.ID = r.seq
	r.byID[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id int64) (*model.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) FindByGlobalID(_ context.Context, tenantID int64, globalID uuid.UUID) (*model.Employee, error) {
	for _, e := range r.byID {
		if e.TenantID == tenantID && e.GlobalID == globalID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) FindByUsername(_ context.Context, tenantID int64, username string) (*model.Employee, error) {
	for _, e := range r.byID {
		if e.TenantID == tenantID && e.Username == username && e.Active {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) ListByBranch(_ context.Context, tenantID, branchID int64) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.byID {
		if e.TenantID == tenantID && e.HomeBranchID == branchID && e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

var _ repository.EmployeeRepository = (*fakeEmployeeRepo)(nil)

// ── shifts ───────────────────────────────────────────────────────────────────

type fakeShiftRepo struct {
	seq    int64
	shifts map[int64]*model.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: map[int64]*model.Shift{}}
}

func (r *fakeShiftRepo) DB() *gorm.DB { return nil }

func (r *fakeShiftRepo) InsertIgnore(_ context.Context, _ *gorm.DB, s *model.Shift) (bool, error) {
	for _, ex := range r.shifts {
		if ex.TenantID == s.TenantID && ex.GlobalID == s.GlobalID {
			return false, nil
		}
	}
	r.seq++
	s.ID = r.seq
	s.CreatedAt = time.Now()
	r.shifts[s.ID] = s
	return true, nil
}

func (r *fakeShiftRepo) FindByID(_ context.Context, id int64) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeShiftRepo) FindByGlobalID(_ context.Context, tenantID int64, globalID uuid.UUID) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.TenantID == tenantID && s.GlobalID == globalID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShiftRepo) FindByGlobalIDForUpdate(ctx context.Context, _ *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.Shift, error) {
	return r.FindByGlobalID(ctx, tenantID, globalID)
}

func (r *fakeShiftRepo) FindOpenByEmployee(_ context.Context, tenantID, employeeID int64) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.TenantID == tenantID && s.EmployeeID == employeeID && s.IsOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShiftRepo) FindOpenByEmployeeForUpdate(ctx context.Context, _ *gorm.DB, tenantID, employeeID int64) (*model.Shift, error) {
	return r.FindOpenByEmployee(ctx, tenantID, employeeID)
}

func (r *fakeShiftRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, cols map[string]any) error {
	s, ok := r.shifts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range cols {
		switch k {
		case "is_open":
			s.IsOpen = v.(bool)
		case "end_time":
			t := v.(time.Time)
			s.EndTime = &t
		case "final_amount":
			d := v.(decimal.Decimal)
			s.FinalAmount = &d
		case "auto_closed":
			s.AutoClosed = v.(bool)
		case "auto_closed_at":
			t := v.(time.Time)
			s.AutoClosedAt = &t
		case "transaction_counter":
			s.TransactionCounter = v.(int)
		case "local_shift_id":
			id := v.(int64)
			s.LocalShiftID = &id
		}
	}
	return nil
}

func (r *fakeShiftRepo) History(_ context.Context, tenantID, branchID int64, limit, offset int) ([]model.Shift, int64, error) {
	var all []model.Shift
	for _, s := range r.shifts {
		if s.TenantID == tenantID && s.BranchID == branchID {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

var _ repository.ShiftRepository = (*fakeShiftRepo)(nil)

// ── sales ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	seq   int64
	sales map[int64]*model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo { return &fakeSaleRepo{sales: map[int64]*model.Sale{}} }

func (r *fakeSaleRepo) DB() *gorm.DB { return nil }

func (r *fakeSaleRepo) InsertIgnore(_ context.Context, _ *gorm.DB, s *model.Sale) (bool, error) {
	for _, ex := range r.sales {
		if ex.TenantID == s.TenantID && ex.GlobalID == s.GlobalID {
			return false, nil
		}
	}
	r.seq++
	s.ID = r.seq
	r.sales[s.ID] = s
	return true, nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, _ *gorm.DB, id int64) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindByGlobalID(_ context.Context, tenantID int64, globalID uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.TenantID == tenantID && s.GlobalID == globalID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSaleRepo) FindByGlobalIDForUpdate(ctx context.Context, _ *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.Sale, error) {
	return r.FindByGlobalID(ctx, tenantID, globalID)
}

func (r *fakeSaleRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, cols map[string]any) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range cols {
		switch k {
		case "cash_amount":
			s.CashAmount = v.(decimal.Decimal)
		case "card_amount":
			s.CardAmount = v.(decimal.Decimal)
		case "credit_amount":
			s.CreditAmount = v.(decimal.Decimal)
		case "total_amount":
			s.TotalAmount = v.(decimal.Decimal)
		case "payment_method":
			s.PaymentMethod = v.(string)
		}
	}
	return nil
}

func (r *fakeSaleRepo) SumByShift(_ context.Context, shiftID int64) (repository.SaleTotals, error) {
	t := repository.SaleTotals{
		CashSales:    decimal.Zero,
		CardSales:    decimal.Zero,
		CreditSales:  decimal.Zero,
		CashPayments: decimal.Zero,
	}
	for _, s := range r.sales {
		if s.ShiftID == nil || *s.ShiftID != shiftID {
			continue
		}
		if s.SaleType == model.SaleTypePayment {
			t.CashPayments = t.CashPayments.Add(s.CashAmount)
			continue
		}
		t.CashSales = t.CashSales.Add(s.CashAmount)
		t.CardSales = t.CardSales.Add(s.CardAmount)
		t.CreditSales = t.CreditSales.Add(s.CreditAmount)
	}
	return t, nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

// ── movements ────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	seq       int64
	movements []*model.CashMovement
}

func newFakeMovementRepo() *fakeMovementRepo { return &fakeMovementRepo{} }

func (r *fakeMovementRepo) DB() *gorm.DB { return nil }

func (r *fakeMovementRepo) InsertIgnore(_ context.Context, _ *gorm.DB, m *model.CashMovement) (bool, error) {
	for _, ex := range r.movements {
		if ex.TenantID == m.TenantID && ex.GlobalID == m.GlobalID {
			return false, nil
		}
	}
	r.seq++
	m.ID = r.seq
	r.movements = append(r.movements, m)
	return true, nil
}

func (r *fakeMovementRepo) FindByGlobalID(_ context.Context, tenantID int64, globalID uuid.UUID) (*model.CashMovement, error) {
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.GlobalID == globalID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovementRepo) ListByShift(_ context.Context, tenantID, shiftID int64, kind string) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.TenantID != tenantID || m.ShiftID != shiftID {
			continue
		}
		if kind != "" && kind != "all" && m.Kind != kind {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMovementRepo) SumByShift(_ context.Context, shiftID int64) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{
		model.MovementExpense:    decimal.Zero,
		model.MovementDeposit:    decimal.Zero,
		model.MovementWithdrawal: decimal.Zero,
	}
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			out[m.Kind] = out[m.Kind].Add(m.Amount)
		}
	}
	return out, nil
}

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

// ── assignments ──────────────────────────────────────────────────────────────

type fakeAssignmentRepo struct {
	seq         int64
	assignments map[int64]*model.DeliveryAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[int64]*model.DeliveryAssignment{}}
}

func (r *fakeAssignmentRepo) DB() *gorm.DB { return nil }

func (r *fakeAssignmentRepo) InsertIgnore(_ context.Context, _ *gorm.DB, a *model.DeliveryAssignment) (bool, error) {
	for _, ex := range r.assignments {
		if ex.TenantID == a.TenantID && ex.GlobalID == a.GlobalID {
			return false, nil
		}
	}
	r.seq++
	a.ID = r.seq
	a.CreatedAt = time.Now()
	r.assignments[a.ID] = a
	return true, nil
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id int64) (*model.DeliveryAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAssignmentRepo) FindByGlobalID(_ context.Context, tenantID int64, globalID uuid.UUID) (*model.DeliveryAssignment, error) {
	for _, a := range r.assignments {
		if a.TenantID == tenantID && a.GlobalID == globalID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAssignmentRepo) FindByGlobalIDForUpdate(ctx context.Context, _ *gorm.DB, tenantID int64, globalID uuid.UUID) (*model.DeliveryAssignment, error) {
	return r.FindByGlobalID(ctx, tenantID, globalID)
}

func (r *fakeAssignmentRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, cols map[string]any) error {
	a, ok := r.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range cols {
		switch k {
		case "status":
			a.Status = v.(string)
		case "assigned_quantity":
			a.AssignedQuantity = v.(decimal.Decimal)
		case "assigned_amount":
			a.AssignedAmount = v.(decimal.Decimal)
		case "unit_price":
			a.UnitPrice = v.(decimal.Decimal)
		case "cash_amount":
			d := v.(decimal.Decimal)
			a.CashAmount = &d
		case "card_amount":
			d := v.(decimal.Decimal)
			a.CardAmount = &d
		case "credit_amount":
			d := v.(decimal.Decimal)
			a.CreditAmount = &d
		case "actual_cash_delivered":
			d := v.(decimal.Decimal)
			a.ActualCashDelivered = &d
		case "liquidated_at":
			t := v.(time.Time)
			a.LiquidatedAt = &t
		case "liquidated_by_employee_id":
			id := v.(int64)
			a.LiquidatedByEmployeeID = &id
		case "was_edited":
			a.WasEdited = v.(bool)
		case "edit_reason":
			s := v.(string)
			a.EditReason = &s
		case "cancelled_at":
			t := v.(time.Time)
			a.CancelledAt = &t
		case "cancel_reason":
			s := v.(string)
			a.CancelReason = &s
		case "notes":
			s := v.(string)
			a.Notes = &s
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) ListByEmployee(_ context.Context, tenantID, employeeID int64, status string) ([]model.DeliveryAssignment, error) {
	var out []model.DeliveryAssignment
	for _, a := range r.assignments {
		if a.TenantID != tenantID || a.EmployeeID != employeeID {
			continue
		}
		if status != "" && status != "all" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListLiquidatedBySale(_ context.Context, _ *gorm.DB, saleID int64) ([]model.DeliveryAssignment, error) {
	var out []model.DeliveryAssignment
	for _, a := range r.assignments {
		if a.SaleID != nil && *a.SaleID == saleID && a.Status == model.AssignmentLiquidated {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) SumForShift(_ context.Context, repartidorShiftID int64) (decimal.Decimal, decimal.Decimal, error) {
	assigned, liquidationCash := decimal.Zero, decimal.Zero
	for _, a := range r.assignments {
		if a.RepartidorShiftID == nil || *a.RepartidorShiftID != repartidorShiftID {
			continue
		}
		if a.Status == model.AssignmentCancelled {
			continue
		}
		assigned = assigned.Add(a.AssignedAmount)
		if a.Status == model.AssignmentLiquidated && a.ActualCashDelivered != nil {
			liquidationCash = liquidationCash.Add(*a.ActualCashDelivered)
		}
	}
	return assigned, liquidationCash, nil
}

var _ repository.AssignmentRepository = (*fakeAssignmentRepo)(nil)

// ── returns ──────────────────────────────────────────────────────────────────

type fakeReturnRepo struct {
	seq     int64
	returns []*model.DeliveryReturn
}

func newFakeReturnRepo() *fakeReturnRepo { return &fakeReturnRepo{} }

func (r *fakeReturnRepo) DB() *gorm.DB { return nil }

func (r *fakeReturnRepo) InsertIgnore(_ context.Context, _ *gorm.DB, dr *model.DeliveryReturn) (bool, error) {
	for _, ex := range r.returns {
		if ex.TenantID == dr.TenantID && ex.GlobalID == dr.GlobalID && ex.TerminalID == dr.TerminalID {
			return false, nil
		}
	}
	r.seq++
	dr.ID = r.seq
	r.returns = append(r.returns, dr)
	return true, nil
}

func (r *fakeReturnRepo) FindByKeyForUpdate(_ context.Context, _ *gorm.DB, tenantID int64, globalID, terminalID uuid.UUID) (*model.DeliveryReturn, error) {
	for _, dr := range r.returns {
		if dr.TenantID == tenantID && dr.GlobalID == globalID && dr.TerminalID == terminalID {
			return dr, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReturnRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, cols map[string]any) error {
	for _, dr := range r.returns {
		if dr.ID != id {
			continue
		}
		for k, v := range cols {
			switch k {
			case "quantity":
				dr.Quantity = v.(decimal.Decimal)
			case "unit_price":
				dr.UnitPrice = v.(decimal.Decimal)
			case "amount":
				dr.Amount = v.(decimal.Decimal)
			case "return_date":
				dr.ReturnDate = v.(time.Time)
			case "notes":
				s := v.(string)
				dr.Notes = &s
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeReturnRepo) ListByAssignment(_ context.Context, assignmentID int64) ([]model.DeliveryReturn, error) {
	var out []model.DeliveryReturn
	for _, dr := range r.returns {
		if dr.AssignmentID == assignmentID {
			out = append(out, *dr)
		}
	}
	return out, nil
}

func (r *fakeReturnRepo) SumByAssignment(_ context.Context, _ *gorm.DB, assignmentID int64) (decimal.Decimal, decimal.Decimal, error) {
	qty, amt := decimal.Zero, decimal.Zero
	for _, dr := range r.returns {
		if dr.AssignmentID == assignmentID {
			qty = qty.Add(dr.Quantity)
			amt = amt.Add(dr.Amount)
		}
	}
	return qty, amt, nil
}

func (r *fakeReturnRepo) SumReturnedByShift(_ context.Context, shiftID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, dr := range r.returns {
		if dr.ShiftID != nil && *dr.ShiftID == shiftID {
			total = total.Add(dr.Amount)
		}
	}
	return total, nil
}

var _ repository.ReturnRepository = (*fakeReturnRepo)(nil)

// ── debts ────────────────────────────────────────────────────────────────────

type fakeDebtRepo struct {
	seq   int64
	debts map[int64]*model.EmployeeDebt
}

func newFakeDebtRepo() *fakeDebtRepo { return &fakeDebtRepo{debts: map[int64]*model.EmployeeDebt{}} }

func (r *fakeDebtRepo) DB() *gorm.DB { return nil }

func (r *fakeDebtRepo) InsertIgnore(_ context.Context, _ *gorm.DB, d *model.EmployeeDebt) (bool, error) {
	for _, ex := range r.debts {
		if ex.LiquidationAssignmentID == d.LiquidationAssignmentID {
			return false, nil
		}
	}
	r.seq++
	d.ID = r.seq
	r.debts[d.ID] = d
	return true, nil
}

func (r *fakeDebtRepo) FindByID(_ context.Context, id int64) (*model.EmployeeDebt, error) {
	d, ok := r.debts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeDebtRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id int64) (*model.EmployeeDebt, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeDebtRepo) FindByAssignment(_ context.Context, assignmentID int64) (*model.EmployeeDebt, error) {
	for _, d := range r.debts {
		if d.LiquidationAssignmentID == assignmentID {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDebtRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, cols map[string]any) error {
	d, ok := r.debts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range cols {
		switch k {
		case "monto_pagado":
			d.MontoPagado = v.(decimal.Decimal)
		case "status":
			d.Status = v.(string)
		case "fecha_pagado":
			t := v.(time.Time)
			d.FechaPagado = &t
		case "notes":
			s := v.(string)
			d.Notes = &s
		}
	}
	return nil
}

func (r *fakeDebtRepo) ListByEmployee(_ context.Context, tenantID, employeeID int64, status string) ([]model.EmployeeDebt, error) {
	var out []model.EmployeeDebt
	for _, d := range r.debts {
		if d.TenantID != tenantID || d.EmployeeID != employeeID {
			continue
		}
		if status != "" && status != "all" && d.Status != status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDebtRepo) BranchSummary(_ context.Context, tenantID, branchID int64) ([]repository.DebtBranchSummary, error) {
	byEmployee := map[int64]*repository.DebtBranchSummary{}
	for _, d := range r.debts {
		if d.TenantID != tenantID || d.BranchID != branchID || d.Status == model.DebtPagado {
			continue
		}
		row, ok := byEmployee[d.EmployeeID]
		if !ok {
			row = &repository.DebtBranchSummary{
				EmployeeID:   d.EmployeeID,
				TotalDeuda:   decimal.Zero,
				TotalPagado:  decimal.Zero,
				TotalPending: decimal.Zero,
			}
			byEmployee[d.EmployeeID] = row
		}
		row.DebtCount++
		row.TotalDeuda = row.TotalDeuda.Add(d.MontoDeuda)
		row.TotalPagado = row.TotalPagado.Add(d.MontoPagado)
		row.TotalPending = row.TotalPending.Add(d.Outstanding())
	}
	out := make([]repository.DebtBranchSummary, 0, len(byEmployee))
	for _, row := range byEmployee {
		out = append(out, *row)
	}
	return out, nil
}

var _ repository.DebtRepository = (*fakeDebtRepo)(nil)

// ── snapshots ────────────────────────────────────────────────────────────────

type fakeSnapshotRepo struct {
	seq     int64
	byShift map[int64]*model.CashSnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{byShift: map[int64]*model.CashSnapshot{}}
}

func (r *fakeSnapshotRepo) DB() *gorm.DB { return dummyDB }

func (r *fakeSnapshotRepo) FindByShift(_ context.Context, shiftID int64) (*model.CashSnapshot, error) {
	s, ok := r.byShift[shiftID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSnapshotRepo) FindByShiftForUpdate(ctx context.Context, _ *gorm.DB, shiftID int64) (*model.CashSnapshot, error) {
	return r.FindByShift(ctx, shiftID)
}

func (r *fakeSnapshotRepo) Save(_ context.Context, _ *gorm.DB, s *model.CashSnapshot) error {
	if existing, ok := r.byShift[s.ShiftID]; ok {
		s.ID = existing.ID
	} else {
		r.seq++
		s.ID = r.seq
	}
	r.byShift[s.ShiftID] = s
	return nil
}

func (r *fakeSnapshotRepo) MarkStale(_ context.Context, _ *gorm.DB, shiftID int64) error {
	if s, ok := r.byShift[shiftID]; ok && !s.Frozen {
		s.NeedsRecalculation = true
	}
	return nil
}

func (r *fakeSnapshotRepo) ListStale(_ context.Context, limit int) ([]model.CashSnapshot, error) {
	var out []model.CashSnapshot
	for _, s := range r.byShift {
		if s.NeedsRecalculation && !s.Frozen {
			out = append(out, *s)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeSnapshotRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, cols map[string]any) error {
	for _, s := range r.byShift {
		if s.ID != id {
			continue
		}
		for k, v := range cols {
			switch k {
			case "needs_recalculation":
				s.NeedsRecalculation = v.(bool)
			case "frozen":
				s.Frozen = v.(bool)
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

var _ repository.SnapshotRepository = (*fakeSnapshotRepo)(nil)

// ── cash cuts ────────────────────────────────────────────────────────────────

type fakeCashCutRepo struct {
	seq  int64
	cuts map[int64]*model.CashCut
}

func newFakeCashCutRepo() *fakeCashCutRepo { return &fakeCashCutRepo{cuts: map[int64]*model.CashCut{}} }

func (r *fakeCashCutRepo) DB() *gorm.DB { return nil }

func (r *fakeCashCutRepo) InsertIgnore(_ context.Context, _ *gorm.DB, c *model.CashCut) (bool, error) {
	for _, ex := range r.cuts {
		if ex.TenantID == c.TenantID && ex.GlobalID == c.GlobalID {
			return false, nil
		}
	}
	r.seq++
	c.ID = r.seq
	r.cuts[c.ID] = c
	return true, nil
}

func (r *fakeCashCutRepo) FindByID(_ context.Context, id int64) (*model.CashCut, error) {
	c, ok := r.cuts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCashCutRepo) FindByGlobalID(_ context.Context, tenantID int64, globalID uuid.UUID) (*model.CashCut, error) {
	for _, c := range r.cuts {
		if c.TenantID == tenantID && c.GlobalID == globalID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCashCutRepo) FindByShift(_ context.Context, shiftID int64) (*model.CashCut, error) {
	for _, c := range r.cuts {
		if c.ShiftID != nil && *c.ShiftID == shiftID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCashCutRepo) UpdateColumns(_ context.Context, _ *gorm.DB, id int64, _ map[string]any) error {
	if _, ok := r.cuts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *fakeCashCutRepo) ListByBranch(_ context.Context, tenantID, branchID int64, limit, offset int) ([]model.CashCut, int64, error) {
	var all []model.CashCut
	for _, c := range r.cuts {
		if c.TenantID == tenantID && c.BranchID == branchID {
			all = append(all, *c)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

var _ repository.CashCutRepository = (*fakeCashCutRepo)(nil)

// ── collaborators ────────────────────────────────────────────────────────────

type captureQueue struct{ events []notify.Event }

func (q *captureQueue) EnqueueNotification(_ context.Context, ev notify.Event) error {
	q.events = append(q.events, ev)
	return nil
}

type passLocker struct{}

func (passLocker) WithLock(_ context.Context, _ string, fn func() error) error { return fn() }

type captureReports struct{ ids []int64 }

func (r *captureReports) EnqueueCashCutReport(_ context.Context, id int64) error {
	r.ids = append(r.ids, id)
	return nil
}

type captureMailer struct{ payloads []map[string]any }

func (m *captureMailer) EnqueueDebtAlert(_ context.Context, p map[string]any) error {
	m.payloads = append(m.payloads, p)
	return nil
}

// ── test environment ─────────────────────────────────────────────────────────

type testEnv struct {
	employees   *fakeEmployeeRepo
	shifts      *fakeShiftRepo
	sales       *fakeSaleRepo
	movements   *fakeMovementRepo
	assignments *fakeAssignmentRepo
	returns     *fakeReturnRepo
	debts       *fakeDebtRepo
	snapshots   *fakeSnapshotRepo
	cashCuts    *fakeCashCutRepo

	queue   *captureQueue
	reports *captureReports
	mailer  *captureMailer

	snapshotSvc   SnapshotService
	shiftSvc      ShiftService
	movementSvc   MovementService
	assignmentSvc AssignmentService
	returnSvc     ReturnService
	debtSvc       DebtService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		employees:   newFakeEmployeeRepo(),
		shifts:      newFakeShiftRepo(),
		sales:       newFakeSaleRepo(),
		movements:   newFakeMovementRepo(),
		assignments: newFakeAssignmentRepo(),
		returns:     newFakeReturnRepo(),
		debts:       newFakeDebtRepo(),
		snapshots:   newFakeSnapshotRepo(),
		cashCuts:    newFakeCashCutRepo(),
		queue:       &captureQueue{},
		reports:     &captureReports{},
		mailer:      &captureMailer{},
	}

	logger := zerolog.Nop()
	gate := notify.NewGate(env.queue, nil, logger)
	resolver := NewResolver(env.employees, env.shifts, env.sales, env.assignments)

	env.snapshotSvc = NewSnapshotService(env.snapshots, env.shifts, env.employees, env.sales, env.movements, env.assignments, env.returns, logger)
	env.shiftSvc = NewShiftService(env.shifts, env.employees, env.cashCuts, env.sales, env.movements, env.snapshotSvc, gate, passLocker{}, env.reports, logger)
	env.movementSvc = NewMovementService(env.movements, resolver, env.snapshotSvc, gate, logger)
	env.assignmentSvc = NewAssignmentService(env.assignments, env.returns, env.debts, env.sales, env.employees, resolver, env.snapshotSvc, gate, logger)
	env.returnSvc = NewReturnService(env.returns, env.assignments, resolver, env.snapshotSvc, gate, logger)
	env.debtSvc = NewDebtService(env.debts, env.mailer, logger)

	return env
}

func (env *testEnv) addEmployee(role string) *model.Employee {
	e := &model.Employee{
		TenantID:     1,
		GlobalID:     uuid.New(),
		HomeBranchID: 1,
		Username:     uuid.NewString()[:8],
		FullName:     "Empleado " + role,
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	_ = env.employees.Create(context.Background(), e)
	return e
}

func (env *testEnv) addShift(employeeID int64, initial decimal.Decimal) *model.Shift {
	s := &model.Shift{
		TenantID:      1,
		BranchID:      1,
		GlobalID:      uuid.New(),
		EmployeeID:    employeeID,
		StartTime:     time.Now().UTC().Add(-time.Hour),
		InitialAmount: initial,
		IsOpen:        true,
	}
	_, _ = env.shifts.InsertIgnore(context.Background(), nil, s)
	return s
}

func (env *testEnv) addSale(shiftID int64, saleType string, cash, card, credit decimal.Decimal) *model.Sale {
	s := &model.Sale{
		TenantID:      1,
		BranchID:      1,
		GlobalID:      uuid.New(),
		TicketNumber:  env.sales.seq + 1,
		ShiftID:       &shiftID,
		EmployeeID:    1,
		TotalAmount:   cash.Add(card).Add(credit),
		CashAmount:    cash,
		CardAmount:    card,
		CreditAmount:  credit,
		PaymentMethod: model.ClassifyPayment(cash, card, credit),
		SaleType:      saleType,
		SaleDate:      time.Now().UTC(),
	}
	_, _ = env.sales.InsertIgnore(context.Background(), nil, s)
	return s
}

func (env *testEnv) addMovement(shiftID int64, kind string, amount decimal.Decimal) *model.CashMovement {
	m := &model.CashMovement{
		TenantID:     1,
		BranchID:     1,
		GlobalID:     uuid.New(),
		Kind:         kind,
		ShiftID:      shiftID,
		EmployeeID:   1,
		Amount:       amount,
		Description:  kind,
		MovementDate: time.Now().UTC(),
	}
	_, _ = env.movements.InsertIgnore(context.Background(), nil, m)
	return m
}
