package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DebtAlertMailer emails supervisors about debt movements. Implemented by
// the worker dispatcher; nil disables mailing.
type DebtAlertMailer interface {
	EnqueueDebtAlert(ctx context.Context, payload map[string]any) error
}

type DebtService interface {
	// RegisterPayment applies a payment to a debt. Status only moves
	// forward: pendiente -> parcial -> pagado.
	RegisterPayment(ctx context.Context, tenantID, debtID int64, req dto.RegisterDebtPaymentRequest) (*dto.DebtResponse, error)
	ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]dto.DebtResponse, error)
	BranchSummary(ctx context.Context, tenantID, branchID int64) ([]dto.DebtBranchSummaryResponse, error)
}

type debtService struct {
	debts  repository.DebtRepository
	mailer DebtAlertMailer
	log    zerolog.Logger
}

func NewDebtService(debts repository.DebtRepository, mailer DebtAlertMailer, log zerolog.Logger) DebtService {
	return &debtService{debts: debts, mailer: mailer, log: log}
}

func (s *debtService) RegisterPayment(ctx context.Context, tenantID, debtID int64, req dto.RegisterDebtPaymentRequest) (*dto.DebtResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("el monto debe ser positivo: %w", ErrInvalidPayment)
	}

	var updated *model.EmployeeDebt
	txErr := runTx(ctx, s.debts.DB(), func(tx *gorm.DB) error {
		debt, err := s.debts.FindByIDForUpdate(ctx, tx, debtID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if debt.TenantID != tenantID {
			return ErrNotFound
		}
		if debt.Status == model.DebtPagado {
			return fmt.Errorf("deuda ya pagada: %w", ErrTerminalState)
		}
		outstanding := debt.Outstanding()
		if req.Amount.GreaterThan(outstanding) {
			return fmt.Errorf("el pago de $%s excede el saldo de $%s: %w",
				req.Amount.StringFixed(2), outstanding.StringFixed(2), ErrInvalidPayment)
		}

		paid := debt.MontoPagado.Add(req.Amount)
		status := model.DebtParcial
		cols := map[string]any{"monto_pagado": paid}
		if paid.GreaterThanOrEqual(debt.MontoDeuda) {
			status = model.DebtPagado
			now := time.Now().UTC()
			cols["fecha_pagado"] = now
			debt.FechaPagado = &now
		}
		cols["status"] = status
		if req.Notes != nil {
			cols["notes"] = *req.Notes
		}
		if err := s.debts.UpdateColumns(ctx, tx, debt.ID, cols); err != nil {
			return err
		}
		debt.MontoPagado = paid
		debt.Status = status
		updated = debt
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.mailer != nil && updated.Status == model.DebtPagado {
		if err := s.mailer.EnqueueDebtAlert(ctx, map[string]any{
			"debt_id":     updated.ID,
			"employee_id": updated.EmployeeID,
			"event":       "debt_settled",
			"monto":       updated.MontoDeuda.StringFixed(2),
		}); err != nil {
			s.log.Warn().Err(err).Int64("debt_id", updated.ID).Msg("debt alert enqueue failed")
		}
	}

	resp := debtToResponse(updated)
	return &resp, nil
}

func (s *debtService) ListByEmployee(ctx context.Context, tenantID, employeeID int64, status string) ([]dto.DebtResponse, error) {
	list, err := s.debts.ListByEmployee(ctx, tenantID, employeeID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtResponse, 0, len(list))
	for i := range list {
		out = append(out, debtToResponse(&list[i]))
	}
	return out, nil
}

func (s *debtService) BranchSummary(ctx context.Context, tenantID, branchID int64) ([]dto.DebtBranchSummaryResponse, error) {
	rows, err := s.debts.BranchSummary(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtBranchSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DebtBranchSummaryResponse{
			EmployeeID:   r.EmployeeID,
			FullName:     r.FullName,
			DebtCount:    r.DebtCount,
			TotalDeuda:   r.TotalDeuda,
			TotalPagado:  r.TotalPagado,
			TotalPending: r.TotalPending,
		})
	}
	return out, nil
}

func debtToResponse(d *model.EmployeeDebt) dto.DebtResponse {
	resp := dto.DebtResponse{
		ID:                      d.ID,
		GlobalID:                d.GlobalID.String(),
		EmployeeID:              d.EmployeeID,
		LiquidationAssignmentID: d.LiquidationAssignmentID,
		MontoDeuda:              d.MontoDeuda,
		MontoPagado:             d.MontoPagado,
		Outstanding:             d.Outstanding(),
		Status:                  d.Status,
		FechaDeuda:              d.FechaDeuda.Format(time.RFC3339),
	}
	if d.FechaPagado != nil {
		t := d.FechaPagado.Format(time.RFC3339)
		resp.FechaPagado = &t
	}
	return resp
}
