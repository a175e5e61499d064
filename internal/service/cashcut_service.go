package service

import (
	"context"
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

type CashCutService interface {
	// SyncBatch lands device-computed cash cuts. Items fail independently;
	// the device retries only the ones reported as failed.
	SyncBatch(ctx context.Context, tenantID, branchID int64, req dto.SyncCashCutBatchRequest) []dto.SyncResult
	ListByBranch(ctx context.Context, tenantID, branchID int64, page, limit int) ([]dto.CashCutResponse, int64, error)
}

type cashCutService struct {
	cashCuts repository.CashCutRepository
	resolver Resolver
	gate     *notify.Gate
	log      zerolog.Logger
}

func NewCashCutService(
	cashCuts repository.CashCutRepository,
	resolver Resolver,
	gate *notify.Gate,
	log zerolog.Logger,
) CashCutService {
	return &cashCutService{cashCuts: cashCuts, resolver: resolver, gate: gate, log: log}
}

func (s *cashCutService) SyncBatch(ctx context.Context, tenantID, branchID int64, req dto.SyncCashCutBatchRequest) []dto.SyncResult {
	results := make([]dto.SyncResult, 0, len(req.CashCuts))
	for _, item := range req.CashCuts {
		inserted, err := s.syncOne(ctx, tenantID, branchID, item)
		r := dto.SyncResult{GlobalID: item.GlobalID, Success: err == nil}
		switch {
		case err != nil:
			r.Message = err.Error()
		case inserted:
			r.Action = "inserted"
		default:
			r.Action = "skipped"
		}
		results = append(results, r)
	}
	return results
}

func (s *cashCutService) syncOne(ctx context.Context, tenantID, branchID int64, req dto.SyncCashCutRequest) (bool, error) {
	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return false, fmt.Errorf("global_id invalido: %w", err)
	}
	emp, err := s.resolver.ResolveEmployee(ctx, tenantID, req.EmployeeGlobalID)
	if err != nil {
		return false, err
	}
	shiftID, err := s.resolver.ResolveShiftID(ctx, tenantID, req.ShiftGlobalID, false)
	if err != nil {
		return false, err
	}

	var inserted bool
	txErr := runTx(ctx, s.cashCuts.DB(), func(tx *gorm.DB) error {
		cut := &model.CashCut{
			TenantID:             tenantID,
			BranchID:             branchID,
			GlobalID:             gid,
			ShiftID:              shiftID,
			EmployeeID:           emp.ID,
			StartTime:            req.StartTime,
			EndTime:              req.EndTime,
			InitialAmount:        req.InitialAmount,
			CashSales:            req.CashSales,
			CardSales:            req.CardSales,
			CreditSales:          req.CreditSales,
			CashPayments:         req.CashPayments,
			Expenses:             req.Expenses,
			Deposits:             req.Deposits,
			Withdrawals:          req.Withdrawals,
			ExpectedCashInDrawer: req.ExpectedCashInDrawer,
			CountedCash:          req.CountedCash,
			Difference:           req.Difference,
			Notes:                req.Notes,
			IsClosed:             req.IsClosed,
			TerminalID:           parseOptionalUUID(req.TerminalID),
			CreatedLocalUTC:      req.CreatedLocalUTC,
		}
		// Cash cuts are frozen records: a replay never rewrites one.
		ins, err := s.cashCuts.InsertIgnore(ctx, tx, cut)
		if err != nil {
			return err
		}
		inserted = ins
		return nil
	})
	if txErr != nil {
		return false, txErr
	}

	s.gate.Notify(ctx, inserted, false, notify.Event{
		Type:     notify.EventCashCutRegistered,
		TenantID: tenantID,
		BranchID: branchID,
		Audience: notify.AudienceSupervisors,
		Title:    "Corte de Caja Sincronizado",
		Body:     fmt.Sprintf("Corte de %s registrado", emp.FullName),
		Data: map[string]string{
			"cash_cut_global_id": req.GlobalID,
		},
	})
	return inserted, nil
}

func (s *cashCutService) ListByBranch(ctx context.Context, tenantID, branchID int64, page, limit int) ([]dto.CashCutResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	cuts, total, err := s.cashCuts.ListByBranch(ctx, tenantID, branchID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CashCutResponse, 0, len(cuts))
	for i := range cuts {
		c := &cuts[i]
		out = append(out, dto.CashCutResponse{
			ID:                   c.ID,
			GlobalID:             c.GlobalID.String(),
			EmployeeID:           c.EmployeeID,
			ShiftID:              c.ShiftID,
			StartTime:            c.StartTime.Format(time.RFC3339),
			EndTime:              c.EndTime.Format(time.RFC3339),
			ExpectedCashInDrawer: c.ExpectedCashInDrawer,
			CountedCash:          c.CountedCash,
			Difference:           c.Difference,
			IsClosed:             c.IsClosed,
		})
	}
	return out, total, nil
}
