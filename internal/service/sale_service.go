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

type SaleService interface {
	Sync(ctx context.Context, tenantID, branchID int64, req dto.SyncSaleRequest) (*model.Sale, bool, error)
	SyncBatch(ctx context.Context, tenantID, branchID int64, req dto.SyncSaleBatchRequest) []dto.SyncResult
}

type saleService struct {
	sales     repository.SaleRepository
	resolver  Resolver
	snapshots SnapshotService
	gate      *notify.Gate
	log       zerolog.Logger
}

func NewSaleService(
	sales repository.SaleRepository,
	resolver Resolver,
	snapshots SnapshotService,
	gate *notify.Gate,
	log zerolog.Logger,
) SaleService {
	return &saleService{sales: sales, resolver: resolver, snapshots: snapshots, gate: gate, log: log}
}

func (s *saleService) Sync(ctx context.Context, tenantID, branchID int64, req dto.SyncSaleRequest) (*model.Sale, bool, error) {
	gid, err := uuid.Parse(req.GlobalID)
	if err != nil {
		return nil, false, fmt.Errorf("global_id invalido: %w", err)
	}
	emp, err := s.resolver.ResolveEmployee(ctx, tenantID, req.EmployeeGlobalID)
	if err != nil {
		return nil, false, err
	}
	shiftID, err := s.resolver.ResolveShiftID(ctx, tenantID, req.ShiftGlobalID, false)
	if err != nil {
		return nil, false, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = model.ClassifyPayment(req.CashAmount, req.CardAmount, req.CreditAmount)
	}
	saleType := req.SaleType
	if saleType == "" {
		saleType = model.SaleTypeSale
	}

	var (
		result   *model.Sale
		inserted bool
	)
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		sale := &model.Sale{
			TenantID:        tenantID,
			BranchID:        branchID,
			GlobalID:        gid,
			TicketNumber:    req.TicketNumber,
			ShiftID:         shiftID,
			EmployeeID:      emp.ID,
			TotalAmount:     req.TotalAmount,
			CashAmount:      req.CashAmount,
			CardAmount:      req.CardAmount,
			CreditAmount:    req.CreditAmount,
			PaymentMethod:   method,
			SaleType:        saleType,
			SaleDate:        req.SaleDate,
			TerminalID:      parseOptionalUUID(req.TerminalID),
			CreatedLocalUTC: req.CreatedLocalUTC,
		}
		ins, err := s.sales.InsertIgnore(ctx, tx, sale)
		if err != nil {
			return err
		}
		if ins {
			inserted = true
			result = sale
			return nil
		}
		existing, err := s.sales.FindByGlobalIDForUpdate(ctx, tx, tenantID, gid)
		if err != nil {
			return err
		}
		if cols := mergeSale(existing, req); len(cols) > 0 {
			if err := s.sales.UpdateColumns(ctx, tx, existing.ID, cols); err != nil {
				return err
			}
		}
		result = existing
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	if shiftID != nil && s.snapshots != nil {
		if err := s.snapshots.MarkStale(ctx, nil, *shiftID); err != nil {
			s.log.Warn().Err(err).Int64("shift_id", *shiftID).Msg("snapshot stale mark failed")
		}
	}

	// Sales sync in bulk after every ticket; pushing each one would drown
	// the branch in notifications, so the push channel stays suppressed.
	s.gate.Notify(ctx, inserted, true, notify.Event{
		Type:     "sale_synced",
		TenantID: tenantID,
		BranchID: branchID,
		Audience: notify.AudienceBranch,
		Data: map[string]string{
			"sale_global_id": req.GlobalID,
		},
	})

	return result, inserted, nil
}

func (s *saleService) SyncBatch(ctx context.Context, tenantID, branchID int64, req dto.SyncSaleBatchRequest) []dto.SyncResult {
	results := make([]dto.SyncResult, 0, len(req.Sales))
	for _, item := range req.Sales {
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
