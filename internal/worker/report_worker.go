package worker

// report_worker.go
// Generates the end-of-shift PDF for a frozen cash cut, stores its path on
// the record, and optionally emails it to the branch mailbox.

import (
	"context"
	"encoding/json"
	"fmt"

	"syapos/internal/infra"
	"syapos/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReport.
type ReportJobPayload struct {
	CashCutID int64 `json:"cash_cut_id"`
}

type ReportWorker struct {
	cashCuts    repository.CashCutRepository
	employees   repository.EmployeeRepository
	dispatcher  *Dispatcher
	storagePath string
	branchEmail string
}

func NewReportWorker(
	cashCuts repository.CashCutRepository,
	employees repository.EmployeeRepository,
	dispatcher *Dispatcher,
	storagePath string,
	branchEmail string,
) *ReportWorker {
	return &ReportWorker{
		cashCuts:    cashCuts,
		employees:   employees,
		dispatcher:  dispatcher,
		storagePath: storagePath,
		branchEmail: branchEmail,
	}
}

func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil
	}

	cut, err := w.cashCuts.FindByID(ctx, payload.CashCutID)
	if err != nil {
		return fmt.Errorf("report_worker: cash cut %d: %w", payload.CashCutID, err)
	}

	name := ""
	if emp, err := w.employees.FindByID(ctx, cut.EmployeeID); err == nil {
		name = emp.FullName
	}

	pdfPath, err := infra.GenerateCashCutPDF(cut, name, w.storagePath)
	if err != nil {
		return fmt.Errorf("report_worker: generate pdf: %w", err)
	}
	if err := w.cashCuts.UpdateColumns(ctx, w.cashCuts.DB(), cut.ID, map[string]any{
		"report_path": pdfPath,
	}); err != nil {
		log.Warn().Err(err).Int64("cash_cut_id", cut.ID).Msg("report_worker: report path update failed")
	}
	log.Info().Str("pdf", pdfPath).Int64("cash_cut_id", cut.ID).Msg("report_worker: report generated")

	if w.branchEmail != "" {
		job := EmailJobPayload{
			ToEmail: w.branchEmail,
			Subject: fmt.Sprintf("Corte de caja — %s", cut.EndTime.Format("02/01/2006")),
			Body:    fmt.Sprintf("Adjunto el corte de caja de %s.", name),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Msg("report_worker: email enqueue failed")
		}
	}
	return nil
}
