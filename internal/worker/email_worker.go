package worker

// email_worker.go
// Processes email jobs from QueueEmail: generic emails with an optional PDF
// attachment, plus the supervisor debt alerts.

import (
	"context"
	"encoding/json"
	"fmt"

	"syapos/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the generic job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// EmailWorker sends queued emails via SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	if err := w.mailer.SendCashCutReport(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return fmt.Errorf("email_worker: send: %w", err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
	return nil
}

// DebtAlertWorker turns debt events into emails to the configured alert
// mailbox.
type DebtAlertWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewDebtAlertWorker(mailer *infra.Mailer, alertEmail string) *DebtAlertWorker {
	return &DebtAlertWorker{mailer: mailer, alertEmail: alertEmail}
}

func (w *DebtAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	if w.alertEmail == "" {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("debt_alert_worker: invalid payload")
		return nil
	}

	subject := "Alerta de deuda"
	body := "Se registro un movimiento de deuda."
	switch payload["event"] {
	case "debt_created":
		subject = "Nueva deuda de repartidor"
		body = fmt.Sprintf("Se registro una deuda de $%v para el empleado %v.", payload["monto"], payload["employee_id"])
	case "debt_settled":
		subject = "Deuda saldada"
		body = fmt.Sprintf("El empleado %v saldo su deuda de $%v.", payload["employee_id"], payload["monto"])
	}

	if err := w.mailer.SendDebtAlert(w.alertEmail, subject, body); err != nil {
		return fmt.Errorf("debt_alert_worker: send: %w", err)
	}
	log.Info().Str("to", w.alertEmail).Str("subject", subject).Msg("debt_alert_worker: alert sent")
	return nil
}
