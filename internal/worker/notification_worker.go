package worker

// notification_worker.go
// Processes push jobs from QueueNotification. Resolves the audience to a set
// of device tokens, multicasts through the FCM client behind the circuit
// breaker, and deactivates tokens the push service reports as dead.

import (
	"context"
	"encoding/json"
	"fmt"

	"syapos/internal/infra"
	"syapos/internal/notify"
	"syapos/internal/repository"

	"github.com/rs/zerolog/log"
)

type NotificationWorker struct {
	push   *infra.PushClient
	cb     *infra.CircuitBreaker
	tokens repository.DeviceTokenRepository
}

func NewNotificationWorker(push *infra.PushClient, cb *infra.CircuitBreaker, tokens repository.DeviceTokenRepository) *NotificationWorker {
	return &NotificationWorker{push: push, cb: cb, tokens: tokens}
}

func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var ev notify.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return nil // malformed payload, retrying will not help
	}

	tokens, err := w.resolveTokens(ctx, ev)
	if err != nil {
		return fmt.Errorf("notification_worker: resolve tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Debug().Str("event", ev.Type).Str("audience", ev.Audience).Msg("notification_worker: no active devices")
		return nil
	}

	var result *infra.PushResult
	err = w.cb.Execute(func() error {
		r, sendErr := w.push.Send(ctx, infra.PushMessage{
			Tokens: tokens,
			Title:  ev.Title,
			Body:   ev.Body,
			Data:   ev.Data,
		})
		if sendErr != nil {
			return sendErr
		}
		result = r
		return nil
	})
	if err != nil {
		return fmt.Errorf("notification_worker: send: %w", err)
	}

	if len(result.InvalidTokens) > 0 {
		if err := w.tokens.Deactivate(ctx, result.InvalidTokens); err != nil {
			log.Warn().Err(err).Int("count", len(result.InvalidTokens)).Msg("notification_worker: token deactivation failed")
		}
	}
	log.Info().
		Str("event", ev.Type).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("notification_worker: push delivered")
	return nil
}

func (w *NotificationWorker) resolveTokens(ctx context.Context, ev notify.Event) ([]string, error) {
	switch ev.Audience {
	case notify.AudienceSupervisors:
		return w.tokens.ListActiveSupervisorsByBranch(ctx, ev.TenantID, ev.BranchID)
	case notify.AudienceEmployee:
		return w.tokens.ListActiveByEmployee(ctx, ev.EmployeeID)
	default:
		return w.tokens.ListActiveByBranch(ctx, ev.TenantID, ev.BranchID)
	}
}
