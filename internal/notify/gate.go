// Package notify decides whether a sync outcome produces a push
// notification and hands accepted events to the async queue. Business
// transactions never wait on delivery: the gate runs after commit, failures
// are logged and dropped.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Audience values for an Event.
const (
	AudienceBranch      = "branch"
	AudienceSupervisors = "supervisors"
	AudienceEmployee    = "employee"
)

// Event types emitted by the sync and shift flows.
const (
	EventShiftOpened       = "shift_opened"
	EventShiftClosed       = "shift_closed"
	EventShiftAutoClosed   = "shift_auto_closed"
	EventAssignmentCreated = "assignment_created"
	EventDebtCreated       = "debt_created"
	EventCashCutRegistered = "cash_cut_registered"
)

// Event is an outbound notification, fully resolved: the worker that sends
// it does not reach back into business state.
type Event struct {
	Type     string `json:"type"`
	TenantID int64  `json:"tenant_id"`
	BranchID int64  `json:"branch_id"`
	// Audience selects the device set; EmployeeID is only read for
	// AudienceEmployee.
	Audience   string            `json:"audience"`
	EmployeeID int64             `json:"employee_id,omitempty"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
}

// Enqueuer queues an event for asynchronous push delivery.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, ev Event) error
}

// Publisher fans an event out to connected dashboards in realtime.
type Publisher interface {
	PublishBranch(ctx context.Context, tenantID, branchID int64, event string, payload any) error
}

// Gate sits between the upsert engine and the outbound channels. Push goes
// out at most once per record: only when the write was a first insert and
// the caller did not suppress it. The realtime branch publish goes out on
// every accepted write, insert or update, so dashboards always converge.
type Gate struct {
	queue Enqueuer
	rt    Publisher
	log   zerolog.Logger
}

func NewGate(queue Enqueuer, rt Publisher, log zerolog.Logger) *Gate {
	return &Gate{queue: queue, rt: rt, log: log}
}

// Notify applies the de-dup rule and dispatches. Safe to call with a nil
// receiver (tests that do not care about notifications).
func (g *Gate) Notify(ctx context.Context, inserted, suppress bool, ev Event) {
	if g == nil {
		return
	}
	if g.rt != nil {
		if err := g.rt.PublishBranch(ctx, ev.TenantID, ev.BranchID, ev.Type, ev.Data); err != nil {
			g.log.Warn().Err(err).Str("event", ev.Type).Msg("realtime publish failed")
		}
	}
	if !inserted || suppress {
		return
	}
	if g.queue == nil {
		return
	}
	if err := g.queue.EnqueueNotification(ctx, ev); err != nil {
		g.log.Warn().Err(err).Str("event", ev.Type).Msg("notification enqueue failed")
	}
}
