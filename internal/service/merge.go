package service

import (
	"time"

	"syapos/internal/dto"
	"syapos/internal/model"
)

// Per-field merge policy for replayed sync records. A device may resend a
// record any number of times, possibly with newer field values; the merge
// functions decide field by field what a replay may change. Three rules are
// in play:
//
//   - terminal-state-guarded: assigned figures are writable while the record
//     is pending; once liquidated or cancelled they change only through an
//     audited edit (was_edited with a reason).
//   - overwrite-when-present: payment fields take the incoming value when
//     the payload carries one and keep the stored value otherwise.
//   - forward-only status: pending may advance to liquidated or cancelled;
//     a terminal status never moves backwards, replays of it are no-ops.
//
// Each function returns the columns to update; an empty map means the
// replay changes nothing.

func mergeShift(existing *model.Shift, req dto.SyncShiftOpenRequest) map[string]any {
	cols := map[string]any{}
	if existing.LocalShiftID == nil && req.LocalShiftID != nil {
		cols["local_shift_id"] = *req.LocalShiftID
	}
	// The counter only grows; a stale replay must not rewind it.
	if req.TransactionCounter > existing.TransactionCounter {
		cols["transaction_counter"] = req.TransactionCounter
	}
	return cols
}

func mergeAssignment(existing *model.DeliveryAssignment, req dto.SyncAssignmentRequest) map[string]any {
	cols := map[string]any{}

	terminal := existing.Status != model.AssignmentPending
	auditedEdit := req.WasEdited && req.EditReason != nil && *req.EditReason != ""

	// Assigned figures: free while pending, audited edit afterwards.
	if !terminal || auditedEdit {
		if !existing.AssignedQuantity.Equal(req.AssignedQuantity) {
			cols["assigned_quantity"] = req.AssignedQuantity
		}
		if !existing.AssignedAmount.Equal(req.AssignedAmount) {
			cols["assigned_amount"] = req.AssignedAmount
		}
		if !existing.UnitPrice.Equal(req.UnitPrice) {
			cols["unit_price"] = req.UnitPrice
		}
		if auditedEdit && !existing.WasEdited {
			cols["was_edited"] = true
			cols["edit_reason"] = *req.EditReason
		}
	}

	// Payment split: overwrite-when-present.
	if req.CashAmount != nil {
		cols["cash_amount"] = *req.CashAmount
	}
	if req.CardAmount != nil {
		cols["card_amount"] = *req.CardAmount
	}
	if req.CreditAmount != nil {
		cols["credit_amount"] = *req.CreditAmount
	}
	if req.ActualCashDelivered != nil {
		cols["actual_cash_delivered"] = *req.ActualCashDelivered
	}
	if req.Notes != nil {
		cols["notes"] = *req.Notes
	}

	// Status: forward transitions only.
	if req.Status != "" && req.Status != existing.Status {
		switch {
		case existing.Status == model.AssignmentPending && req.Status == model.AssignmentLiquidated:
			cols["status"] = model.AssignmentLiquidated
			if req.LiquidatedAt != nil {
				cols["liquidated_at"] = *req.LiquidatedAt
			} else {
				cols["liquidated_at"] = time.Now().UTC()
			}
		case existing.Status == model.AssignmentPending && req.Status == model.AssignmentCancelled:
			cols["status"] = model.AssignmentCancelled
			if req.CancelledAt != nil {
				cols["cancelled_at"] = *req.CancelledAt
			} else {
				cols["cancelled_at"] = time.Now().UTC()
			}
			if req.CancelReason != nil {
				cols["cancel_reason"] = *req.CancelReason
			}
		}
		// Any other transition is a stale replay; ignore it.
	}

	return cols
}

func mergeReturn(existing *model.DeliveryReturn, req dto.SyncReturnRequest) map[string]any {
	// Returns never reach a terminal state: the latest replay wins.
	cols := map[string]any{}
	if !existing.Quantity.Equal(req.Quantity) {
		cols["quantity"] = req.Quantity
	}
	if req.UnitPrice != nil && !existing.UnitPrice.Equal(*req.UnitPrice) {
		cols["unit_price"] = *req.UnitPrice
	}
	if req.Amount != nil && !existing.Amount.Equal(*req.Amount) {
		cols["amount"] = *req.Amount
	}
	if !existing.ReturnDate.Equal(req.ReturnDate) {
		cols["return_date"] = req.ReturnDate
	}
	if req.Notes != nil {
		cols["notes"] = *req.Notes
	}
	return cols
}

func mergeSale(existing *model.Sale, req dto.SyncSaleRequest) map[string]any {
	cols := map[string]any{}
	// Payment breakdown overwrites; totals are client-authoritative until a
	// liquidation recompute takes over.
	if !existing.CashAmount.Equal(req.CashAmount) {
		cols["cash_amount"] = req.CashAmount
	}
	if !existing.CardAmount.Equal(req.CardAmount) {
		cols["card_amount"] = req.CardAmount
	}
	if !existing.CreditAmount.Equal(req.CreditAmount) {
		cols["credit_amount"] = req.CreditAmount
	}
	if !existing.TotalAmount.Equal(req.TotalAmount) {
		cols["total_amount"] = req.TotalAmount
	}
	if req.PaymentMethod != "" && req.PaymentMethod != existing.PaymentMethod {
		cols["payment_method"] = req.PaymentMethod
	}
	return cols
}
