package service

import "errors"

// Sentinel errors the handler layer maps onto HTTP statuses. Services wrap
// these with context via fmt.Errorf("…: %w", err).
var (
	// ErrNotFound: the addressed record does not exist for this tenant.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrUnresolvedReference: a required global id in the payload has no
	// server-side row yet. The device should retry after syncing the parent.
	ErrUnresolvedReference = errors.New("referencia no sincronizada")
	// ErrShiftConflict: the same device already has this shift open; the
	// client must reconcile against the existing record.
	ErrShiftConflict = errors.New("turno abierto existente para este dispositivo")
	// ErrShiftClosed: the operation requires an open shift.
	ErrShiftClosed = errors.New("el turno ya esta cerrado")
	// ErrTerminalState: the record reached a terminal state and the change
	// is not an audited edit.
	ErrTerminalState = errors.New("registro en estado terminal")
	// ErrAlreadyLiquidated: liquidation replayed against a settled assignment.
	ErrAlreadyLiquidated = errors.New("asignacion ya liquidada")
	// ErrInvalidPayment: payment breakdown fails a business check.
	ErrInvalidPayment = errors.New("desglose de pago invalido")
	// ErrInvalidAmount: a quantity or amount fails a sign check.
	ErrInvalidAmount = errors.New("monto o cantidad invalida")
)
