// Package reconcile computes expected drawer cash from the summed inputs of
// a shift. It is pure arithmetic over decimals: no storage, no clock, so the
// same inputs always reconcile to the same figure on every branch server.
package reconcile

import "github.com/shopspring/decimal"

// Inputs are the summed figures for one shift over [start, end].
type Inputs struct {
	InitialAmount decimal.Decimal
	CashSales     decimal.Decimal
	CashPayments  decimal.Decimal
	Expenses      decimal.Decimal
	Deposits      decimal.Decimal
	Withdrawals   decimal.Decimal

	// Delivery-worker figures. NetAmountToDeliver replaces CashSales for
	// delivery-worker shifts: the worker owes the net of what they carried
	// out, regardless of how route customers paid.
	NetAmountToDeliver      decimal.Decimal
	DeliveryLiquidationCash decimal.Decimal
	DeliveryWorkerExpenses  decimal.Decimal

	// DeliveryWorker selects the delivery-worker variant of the formula.
	DeliveryWorker bool
}

// ExpectedCash returns what the drawer should hold at cut time.
//
//	initial + sales_cash + cash_payments + liquidation_cash + deposits
//	        - expenses - withdrawals - delivery_worker_expenses
//
// where sales_cash is CashSales for desk shifts and NetAmountToDeliver for
// delivery-worker shifts.
func ExpectedCash(in Inputs) decimal.Decimal {
	salesCash := in.CashSales
	if in.DeliveryWorker {
		salesCash = in.NetAmountToDeliver
	}
	return in.InitialAmount.
		Add(salesCash).
		Add(in.CashPayments).
		Add(in.DeliveryLiquidationCash).
		Add(in.Deposits).
		Sub(in.Expenses).
		Sub(in.Withdrawals).
		Sub(in.DeliveryWorkerExpenses)
}

// Difference is counted minus expected. Negative means the drawer is short.
func Difference(counted, expected decimal.Decimal) decimal.Decimal {
	return counted.Sub(expected)
}

// NetToDeliver is the assigned value minus returned value for a delivery
// worker's open assignments.
func NetToDeliver(assigned, returned decimal.Decimal) decimal.Decimal {
	return assigned.Sub(returned)
}

// DebtAmount returns how much a delivery worker owes after handing over
// delivered cash, and whether a debt exists at all. A worker who delivers
// the net amount or more owes nothing.
func DebtAmount(netToDeliver, actualDelivered decimal.Decimal) (decimal.Decimal, bool) {
	diff := actualDelivered.Sub(netToDeliver)
	if diff.IsNegative() {
		return diff.Abs(), true
	}
	return decimal.Zero, false
}
