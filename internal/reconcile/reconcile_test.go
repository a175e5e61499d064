package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExpectedCashDeskShift(t *testing.T) {
	got := ExpectedCash(Inputs{
		InitialAmount: d("100"),
		CashSales:     d("500"),
		CashPayments:  d("50"),
		Deposits:      d("20"),
		Expenses:      d("30"),
		Withdrawals:   d("10"),
	})
	assert.True(t, got.Equal(d("630")), "expected 630, got %s", got)
}

func TestExpectedCashDeliveryWorkerUsesNetToDeliver(t *testing.T) {
	in := Inputs{
		InitialAmount:           d("0"),
		CashSales:               d("999"), // ignored for delivery workers
		NetAmountToDeliver:      d("400"),
		DeliveryLiquidationCash: d("0"),
		DeliveryWorkerExpenses:  d("25"),
		DeliveryWorker:          true,
	}
	got := ExpectedCash(in)
	assert.True(t, got.Equal(d("375")), "expected 375, got %s", got)
}

func TestExpectedCashLiquidationCashCounts(t *testing.T) {
	got := ExpectedCash(Inputs{
		InitialAmount:           d("100"),
		CashSales:               d("0"),
		DeliveryLiquidationCash: d("380"),
	})
	assert.True(t, got.Equal(d("480")))
}

func TestNetToDeliverConservation(t *testing.T) {
	assigned := d("500")
	returned := d("100")
	assert.True(t, NetToDeliver(assigned, returned).Equal(d("400")))
	// returning everything leaves nothing to deliver
	assert.True(t, NetToDeliver(assigned, assigned).IsZero())
}

func TestDebtAmount(t *testing.T) {
	t.Run("short delivery creates debt", func(t *testing.T) {
		debt, ok := DebtAmount(d("400"), d("380"))
		assert.True(t, ok)
		assert.True(t, debt.Equal(d("20")))
	})

	t.Run("exact delivery owes nothing", func(t *testing.T) {
		debt, ok := DebtAmount(d("400"), d("400"))
		assert.False(t, ok)
		assert.True(t, debt.IsZero())
	})

	t.Run("over-delivery owes nothing", func(t *testing.T) {
		debt, ok := DebtAmount(d("400"), d("410"))
		assert.False(t, ok)
		assert.True(t, debt.IsZero())
	})
}

func TestDifference(t *testing.T) {
	assert.True(t, Difference(d("600"), d("630")).Equal(d("-30")))
	assert.True(t, Difference(d("630"), d("630")).IsZero())
}
