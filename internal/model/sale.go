package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale payment methods and types.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentCredit = "credit"
	PaymentMixed  = "mixed"

	SaleTypeSale    = "sale"
	SaleTypePayment = "payment"
)

// Sale is a ticket registered at a terminal. Credit sales may spawn
// delivery assignments; liquidating those recomputes the sale's payment
// breakdown from the settled assignments.
type Sale struct {
	ID       int64     `gorm:"primaryKey"`
	TenantID int64     `gorm:"not null;uniqueIndex:ux_sales_tenant_global,priority:1;index"`
	BranchID int64     `gorm:"not null;index"`
	GlobalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_sales_tenant_global,priority:2"`

	TicketNumber int64 `gorm:"not null"`
	ShiftID      *int64 `gorm:"index"`
	EmployeeID   int64  `gorm:"not null;index"`

	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CardAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod string         `gorm:"type:varchar(10);not null"`
	SaleType      string         `gorm:"type:varchar(10);not null;default:'sale'"`

	SaleDate time.Time `gorm:"not null;index"`

	TerminalID      *uuid.UUID `gorm:"type:uuid"`
	CreatedLocalUTC *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClassifyPayment derives the payment method label from a breakdown.
func ClassifyPayment(cash, card, credit decimal.Decimal) string {
	nonZero := 0
	method := PaymentCash
	if cash.IsPositive() {
		nonZero++
		method = PaymentCash
	}
	if card.IsPositive() {
		nonZero++
		method = PaymentCard
	}
	if credit.IsPositive() {
		nonZero++
		method = PaymentCredit
	}
	if nonZero > 1 {
		return PaymentMixed
	}
	return method
}
