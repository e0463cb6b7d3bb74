package models

import "github.com/shopspring/decimal"

// Transaction is a signed monetary event: positive amounts are income,
// negative amounts are expenses.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date        Date            `gorm:"type:date;not null" json:"date"`
	Description *string         `gorm:"size:255" json:"description"`
}

// IsIncome reports whether the transaction counts as income.
func (t Transaction) IsIncome() bool {
	return !t.Amount.IsNegative()
}
