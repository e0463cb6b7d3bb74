package models

import "github.com/shopspring/decimal"

// Category is a user-defined budget bucket transactions are classified into.
type Category struct {
	Base
	UserID uint            `gorm:"not null;index" json:"user_id"`
	Name   string          `gorm:"not null" json:"name"`
	Budget decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"budget"`
}
