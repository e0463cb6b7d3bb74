package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Clients expect amounts as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains common columns for all tables
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
