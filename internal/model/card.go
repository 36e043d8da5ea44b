package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card represents a cardholder account in the core ledger. The SHA-256
// digest of the real card number acts as the primary key; plaintext card
// numbers and PINs are never persisted.
type Card struct {
	CardHash  string          `json:"-" gorm:"size:64;primaryKey"`
	PINHash   string          `json:"-" gorm:"size:64;not null"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
