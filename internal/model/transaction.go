package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TxnType is the kind of balance mutation a transaction requests.
type TxnType string

const (
	TxnTypeWithdraw TxnType = "WITHDRAW"
	TxnTypeTopup    TxnType = "TOPUP"
)

// ParseTxnType normalizes a caller-supplied kind string. Matching is
// case-insensitive, so "Withdraw", "WITHDRAW" and "withdraw" are all
// equivalent. The second return value is false for unrecognized input.
func ParseTxnType(s string) (TxnType, bool) {
	switch strings.ToLower(s) {
	case "withdraw":
		return TxnTypeWithdraw, true
	case "topup":
		return TxnTypeTopup, true
	}
	return "", false
}

// TxnStatus is the outcome of a processing attempt.
type TxnStatus string

const (
	TxnStatusSuccess  TxnStatus = "SUCCESS"
	TxnStatusDeclined TxnStatus = "DECLINED"
)

// Transaction is one immutable record in the audit trail. Every
// processing attempt writes exactly one record, successful or not.
// CardNumber holds the masked form (first 4 + ******** + last 4), never
// the digest and never the full plaintext. BalanceAfter is set only on
// SUCCESS; DeclineReason only on DECLINED.
type Transaction struct {
	ID            uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	CardNumber    string           `json:"cardNumber" gorm:"size:19;not null;index"`
	Type          TxnType          `json:"type" gorm:"type:varchar(10)"`
	Amount        decimal.Decimal  `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status        TxnStatus        `json:"status" gorm:"type:varchar(10);not null;index"`
	DeclineReason string           `json:"declineReason,omitempty" gorm:"size:255"`
	BalanceAfter  *decimal.Decimal `json:"balanceAfter,omitempty" gorm:"type:decimal(20,2)"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
