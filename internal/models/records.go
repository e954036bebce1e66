package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRecord represents a single user registration row.
// Records are immutable once loaded.
type UserRecord struct {
	UserId       string
	RegisteredAt time.Time
	Source       string
}

// PaymentRecord represents a single payment event row. Currency is carried
// through to the report as-is; no cross-currency conversion happens anywhere.
type PaymentRecord struct {
	PaymentId string
	UserId    string
	Amount    decimal.Decimal
	Currency  string
	PaidAt    time.Time
}
