package store

import (
	"context"
	"errors"

	"weekly-kpi-report-go/internal/models"
)

// ErrDuplicateRecord is returned by import operations when a record with the
// same id already exists in the backing store.
var ErrDuplicateRecord = errors.New("duplicate record")

// RecordSource defines the contract every tabular data provider (CSV files,
// SQLite store, ...) must satisfy. Implementations materialize the full row
// sets in memory; the KPI core never streams.
type RecordSource interface {
	LoadUsers(ctx context.Context) ([]models.UserRecord, error)
	LoadPayments(ctx context.Context) ([]models.PaymentRecord, error)
}
