/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"weekly-kpi-report-go/internal/models"
	"weekly-kpi-report-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportStats reports how an import batch went. Skipped counts records whose
// id was already present (INSERT OR IGNORE).
type ImportStats struct {
	Inserted int
	Skipped  int
}

// ImportUser inserts a single user registration record. Returns
// store.ErrDuplicateRecord when the user_id already existed.
func (s *Service) ImportUser(ctx context.Context, user models.UserRecord) error {
	result, err := s.db.ExecContext(ctx, queryInsertUser, user.UserId, user.RegisteredAt, user.Source)
	if err != nil {
		return fmt.Errorf("unable to insert user %s: %w", user.UserId, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", user.UserId, store.ErrDuplicateRecord)
	}
	return nil
}

// ImportPayment inserts a single payment record. Returns
// store.ErrDuplicateRecord when the payment_id already existed.
func (s *Service) ImportPayment(ctx context.Context, payment models.PaymentRecord) error {
	result, err := s.db.ExecContext(ctx, queryInsertPayment,
		payment.PaymentId, payment.UserId, payment.Amount.String(), payment.Currency, payment.PaidAt)
	if err != nil {
		return fmt.Errorf("unable to insert payment %s: %w", payment.PaymentId, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payment %s: %w", payment.PaymentId, store.ErrDuplicateRecord)
	}
	return nil
}

// ImportUsers inserts a batch of user records, skipping duplicates.
func (s *Service) ImportUsers(ctx context.Context, users []models.UserRecord) (ImportStats, error) {
	var stats ImportStats
	for _, user := range users {
		switch err := s.ImportUser(ctx, user); {
		case err == nil:
			stats.Inserted++
		case errors.Is(err, store.ErrDuplicateRecord):
			stats.Skipped++
		default:
			return stats, err
		}
	}
	zap.L().Info("Imported users",
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// ImportPayments inserts a batch of payment records, skipping duplicates.
func (s *Service) ImportPayments(ctx context.Context, payments []models.PaymentRecord) (ImportStats, error) {
	var stats ImportStats
	for _, payment := range payments {
		switch err := s.ImportPayment(ctx, payment); {
		case err == nil:
			stats.Inserted++
		case errors.Is(err, store.ErrDuplicateRecord):
			stats.Skipped++
		default:
			return stats, err
		}
	}
	zap.L().Info("Imported payments",
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// LoadUsers returns all stored user records, oldest first.
func (s *Service) LoadUsers(ctx context.Context) ([]models.UserRecord, error) {
	zap.L().Debug("Querying users")

	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.UserRecord
	for rows.Next() {
		var user models.UserRecord
		if err := rows.Scan(&user.UserId, &user.RegisteredAt, &user.Source); err != nil {
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// LoadPayments returns all stored payment records, oldest first.
func (s *Service) LoadPayments(ctx context.Context) ([]models.PaymentRecord, error) {
	zap.L().Debug("Querying payments")

	rows, err := s.db.QueryContext(ctx, queryGetPayments)
	if err != nil {
		zap.L().Error("Failed to query payments", zap.Error(err))
		return nil, fmt.Errorf("unable to query payments: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var payments []models.PaymentRecord
	for rows.Next() {
		var payment models.PaymentRecord
		var amount string
		if err := rows.Scan(&payment.PaymentId, &payment.UserId, &amount, &payment.Currency, &payment.PaidAt); err != nil {
			return nil, fmt.Errorf("unable to scan payment row: %w", err)
		}
		payment.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount %q for payment %s: %w", amount, payment.PaymentId, err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	zap.L().Info("Retrieved payments", zap.Int("count", len(payments)))
	return payments, nil
}
