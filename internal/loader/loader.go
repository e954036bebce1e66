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

package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"weekly-kpi-report-go/internal/models"
	"weekly-kpi-report-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *CSVSource must satisfy store.RecordSource.
var _ store.RecordSource = (*CSVSource)(nil)

// Timestamp layouts accepted in CSV date columns, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CSVSource loads user and payment records from two CSV files.
//
// Expected headers:
//
//	users:    user_id,registered_at,source
//	payments: payment_id,user_id,amount,currency,paid_at
type CSVSource struct {
	UsersPath    string
	PaymentsPath string
}

func NewCSVSource(usersPath, paymentsPath string) *CSVSource {
	return &CSVSource{UsersPath: usersPath, PaymentsPath: paymentsPath}
}

func (s *CSVSource) LoadUsers(_ context.Context) ([]models.UserRecord, error) {
	header, rows, err := readCSV(s.UsersPath)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(s.UsersPath, header, "user_id", "registered_at", "source")
	if err != nil {
		return nil, err
	}

	users := make([]models.UserRecord, 0, len(rows))
	for i, row := range rows {
		registeredAt, err := parseTimestamp(row[cols["registered_at"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid registered_at: %w", s.UsersPath, i+2, err)
		}
		users = append(users, models.UserRecord{
			UserId:       strings.TrimSpace(row[cols["user_id"]]),
			RegisteredAt: registeredAt,
			Source:       strings.TrimSpace(row[cols["source"]]),
		})
	}

	zap.L().Info("Loaded users from CSV", zap.String("path", s.UsersPath), zap.Int("count", len(users)))
	return users, nil
}

func (s *CSVSource) LoadPayments(_ context.Context) ([]models.PaymentRecord, error) {
	header, rows, err := readCSV(s.PaymentsPath)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(s.PaymentsPath, header, "payment_id", "user_id", "amount", "currency", "paid_at")
	if err != nil {
		return nil, err
	}

	payments := make([]models.PaymentRecord, 0, len(rows))
	for i, row := range rows {
		paidAt, err := parseTimestamp(row[cols["paid_at"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid paid_at: %w", s.PaymentsPath, i+2, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[cols["amount"]]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid amount: %w", s.PaymentsPath, i+2, err)
		}
		payments = append(payments, models.PaymentRecord{
			PaymentId: strings.TrimSpace(row[cols["payment_id"]]),
			UserId:    strings.TrimSpace(row[cols["user_id"]]),
			Amount:    amount,
			Currency:  strings.TrimSpace(row[cols["currency"]]),
			PaidAt:    paidAt,
		})
	}

	zap.L().Info("Loaded payments from CSV", zap.String("path", s.PaymentsPath), zap.Int("count", len(payments)))
	return payments, nil
}

// readCSV materializes the whole file, returning the header row and the data
// rows. A file with only a header yields zero rows, which is not an error.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("Failed to close CSV file", zap.String("path", path), zap.Error(err))
		}
	}()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s is empty, expected a header row", path)
	}
	return records[0], records[1:], nil
}

func columnIndex(path string, header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, name)
		}
	}
	return cols, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", value)
}
