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
	"fmt"

	"weekly-kpi-report-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaveReportRun archives a computed summary and returns the run id.
// The avg_check column stays NULL when the period had no payments.
func (s *Service) SaveReportRun(ctx context.Context, summary models.SummaryMetrics) (string, error) {
	id := uuid.New().String()

	var avgCheck interface{}
	if summary.AvgCheck.Valid {
		avgCheck = summary.AvgCheck.Decimal.String()
	}

	_, err := s.db.ExecContext(ctx, queryInsertReportRun,
		id,
		summary.Start,
		summary.End,
		summary.TotalNewUsers,
		summary.TotalPayingUsers,
		summary.TotalRevenue.String(),
		summary.Conversion,
		avgCheck)
	if err != nil {
		return "", fmt.Errorf("unable to insert report run: %w", err)
	}

	zap.L().Info("Report run archived",
		zap.String("run_id", id),
		zap.String("start", summary.Start.Format("2006-01-02")),
		zap.String("end", summary.End.Format("2006-01-02")))
	return id, nil
}

// GetReportRuns returns up to limit archived runs, newest first.
func (s *Service) GetReportRuns(ctx context.Context, limit int) ([]models.ReportRun, error) {
	rows, err := s.db.QueryContext(ctx, queryGetReportRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query report runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var runs []models.ReportRun
	for rows.Next() {
		var run models.ReportRun
		var revenue string
		var avgCheck sql.NullString
		if err := rows.Scan(&run.Id, &run.StartDate, &run.EndDate,
			&run.TotalNewUsers, &run.TotalPayingUsers,
			&revenue, &run.Conversion, &avgCheck, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan report run row: %w", err)
		}
		run.TotalRevenue, err = decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("invalid stored revenue %q for run %s: %w", revenue, run.Id, err)
		}
		if avgCheck.Valid {
			avg, err := decimal.NewFromString(avgCheck.String)
			if err != nil {
				return nil, fmt.Errorf("invalid stored avg_check %q for run %s: %w", avgCheck.String, run.Id, err)
			}
			run.AvgCheck = decimal.NullDecimal{Decimal: avg, Valid: true}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report run rows: %w", err)
	}

	return runs, nil
}
