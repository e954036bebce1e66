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

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"weekly-kpi-report-go/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names, in workbook order.
const (
	SheetRawUsers    = "raw_users"
	SheetRawPayments = "raw_payments"
	SheetDailyKPI    = "daily_kpi"
	SheetSummary     = "summary"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

// BuildExcelReport writes the four-sheet workbook: the raw input rows, the
// per-day KPI table and the flattened period summary. Parent directories of
// outputPath are created as needed. Returns the written path.
func BuildExcelReport(users []models.UserRecord, payments []models.PaymentRecord, daily []models.DailyMetrics, summary models.SummaryMetrics, outputPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("unable to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	// The default sheet becomes raw_users; the rest are appended.
	if err := f.SetSheetName("Sheet1", SheetRawUsers); err != nil {
		return "", fmt.Errorf("unable to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetRawPayments, SheetDailyKPI, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("unable to create sheet %s: %w", name, err)
		}
	}

	if err := writeRawUsers(f, users); err != nil {
		return "", err
	}
	if err := writeRawPayments(f, payments); err != nil {
		return "", err
	}
	if err := writeDailyKPI(f, daily); err != nil {
		return "", err
	}
	if err := writeSummary(f, summary); err != nil {
		return "", err
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("unable to save report to %s: %w", outputPath, err)
	}

	zap.L().Info("Excel report written",
		zap.String("path", outputPath),
		zap.Int("daily_rows", len(daily)))
	return outputPath, nil
}

func writeRawUsers(f *excelize.File, users []models.UserRecord) error {
	if err := writeRow(f, SheetRawUsers, 1, []interface{}{"user_id", "registered_at", "source"}); err != nil {
		return err
	}
	for i, u := range users {
		row := []interface{}{u.UserId, u.RegisteredAt.Format(timestampLayout), u.Source}
		if err := writeRow(f, SheetRawUsers, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRawPayments(f *excelize.File, payments []models.PaymentRecord) error {
	header := []interface{}{"payment_id", "user_id", "amount", "currency", "paid_at"}
	if err := writeRow(f, SheetRawPayments, 1, header); err != nil {
		return err
	}
	for i, p := range payments {
		row := []interface{}{p.PaymentId, p.UserId, p.Amount.InexactFloat64(), p.Currency, p.PaidAt.Format(timestampLayout)}
		if err := writeRow(f, SheetRawPayments, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDailyKPI(f *excelize.File, daily []models.DailyMetrics) error {
	header := []interface{}{"date", "new_users", "paying_users", "payments_count", "revenue", "conversion", "avg_check"}
	if err := writeRow(f, SheetDailyKPI, 1, header); err != nil {
		return err
	}
	for i, d := range daily {
		row := []interface{}{
			d.Date.Format(dateLayout),
			d.NewUsers,
			d.PayingUsers,
			d.PaymentsCount,
			d.Revenue.InexactFloat64(),
			d.Conversion,
			d.AvgCheck.InexactFloat64(),
		}
		if err := writeRow(f, SheetDailyKPI, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, summary models.SummaryMetrics) error {
	if err := writeRow(f, SheetSummary, 1, []interface{}{"metric", "value"}); err != nil {
		return err
	}
	for i, field := range summary.Flatten() {
		// A nil value (absent period avg_check) leaves the cell empty.
		row := []interface{}{field.Metric, field.Value}
		if err := writeRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("unable to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
