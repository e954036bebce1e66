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

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"weekly-kpi-report-go/internal/common"
	"weekly-kpi-report-go/internal/config"
	"weekly-kpi-report-go/internal/database"
	"weekly-kpi-report-go/internal/kpi"
	"weekly-kpi-report-go/internal/loader"
	"weekly-kpi-report-go/internal/models"
	"weekly-kpi-report-go/internal/notifier"
	"weekly-kpi-report-go/internal/report"
	"weekly-kpi-report-go/internal/store"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD: %w", name, value, err)
	}
	return &t, nil
}

func printDailyTable(daily []models.DailyMetrics) {
	fmt.Printf("\n┌─ Daily KPI (%d days)\n", len(daily))
	common.PrintBoxSeparator(78)
	for i, d := range daily {
		symbol := common.BoxPrefix(i == len(daily)-1)
		fmt.Printf("%s %s  new: %3d  paying: %3d  payments: %3d  revenue: %12s  conv: %6s  avg: %10s\n",
			symbol,
			d.Date.Format(dateLayout),
			d.NewUsers,
			d.PayingUsers,
			d.PaymentsCount,
			common.FormatAmount(d.Revenue),
			common.FormatPercent(d.Conversion),
			common.FormatAmount(d.AvgCheck))
	}
}

func printPeriodSummary(summary models.SummaryMetrics) {
	fmt.Println("\nPeriod totals:")
	fmt.Printf("  New users: %d\n", summary.TotalNewUsers)
	fmt.Printf("  Paying users: %d\n", summary.TotalPayingUsers)
	fmt.Printf("  Revenue: %s\n", common.FormatAmount(summary.TotalRevenue))
	if summary.TotalNewUsers > 0 {
		fmt.Printf("  Conversion: %s\n", common.FormatPercent(summary.Conversion))
	}
	if summary.AvgCheck.Valid {
		fmt.Printf("  Average check: %s\n", common.FormatAmount(summary.AvgCheck.Decimal))
	}
}

// currencySymbol picks a display symbol when every payment shares one
// currency. Mixed-currency periods get no symbol; amounts are reported as
// plain numbers, same as the workbook.
func currencySymbol(payments []models.PaymentRecord, currenciesFile string) string {
	if len(payments) == 0 {
		return ""
	}
	code := payments[0].Currency
	for _, p := range payments[1:] {
		if p.Currency != code {
			return ""
		}
	}

	currencies, err := common.LoadCurrencyConfig(currenciesFile)
	if err != nil {
		zap.L().Warn("Unable to load currency config", zap.Error(err))
		return ""
	}
	return common.SymbolFor(currencies, code)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Parse command line flags; env-derived config provides the defaults
	usersCSV := flag.String("users-csv", cfg.Report.UsersCSV, "Path to the users CSV file")
	paymentsCSV := flag.String("payments-csv", cfg.Report.PaymentsCSV, "Path to the payments CSV file")
	startDate := flag.String("start-date", "", "Period start (YYYY-MM-DD); must be given together with -end-date")
	endDate := flag.String("end-date", "", "Period end (YYYY-MM-DD); must be given together with -start-date")
	output := flag.String("output", cfg.Report.OutputPath, "Path of the Excel report to write")
	windowDays := flag.Int("window-days", cfg.Report.WindowDays, "Trailing window length when no explicit period is given")
	noTelegram := flag.Bool("no-telegram", false, "Skip Telegram delivery even if ENABLE_TELEGRAM is set")
	fromDb := flag.Bool("from-db", false, "Load records from the SQLite store instead of CSV files and archive the run")
	flag.Parse()

	logger.Info("Starting weekly KPI report")

	explicitStart, err := parseDateFlag("-start-date", *startDate)
	if err != nil {
		logger.Fatal("Invalid flag", zap.Error(err))
	}
	explicitEnd, err := parseDateFlag("-end-date", *endDate)
	if err != nil {
		logger.Fatal("Invalid flag", zap.Error(err))
	}
	if explicitStart != nil && explicitEnd != nil && explicitStart.After(*explicitEnd) {
		logger.Fatal("Start date is after end date",
			zap.String("start", *startDate),
			zap.String("end", *endDate))
	}

	// Pick the record source
	var source store.RecordSource
	var dbService *database.Service
	if *fromDb {
		logger.Info("Loading records from database", zap.String("path", cfg.Database.Path))
		dbService, err = database.NewService(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer dbService.Close()
		source = dbService
	} else {
		logger.Info("Loading records from CSV",
			zap.String("users", *usersCSV),
			zap.String("payments", *paymentsCSV))
		source = loader.NewCSVSource(*usersCSV, *paymentsCSV)
	}

	users, err := source.LoadUsers(ctx)
	if err != nil {
		logger.Fatal("Failed to load users", zap.Error(err))
	}
	payments, err := source.LoadPayments(ctx)
	if err != nil {
		logger.Fatal("Failed to load payments", zap.Error(err))
	}

	if len(users) == 0 && len(payments) == 0 {
		fmt.Println("No user or payment records found - nothing to report on.")
		return
	}

	// Resolve the period and aggregate
	period, err := kpi.ResolvePeriod(users, payments, explicitStart, explicitEnd, *windowDays)
	if err != nil {
		logger.Fatal("Failed to resolve report period", zap.Error(err))
	}
	logger.Info("Report period resolved",
		zap.String("start", period.Start.Format(dateLayout)),
		zap.String("end", period.End.Format(dateLayout)))

	daily, summary := kpi.Aggregate(users, payments, period)

	// Console output
	common.PrintHeader("WEEKLY KPI REPORT", common.DefaultWidth)
	printDailyTable(daily)
	printPeriodSummary(summary)
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d new users, %d paying users, revenue %s (%s — %s)",
		summary.TotalNewUsers, summary.TotalPayingUsers, common.FormatAmount(summary.TotalRevenue),
		period.Start.Format(dateLayout), period.End.Format(dateLayout)), common.DefaultWidth)

	// Build the workbook
	reportPath, err := report.BuildExcelReport(users, payments, daily, summary, *output)
	if err != nil {
		logger.Fatal("Failed to build Excel report", zap.Error(err))
	}
	fmt.Printf("Excel report saved: %s\n", reportPath)

	// Archive the run when the database is in play
	if dbService != nil {
		if _, err := dbService.SaveReportRun(ctx, summary); err != nil {
			logger.Error("Failed to archive report run", zap.Error(err))
		}
	}

	// Telegram delivery is best-effort: the workbook is already on disk and
	// a failed push must not discard it.
	if *noTelegram || !cfg.Telegram.Enabled {
		logger.Info("Telegram delivery disabled")
		return
	}
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatId == "" {
		logger.Warn("Telegram enabled but TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set - skipping delivery")
		return
	}

	digest := notifier.FormatDigest(summary, currencySymbol(payments, cfg.Report.CurrenciesFile))
	if err := notifier.New(cfg.Telegram).SendReport(ctx, digest, reportPath); err != nil {
		logger.Error("Failed to send report to Telegram", zap.Error(err))
		return
	}
	logger.Info("Report delivered to Telegram")
}
