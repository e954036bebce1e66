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
	"errors"
	"flag"
	"fmt"

	"weekly-kpi-report-go/internal/common"
	"weekly-kpi-report-go/internal/config"
	"weekly-kpi-report-go/internal/database"
	"weekly-kpi-report-go/internal/loader"
	"weekly-kpi-report-go/internal/models"
	"weekly-kpi-report-go/internal/store"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type importResult struct {
	usersInserted    int
	usersSkipped     int
	paymentsInserted int
	paymentsSkipped  int
}

func importUsers(ctx context.Context, dbService *database.Service, users []models.UserRecord) (database.ImportStats, error) {
	bar := progressbar.Default(int64(len(users)), "users")
	var stats database.ImportStats
	for _, user := range users {
		switch err := dbService.ImportUser(ctx, user); {
		case err == nil:
			stats.Inserted++
		case errors.Is(err, store.ErrDuplicateRecord):
			stats.Skipped++
		default:
			return stats, err
		}
		_ = bar.Add(1)
	}
	return stats, nil
}

func importPayments(ctx context.Context, dbService *database.Service, payments []models.PaymentRecord) (database.ImportStats, error) {
	bar := progressbar.Default(int64(len(payments)), "payments")
	var stats database.ImportStats
	for _, payment := range payments {
		switch err := dbService.ImportPayment(ctx, payment); {
		case err == nil:
			stats.Inserted++
		case errors.Is(err, store.ErrDuplicateRecord):
			stats.Skipped++
		default:
			return stats, err
		}
		_ = bar.Add(1)
	}
	return stats, nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	usersCSV := flag.String("users-csv", cfg.Report.UsersCSV, "Path to the users CSV file")
	paymentsCSV := flag.String("payments-csv", cfg.Report.PaymentsCSV, "Path to the payments CSV file")
	flag.Parse()

	logger.Info("Starting CSV import",
		zap.String("users", *usersCSV),
		zap.String("payments", *paymentsCSV),
		zap.String("database", cfg.Database.Path))

	source := loader.NewCSVSource(*usersCSV, *paymentsCSV)
	users, err := source.LoadUsers(ctx)
	if err != nil {
		logger.Fatal("Failed to load users CSV", zap.Error(err))
	}
	payments, err := source.LoadPayments(ctx)
	if err != nil {
		logger.Fatal("Failed to load payments CSV", zap.Error(err))
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	common.PrintHeader("CSV IMPORT", common.DefaultWidth)

	var result importResult
	userStats, err := importUsers(ctx, dbService, users)
	if err != nil {
		logger.Fatal("Failed to import users", zap.Error(err))
	}
	result.usersInserted = userStats.Inserted
	result.usersSkipped = userStats.Skipped

	paymentStats, err := importPayments(ctx, dbService, payments)
	if err != nil {
		logger.Fatal("Failed to import payments", zap.Error(err))
	}
	result.paymentsInserted = paymentStats.Inserted
	result.paymentsSkipped = paymentStats.Skipped

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d users imported (%d duplicates), %d payments imported (%d duplicates)",
		result.usersInserted, result.usersSkipped, result.paymentsInserted, result.paymentsSkipped), common.DefaultWidth)

	logger.Info("CSV import completed",
		zap.Int("users_inserted", result.usersInserted),
		zap.Int("users_skipped", result.usersSkipped),
		zap.Int("payments_inserted", result.paymentsInserted),
		zap.Int("payments_skipped", result.paymentsSkipped))
}
