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

	"weekly-kpi-report-go/internal/common"
	"weekly-kpi-report-go/internal/config"
	"weekly-kpi-report-go/internal/database"
	"weekly-kpi-report-go/internal/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func printRun(run models.ReportRun, isLast bool) {
	fmt.Printf("\n┌─ Run: %s\n", run.Id)
	fmt.Printf("│  Period: %s — %s\n", run.StartDate.Format(dateLayout), run.EndDate.Format(dateLayout))
	common.PrintBoxSeparator(78)

	avgCheck := "n/a"
	if run.AvgCheck.Valid {
		avgCheck = common.FormatAmount(run.AvgCheck.Decimal)
	}

	symbol := common.BoxPrefix(false)
	fmt.Printf("%s new users: %d, paying users: %d\n", symbol, run.TotalNewUsers, run.TotalPayingUsers)
	fmt.Printf("%s revenue: %s, conversion: %s, avg check: %s\n",
		symbol, common.FormatAmount(run.TotalRevenue), common.FormatPercent(run.Conversion), avgCheck)
	fmt.Printf("%s created: %s\n", common.BoxPrefix(isLast), run.CreatedAt.Format("2006-01-02 15:04:05"))
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	limit := flag.Int("limit", 20, "Maximum number of archived runs to list")
	flag.Parse()

	logger.Info("Starting report run history query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	runs, err := dbService.GetReportRuns(ctx, *limit)
	if err != nil {
		logger.Fatal("Failed to query report runs", zap.Error(err))
	}

	common.PrintHeader("REPORT RUN HISTORY", common.DefaultWidth)

	if len(runs) == 0 {
		fmt.Println("\nNo archived report runs yet.")
	}
	for i, run := range runs {
		printRun(run, i == len(runs)-1)
	}

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d archived report runs", len(runs)), common.DefaultWidth)

	logger.Info("Report run history query completed", zap.Int("runs", len(runs)))
}
