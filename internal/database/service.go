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
	"weekly-kpi-report-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.RecordSource.
var _ store.RecordSource = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	-- Create users table (registration events)
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		registered_at TIMESTAMP NOT NULL,
		source TEXT NOT NULL DEFAULT ''
	);

	-- Create index on registration time for period scans
	CREATE INDEX IF NOT EXISTS idx_users_registered_at ON users(registered_at);

	-- Create payments table (payment events)
	CREATE TABLE IF NOT EXISTS payments (
		payment_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		paid_at TIMESTAMP NOT NULL
	);

	-- Create index on payment time for period scans
	CREATE INDEX IF NOT EXISTS idx_payments_paid_at ON payments(paid_at);
	-- Create index on payer for per-user lookups
	CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id);

	-- Create report_runs table (archive of computed summaries)
	CREATE TABLE IF NOT EXISTS report_runs (
		id TEXT PRIMARY KEY,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		total_new_users INTEGER NOT NULL,
		total_paying_users INTEGER NOT NULL,
		total_revenue TEXT NOT NULL,
		conversion REAL NOT NULL,
		avg_check TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Create index for listing runs newest-first
	CREATE INDEX IF NOT EXISTS idx_report_runs_created_at ON report_runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
