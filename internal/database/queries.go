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

const (
	// User queries
	queryInsertUser = `
		INSERT OR IGNORE INTO users (user_id, registered_at, source) VALUES (?, ?, ?)`

	queryGetUsers = `
		SELECT user_id, registered_at, source
		FROM users
		ORDER BY registered_at, user_id`

	// Payment queries
	queryInsertPayment = `
		INSERT OR IGNORE INTO payments (payment_id, user_id, amount, currency, paid_at)
		VALUES (?, ?, ?, ?, ?)`

	queryGetPayments = `
		SELECT payment_id, user_id, amount, currency, paid_at
		FROM payments
		ORDER BY paid_at, payment_id`

	// Report run queries
	queryInsertReportRun = `
		INSERT INTO report_runs
			(id, start_date, end_date, total_new_users, total_paying_users, total_revenue, conversion, avg_check)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetReportRuns = `
		SELECT id, start_date, end_date, total_new_users, total_paying_users, total_revenue, conversion, avg_check, created_at
		FROM report_runs
		ORDER BY created_at DESC, id
		LIMIT ?`
)
