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

package kpi

import (
	"time"

	"weekly-kpi-report-go/internal/models"

	"github.com/shopspring/decimal"
)

// Aggregate computes the per-day metric rows and the period summary for the
// given period. It is a pure function: inputs are never mutated and two
// calls with identical inputs produce identical output.
//
// Every calendar day in the period gets a row, zero-filled when nothing
// happened that day. The daily conversion is paying users that day over
// users registered that same day (not a cohort funnel), 0 when nobody
// registered. Totals are not plain sums of the daily rows: total paying
// users deduplicates payers across the whole period, and the period average
// check is recomputed over all period payments (absent, not zero, when
// there are none).
func Aggregate(users []models.UserRecord, payments []models.PaymentRecord, period models.Period) ([]models.DailyMetrics, models.SummaryMetrics) {
	type dayStats struct {
		newUsers     map[string]struct{}
		payingUsers  map[string]struct{}
		payments     map[string]struct{}
		revenue      decimal.Decimal
		paymentCount int
	}

	stats := make(map[time.Time]*dayStats)
	dayOf := func(d time.Time) *dayStats {
		s, ok := stats[d]
		if !ok {
			s = &dayStats{
				newUsers:    make(map[string]struct{}),
				payingUsers: make(map[string]struct{}),
				payments:    make(map[string]struct{}),
			}
			stats[d] = s
		}
		return s
	}
	inPeriod := func(d time.Time) bool {
		return !d.Before(period.Start) && !d.After(period.End)
	}

	for _, u := range users {
		d := Normalize(u.RegisteredAt)
		if !inPeriod(d) {
			continue
		}
		dayOf(d).newUsers[u.UserId] = struct{}{}
	}

	periodPayers := make(map[string]struct{})
	periodPaymentTotal := decimal.Zero
	periodPaymentCount := 0
	for _, p := range payments {
		d := Normalize(p.PaidAt)
		if !inPeriod(d) {
			continue
		}
		s := dayOf(d)
		s.payingUsers[p.UserId] = struct{}{}
		s.payments[p.PaymentId] = struct{}{}
		s.revenue = s.revenue.Add(p.Amount)
		s.paymentCount++

		periodPayers[p.UserId] = struct{}{}
		periodPaymentTotal = periodPaymentTotal.Add(p.Amount)
		periodPaymentCount++
	}

	daily := make([]models.DailyMetrics, 0, period.Days())
	totalNewUsers := 0
	totalRevenue := decimal.Zero

	for d := period.Start; !d.After(period.End); d = d.AddDate(0, 0, 1) {
		row := models.DailyMetrics{
			Date:     d,
			Revenue:  decimal.Zero,
			AvgCheck: decimal.Zero,
		}
		if s, ok := stats[d]; ok {
			row.NewUsers = len(s.newUsers)
			row.PayingUsers = len(s.payingUsers)
			row.PaymentsCount = len(s.payments)
			row.Revenue = s.revenue
			if row.NewUsers > 0 {
				row.Conversion = float64(row.PayingUsers) / float64(row.NewUsers)
			}
			if s.paymentCount > 0 {
				row.AvgCheck = s.revenue.Div(decimal.NewFromInt(int64(s.paymentCount)))
			}
		}
		daily = append(daily, row)

		totalNewUsers += row.NewUsers
		totalRevenue = totalRevenue.Add(row.Revenue)
	}

	summary := models.SummaryMetrics{
		Start:            period.Start,
		End:              period.End,
		TotalNewUsers:    totalNewUsers,
		TotalPayingUsers: len(periodPayers),
		TotalRevenue:     totalRevenue,
	}
	if totalNewUsers > 0 {
		summary.Conversion = float64(summary.TotalPayingUsers) / float64(totalNewUsers)
	}
	if periodPaymentCount > 0 {
		summary.AvgCheck = decimal.NullDecimal{
			Decimal: periodPaymentTotal.Div(decimal.NewFromInt(int64(periodPaymentCount))),
			Valid:   true,
		}
	}

	return daily, summary
}
