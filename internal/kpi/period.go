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
	"errors"
	"time"

	"weekly-kpi-report-go/internal/models"
)

// DefaultWindowDays is the trailing window used when no explicit period is
// requested.
const DefaultWindowDays = 7

var (
	// ErrNoData means neither users nor payments contain a single record,
	// so there is no activity date to anchor the report window on.
	ErrNoData = errors.New("no records to derive a report period from")

	// ErrPartialRange means exactly one of the explicit start/end dates was
	// supplied. The range must be given both-or-neither.
	ErrPartialRange = errors.New("start and end dates must be provided together")
)

// Normalize truncates a timestamp to midnight UTC. All date bucketing and
// period comparisons run on normalized values.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolvePeriod determines the inclusive report period.
//
// When both explicit bounds are given the period is exactly those two dates,
// normalized. An inverted range (start after end) is passed through
// untouched; Aggregate produces an empty day sequence for it and callers
// that want to reject it do so up front.
//
// With no explicit bounds the anchor is the latest observed activity
// (registration or payment) and the period is the trailing windowDays-day
// window ending on the anchor date.
func ResolvePeriod(users []models.UserRecord, payments []models.PaymentRecord, explicitStart, explicitEnd *time.Time, windowDays int) (models.Period, error) {
	if explicitStart != nil && explicitEnd != nil {
		return models.Period{
			Start: Normalize(*explicitStart),
			End:   Normalize(*explicitEnd),
		}, nil
	}
	if explicitStart != nil || explicitEnd != nil {
		return models.Period{}, ErrPartialRange
	}

	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	var anchor time.Time
	found := false
	for _, u := range users {
		if !found || u.RegisteredAt.After(anchor) {
			anchor = u.RegisteredAt
			found = true
		}
	}
	for _, p := range payments {
		if !found || p.PaidAt.After(anchor) {
			anchor = p.PaidAt
			found = true
		}
	}
	if !found {
		return models.Period{}, ErrNoData
	}

	end := Normalize(anchor)
	start := end.AddDate(0, 0, -(windowDays - 1))
	return models.Period{Start: start, End: end}, nil
}
