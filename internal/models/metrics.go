package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Period is the inclusive [Start, End] date range a report covers.
// Both bounds are normalized to midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days the period spans, or 0 when
// Start is after End.
func (p Period) Days() int {
	if p.Start.After(p.End) {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// DailyMetrics is one per-calendar-day aggregation row.
//
// Conversion is the same-day ratio of paying users to newly registered
// users. It is intentionally not a registration-cohort funnel metric.
type DailyMetrics struct {
	Date          time.Time
	NewUsers      int
	PayingUsers   int
	PaymentsCount int
	Revenue       decimal.Decimal
	Conversion    float64
	AvgCheck      decimal.Decimal
}

// SummaryMetrics is the single aggregation row for the whole period.
//
// AvgCheck is a NullDecimal: it is absent (not zero) when the period has no
// payments at all, while the daily AvgCheck defaults to zero. That asymmetry
// mirrors the report consumers' expectations and must be preserved.
type SummaryMetrics struct {
	Start            time.Time
	End              time.Time
	TotalNewUsers    int
	TotalPayingUsers int
	TotalRevenue     decimal.Decimal
	Conversion       float64
	AvgCheck         decimal.NullDecimal
}

// SummaryField is one key/value pair of the flattened summary.
type SummaryField struct {
	Metric string
	Value  interface{}
}

// Flatten renders the summary as ordered metric/value pairs for the report
// sheet and the notification digest. Dates are ISO-8601 dates; AvgCheck is
// nil when no payments fell inside the period.
func (s SummaryMetrics) Flatten() []SummaryField {
	fields := []SummaryField{
		{Metric: "start_date", Value: s.Start.Format(dateLayout)},
		{Metric: "end_date", Value: s.End.Format(dateLayout)},
		{Metric: "total_new_users", Value: s.TotalNewUsers},
		{Metric: "total_paying_users", Value: s.TotalPayingUsers},
		{Metric: "total_revenue", Value: s.TotalRevenue.InexactFloat64()},
		{Metric: "conversion", Value: s.Conversion},
	}
	if s.AvgCheck.Valid {
		fields = append(fields, SummaryField{Metric: "avg_check", Value: s.AvgCheck.Decimal.InexactFloat64()})
	} else {
		fields = append(fields, SummaryField{Metric: "avg_check", Value: nil})
	}
	return fields
}

// ReportRun is a persisted summary row in the report archive.
type ReportRun struct {
	Id               string
	StartDate        time.Time
	EndDate          time.Time
	TotalNewUsers    int
	TotalPayingUsers int
	TotalRevenue     decimal.Decimal
	Conversion       float64
	AvgCheck         decimal.NullDecimal
	CreatedAt        time.Time
}
