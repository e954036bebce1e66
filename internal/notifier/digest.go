package notifier

import (
	"fmt"
	"strings"

	"weekly-kpi-report-go/internal/common"
	"weekly-kpi-report-go/internal/models"
)

// FormatDigest renders the short HTML digest that precedes the workbook in
// the chat. currencySymbol may be empty when the payments mix currencies.
// The conversion line only appears when someone registered in the period,
// and the average check line only when someone paid.
func FormatDigest(summary models.SummaryMetrics, currencySymbol string) string {
	lines := []string{
		"📊 <b>Weekly KPI Report</b>",
		fmt.Sprintf("%s — %s", summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02")),
		"",
		fmt.Sprintf("👥 New users: <b>%d</b>", summary.TotalNewUsers),
		fmt.Sprintf("💳 Paying users: <b>%d</b>", summary.TotalPayingUsers),
	}

	if summary.TotalNewUsers > 0 {
		lines = append(lines, fmt.Sprintf("📈 Conversion: <b>%.1f%%</b>", summary.Conversion*100))
	}

	lines = append(lines, fmt.Sprintf("💰 Revenue: <b>%s%s</b>", currencySymbol, common.FormatAmount(summary.TotalRevenue)))

	if summary.AvgCheck.Valid {
		lines = append(lines, fmt.Sprintf("🏷 Average check: <b>%s%s</b>", currencySymbol, common.FormatAmount(summary.AvgCheck.Decimal)))
	}

	return strings.Join(lines, "\n")
}
