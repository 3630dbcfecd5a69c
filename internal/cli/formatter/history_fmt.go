package formatter

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/domain"
)

// FormatHistoryStats renders per-step statistics sorted by step id.
func FormatHistoryStats(stats map[string]app.StepHistory) string {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		h := stats[id]
		rows = append(rows, []string{
			Bold(id),
			fmt.Sprintf("%d", len(h.Samples)),
			fmt.Sprintf("%.2f", h.Metrics.Mean),
			fmt.Sprintf("%.2f", h.Metrics.Median),
			fmt.Sprintf("%.2f", h.Metrics.StdDev),
			fmt.Sprintf("%+.2f", h.Trend.TrendFactor),
			FormatPercent(h.Trend.DelayProbability),
		})
	}
	return RenderTable(
		[]string{"STEP", "N", "MEAN", "MEDIAN", "STD", "TREND", "DELAYED"},
		rows,
		AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight,
	)
}

// FormatRuns renders recorded analysis runs, newest first.
func FormatRuns(runs []*domain.AnalysisRun, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No analyses recorded yet.") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		resource := Dim("--")
		if r.ResourceID != nil {
			resource = *r.ResourceID
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			HumanTimestamp(r.CreatedAt, now),
			WarningIndicator(r.WarningStatus),
			FormatDays(r.EstimatedDays),
			FormatPercent(r.CompletionProbability),
			string(r.Action),
			resource,
		})
	}
	return RenderTable(
		[]string{"RUN", "WHEN", "STATUS", "ESTIMATE", "P(ON TIME)", "ACTION", "RESOURCE"},
		rows,
		AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight,
	)
}
