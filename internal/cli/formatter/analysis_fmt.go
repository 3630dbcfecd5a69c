package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

const probabilityBarWidth = 12

// FormatAnalysis renders an AnalysisResponse as a styled report.
func FormatAnalysis(resp *app.AnalysisResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", WarningIndicator(resp.WarningStatus), Dim("run "+TruncID(resp.RunID)))
	if resp.Warning.Step != "" {
		fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("worst step %s at %.2fx standard", resp.Warning.Step, resp.Warning.Ratio)))
	}
	b.WriteString("\n")

	b.WriteString(Header("Prediction") + "\n")
	pred := resp.Prediction
	fmt.Fprintf(&b, "Estimated duration  %s %s\n", Bold(FormatDays(pred.EstimatedDays)),
		Dim(fmt.Sprintf("(%s, current step %s)", pred.Estimate.Mode, pred.Estimate.CurrentStep)))
	fmt.Fprintf(&b, "Target deviation    %s\n", FormatDeviation(pred.Target.DeviationDays))
	fmt.Fprintf(&b, "Completion          %s %s\n",
		RenderProgress(resp.CompletionProbability, probabilityBarWidth, HigherIsBetter),
		Dim(string(resp.Completion.Model)+" model"))
	fmt.Fprintf(&b, "Project progress    %s %s\n",
		RenderProgress(resp.Progress.CompletionPercent, probabilityBarWidth, HigherIsBetter),
		Dim(fmt.Sprintf("%s spent, %s remaining", FormatDays(resp.Progress.DaysSpent), FormatDays(resp.Progress.RemainingDays))))
	b.WriteString("\n")

	b.WriteString(Header("Factors") + "\n")
	fa := resp.FactorAnalysis
	fmt.Fprintf(&b, "Complexity      %.2f  %s\n", fa.ComplexityFactor, Dim(formatFactors(fa.Factors)))
	fmt.Fprintf(&b, "Step structure  %.2f\n", fa.StepComplexity)
	fmt.Fprintf(&b, "Trend           %+.2f  %s\n", fa.Trend.TrendFactor,
		Dim(fmt.Sprintf("delay probability %s", FormatPercent(fa.Trend.DelayProbability))))
	fmt.Fprintf(&b, "Parallel risk   %s\n", ParallelRiskIndicator(fa.ParallelRisk, fa.ParallelRiskLevel))
	if len(fa.Correlations) > 0 {
		fmt.Fprintf(&b, "Correlation     %.2f  %s\n", fa.MeanCorrelation, Dim(fmt.Sprintf("over %d step pairs", len(fa.Correlations))))
	}
	b.WriteString("\n")

	b.WriteString(Header("Critical path") + "\n")
	b.WriteString(FormatCriticalPath(resp.StatisticalAnalysis.CriticalPath))
	b.WriteString("\n")

	if len(resp.MLAnalysis) > 0 {
		b.WriteString(Header("Risk") + "\n")
		rows := make([][]string, 0, len(resp.MLAnalysis))
		for _, p := range resp.MLAnalysis {
			rows = append(rows, []string{
				string(p.RiskType),
				fmt.Sprintf("%.2f", p.RiskLevel),
				FormatDays(p.PredictedDays),
			})
		}
		b.WriteString(RenderTable([]string{"TYPE", "LEVEL", "PREDICTED"}, rows, AlignLeft, AlignRight, AlignRight))
		b.WriteString("\n")
	}

	b.WriteString(Header("Allocation") + "\n")
	alloc := resp.Allocation
	state := "advisory"
	if alloc.Executed {
		state = "applied"
	}
	fmt.Fprintf(&b, "%s %s\n", ActionBadge(alloc.Action), Dim(state))
	if alloc.Reason != "" {
		fmt.Fprintf(&b, "%s\n", Dim(alloc.Reason))
	}
	b.WriteString("\n")
	b.WriteString(FormatResourceStatus(resp.ResourceStatus))

	if len(resp.Recommendations) > 0 {
		b.WriteString("\n" + Header("Recommendations") + "\n")
		for _, r := range resp.Recommendations {
			fmt.Fprintf(&b, "  • %s\n", r)
		}
	}

	return RenderBox("Analysis", b.String())
}

// FormatCriticalPath renders the path as "step1 → step2 (10d)".
func FormatCriticalPath(cp scheduler.CriticalPathResult) string {
	if len(cp.Path) == 0 {
		return Dim("no steps") + "\n"
	}
	return fmt.Sprintf("%s %s\n", strings.Join(cp.Path, Dim(" → ")), Bold("("+FormatDays(cp.Days)+")"))
}

func formatFactors(f map[string]float64) string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s %.2f", n, f[n]))
	}
	return strings.Join(parts, ", ")
}
