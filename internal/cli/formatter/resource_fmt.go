package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

const utilizationBarWidth = 8

// FormatResources renders the resource registry as a table.
func FormatResources(resources []*domain.Resource) string {
	if len(resources) == 0 {
		return Dim("No resources registered.") + "\n"
	}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		project := Dim("--")
		if r.CurrentProject != nil {
			project = *r.CurrentProject
		}
		rows = append(rows, []string{
			Bold(r.ID),
			ResourceTypeBadge(r.Type),
			fmt.Sprintf("%d", r.SkillLevel),
			RenderProgress(r.Utilization(), utilizationBarWidth, HigherIsWorse),
			project,
		})
	}
	return RenderTable(
		[]string{"ID", "TYPE", "SKILL", "UTILISATION", "PROJECT"},
		rows,
		AlignLeft, AlignLeft, AlignRight,
	)
}

// FormatResourceStatus renders registry capacity and bottlenecks.
func FormatResourceStatus(s scheduler.ResourceStatus) string {
	var b strings.Builder
	rows := make([][]string, 0, len(s.Resources))
	for _, r := range s.Resources {
		rows = append(rows, []string{
			r.ID,
			ResourceTypeBadge(r.Type),
			fmt.Sprintf("%d", r.SkillLevel),
			RenderProgress(r.Utilization, utilizationBarWidth, HigherIsWorse),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "TYPE", "SKILL", "UTILISATION"}, rows, AlignLeft, AlignLeft, AlignRight))

	senior := StyleRed.Render("no senior available")
	if s.SeniorAvailability {
		senior = StyleGreen.Render("senior available")
	}
	fmt.Fprintf(&b, "%d available, mean utilisation %s, %s\n", s.AvailableCount, FormatPercent(s.MeanUtilization), senior)

	for _, bn := range s.Bottlenecks {
		style := StyleYellow
		if bn.Severity == scheduler.SeverityCritical {
			style = StyleRed
		}
		b.WriteString(style.Render(fmt.Sprintf("  BOTTLENECK: %s (%s)", bn.ResourceID, bn.Severity)) + "\n")
	}
	return b.String()
}
