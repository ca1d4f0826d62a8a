package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

const topOpportunities = 5

// BuildReport aggregates a run's leads and failures into a RunReport.
// AvgCapRate averages only leads that carry an analysis.
func BuildReport(leads []*model.Lead, failures []model.RecordResult, sourced int) *model.RunReport {
	report := &model.RunReport{
		TotalLeads: len(leads),
		ByStatus:   make(map[model.LeadStatus]int),
		Failures:   failures,
		Sourced:    sourced,
	}

	var capSum float64
	var capCount int
	for _, lead := range leads {
		report.ByStatus[lead.Status]++
		report.PortfolioValue += lead.EstimatedValue
		if lead.Analysis != nil {
			capSum += lead.Analysis.CapRate
			capCount++
		}
	}
	if capCount > 0 {
		report.AvgCapRate = capSum / float64(capCount)
	}

	report.Markdown = FormatReport(report, leads)
	return report
}

// FormatReport renders a run report as markdown.
func FormatReport(report *model.RunReport, leads []*model.Lead) string {
	var b strings.Builder

	b.WriteString("# Lead Generation Report\n\n")

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Records sourced: %d\n", report.Sourced)
	fmt.Fprintf(&b, "- Leads processed: %d\n", report.TotalLeads)
	fmt.Fprintf(&b, "- Failed records: %d\n", len(report.Failures))
	fmt.Fprintf(&b, "- Estimated portfolio value: $%.2f\n", report.PortfolioValue)
	fmt.Fprintf(&b, "- Average cap rate: %.2f%%\n\n", report.AvgCapRate)

	b.WriteString("## Leads by Status\n")
	if len(report.ByStatus) == 0 {
		b.WriteString("No leads.\n\n")
	} else {
		statuses := make([]string, 0, len(report.ByStatus))
		for s := range report.ByStatus {
			statuses = append(statuses, string(s))
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			fmt.Fprintf(&b, "- %s: %d\n", s, report.ByStatus[model.LeadStatus(s)])
		}
		b.WriteString("\n")
	}

	if top := rankByCapRate(leads); len(top) > 0 {
		b.WriteString("## Top Opportunities\n")
		for _, lead := range top {
			fmt.Fprintf(&b, "- **%s** (%s): $%.0f at %.2f%% cap rate, %s\n",
				lead.Address, lead.Owner, lead.EstimatedValue,
				lead.Analysis.CapRate, lead.Analysis.Recommendation)
		}
		b.WriteString("\n")
	}

	if len(report.Failures) > 0 {
		b.WriteString("## Failures\n")
		for _, f := range report.Failures {
			addr := f.Address
			if addr == "" {
				addr = fmt.Sprintf("record %d", f.Index)
			}
			fmt.Fprintf(&b, "- %s: %s\n", addr, f.Error)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// rankByCapRate returns the analyzed leads with the highest cap rates,
// at most topOpportunities of them.
func rankByCapRate(leads []*model.Lead) []*model.Lead {
	var analyzed []*model.Lead
	for _, lead := range leads {
		if lead.Analysis != nil {
			analyzed = append(analyzed, lead)
		}
	}
	sort.SliceStable(analyzed, func(i, j int) bool {
		return analyzed[i].Analysis.CapRate > analyzed[j].Analysis.CapRate
	})
	if len(analyzed) > topOpportunities {
		analyzed = analyzed[:topOpportunities]
	}
	return analyzed
}
