package knowledge

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// ScoredResult is one query match with its relevance confidence.
type ScoredResult struct {
	Address        string           `json:"address"`
	Owner          string           `json:"owner"`
	Status         model.LeadStatus `json:"status"`
	EstimatedValue float64          `json:"estimated_value"`
	CapRate        float64          `json:"cap_rate"`
	Confidence     float64          `json:"confidence"`
	RelatedLeads   []string         `json:"related_leads"`
	Tags           []string         `json:"tags"`
}

// Query runs a lexical keyword search over the index. Each whitespace-
// delimited keyword that appears as a substring of an entry's searchable
// text scores one point; queries mentioning both "high" and "roi" grant a
// two-point bonus to entries with cap rate >= 7. Confidence is
// score/keywords capped at 1.0; zero-score entries are dropped. Results
// sort by confidence descending, ties keeping insertion order.
func (x *Index) Query(query string) []ScoredResult {
	queryLower := strings.ToLower(query)
	keywords := strings.Fields(queryLower)
	if len(keywords) == 0 {
		return nil
	}

	highROIQuery := strings.Contains(queryLower, "high") && strings.Contains(queryLower, "roi")

	var results []ScoredResult
	for _, entry := range x.snapshot() {
		lead := entry.Lead
		text := searchText(lead)

		score := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if highROIQuery && lead.CapRate() >= 7 {
			score += 2
		}
		if score == 0 {
			continue
		}

		confidence := float64(score) / float64(len(keywords))
		if confidence > 1.0 {
			confidence = 1.0
		}

		results = append(results, ScoredResult{
			Address:        lead.Address,
			Owner:          lead.Owner,
			Status:         lead.Status,
			EstimatedValue: lead.EstimatedValue,
			CapRate:        lead.CapRate(),
			Confidence:     confidence,
			RelatedLeads:   entry.Relationships,
			Tags:           entry.Tags,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	return results
}

// searchText flattens a lead into one lowercased string spanning its core
// fields and the analysis record rendered as JSON.
func searchText(lead *model.Lead) string {
	fields := []string{
		lead.Address,
		lead.Owner,
		string(lead.Status),
		lead.Source,
	}

	if lead.EstimatedValue > 0 {
		fields = append(fields, strconv.FormatFloat(lead.EstimatedValue, 'f', -1, 64))
	}

	if lead.Analysis != nil {
		if b, err := json.Marshal(lead.Analysis); err == nil {
			fields = append(fields, string(b))
		}
	}

	return strings.ToLower(strings.Join(fields, " "))
}
