// Package knowledge holds the per-run lead intelligence index: an
// append-only store of processed leads supporting tagging, relationship
// discovery, keyword query, and insight aggregation.
package knowledge

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

// Value and score thresholds for derived tags.
const (
	premiumValue    = 500000
	affordableValue = 250000
	highROICapRate  = 8
	lowROICapRate   = 4
	lowRiskScore    = 4
	highRiskScore   = 7
)

// boroughTags is ordered; the first token found in the address wins.
var boroughTags = []string{"Manhattan", "Brooklyn", "Queens"}

// Entry wraps one lead at ingest time. Tags and relationships are computed
// once, against the index as it stood at insertion, and never recomputed.
type Entry struct {
	Lead          *model.Lead `json:"lead"`
	Tags          []string    `json:"tags"`
	Relationships []string    `json:"relationships"`
	IngestedAt    time.Time   `json:"ingested_at"`
}

// Index is an append-only store of knowledge entries. Each pipeline run
// owns its own instance; adds are serialized so relationship discovery
// never races with a concurrent writer.
type Index struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Len returns the number of entries in the index.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Add ingests a lead: derives its tags, discovers relationships against the
// entries already present, and appends the new entry. Earlier entries are
// never backfilled with links to later ones.
func (x *Index) Add(lead *model.Lead) {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry := &Entry{
		Lead:          lead,
		Tags:          deriveTags(lead),
		Relationships: x.findRelationships(lead),
		IngestedAt:    time.Now().UTC(),
	}
	x.entries = append(x.entries, entry)

	zap.L().Debug("knowledge: lead indexed",
		zap.String("address", lead.Address),
		zap.Strings("tags", entry.Tags),
		zap.Int("relationships", len(entry.Relationships)),
	)
}

// deriveTags computes the entry's tag set from status, value band, cap-rate
// band, risk band, and borough.
func deriveTags(lead *model.Lead) []string {
	tags := []string{string(lead.Status)}

	if lead.EstimatedValue > 0 {
		if lead.EstimatedValue > premiumValue {
			tags = append(tags, "premium")
		} else if lead.EstimatedValue < affordableValue {
			tags = append(tags, "affordable")
		}
	}

	if fa := lead.Analysis; fa != nil {
		if fa.CapRate > highROICapRate {
			tags = append(tags, "high_roi")
		} else if fa.CapRate < lowROICapRate {
			tags = append(tags, "low_roi")
		}

		if fa.RiskScore < lowRiskScore {
			tags = append(tags, "low_risk")
		} else if fa.RiskScore > highRiskScore {
			tags = append(tags, "high_risk")
		}
	}

	for _, borough := range boroughTags {
		if strings.Contains(lead.Address, borough) {
			tags = append(tags, strings.ToLower(borough))
			break
		}
	}

	return tags
}

// findRelationships links the incoming lead to already-present entries by
// exact owner match and by shared neighborhood token. Caller holds the lock.
func (x *Index) findRelationships(lead *model.Lead) []string {
	var rels []string

	leadZone, leadHasZone := model.Neighborhood(lead.Address)

	for _, existing := range x.entries {
		if existing.Lead.Owner == lead.Owner {
			rels = append(rels, fmt.Sprintf("same_owner:%s", existing.Lead.Address))
		}

		if leadHasZone {
			if zone, ok := model.Neighborhood(existing.Lead.Address); ok && zone == leadZone {
				rels = append(rels, fmt.Sprintf("same_area:%s", existing.Lead.Address))
			}
		}
	}

	return rels
}

// snapshot returns the entry slice for read-only iteration.
func (x *Index) snapshot() []*Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*Entry, len(x.entries))
	copy(out, x.entries)
	return out
}
