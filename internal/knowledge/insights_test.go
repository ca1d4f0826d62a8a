package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func TestInsights_EmptyIndex(t *testing.T) {
	x := NewIndex()

	report := x.Insights()
	assert.Empty(t, report.HotZones)
	assert.Zero(t, report.OwnerPatterns.TotalUniqueOwners)
	assert.Empty(t, report.OwnerPatterns.MultiPropertyOwners)
	assert.Equal(t, "bearish", report.MarketTrend.MarketSentiment)
	assert.Zero(t, report.MarketTrend.TotalLeads)
	assert.NotEmpty(t, report.OutreachPatterns)
}

func TestHotZones_RankedByMeanCapRate(t *testing.T) {
	x := NewIndex()
	x.Add(newLead("1 A St, Brooklyn, NY 11201", "A", 500000, 6, 4))
	x.Add(newLead("2 B St, Brooklyn, NY 11201", "B", 500000, 8, 4))
	x.Add(newLead("3 C St, Queens, NY 11375", "C", 400000, 9, 5))

	zones := x.Insights().HotZones
	require.Len(t, zones, 2)

	assert.Equal(t, "NY 11375", zones[0].Zone)
	assert.InDelta(t, 9, zones[0].AvgCapRate, 0.0001)
	assert.Equal(t, 1, zones[0].LeadCount)

	assert.Equal(t, "NY 11201", zones[1].Zone)
	assert.InDelta(t, 7, zones[1].AvgCapRate, 0.0001)
	assert.Equal(t, 2, zones[1].LeadCount)
	assert.InDelta(t, 1000000, zones[1].TotalValue, 0.001)
}

func TestHotZones_CapAtFive(t *testing.T) {
	x := NewIndex()
	for i, zip := range []string{"10001", "10002", "10003", "10004", "10005", "10006", "10007"} {
		x.Add(newLead("1 A St, NY "+zip, "O", 100000, float64(i+1), 5))
	}

	zones := x.Insights().HotZones
	require.Len(t, zones, 5)
	// Highest mean cap rates survive the cut.
	assert.Equal(t, "NY 10007", zones[0].Zone)
	assert.Equal(t, "NY 10003", zones[4].Zone)
}

func TestHotZones_SkipsUnanalyzedZonesAndEmptyAddresses(t *testing.T) {
	x := NewIndex()
	x.Add(&model.Lead{Address: "", Owner: "A", Status: model.StatusNew})
	x.Add(&model.Lead{Address: "1 A St, Queens, NY", Owner: "B", Status: model.StatusNew})

	// No cap-rate observation anywhere, so no zone qualifies.
	assert.Empty(t, x.Insights().HotZones)
}

func TestHotZones_NoCommaGroupsAsUnknown(t *testing.T) {
	x := NewIndex()
	x.Add(newLead("plot 7", "A", 100000, 6, 5))

	zones := x.Insights().HotZones
	require.Len(t, zones, 1)
	assert.Equal(t, "Unknown", zones[0].Zone)
}

func TestOwnerPatterns(t *testing.T) {
	x := NewIndex()
	x.Add(newLead("1 A St, Queens, NY", "John Smith", 1, 1, 1))
	x.Add(newLead("2 B St, Queens, NY", "John Smith", 1, 1, 1))
	x.Add(newLead("3 C St, Queens, NY", "John Smith", 1, 1, 1))
	x.Add(newLead("4 D St, Queens, NY", "Jane Doe", 1, 1, 1))

	patterns := x.Insights().OwnerPatterns
	assert.Equal(t, 2, patterns.TotalUniqueOwners)
	assert.Equal(t, map[string]int{"John Smith": 3}, patterns.MultiPropertyOwners)
}

func TestMarketTrend_Sentiment(t *testing.T) {
	tests := []struct {
		name     string
		capRates []float64
		want     string
	}{
		{"bullish above seven", []float64{8, 8}, "bullish"},
		{"neutral above five", []float64{6, 6}, "neutral"},
		{"bearish otherwise", []float64{4, 4}, "bearish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewIndex()
			for i, cr := range tt.capRates {
				x.Add(newLead("1 A St, Queens, NY", string(rune('A'+i)), 100000, cr, 5))
			}
			assert.Equal(t, tt.want, x.Insights().MarketTrend.MarketSentiment)
		})
	}
}

func TestMarketTrend_AveragesOverAllEntries(t *testing.T) {
	x := NewIndex()
	x.Add(newLead("1 A St, Queens, NY", "A", 300000, 6, 5))
	// No analysis and no value; still counts toward the value average.
	x.Add(&model.Lead{Address: "2 B St, Queens, NY", Owner: "B", Status: model.StatusNew})

	trend := x.Insights().MarketTrend
	assert.Equal(t, 2, trend.TotalLeads)
	assert.InDelta(t, 150000, trend.AvgPropertyValue, 0.001)
	assert.InDelta(t, 6, trend.AvgCapRate, 0.0001)
}

func TestInsights_Idempotent(t *testing.T) {
	x := NewIndex()
	x.Add(newLead("1 A St, Brooklyn, NY 11201", "A", 500000, 6, 4))
	x.Add(newLead("2 B St, Queens, NY 11375", "B", 400000, 6, 5))

	first := x.Insights()
	second := x.Insights()
	assert.Equal(t, first, second)
}
