package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighborhood(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
		wantOK  bool
	}{
		{"city and state", "123 Main St, Manhattan, NY 10001", "NY 10001", true},
		{"single comma", "456 Oak Ave, Brooklyn", "Brooklyn", true},
		{"trailing spaces trimmed", "789 Pine Rd,   Queens  ", "Queens", true},
		{"no comma", "100 Nowhere Lane", "", false},
		{"empty", "", "", false},
		{"comma at end", "1 A St,", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Neighborhood(tt.address)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLeadCapRate(t *testing.T) {
	lead := &Lead{}
	assert.Zero(t, lead.CapRate())

	lead.Analysis = &FinancialAnalysis{CapRate: 6.67}
	assert.InDelta(t, 6.67, lead.CapRate(), 0.001)
}
