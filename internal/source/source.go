// Package source produces raw lead records for the pipeline. Sourcers are
// black-box producers: the orchestrator only sees the records they yield.
package source

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscout/internal/model"
)

// Sourcer yields raw lead records. A scan may legitimately return zero
// records; ordering is only guaranteed stable within one call.
type Sourcer interface {
	Scan(ctx context.Context) ([]model.RawLead, error)
}

// Static yields a fixed set of records, typically from configuration.
type Static struct {
	Records []model.RawLead
}

func (s *Static) Scan(_ context.Context) ([]model.RawLead, error) {
	out := make([]model.RawLead, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// Sample yields the canonical test records attributed to the given source.
type Sample struct {
	Source string
}

func (s *Sample) Scan(_ context.Context) ([]model.RawLead, error) {
	return SampleLeads(s.Source), nil
}

// SampleLeads returns deterministic sample records, one per borough tier.
func SampleLeads(source string) []model.RawLead {
	return []model.RawLead{
		{
			Address: "123 Main Street, Brooklyn, NY 11201",
			Owner:   "John Smith",
			Source:  source,
			RawText: "Sample property listing for testing",
		},
		{
			Address: "456 Oak Avenue, Queens, NY 11375",
			Owner:   "Jane Doe",
			Source:  source,
			RawText: "Sample property listing for testing",
		},
		{
			Address: "789 Elm Road, Manhattan, NY 10001",
			Owner:   "Robert Johnson",
			Source:  source,
			RawText: "Sample property listing for testing",
		},
	}
}

// Multi fans a scan out over several sourcers concurrently and combines
// their records in declared sourcer order, keeping the combined sequence
// stable for one call. A failing sourcer contributes nothing; the scan
// itself only fails when the context is cancelled.
type Multi struct {
	Sourcers []Sourcer
}

func (m *Multi) Scan(ctx context.Context) ([]model.RawLead, error) {
	results := make([][]model.RawLead, len(m.Sourcers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, s := range m.Sourcers {
		g.Go(func() error {
			records, err := s.Scan(gCtx)
			if err != nil {
				// Partial sourcing is fine; the record slot stays empty.
				return nil
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var combined []model.RawLead
	for _, records := range results {
		combined = append(combined, records...)
	}
	return combined, nil
}
