package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/deepseek"
)

// fakeDeepSeek returns a fixed completion body or error.
type fakeDeepSeek struct {
	body  string
	err   error
	calls int
}

func (f *fakeDeepSeek) ChatCompletion(_ context.Context, req deepseek.ChatCompletionRequest) (*deepseek.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &deepseek.ChatCompletionResponse{
		Model: req.Model,
		Choices: []deepseek.Choice{
			{Message: deepseek.Message{Role: "assistant", Content: f.body}},
		},
	}, nil
}

const goodAnswer = `{
	"cap_rate": 7.2,
	"cash_on_cash_return": 10.5,
	"noi": 48000,
	"five_year_irr": 11.3,
	"risk_score": 3,
	"recommendation": "Buy - Good investment opportunity",
	"analysis_details": "Solid rental demand in the area."
}`

func TestAugment_EnrichesServiceAnswer(t *testing.T) {
	g := NewAugmenter(&fakeDeepSeek{body: goodAnswer}, "deepseek-chat")

	fa, err := g.Augment(context.Background(), "789 Elm Road, Manhattan, NY 10001", 750000, 6750)
	require.NoError(t, err)

	assert.True(t, fa.AugmentedByService)
	assert.InDelta(t, 7.2, fa.CapRate, 0.001)
	assert.InDelta(t, 10.5, fa.CashOnCash, 0.001)
	assert.InDelta(t, 48000, fa.NOI, 0.001)
	assert.InDelta(t, 11.3, fa.FiveYearIRR, 0.001)
	assert.Equal(t, 3, fa.RiskScore)
	assert.Equal(t, model.RecommendBuy, fa.Recommendation)
	assert.Equal(t, "Solid rental demand in the area.", fa.AnalysisDetails)

	// Locally computed figures are kept, not the service's to invent.
	assert.InDelta(t, 750000, fa.EstimatedValue, 0.001)
	assert.InDelta(t, 6750, fa.MonthlyRentEst, 0.001)
	assert.InDelta(t, 81000, fa.AnnualRent, 0.001)
	assert.InDelta(t, 0.05, fa.VacancyRate, 0.0001)
	assert.InDelta(t, 0.35, fa.OperatingExpenses, 0.0001)
}

func TestAugment_MarkdownFencedAnswer(t *testing.T) {
	g := NewAugmenter(&fakeDeepSeek{body: "```json\n" + goodAnswer + "\n```"}, "")

	fa, err := g.Augment(context.Background(), "1 Court St, Brooklyn, NY", 540000, 4860)
	require.NoError(t, err)
	assert.InDelta(t, 7.2, fa.CapRate, 0.001)
}

func TestAugment_MissingFieldFails(t *testing.T) {
	g := NewAugmenter(&fakeDeepSeek{body: `{"cap_rate": 7.2, "recommendation": "Buy"}`}, "")

	_, err := g.Augment(context.Background(), "addr", 100000, 900)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestAugment_UnparseableBodyFails(t *testing.T) {
	g := NewAugmenter(&fakeDeepSeek{body: "I cannot analyze this property."}, "")

	_, err := g.Augment(context.Background(), "addr", 100000, 900)
	require.Error(t, err)
}

func TestAugment_TransportErrorNotRetriedWhenPermanent(t *testing.T) {
	fake := &fakeDeepSeek{err: errors.New("bad api key")}
	g := NewAugmenter(fake, "")

	_, err := g.Augment(context.Background(), "addr", 100000, 900)
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestAnalyze_FallsBackOnAugmentFailure(t *testing.T) {
	a := NewAnalyzer(0, NewAugmenter(&fakeDeepSeek{err: errors.New("service down")}, ""))

	fa := a.Analyze(context.Background(), "789 Elm Road, Manhattan, NY 10001", model.PropertyHints{})
	require.NotNil(t, fa)
	assert.False(t, fa.AugmentedByService)
	assert.InDelta(t, 6.669, fa.CapRate, 0.001)
}

func TestAnalyze_UsesAugmenterWhenAvailable(t *testing.T) {
	a := NewAnalyzer(0, NewAugmenter(&fakeDeepSeek{body: goodAnswer}, ""))

	fa := a.Analyze(context.Background(), "789 Elm Road, Manhattan, NY 10001", model.PropertyHints{})
	require.NotNil(t, fa)
	assert.True(t, fa.AugmentedByService)
	assert.InDelta(t, 7.2, fa.CapRate, 0.001)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"no object", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
