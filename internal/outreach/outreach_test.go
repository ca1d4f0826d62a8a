package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/anthropic"
)

type fakeAnthropic struct {
	text string
	err  error
}

func (f *fakeAnthropic) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Model:   req.Model,
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

func analysisWith(capRate float64, risk int, recommendation string) *model.FinancialAnalysis {
	return &model.FinancialAnalysis{
		EstimatedValue: 540000,
		CapRate:        capRate,
		RiskScore:      risk,
		Recommendation: recommendation,
	}
}

func TestMessage_UsesClaudeWhenAvailable(t *testing.T) {
	g := NewClaudeGenerator(&fakeAnthropic{text: "  Hello from Claude.  "}, Config{}, nil)

	msg, err := g.Message(context.Background(), "John Smith", "123 Main Street, Brooklyn, NY 11201", analysisWith(6, 4, model.RecommendBuy))
	require.NoError(t, err)
	assert.Equal(t, "Hello from Claude.", msg)
}

func TestMessage_FallsBackToTemplateOnError(t *testing.T) {
	g := NewClaudeGenerator(&fakeAnthropic{err: errors.New("rate limited")}, Config{}, nil)

	msg, err := g.Message(context.Background(), "John Smith", "123 Main Street, Brooklyn, NY 11201", analysisWith(6, 4, model.RecommendBuy))
	require.NoError(t, err)
	assert.Contains(t, msg, "Hi John Smith,")
	assert.Contains(t, msg, "Alex Rodriguez")
}

func TestMessage_NilClientIsTemplateOnly(t *testing.T) {
	g := NewClaudeGenerator(nil, Config{}, nil)

	msg, err := g.Message(context.Background(), "Jane Doe", "456 Oak Avenue, Queens, NY 11375", analysisWith(6, 5, model.RecommendBuy))
	require.NoError(t, err)
	assert.Contains(t, msg, "Hi Jane Doe,")
	assert.Contains(t, msg, "456 Oak Avenue")
	assert.Contains(t, msg, "NY 11375")
	assert.Contains(t, msg, "Real Estate Investment Specialist")
}

func TestTemplateMessage_Deterministic(t *testing.T) {
	g := NewClaudeGenerator(nil, Config{}, nil)
	fa := analysisWith(6, 4, model.RecommendBuy)

	first := g.templateMessage("A", "1 Court St, Brooklyn, NY", fa)
	second := g.templateMessage("A", "1 Court St, Brooklyn, NY", fa)
	assert.Equal(t, first, second)
}

func TestTemplateMessage_NoCommaAddress(t *testing.T) {
	g := NewClaudeGenerator(nil, Config{}, nil)

	msg := g.templateMessage("A", "plot 7", analysisWith(6, 4, model.RecommendBuy))
	assert.Contains(t, msg, "researching properties in the area")
	assert.Contains(t, msg, "your property at plot 7")
}

func TestPersonalize(t *testing.T) {
	assert.Contains(t, personalize(analysisWith(6, 2, "")), "stability")
	assert.Contains(t, personalize(analysisWith(9, 5, "")), "income potential")
	assert.Contains(t, personalize(analysisWith(6, 5, "")), "local market")
}

func TestPersonalize_LowRiskWinsOverHighCap(t *testing.T) {
	// Both branches apply; risk is evaluated first.
	assert.Contains(t, personalize(analysisWith(9, 2, "")), "stability")
}

func TestValueProposition(t *testing.T) {
	assert.Contains(t, valueProposition(model.RecommendStrongBuy), "unique opportunities")
	assert.Contains(t, valueProposition(model.RecommendBuy), "interesting possibilities")
	assert.Contains(t, valueProposition(model.RecommendHold), "connect with property owners")
	assert.Contains(t, valueProposition(model.RecommendPass), "connect with property owners")
}

func TestSelect_CapRateBands(t *testing.T) {
	tm := DefaultTemplates()

	assert.Equal(t, tm.High, tm.Select(11))
	assert.Equal(t, tm.Medium, tm.Select(8))
	assert.Equal(t, tm.Low, tm.Select(7))
	assert.Equal(t, tm.Low, tm.Select(2))
}

func TestConfigDefaults(t *testing.T) {
	g := NewClaudeGenerator(nil, Config{SignName: "Pat Doe", SignTitle: "Acquisitions"}, nil)

	msg := g.templateMessage("A", "1 Court St, Brooklyn, NY", analysisWith(6, 4, model.RecommendBuy))
	assert.Contains(t, msg, "Pat Doe")
	assert.Contains(t, msg, "Acquisitions")
	assert.NotContains(t, msg, "Alex Rodriguez")
}
