// Package outreach generates owner-facing messages for analyzed leads.
// Claude writes the message when an API key is configured; a deterministic
// template path covers every failure mode so message generation never
// blocks the pipeline.
package outreach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/anthropic"
)

// Generator produces an outreach message for one analyzed lead.
type Generator interface {
	Message(ctx context.Context, owner, address string, fa *model.FinancialAnalysis) (string, error)
}

// Config holds generator settings.
type Config struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	SignName    string
	SignTitle   string
}

// ClaudeGenerator generates messages via the Anthropic API, falling back to
// templates on any failure.
type ClaudeGenerator struct {
	client    anthropic.Client
	cfg       Config
	templates *Templates
}

// NewClaudeGenerator creates a generator. client may be nil, in which case
// only the template path is used. templates nil selects the defaults.
func NewClaudeGenerator(client anthropic.Client, cfg Config, templates *Templates) *ClaudeGenerator {
	if templates == nil {
		templates = DefaultTemplates()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.SignName == "" {
		cfg.SignName = "Alex Rodriguez"
	}
	if cfg.SignTitle == "" {
		cfg.SignTitle = "Real Estate Investment Specialist"
	}
	return &ClaudeGenerator{client: client, cfg: cfg, templates: templates}
}

// Message returns a personalized outreach message. The template path never
// returns an error.
func (g *ClaudeGenerator) Message(ctx context.Context, owner, address string, fa *model.FinancialAnalysis) (string, error) {
	if g.client != nil {
		msg, err := g.generate(ctx, owner, address, fa)
		if err == nil {
			return msg, nil
		}
		zap.L().Warn("outreach: generation failed, using template",
			zap.String("address", address),
			zap.Error(err),
		)
	}

	return g.templateMessage(owner, address, fa), nil
}

func (g *ClaudeGenerator) generate(ctx context.Context, owner, address string, fa *model.FinancialAnalysis) (string, error) {
	temp := g.cfg.Temperature
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: g.buildPrompt(owner, address, fa)},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (g *ClaudeGenerator) buildPrompt(owner, address string, fa *model.FinancialAnalysis) string {
	return fmt.Sprintf(`You are a professional real estate investor reaching out to a property owner. Write a personalized, empathetic message to %s about their property at %s.

Key details:
- Property estimated value: $%.2f
- Cap rate: %.2f%%
- Investment assessment: %s

Requirements:
1. Be warm and professional, not salesy
2. Show genuine interest in the property and neighborhood
3. Mention specific details about the area
4. Keep it concise (200-300 words)
5. End with a soft call-to-action
6. No preamble or meta-commentary - just the message itself
7. Sign as "%s, %s"

Write the message now:`,
		owner, address, fa.EstimatedValue, fa.CapRate, fa.Recommendation,
		g.cfg.SignName, g.cfg.SignTitle)
}

// templateMessage assembles the deterministic fallback message from the
// cap-rate-banded template plus personalization lines.
func (g *ClaudeGenerator) templateMessage(owner, address string, fa *model.FinancialAnalysis) string {
	street := address
	neighborhood := "the area"
	if idx := strings.Index(address, ","); idx >= 0 {
		street = strings.TrimSpace(address[:idx])
	}
	if token, ok := model.Neighborhood(address); ok {
		neighborhood = token
	}

	return fmt.Sprintf(`Hi %s,

I hope this message finds you well. My name is %s, and I was researching properties in %s when I came across your property at %s.

%s

%s

%s

Would you be open to a brief conversation about your plans for the property? I'm happy to share more detailed market analysis specific to your neighborhood.

Best regards,
%s
%s
`,
		owner, g.cfg.SignName, neighborhood, street,
		personalize(fa),
		g.templates.Select(fa.CapRate),
		valueProposition(fa.Recommendation),
		g.cfg.SignName, g.cfg.SignTitle)
}

func personalize(fa *model.FinancialAnalysis) string {
	switch {
	case fa.RiskScore < 3:
		return "What caught my attention was the stability this property seems to offer in the current market. The fundamentals are quite strong."
	case fa.CapRate > 8:
		return "I was particularly impressed by the income potential in this location. The numbers tell a compelling story."
	default:
		return "I noticed some interesting dynamics in the local market that made your property stand out in my research."
	}
}

func valueProposition(recommendation string) string {
	switch {
	case strings.Contains(recommendation, "Strong Buy") || strings.Contains(recommendation, "Excellent"):
		return "Given the current market conditions, there may be some unique opportunities worth exploring together."
	case strings.Contains(recommendation, "Good"):
		return "I believe there are some interesting possibilities we could discuss that might benefit both of us."
	default:
		return "I'm always looking to connect with property owners in this area to better understand the market."
	}
}
