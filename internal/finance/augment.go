package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/pkg/deepseek"
)

// Augmenter submits a property to the DeepSeek reasoning service for the
// seven analysis metrics. Every failure mode (transport, status, missing
// field, unparseable body) surfaces as an error so the analyzer can fall
// back to its local computation.
type Augmenter struct {
	client deepseek.Client
	model  string
	retry  resilience.RetryConfig
}

// NewAugmenter creates an Augmenter. model "" selects the client default.
func NewAugmenter(client deepseek.Client, model string) *Augmenter {
	return &Augmenter{
		client: client,
		model:  model,
		retry:  resilience.RetryConfig{MaxAttempts: 2},
	}
}

// augmentedAnswer mirrors the JSON object the service is asked to produce.
// Pointers distinguish absent fields from zero values.
type augmentedAnswer struct {
	CapRate         *float64 `json:"cap_rate"`
	CashOnCash      *float64 `json:"cash_on_cash_return"`
	NOI             *float64 `json:"noi"`
	FiveYearIRR     *float64 `json:"five_year_irr"`
	RiskScore       *float64 `json:"risk_score"`
	Recommendation  string   `json:"recommendation"`
	AnalysisDetails string   `json:"analysis_details"`
}

// Augment requests the analysis metrics for the property. The returned
// record carries the service's metrics as-is, enriched with the locally
// computed valuation, rent, and fixed rates.
func (g *Augmenter) Augment(ctx context.Context, address string, value, monthlyRent float64) (*model.FinancialAnalysis, error) {
	lowTemp := 0.1
	req := deepseek.ChatCompletionRequest{
		Model:       g.model,
		Temperature: &lowTemp,
		Messages: []deepseek.Message{
			{Role: "user", Content: buildPrompt(address, value, monthlyRent)},
		},
	}

	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*deepseek.ChatCompletionResponse, error) {
		return g.client.ChatCompletion(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "finance: augmentation request")
	}

	var ans augmentedAnswer
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &ans); err != nil {
		return nil, eris.Wrap(err, "finance: parse augmented analysis")
	}
	if ans.CapRate == nil || ans.CashOnCash == nil || ans.NOI == nil ||
		ans.FiveYearIRR == nil || ans.RiskScore == nil || ans.Recommendation == "" {
		return nil, eris.New("finance: augmented analysis missing required fields")
	}

	return &model.FinancialAnalysis{
		Address:            address,
		EstimatedValue:     value,
		MonthlyRentEst:     monthlyRent,
		AnnualRent:         monthlyRent * 12,
		VacancyRate:        vacancyRate,
		OperatingExpenses:  operatingExpenses,
		CapRate:            *ans.CapRate,
		CashOnCash:         *ans.CashOnCash,
		FiveYearIRR:        *ans.FiveYearIRR,
		NOI:                *ans.NOI,
		RiskScore:          int(*ans.RiskScore),
		Recommendation:     ans.Recommendation,
		AnalysisDetails:    ans.AnalysisDetails,
		AugmentedByService: true,
	}, nil
}

func buildPrompt(address string, value, monthlyRent float64) string {
	return fmt.Sprintf(`Analyze this real estate investment opportunity and provide detailed ROI calculations:

Property: %s
Estimated Purchase Price: $%.2f
Estimated Monthly Rent: $%.2f

Calculate and provide:
1. Cap Rate (Capitalization Rate)
2. Cash-on-Cash Return (assuming 20%% down payment)
3. Net Operating Income (NOI) - assume 5%% vacancy and 35%% operating expenses
4. 5-Year IRR projection (assuming 3%% annual appreciation)
5. Risk Score (1-10 scale)
6. Investment Recommendation

Respond with a JSON object of this exact shape:
{
  "cap_rate": <number>,
  "cash_on_cash_return": <number>,
  "noi": <number>,
  "five_year_irr": <number>,
  "risk_score": <number>,
  "recommendation": "<string>",
  "analysis_details": "<string>"
}`, address, value, monthlyRent)
}

// cleanJSON extracts a JSON object from text that may contain markdown code
// fences or surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
