package model

// Recommendation tiers, ordered best to worst. The tier word leads the
// sentence so callers can match on prefix.
const (
	RecommendStrongBuy = "Strong Buy - Excellent ROI potential"
	RecommendBuy       = "Buy - Good investment opportunity"
	RecommendHold      = "Hold - Consider other factors"
	RecommendPass      = "Pass - Below market expectations"
)

// FinancialAnalysis is the immutable result of analyzing one property.
// Percentages (CapRate, CashOnCash, FiveYearIRR) are expressed as whole
// percents, not fractions. RiskScore is 1-10, 10 highest risk.
type FinancialAnalysis struct {
	Address            string  `json:"address"`
	EstimatedValue     float64 `json:"estimated_value"`
	MonthlyRentEst     float64 `json:"monthly_rent_estimate"`
	AnnualRent         float64 `json:"annual_rent"`
	VacancyRate        float64 `json:"vacancy_rate"`
	OperatingExpenses  float64 `json:"operating_expenses_rate"`
	CapRate            float64 `json:"cap_rate"`
	CashOnCash         float64 `json:"cash_on_cash_return"`
	FiveYearIRR        float64 `json:"five_year_irr"`
	NOI                float64 `json:"noi"`
	RiskScore          int     `json:"risk_score"`
	Recommendation     string  `json:"recommendation"`
	AnalysisDetails    string  `json:"analysis_details,omitempty"`
	AugmentedByService bool    `json:"augmented,omitempty"`
}
