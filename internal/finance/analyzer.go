// Package finance computes investment metrics for a property from its
// address alone. Valuation is a closed-form heuristic, not market data.
package finance

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

const (
	defaultBaseValue  = 300000
	rentRatio         = 0.009 // monthly rent as a fraction of value
	vacancyRate       = 0.05
	operatingExpenses = 0.35
	downPaymentRate   = 0.20
	mortgageRate      = 0.06 // approximate annual debt service on the loan
	appreciationRate  = 0.03
	holdYears         = 5
	defaultMultiplier = 1.2
)

// locationMultiplier is one row of the ordered valuation table.
type locationMultiplier struct {
	token string
	mult  float64
}

// Table order is the tie-break: the first token found in the address wins.
var locationMultipliers = []locationMultiplier{
	{"Manhattan", 2.5},
	{"Brooklyn", 1.8},
	{"Queens", 1.4},
	{"Bronx", 1.0},
	{"Staten Island", 1.2},
}

// riskAdjustment is one row of the ordered risk table. Evaluated
// independently of the valuation table; first match wins, additively.
type riskAdjustment struct {
	token string
	delta float64
}

var riskAdjustments = []riskAdjustment{
	{"Manhattan", -1},
	{"Brooklyn", -0.5},
	{"Bronx", 1},
}

// Analyzer turns an address into a FinancialAnalysis. It never fails: an
// empty or unrecognized address still yields a best-effort default result.
type Analyzer struct {
	baseValue float64
	augmenter *Augmenter
}

// NewAnalyzer creates an Analyzer. baseValue <= 0 selects the default base
// valuation. augmenter may be nil to disable the external reasoning path.
func NewAnalyzer(baseValue float64, augmenter *Augmenter) *Analyzer {
	if baseValue <= 0 {
		baseValue = defaultBaseValue
	}
	return &Analyzer{baseValue: baseValue, augmenter: augmenter}
}

// Analyze produces a financial analysis for the property at address.
// When an augmenter is configured it is tried first; any failure falls
// back silently to the deterministic path.
func (a *Analyzer) Analyze(ctx context.Context, address string, hints model.PropertyHints) *model.FinancialAnalysis {
	value := a.EstimateValue(address)
	rent := value * rentRatio

	if a.augmenter != nil {
		fa, err := a.augmenter.Augment(ctx, address, value, rent)
		if err == nil {
			return fa
		}
		zap.L().Debug("finance: augmentation unavailable, using local analysis",
			zap.String("address", address),
			zap.Error(err),
		)
	}

	return a.analyzeLocal(address, value, rent)
}

func (a *Analyzer) analyzeLocal(address string, value, rent float64) *model.FinancialAnalysis {
	return &model.FinancialAnalysis{
		Address:           address,
		EstimatedValue:    value,
		MonthlyRentEst:    rent,
		AnnualRent:        rent * 12,
		VacancyRate:       vacancyRate,
		OperatingExpenses: operatingExpenses,
		CapRate:           CapRate(value, rent),
		CashOnCash:        CashOnCash(value, rent),
		FiveYearIRR:       FiveYearIRR(value, rent),
		NOI:               NOI(rent),
		RiskScore:         RiskScore(address),
		Recommendation:    Recommendation(value, rent),
	}
}

// EstimateValue applies the ordered location-multiplier table to the
// configured base value.
func (a *Analyzer) EstimateValue(address string) float64 {
	mult := defaultMultiplier
	for _, lm := range locationMultipliers {
		if strings.Contains(address, lm.token) {
			mult = lm.mult
			break
		}
	}
	return a.baseValue * mult
}

// NOI calculates annual net operating income: rent after vacancy loss and
// operating expenses.
func NOI(monthlyRent float64) float64 {
	annualRent := monthlyRent * 12
	effectiveRent := annualRent * (1 - vacancyRate)
	return effectiveRent * (1 - operatingExpenses)
}

// CapRate returns NOI over value as a percentage. Zero-valued properties
// yield 0 to avoid division by zero.
func CapRate(value, monthlyRent float64) float64 {
	if value <= 0 {
		return 0
	}
	return NOI(monthlyRent) / value * 100
}

// CashOnCash returns the annual net cash flow over the down payment as a
// percentage, assuming a 20% down payment and 6% annual debt service.
func CashOnCash(value, monthlyRent float64) float64 {
	downPayment := value * downPaymentRate
	if downPayment <= 0 {
		return 0
	}
	loan := value * (1 - downPaymentRate)
	netCashflow := NOI(monthlyRent) - loan*mortgageRate
	return netCashflow / downPayment * 100
}

// FiveYearIRR returns an annualized approximation of the five-year return
// assuming 3% yearly appreciation. Not a true IRR root-find.
func FiveYearIRR(value, monthlyRent float64) float64 {
	if value <= 0 {
		return 0
	}
	futureValue := value
	for i := 0; i < holdYears; i++ {
		futureValue *= 1 + appreciationRate
	}
	totalReturn := NOI(monthlyRent)*holdYears + (futureValue - value)
	return (totalReturn / value * 100) / holdYears
}

// RiskScore scores the address 1-10 (10 highest risk) from a base of 5 and
// the ordered borough adjustment table, truncating toward zero.
func RiskScore(address string) int {
	score := 5.0
	for _, ra := range riskAdjustments {
		if strings.Contains(address, ra.token) {
			score += ra.delta
			break
		}
	}

	n := int(score)
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}

// Recommendation maps the cap rate to an investment tier. Boundary values
// belong to the higher tier.
func Recommendation(value, monthlyRent float64) string {
	capRate := CapRate(value, monthlyRent)
	switch {
	case capRate >= 8:
		return model.RecommendStrongBuy
	case capRate >= 6:
		return model.RecommendBuy
	case capRate >= 4:
		return model.RecommendHold
	default:
		return model.RecommendPass
	}
}
