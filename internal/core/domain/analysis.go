package domain

import (
	"github.com/shopspring/decimal"
)

// Significance thresholds for horizontal analysis.
var (
	SignificantPercentChange = 10.0
	SignificantAmountChange  = decimal.NewFromInt(1000)
)

// LineChange is a horizontal-analysis row comparing a line across two statements.
type LineChange struct {
	Section       string          `json:"section"`
	AccountID     string          `json:"accountID,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	Name          string          `json:"name"`
	Current       decimal.Decimal `json:"current"`
	Prior         decimal.Decimal `json:"prior"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent *float64        `json:"changePercent,omitempty"`
	Significant   bool            `json:"significant"`
}

// VerticalLine expresses a line as a share of its category and of a base total
// (total assets for balance sheets, total revenue for income statements).
type VerticalLine struct {
	Section           string          `json:"section"`
	AccountID         string          `json:"accountID,omitempty"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	PercentOfCategory float64         `json:"percentOfCategory"`
	PercentOfBase     float64         `json:"percentOfBase"`
}

// ComparativeBalanceSheet compares two balance sheets.
type ComparativeBalanceSheet struct {
	OrganizationID     string         `json:"organizationID"`
	Current            BalanceSheet   `json:"current"`
	Prior              BalanceSheet   `json:"prior"`
	Horizontal         []LineChange   `json:"horizontal"`
	Totals             []LineChange   `json:"totals"`
	Vertical           []VerticalLine `json:"vertical"`
	SignificantChanges int            `json:"significantChanges"`
}

// ComparativeIncomeStatement compares two income statements.
type ComparativeIncomeStatement struct {
	OrganizationID        string          `json:"organizationID"`
	Current               IncomeStatement `json:"current"`
	Prior                 IncomeStatement `json:"prior"`
	Horizontal            []LineChange    `json:"horizontal"`
	Totals                []LineChange    `json:"totals"`
	Vertical              []VerticalLine  `json:"vertical"`
	GrossMarginChange     float64         `json:"grossMarginChange"`
	OperatingMarginChange float64         `json:"operatingMarginChange"`
	NetMarginChange       float64         `json:"netMarginChange"`
	SignificantChanges    int             `json:"significantChanges"`
}

// TrendDirection classifies a series of period-over-period changes.
type TrendDirection string

const (
	TrendStable           TrendDirection = "STABLE"
	TrendIncreasing       TrendDirection = "INCREASING"
	TrendDecreasing       TrendDirection = "DECREASING"
	TrendVolatile         TrendDirection = "VOLATILE"
	TrendInsufficientData TrendDirection = "INSUFFICIENT_DATA"
)

// Trend classification thresholds, in percentage points.
const (
	VolatileStdDevThreshold  = 20.0
	DirectionalMeanThreshold = 5.0
)

// TrendSeries is a metric observed over consecutive periods.
type TrendSeries struct {
	Metric          string            `json:"metric"`
	Values          []decimal.Decimal `json:"values"`
	Changes         []float64         `json:"changes"`
	MeanChange      float64           `json:"meanChange"`
	StdDevChange    float64           `json:"stdDevChange"`
	Direction       TrendDirection    `json:"direction"`
	SeasonalIndices []float64         `json:"seasonalIndices,omitempty"`
}

// TrendAnalysis is a set of metric trends over labelled periods.
type TrendAnalysis struct {
	OrganizationID string        `json:"organizationID"`
	Labels         []string      `json:"labels"`
	Series         []TrendSeries `json:"series"`
}

// BreakEvenAnalysis treats operating expenses as fixed and COGS as variable.
type BreakEvenAnalysis struct {
	OrganizationID          string          `json:"organizationID"`
	Period                  Period          `json:"period"`
	Revenue                 decimal.Decimal `json:"revenue"`
	FixedCosts              decimal.Decimal `json:"fixedCosts"`
	VariableCosts           decimal.Decimal `json:"variableCosts"`
	ContributionMarginRatio float64         `json:"contributionMarginRatio"`
	BreakEvenRevenue        decimal.Decimal `json:"breakEvenRevenue"`
	MarginOfSafety          decimal.Decimal `json:"marginOfSafety"`
	MarginOfSafetyPercent   float64         `json:"marginOfSafetyPercent"`
	Achievable              bool            `json:"achievable"`
}

// CCCRating grades a cash conversion cycle.
type CCCRating string

const (
	CCCExcellent CCCRating = "EXCELLENT"
	CCCGood      CCCRating = "GOOD"
	CCCAverage   CCCRating = "AVERAGE"
	CCCPoor      CCCRating = "POOR"
)

// RateCashConversionCycle grades days: <=30 EXCELLENT, <=60 GOOD, <=90 AVERAGE, else POOR.
func RateCashConversionCycle(days float64) CCCRating {
	switch {
	case days <= 30:
		return CCCExcellent
	case days <= 60:
		return CCCGood
	case days <= 90:
		return CCCAverage
	}
	return CCCPoor
}

// CashConversionCycle measures days to turn inventory and receivables into cash.
type CashConversionCycle struct {
	OrganizationID       string    `json:"organizationID"`
	Period               Period    `json:"period"`
	DaysSalesOutstanding float64   `json:"daysSalesOutstanding"`
	DaysInventory        float64   `json:"daysInventory"`
	DaysPayables         float64   `json:"daysPayables"`
	Cycle                float64   `json:"cycle"`
	Rating               CCCRating `json:"rating"`
	Unavailable          []string  `json:"unavailable,omitempty"`
}

// ForecastMethod selects how projections extend history.
type ForecastMethod string

const (
	ForecastLinear    ForecastMethod = "LINEAR"
	ForecastGeometric ForecastMethod = "GEOMETRIC"
)

// ProfitabilityPoint is one observed or projected period.
type ProfitabilityPoint struct {
	Label     string          `json:"label"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"netIncome"`
	NetMargin float64         `json:"netMargin"`
}

// ProfitabilityForecast projects revenue and expenses forward. It is a planning
// aid derived from historical averages, not an audited projection.
type ProfitabilityForecast struct {
	OrganizationID string               `json:"organizationID"`
	Method         ForecastMethod       `json:"method"`
	RevenueGrowth  float64              `json:"revenueGrowth"`
	ExpenseGrowth  float64              `json:"expenseGrowth"`
	History        []ProfitabilityPoint `json:"history"`
	Projections    []ProfitabilityPoint `json:"projections"`
}

// CashFlowPeriodSummary condenses one period's cash flow statement.
type CashFlowPeriodSummary struct {
	Period          Period          `json:"period"`
	NetIncome       decimal.Decimal `json:"netIncome"`
	Operating       decimal.Decimal `json:"operating"`
	Investing       decimal.Decimal `json:"investing"`
	Financing       decimal.Decimal `json:"financing"`
	NetChange       decimal.Decimal `json:"netChange"`
	EndingCash      decimal.Decimal `json:"endingCash"`
	FreeCashFlow    decimal.Decimal `json:"freeCashFlow"`
	EarningsQuality *float64        `json:"earningsQuality,omitempty"`
}

// CashFlowAnalysis summarizes cash flows over consecutive periods.
type CashFlowAnalysis struct {
	OrganizationID string                  `json:"organizationID"`
	Periods        []CashFlowPeriodSummary `json:"periods"`
	OperatingTrend TrendSeries             `json:"operatingTrend"`
	TotalFreeCash  decimal.Decimal         `json:"totalFreeCash"`
}

// CashFlowProjection is one projected period.
type CashFlowProjection struct {
	Label      string          `json:"label"`
	Operating  decimal.Decimal `json:"operating"`
	Investing  decimal.Decimal `json:"investing"`
	Financing  decimal.Decimal `json:"financing"`
	NetChange  decimal.Decimal `json:"netChange"`
	EndingCash decimal.Decimal `json:"endingCash"`
}

// CashFlowForecast projects cash flows from historical averages. Best-effort.
type CashFlowForecast struct {
	OrganizationID string               `json:"organizationID"`
	Method         ForecastMethod       `json:"method"`
	GrowthRate     float64              `json:"growthRate"`
	StartingCash   decimal.Decimal      `json:"startingCash"`
	Projections    []CashFlowProjection `json:"projections"`
}

// StressScenario shocks revenue and expenses by percentages (e.g. -20 for a 20% drop).
type StressScenario struct {
	Name             string  `json:"name"`
	RevenueChangePct float64 `json:"revenueChangePct"`
	ExpenseChangePct float64 `json:"expenseChangePct"`
}

// DefaultStressScenarios are applied when a caller supplies none.
var DefaultStressScenarios = []StressScenario{
	{Name: "mild_downturn", RevenueChangePct: -10, ExpenseChangePct: 0},
	{Name: "severe_downturn", RevenueChangePct: -30, ExpenseChangePct: 10},
	{Name: "cost_shock", RevenueChangePct: 0, ExpenseChangePct: 25},
}

// StressResult is the outcome of one scenario.
type StressResult struct {
	Scenario            StressScenario  `json:"scenario"`
	Revenue             decimal.Decimal `json:"revenue"`
	Expenses            decimal.Decimal `json:"expenses"`
	NetIncome           decimal.Decimal `json:"netIncome"`
	OperatingCash       decimal.Decimal `json:"operatingCash"`
	EndingCash          decimal.Decimal `json:"endingCash"`
	RunwayMonths        *float64        `json:"runwayMonths,omitempty"`
	RemainsCashPositive bool            `json:"remainsCashPositive"`
}

// StressTestReport applies scenarios to one period's statements.
type StressTestReport struct {
	OrganizationID    string          `json:"organizationID"`
	Period            Period          `json:"period"`
	BaseNetIncome     decimal.Decimal `json:"baseNetIncome"`
	BaseOperatingCash decimal.Decimal `json:"baseOperatingCash"`
	BaseEndingCash    decimal.Decimal `json:"baseEndingCash"`
	Results           []StressResult  `json:"results"`
}

// ExportFormat names an export encoding.
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportJSON  ExportFormat = "json"
	ExportPDF   ExportFormat = "pdf"
	ExportExcel ExportFormat = "xlsx"
)
