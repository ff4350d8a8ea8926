package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementItem is a single account line of a financial statement.
type StatementItem struct {
	AccountID     string          `json:"accountID,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

// StatementSection is a titled group of lines with a subtotal.
type StatementSection struct {
	Title string          `json:"title"`
	Items []StatementItem `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewStatementSection sums items into a section.
func NewStatementSection(title string, items []StatementItem) StatementSection {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	if items == nil {
		items = []StatementItem{}
	}
	return StatementSection{Title: title, Items: items, Total: total}
}

// KeyBalances are balance sheet amounts used by ratio and cycle analysis.
type KeyBalances struct {
	Cash        decimal.Decimal `json:"cash"`
	Receivables decimal.Decimal `json:"receivables"`
	Inventory   decimal.Decimal `json:"inventory"`
	Prepaid     decimal.Decimal `json:"prepaid"`
	Payables    decimal.Decimal `json:"payables"`
}

// BalanceSheetValidation carries the balance equation check.
type BalanceSheetValidation struct {
	BalanceCheck bool            `json:"balanceCheck"`
	Difference   decimal.Decimal `json:"difference"`
}

// BalanceSheet is a point-in-time statement of financial position.
type BalanceSheet struct {
	OrganizationID        string                 `json:"organizationID"`
	AsOfDate              time.Time              `json:"asOfDate"`
	CurrentAssets         StatementSection       `json:"currentAssets"`
	NonCurrentAssets      StatementSection       `json:"nonCurrentAssets"`
	TotalAssets           decimal.Decimal        `json:"totalAssets"`
	CurrentLiabilities    StatementSection       `json:"currentLiabilities"`
	NonCurrentLiabilities StatementSection       `json:"nonCurrentLiabilities"`
	TotalLiabilities      decimal.Decimal        `json:"totalLiabilities"`
	Equity                StatementSection       `json:"equity"`
	TotalEquity           decimal.Decimal        `json:"totalEquity"`
	KeyBalances           KeyBalances            `json:"keyBalances"`
	Validation            BalanceSheetValidation `json:"validation"`
}

// IncomeStatementValidation checks the internal arithmetic of an income statement.
type IncomeStatementValidation struct {
	IsConsistent bool            `json:"isConsistent"`
	Difference   decimal.Decimal `json:"difference"`
}

// IncomeStatement is a statement of performance for a period.
type IncomeStatement struct {
	OrganizationID    string                    `json:"organizationID"`
	Period            Period                    `json:"period"`
	OperatingRevenue  StatementSection          `json:"operatingRevenue"`
	OtherRevenue      StatementSection          `json:"otherRevenue"`
	TotalRevenue      decimal.Decimal           `json:"totalRevenue"`
	CostOfGoodsSold   StatementSection          `json:"costOfGoodsSold"`
	GrossProfit       decimal.Decimal           `json:"grossProfit"`
	OperatingExpenses StatementSection          `json:"operatingExpenses"`
	OperatingIncome   decimal.Decimal           `json:"operatingIncome"`
	OtherExpenses     StatementSection          `json:"otherExpenses"`
	NetIncome         decimal.Decimal           `json:"netIncome"`
	GrossMargin       float64                   `json:"grossMargin"`
	OperatingMargin   float64                   `json:"operatingMargin"`
	NetMargin         float64                   `json:"netMargin"`
	Validation        IncomeStatementValidation `json:"validation"`
}

// TotalExpenses returns COGS, operating and other expenses combined.
func (s IncomeStatement) TotalExpenses() decimal.Decimal {
	return s.CostOfGoodsSold.Total.Add(s.OperatingExpenses.Total).Add(s.OtherExpenses.Total)
}

// CashFlowValidation reconciles cash movement against the cash accounts.
type CashFlowValidation struct {
	Reconciles bool            `json:"reconciles"`
	Difference decimal.Decimal `json:"difference"`
}

// CashFlowStatement is an indirect-method cash flow statement derived from
// account activity. It is best-effort and not an audited derivation.
type CashFlowStatement struct {
	OrganizationID      string             `json:"organizationID"`
	Period              Period             `json:"period"`
	NetIncome           decimal.Decimal    `json:"netIncome"`
	OperatingActivities StatementSection   `json:"operatingActivities"`
	NetOperatingCash    decimal.Decimal    `json:"netOperatingCash"`
	InvestingActivities StatementSection   `json:"investingActivities"`
	NetInvestingCash    decimal.Decimal    `json:"netInvestingCash"`
	FinancingActivities StatementSection   `json:"financingActivities"`
	NetFinancingCash    decimal.Decimal    `json:"netFinancingCash"`
	NetChangeInCash     decimal.Decimal    `json:"netChangeInCash"`
	BeginningCash       decimal.Decimal    `json:"beginningCash"`
	EndingCash          decimal.Decimal    `json:"endingCash"`
	Validation          CashFlowValidation `json:"validation"`
}

// LiquidityRatios measure short-term solvency.
type LiquidityRatios struct {
	CurrentRatio float64 `json:"currentRatio"`
	QuickRatio   float64 `json:"quickRatio"`
	CashRatio    float64 `json:"cashRatio"`
}

// ProfitabilityRatios measure returns.
type ProfitabilityRatios struct {
	GrossMargin     float64 `json:"grossMargin"`
	OperatingMargin float64 `json:"operatingMargin"`
	NetMargin       float64 `json:"netMargin"`
	ReturnOnAssets  float64 `json:"returnOnAssets"`
	ReturnOnEquity  float64 `json:"returnOnEquity"`
}

// LeverageRatios measure indebtedness.
type LeverageRatios struct {
	DebtToAssets float64 `json:"debtToAssets"`
	DebtToEquity float64 `json:"debtToEquity"`
	EquityRatio  float64 `json:"equityRatio"`
}

// EfficiencyRatios measure asset utilization.
type EfficiencyRatios struct {
	AssetTurnover       float64 `json:"assetTurnover"`
	ReceivablesTurnover float64 `json:"receivablesTurnover"`
	InventoryTurnover   float64 `json:"inventoryTurnover"`
}

// FinancialRatios groups every ratio family. Ratios whose denominator is zero
// are reported as 0 and named in Unavailable.
type FinancialRatios struct {
	Liquidity     LiquidityRatios     `json:"liquidity"`
	Profitability ProfitabilityRatios `json:"profitability"`
	Leverage      LeverageRatios      `json:"leverage"`
	Efficiency    EfficiencyRatios    `json:"efficiency"`
	Unavailable   []string            `json:"unavailable,omitempty"`
}

// FinancialStatements bundles the three statements and their ratios.
type FinancialStatements struct {
	OrganizationID  string            `json:"organizationID"`
	Period          Period            `json:"period"`
	BalanceSheet    BalanceSheet      `json:"balanceSheet"`
	IncomeStatement IncomeStatement   `json:"incomeStatement"`
	CashFlow        CashFlowStatement `json:"cashFlow"`
	Ratios          FinancialRatios   `json:"ratios"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}
