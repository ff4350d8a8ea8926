package services

import (
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// accountTemplate is one account of a standard chart. Parent refers to another
// template by account number.
type accountTemplate struct {
	Number      string
	Name        string
	Type        domain.AccountType
	Parent      string
	Description string
}

var baseChartTemplate = []accountTemplate{
	{Number: "1000", Name: "Current Assets", Type: domain.Asset, Description: "Assets expected to be converted to cash within a year"},
	{Number: "1010", Name: "Cash", Type: domain.Asset, Parent: "1000"},
	{Number: "1100", Name: "Accounts Receivable", Type: domain.Asset, Parent: "1000"},
	{Number: "1200", Name: "Inventory", Type: domain.Asset, Parent: "1000"},
	{Number: "1300", Name: "Prepaid Expenses", Type: domain.Asset, Parent: "1000"},
	{Number: "1500", Name: "Fixed Assets", Type: domain.Asset, Description: "Long-lived tangible assets"},
	{Number: "1510", Name: "Equipment", Type: domain.Asset, Parent: "1500"},
	{Number: "1520", Name: "Accumulated Depreciation", Type: domain.Asset, Parent: "1500"},

	{Number: "2000", Name: "Current Liabilities", Type: domain.Liability, Description: "Obligations due within a year"},
	{Number: "2010", Name: "Accounts Payable", Type: domain.Liability, Parent: "2000"},
	{Number: "2100", Name: "Accrued Liabilities", Type: domain.Liability, Parent: "2000"},
	{Number: "2200", Name: "Sales Tax Payable", Type: domain.Liability, Parent: "2000"},
	{Number: "2500", Name: "Long-term Liabilities", Type: domain.Liability},
	{Number: "2510", Name: "Long-term Notes Payable", Type: domain.Liability, Parent: "2500"},

	{Number: "3000", Name: "Owner's Equity", Type: domain.Equity},
	{Number: "3200", Name: "Retained Earnings", Type: domain.Equity},

	{Number: "4000", Name: "Revenue", Type: domain.Revenue},
	{Number: "4010", Name: "Sales Revenue", Type: domain.Revenue, Parent: "4000"},
	{Number: "4020", Name: "Service Revenue", Type: domain.Revenue, Parent: "4000"},
	{Number: "4900", Name: "Other Income", Type: domain.Revenue, Parent: "4000"},

	{Number: "5000", Name: "Cost of Goods Sold", Type: domain.Expense},
	{Number: "6000", Name: "Operating Expenses", Type: domain.Expense},
	{Number: "6010", Name: "Salaries and Wages", Type: domain.Expense, Parent: "6000"},
	{Number: "6020", Name: "Rent Expense", Type: domain.Expense, Parent: "6000"},
	{Number: "6030", Name: "Utilities", Type: domain.Expense, Parent: "6000"},
	{Number: "6100", Name: "Depreciation Expense", Type: domain.Expense, Parent: "6000"},
	{Number: "6900", Name: "Interest Expense", Type: domain.Expense, Parent: "6000"},
}

var businessTypeAdditions = map[domain.BusinessType][]accountTemplate{
	domain.Corporation: {
		{Number: "2300", Name: "Income Tax Payable", Type: domain.Liability, Parent: "2000"},
		{Number: "3300", Name: "Common Stock", Type: domain.Equity},
		{Number: "3400", Name: "Additional Paid-in Capital", Type: domain.Equity},
		{Number: "3500", Name: "Dividends", Type: domain.Equity},
	},
	domain.Partnership: {
		{Number: "3600", Name: "Partner Capital", Type: domain.Equity},
		{Number: "3700", Name: "Partner Drawings", Type: domain.Equity},
	},
}

// chartTemplate returns the base template plus the additions for businessType.
func chartTemplate(businessType domain.BusinessType) []accountTemplate {
	additions := businessTypeAdditions[businessType]
	out := make([]accountTemplate, 0, len(baseChartTemplate)+len(additions))
	out = append(out, baseChartTemplate...)
	return append(out, additions...)
}

// sortTemplate orders templates so that every parent precedes its children
// (Kahn's algorithm). Ties are broken by account number so the output is stable.
// A parent missing from the template or a cycle yields a conflict.
func sortTemplate(templates []accountTemplate) ([]accountTemplate, error) {
	byNumber := make(map[string]accountTemplate, len(templates))
	for _, t := range templates {
		if _, dup := byNumber[t.Number]; dup {
			return nil, apperrors.NewConflict(apperrors.ReasonCircularDependency, "template lists account %s twice", t.Number)
		}
		byNumber[t.Number] = t
	}

	inDegree := make(map[string]int, len(templates))
	children := make(map[string][]string, len(templates))
	for _, t := range templates {
		inDegree[t.Number] = 0
	}
	for _, t := range templates {
		if t.Parent == "" {
			continue
		}
		if _, ok := byNumber[t.Parent]; !ok {
			return nil, apperrors.NewConflict(apperrors.ReasonCircularDependency, "template account %s references unknown parent %s", t.Number, t.Parent)
		}
		inDegree[t.Number]++
		children[t.Parent] = append(children[t.Parent], t.Number)
	}

	var ready []string
	for number, d := range inDegree {
		if d == 0 {
			ready = append(ready, number)
		}
	}

	sorted := make([]accountTemplate, 0, len(templates))
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		sorted = append(sorted, byNumber[next])
		for _, child := range children[next] {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(sorted) != len(templates) {
		return nil, apperrors.NewConflict(apperrors.ReasonCircularDependency, "chart template contains a dependency cycle")
	}
	return sorted, nil
}
