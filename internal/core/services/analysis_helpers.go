package services

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

const (
	defaultForecastHorizon = 3
	defaultGrowthRate      = 0.05
)

// newLineChange builds a horizontal-analysis row and flags significance.
func newLineChange(section string, it domain.StatementItem, current, prior decimal.Decimal) domain.LineChange {
	lc := domain.LineChange{
		Section:       section,
		AccountID:     it.AccountID,
		AccountNumber: it.AccountNumber,
		Name:          it.Name,
		Current:       current,
		Prior:         prior,
		Change:        current.Sub(prior),
		ChangePercent: accounting.PercentChange(current, prior),
	}
	lc.Significant = lc.Change.Abs().GreaterThan(domain.SignificantAmountChange) ||
		(lc.ChangePercent != nil && math.Abs(*lc.ChangePercent) > domain.SignificantPercentChange)
	return lc
}

func itemKey(it domain.StatementItem) string {
	if it.AccountID != "" {
		return it.AccountID
	}
	return "name:" + it.Name
}

// compareSections lines up the items of two sections, current order first,
// then items only present in prior.
func compareSections(current, prior domain.StatementSection) []domain.LineChange {
	priorByKey := make(map[string]domain.StatementItem, len(prior.Items))
	for _, it := range prior.Items {
		priorByKey[itemKey(it)] = it
	}
	seen := make(map[string]bool, len(current.Items))
	out := make([]domain.LineChange, 0, len(current.Items))
	for _, it := range current.Items {
		k := itemKey(it)
		seen[k] = true
		p := decimal.Zero
		if pi, ok := priorByKey[k]; ok {
			p = pi.Amount
		}
		out = append(out, newLineChange(current.Title, it, it.Amount, p))
	}
	for _, it := range prior.Items {
		if seen[itemKey(it)] {
			continue
		}
		out = append(out, newLineChange(current.Title, it, decimal.Zero, it.Amount))
	}
	return out
}

// verticalLines expresses each item as a share of its section and of base.
func verticalLines(section domain.StatementSection, base decimal.Decimal) []domain.VerticalLine {
	out := make([]domain.VerticalLine, 0, len(section.Items))
	for _, it := range section.Items {
		out = append(out, domain.VerticalLine{
			Section:           section.Title,
			AccountID:         it.AccountID,
			Name:              it.Name,
			Amount:            it.Amount,
			PercentOfCategory: accounting.Percent(it.Amount, section.Total),
			PercentOfBase:     accounting.Percent(it.Amount, base),
		})
	}
	return out
}

func countSignificant(groups ...[]domain.LineChange) int {
	n := 0
	for _, g := range groups {
		for _, lc := range g {
			if lc.Significant {
				n++
			}
		}
	}
	return n
}

// buildTrendSeries computes period-over-period percent changes and classifies them.
// Steps whose prior value is zero have no percent change and are skipped.
func buildTrendSeries(metric string, values []decimal.Decimal) domain.TrendSeries {
	ts := domain.TrendSeries{Metric: metric, Values: values, Changes: []float64{}}
	for i := 1; i < len(values); i++ {
		if pc := accounting.PercentChange(values[i], values[i-1]); pc != nil {
			ts.Changes = append(ts.Changes, *pc)
		}
	}
	ts.MeanChange, ts.StdDevChange = accounting.MeanStdDev(ts.Changes)
	ts.Direction = classifyTrend(len(values), ts.Changes, ts.MeanChange, ts.StdDevChange)
	return ts
}

func classifyTrend(periods int, changes []float64, mean, stddev float64) domain.TrendDirection {
	switch {
	case periods < 3 || len(changes) < 2:
		return domain.TrendInsufficientData
	case stddev > domain.VolatileStdDevThreshold:
		return domain.TrendVolatile
	case mean > domain.DirectionalMeanThreshold:
		return domain.TrendIncreasing
	case mean < -domain.DirectionalMeanThreshold:
		return domain.TrendDecreasing
	}
	return domain.TrendStable
}

// seasonalIndices returns each value divided by the series mean, or nil when
// the mean is zero.
func seasonalIndices(values []decimal.Decimal) []float64 {
	if len(values) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values))))
	if mean.IsZero() {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, _ := accounting.Ratio(v, mean)
		out = append(out, f)
	}
	return out
}

// averageGrowth returns the mean fractional growth of values, false when no
// step has a non-zero base.
func averageGrowth(values []decimal.Decimal) (float64, bool) {
	var rates []float64
	for i := 1; i < len(values); i++ {
		if pc := accounting.PercentChange(values[i], values[i-1]); pc != nil {
			rates = append(rates, *pc/100)
		}
	}
	if len(rates) == 0 {
		return 0, false
	}
	mean, _ := accounting.MeanStdDev(rates)
	return mean, true
}

// project extends base by growth for step k (1-based).
func project(base decimal.Decimal, growth float64, k int, method domain.ForecastMethod) decimal.Decimal {
	var factor float64
	if method == domain.ForecastGeometric {
		factor = math.Pow(1+growth, float64(k))
	} else {
		factor = 1 + growth*float64(k)
	}
	return accounting.RoundCurrency(base.Mul(decimal.NewFromFloat(factor)))
}

func forecastMethod(m domain.ForecastMethod) domain.ForecastMethod {
	if m == domain.ForecastGeometric {
		return m
	}
	return domain.ForecastLinear
}

func forecastHorizon(h int) int {
	if h <= 0 {
		return defaultForecastHorizon
	}
	return h
}

func projectionLabel(k int) string {
	return fmt.Sprintf("P+%d", k)
}

func sumDecimals(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func meanDecimal(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return sumDecimals(values).DivRound(decimal.NewFromInt(int64(len(values))), 4)
}
