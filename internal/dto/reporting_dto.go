package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// DateLayout is the calendar date format accepted in query strings and bodies.
const DateLayout = "2006-01-02"

// AsOfQuery selects a reporting cutoff. An empty AsOf means today.
type AsOfQuery struct {
	AsOf string `form:"asOf"`
}

// PeriodQuery selects an inclusive reporting period.
type PeriodQuery struct {
	From string `form:"from" json:"from" binding:"required"`
	To   string `form:"to" json:"to" binding:"required"`
}

// ComparePeriodsQuery selects a current and a prior period.
type ComparePeriodsQuery struct {
	CurrentFrom string `form:"currentFrom" binding:"required"`
	CurrentTo   string `form:"currentTo" binding:"required"`
	PriorFrom   string `form:"priorFrom" binding:"required"`
	PriorTo     string `form:"priorTo" binding:"required"`
}

// CompareDatesQuery selects two balance sheet dates.
type CompareDatesQuery struct {
	Current string `form:"current" binding:"required"`
	Prior   string `form:"prior" binding:"required"`
}

// ExportQuery selects an export encoding. Empty means JSON response without download.
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv json pdf xlsx"`
}

// PeriodsRequest lists consecutive periods for trend, forecast and analysis endpoints.
type PeriodsRequest struct {
	Periods    []PeriodQuery `json:"periods" binding:"required,min=1,dive"`
	Horizon    int           `json:"horizon" binding:"omitempty,min=1,max=24"`
	GrowthRate *float64      `json:"growthRate"`
	Method     string        `json:"method" binding:"omitempty,oneof=LINEAR GEOMETRIC"`
}

// StressTestRequest applies scenarios to a period.
type StressTestRequest struct {
	From      string                  `json:"from" binding:"required"`
	To        string                  `json:"to" binding:"required"`
	Scenarios []domain.StressScenario `json:"scenarios" binding:"omitempty,dive"`
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "invalid date %q, expected %s", value, DateLayout)
	}
	return t, nil
}

// ToAsOf returns the cutoff date, defaulting to now.
func (q AsOfQuery) ToAsOf(now time.Time) (time.Time, error) {
	if q.AsOf == "" {
		return domain.StartOfDay(now), nil
	}
	return ParseDate(q.AsOf)
}

// ToPeriod parses the query into a domain period.
func (q PeriodQuery) ToPeriod() (domain.Period, error) {
	from, err := ParseDate(q.From)
	if err != nil {
		return domain.Period{}, err
	}
	to, err := ParseDate(q.To)
	if err != nil {
		return domain.Period{}, err
	}
	p := domain.Period{From: from, To: to}
	if !p.IsValid() {
		return domain.Period{}, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "period end %s precedes start %s", q.To, q.From)
	}
	return p, nil
}

// ToPeriods parses both periods of a comparison.
func (q ComparePeriodsQuery) ToPeriods() (current, prior domain.Period, err error) {
	current, err = PeriodQuery{From: q.CurrentFrom, To: q.CurrentTo}.ToPeriod()
	if err != nil {
		return domain.Period{}, domain.Period{}, fmt.Errorf("current period: %w", err)
	}
	prior, err = PeriodQuery{From: q.PriorFrom, To: q.PriorTo}.ToPeriod()
	if err != nil {
		return domain.Period{}, domain.Period{}, fmt.Errorf("prior period: %w", err)
	}
	return current, prior, nil
}

// ToDates parses both comparison dates.
func (q CompareDatesQuery) ToDates() (current, prior time.Time, err error) {
	if current, err = ParseDate(q.Current); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if prior, err = ParseDate(q.Prior); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return current, prior, nil
}

// ToPeriods parses every period in order.
func (r PeriodsRequest) ToPeriods() ([]domain.Period, error) {
	periods := make([]domain.Period, 0, len(r.Periods))
	for i, q := range r.Periods {
		p, err := q.ToPeriod()
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i, err)
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// ToPeriod parses the stress test period.
func (r StressTestRequest) ToPeriod() (domain.Period, error) {
	return PeriodQuery{From: r.From, To: r.To}.ToPeriod()
}

// DatesRequest lists balance sheet dates for trend analysis.
type DatesRequest struct {
	Dates []string `json:"dates" binding:"required,min=1"`
}

// ToDates parses every date in order.
func (r DatesRequest) ToDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(r.Dates))
	for i, d := range r.Dates {
		t, err := ParseDate(d)
		if err != nil {
			return nil, fmt.Errorf("date %d: %w", i, err)
		}
		dates = append(dates, t)
	}
	return dates, nil
}

// ForecastMethod returns the requested projection method, or "" for the default.
func (r PeriodsRequest) ForecastMethod() domain.ForecastMethod {
	return domain.ForecastMethod(r.Method)
}
