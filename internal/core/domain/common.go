package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Period is an inclusive date range.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsValid reports whether the period is non-empty and ordered.
func (p Period) IsValid() bool {
	return !p.From.IsZero() && !p.To.IsZero() && !p.To.Before(p.From)
}

// Days returns the number of calendar days covered by the period.
func (p Period) Days() int {
	return int(EndOfDay(p.To).Sub(StartOfDay(p.From)).Hours()/24) + 1
}

// Label renders the period as "2006-01-02..2006-01-02".
func (p Period) Label() string {
	return p.From.Format("2006-01-02") + ".." + p.To.Format("2006-01-02")
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
