package matching

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealsight/dealsight/internal/domain"
)

// Default listing windows per digest cadence. An alert never re-sees
// listings older than its window even when it has no send history.
const (
	dailyWindow   = 24 * time.Hour
	weeklyWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

// DefaultWindow returns the listing look-back window for a periodic
// frequency. Instant alerts are not windowed here; their trigger path
// bounds them by last send time alone.
func DefaultWindow(frequency domain.Frequency) time.Duration {
	switch frequency {
	case domain.FrequencyWeekly:
		return weeklyWindow
	case domain.FrequencyMonthly:
		return monthlyWindow
	default:
		return dailyWindow
	}
}

// Cutoff computes the created_at threshold for an alert: the later of its
// last notification time and the start of the default window. Candidates
// must be strictly newer than the cutoff.
func Cutoff(frequency domain.Frequency, lastSent *time.Time, now time.Time) time.Time {
	if frequency == domain.FrequencyInstantly {
		if lastSent != nil {
			return *lastSent
		}
		return time.Time{}
	}
	windowStart := now.Add(-DefaultWindow(frequency))
	if lastSent != nil && lastSent.After(windowStart) {
		return *lastSent
	}
	return windowStart
}

// BuildFilter turns an alert's criteria into a single ListingFilter value,
// evaluated once against the listing store. Malformed numeric bounds are a
// data-quality issue, not a hard error: the affected bound is dropped and
// the rest of the filter stands.
func BuildFilter(alert domain.Alert, now time.Time) domain.ListingFilter {
	filter := domain.ListingFilter{
		Status:       domain.ListingStatusActive,
		CreatedAfter: Cutoff(alert.Frequency, alert.LastNotificationSent, now),
	}

	addRange(&filter, domain.FieldAskingPrice, alert.MinPrice, alert.MaxPrice)
	addRange(&filter, domain.FieldRevenue, alert.MinRevenue, alert.MaxRevenue)
	addRange(&filter, domain.FieldEBITDA, alert.MinEBITDA, alert.MaxEBITDA)
	addRange(&filter, domain.FieldBusinessAge, alert.MinBusinessAge, alert.MaxBusinessAge)
	addRange(&filter, domain.FieldEmployees, alert.MinEmployees, alert.MaxEmployees)
	addRange(&filter, domain.FieldProfitMargin, alert.MinProfitMargin, alert.MaxProfitMargin)
	addRange(&filter, domain.FieldSellingMultiple, alert.MinSellingMultiple, alert.MaxSellingMultiple)

	filter.Industries = expandIndustries(alert.Industries)
	filter.BusinessModels = cleanSet(alert.PreferredBusinessModels)

	return filter
}

func addRange(filter *domain.ListingFilter, field domain.RangeField, rawMin, rawMax string) {
	min := parseBound(rawMin)
	max := parseBound(rawMax)
	if min == nil && max == nil {
		return
	}
	filter.Ranges = append(filter.Ranges, domain.RangeBound{Field: field, Min: min, Max: max})
}

// parseBound parses one numeric bound. Absent or unparseable values yield
// nil, leaving that side unconstrained.
func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}

func expandIndustries(raw []string) []domain.Industry {
	seen := make(map[domain.Industry]bool)
	var industries []domain.Industry
	for _, label := range raw {
		if strings.TrimSpace(label) == "" {
			continue
		}
		for _, industry := range ExpandAlias(label) {
			if !seen[industry] {
				seen[industry] = true
				industries = append(industries, industry)
			}
		}
	}
	return industries
}

func cleanSet(raw []string) []string {
	var out []string
	for _, v := range raw {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
