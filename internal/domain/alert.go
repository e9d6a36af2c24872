package domain

import "time"

// Frequency is an alert's digest cadence.
type Frequency string

const (
	FrequencyInstantly Frequency = "instantly"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
)

// MatchType controls how search keywords are combined.
type MatchType string

const (
	MatchAny   MatchType = "any"
	MatchAll   MatchType = "all"
	MatchExact MatchType = "exact"
)

// SearchField names a listing field keyword matching may search in.
type SearchField string

const (
	SearchInTitle       SearchField = "title"
	SearchInDescription SearchField = "description"
	SearchInLocation    SearchField = "location"
)

// Alert is a user's saved search criteria plus delivery cadence.
//
// Numeric bounds are kept as raw strings and parsed with decimal at
// evaluation time; an unparseable bound is treated as unconstrained rather
// than failing the whole alert. Only user edits and the notification
// pipeline (LastNotificationSent) mutate an alert.
type Alert struct {
	ID     uint
	UserID uint
	Name   string

	MinPrice           string
	MaxPrice           string
	MinRevenue         string
	MaxRevenue         string
	MinEBITDA          string
	MaxEBITDA          string
	MinBusinessAge     string
	MaxBusinessAge     string
	MinEmployees       string
	MaxEmployees       string
	MinProfitMargin    string
	MaxProfitMargin    string
	MinSellingMultiple string
	MaxSellingMultiple string

	Industries              []string
	PreferredBusinessModels []string

	SearchKeywords  []string
	SearchMatchType MatchType
	SearchIn        []SearchField
	ExcludeKeywords []string

	Frequency            Frequency
	LastNotificationSent *time.Time
	Active               bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SearchesIn reports whether keyword matching should look at the given field.
// An empty SearchIn defaults to title plus description.
func (a Alert) SearchesIn(field SearchField) bool {
	if len(a.SearchIn) == 0 {
		return field == SearchInTitle || field == SearchInDescription
	}
	for _, f := range a.SearchIn {
		if f == field {
			return true
		}
	}
	return false
}
