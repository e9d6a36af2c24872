package matching

import (
	"testing"
	"time"

	"github.com/dealsight/dealsight/internal/domain"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func TestDefaultWindow(t *testing.T) {
	tests := []struct {
		frequency domain.Frequency
		want      time.Duration
	}{
		{domain.FrequencyDaily, 24 * time.Hour},
		{domain.FrequencyWeekly, 7 * 24 * time.Hour},
		{domain.FrequencyMonthly, 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := DefaultWindow(tt.frequency); got != tt.want {
			t.Errorf("DefaultWindow(%s) = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}

func TestCutoff(t *testing.T) {
	recent := testNow.Add(-2 * time.Hour)
	old := testNow.Add(-48 * time.Hour)

	tests := []struct {
		name      string
		frequency domain.Frequency
		lastSent  *time.Time
		want      time.Time
	}{
		{"no history uses window", domain.FrequencyDaily, nil, testNow.Add(-24 * time.Hour)},
		{"recent send wins over window", domain.FrequencyDaily, &recent, recent},
		{"stale send falls back to window", domain.FrequencyDaily, &old, testNow.Add(-24 * time.Hour)},
		{"weekly window", domain.FrequencyWeekly, nil, testNow.Add(-7 * 24 * time.Hour)},
		{"instant uses last send only", domain.FrequencyInstantly, &recent, recent},
		{"instant without history is unbounded", domain.FrequencyInstantly, nil, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cutoff(tt.frequency, tt.lastSent, testNow); !got.Equal(tt.want) {
				t.Errorf("Cutoff = %v, want %v", got, tt.want)
			}
		})
	}
}

// For a fixed frequency, a later last-send time never moves the cutoff
// backwards.
func TestCutoff_Monotonic(t *testing.T) {
	previous := time.Time{}
	for hoursAgo := 72; hoursAgo >= 0; hoursAgo-- {
		lastSent := testNow.Add(-time.Duration(hoursAgo) * time.Hour)
		cutoff := Cutoff(domain.FrequencyDaily, &lastSent, testNow)
		if cutoff.Before(previous) {
			t.Fatalf("cutoff went backwards: last_sent=%v cutoff=%v previous=%v", lastSent, cutoff, previous)
		}
		previous = cutoff
	}
}

func TestBuildFilter_Bounds(t *testing.T) {
	alert := domain.Alert{
		MinPrice:   "100000",
		MaxPrice:   "500000",
		MinRevenue: "50000",
		Frequency:  domain.FrequencyDaily,
	}

	filter := BuildFilter(alert, testNow)

	if filter.Status != domain.ListingStatusActive {
		t.Errorf("Status = %q, want active", filter.Status)
	}
	if len(filter.Ranges) != 2 {
		t.Fatalf("got %d range bounds, want 2", len(filter.Ranges))
	}

	price := filter.Ranges[0]
	if price.Field != domain.FieldAskingPrice || *price.Min != 100000 || *price.Max != 500000 {
		t.Errorf("unexpected price bound: %+v", price)
	}
	revenue := filter.Ranges[1]
	if revenue.Field != domain.FieldRevenue || *revenue.Min != 50000 || revenue.Max != nil {
		t.Errorf("unexpected revenue bound: %+v", revenue)
	}
}

// A malformed bound is a data-quality problem on that side only; the rest
// of the alert's criteria must still apply.
func TestBuildFilter_MalformedBoundDropped(t *testing.T) {
	alert := domain.Alert{
		MinPrice:  "not-a-number",
		MaxPrice:  "500000",
		Frequency: domain.FrequencyDaily,
	}

	filter := BuildFilter(alert, testNow)

	if len(filter.Ranges) != 1 {
		t.Fatalf("got %d range bounds, want 1", len(filter.Ranges))
	}
	bound := filter.Ranges[0]
	if bound.Min != nil {
		t.Error("malformed min bound should be dropped")
	}
	if bound.Max == nil || *bound.Max != 500000 {
		t.Errorf("valid max bound should survive, got %+v", bound)
	}
}

func TestBuildFilter_ExpandsIndustryAliases(t *testing.T) {
	alert := domain.Alert{
		Industries: []string{"SaaS"},
		Frequency:  domain.FrequencyDaily,
	}

	filter := BuildFilter(alert, testNow)

	want := map[domain.Industry]bool{domain.IndustrySoftwareSaaS: true, domain.IndustryTechnology: true}
	if len(filter.Industries) != len(want) {
		t.Fatalf("Industries = %v, want both Software/SaaS and Technology", filter.Industries)
	}
	for _, industry := range filter.Industries {
		if !want[industry] {
			t.Errorf("unexpected industry %s", industry)
		}
	}
}

func TestBuildFilter_CutoffUsesLastSent(t *testing.T) {
	lastSent := testNow.Add(-3 * time.Hour)
	alert := domain.Alert{
		Frequency:            domain.FrequencyDaily,
		LastNotificationSent: &lastSent,
	}

	filter := BuildFilter(alert, testNow)

	if !filter.CreatedAfter.Equal(lastSent) {
		t.Errorf("CreatedAfter = %v, want %v", filter.CreatedAfter, lastSent)
	}
}

// An alert with a price range and the SaaS alias must accept a $300k
// Software/SaaS listing created now.
func TestBuildFilter_AcceptsMatchingListing(t *testing.T) {
	alert := domain.Alert{
		MinPrice:   "100000",
		MaxPrice:   "500000",
		Industries: []string{"SaaS"},
		Frequency:  domain.FrequencyDaily,
	}
	listing := domain.Listing{
		AskingPrice: 300000,
		Industry:    domain.IndustrySoftwareSaaS,
		Status:      domain.ListingStatusActive,
		CreatedAt:   testNow,
	}

	filter := BuildFilter(alert, testNow.Add(-time.Minute))
	if !filter.Matches(listing) {
		t.Error("listing should satisfy the alert's filter")
	}
}
