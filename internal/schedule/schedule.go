// Package schedule decides when an alert is due for a digest and when its
// next delivery should run. All computation is in UTC.
package schedule

import (
	"time"

	"github.com/dealsight/dealsight/internal/domain"
)

// Due-check slack per frequency, intentionally below the nominal period so
// an hourly sweep firing a little early or late never skips a whole cycle.
const (
	dailySlack   = 20 * time.Hour
	weeklySlack  = 6 * 24 * time.Hour
	monthlySlack = 27 * 24 * time.Hour
)

// instantDelay batches an instant alert's digest slightly behind the
// ingestion event that triggered it.
const instantDelay = 5 * time.Minute

// digestHourUTC is the hour of day periodic digests are scheduled for.
const digestHourUTC = 9

// IsDue reports whether a periodic alert should be scheduled now. Instant
// alerts always report false: they are driven by the ingestion trigger, not
// the periodic sweep.
func IsDue(frequency domain.Frequency, lastSent *time.Time, now time.Time) bool {
	if frequency == domain.FrequencyInstantly {
		return false
	}
	if lastSent == nil {
		return true
	}
	elapsed := now.Sub(*lastSent)
	switch frequency {
	case domain.FrequencyDaily:
		return elapsed > dailySlack
	case domain.FrequencyWeekly:
		return elapsed > weeklySlack
	case domain.FrequencyMonthly:
		return elapsed > monthlySlack
	}
	return false
}

// NextRun computes the scheduled_for timestamp for a newly created
// notification log.
func NextRun(frequency domain.Frequency, now time.Time) time.Time {
	now = now.UTC()
	switch frequency {
	case domain.FrequencyInstantly:
		return now.Add(instantDelay)
	case domain.FrequencyWeekly:
		next := now.AddDate(0, 0, 7)
		return atDigestHour(next)
	case domain.FrequencyMonthly:
		// First of the following month; AddDate handles the December
		// rollover into the next year.
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return atDigestHour(first)
	default:
		return atDigestHour(now.AddDate(0, 0, 1))
	}
}

func atDigestHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), digestHourUTC, 0, 0, 0, time.UTC)
}
