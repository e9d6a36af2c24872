package matching

import (
	"sort"
	"strings"

	"github.com/dealsight/dealsight/internal/domain"
)

// Per-digest caps: emails carry at most this many listings per section.
const maxMatchesPerSection = 10

// Keyword scoring weights. A keyword found in the title outranks one found
// in the description or location, and a verbatim phrase match outranks both.
const (
	titleMatchScore  = 2
	fieldMatchScore  = 1
	exactPhraseBonus = 3
)

// Match is one candidate listing with its keyword relevance.
type Match struct {
	Listing         domain.Listing
	Score           int
	MatchedKeywords []string
}

// Partition splits candidates into keyword-relevant exact matches and the
// remaining other matches. Candidates hitting an exclude keyword appear in
// neither list. Without search keywords every candidate is an other match.
func Partition(candidates []domain.Listing, alert domain.Alert) (exact []Match, other []Match) {
	for _, listing := range candidates {
		searchText, titleText := buildSearchText(listing, alert)

		if hitsExcludeKeyword(searchText, alert.ExcludeKeywords) {
			continue
		}

		if len(alert.SearchKeywords) == 0 {
			other = append(other, Match{Listing: listing})
			continue
		}

		m := scoreListing(listing, alert, searchText, titleText)
		if included(m, alert, searchText) {
			if alert.SearchMatchType == domain.MatchExact {
				m.Score += exactPhraseBonus
			}
			exact = append(exact, m)
		} else {
			other = append(other, Match{Listing: listing})
		}
	}

	sort.SliceStable(exact, func(i, j int) bool {
		if exact[i].Score != exact[j].Score {
			return exact[i].Score > exact[j].Score
		}
		return exact[i].Listing.CreatedAt.After(exact[j].Listing.CreatedAt)
	})
	sort.SliceStable(other, func(i, j int) bool {
		return other[i].Listing.CreatedAt.After(other[j].Listing.CreatedAt)
	})

	return truncate(exact), truncate(other)
}

// buildSearchText concatenates the lower-cased fields the alert searches
// in, returning the combined text and the title portion separately.
func buildSearchText(listing domain.Listing, alert domain.Alert) (full, title string) {
	var parts []string
	if alert.SearchesIn(domain.SearchInTitle) {
		title = strings.ToLower(listing.Title)
		parts = append(parts, title)
	}
	if alert.SearchesIn(domain.SearchInDescription) {
		parts = append(parts, strings.ToLower(listing.SearchText()))
	}
	if alert.SearchesIn(domain.SearchInLocation) {
		parts = append(parts, strings.ToLower(listing.Location))
	}
	return strings.Join(parts, " "), title
}

func hitsExcludeKeyword(searchText string, excludeKeywords []string) bool {
	for _, keyword := range excludeKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(searchText, keyword) {
			return true
		}
	}
	return false
}

func scoreListing(listing domain.Listing, alert domain.Alert, searchText, titleText string) Match {
	m := Match{Listing: listing}
	for _, keyword := range alert.SearchKeywords {
		lowered := strings.ToLower(strings.TrimSpace(keyword))
		if lowered == "" {
			continue
		}
		switch {
		case titleText != "" && strings.Contains(titleText, lowered):
			m.Score += titleMatchScore
		case strings.Contains(searchText, lowered):
			m.Score += fieldMatchScore
		default:
			continue
		}
		m.MatchedKeywords = append(m.MatchedKeywords, keyword)
	}
	return m
}

func included(m Match, alert domain.Alert, searchText string) bool {
	switch alert.SearchMatchType {
	case domain.MatchAll:
		return len(m.MatchedKeywords) == len(alert.SearchKeywords)
	case domain.MatchExact:
		phrase := strings.ToLower(strings.Join(alert.SearchKeywords, " "))
		return phrase != "" && strings.Contains(searchText, phrase)
	default:
		return len(m.MatchedKeywords) > 0
	}
}

func truncate(matches []Match) []Match {
	if len(matches) > maxMatchesPerSection {
		return matches[:maxMatchesPerSection]
	}
	return matches
}
