// Package matching holds the pure listing-matching logic: industry
// normalization, per-alert filter construction, and keyword relevance
// scoring. Nothing in this package performs I/O.
package matching

import (
	"strings"

	"github.com/dealsight/dealsight/internal/domain"
)

// industryRule maps a group of label keywords to one canonical industry.
// Rules are tested in order; the first match wins.
type industryRule struct {
	terms    []string
	industry domain.Industry
}

var industryRules = []industryRule{
	{[]string{"saas", "software", "tech", "app", "plugin", "mobile", "extension"}, domain.IndustrySoftwareSaaS},
	{[]string{"ecommerce", "e-commerce", "shopify", "fba", "amazon", "store"}, domain.IndustryEcommerce},
	{[]string{"content", "blog", "youtube", "social media", "newsletter", "media"}, domain.IndustryContentMedia},
	{[]string{"marketing", "advertising", "seo"}, domain.IndustryMarketing},
	{[]string{"education", "course", "training", "tutoring"}, domain.IndustryEducation},
	{[]string{"healthcare", "medical", "dental", "clinic"}, domain.IndustryHealthcare},
	{[]string{"solar", "renewable", "energy"}, domain.IndustryRenewable},
	{[]string{"manufacturing", "factory", "production"}, domain.IndustryManufacturing},
	{[]string{"distribution", "wholesale"}, domain.IndustryWholesale},
	{[]string{"service", "consulting", "agency"}, domain.IndustryService},
}

// NormalizeIndustry maps a free-text industry label to its canonical
// category. Unrecognized labels map to Other.
func NormalizeIndustry(raw string) domain.Industry {
	label := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range industryRules {
		for _, term := range rule.terms {
			if strings.Contains(label, term) {
				return rule.industry
			}
		}
	}
	return domain.IndustryOther
}

// industryAliases maps alert-side labels that span more than one canonical
// bucket. Listings are tagged with a single canonical industry, but a buyer
// asking for "SaaS" expects both Software/SaaS and Technology listings.
var industryAliases = map[string][]domain.Industry{
	"saas":        {domain.IndustrySoftwareSaaS, domain.IndustryTechnology},
	"software":    {domain.IndustrySoftwareSaaS, domain.IndustryTechnology},
	"mobile apps": {domain.IndustrySoftwareSaaS, domain.IndustryTechnology},
	"technology":  {domain.IndustryTechnology, domain.IndustrySoftwareSaaS},
	"tech":        {domain.IndustryTechnology, domain.IndustrySoftwareSaaS},
}

// ExpandAlias resolves one alert industry label to the set of canonical
// industries it should match. Used only when building an alert's industry
// filter, never when tagging listings.
func ExpandAlias(raw string) []domain.Industry {
	label := strings.ToLower(strings.TrimSpace(raw))
	if expanded, ok := industryAliases[label]; ok {
		return expanded
	}
	return []domain.Industry{NormalizeIndustry(raw)}
}
