package matching

import (
	"testing"

	"github.com/dealsight/dealsight/internal/domain"
)

func TestNormalizeIndustry(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Industry
	}{
		{"SaaS platform", domain.IndustrySoftwareSaaS},
		{"software", domain.IndustrySoftwareSaaS},
		{"Mobile app", domain.IndustrySoftwareSaaS},
		{"Shopify store", domain.IndustryEcommerce},
		{"Amazon FBA", domain.IndustryEcommerce},
		{"YouTube channel", domain.IndustryContentMedia},
		{"Newsletter business", domain.IndustryContentMedia},
		{"SEO agency", domain.IndustryMarketing},
		{"Online course platform", domain.IndustryEducation},
		{"Dental clinic", domain.IndustryHealthcare},
		{"Solar installation company", domain.IndustryRenewable},
		{"Metal fabrication factory", domain.IndustryManufacturing},
		{"Wholesale distributor", domain.IndustryWholesale},
		{"Consulting firm", domain.IndustryService},
		{"Pet grooming", domain.IndustryOther},
		{"", domain.IndustryOther},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeIndustry(tt.raw); got != tt.want {
				t.Errorf("NormalizeIndustry(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

// The rule list is ordered and the first match wins: a "software agency"
// is Software/SaaS, not Service.
func TestNormalizeIndustry_FirstRuleWins(t *testing.T) {
	if got := NormalizeIndustry("software agency"); got != domain.IndustrySoftwareSaaS {
		t.Errorf("NormalizeIndustry(\"software agency\") = %s, want %s", got, domain.IndustrySoftwareSaaS)
	}
}

func TestNormalizeIndustry_CaseInsensitive(t *testing.T) {
	if got := NormalizeIndustry("SAAS"); got != domain.IndustrySoftwareSaaS {
		t.Errorf("NormalizeIndustry(\"SAAS\") = %s, want %s", got, domain.IndustrySoftwareSaaS)
	}
}

func TestExpandAlias_MultiBucket(t *testing.T) {
	tests := []struct {
		raw  string
		want []domain.Industry
	}{
		{"SaaS", []domain.Industry{domain.IndustrySoftwareSaaS, domain.IndustryTechnology}},
		{"Mobile Apps", []domain.Industry{domain.IndustrySoftwareSaaS, domain.IndustryTechnology}},
		{"Technology", []domain.Industry{domain.IndustryTechnology, domain.IndustrySoftwareSaaS}},
	}
	for _, tt := range tests {
		got := ExpandAlias(tt.raw)
		if len(got) != len(tt.want) {
			t.Fatalf("ExpandAlias(%q) = %v, want %v", tt.raw, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ExpandAlias(%q)[%d] = %s, want %s", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExpandAlias_FallsBackToNormalizer(t *testing.T) {
	got := ExpandAlias("Wholesale")
	if len(got) != 1 || got[0] != domain.IndustryWholesale {
		t.Errorf("ExpandAlias(\"Wholesale\") = %v, want [%s]", got, domain.IndustryWholesale)
	}
}
