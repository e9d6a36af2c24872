package domain

import "time"

// Industry is one of the canonical industry categories listings are tagged
// with at ingestion time. Alert-side raw labels are normalized to this set
// before filtering.
type Industry string

const (
	IndustrySoftwareSaaS  Industry = "Software/SaaS"
	IndustryEcommerce     Industry = "Ecommerce"
	IndustryContentMedia  Industry = "Content/Media"
	IndustryService       Industry = "Service"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryWholesale     Industry = "Wholesale/Distribution"
	IndustryEducation     Industry = "Education"
	IndustryHealthcare    Industry = "Healthcare Services"
	IndustryMarketing     Industry = "Marketing"
	IndustryRenewable     Industry = "Renewable Energy"
	IndustryTechnology    Industry = "Technology"
	IndustryOther         Industry = "Other"
)

const ListingStatusActive = "active"

// Listing is a normalized for-sale business record produced by the external
// ingestion pipeline. URL is globally unique (ingestion deduplicates by it)
// and CreatedAt is immutable once set.
type Listing struct {
	ID                uint
	Title             string
	URL               string
	SourcePlatform    string
	AskingPrice       int64
	Revenue           int64
	EBITDA            int64
	Industry          Industry
	Location          string
	Description       string
	FullDescription   string
	BusinessAge       int
	NumberOfEmployees int
	BusinessModel     string
	ProfitMargin      float64
	SellingMultiple   float64
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SearchText returns the description text used for keyword matching,
// preferring the full scraped description when present.
func (l Listing) SearchText() string {
	if l.FullDescription != "" {
		return l.FullDescription
	}
	return l.Description
}
