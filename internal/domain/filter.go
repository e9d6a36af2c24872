package domain

import (
	"strings"
	"time"
)

// RangeField names a numeric listing column a filter can bound.
type RangeField string

const (
	FieldAskingPrice     RangeField = "asking_price"
	FieldRevenue         RangeField = "revenue"
	FieldEBITDA          RangeField = "ebitda"
	FieldBusinessAge     RangeField = "business_age"
	FieldEmployees       RangeField = "number_of_employees"
	FieldProfitMargin    RangeField = "profit_margin"
	FieldSellingMultiple RangeField = "selling_multiple"
)

// RangeBound is one inclusive numeric constraint.
type RangeBound struct {
	Field RangeField
	Min   *float64
	Max   *float64
}

// ListingFilter is a single composable filter value built once per alert
// and evaluated in one query against the listing store. Empty slices and
// zero CreatedAfter mean unconstrained.
type ListingFilter struct {
	Ranges         []RangeBound
	Industries     []Industry
	BusinessModels []string
	Status         string
	CreatedAfter   time.Time
}

// Matches evaluates the filter against a single in-memory listing. The
// database repository applies the same semantics in SQL; this form backs
// tests and any already-materialized listing set.
func (f ListingFilter) Matches(l Listing) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if !f.CreatedAfter.IsZero() && !l.CreatedAt.After(f.CreatedAfter) {
		return false
	}
	for _, r := range f.Ranges {
		v := listingRangeValue(l, r.Field)
		if r.Min != nil && v < *r.Min {
			return false
		}
		if r.Max != nil && v > *r.Max {
			return false
		}
	}
	if len(f.Industries) > 0 && !containsIndustry(f.Industries, l.Industry) {
		return false
	}
	if len(f.BusinessModels) > 0 && !containsFold(f.BusinessModels, l.BusinessModel) {
		return false
	}
	return true
}

func listingRangeValue(l Listing, field RangeField) float64 {
	switch field {
	case FieldAskingPrice:
		return float64(l.AskingPrice)
	case FieldRevenue:
		return float64(l.Revenue)
	case FieldEBITDA:
		return float64(l.EBITDA)
	case FieldBusinessAge:
		return float64(l.BusinessAge)
	case FieldEmployees:
		return float64(l.NumberOfEmployees)
	case FieldProfitMargin:
		return l.ProfitMargin
	case FieldSellingMultiple:
		return l.SellingMultiple
	}
	return 0
}

func containsIndustry(set []Industry, v Industry) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
