package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dealsight/dealsight/internal/domain"
)

// searchLimit bounds the candidate set fetched per alert. Keyword scoring
// caps each digest section at ten listings anyway, so fetching more than
// this only burns memory.
const searchLimit = 200

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Search evaluates a complete ListingFilter in a single query, newest
// listings first.
func (r *ListingRepository) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := r.db.WithContext(ctx).Model(&listingModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.CreatedAfter.IsZero() {
		query = query.Where("created_at > ?", filter.CreatedAfter)
	}
	for _, bound := range filter.Ranges {
		if bound.Min != nil {
			query = query.Where(fmt.Sprintf("%s >= ?", bound.Field), *bound.Min)
		}
		if bound.Max != nil {
			query = query.Where(fmt.Sprintf("%s <= ?", bound.Field), *bound.Max)
		}
	}
	if len(filter.Industries) > 0 {
		industries := make([]string, 0, len(filter.Industries))
		for _, industry := range filter.Industries {
			industries = append(industries, string(industry))
		}
		query = query.Where("industry IN ?", industries)
	}
	if len(filter.BusinessModels) > 0 {
		query = query.Where("business_model IN ?", filter.BusinessModels)
	}

	var models []listingModel
	if err := query.Order("created_at DESC").Limit(searchLimit).Find(&models).Error; err != nil {
		return nil, err
	}
	return mapListingsToDomain(models), nil
}
