package chat

import (
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/domain"
)

// BuildFilter translates extracted slots into a catalog filter. An empty
// slot set is valid and yields the unfiltered head of the catalog: that is
// the intended fallback when a search message carried no usable slots.
// Inverted bounds ("between 900 and 100") pass through untouched and simply
// match nothing.
func BuildFilter(slots SlotSet) domain.ProductFilter {
	return domain.ProductFilter{
		Keywords: slots.Keywords,
		Category: slots.Category,
		Brand:    slots.Brand,
		MinPrice: slots.MinPrice,
		MaxPrice: slots.MaxPrice,
		Limit:    config.SearchResultLimit,
	}
}
