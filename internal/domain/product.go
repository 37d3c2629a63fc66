package domain

import "strings"

type Product struct {
	ID                 int64
	Name               string
	Category           string
	Description        string
	DiscountedPrice    float64
	ActualPrice        float64
	DiscountPercentage float64
	Rating             float64
	RatingCount        int64
	ImageURL           string
	ProductURL         string
}

// Brand is derived from the product name: the catalog carries no brand column,
// so the first word of a multi-word name stands in for it.
func (p *Product) Brand() string {
	if i := strings.IndexByte(p.Name, ' '); i > 0 {
		return p.Name[:i]
	}
	return "N/A"
}

// ProductFilter describes a catalog query. Keywords combine with AND across
// tokens, each token matching name OR description. Price bounds are inclusive
// and apply to the discounted price. Results come back sorted by name.
type ProductFilter struct {
	Keywords []string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
}
