package chat

import (
	"context"

	"github.com/nkrv/shopchat/internal/domain"
)

// Catalog is the product catalog collaborator. Lookups that match nothing
// return domain.ErrProductNotFound; Query with an empty filter is valid and
// returns up to Filter.Limit products sorted by name.
type Catalog interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	Query(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

// CartStore is the cart persistence collaborator. It must serialize
// concurrent writes to the same cart; every method is a single atomic
// mutation, so a timed-out call never leaves a partial write behind.
type CartStore interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertLine(ctx context.Context, cartID, productID int64, qtyDelta int) (*domain.CartLine, error)
	SetLineQuantity(ctx context.Context, cartID, lineID int64, qty int) error
	DeleteLine(ctx context.Context, cartID, lineID int64) error
	ClearLines(ctx context.Context, cartID int64) error
	ListLines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
}
