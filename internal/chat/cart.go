package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkrv/shopchat/internal/domain"
	"github.com/shopspring/decimal"
)

// CartExecutor drives cart mutations against the cart store. Quantity
// validation happens here; the store only ever sees positive quantities,
// with zero translated into an explicit line deletion.
type CartExecutor struct {
	store   CartStore
	catalog Catalog
}

func NewCartExecutor(store CartStore, catalog Catalog) *CartExecutor {
	return &CartExecutor{store: store, catalog: catalog}
}

// Receipt summarizes a completed checkout. TotalPrice carries full
// precision; rounding happens at the presentation boundary.
type Receipt struct {
	TotalItems int
	TotalPrice decimal.Decimal
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (e *CartExecutor) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := e.store.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	cart, err = e.store.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// Find returns the user's cart without creating one; absence surfaces as
// domain.ErrCartNotFound.
func (e *CartExecutor) Find(ctx context.Context, userID string) (*domain.Cart, error) {
	return e.store.GetByUser(ctx, userID)
}

// Lines snapshots the cart's lines without totalling them.
func (e *CartExecutor) Lines(ctx context.Context, cart *domain.Cart) ([]domain.CartLine, error) {
	return e.store.ListLines(ctx, cart.ID)
}

// AddItem adds qty of a product to the cart, accumulating onto an existing
// line for the same product. The product is resolved against the live
// catalog first, so references from a stale search cannot insert a product
// that no longer exists.
func (e *CartExecutor) AddItem(ctx context.Context, cart *domain.Cart, productID int64, qty int) (*domain.CartLine, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := e.catalog.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	line, err := e.store.UpsertLine(ctx, cart.ID, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("upsert line: %w", err)
	}
	line.Product = *product
	return line, nil
}

// SetQuantity overwrites a line's quantity. Zero deletes the line; negative
// quantities are rejected.
func (e *CartExecutor) SetQuantity(ctx context.Context, cart *domain.Cart, lineID int64, qty int) error {
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}
	if qty == 0 {
		return e.store.DeleteLine(ctx, cart.ID, lineID)
	}
	return e.store.SetLineQuantity(ctx, cart.ID, lineID, qty)
}

// RemoveItem deletes one line from the cart.
func (e *CartExecutor) RemoveItem(ctx context.Context, cart *domain.Cart, lineID int64) error {
	return e.store.DeleteLine(ctx, cart.ID, lineID)
}

// Clear deletes every line. Clearing an already-empty cart succeeds.
func (e *CartExecutor) Clear(ctx context.Context, cart *domain.Cart) error {
	return e.store.ClearLines(ctx, cart.ID)
}

// View snapshots the cart's lines once and computes the total over that
// snapshot.
func (e *CartExecutor) View(ctx context.Context, cart *domain.Cart) ([]domain.CartLine, decimal.Decimal, error) {
	lines, err := e.store.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("list lines: %w", err)
	}
	return lines, cartTotal(lines), nil
}

// Checkout totals the cart and clears it. An empty cart is the only refusal.
func (e *CartExecutor) Checkout(ctx context.Context, cart *domain.Cart) (*Receipt, error) {
	lines, err := e.store.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	r := &Receipt{TotalPrice: cartTotal(lines)}
	for _, l := range lines {
		r.TotalItems += l.Quantity
	}

	if err := e.store.ClearLines(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return r, nil
}

func cartTotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		price := decimal.NewFromFloat(l.Product.DiscountedPrice)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
