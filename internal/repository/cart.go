package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nkrv/shopchat/internal/domain"
)

// CartRepo is the pgx-backed cart store. It satisfies chat.CartStore; every
// method is a single statement, so partial writes cannot happen.
type CartRepo struct {
	pool *pgxpool.Pool
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

func (r *CartRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// Create inserts a cart for the user, tolerating a concurrent creation of
// the same cart.
func (r *CartRepo) Create(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, created_at, updated_at`, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return &c, nil
}

// UpsertLine inserts a line or accumulates qtyDelta onto the existing line
// for the same product, atomically.
func (r *CartRepo) UpsertLine(ctx context.Context, cartID, productID int64, qtyDelta int) (*domain.CartLine, error) {
	var l domain.CartLine
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity, added_at`,
		cartID, productID, qtyDelta,
	).Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert line: %w", err)
	}
	return &l, nil
}

func (r *CartRepo) SetLineQuantity(ctx context.Context, cartID, lineID int64, qty int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3`, qty, lineID, cartID)
	if err != nil {
		return fmt.Errorf("set line quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *CartRepo) DeleteLine(ctx context.Context, cartID, lineID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, lineID, cartID)
	if err != nil {
		return fmt.Errorf("delete line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *CartRepo) ClearLines(ctx context.Context, cartID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear lines: %w", err)
	}
	return nil
}

// ListLines returns the cart's lines joined with their product snapshots,
// in insertion order.
func (r *CartRepo) ListLines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.added_at,
			p.id, p.name, p.category, p.description, p.discounted_price, p.actual_price,
			p.discount_percentage, p.rating, p.rating_count, p.image_url, p.product_url
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at ASC, ci.id ASC`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	var out []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		p := &l.Product
		if err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.AddedAt,
			&p.ID, &p.Name, &p.Category, &p.Description, &p.DiscountedPrice, &p.ActualPrice,
			&p.DiscountPercentage, &p.Rating, &p.RatingCount, &p.ImageURL, &p.ProductURL); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
