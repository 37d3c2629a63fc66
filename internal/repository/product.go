package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nkrv/shopchat/internal/domain"
)

const productColumns = `id, name, category, description, discounted_price, actual_price,
	discount_percentage, rating, rating_count, image_url, product_url`

// ProductRepo is the pgx-backed product catalog. It satisfies chat.Catalog.
type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// FindByName returns the first product whose name contains the given text,
// case-insensitively, preferring the alphabetically first match.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE name ILIKE $1 ORDER BY name ASC LIMIT 1`,
		"%"+name+"%")
	return scanProduct(row)
}

// Query executes a filter built by the chat engine. Conditions stack in a
// fixed order: keywords (AND across tokens, name OR description within
// each), category containment, brand degraded to name/description
// containment, inclusive price bounds on the discounted price. Results are
// sorted by name and capped at f.Limit.
func (r *ProductRepo) Query(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, kw := range f.Keywords {
		p := arg("%" + kw + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.Category != "" {
		conds = append(conds, fmt.Sprintf("category ILIKE %s", arg("%"+f.Category+"%")))
	}
	if f.Brand != "" {
		p := arg("%" + f.Brand + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.MinPrice != nil {
		conds = append(conds, fmt.Sprintf("discounted_price >= %s", arg(*f.MinPrice)))
	}
	if f.MaxPrice != nil {
		conds = append(conds, fmt.Sprintf("discounted_price <= %s", arg(*f.MaxPrice)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s", arg(f.Limit))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// List serves the paginated catalog endpoint: optional name/category
// filters plus a total count for the pagination envelope.
func (r *ProductRepo) List(ctx context.Context, name, category string, limit, offset int) ([]domain.Product, int64, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if name != "" {
		conds = append(conds, fmt.Sprintf("name ILIKE %s", arg("%"+name+"%")))
	}
	if category != "" {
		conds = append(conds, fmt.Sprintf("category ILIKE %s", arg("%"+category+"%")))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY id ASC LIMIT %s OFFSET %s", arg(limit), arg(offset))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products WHERE category <> ''`)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Insert(ctx context.Context, p *domain.Product) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, category, description, discounted_price, actual_price,
			discount_percentage, rating, rating_count, image_url, product_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.Name, p.Category, p.Description, p.DiscountedPrice, p.ActualPrice,
		p.DiscountPercentage, p.Rating, p.RatingCount, p.ImageURL, p.ProductURL,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.DiscountedPrice,
		&p.ActualPrice, &p.DiscountPercentage, &p.Rating, &p.RatingCount, &p.ImageURL, &p.ProductURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.DiscountedPrice,
			&p.ActualPrice, &p.DiscountPercentage, &p.Rating, &p.RatingCount, &p.ImageURL, &p.ProductURL); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
