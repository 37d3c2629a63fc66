package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/nkrv/shopchat/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

// fakeCatalog is an in-memory Catalog mirroring the repository's query
// semantics.
type fakeCatalog struct {
	products   []domain.Product
	categories []string
	fail       bool
}

func (f *fakeCatalog) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if f.fail {
		return nil, errStoreDown
	}
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeCatalog) FindByName(_ context.Context, name string) (*domain.Product, error) {
	if f.fail {
		return nil, errStoreDown
	}
	var matches []domain.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return nil, domain.ErrProductNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return &matches[0], nil
}

func (f *fakeCatalog) Query(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if f.fail {
		return nil, errStoreDown
	}
	var out []domain.Product
	for _, p := range f.products {
		if !matchesFilter(&p, filter) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(p *domain.Product, f domain.ProductFilter) bool {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)
	for _, kw := range f.Keywords {
		if !strings.Contains(name, kw) && !strings.Contains(desc, kw) {
			return false
		}
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(p.Category), f.Category) {
		return false
	}
	if f.Brand != "" && !strings.Contains(name, f.Brand) && !strings.Contains(desc, f.Brand) {
		return false
	}
	if f.MinPrice != nil && p.DiscountedPrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.DiscountedPrice > *f.MaxPrice {
		return false
	}
	return true
}

func (f *fakeCatalog) DistinctCategories(_ context.Context) ([]string, error) {
	if f.fail {
		return nil, errStoreDown
	}
	return f.categories, nil
}

// fakeCartStore is an in-memory CartStore joining lines against a
// fakeCatalog.
type fakeCartStore struct {
	catalog *fakeCatalog
	carts   map[string]*domain.Cart
	lines   map[int64][]domain.CartLine
	nextID  int64
	fail    bool
}

func newFakeCartStore(catalog *fakeCatalog) *fakeCartStore {
	return &fakeCartStore{
		catalog: catalog,
		carts:   make(map[string]*domain.Cart),
		lines:   make(map[int64][]domain.CartLine),
	}
}

func (f *fakeCartStore) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	if f.fail {
		return nil, errStoreDown
	}
	cart, ok := f.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cp := *cart
	return &cp, nil
}

func (f *fakeCartStore) Create(_ context.Context, userID string) (*domain.Cart, error) {
	if f.fail {
		return nil, errStoreDown
	}
	if cart, ok := f.carts[userID]; ok {
		cp := *cart
		return &cp, nil
	}
	f.nextID++
	cart := &domain.Cart{ID: f.nextID, UserID: userID, CreatedAt: time.Now()}
	f.carts[userID] = cart
	cp := *cart
	return &cp, nil
}

func (f *fakeCartStore) UpsertLine(ctx context.Context, cartID, productID int64, qtyDelta int) (*domain.CartLine, error) {
	if f.fail {
		return nil, errStoreDown
	}
	lines := f.lines[cartID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += qtyDelta
			cp := lines[i]
			f.fillProduct(ctx, &cp)
			return &cp, nil
		}
	}
	f.nextID++
	line := domain.CartLine{ID: f.nextID, CartID: cartID, ProductID: productID, Quantity: qtyDelta, AddedAt: time.Now()}
	f.lines[cartID] = append(lines, line)
	cp := line
	f.fillProduct(ctx, &cp)
	return &cp, nil
}

func (f *fakeCartStore) SetLineQuantity(_ context.Context, cartID, lineID int64, qty int) error {
	if f.fail {
		return errStoreDown
	}
	lines := f.lines[cartID]
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = qty
			return nil
		}
	}
	return domain.ErrLineNotFound
}

func (f *fakeCartStore) DeleteLine(_ context.Context, cartID, lineID int64) error {
	if f.fail {
		return errStoreDown
	}
	lines := f.lines[cartID]
	for i := range lines {
		if lines[i].ID == lineID {
			f.lines[cartID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrLineNotFound
}

func (f *fakeCartStore) ClearLines(_ context.Context, cartID int64) error {
	if f.fail {
		return errStoreDown
	}
	f.lines[cartID] = nil
	return nil
}

func (f *fakeCartStore) ListLines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	if f.fail {
		return nil, errStoreDown
	}
	lines := f.lines[cartID]
	out := make([]domain.CartLine, len(lines))
	for i := range lines {
		out[i] = lines[i]
		f.fillProduct(ctx, &out[i])
	}
	return out, nil
}

func (f *fakeCartStore) fillProduct(ctx context.Context, line *domain.CartLine) {
	if p, err := f.catalog.FindByID(ctx, line.ProductID); err == nil {
		line.Product = *p
	}
}
