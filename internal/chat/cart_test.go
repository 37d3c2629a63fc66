package chat

import (
	"context"
	"testing"

	"github.com/nkrv/shopchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*CartExecutor, *fakeCartStore) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: 1, Name: "Wired Earphones", DiscountedPrice: 10.50},
		{ID: 2, Name: "USB Cable", DiscountedPrice: 4.00},
	}}
	store := newFakeCartStore(catalog)
	return NewCartExecutor(store, catalog), store
}

func TestCartExecutorGetOrCreate(t *testing.T) {
	exec, _ := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	again, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartExecutorFindAndLines(t *testing.T) {
	exec, _ := newCartFixture()
	ctx := context.Background()

	_, err := exec.Find(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	created, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	_, err = exec.AddItem(ctx, created, 1, 2)
	require.NoError(t, err)

	cart, err := exec.Find(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, cart.ID)

	lines, err := exec.Lines(ctx, cart)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartExecutorAddItemAccumulates(t *testing.T) {
	exec, store := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	line, err := exec.AddItem(ctx, cart, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "Wired Earphones", line.Product.Name)

	line, err = exec.AddItem(ctx, cart, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	lines, err := store.ListLines(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCartExecutorAddItemValidation(t *testing.T) {
	exec, _ := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	_, err = exec.AddItem(ctx, cart, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = exec.AddItem(ctx, cart, 1, -2)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = exec.AddItem(ctx, cart, 999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCartExecutorSetQuantity(t *testing.T) {
	exec, store := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	line, err := exec.AddItem(ctx, cart, 1, 2)
	require.NoError(t, err)

	require.NoError(t, exec.SetQuantity(ctx, cart, line.ID, 7))
	lines, err := store.ListLines(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)

	assert.ErrorIs(t, exec.SetQuantity(ctx, cart, line.ID, -1), domain.ErrInvalidQuantity)

	// Zero means delete the line.
	require.NoError(t, exec.SetQuantity(ctx, cart, line.ID, 0))
	lines, err = store.ListLines(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartExecutorRemoveItemMissingLine(t *testing.T) {
	exec, _ := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.ErrorIs(t, exec.RemoveItem(ctx, cart, 42), domain.ErrLineNotFound)
}

func TestCartExecutorView(t *testing.T) {
	exec, _ := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	_, err = exec.AddItem(ctx, cart, 1, 2)
	require.NoError(t, err)
	_, err = exec.AddItem(ctx, cart, 2, 1)
	require.NoError(t, err)

	lines, total, err := exec.View(ctx, cart)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, "25.00", total.StringFixed(2))
}

func TestCartExecutorCheckout(t *testing.T) {
	exec, store := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	_, err = exec.AddItem(ctx, cart, 1, 2)
	require.NoError(t, err)
	_, err = exec.AddItem(ctx, cart, 2, 1)
	require.NoError(t, err)

	receipt, err := exec.Checkout(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.TotalItems)
	assert.Equal(t, "25.00", receipt.TotalPrice.StringFixed(2))

	lines, err := store.ListLines(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = exec.Checkout(ctx, cart)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCartExecutorClearEmptyCart(t *testing.T) {
	exec, _ := newCartFixture()
	ctx := context.Background()

	cart, err := exec.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.NoError(t, exec.Clear(ctx, cart))
}
