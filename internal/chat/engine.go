package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/domain"
)

// Engine is the dialogue orchestrator: it resolves a message's intent,
// dispatches to the search, reference and cart components, keeps the
// per-user session current, and composes the reply.
type Engine struct {
	catalog  Catalog
	carts    *CartExecutor
	sessions *SessionStore
}

// Reply is the single upward-facing result of a converse cycle.
type Reply struct {
	Text     string
	Products []domain.Product
}

func NewEngine(catalog Catalog, carts *CartExecutor, sessions *SessionStore) *Engine {
	return &Engine{catalog: catalog, carts: carts, sessions: sessions}
}

// Sessions exposes the session store for lifecycle wiring (sweep loop).
func (e *Engine) Sessions() *SessionStore {
	return e.sessions
}

// Converse handles one user message end to end. It never fails upward:
// validation problems and missing products become conversational replies,
// and collaborator failures degrade to a generic try-again message with the
// session left untouched. The session is persisted only after the action
// succeeded.
func (e *Engine) Converse(ctx context.Context, userID, message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))

	// One bounded context per message covers every collaborator call.
	ctx, cancel := context.WithTimeout(ctx, config.ConverseTimeout)
	defer cancel()

	// Serialize the full cycle per user; unrelated users proceed in
	// parallel.
	unlock := e.sessions.Lock(userID)
	defer unlock()

	sess := e.sessions.Get(userID)
	intent := Classify(msg)

	if intent == domain.IntentReset {
		e.sessions.Reset(userID)
		return Reply{Text: resetText}
	}

	var (
		reply Reply
		err   error
	)
	switch intent {
	case domain.IntentGreeting:
		reply = Reply{Text: greetingText}
	case domain.IntentGratitude:
		reply = Reply{Text: gratitudeText}
	case domain.IntentAddToCart:
		reply, err = e.addToCart(ctx, userID, msg, &sess)
	case domain.IntentViewCart:
		reply, err = e.viewCart(ctx, userID)
	case domain.IntentRemoveFromCart:
		reply, err = e.removeFromCart(ctx, userID, msg, &sess)
	case domain.IntentClearCart:
		reply, err = e.clearCart(ctx, userID)
	case domain.IntentCheckout:
		reply, err = e.checkout(ctx, userID, &sess)
	case domain.IntentListCategories:
		reply, err = e.listCategories(ctx)
	case domain.IntentProductDetails:
		reply, err = e.productDetails(ctx, msg, &sess)
	case domain.IntentSearch:
		reply, err = e.search(ctx, msg, &sess)
	default:
		reply = Reply{Text: helpText}
	}

	if err != nil {
		slog.Error("converse failed", "intent", intent, "user", userID, "error", err)
		return Reply{Text: tryAgainText}
	}

	sess.LastIntent = intent
	e.sessions.Put(userID, sess)
	return reply
}

func (e *Engine) search(ctx context.Context, msg string, sess *domain.ChatSession) (Reply, error) {
	slots := ExtractSlots(msg)
	products, err := e.catalog.Query(ctx, BuildFilter(slots))
	if err != nil {
		return Reply{}, fmt.Errorf("catalog query: %w", err)
	}

	sess.LastProductsShown = products
	if len(products) == 0 {
		return Reply{Text: noResultsText}, nil
	}
	if len(products) == 1 {
		return Reply{Text: summaryLine(&products[0]), Products: products}, nil
	}
	return Reply{Text: searchListing(products), Products: products}, nil
}

func (e *Engine) productDetails(ctx context.Context, msg string, sess *domain.ChatSession) (Reply, error) {
	identifier := stripPhrases(msg, "details about", "more about", "specs of", "tell me about")
	product, err := e.resolveProduct(ctx, msg, identifier, sess.LastProductsShown)
	if err != nil {
		return Reply{}, err
	}
	if product == nil {
		return Reply{Text: unknownDetailsText}, nil
	}
	return Reply{Text: detailText(product), Products: []domain.Product{*product}}, nil
}

func (e *Engine) addToCart(ctx context.Context, userID, msg string, sess *domain.ChatSession) (Reply, error) {
	identifier := stripPhrases(msg, "add to cart", "buy this", "purchase this")
	identifier = trimCartPhrase(identifier)

	product, err := e.resolveProduct(ctx, msg, identifier, sess.LastProductsShown)
	if err != nil {
		return Reply{}, err
	}
	if product == nil {
		return Reply{Text: unknownAddText}, nil
	}

	cart, err := e.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	line, err := e.carts.AddItem(ctx, cart, product.ID, 1)
	if errors.Is(err, domain.ErrProductNotFound) {
		return Reply{Text: unknownAddText}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	text := fmt.Sprintf("Added '%s' to your cart!", product.Name)
	if line.Quantity > 1 {
		text = fmt.Sprintf("Updated quantity for '%s' to %d in your cart!", product.Name, line.Quantity)
	}
	return Reply{Text: text, Products: []domain.Product{*product}}, nil
}

func (e *Engine) viewCart(ctx context.Context, userID string) (Reply, error) {
	cart, err := e.carts.Find(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return Reply{Text: emptyCartText}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	lines, total, err := e.carts.View(ctx, cart)
	if err != nil {
		return Reply{}, err
	}
	if len(lines) == 0 {
		return Reply{Text: emptyCartText}, nil
	}

	products := make([]domain.Product, 0, len(lines))
	for _, l := range lines {
		products = append(products, l.Product)
	}
	return Reply{Text: cartListing(lines, total), Products: products}, nil
}

func (e *Engine) removeFromCart(ctx context.Context, userID, msg string, sess *domain.ChatSession) (Reply, error) {
	identifier := stripPhrases(msg, "remove from cart", "delete from cart", "remove", "from my cart", "from cart")

	cart, err := e.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	lines, err := e.carts.Lines(ctx, cart)
	if err != nil {
		return Reply{}, err
	}
	if len(lines) == 0 {
		return Reply{Text: cartAlreadyEmptyText}, nil
	}

	var target *domain.CartLine
	if p, ok := ResolveOrdinal(msg, sess.LastProductsShown); ok {
		for i := range lines {
			if lines[i].ProductID == p.ID {
				target = &lines[i]
				break
			}
		}
	} else if identifier != "" {
		for i := range lines {
			if strings.Contains(strings.ToLower(lines[i].Product.Name), identifier) {
				target = &lines[i]
				break
			}
		}
	}
	if target == nil {
		return Reply{Text: unknownRemoveText}, nil
	}

	if err := e.carts.RemoveItem(ctx, cart, target.ID); err != nil {
		if errors.Is(err, domain.ErrLineNotFound) {
			return Reply{Text: unknownRemoveText}, nil
		}
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Removed '%s' from your cart.", target.Product.Name)}, nil
}

func (e *Engine) clearCart(ctx context.Context, userID string) (Reply, error) {
	cart, err := e.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	lines, err := e.carts.Lines(ctx, cart)
	if err != nil {
		return Reply{}, err
	}
	if len(lines) == 0 {
		return Reply{Text: cartAlreadyEmptyText}, nil
	}
	if err := e.carts.Clear(ctx, cart); err != nil {
		return Reply{}, err
	}
	return Reply{Text: clearedCartText}, nil
}

func (e *Engine) checkout(ctx context.Context, userID string, sess *domain.ChatSession) (Reply, error) {
	cart, err := e.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	receipt, err := e.carts.Checkout(ctx, cart)
	if errors.Is(err, domain.ErrEmptyCart) {
		return Reply{Text: noCheckoutText}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	sess.LastProductsShown = nil
	return Reply{Text: checkoutText(receipt)}, nil
}

func (e *Engine) listCategories(ctx context.Context) (Reply, error) {
	raw, err := e.catalog.DistinctCategories(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("distinct categories: %w", err)
	}
	return Reply{Text: categoriesText(SplitCategories(raw))}, nil
}

// resolveProduct turns a message into a concrete product: ordinal reference
// against the last shown list first, then catalog name lookup on whatever
// identifier text remains. Ordinal hits are revalidated by id so a product
// removed since the search cannot come back from a stale session. A nil
// product with nil error means "could not identify", which callers turn
// into a conversational message.
func (e *Engine) resolveProduct(ctx context.Context, msg, identifier string, shown []domain.Product) (*domain.Product, error) {
	if p, ok := ResolveOrdinal(msg, shown); ok {
		product, err := e.catalog.FindByID(ctx, p.ID)
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		return product, nil
	}

	if identifier == "" {
		return nil, nil
	}
	product, err := e.catalog.FindByName(ctx, identifier)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	return product, nil
}

// stripPhrases removes trigger phrases from the message; what remains is
// the product identifier.
func stripPhrases(msg string, phrases ...string) string {
	for _, p := range phrases {
		msg = strings.ReplaceAll(msg, p, "")
	}
	return strings.TrimSpace(msg)
}

// trimCartPhrase handles the "add <product> to cart" form, where the
// trigger words wrap the identifier instead of preceding it.
func trimCartPhrase(identifier string) string {
	identifier = strings.TrimPrefix(identifier, "add ")
	for _, suffix := range []string{" to my cart", " to cart"} {
		identifier = strings.TrimSuffix(identifier, suffix)
	}
	return strings.TrimSpace(identifier)
}
