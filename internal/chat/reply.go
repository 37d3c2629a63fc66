package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nkrv/shopchat/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	greetingText  = "Hello! I'm your sales chatbot. How can I assist you with finding products today?"
	gratitudeText = "You're welcome! Let me know if you need anything else."
	resetText     = "Conversation reset. How can I assist you now?"
	helpText      = "I can help you search for products, view your cart, or get product details. Try asking 'Show me laptops' or 'What's in my cart?'."
	tryAgainText  = "Sorry, something went wrong on my end. Please try again."

	emptyCartText        = "Your cart is empty."
	cartAlreadyEmptyText = "Your cart is already empty."
	noCheckoutText       = "Your cart is empty. Nothing to checkout."
	clearedCartText      = "Your cart has been cleared."

	unknownAddText     = "I couldn't identify which product to add to cart. Can you specify by name or number from my last search?"
	unknownRemoveText  = "I couldn't find that item in your cart. Please specify which item to remove."
	unknownDetailsText = "I couldn't find specific details for that product. Can you be more precise or refer to a number from my last search?"
	noResultsText      = "I couldn't find any products matching your criteria. Try different keywords or filters."
)

// money renders a price with the fixed 2-decimal rounding used everywhere a
// currency amount reaches the user. Internal accumulation keeps full
// precision.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// summaryLine is the brief one-line form used when a search pins down a
// single product.
func summaryLine(p *domain.Product) string {
	return fmt.Sprintf("Found %s (Brand: %s). It's in the %s category, priced at ₹%s with an average rating of %g.",
		p.Name, p.Brand(), p.Category, money(p.DiscountedPrice), p.Rating)
}

// detailText is the verbose multi-field template for full-details requests.
// Optional fields render only when present.
func detailText(p *domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are the details for %s (Brand: %s):\n", p.Name, p.Brand())
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(&b, "Price: ₹%s (Original: ₹%s)\n", money(p.DiscountedPrice), money(p.ActualPrice))
	if p.Rating > 0 && p.RatingCount > 0 {
		fmt.Fprintf(&b, "Rating: %g out of 5 (%d ratings)\n", p.Rating, p.RatingCount)
	}
	if p.ProductURL != "" {
		fmt.Fprintf(&b, "Link: %s\n", p.ProductURL)
	}
	return b.String()
}

func searchListing(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Here are some products I found:\n")
	for i, p := range products {
		fmt.Fprintf(&b, "%d. %s (₹%s)\n", i+1, p.Name, money(p.DiscountedPrice))
	}
	return b.String()
}

func cartListing(lines []domain.CartLine, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("Here's what's in your cart:\n")
	for i, l := range lines {
		sub := decimal.NewFromFloat(l.Product.DiscountedPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(&b, "%d. %s (Qty: %d) - ₹%s\n", i+1, l.Product.Name, l.Quantity, sub.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: ₹%s", total.StringFixed(2))
	return b.String()
}

func checkoutText(r *Receipt) string {
	return fmt.Sprintf("Thank you for your order! Your purchase of %d items for a total of ₹%s has been placed. (This is a simulated action)",
		r.TotalItems, r.TotalPrice.StringFixed(2))
}

func categoriesText(categories []string) string {
	if len(categories) == 0 {
		return "No categories found."
	}
	return "Available categories: " + strings.Join(categories, ", ") + ".\nWhat product are you looking for within these?"
}

// SplitCategories explodes raw catalog category values, which may be
// |-separated composites like "Electronics|Audio|Headphones", into a
// deduplicated sorted list of individual tags.
func SplitCategories(raw []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range raw {
		for _, c := range strings.Split(r, "|") {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
