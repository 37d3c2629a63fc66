package chat

import (
	"testing"

	"github.com/nkrv/shopchat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    domain.Intent
	}{
		{"Hello", domain.IntentGreeting},
		{"hey there", domain.IntentGreeting},
		{"thanks a lot", domain.IntentGratitude},
		{"reset", domain.IntentReset},
		{"let's start over", domain.IntentReset},

		{"add to cart", domain.IntentAddToCart},
		{"add the 1st one to cart", domain.IntentAddToCart},
		{"add bluetooth speaker to my cart", domain.IntentAddToCart},
		// "this" contains "hi"; a substring greeting check would
		// misroute these two.
		{"buy this", domain.IntentAddToCart},
		{"purchase this", domain.IntentAddToCart},

		{"what's in my cart", domain.IntentViewCart},
		{"view cart", domain.IntentViewCart},
		{"remove from cart", domain.IntentRemoveFromCart},
		{"remove the 2nd one from my cart", domain.IntentRemoveFromCart},
		{"clear cart", domain.IntentClearCart},
		{"checkout", domain.IntentCheckout},
		{"buy now", domain.IntentCheckout},
		// Checkout outranks search even when a search trigger is present.
		{"show me how to checkout", domain.IntentCheckout},

		{"list categories", domain.IntentListCategories},
		{"tell me about the 1st one", domain.IntentProductDetails},
		{"show me laptops", domain.IntentSearch},
		{"look for running shoes", domain.IntentSearch},

		{"qwerty", domain.IntentUnrecognized},
		{"this is nice", domain.IntentUnrecognized},
		{"", domain.IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}
