package chat

import (
	"regexp"
	"strings"

	"github.com/nkrv/shopchat/internal/domain"
)

// rule pairs an intent with its trigger predicate. Rules are evaluated in
// declared order, first match wins; the order is part of the contract since
// trigger phrases overlap ("checkout" would otherwise be swallowed by a
// keyword search, "find" appears inside ordinary sentences).
type rule struct {
	intent domain.Intent
	match  func(msg string) bool
}

var (
	addPat    = regexp.MustCompile(`\badd\b.+\bto\b( my)? cart\b`)
	removePat = regexp.MustCompile(`\bremove\b.+\bfrom\b( my)? cart\b`)
)

var intentRules = []rule{
	// Single-word greetings match on word boundaries: a bare substring
	// check on "hi" would fire inside "this" and shadow every
	// "buy this"/"purchase this" message.
	{domain.IntentGreeting, wordTrigger("hello", "hi", "hey")},
	{domain.IntentGratitude, phraseTrigger("thank you", "thanks")},
	{domain.IntentReset, phraseTrigger("reset", "start over")},
	{domain.IntentAddToCart, func(msg string) bool {
		return phraseTrigger("add to cart", "buy this", "purchase this")(msg) || addPat.MatchString(msg)
	}},
	{domain.IntentViewCart, phraseTrigger("view cart", "show my cart", "what's in my cart")},
	{domain.IntentRemoveFromCart, func(msg string) bool {
		return phraseTrigger("remove from cart", "delete from cart")(msg) || removePat.MatchString(msg)
	}},
	{domain.IntentClearCart, phraseTrigger("clear cart", "empty my cart")},
	{domain.IntentCheckout, phraseTrigger("checkout", "buy now", "place order")},
	{domain.IntentListCategories, phraseTrigger("list categories", "show categories")},
	{domain.IntentProductDetails, phraseTrigger("details about", "more about", "specs of", "tell me about")},
	{domain.IntentSearch, phraseTrigger("search", "find", "look for", "show me")},
}

// Classify resolves a message to exactly one intent. It is a total function:
// anything no rule claims is IntentUnrecognized.
func Classify(message string) domain.Intent {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, r := range intentRules {
		if r.match(msg) {
			return r.intent
		}
	}
	return domain.IntentUnrecognized
}

func phraseTrigger(phrases ...string) func(string) bool {
	return func(msg string) bool {
		for _, p := range phrases {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	}
}

func wordTrigger(words ...string) func(string) bool {
	pat := regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)\b`)
	return pat.MatchString
}
