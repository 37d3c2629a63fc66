package domain

// Intent is the single classified purpose of a user message. Every message
// resolves to exactly one of these.
type Intent string

const (
	IntentNone           Intent = ""
	IntentGreeting       Intent = "greeting"
	IntentGratitude      Intent = "gratitude"
	IntentReset          Intent = "reset"
	IntentAddToCart      Intent = "add_to_cart"
	IntentViewCart       Intent = "view_cart"
	IntentRemoveFromCart Intent = "remove_from_cart"
	IntentClearCart      Intent = "clear_cart"
	IntentCheckout       Intent = "checkout"
	IntentListCategories Intent = "list_categories"
	IntentProductDetails Intent = "product_details"
	IntentSearch         Intent = "search"
	IntentUnrecognized   Intent = "unrecognized"
)
