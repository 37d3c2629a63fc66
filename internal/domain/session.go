package domain

// ChatSession is the per-user conversational context carried between
// messages. LastProductsShown is replaced wholesale by each search or
// details action and cleared on reset and checkout; ordinal references
// ("the 2nd one") resolve against it.
type ChatSession struct {
	LastProductsShown []Product
	LastIntent        Intent
}
