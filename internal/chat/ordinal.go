package chat

import (
	"regexp"
	"strconv"

	"github.com/nkrv/shopchat/internal/domain"
)

var ordinalPat = regexp.MustCompile(`the (\d+)(?:st|nd|rd|th) one`)

// ResolveOrdinal maps a phrase like "the 2nd one" onto the list of
// previously shown products, 1-indexed as the user typed it. An absent
// pattern or an out-of-range index resolves to nothing; callers fall back
// to name-based lookup.
func ResolveOrdinal(text string, shown []domain.Product) (domain.Product, bool) {
	m := ordinalPat.FindStringSubmatch(text)
	if m == nil {
		return domain.Product{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > len(shown) {
		return domain.Product{}, false
	}
	return shown[n-1], true
}
