package chat

import (
	"regexp"
	"strconv"
	"strings"
)

// SlotSet holds the structured parameters extracted from one message.
// Absent slots are zero values; extraction never fails.
type SlotSet struct {
	Keywords []string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

var (
	stopPhrases = regexp.MustCompile(`search for|find|look for|show me|what is|products|in category|by brand|under|over|between|and`)
	categoryPat = regexp.MustCompile(`in category\s*(.+)`)
	brandPat    = regexp.MustCompile(`by brand\s*(.+)`)
	underPat    = regexp.MustCompile(`under\s*(\d+)`)
	overPat     = regexp.MustCompile(`over\s*(\d+)`)
	betweenPat  = regexp.MustCompile(`between\s*(\d+)\s*and\s*(\d+)`)
)

// ExtractSlots pulls keywords, category, brand and a price range out of raw
// text. The pipeline order matters: price spans and stop phrases are cut
// from the keyword stream before it is tokenized, category and brand
// capture strips the tokens it consumed, and the "between" pattern runs
// last so it overwrites bounds already set by "under"/"over". Numbers not
// claimed by one of the three price patterns stay ordinary keywords.
func ExtractSlots(message string) SlotSet {
	msg := strings.ToLower(message)

	var slots SlotSet
	clean := betweenPat.ReplaceAllString(msg, "")
	clean = underPat.ReplaceAllString(clean, "")
	clean = overPat.ReplaceAllString(clean, "")
	clean = stopPhrases.ReplaceAllString(clean, "")
	for _, tok := range strings.Fields(clean) {
		slots.Keywords = append(slots.Keywords, tok)
	}

	if m := categoryPat.FindStringSubmatch(msg); m != nil {
		slots.Category = strings.TrimSpace(m[1])
		slots.Keywords = dropContained(slots.Keywords, slots.Category)
	}

	if m := brandPat.FindStringSubmatch(msg); m != nil {
		slots.Brand = strings.TrimSpace(m[1])
		slots.Keywords = dropContained(slots.Keywords, slots.Brand)
	}

	if m := underPat.FindStringSubmatch(msg); m != nil {
		slots.MaxPrice = parsePrice(m[1])
	}
	if m := overPat.FindStringSubmatch(msg); m != nil {
		slots.MinPrice = parsePrice(m[1])
	}
	if m := betweenPat.FindStringSubmatch(msg); m != nil {
		slots.MinPrice = parsePrice(m[1])
		slots.MaxPrice = parsePrice(m[2])
	}

	return slots
}

// dropContained removes keyword tokens that appear inside the captured
// phrase, so "in category home audio" does not leave "audio" behind as a
// free keyword.
func dropContained(keywords []string, phrase string) []string {
	kept := keywords[:0]
	for _, k := range keywords {
		if !strings.Contains(phrase, k) {
			kept = append(kept, k)
		}
	}
	return kept
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
