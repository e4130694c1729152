package render

import "github.com/eringen/pressroom/content"

// BadgeColor is a collection badge background/text pair.
type BadgeColor struct {
	Background string
	Text       string
}

// Palette is the fixed set of badge colors, assigned by collection position.
var Palette = []BadgeColor{
	{"#E8D5C4", "#6B4A2E"},
	{"#D4E8D9", "#4A6B50"},
	{"#D4D8E8", "#4A5070"},
	{"#F4D4D4", "#8B4A4A"},
	{"#E8E4D4", "#6B654A"},
	{"#D4E4E8", "#4A6B70"},
	{"#E8D4E8", "#704A70"},
	{"#D4E8E4", "#4A706B"},
	{"#F0DDD4", "#7A5A4A"},
	{"#DCD4E8", "#5A4A70"},
}

// Badges maps collection slugs to palette entries. It is derived solely from
// an ordered collection list, so any renderer holding the same list (ordered
// by creation) reconstructs the same mapping.
type Badges struct {
	index map[string]int
}

// NewBadges assigns palette[i mod len(Palette)] to the collection at index i.
func NewBadges(ordered []content.Collection) Badges {
	b := Badges{index: make(map[string]int, len(ordered))}
	for i, c := range ordered {
		if _, dup := b.index[c.Slug]; !dup {
			b.index[c.Slug] = i
		}
	}
	return b
}

// For returns the color of the collection with the given slug. Unknown slugs
// get the first palette entry.
func (b Badges) For(collectionSlug string) BadgeColor {
	i, ok := b.index[collectionSlug]
	if !ok {
		return Palette[0]
	}
	return Palette[i%len(Palette)]
}
