package poker

import (
	"fmt"
	"strings"
)

// Category enumerates the classes of five card hands from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

// Categories returns every category in ascending order.
func Categories() []Category {
	all := make([]Category, len(categoryNames))
	for i := range all {
		all[i] = Category(i)
	}
	return all
}

// Ordinal returns the category's position in the ranking, 0 for High Card.
func (c Category) Ordinal() int {
	return int(c)
}

// String returns the display label, e.g. "Full House".
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// ParseCategory accepts a display label ("Full House") or a snake_case name
// ("full_house"), ignoring case.
func ParseCategory(name string) (Category, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
	for i, label := range categoryNames {
		if strings.ToLower(label) == normalized {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hand category %q", name)
}
