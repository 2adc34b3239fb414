package poker

import (
	"slices"
	"strings"
)

// HandSize is the number of cards in a poker hand.
const HandSize = 5

// RankKey orders hands: the category ordinal followed by the five card
// ranks in significance order. Keys compare lexicographically.
type RankKey [HandSize + 1]int

// Compare returns -1, 0 or +1 as k is weaker than, equal to or stronger
// than other.
func (k RankKey) Compare(other RankKey) int {
	return slices.Compare(k[:], other[:])
}

// Category returns the category encoded in the key's first element.
func (k RankKey) Category() Category {
	return Category(k[0])
}

// TieBreak returns the rank vector used within a category.
func (k RankKey) TieBreak() []int {
	return slices.Clone(k[1:])
}

// Hand is an immutable set of five distinct cards together with its
// category and rank, computed once at construction.
type Hand struct {
	cards    [HandSize]Card
	category Category
	rank     RankKey
}

// NewHand validates cards and evaluates the hand. Cards keep their input order.
func NewHand(cards []Card) (Hand, error) {
	if len(cards) != HandSize {
		return Hand{}, &InvalidHandError{Count: len(cards)}
	}
	for _, c := range cards {
		if !c.IsValid() {
			return Hand{}, &InvalidCardError{Token: c.String()}
		}
	}
	if dup, ok := findDuplicate(cards); ok {
		return Hand{}, &InvalidHandError{Count: len(cards), Duplicate: dup}
	}

	var h Hand
	copy(h.cards[:], cards)

	category, ranks := evaluate(h.cards)
	h.category = category
	h.rank[0] = category.Ordinal()
	copy(h.rank[1:], ranks[:])
	return h, nil
}

// ParseHand builds a hand from whitespace separated card tokens such as
// "5H 4S 3S 2D AS". Card errors are returned before count or duplicate
// errors.
func ParseHand(s string) (Hand, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Hand{}, err
	}
	return NewHand(cards)
}

// MustParseHand parses a hand and panics on error (for tests)
func MustParseHand(s string) Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

// findDuplicate returns the first card seen twice when scanning in order.
func findDuplicate(cards []Card) (Card, bool) {
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return c, true
		}
		seen[c] = struct{}{}
	}
	return Card{}, false
}

// Cards returns a copy of the hand's cards in input order.
func (h Hand) Cards() []Card {
	return slices.Clone(h.cards[:])
}

func (h Hand) Category() Category {
	return h.category
}

func (h Hand) Rank() RankKey {
	return h.rank
}

// Compare orders h against other by rank key.
func (h Hand) Compare(other Hand) int {
	return h.rank.Compare(other.rank)
}

// Beats reports whether h is strictly stronger than other.
func (h Hand) Beats(other Hand) bool {
	return h.Compare(other) > 0
}

// String renders the cards and category, e.g. "5H 4S 3S 2D AS (Straight)".
func (h Hand) String() string {
	var b strings.Builder
	for i, c := range h.cards {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteString(" (")
	b.WriteString(h.category.String())
	b.WriteByte(')')
	return b.String()
}

// Compare orders two hands; it has the signature slices.SortFunc expects.
func Compare(a, b Hand) int {
	return a.Compare(b)
}

// SortHands sorts hands weakest first. Equal hands keep their relative order.
func SortHands(hands []Hand) {
	slices.SortStableFunc(hands, Compare)
}

// Winners returns the indices of every hand tied for the strongest rank.
func Winners(hands []Hand) []int {
	var winners []int
	for i, h := range hands {
		if len(winners) == 0 {
			winners = append(winners, i)
			continue
		}
		switch h.Compare(hands[winners[0]]) {
		case 1:
			winners = append(winners[:0], i)
		case 0:
			winners = append(winners, i)
		}
	}
	return winners
}
