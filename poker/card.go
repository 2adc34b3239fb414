package poker

import (
	"strings"
)

// Suit is one of the four card suits, stored as its uppercase letter.
type Suit byte

const (
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
)

// Card ranks, lowest first. A card's rank is its index in values.
const (
	Two = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const (
	values = "23456789TJQKA"
	suits  = "CDHS"
)

// String returns the suit letter.
func (s Suit) String() string {
	return string(s)
}

// Card is a single playing card. The zero Card is not a valid card; use
// ParseCard or a Deck to obtain one.
type Card struct {
	rank uint8
	suit Suit
}

// ParseCard parses a two character token such as "AS" or "td".
func ParseCard(token string) (Card, error) {
	if len(token) != 2 {
		return Card{}, &InvalidCardError{Token: token}
	}

	upper := strings.ToUpper(token)
	rank := strings.IndexByte(values, upper[0])
	if rank < 0 {
		return Card{}, &InvalidCardError{Token: token}
	}
	if strings.IndexByte(suits, upper[1]) < 0 {
		return Card{}, &InvalidCardError{Token: token}
	}

	return Card{rank: uint8(rank), suit: Suit(upper[1])}, nil
}

// MustParseCard parses a card and panics on error (for tests)
func MustParseCard(token string) Card {
	c, err := ParseCard(token)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses whitespace separated card tokens, stopping at the first
// invalid one.
func ParseCards(s string) ([]Card, error) {
	tokens := strings.Fields(s)
	cards := make([]Card, 0, len(tokens))
	for _, token := range tokens {
		c, err := ParseCard(token)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func newCard(rank int, suit Suit) Card {
	return Card{rank: uint8(rank), suit: suit}
}

// Value returns the value character: one of 23456789TJQKA.
func (c Card) Value() byte {
	return values[c.rank]
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return c.suit
}

// Rank returns 0 for a two through 12 for an ace.
func (c Card) Rank() int {
	return int(c.rank)
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.rank == Ace
}

// IsValid reports whether c was built from a recognised value and suit.
func (c Card) IsValid() bool {
	return c.rank <= Ace && strings.IndexByte(suits, byte(c.suit)) >= 0
}

// String returns the canonical uppercase token, e.g. "TD".
func (c Card) String() string {
	if !c.IsValid() {
		return "??"
	}
	return string([]byte{values[c.rank], byte(c.suit)})
}
