package poker

import (
	rand "math/rand/v2"
)

// Deck represents a standard 52-card deck
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand // nil falls back to the global source
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for _, suit := range []byte(suits) {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = newCard(rank, Suit(suit))
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle restores every card and shuffles using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards, or nil if fewer than n remain
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card. ok is false once the deck is empty.
func (d *Deck) DealOne() (card Card, ok bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card = d.cards[d.next]
	d.next++
	return card, true
}

// DealHand deals five cards and evaluates them.
func (d *Deck) DealHand() (Hand, error) {
	cards := d.Deal(HandSize)
	if cards == nil {
		return Hand{}, &InvalidHandError{Count: d.CardsRemaining()}
	}
	return NewHand(cards)
}

// Reset resets and reshuffles the deck
func (d *Deck) Reset() {
	d.Shuffle()
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
