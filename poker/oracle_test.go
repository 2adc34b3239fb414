package poker

import (
	"cmp"
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"

	"github.com/lox/handeval/internal/randutil"
)

// toOracle converts a hand to the independent evaluator's card type, which
// numbers suits clubs=0 through spades=3 and ranks ace=1 through king=13.
func toOracle(t *testing.T, h Hand) [5]ph.Card {
	t.Helper()
	suitMap := map[Suit]ph.Suit{
		Clubs:    ph.Suit(0),
		Diamonds: ph.Suit(1),
		Hearts:   ph.Suit(2),
		Spades:   ph.Suit(3),
	}

	var out [5]ph.Card
	for i, c := range h.Cards() {
		rank := c.Rank() + 2
		if c.IsAce() {
			rank = 1
		}
		oc, err := ph.MakeCard(suitMap[c.Suit()], ph.Rank(rank))
		require.NoError(t, err)
		out[i] = oc
	}
	return out
}

func TestOrderingMatchesIndependentEvaluator(t *testing.T) {
	t.Parallel()
	deck := NewDeck(randutil.New(2024))

	deal := func() Hand {
		if deck.CardsRemaining() < HandSize {
			deck.Reset()
		}
		h, err := deck.DealHand()
		require.NoError(t, err)
		return h
	}

	for i := 0; i < 2000; i++ {
		a, b := deal(), deal()
		oa, ob := toOracle(t, a), toOracle(t, b)
		want := cmp.Compare(ph.Eval5(&oa), ph.Eval5(&ob))
		require.Equal(t, want, a.Compare(b), "%s vs %s", a, b)
	}
}

func TestCanonicalHandsMatchIndependentEvaluator(t *testing.T) {
	t.Parallel()
	for i := 1; i < len(canonicalHands); i++ {
		lo := MustParseHand(canonicalHands[i-1].cards)
		hi := MustParseHand(canonicalHands[i].cards)
		olo, ohi := toOracle(t, lo), toOracle(t, hi)
		require.Greater(t, ph.Eval5(&ohi), ph.Eval5(&olo), "%s vs %s", hi, lo)
	}
}
