package poker

import (
	"cmp"
	"fmt"
	"slices"
)

var (
	// wheelRanks is A-5-4-3-2 sorted high to low.
	wheelRanks = [HandSize]int{Ace, Five, Four, Three, Two}
	// wheelKey ranks the wheel below a six high straight: the ace plays as -1.
	wheelKey = [HandSize]int{Five, Four, Three, Two, -1}
)

// evaluate returns the category of a validated hand and its tie-break ranks.
func evaluate(cards [HandSize]Card) (Category, [HandSize]int) {
	sorted := cards
	slices.SortStableFunc(sorted[:], func(a, b Card) int {
		return cmp.Compare(b.rank, a.rank)
	})

	groups := groupByRank(sorted[:])
	ranks := flattenRanks(groups)

	switch len(groups) {
	case 5:
		flush := sameSuit(sorted[:])
		if ranks == wheelRanks {
			if flush {
				return StraightFlush, wheelKey
			}
			return Straight, wheelKey
		}
		straight := isSequential(ranks)
		switch {
		case straight && flush && sorted[0].IsAce():
			return RoyalFlush, ranks
		case straight && flush:
			return StraightFlush, ranks
		case straight:
			return Straight, ranks
		case flush:
			return Flush, ranks
		default:
			return HighCard, ranks
		}
	case 4:
		return OnePair, ranks
	case 3:
		if len(groups[0]) == 3 {
			return ThreeOfAKind, ranks
		}
		return TwoPair, ranks
	case 2:
		if len(groups[0]) == 4 {
			return FourOfAKind, ranks
		}
		return FullHouse, ranks
	}

	panic(fmt.Sprintf("poker: %d rank groups in a validated hand", len(groups)))
}

// groupByRank splits cards sorted by descending rank into runs of equal
// rank, then orders the runs largest first. The stable sort keeps higher
// ranks ahead among runs of the same size.
func groupByRank(sorted []Card) [][]Card {
	var groups [][]Card
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].rank != sorted[start].rank {
			groups = append(groups, sorted[start:i])
			start = i
		}
	}
	slices.SortStableFunc(groups, func(a, b []Card) int {
		return cmp.Compare(len(b), len(a))
	})
	return groups
}

func flattenRanks(groups [][]Card) [HandSize]int {
	var ranks [HandSize]int
	i := 0
	for _, g := range groups {
		for _, c := range g {
			ranks[i] = c.Rank()
			i++
		}
	}
	return ranks
}

// isSequential reports whether descending ranks step down by exactly one.
func isSequential(ranks [HandSize]int) bool {
	for i := 1; i < len(ranks); i++ {
		if ranks[i-1]-ranks[i] != 1 {
			return false
		}
	}
	return true
}

func sameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.suit != cards[0].suit {
			return false
		}
	}
	return true
}
