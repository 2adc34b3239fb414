package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/handeval/internal/randutil"
	"github.com/lox/handeval/poker"
)

// DealCmd deals hands from one shuffled deck and evaluates them.
type DealCmd struct {
	Count int    `short:"n" default:"1" help:"Number of hands to deal (1-10)"`
	Seed  *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *DealCmd) Run(out io.Writer, logger *log.Logger) error {
	if c.Count < 1 || c.Count*poker.HandSize > 52 {
		return fmt.Errorf("count must be between 1 and %d, got %d", 52/poker.HandSize, c.Count)
	}

	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Dealing", "count", c.Count, "seed", seed)

	deck := poker.NewDeck(randutil.New(seed))
	hands := make([]poker.Hand, 0, c.Count)
	for i := 0; i < c.Count; i++ {
		h, err := deck.DealHand()
		if err != nil {
			return fmt.Errorf("dealing hand %d: %w", i+1, err)
		}
		hands = append(hands, h)
		fmt.Fprintf(out, "%d. %s\n", i+1, h)
	}

	if c.Count > 1 {
		winners := poker.Winners(hands)
		for _, w := range winners {
			fmt.Fprintf(out, "Winner: %d. %s\n", w+1, hands[w].Category())
		}
	}
	return nil
}
