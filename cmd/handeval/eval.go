package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/handeval/internal/evaluator"
	"github.com/lox/handeval/poker"
)

// EvalCmd evaluates hands concurrently and prints one line per input.
type EvalCmd struct {
	Hands   []string `arg:"" name:"hand" help:"Hands of five cards, e.g. \"TS JS QS KS AS\""`
	Workers int      `help:"Concurrent evaluations (0 = GOMAXPROCS)"`
}

func (c *EvalCmd) Run(out io.Writer, logger *log.Logger) error {
	eval := evaluator.New(evaluator.WithWorkers(c.Workers), evaluator.WithLogger(logger))

	results, err := eval.Evaluate(context.Background(), c.Hands)
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.OK() {
			fmt.Fprintf(out, "%s: %v\n", r.Input, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s rank=%v\n", r.Hand, r.Hand.Rank())
	}

	if failed := evaluator.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d hands were invalid", len(failed), len(results))
	}
	return nil
}

// CompareCmd reports which of two hands wins.
type CompareCmd struct {
	First  string `arg:"" help:"First hand"`
	Second string `arg:"" help:"Second hand"`
}

func (c *CompareCmd) Run(out io.Writer) error {
	first, err := poker.ParseHand(c.First)
	if err != nil {
		return fmt.Errorf("first hand: %w", err)
	}
	second, err := poker.ParseHand(c.Second)
	if err != nil {
		return fmt.Errorf("second hand: %w", err)
	}

	switch first.Compare(second) {
	case 1:
		fmt.Fprintf(out, "First hand wins: %s beats %s\n", first, second)
	case -1:
		fmt.Fprintf(out, "Second hand wins: %s beats %s\n", second, first)
	default:
		fmt.Fprintf(out, "Tie: %s ties %s\n", first, second)
	}
	return nil
}

// SortCmd prints hands in rank order.
type SortCmd struct {
	Hands []string `arg:"" name:"hand" help:"Hands to sort"`
	Desc  bool     `help:"Strongest first"`
}

func (c *SortCmd) Run(out io.Writer) error {
	hands := make([]poker.Hand, 0, len(c.Hands))
	for i, input := range c.Hands {
		h, err := poker.ParseHand(input)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		hands = append(hands, h)
	}

	if c.Desc {
		slices.SortStableFunc(hands, func(a, b poker.Hand) int { return b.Compare(a) })
	} else {
		poker.SortHands(hands)
	}

	for _, h := range hands {
		fmt.Fprintln(out, h)
	}
	return nil
}
