package poker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCard = errors.New("invalid card")
	ErrInvalidHand = errors.New("invalid hand")
)

// InvalidCardError is returned when a token is not a value character
// followed by a suit character.
type InvalidCardError struct {
	Token string
}

func (e *InvalidCardError) Error() string {
	return fmt.Sprintf("invalid card: '%s'", e.Token)
}

func (e *InvalidCardError) Is(target error) bool { return target == ErrInvalidCard }

// InvalidHandError is returned for a wrong card count or a repeated card.
// Duplicate is the zero Card when the count was wrong.
type InvalidHandError struct {
	Count     int
	Duplicate Card
}

func (e *InvalidHandError) Error() string {
	if e.Duplicate.IsValid() {
		return fmt.Sprintf("poker hands can't have two of the same card: %s", e.Duplicate)
	}
	return fmt.Sprintf("poker hands must have five cards, got %d", e.Count)
}

func (e *InvalidHandError) Is(target error) bool { return target == ErrInvalidHand }
