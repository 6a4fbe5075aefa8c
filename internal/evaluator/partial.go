package evaluator

import (
	"fmt"

	"github.com/lox/rangepoker/internal/deck"
)

// EvaluatePartialHand returns a short label describing the made hand in cards,
// for feedback while a hand is being drafted. It returns false for an empty
// hand. Below five cards only rank multiplicities are considered, so draws
// are not reported.
func EvaluatePartialHand(cards []deck.Card) (string, bool) {
	if len(cards) == 0 {
		return "", false
	}
	if len(cards) >= HandSize {
		best, err := FindBestHand(cards)
		if err != nil {
			return "", false
		}
		return best.Evaluation.Name, true
	}

	values := make([]int, len(cards))
	for i, card := range cards {
		values[i] = card.Value()
	}
	groups := groupRanks(values)

	switch {
	case groups[0].count == 4:
		return fmt.Sprintf("Four %ss", rankName(groups[0].value)), true
	case groups[0].count == 3:
		return fmt.Sprintf("Three %ss", rankName(groups[0].value)), true
	case len(groups) >= 2 && groups[0].count == 2 && groups[1].count == 2:
		return fmt.Sprintf("%ss and %ss", rankName(groups[0].value), rankName(groups[1].value)), true
	case groups[0].count == 2:
		return fmt.Sprintf("Pair of %ss", rankName(groups[0].value)), true
	default:
		return fmt.Sprintf("%s High", rankName(groups[0].value)), true
	}
}

func rankName(value int) string {
	return deck.Rank(value).String()
}
