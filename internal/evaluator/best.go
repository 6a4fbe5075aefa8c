package evaluator

import (
	"fmt"

	"github.com/lox/rangepoker/internal/deck"
)

// BestHand is the strongest five-card subset of a larger set of cards.
type BestHand struct {
	Cards      []deck.Card
	Evaluation Evaluation
}

// FindBestHand evaluates every five-card subset of cards and returns the
// strongest. When several subsets tie, the first one in combination order is
// returned; only the evaluation is meaningful in that case.
func FindBestHand(cards []deck.Card) (BestHand, error) {
	if len(cards) < HandSize {
		return BestHand{}, fmt.Errorf("%w: need at least %d cards, got %d", ErrInvalidInput, HandSize, len(cards))
	}

	if len(cards) == HandSize {
		eval, err := EvaluateHand(cards)
		if err != nil {
			return BestHand{}, err
		}
		return BestHand{Cards: append([]deck.Card(nil), cards...), Evaluation: eval}, nil
	}

	var (
		best    BestHand
		found   bool
		combo   = make([]deck.Card, HandSize)
		indices = [HandSize]int{0, 1, 2, 3, 4}
		n       = len(cards)
	)

	for {
		for i, idx := range indices {
			combo[i] = cards[idx]
		}
		eval, err := EvaluateHand(combo)
		if err != nil {
			return BestHand{}, err
		}
		if !found || CompareHands(eval, best.Evaluation) > 0 {
			best = BestHand{Cards: append([]deck.Card(nil), combo...), Evaluation: eval}
			found = true
		}

		if !nextCombination(&indices, n) {
			break
		}
	}

	return best, nil
}

// RankHands evaluates every five-card subset of cards and returns them
// strongest first. Equal hands keep combination order, so the first entry
// matches FindBestHand.
func RankHands(cards []deck.Card) ([]BestHand, error) {
	if len(cards) < HandSize {
		return nil, fmt.Errorf("%w: need at least %d cards, got %d", ErrInvalidInput, HandSize, len(cards))
	}

	hands := make([]BestHand, 0, Combinations(len(cards)))
	indices := [HandSize]int{0, 1, 2, 3, 4}
	for {
		combo := make([]deck.Card, HandSize)
		for i, idx := range indices {
			combo[i] = cards[idx]
		}
		eval, err := EvaluateHand(combo)
		if err != nil {
			return nil, err
		}
		hands = append(hands, BestHand{Cards: combo, Evaluation: eval})

		if !nextCombination(&indices, len(cards)) {
			break
		}
	}

	SortHands(hands)
	return hands, nil
}

// Combinations returns C(n, 5), the number of subsets FindBestHand evaluates.
func Combinations(n int) int {
	if n < HandSize {
		return 0
	}
	result := 1
	for i := 0; i < HandSize; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// nextCombination advances indices to the next k-combination of n elements
// in lexicographic order. It returns false after the last combination.
func nextCombination(indices *[HandSize]int, n int) bool {
	k := len(indices)
	i := k - 1
	for i >= 0 && indices[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	indices[i]++
	for j := i + 1; j < k; j++ {
		indices[j] = indices[j-1] + 1
	}
	return true
}
