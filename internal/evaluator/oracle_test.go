package evaluator

import (
	"testing"

	"github.com/chehsunliu/poker"
	"github.com/stretchr/testify/require"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/randutil"
)

func toOracle(cards []deck.Card) []poker.Card {
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		out[i] = poker.NewCard(c.Code())
	}
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// TestCompareHandsAgreesWithOracle checks ordering against an independent
// lookup-table evaluator where a lower rank is a stronger hand.
func TestCompareHandsAgreesWithOracle(t *testing.T) {
	t.Parallel()

	rng := randutil.New(21)
	for trial := 0; trial < 2000; trial++ {
		cards := deck.New(rng).Cards()
		a, b := cards[:5], cards[5:10]

		evalA, err := EvaluateHand(a)
		require.NoError(t, err)
		evalB, err := EvaluateHand(b)
		require.NoError(t, err)

		rankA := poker.Evaluate(toOracle(a))
		rankB := poker.Evaluate(toOracle(b))

		require.Equal(t, sign(int(rankB)-int(rankA)), CompareHands(evalA, evalB),
			"%s vs %s", deck.FormatCards(a), deck.FormatCards(b))
	}
}

func TestFindBestHandAgreesWithOracle(t *testing.T) {
	t.Parallel()

	rng := randutil.New(34)
	for trial := 0; trial < 300; trial++ {
		cards := deck.New(rng).Cards()
		a, b := cards[:7], cards[7:14]

		bestA, err := FindBestHand(a)
		require.NoError(t, err)
		bestB, err := FindBestHand(b)
		require.NoError(t, err)

		rankA := poker.Evaluate(toOracle(a))
		rankB := poker.Evaluate(toOracle(b))

		require.Equal(t, sign(int(rankB)-int(rankA)), CompareHands(bestA.Evaluation, bestB.Evaluation),
			"%s vs %s", deck.FormatCards(a), deck.FormatCards(b))
	}
}
