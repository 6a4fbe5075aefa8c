package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/rangepoker/internal/deck"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stackedDeck returns a deck that reveals front first, followed by the other
// cards in unshuffled order.
func stackedDeck(t *testing.T, front string) []deck.Card {
	t.Helper()
	top := deck.MustParseCards(front)
	set := deck.NewCardSet(top...)
	require.Equal(t, len(top), set.Len(), "front cards must be distinct")

	cards := append([]deck.Card(nil), top...)
	for _, card := range deck.Ordered() {
		if !set.Contains(card) {
			cards = append(cards, card)
		}
	}
	return cards
}

func newTestRound(t *testing.T, mode Mode, front string) *Round {
	t.Helper()
	r, err := NewRound(mode, stackedDeck(t, front), testLogger())
	require.NoError(t, err)
	return r
}

// requireConsistent checks that every card is in exactly one place.
func requireConsistent(t *testing.T, r *Round) {
	t.Helper()

	require.LessOrEqual(t, len(r.Player()), PlayerHandSize)
	require.LessOrEqual(t, len(r.Dealer()), DealerHandSize)

	var seen deck.CardSet
	for _, pile := range [][]deck.Card{r.Player(), r.Dealer(), r.Muck(), r.Remaining()} {
		for _, card := range pile {
			require.False(t, seen.Contains(card), "card %s appears twice", card)
			seen = seen.With(card)
		}
	}
	require.Equal(t, deck.FullSet(), seen)

	consumed := deck.NewCardSet(r.Player()...).Union(deck.NewCardSet(r.Dealer()...)).Union(deck.NewCardSet(r.Muck()...))
	require.Equal(t, consumed, r.Used())
	require.Equal(t, deck.Size-r.Used().Len(), r.RemainingCount())
}
