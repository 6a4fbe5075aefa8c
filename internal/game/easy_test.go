package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rangepoker/internal/deck"
)

func TestEasyTakeAndPass(t *testing.T) {
	t.Parallel()

	r := newTestRound(t, Easy, "As Kd 2c")

	current, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "A♠", current.String())

	reveal, err := r.Take()
	require.NoError(t, err)
	assert.Equal(t, SeatPlayer, reveal.Seat)
	assert.Equal(t, current, reveal.Card)

	reveal, err = r.Pass()
	require.NoError(t, err)
	assert.Equal(t, SeatDealer, reveal.Seat)
	assert.Equal(t, "K♦", reveal.Card.String())

	current, ok = r.Current()
	require.True(t, ok)
	assert.Equal(t, "2♣", current.String())

	assert.Equal(t, deck.MustParseCards("As"), r.Player())
	assert.Equal(t, deck.MustParseCards("Kd"), r.Dealer())
	assert.Equal(t, PhaseDrafting, r.Phase())
	assert.Equal(t, 4, r.Needed())
	requireConsistent(t, r)
}

func TestEasyRejectsHardMoves(t *testing.T) {
	t.Parallel()

	r := newTestRound(t, Easy, "")
	_, err := r.Deal(deck.FullSet())
	assert.True(t, errors.Is(err, ErrWrongMode))
}

func TestEasyPassMucksOnceDealerIsFull(t *testing.T) {
	t.Parallel()

	r := newTestRound(t, Easy, "")
	for i := 0; i < DealerHandSize; i++ {
		reveal, err := r.Pass()
		require.NoError(t, err)
		assert.Equal(t, SeatDealer, reveal.Seat)
	}

	reveal, err := r.Pass()
	require.NoError(t, err)
	assert.Equal(t, SeatMuck, reveal.Seat)
	assert.Len(t, r.Dealer(), DealerHandSize)
	assert.Equal(t, []deck.Card{reveal.Card}, r.Muck())
	requireConsistent(t, r)
}

func TestEasyMustTakeWhenDeckRunsShort(t *testing.T) {
	t.Parallel()

	r := newTestRound(t, Easy, "")
	passes := deck.Size - PlayerHandSize
	for i := 0; i < passes; i++ {
		require.False(t, r.MustTake())
		_, err := r.Pass()
		require.NoError(t, err)
	}

	assert.True(t, r.MustTake())
	_, err := r.Pass()
	assert.True(t, errors.Is(err, ErrMustTake))
	assert.Len(t, r.Muck(), passes-DealerHandSize)

	for i := 0; i < PlayerHandSize; i++ {
		_, err := r.Take()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, r.RemainingCount())

	result, err := r.Showdown()
	require.NoError(t, err)
	assert.Empty(t, result.DealerFill)
	requireConsistent(t, r)
}
