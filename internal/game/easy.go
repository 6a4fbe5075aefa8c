package game

import (
	"fmt"

	"github.com/lox/rangepoker/internal/deck"
)

// Current returns the revealed card waiting for a decision in an Easy round.
// It returns false outside Easy drafting.
func (r *Round) Current() (deck.Card, bool) {
	if r.mode != Easy || r.Phase() != PhaseDrafting || r.cursor >= len(r.cards) {
		return deck.Card{}, false
	}
	return r.cards[r.cursor], true
}

// MustTake reports whether Pass would be refused because the player needs
// every remaining card.
func (r *Round) MustTake() bool {
	return r.Phase() == PhaseDrafting && r.RemainingCount() <= r.Needed()
}

// Take moves the current card into the player's hand.
func (r *Round) Take() (Reveal, error) {
	if err := r.checkDrafting(Easy); err != nil {
		return Reveal{}, err
	}
	reveal := r.toPlayer(r.next())
	r.logger.Debug("Took card", "card", reveal.Card, "player", len(r.player))
	return reveal, nil
}

// Pass gives the current card to the dealer, or to the muck once the dealer
// holds eight cards.
func (r *Round) Pass() (Reveal, error) {
	if err := r.checkDrafting(Easy); err != nil {
		return Reveal{}, err
	}
	if r.MustTake() {
		return Reveal{}, fmt.Errorf("%w: %d cards left and %d needed", ErrMustTake, r.RemainingCount(), r.Needed())
	}
	reveal := r.toDealer(r.next())
	r.logger.Debug("Passed card", "card", reveal.Card, "seat", reveal.Seat)
	return reveal, nil
}
