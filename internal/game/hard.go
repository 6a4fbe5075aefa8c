package game

import (
	"github.com/lox/rangepoker/internal/deck"
)

// DealResult describes one Hard-mode deal.
type DealResult struct {
	// Revealed lists every card revealed by the deal in order. The last entry
	// is always the card given to the player.
	Revealed []Reveal
	Matched  deck.Card
	// Forced is set when the player received the card because the deck could
	// not otherwise complete their hand.
	Forced bool
	Mucked []deck.Card
}

// Deal reveals cards until one is in selection. The matching card goes to the
// player and the cards before it go to the dealer. Cards already consumed are
// ignored, and a selection with no unconsumed cards fails with
// ErrEmptySelection.
//
// When the remaining deck holds exactly as many cards as the player still
// needs, the next card is given to the player whether it matches or not.
func (r *Round) Deal(selection deck.CardSet) (DealResult, error) {
	if err := r.checkDrafting(Hard); err != nil {
		return DealResult{}, err
	}
	effective := selection.Minus(r.used)
	if effective.IsEmpty() {
		return DealResult{}, ErrEmptySelection
	}

	var result DealResult
	for r.cursor < len(r.cards) {
		forced := r.RemainingCount() <= r.Needed()
		card := r.next()

		if effective.Contains(card) || forced {
			result.Revealed = append(result.Revealed, r.toPlayer(card))
			result.Matched = card
			result.Forced = !effective.Contains(card)
			break
		}

		reveal := r.toDealer(card)
		if reveal.Seat == SeatMuck {
			result.Mucked = append(result.Mucked, card)
		}
		result.Revealed = append(result.Revealed, reveal)
	}

	r.logger.Debug("Dealt",
		"selected", effective.Len(),
		"revealed", len(result.Revealed),
		"matched", result.Matched,
		"forced", result.Forced,
		"player", len(r.player))
	return result, nil
}
