package game

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/evaluator"
)

var (
	// ErrWrongMode is returned when an operation belongs to the other mode.
	ErrWrongMode = errors.New("wrong mode")
	// ErrWrongPhase is returned when an operation is not allowed in the current phase.
	ErrWrongPhase = errors.New("wrong phase")
	// ErrRoundOver is returned for any move after the showdown.
	ErrRoundOver = errors.New("round over")
	// ErrMustTake is returned by Pass when the player needs every remaining card.
	ErrMustTake = errors.New("must take")
	// ErrEmptySelection is returned by Deal when no unconsumed card is selected.
	ErrEmptySelection = errors.New("empty selection")
	// ErrInvalidDeck is returned by NewRound for anything but 52 distinct cards.
	ErrInvalidDeck = errors.New("invalid deck")
)

// Result is the outcome of a showdown.
type Result struct {
	Player evaluator.BestHand
	Dealer evaluator.BestHand
	Winner Winner
	// DealerFill holds the cards dealt to the dealer at showdown.
	DealerFill []deck.Card
}

// Round is a single game from a fresh deck to a resolved showdown.
type Round struct {
	mode   Mode
	cards  []deck.Card
	cursor int

	player []deck.Card
	dealer []deck.Card
	muck   []deck.Card
	used   deck.CardSet

	result *Result
	logger *log.Logger
}

// NewRound starts a round of mode over cards, which must hold each of the 52
// cards exactly once. The order of cards is the order they are revealed in.
// A nil logger discards round logging.
func NewRound(mode Mode, cards []deck.Card, logger *log.Logger) (*Round, error) {
	if mode != Easy && mode != Hard {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrWrongMode, mode)
	}
	if err := validateDeck(cards); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Round{
		mode:   mode,
		cards:  slices.Clone(cards),
		player: make([]deck.Card, 0, PlayerHandSize),
		dealer: make([]deck.Card, 0, DealerHandSize),
		logger: logger.With("mode", mode),
	}
	r.logger.Debug("Starting round")
	return r, nil
}

func validateDeck(cards []deck.Card) error {
	if len(cards) != deck.Size {
		return fmt.Errorf("%w: need %d cards, got %d", ErrInvalidDeck, deck.Size, len(cards))
	}
	var seen deck.CardSet
	for _, card := range cards {
		if !card.Valid() {
			return fmt.Errorf("%w: invalid card %v", ErrInvalidDeck, card)
		}
		if seen.Contains(card) {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidDeck, card)
		}
		seen = seen.With(card)
	}
	return nil
}

// Mode returns the drafting rule of the round.
func (r *Round) Mode() Mode {
	return r.mode
}

// Phase returns the current stage of the round.
func (r *Round) Phase() Phase {
	switch {
	case r.result != nil:
		return PhaseComplete
	case len(r.player) == PlayerHandSize:
		return PhaseReady
	default:
		return PhaseDrafting
	}
}

// Player returns the player's cards in the order they were drafted.
func (r *Round) Player() []deck.Card {
	return slices.Clone(r.player)
}

// Dealer returns the dealer's cards in the order they were received.
func (r *Round) Dealer() []deck.Card {
	return slices.Clone(r.dealer)
}

// Muck returns the cards discarded because the dealer was full.
func (r *Round) Muck() []deck.Card {
	return slices.Clone(r.muck)
}

// Used returns every card that has left the deck.
func (r *Round) Used() deck.CardSet {
	return r.used
}

// Remaining returns the unrevealed cards in deck order.
func (r *Round) Remaining() []deck.Card {
	return slices.Clone(r.cards[r.cursor:])
}

// RemainingCount returns the number of unrevealed cards.
func (r *Round) RemainingCount() int {
	return len(r.cards) - r.cursor
}

// Needed returns how many cards the player still has to draft.
func (r *Round) Needed() int {
	return PlayerHandSize - len(r.player)
}

// PlayerStrength describes the player's current hand.
func (r *Round) PlayerStrength() (string, bool) {
	return evaluator.EvaluatePartialHand(r.player)
}

// DealerStrength describes the dealer's current hand.
func (r *Round) DealerStrength() (string, bool) {
	return evaluator.EvaluatePartialHand(r.dealer)
}

// Result returns the showdown outcome once the round is complete.
func (r *Round) Result() (Result, bool) {
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

// checkDrafting verifies that a drafting move of mode may be made now.
func (r *Round) checkDrafting(mode Mode) error {
	if r.mode != mode {
		return fmt.Errorf("%w: %s round", ErrWrongMode, r.mode)
	}
	switch r.Phase() {
	case PhaseComplete:
		return ErrRoundOver
	case PhaseReady:
		return fmt.Errorf("%w: player hand is complete", ErrWrongPhase)
	}
	return nil
}

// next removes the card at the cursor from the deck.
func (r *Round) next() deck.Card {
	card := r.cards[r.cursor]
	r.cursor++
	r.used = r.used.With(card)
	return card
}

// toPlayer gives card to the player.
func (r *Round) toPlayer(card deck.Card) Reveal {
	r.player = append(r.player, card)
	return Reveal{Card: card, Seat: SeatPlayer}
}

// toDealer gives card to the dealer, or mucks it when the dealer is full.
func (r *Round) toDealer(card deck.Card) Reveal {
	if len(r.dealer) >= DealerHandSize {
		r.muck = append(r.muck, card)
		return Reveal{Card: card, Seat: SeatMuck}
	}
	r.dealer = append(r.dealer, card)
	return Reveal{Card: card, Seat: SeatDealer}
}

// Showdown completes the dealer's hand from the deck and compares the best
// five-card hands. It is only allowed once the player holds five cards.
func (r *Round) Showdown() (Result, error) {
	switch r.Phase() {
	case PhaseComplete:
		return Result{}, ErrRoundOver
	case PhaseDrafting:
		return Result{}, fmt.Errorf("%w: player needs %d more cards", ErrWrongPhase, r.Needed())
	}

	var fill []deck.Card
	for len(r.dealer) < DealerHandSize && r.cursor < len(r.cards) {
		reveal := r.toDealer(r.next())
		fill = append(fill, reveal.Card)
	}

	player, err := evaluator.FindBestHand(r.player)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating player hand: %w", err)
	}
	dealer, err := evaluator.FindBestHand(r.dealer)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating dealer hand: %w", err)
	}

	result := Result{
		Player:     player,
		Dealer:     dealer,
		Winner:     WinnerTie,
		DealerFill: fill,
	}
	switch evaluator.CompareHands(player.Evaluation, dealer.Evaluation) {
	case 1:
		result.Winner = WinnerPlayer
	case -1:
		result.Winner = WinnerDealer
	}
	r.result = &result

	r.logger.Debug("Showdown",
		"player", player.Evaluation.Name,
		"dealer", dealer.Evaluation.Name,
		"winner", result.Winner,
		"fill", len(fill))
	return result, nil
}
