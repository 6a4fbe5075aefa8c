package game

import (
	"fmt"
	"strings"

	"github.com/lox/rangepoker/internal/deck"
)

// Hand size limits.
const (
	PlayerHandSize = 5
	DealerHandSize = 8
)

// Mode selects the drafting rule of a round.
type Mode string

const (
	Easy Mode = "easy"
	Hard Mode = "hard"
)

// Modes lists the supported modes.
var Modes = []Mode{Easy, Hard}

// ParseMode parses "easy" or "hard", case insensitive.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, nil
	case Hard:
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrWrongMode, s)
	}
}

// String returns the mode name
func (m Mode) String() string {
	return string(m)
}

// Title returns the display name of the mode
func (m Mode) Title() string {
	switch m {
	case Easy:
		return "Easy"
	case Hard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Phase is the stage a round is in.
type Phase int

const (
	// PhaseDrafting means the player holds fewer than five cards.
	PhaseDrafting Phase = iota
	// PhaseReady means the player's hand is complete and the showdown is pending.
	PhaseReady
	// PhaseComplete means the showdown has been resolved.
	PhaseComplete
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseDrafting:
		return "drafting"
	case PhaseReady:
		return "ready"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Winner is the outcome of a showdown.
type Winner string

const (
	WinnerPlayer Winner = "player"
	WinnerDealer Winner = "dealer"
	WinnerTie    Winner = "tie"
)

// Seat is where a consumed card ended up.
type Seat int

const (
	SeatPlayer Seat = iota
	SeatDealer
	SeatMuck
)

// String returns the seat name
func (s Seat) String() string {
	switch s {
	case SeatPlayer:
		return "player"
	case SeatDealer:
		return "dealer"
	case SeatMuck:
		return "muck"
	default:
		return "unknown"
	}
}

// Reveal records one card leaving the deck and the seat it was routed to.
type Reveal struct {
	Card deck.Card
	Seat Seat
}
