package server

import (
	"encoding/json"
	"time"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/evaluator"
	"github.com/lox/rangepoker/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{
		Type:      messageType,
		Timestamp: time.Now(),
	}
	if data != nil {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = dataBytes
	}
	return msg, nil
}

// Client → Server Messages

type NewRoundData struct {
	Mode string `json:"mode"`
}

type DealData struct {
	// Cards lists the selected range as card codes such as "As" or "10h".
	Cards []string `json:"cards"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StateData struct {
	SessionID string      `json:"sessionId"`
	Round     *RoundState `json:"round,omitempty"`
	// Revealed lists the cards the last command moved out of the deck.
	Revealed []RevealData `json:"revealed,omitempty"`
	Forced   bool         `json:"forced,omitempty"`
}

type RoundState struct {
	Mode           string      `json:"mode"`
	Phase          string      `json:"phase"`
	Player         []string    `json:"player"`
	Dealer         []string    `json:"dealer"`
	Muck           []string    `json:"muck,omitempty"`
	Remaining      int         `json:"remaining"`
	Needed         int         `json:"needed"`
	Current        string      `json:"current,omitempty"`
	MustTake       bool        `json:"mustTake,omitempty"`
	PlayerStrength string      `json:"playerStrength,omitempty"`
	DealerStrength string      `json:"dealerStrength,omitempty"`
	Result         *ResultData `json:"result,omitempty"`
}

type RevealData struct {
	Card string `json:"card"`
	Seat string `json:"seat"`
}

type ResultData struct {
	Winner     string   `json:"winner"`
	Player     HandData `json:"player"`
	Dealer     HandData `json:"dealer"`
	DealerFill []string `json:"dealerFill"`
}

type HandData struct {
	Name        string   `json:"name"`
	Category    int      `json:"category"`
	Tiebreakers []int    `json:"tiebreakers"`
	Cards       []string `json:"cards"`
}

func newRoundState(r *game.Round) *RoundState {
	state := &RoundState{
		Mode:      r.Mode().String(),
		Phase:     r.Phase().String(),
		Player:    codes(r.Player()),
		Dealer:    codes(r.Dealer()),
		Muck:      deck.Codes(r.Muck()),
		Remaining: r.RemainingCount(),
		Needed:    r.Needed(),
	}
	if card, ok := r.Current(); ok {
		state.Current = card.Code()
		state.MustTake = r.MustTake()
	}
	state.PlayerStrength, _ = r.PlayerStrength()
	state.DealerStrength, _ = r.DealerStrength()

	if result, ok := r.Result(); ok {
		state.Result = &ResultData{
			Winner:     string(result.Winner),
			Player:     newHandData(result.Player),
			Dealer:     newHandData(result.Dealer),
			DealerFill: codes(result.DealerFill),
		}
	}
	return state
}

func newHandData(hand evaluator.BestHand) HandData {
	return HandData{
		Name:        hand.Evaluation.Name,
		Category:    int(hand.Evaluation.Category),
		Tiebreakers: hand.Evaluation.Tiebreakers,
		Cards:       codes(hand.Cards),
	}
}

func newRevealData(reveals []game.Reveal) []RevealData {
	out := make([]RevealData, len(reveals))
	for i, r := range reveals {
		out[i] = RevealData{Card: r.Card.Code(), Seat: r.Seat.String()}
	}
	return out
}

// codes renders cards as codes, encoding an empty hand as [] rather than null.
func codes(cards []deck.Card) []string {
	if len(cards) == 0 {
		return []string{}
	}
	return deck.Codes(cards)
}
