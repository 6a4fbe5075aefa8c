package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
)

// Session is the game state of one connection. Commands are applied one at
// a time by the connection's read loop.
type Session struct {
	ID      string
	round   *game.Round
	newDeck func() []deck.Card
	logger  *log.Logger
}

// NewSession creates a session with a fresh ID
func NewSession(newDeck func() []deck.Card, logger *log.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:      id,
		newDeck: newDeck,
		logger:  logger.With("session", id),
	}
}

// commandError is a rejected command and the error code reported for it.
type commandError struct {
	code string
	err  error
}

func (e *commandError) Error() string {
	return e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

func rejected(code string, err error) error {
	return &commandError{code: code, err: err}
}

// errorData converts an error returned by Handle into the payload sent to
// the client.
func errorData(err error) ErrorData {
	var ce *commandError
	if errors.As(err, &ce) {
		return ErrorData{Code: ce.code, Message: ce.Error()}
	}
	return ErrorData{Code: ErrorCodeRuleViolation, Message: err.Error()}
}

// State returns a snapshot of the session
func (s *Session) State() StateData {
	state := StateData{SessionID: s.ID}
	if s.round != nil {
		state.Round = newRoundState(s.round)
	}
	return state
}

// Handle applies a client message and returns the resulting state.
func (s *Session) Handle(msg *Message) (StateData, error) {
	switch msg.Type {
	case MessageTypeNewRound:
		var data NewRoundData
		if err := decode(msg, &data); err != nil {
			return StateData{}, err
		}
		return s.newRound(data)

	case MessageTypeTake:
		return s.move(func(r *game.Round) ([]game.Reveal, bool, error) {
			reveal, err := r.Take()
			return []game.Reveal{reveal}, false, err
		})

	case MessageTypePass:
		return s.move(func(r *game.Round) ([]game.Reveal, bool, error) {
			reveal, err := r.Pass()
			return []game.Reveal{reveal}, false, err
		})

	case MessageTypeDeal:
		var data DealData
		if err := decode(msg, &data); err != nil {
			return StateData{}, err
		}
		selection, err := parseSelection(data.Cards)
		if err != nil {
			return StateData{}, err
		}
		return s.move(func(r *game.Round) ([]game.Reveal, bool, error) {
			res, err := r.Deal(selection)
			return res.Revealed, res.Forced, err
		})

	case MessageTypeShowdown:
		return s.move(func(r *game.Round) ([]game.Reveal, bool, error) {
			result, err := r.Showdown()
			reveals := make([]game.Reveal, len(result.DealerFill))
			for i, card := range result.DealerFill {
				reveals[i] = game.Reveal{Card: card, Seat: game.SeatDealer}
			}
			return reveals, false, err
		})

	default:
		return StateData{}, rejected(ErrorCodeInvalidMessage, fmt.Errorf("unknown message type: %s", msg.Type))
	}
}

func decode(msg *Message, v any) error {
	if len(msg.Data) == 0 {
		return rejected(ErrorCodeInvalidMessage, fmt.Errorf("%s: missing data", msg.Type))
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return rejected(ErrorCodeInvalidMessage, fmt.Errorf("failed to parse %s data: %w", msg.Type, err))
	}
	return nil
}

func parseSelection(cards []string) (deck.CardSet, error) {
	var selection deck.CardSet
	for _, code := range cards {
		card, err := deck.ParseCard(code)
		if err != nil {
			return 0, rejected(ErrorCodeInvalidCard, err)
		}
		selection = selection.With(card)
	}
	return selection, nil
}

func (s *Session) newRound(data NewRoundData) (StateData, error) {
	mode, err := game.ParseMode(data.Mode)
	if err != nil {
		return StateData{}, rejected(ErrorCodeInvalidMessage, err)
	}
	round, err := game.NewRound(mode, s.newDeck(), s.logger)
	if err != nil {
		return StateData{}, err
	}
	s.round = round
	s.logger.Info("New round", "mode", mode)
	return s.State(), nil
}

func (s *Session) move(fn func(*game.Round) ([]game.Reveal, bool, error)) (StateData, error) {
	if s.round == nil {
		return StateData{}, rejected(ErrorCodeRuleViolation, errors.New("no round in progress"))
	}
	reveals, forced, err := fn(s.round)
	if err != nil {
		return StateData{}, rejected(ErrorCodeRuleViolation, err)
	}

	state := s.State()
	state.Revealed = newRevealData(reveals)
	state.Forced = forced
	if result, ok := s.round.Result(); ok {
		s.logger.Info("Round complete", "winner", result.Winner,
			"player", result.Player.Evaluation.Name, "dealer", result.Dealer.Evaluation.Name)
	}
	return state, nil
}
