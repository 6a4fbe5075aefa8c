package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRank is returned when a rank symbol is not one of 2-10, J, Q, K, A.
	ErrInvalidRank = errors.New("invalid rank")
	// ErrInvalidCard is returned when card notation cannot be parsed.
	ErrInvalidCard = errors.New("invalid card")
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck construction order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the lower-case suit name (e.g. "hearts")
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// Letter returns the single ASCII letter used in card codes
func (s Suit) Letter() byte {
	switch s {
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	case Clubs:
		return 'c'
	case Spades:
		return 's'
	default:
		return '?'
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The numeric value is the rank's comparison value:
// 2-10 map to themselves, J=11, Q=12, K=13, A=14.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from lowest to highest.
var Ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the display symbol of the rank ("2".."10", "J", "Q", "K", "A")
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Letter returns the single-character rank used in card codes (T for ten)
func (r Rank) Letter() byte {
	if r == Ten {
		return 'T'
	}
	s := r.String()
	if len(s) != 1 {
		return '?'
	}
	return s[0]
}

// Value returns the numeric comparison value of the rank
func (r Rank) Value() int {
	return int(r)
}

// Valid reports whether r is one of the 13 ranks
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the display form of a card (e.g. "10♥", "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the two-character ASCII code of a card (e.g. "Th", "As")
func (c Card) Code() string {
	return string([]byte{c.Rank.Letter(), c.Suit.Letter()})
}

// Value returns the numeric comparison value of the card's rank
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Valid reports whether the card is one of the 52 standard cards
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit >= Hearts && c.Suit <= Spades
}

// RankValue looks up the numeric value of a rank symbol.
func RankValue(symbol string) (int, error) {
	rank, err := ParseRank(symbol)
	if err != nil {
		return 0, err
	}
	return rank.Value(), nil
}

// ParseRank parses a rank symbol: "2".."10", "T", "J", "Q", "K", "A" (case insensitive).
func ParseRank(symbol string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRank, symbol)
	}
}

// ParseSuit parses a suit letter, name or symbol (h, hearts, ♥, ...).
func ParseSuit(symbol string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(symbol)) {
	case "h", "hearts", "♥":
		return Hearts, nil
	case "d", "diamonds", "♦":
		return Diamonds, nil
	case "c", "clubs", "♣":
		return Clubs, nil
	case "s", "spades", "♠":
		return Spades, nil
	default:
		return 0, fmt.Errorf("%w: unknown suit %q", ErrInvalidCard, symbol)
	}
}

// ParseCard parses a single card such as "As", "Th", "10h" or "Q♦".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 || len(runes) > 3 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	rankPart := string(runes[:len(runes)-1])
	suitPart := string(runes[len(runes)-1])

	rank, err := ParseRank(rankPart)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, s, err)
	}
	suit, err := ParseSuit(suitPart)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses a list of cards. Cards may be separated by spaces or commas
// ("As Ks, Qs") or packed together ("AsKsQsJsTs", "AsKs10h").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	cards := []Card{}
	for _, field := range fields {
		if card, err := ParseCard(field); err == nil {
			cards = append(cards, card)
			continue
		}

		packed, err := parsePacked(field)
		if err != nil {
			return nil, err
		}
		cards = append(cards, packed...)
	}
	return cards, nil
}

func parsePacked(s string) ([]Card, error) {
	runes := []rune(s)
	cards := make([]Card, 0, len(runes)/2)
	for i := 0; i < len(runes); {
		width := 2
		if runes[i] == '1' && i+1 < len(runes) && runes[i+1] == '0' {
			width = 3
		}
		if i+width > len(runes) {
			return nil, fmt.Errorf("%w: %q ends with an incomplete card %q", ErrInvalidCard, s, string(runes[i:]))
		}
		card, err := ParseCard(string(runes[i : i+width]))
		if err != nil {
			return nil, fmt.Errorf("card at position %d: %w", i, err)
		}
		cards = append(cards, card)
		i += width
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// FormatCards renders cards in display form separated by spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Codes returns the ASCII codes of cards.
func Codes(cards []Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code()
	}
	return codes
}
