// Package evaluator classifies and compares 5-card poker hands.
//
// Every function is a pure function of its input cards and is safe to call
// concurrently.
package evaluator

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/lox/rangepoker/internal/deck"
)

// ErrInvalidInput is returned when a function receives the wrong number of cards.
var ErrInvalidInput = errors.New("invalid input")

// HandSize is the number of cards in an evaluated hand.
const HandSize = 5

// Category is a poker hand class, ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// Categories lists every category from weakest to strongest.
var Categories = [...]Category{
	HighCard, OnePair, TwoPair, ThreeOfAKind, Straight,
	Flush, FullHouse, FourOfAKind, StraightFlush, RoyalFlush,
}

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Evaluation is the result of evaluating exactly five cards.
type Evaluation struct {
	Category Category
	// Tiebreakers holds rank values, most significant first.
	Tiebreakers []int
	Name        string
}

// String returns the display name of the evaluation
func (e Evaluation) String() string {
	return e.Name
}

// Beats reports whether e is strictly stronger than other.
func (e Evaluation) Beats(other Evaluation) bool {
	return CompareHands(e, other) > 0
}

type rankGroup struct {
	value int
	count int
}

// EvaluateHand classifies exactly five cards.
func EvaluateHand(cards []deck.Card) (Evaluation, error) {
	if len(cards) != HandSize {
		return Evaluation{}, fmt.Errorf("%w: hand must have exactly %d cards, got %d", ErrInvalidInput, HandSize, len(cards))
	}

	values := make([]int, HandSize)
	flush := true
	for i, card := range cards {
		values[i] = card.Value()
		if card.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straight, high := straightHigh(values)
	groups := groupRanks(values)

	switch {
	case flush && straight && values[0] == int(deck.Ace) && values[4] == int(deck.Ten):
		return newEvaluation(RoyalFlush, values...), nil

	case flush && straight:
		return newEvaluation(StraightFlush, high), nil

	case groups[0].count == 4:
		return newEvaluation(FourOfAKind, groups[0].value, groups[1].value), nil

	case groups[0].count == 3 && groups[1].count == 2:
		return newEvaluation(FullHouse, groups[0].value, groups[1].value), nil

	case flush:
		return newEvaluation(Flush, values...), nil

	case straight:
		return newEvaluation(Straight, high), nil

	case groups[0].count == 3:
		return newEvaluation(ThreeOfAKind, groupValues(groups)...), nil

	case groups[0].count == 2 && groups[1].count == 2:
		return newEvaluation(TwoPair, groupValues(groups)...), nil

	case groups[0].count == 2:
		return newEvaluation(OnePair, groupValues(groups)...), nil

	default:
		return newEvaluation(HighCard, values...), nil
	}
}

// CompareHands returns 1 if a beats b, -1 if b beats a and 0 on an exact tie.
func CompareHands(a, b Evaluation) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}

	n := min(len(a.Tiebreakers), len(b.Tiebreakers))
	for i := 0; i < n; i++ {
		if a.Tiebreakers[i] != b.Tiebreakers[i] {
			if a.Tiebreakers[i] > b.Tiebreakers[i] {
				return 1
			}
			return -1
		}
	}

	switch {
	case len(a.Tiebreakers) > len(b.Tiebreakers):
		return 1
	case len(a.Tiebreakers) < len(b.Tiebreakers):
		return -1
	default:
		return 0
	}
}

// SortHands orders hands strongest first. Ties keep their input order.
func SortHands(hands []BestHand) {
	slices.SortStableFunc(hands, func(a, b BestHand) int {
		return CompareHands(b.Evaluation, a.Evaluation)
	})
}

func newEvaluation(category Category, tiebreakers ...int) Evaluation {
	return Evaluation{
		Category:    category,
		Tiebreakers: slices.Clone(tiebreakers),
		Name:        category.String(),
	}
}

// straightHigh reports whether values (sorted descending) form a straight and
// returns its high card. The wheel A-5-4-3-2 is a 5-high straight.
func straightHigh(values []int) (bool, int) {
	distinct := true
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			distinct = false
			break
		}
	}
	if distinct && values[0]-values[len(values)-1] == 4 {
		return true, values[0]
	}
	if slices.Equal(values, []int{14, 5, 4, 3, 2}) {
		return true, 5
	}
	return false, 0
}

// groupRanks counts rank values and orders the groups by count, then value,
// both descending.
func groupRanks(values []int) []rankGroup {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	groups := make([]rankGroup, 0, len(counts))
	for v, c := range counts {
		groups = append(groups, rankGroup{value: v, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	return groups
}

func groupValues(groups []rankGroup) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.value
	}
	return out
}
