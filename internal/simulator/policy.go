package simulator

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
)

// Policy makes drafting moves for one mode. Policies are fixed rules and
// hold no state between moves.
type Policy interface {
	Name() string
	Mode() game.Mode
	// Move makes a single drafting move on r.
	Move(r *game.Round) error
}

var policies = map[string]Policy{
	"take":   takePolicy{},
	"pairs":  pairsPolicy{},
	"wide":   widePolicy{},
	"suited": suitedPolicy{},
	"ranks":  ranksPolicy{},
}

// NewPolicy looks up a policy by name.
func NewPolicy(name string) (Policy, error) {
	p, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q", name)
	}
	return p, nil
}

// PolicyNames returns the names of the policies for mode, sorted.
func PolicyNames(mode game.Mode) []string {
	var names []string
	for name, p := range policies {
		if p.Mode() == mode {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DefaultPolicy returns the policy used when none is named.
func DefaultPolicy(mode game.Mode) string {
	if mode == game.Hard {
		return "wide"
	}
	return "take"
}

// takePolicy takes every card.
type takePolicy struct{}

func (takePolicy) Name() string    { return "take" }
func (takePolicy) Mode() game.Mode { return game.Easy }

func (takePolicy) Move(r *game.Round) error {
	_, err := r.Take()
	return err
}

// pairsPolicy takes the first card and then only cards that pair the hand.
type pairsPolicy struct{}

func (pairsPolicy) Name() string    { return "pairs" }
func (pairsPolicy) Mode() game.Mode { return game.Easy }

func (pairsPolicy) Move(r *game.Round) error {
	card, ok := r.Current()
	if !ok {
		return fmt.Errorf("no card to draft in %s phase", r.Phase())
	}

	player := r.Player()
	take := len(player) == 0 || r.MustTake() || slices.ContainsFunc(player, func(c deck.Card) bool {
		return c.Rank == card.Rank
	})
	if take {
		_, err := r.Take()
		return err
	}
	_, err := r.Pass()
	return err
}

// widePolicy selects every unconsumed card, so each deal takes the next card.
type widePolicy struct{}

func (widePolicy) Name() string    { return "wide" }
func (widePolicy) Mode() game.Mode { return game.Hard }

func (widePolicy) Move(r *game.Round) error {
	_, err := r.Deal(deck.FullSet())
	return err
}

// suitedPolicy chases a flush in the suit of the first card.
type suitedPolicy struct{}

func (suitedPolicy) Name() string    { return "suited" }
func (suitedPolicy) Mode() game.Mode { return game.Hard }

func (suitedPolicy) Move(r *game.Round) error {
	player := r.Player()
	if len(player) == 0 {
		return dealOrWide(r, 0)
	}
	return dealOrWide(r, deck.SuitSet(player[0].Suit))
}

// ranksPolicy chases sets of the ranks already held, starting from broadway
// cards.
type ranksPolicy struct{}

func (ranksPolicy) Name() string    { return "ranks" }
func (ranksPolicy) Mode() game.Mode { return game.Hard }

var broadway = []deck.Rank{deck.Ten, deck.Jack, deck.Queen, deck.King, deck.Ace}

func (ranksPolicy) Move(r *game.Round) error {
	var sel deck.CardSet
	player := r.Player()
	if len(player) == 0 {
		for _, rank := range broadway {
			sel = sel.Union(deck.RankSet(rank))
		}
	}
	for _, card := range player {
		sel = sel.Union(deck.RankSet(card.Rank))
	}
	return dealOrWide(r, sel)
}

// dealOrWide deals sel, widening to every card when nothing in sel is left.
func dealOrWide(r *game.Round, sel deck.CardSet) error {
	if sel.Minus(r.Used()).IsEmpty() {
		sel = deck.FullSet()
	}
	_, err := r.Deal(sel)
	return err
}
