package game

import "github.com/lox/rangepoker/internal/deck"

// ToggleCard adds card to selection, or removes it if already selected.
// Consumed cards cannot be selected.
func ToggleCard(selection deck.CardSet, card deck.Card, used deck.CardSet) deck.CardSet {
	if used.Contains(card) || !card.Valid() {
		return selection
	}
	if selection.Contains(card) {
		return selection.Without(card)
	}
	return selection.With(card)
}

// ToggleRank selects every unconsumed card of rank, or clears them when they
// are all selected already.
func ToggleRank(selection deck.CardSet, rank deck.Rank, used deck.CardSet) deck.CardSet {
	return toggleGroup(selection, deck.RankSet(rank), used)
}

// ToggleSuit selects every unconsumed card of suit, or clears them when they
// are all selected already.
func ToggleSuit(selection deck.CardSet, suit deck.Suit, used deck.CardSet) deck.CardSet {
	return toggleGroup(selection, deck.SuitSet(suit), used)
}

func toggleGroup(selection, group, used deck.CardSet) deck.CardSet {
	group = group.Minus(used)
	if group.IsEmpty() {
		return selection
	}
	if selection.ContainsAll(group) {
		return selection.Minus(group)
	}
	return selection.Union(group)
}

// ExpectedRevealsPerMatch returns the average number of cards a Hard deal
// reveals per selected card: unconsumed cards divided by selected unconsumed
// cards. It returns false for an empty selection.
func ExpectedRevealsPerMatch(selection, used deck.CardSet) (float64, bool) {
	selected := selection.Minus(used).Len()
	if selected == 0 {
		return 0, false
	}
	return float64(deck.Size-used.Len()) / float64(selected), true
}
