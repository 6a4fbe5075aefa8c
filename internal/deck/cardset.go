package deck

import "math/bits"

// CardSet is an immutable set of card identities stored as a bitset.
// Each card maps to a bit: index = (rank-2)*4 + suit.
type CardSet uint64

const fullSet = CardSet(1)<<Size - 1

func cardIndex(card Card) int {
	return int(card.Rank-Two)*4 + int(card.Suit)
}

func cardAt(index int) Card {
	return Card{Rank: Two + Rank(index/4), Suit: Suit(index % 4)}
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs = cs.With(card)
	}
	return cs
}

// FullSet returns the set of all 52 cards.
func FullSet() CardSet {
	return fullSet
}

// RankSet returns the four cards of a rank.
func RankSet(rank Rank) CardSet {
	if !rank.Valid() {
		return 0
	}
	return CardSet(0xF) << (int(rank-Two) * 4)
}

// SuitSet returns the thirteen cards of a suit.
func SuitSet(suit Suit) CardSet {
	var cs CardSet
	for _, rank := range Ranks {
		cs = cs.With(NewCard(rank, suit))
	}
	return cs
}

// With returns a copy of the set including card. Invalid cards are ignored.
func (cs CardSet) With(card Card) CardSet {
	if !card.Valid() {
		return cs
	}
	return cs | 1<<cardIndex(card)
}

// Without returns a copy of the set excluding card.
func (cs CardSet) Without(card Card) CardSet {
	if !card.Valid() {
		return cs
	}
	return cs &^ (1 << cardIndex(card))
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return card.Valid() && cs&(1<<cardIndex(card)) != 0
}

// Union returns the cards in either set.
func (cs CardSet) Union(other CardSet) CardSet {
	return cs | other
}

// Minus returns the cards in cs that are not in other.
func (cs CardSet) Minus(other CardSet) CardSet {
	return cs &^ other
}

// ContainsAll reports whether every card of other is in cs.
func (cs CardSet) ContainsAll(other CardSet) bool {
	return other&^cs == 0
}

// Len returns the number of cards in the set.
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs & fullSet))
}

// IsEmpty reports whether the set has no cards.
func (cs CardSet) IsEmpty() bool {
	return cs&fullSet == 0
}

// Cards returns the members ordered by rank, then suit.
func (cs CardSet) Cards() []Card {
	out := make([]Card, 0, cs.Len())
	for rest := uint64(cs & fullSet); rest != 0; rest &= rest - 1 {
		out = append(out, cardAt(bits.TrailingZeros64(rest)))
	}
	return out
}
