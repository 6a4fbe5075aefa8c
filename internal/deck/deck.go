package deck

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/lox/rangepoker/internal/randutil"
)

// Size is the number of cards in a standard deck.
const Size = 52

// Deck is a standard 52-card deck in a fixed, shuffled order. It has no
// cursor; consumers track how far they have dealt.
type Deck struct {
	cards [Size]Card
}

// New creates a deck shuffled with rng using Fisher-Yates.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: ordered()}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return d
}

// Cards returns a copy of the shuffled order.
func (d *Deck) Cards() []Card {
	out := make([]Card, Size)
	copy(out, d.cards[:])
	return out
}

// CreateDeck returns all 52 cards in random order. Every call draws from an
// independently seeded source.
func CreateDeck() []Card {
	return New(randutil.NewRandom()).Cards()
}

// Seeded returns the i-th deck of the batch seeded with seed. Equal arguments
// always give the same order.
func Seeded(seed int64, i int) []Card {
	return New(randutil.New(randutil.SeedFor(seed, i))).Cards()
}

// Source returns a deck supplier for consecutive rounds. With a non-zero seed
// the n-th call returns Seeded(seed, n); zero keeps every deck random. It is
// safe for concurrent use.
func Source(seed int64) func() []Card {
	if seed == 0 {
		return CreateDeck
	}
	var rounds atomic.Int64
	return func() []Card {
		return Seeded(seed, int(rounds.Add(1)-1))
	}
}

// Ordered returns the 52 cards unshuffled, suit by suit.
func Ordered() []Card {
	cards := ordered()
	return cards[:]
}

func ordered() [Size]Card {
	var cards [Size]Card
	i := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return cards
}
