// Package game implements the drafting rounds of Range Poker.
//
// A Round owns one shuffled 52-card deck and consumes it left to right. The
// player drafts five cards while every card they decline goes to the dealer,
// who can hold up to eight. When the player's hand is complete a showdown
// fills the dealer from the remaining deck and compares the best five-card
// hands of both sides.
//
// # Modes
//
// In Easy mode one card is revealed at a time and the player either takes it
// or passes it to the dealer:
//
//	r, _ := game.NewRound(game.Easy, deck.CreateDeck(), logger)
//	card, _ := r.Current()
//	r.Take()
//
// In Hard mode the player names a range of cards up front. Cards are revealed
// until one matches the range; that card goes to the player and everything
// revealed before it goes to the dealer:
//
//	sel := game.ToggleRank(0, deck.Ace, r.Used())
//	res, _ := r.Deal(sel)
//
// Cards routed to a dealer that already holds eight are mucked for the rest
// of the round.
//
// # Deterministic Testing
//
// NewRound accepts any ordering of the 52 cards, so tests can pass a fixed
// order from deck.Ordered or a seeded deck.New(randutil.New(seed)).
//
// A Round is owned by a single goroutine and is not safe for concurrent use.
package game
