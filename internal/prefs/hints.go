package prefs

import "github.com/lox/rangepoker/internal/game"

// Tutorial steps.
const (
	EasyStepDraft = iota
	EasyStepPlayerHand
	EasyStepDealerHand
	EasyStepShowdown
)

const (
	HardStepSelect = iota
	HardStepOdds
	HardStepDeal
	HardStepRepeat
)

var hints = map[game.Mode][]string{
	game.Easy: {
		EasyStepDraft:      "Take cards for your hand (5 max) or pass them to the dealer (gets 8).",
		EasyStepPlayerHand: "Your hand! Build the best 5-card poker hand you can.",
		EasyStepDealerHand: "Passed cards go here. Dealer picks their best 5 from 8.",
		EasyStepShowdown:   "Ready? Compare your best hand against the dealer's.",
	},
	game.Hard: {
		HardStepSelect: "Select which cards you want. Cards deal until one matches.",
		HardStepOdds:   "Narrow selections = more cards to the dealer per match.",
		HardStepDeal:   "Hit Deal to start. You get the match, dealer gets the rest.",
		HardStepRepeat: "You got your card! Repeat until you have 5.",
	},
}

// Hint returns the tutorial text for step of mode.
func Hint(mode game.Mode, step int) (string, bool) {
	steps := hints[mode]
	if step < 0 || step >= len(steps) {
		return "", false
	}
	return steps[step], true
}
