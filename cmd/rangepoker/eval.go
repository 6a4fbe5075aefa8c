package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/evaluator"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

// EvalCmd evaluates cards given on the command line
type EvalCmd struct {
	Cards []string `arg:"" help:"Cards such as 'As Kd' or 'AsKd10h' (quoted or separate)"`
	Top   int      `help:"Also list the N strongest five-card hands" default:"0"`
}

func (c *EvalCmd) Run() error {
	return evaluate(os.Stdout, c.Cards, c.Top)
}

func evaluate(w io.Writer, args []string, top int) error {
	cards, err := deck.ParseCards(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return fmt.Errorf("no cards given")
	}
	if dup := firstDuplicate(cards); dup != nil {
		return fmt.Errorf("%w: %s appears twice", deck.ErrInvalidCard, dup)
	}

	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Cards:"), deck.FormatCards(cards))
	if label, ok := evaluator.EvaluatePartialHand(cards); ok {
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Made:"), handStyle.Render(label))
	}
	if len(cards) < evaluator.HandSize {
		return nil
	}

	best, err := evaluator.FindBestHand(cards)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s %s\n", headerStyle.Render("Best:"),
		handStyle.Render(best.Evaluation.Name), deck.FormatCards(best.Cards))
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Tiebreakers:"),
		categoryStyle.Render(fmt.Sprint(best.Evaluation.Tiebreakers)))

	if top <= 0 {
		return nil
	}
	hands, err := evaluator.RankHands(cards)
	if err != nil {
		return err
	}
	top = min(top, len(hands))
	fmt.Fprintf(w, "%s\n", headerStyle.Render(fmt.Sprintf("Top %d of %d hands:", top, len(hands))))
	for i, hand := range hands[:top] {
		fmt.Fprintf(w, "%3d. %-16s %s\n", i+1, hand.Evaluation.Name, deck.FormatCards(hand.Cards))
	}
	return nil
}

func firstDuplicate(cards []deck.Card) *deck.Card {
	var seen deck.CardSet
	for i, card := range cards {
		if seen.Contains(card) {
			return &cards[i]
		}
		seen = seen.With(card)
	}
	return nil
}
