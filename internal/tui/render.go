package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/evaluator"
	"github.com/lox/rangepoker/internal/game"
)

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight

	// On first proper sizing, follow the end of the log
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows both hands as far as they have been revealed.
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" Range Poker: %s ", m.mode.Title())))
	content.WriteString("\n\n")

	content.WriteString(HandInfoStyle.Render(fmt.Sprintf("You (%d/%d)", len(m.player), game.PlayerHandSize)))
	content.WriteString("\n")
	content.WriteString(m.renderHand(m.player))

	content.WriteString("\n")
	content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Dealer (%d/%d)", len(m.dealer), game.DealerHandSize)))
	content.WriteString("\n")
	content.WriteString(m.renderHand(m.dealer))

	if len(m.muck) > 0 {
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Muck: %d cards", len(m.muck))))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Deck: %d", m.round.RemainingCount())))
	if needed := m.round.Needed(); needed > 0 {
		content.WriteString(" | ")
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Need: %d", needed)))
	}
	content.WriteString("\n")

	return content.String()
}

func (m *TUIModel) renderHand(cards []deck.Card) string {
	if len(cards) == 0 {
		return InfoStyle.Render("  (empty)") + "\n"
	}
	out := "  " + formatCards(cards) + "\n"
	if label, ok := evaluator.EvaluatePartialHand(cards); ok {
		out += "  " + InfoStyle.Render(label) + "\n"
	}
	return out
}

// renderActionPane renders the prompt for the next move
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.Animating():
		content.WriteString(HandInfoStyle.Render("Dealing..."))
	case m.round.Phase() == game.PhaseComplete:
		content.WriteString(ActionsStyle.Render("Actions: [again] [mode easy|hard] [quit]"))
	case m.round.Phase() == game.PhaseReady:
		content.WriteString(ActionsStyle.Render("Actions: [showdown]"))
	case m.mode == game.Easy:
		current, _ := m.round.Current()
		content.WriteString(HandInfoStyle.Render("Card: ") + formatCard(current) + "  ")
		if m.round.MustTake() {
			content.WriteString(ActionsStyle.Render("Actions: [take] (you need every card left)"))
		} else {
			content.WriteString(ActionsStyle.Render("Actions: [take] [pass]"))
		}
	default:
		content.WriteString(HandInfoStyle.Render("Selected: ") + m.describeSelection() + "  ")
		content.WriteString(ActionsStyle.Render("Actions: [select] [rank] [suit] [clear] [deal]"))
	}
	content.WriteString("\n")

	m.actionInput.Placeholder = "Type a command, or 'help'"
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// logResult writes the showdown outcome to the log
func (m *TUIModel) logResult(res game.Result) {
	m.AddLogEntry(fmt.Sprintf("You:    %s %s",
		HandInfoStyle.Render(res.Player.Evaluation.Name), formatCards(res.Player.Cards)))
	m.AddLogEntry(fmt.Sprintf("Dealer: %s %s",
		HandInfoStyle.Render(res.Dealer.Evaluation.Name), formatCards(res.Dealer.Cards)))

	switch res.Winner {
	case game.WinnerPlayer:
		m.AddLogEntry(SuccessStyle.Render("You win!"))
	case game.WinnerDealer:
		m.AddLogEntry(ErrorStyle.Render("Dealer wins."))
	default:
		m.AddLogEntry(WarningStyle.Render("It's a tie."))
	}
	m.AddLogEntry(InfoStyle.Render("Type 'again' for another round."))
}

// formatCard formats a card with its suit colour
func formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = formatCard(card)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
