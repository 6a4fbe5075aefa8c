package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/prefs"
)

var errNeedHard = errors.New("selections are only used in hard mode")

// Execute runs one line typed at the prompt. Reveals still animating from
// the previous command are shown at once before the new command runs.
func (m *TUIModel) Execute(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	m.settle()

	command, args := strings.ToLower(fields[0]), fields[1:]
	m.logger.Debug("Command", "command", command, "args", args)

	var err error
	switch command {
	case "quit", "q", "exit":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case "help", "h", "?":
		m.showHelp()
	case "take", "t":
		err = m.take()
	case "pass", "p":
		err = m.pass()
	case "select", "sel":
		err = m.selectCards(args)
	case "rank", "r":
		err = m.selectRank(args)
	case "suit":
		err = m.selectSuit(args)
	case "clear", "c":
		err = m.clearSelection()
	case "deal", "d":
		err = m.deal()
	case "showdown", "s":
		err = m.showdown()
	case "again", "new", "n":
		err = m.startRound()
	case "mode", "m":
		err = m.switchMode(args)
	case "volume", "vol":
		err = m.setVolume(args)
	case "mute":
		err = m.toggleMute(args)
	case "rules":
		m.showRules()
	case "tutorial":
		err = m.resetTutorial(args)
	default:
		err = fmt.Errorf("unknown command %q, type 'help' for a list", command)
	}

	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(describe(err)))
		return nil
	}
	return m.animate()
}

// describe turns game errors into player-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, game.ErrMustTake):
		return "You need every remaining card, so this one has to be taken."
	case errors.Is(err, game.ErrRoundOver):
		return "The round is over. Type 'again' to play another."
	case errors.Is(err, game.ErrEmptySelection):
		return "Select some cards first (select As Kh, rank A, suit h)."
	case errors.Is(err, game.ErrWrongPhase):
		return "Your hand is complete. Type 'showdown' to reveal the dealer's hand."
	default:
		return err.Error()
	}
}

func (m *TUIModel) startRound() error {
	round, err := game.NewRound(m.mode, m.newDeck(), m.logger)
	if err != nil {
		return err
	}

	m.round = round
	m.reveals.Flush()
	m.reveals.SetDelay(m.delays[m.mode])
	m.selection = 0
	m.player, m.dealer, m.muck = nil, nil, nil
	m.notes, m.result = nil, nil

	m.AddLogEntry("")
	m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf(" %s round ", m.mode.Title())))
	if step := m.prefs.TutorialStep(m.mode); step != prefs.TutorialComplete {
		m.showHint(step)
	}
	return nil
}

func (m *TUIModel) switchMode(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: mode easy|hard")
	}
	mode, err := game.ParseMode(args[0])
	if err != nil {
		return err
	}
	m.mode = mode
	return m.startRound()
}

func (m *TUIModel) take() error {
	reveal, err := m.round.Take()
	if err != nil {
		return err
	}
	m.reveals.Push(reveal)
	m.advanceTutorial(prefs.EasyStepPlayerHand)
	m.readyCheck()
	return nil
}

func (m *TUIModel) pass() error {
	reveal, err := m.round.Pass()
	if err != nil {
		return err
	}
	m.reveals.Push(reveal)
	m.advanceTutorial(prefs.EasyStepDealerHand)
	return nil
}

func (m *TUIModel) deal() error {
	res, err := m.round.Deal(m.selection)
	if err != nil {
		return err
	}
	m.reveals.Push(res.Revealed...)
	m.selection = m.selection.Minus(m.round.Used())

	if res.Forced {
		m.notes = append(m.notes, WarningStyle.Render(fmt.Sprintf(
			"The deck is running out: %s was dealt to you to complete your hand.", res.Matched)))
	} else {
		m.notes = append(m.notes, fmt.Sprintf("Matched %s after %d cards.", formatCard(res.Matched), len(res.Revealed)))
	}
	m.advanceTutorial(prefs.HardStepRepeat)
	m.readyCheck()
	return nil
}

// readyCheck prompts for the showdown once the player's hand is complete.
func (m *TUIModel) readyCheck() {
	if m.round.Phase() != game.PhaseReady {
		return
	}
	m.notes = append(m.notes, ActionsStyle.Render("Your hand is complete. Type 'showdown' to play it."))
	if m.mode == game.Easy {
		m.advanceTutorial(prefs.EasyStepShowdown)
	}
}

func (m *TUIModel) showdown() error {
	res, err := m.round.Showdown()
	if err != nil {
		return err
	}
	for _, card := range res.DealerFill {
		m.reveals.Push(game.Reveal{Card: card, Seat: game.SeatDealer})
	}
	m.result = &res
	m.advanceTutorial(prefs.TutorialComplete)
	return nil
}

func (m *TUIModel) selectCards(args []string) error {
	if m.mode != game.Hard {
		return errNeedHard
	}
	cards, err := deck.ParseCards(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return errors.New("usage: select <cards>, e.g. select As Kh 10d")
	}

	used := m.round.Used()
	for _, card := range cards {
		if used.Contains(card) {
			m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("%s has already been dealt.", card)))
			continue
		}
		m.selection = game.ToggleCard(m.selection, card, used)
	}
	m.selectionChanged()
	return nil
}

func (m *TUIModel) selectRank(args []string) error {
	if m.mode != game.Hard {
		return errNeedHard
	}
	if len(args) != 1 {
		return errors.New("usage: rank <rank>, e.g. rank A")
	}
	rank, err := deck.ParseRank(args[0])
	if err != nil {
		return err
	}
	m.selection = game.ToggleRank(m.selection, rank, m.round.Used())
	m.selectionChanged()
	return nil
}

func (m *TUIModel) selectSuit(args []string) error {
	if m.mode != game.Hard {
		return errNeedHard
	}
	if len(args) != 1 {
		return errors.New("usage: suit <suit>, e.g. suit h")
	}
	suit, err := deck.ParseSuit(args[0])
	if err != nil {
		return err
	}
	m.selection = game.ToggleSuit(m.selection, suit, m.round.Used())
	m.selectionChanged()
	return nil
}

func (m *TUIModel) clearSelection() error {
	if m.mode != game.Hard {
		return errNeedHard
	}
	m.selection = 0
	m.selectionChanged()
	return nil
}

func (m *TUIModel) selectionChanged() {
	m.AddLogEntry("Selected: " + m.describeSelection())
	if m.selection.IsEmpty() {
		return
	}
	if m.prefs.TutorialStep(m.mode) < prefs.HardStepOdds {
		m.advanceTutorial(prefs.HardStepOdds)
	} else {
		m.advanceTutorial(prefs.HardStepDeal)
	}
}

func (m *TUIModel) describeSelection() string {
	selected := m.selection.Minus(m.round.Used())
	if selected.IsEmpty() {
		return "nothing"
	}
	desc := formatCards(selected.Cards())
	if perMatch, ok := game.ExpectedRevealsPerMatch(selected, m.round.Used()); ok {
		desc += InfoStyle.Render(fmt.Sprintf("  ~%.1f cards per match", perMatch))
	}
	return desc
}

func (m *TUIModel) setVolume(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: volume master|music|effects <0-1>")
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid volume %q", args[1])
	}

	switch strings.ToLower(args[0]) {
	case "master":
		err = m.prefs.SetMasterVolume(v)
	case string(prefs.Music):
		err = m.prefs.SetVolume(prefs.Music, v)
	case string(prefs.Effects):
		err = m.prefs.SetVolume(prefs.Effects, v)
	default:
		return fmt.Errorf("unknown volume %q", args[0])
	}
	if err != nil {
		return err
	}

	p := m.prefs.Preferences()
	m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Volume: master %.2f, music %.2f, effects %.2f",
		p.MasterVolume, p.MusicVolume, p.EffectsVolume)))
	return nil
}

func (m *TUIModel) toggleMute(args []string) error {
	muted := !m.prefs.Preferences().Muted
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on":
			muted = true
		case "off":
			muted = false
		default:
			return errors.New("usage: mute [on|off]")
		}
	} else if len(args) > 1 {
		return errors.New("usage: mute [on|off]")
	}
	if err := m.prefs.SetMuted(muted); err != nil {
		return err
	}
	if muted {
		m.AddLogEntry(InfoStyle.Render("Sound muted."))
	} else {
		m.AddLogEntry(InfoStyle.Render("Sound on."))
	}
	return nil
}

// resetTutorial restarts the tutorial of the current mode, or of every mode
// with "tutorial all".
func (m *TUIModel) resetTutorial(args []string) error {
	var err error
	switch {
	case len(args) == 0:
		err = m.prefs.ResetTutorial(m.mode)
	case len(args) == 1 && strings.EqualFold(args[0], "all"):
		err = m.prefs.ResetAllTutorials()
	default:
		return errors.New("usage: tutorial [all]")
	}
	if err != nil {
		return err
	}
	m.showHint(0)
	return nil
}

// advanceTutorial moves the tutorial forward to step and shows its hint.
// It never moves backwards.
func (m *TUIModel) advanceTutorial(step int) {
	current := m.prefs.TutorialStep(m.mode)
	if current == prefs.TutorialComplete || (step != prefs.TutorialComplete && step <= current) {
		return
	}
	if err := m.prefs.AdvanceTutorial(m.mode, step); err != nil {
		m.logger.Warn("Failed to save tutorial progress", "error", err)
	}
	if step != prefs.TutorialComplete {
		m.notes = append(m.notes, hintLine(m.mode, step))
	}
}

func (m *TUIModel) showHint(step int) {
	if line := hintLine(m.mode, step); line != "" {
		m.AddLogEntry(line)
	}
}

func hintLine(mode game.Mode, step int) string {
	hint, ok := prefs.Hint(mode, step)
	if !ok {
		return ""
	}
	return HintStyle.Render("Tip: " + hint)
}

func (m *TUIModel) showHelp() {
	lines := []string{"Commands:"}
	if m.mode == game.Easy {
		lines = append(lines,
			"  take, t             take the revealed card",
			"  pass, p             pass it to the dealer")
	} else {
		lines = append(lines,
			"  select <cards>      toggle cards, e.g. select As Kh",
			"  rank <r>, suit <s>  toggle a whole rank or suit",
			"  clear               clear the selection",
			"  deal, d             deal until a selected card appears")
	}
	lines = append(lines,
		"  showdown, s         compare hands once yours is complete",
		"  again               start a new round",
		"  mode easy|hard      switch modes",
		"  volume <kind> <v>   set master, music or effects volume",
		"  mute [on|off]       switch sound off or back on",
		"  rules               explain both modes",
		"  tutorial [all]      show the tutorial again",
		"  quit                leave the game")
	for _, line := range lines {
		m.AddLogEntry(InfoStyle.Render(line))
	}
}

var rules = []string{
	"Goal: build a better 5-card poker hand than the dealer.",
	"",
	"Easy mode:",
	"  1. A card is revealed from the deck.",
	"  2. Take it for your hand or pass it to the dealer.",
	"  3. Repeat until you hold 5 cards. Once the deck has no more cards",
	"     than you still need, you have to take them.",
	"  4. The dealer draws up to 8 cards and the best 5-card hands are compared.",
	"",
	"Hard mode:",
	"  1. Select the cards you want to stop on (select, rank, suit).",
	"  2. Cards are dealt until one matches your selection.",
	"  3. You get the match and the dealer gets every card before it.",
	"  4. Repeat until you hold 5 cards, then the dealer draws up to 8.",
	"  Narrow selections send more cards to the dealer. When the deck runs",
	"  low, the next card is dealt to you whether it matches or not.",
	"",
	"Cards sent to a dealer already holding 8 go to the muck.",
}

func (m *TUIModel) showRules() {
	m.AddLogEntry(HeaderStyle.Render(" How to play "))
	for _, line := range rules {
		m.AddLogEntry(InfoStyle.Render(line))
	}
}
