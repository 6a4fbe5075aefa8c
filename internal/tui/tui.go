package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/pacing"
	"github.com/lox/rangepoker/internal/prefs"
)

// Options configures a TUIModel.
type Options struct {
	Mode game.Mode
	// NewDeck returns the cards for each new round. Defaults to
	// deck.CreateDeck.
	NewDeck func() []deck.Card
	// Prefs stores volumes and tutorial progress. Defaults to an in-memory
	// store.
	Prefs *prefs.Store
	// Clock drives reveal pacing. Defaults to the real clock.
	Clock     quartz.Clock
	EasyDelay time.Duration
	HardDelay time.Duration
	TestMode  bool
}

// TUIModel represents the Bubble Tea model for a Range Poker session
type TUIModel struct {
	logger *log.Logger

	// Game state
	mode      game.Mode
	round     *game.Round
	newDeck   func() []deck.Card
	prefs     *prefs.Store
	delays    map[game.Mode]time.Duration
	selection deck.CardSet

	// Reveals are shown one at a time. player, dealer and muck hold what has
	// been shown so far and trail the round while an animation runs.
	reveals *pacing.Queue[game.Reveal]
	ticking bool
	player  []deck.Card
	dealer  []deck.Card
	muck    []deck.Card
	notes   []string
	result  *game.Result

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// revealMsg is delivered by tea.Tick when the next reveal may be due.
type revealMsg struct{}

// NewTUIModel creates a model and deals its first round.
func NewTUIModel(opts Options, logger *log.Logger) (*TUIModel, error) {
	logger = logger.WithPrefix("tui")

	mode := opts.Mode
	if mode == "" {
		mode = game.Easy
	}
	if _, err := game.ParseMode(mode.String()); err != nil {
		return nil, err
	}
	newDeck := opts.NewDeck
	if newDeck == nil {
		newDeck = deck.CreateDeck
	}
	store := opts.Prefs
	if store == nil {
		var err error
		if store, err = prefs.Load("", logger); err != nil {
			return nil, err
		}
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		logger:  logger,
		mode:    mode,
		newDeck: newDeck,
		prefs:   store,
		delays: map[game.Mode]time.Duration{
			game.Easy: opts.EasyDelay,
			game.Hard: opts.HardDelay,
		},
		reveals:     pacing.NewQueue[game.Reveal](opts.Clock, opts.EasyDelay),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1,
		testMode:    opts.TestMode,
		capturedLog: []string{},
	}
	if err := m.startRound(); err != nil {
		return nil, err
	}
	return m, nil
}

// Run starts an interactive program on the terminal and blocks until the
// player quits.
func Run(m *TUIModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case revealMsg:
		m.ticking = false
		cmds = append(cmds, m.animate())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				cmd := m.Execute(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.quitting {
					return m, cmd
				}
				cmds = append(cmds, cmd)
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// animate shows every reveal that is due and schedules a tick for the next.
func (m *TUIModel) animate() tea.Cmd {
	for _, reveal := range m.reveals.Ready() {
		m.show(reveal)
	}
	wait, pending := m.reveals.NextIn()
	if !pending {
		m.finish()
		return nil
	}
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(wait, func(time.Time) tea.Msg { return revealMsg{} })
}

// settle shows every queued reveal at once.
func (m *TUIModel) settle() {
	if m.reveals.Pending() == 0 {
		return
	}
	for _, reveal := range m.reveals.Flush() {
		m.show(reveal)
	}
	m.finish()
}

func (m *TUIModel) show(reveal game.Reveal) {
	card := formatCard(reveal.Card)
	switch reveal.Seat {
	case game.SeatPlayer:
		m.player = append(m.player, reveal.Card)
		m.AddLogEntry(fmt.Sprintf("  %s → %s", card, SuccessStyle.Render("you")))
	case game.SeatDealer:
		m.dealer = append(m.dealer, reveal.Card)
		m.AddLogEntry(fmt.Sprintf("  %s → dealer", card))
	case game.SeatMuck:
		m.muck = append(m.muck, reveal.Card)
		m.AddLogEntry(fmt.Sprintf("  %s → %s", card, InfoStyle.Render("muck (dealer full)")))
	}
}

// finish logs what was held back until the animation completed.
func (m *TUIModel) finish() {
	for _, note := range m.notes {
		m.AddLogEntry(note)
	}
	m.notes = nil

	if m.result != nil {
		m.logResult(*m.result)
		m.result = nil
	}
}

// Mode returns the mode of the current round.
func (m *TUIModel) Mode() game.Mode {
	return m.mode
}

// Round returns the current round.
func (m *TUIModel) Round() *game.Round {
	return m.round
}

// Selection returns the Hard-mode selection.
func (m *TUIModel) Selection() deck.CardSet {
	return m.selection
}

// Animating reports whether reveals are still waiting to be shown.
func (m *TUIModel) Animating() bool {
	return m.reveals.Pending() > 0
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
