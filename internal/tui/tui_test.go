package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rangepoker/internal/deck"
	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/prefs"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
}

// newTestModel plays from the ordered deck: 2h..Ah, 2d..Ad, 2c..Ac, 2s..As.
func newTestModel(t *testing.T, mode game.Mode) *TUIModel {
	t.Helper()
	m, err := NewTUIModel(Options{Mode: mode, NewDeck: deck.Ordered, TestMode: true}, testLogger())
	require.NoError(t, err)
	return m
}

func logText(m *TUIModel) string {
	return strings.Join(m.GetCapturedLog(), "\n")
}

func run(t *testing.T, m *TUIModel, commands ...string) {
	t.Helper()
	for _, c := range commands {
		m.Execute(c)
	}
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m := newTestModel(t, game.Easy)

		assert.True(t, m.IsTestMode())
		m.AddLogEntry("hello")
		captured := m.GetCapturedLog()
		require.NotEmpty(t, captured)
		assert.Equal(t, "hello", captured[len(captured)-1])
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		m, err := NewTUIModel(Options{NewDeck: deck.Ordered}, testLogger())
		require.NoError(t, err)

		assert.False(t, m.IsTestMode())
		m.AddLogEntry("Some log entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestNewTUIModelRejectsUnknownMode(t *testing.T) {
	_, err := NewTUIModel(Options{Mode: "expert", TestMode: true}, testLogger())
	assert.ErrorIs(t, err, game.ErrWrongMode)
}

func TestEasyRound(t *testing.T) {
	m := newTestModel(t, game.Easy)

	run(t, m, "take", "t", "take", "t", "take")
	assert.Equal(t, game.PhaseReady, m.Round().Phase())
	assert.Equal(t, deck.MustParseCards("2h 3h 4h 5h 6h"), m.Round().Player())
	assert.Contains(t, logText(m), "Your hand is complete")

	run(t, m, "showdown")
	assert.Equal(t, game.PhaseComplete, m.Round().Phase())
	assert.Len(t, m.Round().Dealer(), game.DealerHandSize)
	assert.Contains(t, logText(m), "Royal Flush")
	assert.Contains(t, logText(m), "Dealer wins.")

	run(t, m, "take")
	assert.Contains(t, logText(m), "The round is over")

	run(t, m, "again")
	assert.Equal(t, game.PhaseDrafting, m.Round().Phase())
	assert.Empty(t, m.Round().Player())
}

func TestEasyMustTake(t *testing.T) {
	m := newTestModel(t, game.Easy)

	for i := 0; i < deck.Size-game.PlayerHandSize; i++ {
		m.Execute("pass")
	}
	assert.Len(t, m.Round().Muck(), deck.Size-game.PlayerHandSize-game.DealerHandSize)
	assert.Contains(t, logText(m), "muck (dealer full)")

	m.Execute("pass")
	assert.Contains(t, logText(m), "has to be taken")
	assert.Equal(t, game.PlayerHandSize, m.Round().RemainingCount())
}

func TestHardSelectionAndDeal(t *testing.T) {
	m := newTestModel(t, game.Hard)

	m.Execute("deal")
	assert.Contains(t, logText(m), "Select some cards first")

	m.Execute("select 5h 3h")
	assert.Equal(t, deck.NewCardSet(deck.MustParseCards("5h 3h")...), m.Selection())

	m.Execute("select 5h")
	assert.Equal(t, deck.NewCardSet(deck.MustParseCards("3h")...), m.Selection())

	m.Execute("deal")
	assert.Equal(t, deck.MustParseCards("3h"), m.Round().Player())
	assert.Equal(t, deck.MustParseCards("2h"), m.Round().Dealer())
	assert.True(t, m.Selection().IsEmpty(), "dealt cards leave the selection")

	m.Execute("rank a")
	assert.Equal(t, 4, m.Selection().Len())
	m.Execute("rank A")
	assert.True(t, m.Selection().IsEmpty())

	m.Execute("suit s")
	assert.Equal(t, 13, m.Selection().Len())
	m.Execute("clear")
	assert.True(t, m.Selection().IsEmpty())

	m.Execute("select 3h")
	assert.Contains(t, logText(m), "has already been dealt")

	m.Execute("take")
	assert.Contains(t, logText(m), "wrong mode")
}

func TestHardForcedDeal(t *testing.T) {
	m := newTestModel(t, game.Hard)

	m.Execute("select As")
	m.Execute("deal")

	assert.Contains(t, logText(m), "The deck is running out")
	assert.Len(t, m.Round().Player(), 1)
	assert.Equal(t, m.Round().Needed(), m.Round().RemainingCount())
}

func TestSelectionNeedsHardMode(t *testing.T) {
	m := newTestModel(t, game.Easy)

	m.Execute("select As")
	assert.Contains(t, logText(m), "only used in hard mode")
	assert.True(t, m.Selection().IsEmpty())
}

func TestModeSwitchAndUnknownCommand(t *testing.T) {
	m := newTestModel(t, game.Easy)

	m.Execute("mode hard")
	assert.Equal(t, game.Hard, m.Mode())
	assert.Equal(t, game.Hard, m.Round().Mode())

	m.Execute("mode expert")
	assert.Equal(t, game.Hard, m.Mode())

	m.Execute("fold")
	assert.Contains(t, logText(m), `unknown command "fold"`)
}

func TestTutorial(t *testing.T) {
	store, err := prefs.Load("", testLogger())
	require.NoError(t, err)

	m, err := NewTUIModel(Options{Mode: game.Easy, NewDeck: deck.Ordered, Prefs: store, TestMode: true}, testLogger())
	require.NoError(t, err)

	hint, _ := prefs.Hint(game.Easy, prefs.EasyStepDraft)
	assert.Contains(t, logText(m), hint)

	m.Execute("take")
	hint, _ = prefs.Hint(game.Easy, prefs.EasyStepPlayerHand)
	assert.Contains(t, logText(m), hint)
	assert.Equal(t, prefs.EasyStepPlayerHand, store.TutorialStep(game.Easy))

	run(t, m, "take", "take", "take", "take", "showdown")
	assert.Equal(t, prefs.TutorialComplete, store.TutorialStep(game.Easy))

	m.Execute("again")
	assert.Equal(t, 1, strings.Count(logText(m), "Tip: Take cards"), "a completed tutorial stays quiet")

	m.Execute("tutorial")
	assert.Equal(t, prefs.EasyStepDraft, store.TutorialStep(game.Easy))
}

func TestVolume(t *testing.T) {
	m := newTestModel(t, game.Easy)

	m.Execute("volume music 0.8")
	assert.InDelta(t, 0.8, m.prefs.Preferences().MusicVolume, 1e-9)

	m.Execute("volume master 2")
	assert.InDelta(t, 1.0, m.prefs.Preferences().MasterVolume, 1e-9)

	m.Execute("volume bass 1")
	assert.Contains(t, logText(m), `unknown volume "bass"`)
}

func TestRevealsArePaced(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const delay = 100 * time.Millisecond
	clock := quartz.NewMock(t)
	m, err := NewTUIModel(Options{
		Mode:      game.Easy,
		NewDeck:   deck.Ordered,
		Clock:     clock,
		EasyDelay: delay,
		TestMode:  true,
	}, testLogger())
	require.NoError(t, err)

	assert.Nil(t, m.Execute("take"), "the first reveal is shown at once")
	assert.Len(t, m.player, 1)

	cmd := m.Execute("take")
	require.NotNil(t, cmd)
	assert.True(t, m.Animating())
	assert.Len(t, m.player, 1)

	clock.Advance(delay).MustWait(ctx)
	m.Update(revealMsg{})
	assert.False(t, m.Animating())
	assert.Len(t, m.player, 2)

	// A new command shows anything still queued first.
	run(t, m, "take", "take", "take")
	m.Execute("showdown")
	assert.Len(t, m.player, game.PlayerHandSize)
	assert.True(t, m.Animating())
	assert.NotContains(t, logText(m), "Dealer wins.", "the result waits for the dealer's cards")

	m.Execute("help")
	assert.False(t, m.Animating())
	assert.Len(t, m.dealer, game.DealerHandSize)
	assert.Contains(t, logText(m), "Dealer wins.")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, game.Easy)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestViewRendersHands(t *testing.T) {
	m := newTestModel(t, game.Easy)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	run(t, m, "take", "take")

	view := m.View()
	assert.Contains(t, view, "You (2/5)")
	assert.Contains(t, view, "Dealer (0/8)")
	assert.Contains(t, view, "Deck: 50")
}

func TestMute(t *testing.T) {
	m := newTestModel(t, game.Easy)

	m.Execute("mute")
	assert.True(t, m.prefs.Preferences().Muted)
	assert.Equal(t, 0.0, m.prefs.Preferences().EffectiveVolume(prefs.Effects))
	assert.Contains(t, logText(m), "Sound muted.")

	m.Execute("mute")
	assert.False(t, m.prefs.Preferences().Muted)
	assert.Contains(t, logText(m), "Sound on.")

	m.Execute("mute on")
	assert.True(t, m.prefs.Preferences().Muted)
	m.Execute("mute on")
	assert.True(t, m.prefs.Preferences().Muted, "an explicit state does not toggle")

	m.Execute("mute loud")
	assert.Contains(t, logText(m), "usage: mute [on|off]")
}

func TestRules(t *testing.T) {
	m := newTestModel(t, game.Hard)

	m.Execute("rules")
	text := logText(m)
	assert.Contains(t, text, "How to play")
	assert.Contains(t, text, "Easy mode:")
	assert.Contains(t, text, "Take it for your hand or pass it to the dealer.")
	assert.Contains(t, text, "Hard mode:")
	assert.Contains(t, text, "Cards are dealt until one matches your selection.")
	assert.Equal(t, 0, m.Round().Used().Len(), "rules do not touch the round")
}

func TestTutorialResetAll(t *testing.T) {
	store, err := prefs.Load("", testLogger())
	require.NoError(t, err)
	require.NoError(t, store.AdvanceTutorial(game.Easy, prefs.TutorialComplete))
	require.NoError(t, store.AdvanceTutorial(game.Hard, prefs.TutorialComplete))

	m, err := NewTUIModel(Options{Mode: game.Hard, NewDeck: deck.Ordered, Prefs: store, TestMode: true}, testLogger())
	require.NoError(t, err)

	m.Execute("tutorial")
	assert.Equal(t, prefs.HardStepSelect, store.TutorialStep(game.Hard))
	assert.Equal(t, prefs.TutorialComplete, store.TutorialStep(game.Easy), "a plain reset only restarts the current mode")

	m.Execute("tutorial all")
	assert.Equal(t, prefs.EasyStepDraft, store.TutorialStep(game.Easy))
	assert.Equal(t, prefs.HardStepSelect, store.TutorialStep(game.Hard))

	m.Execute("tutorial everything")
	assert.Contains(t, logText(m), "usage: tutorial [all]")
}
