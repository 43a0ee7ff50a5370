package tui

import (
	"math/rand"
	"path/filepath"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/drill"
	"github.com/vovakirdan/mathfacts/internal/storage"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

// send feeds msgs through any Bubble Tea model and returns the result.
func send[M tea.Model](t *testing.T, m M, msgs ...tea.Msg) M {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(M)
		require.True(t, ok, "Update returned %T", next)
	}
	return m
}

func newGame(t *testing.T, level int) *drill.Game {
	t.Helper()
	g := drill.NewWithRand(rand.New(rand.NewSource(11)))
	require.NoError(t, g.SelectLevel(level))
	return g
}

// typeAnswer types text into a play screen and presses enter.
func typeAnswer(t *testing.T, m PlayModel, text string) PlayModel {
	t.Helper()
	return send(t, m, keyRunes(text), keyEnter)
}

func correctAnswer(t *testing.T, g *drill.Game) string {
	t.Helper()
	p, ok := g.CurrentProblem()
	require.True(t, ok)
	return strconv.Itoa(p.Sum())
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{keyRunes("q"), MenuActionQuit},
		{keyCtrlC, MenuActionQuit},
		{keyRunes("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{keyRunes("j"), MenuActionDown},
		{keyDown, MenuActionDown},
		{keyEnter, MenuActionSelect},
		{keyEsc, MenuActionBack},
		{keyTab, MenuActionHistory},
		{keyRunes("x"), MenuActionNone},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, km.MapKeyToMenuAction(tc.msg), "key %q", tc.msg.String())
	}
}

func TestLevelMenuSelect(t *testing.T) {
	m := NewLevelMenuModel(80, 24)
	assert.Contains(t, m.View(), "Mixed Facts")

	m = send(t, m, keyDown, keyDown, keyEnter)
	assert.Equal(t, 3, m.Selected())
}

func TestLevelMenuBounds(t *testing.T) {
	m := NewLevelMenuModel(80, 24)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, keyEnter)
	assert.Equal(t, 1, m.Selected())

	m = NewLevelMenuModel(80, 24)
	for i := 0; i < 30; i++ {
		m = send(t, m, keyDown)
	}
	m = send(t, m, keyEnter)
	assert.Equal(t, drill.MaxLevel, m.Selected())
}

func TestLevelMenuDigitJump(t *testing.T) {
	m := send(t, NewLevelMenuModel(80, 24), keyRunes("0"), keyEnter)
	assert.Equal(t, 10, m.Selected())

	m = send(t, NewLevelMenuModel(80, 24), keyRunes("7"), keyEnter)
	assert.Equal(t, 7, m.Selected())
}

func TestLevelMenuHistoryAndQuit(t *testing.T) {
	m := send(t, NewLevelMenuModel(80, 24), keyTab)
	assert.True(t, m.WantsHistory())

	m = send(t, NewLevelMenuModel(80, 24), keyRunes("q"))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestPlayCorrectAnswer(t *testing.T) {
	g := newGame(t, 2)
	m := NewPlayModel(g, config.DefaultConfig().Display, 80, 24)

	assert.Contains(t, m.View(), "Level 2: Plus 1")

	m = typeAnswer(t, m, correctAnswer(t, g))
	snap := g.Snapshot()
	assert.Equal(t, 1, snap.Score)
	assert.Equal(t, drill.FeedbackCorrect, snap.Feedback)
	assert.Empty(t, m.input.Value(), "input is cleared after submit")

	view := m.View()
	assert.Contains(t, view, "Score: 1 / 15")
	assert.Contains(t, view, drill.FeedbackCorrect.Message())
}

func TestPlayInvalidInput(t *testing.T) {
	g := newGame(t, 5)
	m := NewPlayModel(g, config.DefaultConfig().Display, 80, 24)
	before, _ := g.CurrentProblem()

	m = typeAnswer(t, m, "abc")
	snap := g.Snapshot()
	assert.Equal(t, drill.FeedbackInvalidInput, snap.Feedback)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, before, snap.Problem)
	assert.Contains(t, m.View(), drill.FeedbackInvalidInput.Message())

	// Letters go to the input, not to the quit binding
	assert.False(t, m.IsQuitting())
}

func TestPlayRestartBanner(t *testing.T) {
	g := newGame(t, 1)
	m := NewPlayModel(g, config.DefaultConfig().Display, 80, 24)

	m = typeAnswer(t, m, "999")
	assert.Equal(t, drill.FeedbackRestarted, g.Snapshot().Feedback)
	assert.Contains(t, m.View(), "starts over")
}

func TestPlayAdvanceAndWin(t *testing.T) {
	g := newGame(t, drill.MaxLevel-1)
	m := NewPlayModel(g, config.DefaultConfig().Display, 100, 40)

	for i := 0; i < drill.TargetScore; i++ {
		m = typeAnswer(t, m, correctAnswer(t, g))
	}
	assert.Equal(t, drill.MaxLevel, g.Snapshot().Level)
	assert.Contains(t, m.View(), "Level 13 complete!")

	for i := 0; i < drill.TargetScore; i++ {
		m = typeAnswer(t, m, correctAnswer(t, g))
	}
	require.Equal(t, drill.PhaseWon, g.Phase())
	view := m.View()
	assert.Contains(t, view, drill.FeedbackWon.Message())
	assert.Contains(t, view, "cleared 2 levels")

	// Typing on the win screen does nothing; esc starts over
	m = send(t, m, keyRunes("5"))
	assert.False(t, m.BackToMenu())
	m = send(t, m, keyEsc)
	assert.True(t, m.BackToMenu())
}

func TestPlayWinScreenQuit(t *testing.T) {
	g := newGame(t, drill.MaxLevel)
	m := NewPlayModel(g, config.DefaultConfig().Display, 80, 24)
	for i := 0; i < drill.TargetScore; i++ {
		m = typeAnswer(t, m, correctAnswer(t, g))
	}

	m = send(t, m, keyRunes("q"))
	assert.True(t, m.IsQuitting())
}

func TestPlayEscAndCtrlC(t *testing.T) {
	g := newGame(t, 1)
	m := send(t, NewPlayModel(g, config.DefaultConfig().Display, 80, 24), keyEsc)
	assert.True(t, m.BackToMenu())

	m = send(t, NewPlayModel(g, config.DefaultConfig().Display, 80, 24), keyCtrlC)
	assert.True(t, m.IsQuitting())
}

func TestPlayHidesProgressAndStats(t *testing.T) {
	g := newGame(t, 1)
	display := config.DisplayConfig{ShowProgress: false, ShowStats: false}
	view := NewPlayModel(g, display, 80, 24).View()
	assert.NotContains(t, view, "cards left")

	display.ShowStats = true
	view = NewPlayModel(g, display, 80, 24).View()
	assert.Contains(t, view, "cards left 13")
}

func TestSessionFlowRecordsRun(t *testing.T) {
	store := openStore(t)
	rec := NewRecorder(store, nil, "ada", storage.FrontendTerminal)
	m := NewSessionModel(SessionOptions{
		Store:    store,
		Recorder: rec,
		Display:  config.DefaultConfig().Display,
		Seed:     3,
		Width:    80,
		Height:   24,
	})
	assert.Nil(t, m.Game())

	// Pick level 2
	m = send(t, m, keyDown, keyEnter)
	g := m.Game()
	require.NotNil(t, g)
	assert.Equal(t, 2, g.Snapshot().Level)

	m = send(t, m, keyRunes(correctAnswer(t, g)), keyEnter, keyRunes("oops"), keyEnter)
	m = send(t, m, keyEsc)
	assert.Nil(t, m.Game(), "back on the level list")

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ada", runs[0].Player)
	assert.Equal(t, 2, runs[0].StartLevel)
	assert.Equal(t, 1, runs[0].Correct)
	assert.Equal(t, 1, runs[0].Invalid)

	// History screen lists it
	m = send(t, m, keyTab)
	assert.Len(t, m.history.Runs(), 1)
	assert.Contains(t, m.View(), "HISTORY")
	m = send(t, m, keyEsc)
	assert.Contains(t, m.View(), "Choose a level")
}

func TestSessionSkipsUnansweredGames(t *testing.T) {
	store := openStore(t)
	m := NewSessionModel(SessionOptions{Store: store, Level: 4, Width: 80, Height: 24})
	require.NotNil(t, m.Game(), "a preset level skips the menu")

	m = send(t, m, keyEsc)
	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSessionNewGameAfterWin(t *testing.T) {
	store := openStore(t)
	m := NewSessionModel(SessionOptions{Store: store, Level: drill.MaxLevel, Width: 80, Height: 24})
	first := m.Game()

	for i := 0; i < drill.TargetScore; i++ {
		m = send(t, m, keyRunes(correctAnswer(t, first)), keyEnter)
	}
	require.Equal(t, drill.PhaseWon, first.Phase())

	// Recorded as soon as the game is won
	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Won)

	m = send(t, m, keyEsc, keyEnter)
	second := m.Game()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, drill.PhasePlaying, second.Phase())

	runs, err = store.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "the won game is recorded once")
}

func TestRecorderWithoutStore(t *testing.T) {
	rec := NewRecorder(nil, nil, "", storage.FrontendSSH)
	g := newGame(t, 1)
	rec.Track(g)
	g.Submit("1")
	rec.Finish()
	rec.Finish()
}

func TestHistoryModelViews(t *testing.T) {
	store := openStore(t)
	store.SaveRun(storage.RunRecord{Player: "low", Frontend: "web", StartLevel: 1, FinalLevel: 2, Correct: 30})
	store.SaveRun(storage.RunRecord{Player: "champ", Frontend: "ssh", StartLevel: 12, FinalLevel: 14, Won: true, Correct: 45})
	store.SaveRun(storage.RunRecord{Player: "newest", Frontend: "terminal", StartLevel: 1, FinalLevel: 1})

	m := NewHistoryModel(store, 100, 30)
	require.Len(t, m.Runs(), 3)
	assert.Equal(t, "newest", m.Runs()[0].Player)
	assert.Contains(t, m.View(), "Recent runs")
	assert.Contains(t, m.View(), "3 runs")

	m = send(t, m, keyTab)
	assert.Equal(t, "champ", m.Runs()[0].Player)
	assert.Contains(t, m.View(), "Best runs")

	m = send(t, m, keyEsc)
	assert.True(t, m.IsGoingBack())
}

func TestHistoryModelWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 80, 24)
	assert.Empty(t, m.Runs())
	assert.Contains(t, m.View(), "History is turned off.")
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows([]storage.RunRecord{
		{Frontend: "web", StartLevel: 3, FinalLevel: 5, Won: false, Correct: 7, Incorrect: 2},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "-", rows[0][1])
	assert.Equal(t, "3-5", rows[0][3])
	assert.Equal(t, "", rows[0][4])
}
