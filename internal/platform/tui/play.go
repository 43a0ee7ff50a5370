package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/drill"
)

const progressWidth = 40

// PlayModel is the answer screen for one game.
type PlayModel struct {
	game     *drill.Game
	input    textinput.Model
	bar      progress.Model
	help     help.Model
	keys     PlayKeyMap
	display  config.DisplayConfig
	banner   string
	width    int
	height   int
	back     bool
	quitting bool
}

// NewPlayModel creates the answer screen for a game that already has a level.
func NewPlayModel(game *drill.Game, display config.DisplayConfig, width, height int) PlayModel {
	ti := textinput.New()
	ti.Placeholder = "type your answer"
	ti.Prompt = "> "
	ti.CharLimit = 8
	ti.Width = 20
	ti.Focus()

	return PlayModel{
		game:    game,
		input:   ti,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		help:    help.New(),
		keys:    DefaultPlayKeyMap(),
		display: display,
		width:   width,
		height:  height,
	}
}

// Init starts the cursor blinking.
func (m PlayModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.game.Phase() == drill.PhaseWon {
			return m.handleWinKey(msg)
		}
		return m.handlePlayKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PlayModel) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.back = true
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PlayModel) handleWinKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Leave):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewGame):
		m.back = true
	}
	return m, nil
}

// submit sends the typed text to the game and clears the input.
func (m *PlayModel) submit() {
	out, err := m.game.Submit(m.input.Value())
	m.input.Reset()
	if err != nil {
		m.banner = err.Error()
		return
	}

	switch {
	case out.Won:
		m.banner = ""
	case out.Advanced:
		m.banner = fmt.Sprintf("Level %d complete! Now playing level %d: %s",
			out.LevelBefore, out.LevelAfter, drill.LevelName(out.LevelAfter))
	case out.Restarted:
		m.banner = fmt.Sprintf("Score fell below zero. Level %d starts over.", out.LevelAfter)
	case out.Valid:
		m.banner = ""
	}
}

// View renders the answer or victory screen.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.game.Snapshot()
	if snap.Won {
		return m.viewWin(snap)
	}
	return m.viewPlay(snap)
}

func (m PlayModel) viewPlay(snap drill.Snapshot) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(fmt.Sprintf("Level %d: %s", snap.Level, snap.LevelName)), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(subtleStyle.Render("Type the sum and press enter."), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(fmt.Sprintf("Score: %d / %d", snap.Score, snap.Target), m.width))
	b.WriteString("\n")
	if m.display.ShowProgress {
		b.WriteString(centerText(m.bar.ViewAs(snap.Progress), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(centerText(bannerStyle.Render(m.banner), m.width))
		b.WriteString("\n\n")
	}

	if snap.HasProblem {
		b.WriteString(centerBlock(problemStyle.Render(fmt.Sprintf("What is %s?", snap.Problem)), m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n\n")

	if fb := renderFeedback(snap.Feedback); fb != "" {
		b.WriteString(centerText(fb, m.width))
		b.WriteString("\n")
	}

	if m.display.ShowStats {
		st := snap.Stats
		b.WriteString(centerText(subtleStyle.Render(fmt.Sprintf(
			"correct %d  wrong %d  restarts %d  cards left %d",
			st.Correct, st.Incorrect, st.Restarts, snap.Remaining)), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))

	return b.String()
}

func (m PlayModel) viewWin(snap drill.Snapshot) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(centerBlock(winStyle.Render(drill.FeedbackWon.Message()), m.width))
	b.WriteString("\n\n")

	st := snap.Stats
	lines := []string{
		fmt.Sprintf("Started at level %d, cleared %d levels", st.StartLevel, st.LevelsCleared),
		fmt.Sprintf("%d of %d answers correct (%.0f%%)", st.Correct, st.Answered, st.Accuracy()*100),
	}
	if st.Restarts > 0 {
		lines = append(lines, fmt.Sprintf("%d restarts along the way", st.Restarts))
	}
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(winKeys{m.keys}), m.width))

	return b.String()
}

// Game returns the game shown by this screen.
func (m PlayModel) Game() *drill.Game {
	return m.game
}

// BackToMenu returns true if the player left for the level list.
func (m PlayModel) BackToMenu() bool {
	return m.back
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}
