package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

// LevelMenuModel lets the player choose a starting level.
type LevelMenuModel struct {
	cursor      int
	width       int
	height      int
	keyMapper   *KeyMapper
	selected    int // 0 while choosing
	quitting    bool
	wantHistory bool
}

// NewLevelMenuModel creates a new level selection model.
func NewLevelMenuModel(width, height int) LevelMenuModel {
	return LevelMenuModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Digits jump straight to a level: 1-9, then 0 for level 10.
	if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		n := int(s[0] - '0')
		if n == 0 {
			n = 10
		}
		m.cursor = n - 1
		return m, nil
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < drill.LevelCount()-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.selected = m.cursor + 1
	case MenuActionHistory:
		m.wantHistory = true
	}

	return m, nil
}

// View renders the level list.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("M A T H   F A C T S"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose a level to start:", m.width))
	b.WriteString("\n\n")

	for i, lvl := range drill.Levels {
		cursor := "  "
		line := fmt.Sprintf("%2d. %-12s %3d problems", lvl.ID, lvl.Name, drill.DeckSize(lvl.ID))
		if i == m.cursor {
			cursor = "> "
			line = cursorStyle.Render(line)
		}
		b.WriteString(centerText(cursor+line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(subtleStyle.Render(
		fmt.Sprintf("Get %d points to clear a level. A wrong answer at 0 restarts it.", drill.TargetScore)), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(subtleStyle.Render("Enter: Start  |  Tab: History  |  Q: Quit"), m.width))

	return b.String()
}

// Selected returns the chosen level, or 0 if still choosing.
func (m LevelMenuModel) Selected() int {
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if the user asked for the run history.
func (m LevelMenuModel) WantsHistory() bool {
	return m.wantHistory
}
