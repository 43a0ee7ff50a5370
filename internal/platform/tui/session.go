package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/drill"
	"github.com/vovakirdan/mathfacts/internal/logging"
	"github.com/vovakirdan/mathfacts/internal/storage"
)

// Recorder saves the current game to the run history once it ends.
// It is shared by pointer so the SSH server can flush it on disconnect.
type Recorder struct {
	mu       sync.Mutex
	store    *storage.Store
	logger   *log.Logger
	player   string
	frontend string
	game     *drill.Game
	started  time.Time
	saved    bool
}

// NewRecorder creates a recorder. A nil store makes it a no-op.
func NewRecorder(store *storage.Store, logger *log.Logger, player, frontend string) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{
		store:    store,
		logger:   logger,
		player:   player,
		frontend: frontend,
	}
}

// Track starts following a new game, finishing the previous one first.
func (r *Recorder) Track(g *drill.Game) {
	r.Finish()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.game = g
	r.started = time.Now()
	r.saved = false
}

// Finish records the tracked game if it saw any answers. Later calls are no-ops
// until Track is called again.
func (r *Recorder) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game == nil || r.saved {
		return
	}
	r.saved = true

	snap := r.game.Snapshot()
	if r.store == nil || !storage.Worth(snap) {
		return
	}

	run := storage.RunFromSnapshot(r.player, r.frontend, snap, r.started)
	id, err := r.store.SaveRun(run)
	if err != nil {
		r.logger.Warn("could not record run", "player", r.player, "error", err)
		return
	}
	r.logger.Info("run recorded",
		"id", id,
		"player", r.player,
		"start", run.StartLevel,
		"final", run.FinalLevel,
		"won", run.Won,
	)
}

type screen int

const (
	screenLevels screen = iota
	screenPlay
	screenHistory
)

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Store    *storage.Store
	Recorder *Recorder
	Display  config.DisplayConfig
	Seed     int64 // 0 picks a time-based seed per game
	Level    int   // Skip the level list when set
	Width    int
	Height   int
}

// SessionModel manages the full flow: levels -> play -> levels, plus history.
// It is the top-level model for local and SSH sessions.
type SessionModel struct {
	opts     SessionOptions
	screen   screen
	menu     LevelMenuModel
	play     PlayModel
	history  HistoryModel
	games    int
	width    int
	height   int
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Recorder == nil {
		opts.Recorder = NewRecorder(opts.Store, nil, "", storage.FrontendTerminal)
	}

	m := SessionModel{
		opts:   opts,
		width:  opts.Width,
		height: opts.Height,
		menu:   NewLevelMenuModel(opts.Width, opts.Height),
	}

	if drill.ValidLevel(opts.Level) {
		m.startGame(opts.Level)
	}
	return m
}

// startGame creates a fresh game at level and switches to the play screen.
func (m *SessionModel) startGame(level int) {
	seed := m.opts.Seed
	if seed != 0 {
		seed += int64(m.games)
	}
	m.games++

	g := drill.New(seed)
	if err := g.SelectLevel(level); err != nil {
		// The menu only offers valid levels
		return
	}

	m.opts.Recorder.Track(g)
	m.play = NewPlayModel(g, m.opts.Display, m.width, m.height)
	m.screen = screenPlay
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenPlay {
		return m.play.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menu, ok := newMenu.(LevelMenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		m.history = NewHistoryModel(m.opts.Store, m.width, m.height)
		m.menu = NewLevelMenuModel(m.width, m.height)
		m.screen = screenHistory
		return m, nil
	}

	if level := m.menu.Selected(); level != 0 {
		m.startGame(level)
		return m, m.play.Init()
	}

	return m, cmd
}

func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPlay, cmd := m.play.Update(msg)
	if play, ok := newPlay.(PlayModel); ok {
		m.play = play
	}

	// Record as soon as the game is won
	if m.play.Game().Phase() == drill.PhaseWon {
		m.opts.Recorder.Finish()
	}

	if m.play.IsQuitting() {
		m.opts.Recorder.Finish()
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.opts.Recorder.Finish()
		m.menu = NewLevelMenuModel(m.width, m.height)
		m.screen = screenLevels
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newHistory, cmd := m.history.Update(msg)
	if history, ok := newHistory.(HistoryModel); ok {
		m.history = history
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.screen = screenLevels
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenHistory:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// Game returns the game on the play screen, or nil.
func (m SessionModel) Game() *drill.Game {
	if m.screen != screenPlay {
		return nil
	}
	return m.play.Game()
}

// Run plays a local session in the terminal until the player quits.
func Run(opts SessionOptions) error {
	if opts.Recorder == nil {
		opts.Recorder = NewRecorder(opts.Store, nil, "", storage.FrontendTerminal)
	}
	model := NewSessionModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	opts.Recorder.Finish()
	return err
}
