package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

// Session is one browser's game. Every command on the game, and every swap
// of it, happens under the session lock, so a reset or an eviction never
// interleaves with an answer. lastSeen and flash are guarded by the store.
type Session struct {
	ID string

	mu      sync.Mutex
	game    *drill.Game
	started time.Time
	ended   bool

	lastSeen time.Time
	flash    string
}

// Player is the label recorded in the run history for this session.
func (s *Session) Player() string {
	return "web-" + s.ID[:8]
}

// use runs fn with the current game while holding the session lock. It
// reports false without calling fn once the session has ended.
func (s *Session) use(fn func(g *drill.Game)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return false
	}
	fn(s.game)
	return true
}

// end takes the game out of play for good.
func (s *Session) end() (EndedGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return EndedGame{}, false
	}
	s.ended = true
	return s.endedGame(), true
}

func (s *Session) endedGame() EndedGame {
	return EndedGame{
		SessionID: s.ID,
		Player:    s.Player(),
		Game:      s.game,
		Started:   s.started,
	}
}

// EndedGame is a game that left play. No request can reach Game any more.
type EndedGame struct {
	SessionID string
	Player    string
	Game      *drill.Game
	Started   time.Time
}

// EndFunc is called, outside every lock, for each game that ends: evicted
// sessions, reset games and sessions still open at shutdown.
type EndFunc func(e EndedGame)

// SessionStore maps session IDs to sessions and evicts idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	seed     int64
	created  int64
	onEnd    EndFunc
	now      func() time.Time
}

// NewSessionStore creates a store that evicts sessions idle for longer than
// idle. A non-zero seed makes games deterministic, offset per session.
func NewSessionStore(idle time.Duration, seed int64, onEnd EndFunc) *SessionStore {
	if onEnd == nil {
		onEnd = func(EndedGame) {}
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		idle:     idle,
		seed:     seed,
		onEnd:    onEnd,
		now:      time.Now,
	}
}

func (st *SessionStore) setClock(now func() time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.now = now
}

func (st *SessionStore) clock() time.Time {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.now()
}

// newGameLocked must be called with st.mu held.
func (st *SessionStore) newGameLocked() *drill.Game {
	seed := st.seed
	if seed != 0 {
		seed += st.created
	}
	st.created++
	return drill.New(seed)
}

// Create starts a new session with an unselected game.
func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	s := &Session{
		ID:       uuid.NewString(),
		game:     st.newGameLocked(),
		started:  now,
		lastSeen: now,
	}
	st.sessions[s.ID] = s
	return s
}

// Get returns the session for id and marks it as active.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if ok {
		s.lastSeen = st.now()
	}
	return s, ok
}

// Reset replaces the session's game with a fresh unselected one and returns
// the new game. The old game is handed to the end callback once no request
// can touch it.
func (st *SessionStore) Reset(id string) (*drill.Game, bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, false
	}
	old := s.endedGame()

	st.mu.Lock()
	now := st.now()
	s.game = st.newGameLocked()
	s.started = now
	s.lastSeen = now
	s.flash = ""
	st.mu.Unlock()

	game := s.game
	s.mu.Unlock()

	st.onEnd(old)
	return game, true
}

// Restarted notes that the session's game started play at this moment. The
// caller holds the session lock.
func (st *SessionStore) Restarted(s *Session) {
	s.started = st.clock()
}

// SetFlash stores a one-shot message shown on the next page render.
func (st *SessionStore) SetFlash(id, msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		s.flash = msg
	}
}

// TakeFlash returns and clears the session's flash message.
func (st *SessionStore) TakeFlash(id string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return ""
	}
	msg := s.flash
	s.flash = ""
	return msg
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle longer than the timeout and returns how many
// were removed. A request already holding an evicted session finishes its
// command before the game is ended.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	cutoff := st.now().Add(-st.idle)
	var evicted []*Session
	for id, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			evicted = append(evicted, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	st.endAll(evicted)
	return len(evicted)
}

// Run sweeps on every tick until ctx is cancelled.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// CloseAll ends every session. Used at shutdown.
func (st *SessionStore) CloseAll() {
	st.mu.Lock()
	all := make([]*Session, 0, len(st.sessions))
	for id, s := range st.sessions {
		all = append(all, s)
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	st.endAll(all)
}

func (st *SessionStore) endAll(sessions []*Session) {
	for _, s := range sessions {
		if e, ok := s.end(); ok {
			st.onEnd(e)
		}
	}
}
