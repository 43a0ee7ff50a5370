package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

const maxBodyBytes = 1 << 10

// session returns the caller's session, starting a new one (and setting the
// cookie) when the cookie is missing, malformed or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.sessions.Get(c.Value); ok {
				return sess
			}
		}
	}

	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session created", "session", sess.ID)
	return sess
}

// withGame runs fn against the caller's current game under the session lock.
// A session evicted between lookup and lock is replaced by a fresh one.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(sess *Session, g *drill.Game)) *Session {
	for {
		sess := s.session(w, r)
		if sess.use(func(g *drill.Game) { fn(sess, g) }) {
			return sess
		}
		s.logger.Debug("session ended mid-request", "session", sess.ID)
	}
}

type levelOption struct {
	ID   int
	Name string
	Size int
}

type pageData struct {
	Snap         drill.Snapshot
	Levels       []levelOption
	Flash        string
	Tone         string
	ShowProgress bool
	ShowStats    bool
	Accuracy     float64
	MaxLevel     int
}

func levelOptions() []levelOption {
	opts := make([]levelOption, 0, drill.LevelCount())
	for _, lvl := range drill.Levels {
		opts = append(opts, levelOption{ID: lvl.ID, Name: lvl.Name, Size: drill.DeckSize(lvl.ID)})
	}
	return opts
}

func feedbackTone(f drill.Feedback) string {
	switch {
	case f == drill.FeedbackNone:
		return ""
	case f.Positive():
		return "good"
	default:
		return "bad"
	}
}

// friendlyError turns a game contract error into text for the page.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, drill.ErrInvalidLevel):
		return fmt.Sprintf("Choose a level from %d to %d.", drill.MinLevel, drill.MaxLevel)
	case errors.Is(err, drill.ErrNoLevelSelected):
		return "Choose a level first."
	case errors.Is(err, drill.ErrLevelAlreadySelected):
		return "A level is already in play. Start a new game to pick another."
	case errors.Is(err, drill.ErrGameWon):
		return "You already won! Start a new game to play again."
	default:
		return "Something went wrong."
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var snap drill.Snapshot
	sess := s.withGame(w, r, func(_ *Session, g *drill.Game) {
		snap = g.Snapshot()
	})

	data := pageData{
		Snap:         snap,
		Levels:       levelOptions(),
		Flash:        s.sessions.TakeFlash(sess.ID),
		Tone:         feedbackTone(snap.Feedback),
		ShowProgress: s.display.ShowProgress,
		ShowStats:    s.display.ShowStats,
		Accuracy:     snap.Stats.Accuracy(),
		MaxLevel:     drill.MaxLevel,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("cannot render page", "error", err)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.FormValue("level"))
	sess := s.withGame(w, r, func(sess *Session, g *drill.Game) {
		if err != nil {
			err = drill.ErrInvalidLevel
			return
		}
		err = s.startLevel(sess, g, level)
	})
	if err != nil {
		s.sessions.SetFlash(sess.ID, friendlyError(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	answer := r.FormValue("answer")
	var err error
	sess := s.withGame(w, r, func(sess *Session, g *drill.Game) {
		_, err = s.submit(sess, g, answer)
	})
	if err != nil {
		s.sessions.SetFlash(sess.ID, friendlyError(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.sessions.Reset(sess.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startLevel selects the level and restarts the session clock. The caller
// holds the session lock.
func (s *Server) startLevel(sess *Session, g *drill.Game, level int) error {
	if err := g.SelectLevel(level); err != nil {
		return err
	}
	s.sessions.Restarted(sess)
	s.metrics.ObserveStart()
	s.logger.Debug("level selected", "session", sess.ID, "level", level)
	return nil
}

func (s *Server) submit(sess *Session, g *drill.Game, raw string) (drill.Outcome, error) {
	out, err := g.Submit(raw)
	if err != nil {
		return out, err
	}
	s.metrics.ObserveOutcome(out)
	if out.Won {
		s.logger.Info("game won", "session", sess.ID)
	}
	return out, nil
}

type startRequest struct {
	Level int `json:"level"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse is the body returned by POST /api/answer.
type AnswerResponse struct {
	Outcome drill.Outcome  `json:"outcome"`
	State   drill.Snapshot `json:"state"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		RespondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	var snap drill.Snapshot
	s.withGame(w, r, func(_ *Session, g *drill.Game) {
		snap = g.Snapshot()
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAPIStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		snap drill.Snapshot
		err  error
	)
	s.withGame(w, r, func(sess *Session, g *drill.Game) {
		if err = s.startLevel(sess, g, req.Level); err == nil {
			snap = g.Snapshot()
		}
	})
	if err != nil {
		respondGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAPIAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		resp AnswerResponse
		err  error
	)
	s.withGame(w, r, func(sess *Session, g *drill.Game) {
		if resp.Outcome, err = s.submit(sess, g, req.Answer); err == nil {
			resp.State = g.Snapshot()
		}
	})
	if err != nil {
		respondGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if game, ok := s.sessions.Reset(sess.ID); ok {
		writeJSON(w, http.StatusOK, game.Snapshot())
		return
	}

	// Evicted mid-request; the replacement session already holds a new game.
	var snap drill.Snapshot
	s.withGame(w, r, func(_ *Session, g *drill.Game) {
		snap = g.Snapshot()
	})
	writeJSON(w, http.StatusOK, snap)
}
