package drill

import (
	"math/rand"
	"sync"
	"time"
)

// Phase is the coarse state of a game.
type Phase string

const (
	PhaseUnselected Phase = "unselected"
	PhasePlaying    Phase = "playing"
	PhaseWon        Phase = "won"
)

// Stats accumulates counters for one game, from level selection onward.
type Stats struct {
	StartLevel    int `json:"start_level"`
	HighestLevel  int `json:"highest_level"`
	Answered      int `json:"answered"`
	Correct       int `json:"correct"`
	Incorrect     int `json:"incorrect"`
	Invalid       int `json:"invalid"`
	Restarts      int `json:"restarts"`
	LevelsCleared int `json:"levels_cleared"`
}

// Accuracy returns the fraction of parsed answers that were correct.
func (s Stats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Outcome describes what a single Submit call did.
type Outcome struct {
	Problem     Problem  `json:"problem"`
	Value       int      `json:"value"`
	Valid       bool     `json:"valid"`
	Correct     bool     `json:"correct"`
	Feedback    Feedback `json:"feedback"`
	LevelBefore int      `json:"level_before"`
	LevelAfter  int      `json:"level_after"`
	Score       int      `json:"score"`
	Restarted   bool     `json:"restarted"`
	Advanced    bool     `json:"advanced"`
	Won         bool     `json:"won"`
}

// Game holds the state of one player's drill. All methods are safe for
// concurrent use; calls are serialized.
type Game struct {
	mu sync.Mutex

	rng      *rand.Rand
	phase    Phase
	level    int
	score    int
	deck     Deck
	feedback Feedback
	stats    Stats
}

// New creates an unselected game. A zero seed uses the current time.
func New(seed int64) *Game {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

// NewWithRand creates an unselected game that shuffles decks with rng.
func NewWithRand(rng *rand.Rand) *Game {
	return &Game{
		rng:   rng,
		phase: PhaseUnselected,
	}
}

// SelectLevel starts play at level with a zero score and a fresh deck.
// It is only valid once, before any answer is submitted.
func (g *Game) SelectLevel(level int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case PhaseWon:
		return ErrGameWon
	case PhasePlaying:
		return ErrLevelAlreadySelected
	}

	deck, err := Generate(level, g.rng)
	if err != nil {
		return err
	}

	g.phase = PhasePlaying
	g.level = level
	g.score = 0
	g.deck = deck
	g.feedback = FeedbackNone
	g.stats = Stats{StartLevel: level, HighestLevel: level}
	return nil
}

// Submit answers the current problem with raw text.
//
// Text that does not parse as an integer only sets FeedbackInvalidInput; the
// problem stays in place. Any parsed answer moves the score by one, consumes
// the problem, and then restarts the level (score below zero) or advances
// (score at TargetScore), in that order.
func (g *Game) Submit(raw string) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case PhaseUnselected:
		return Outcome{}, ErrNoLevelSelected
	case PhaseWon:
		return Outcome{}, ErrGameWon
	}

	g.ensureDeck()
	problem, _ := g.deck.Head()

	out := Outcome{
		Problem:     problem,
		LevelBefore: g.level,
	}

	value, err := ParseAnswer(raw)
	if err != nil {
		g.feedback = FeedbackInvalidInput
		g.stats.Invalid++
		out.Feedback = g.feedback
		out.LevelAfter = g.level
		out.Score = g.score
		return out, nil
	}

	out.Valid = true
	out.Value = value
	g.stats.Answered++
	if value == problem.Sum() {
		out.Correct = true
		g.score++
		g.stats.Correct++
		g.feedback = FeedbackCorrect
	} else {
		g.score--
		g.stats.Incorrect++
		g.feedback = FeedbackIncorrect
	}

	g.deck = g.deck[1:]

	switch {
	case g.score < 0:
		g.restartLevel()
		out.Restarted = true
	case g.score >= TargetScore:
		g.advanceLevel()
		out.Advanced = g.phase == PhasePlaying
		out.Won = g.phase == PhaseWon
	}

	out.Feedback = g.feedback
	out.LevelAfter = g.level
	out.Score = g.score
	return out, nil
}

// restartLevel resets score and deck without changing the level.
func (g *Game) restartLevel() {
	g.score = 0
	g.deck = buildDeck(g.level, g.rng)
	g.feedback = FeedbackRestarted
	g.stats.Restarts++
}

// advanceLevel moves to the next level, or ends the game after MaxLevel.
func (g *Game) advanceLevel() {
	g.stats.LevelsCleared++

	if g.level >= MaxLevel {
		g.phase = PhaseWon
		g.deck = nil
		g.feedback = FeedbackWon
		return
	}

	g.level++
	if g.level > g.stats.HighestLevel {
		g.stats.HighestLevel = g.level
	}
	g.score = 0
	g.deck = buildDeck(g.level, g.rng)
	g.feedback = FeedbackAdvanced
}

// ensureDeck deals a fresh deck for the current level once the old one is
// used up. Exhausting a deck never clears a level.
func (g *Game) ensureDeck() {
	if g.phase == PhasePlaying && len(g.deck) == 0 {
		g.deck = buildDeck(g.level, g.rng)
	}
}

// CurrentProblem returns the problem awaiting an answer. It is false before
// a level is selected and after the game is won.
func (g *Game) CurrentProblem() (Problem, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureDeck()
	if g.phase != PhasePlaying {
		return Problem{}, false
	}
	return g.deck.Head()
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Stats returns a copy of the game counters.
func (g *Game) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}
