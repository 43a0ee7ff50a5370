package drill

// Snapshot is a read-only view of a game for presentation layers.
type Snapshot struct {
	Phase      Phase    `json:"phase"`
	Level      int      `json:"level"`
	LevelName  string   `json:"level_name"`
	Score      int      `json:"score"`
	Target     int      `json:"target"`
	Progress   float64  `json:"progress"` // Score/Target clamped to [0, 1]
	HasProblem bool     `json:"has_problem"`
	Problem    Problem  `json:"problem"`
	Feedback   Feedback `json:"feedback"`
	Message    string   `json:"message"`
	Won        bool     `json:"won"`
	Remaining  int      `json:"remaining"` // Problems left in the deck, including the current one
	Stats      Stats    `json:"stats"`
}

// Snapshot returns the current game state. Reading the snapshot deals a new
// deck if the previous one ran out.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureDeck()

	snap := Snapshot{
		Phase:     g.phase,
		Level:     g.level,
		LevelName: LevelName(g.level),
		Score:     g.score,
		Target:    TargetScore,
		Progress:  Progress(g.score),
		Feedback:  g.feedback,
		Message:   g.feedback.Message(),
		Won:       g.phase == PhaseWon,
		Remaining: len(g.deck),
		Stats:     g.stats,
	}
	if g.phase == PhasePlaying {
		snap.Problem, snap.HasProblem = g.deck.Head()
	}
	return snap
}

// Progress converts a score to a fraction of TargetScore in [0, 1].
func Progress(score int) float64 {
	p := float64(score) / float64(TargetScore)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
