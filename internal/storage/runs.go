package storage

import (
	"time"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

// Front ends that record runs.
const (
	FrontendTerminal = "terminal"
	FrontendSSH      = "ssh"
	FrontendWeb      = "web"
)

// Worth reports whether a game has enough activity to be recorded.
// Games abandoned before the first answer are dropped.
func Worth(snap drill.Snapshot) bool {
	return snap.Phase != drill.PhaseUnselected && snap.Stats.Answered+snap.Stats.Invalid > 0
}

// RunFromSnapshot builds the history record for a game that is ending.
func RunFromSnapshot(player, frontend string, snap drill.Snapshot, started time.Time) RunRecord {
	dur := 0
	if !started.IsZero() {
		dur = int(time.Since(started).Round(time.Second) / time.Second)
	}

	return RunRecord{
		Player:       player,
		Frontend:     frontend,
		StartLevel:   snap.Stats.StartLevel,
		FinalLevel:   snap.Level,
		Won:          snap.Won,
		Correct:      snap.Stats.Correct,
		Incorrect:    snap.Stats.Incorrect,
		Invalid:      snap.Stats.Invalid,
		Restarts:     snap.Stats.Restarts,
		DurationSecs: dur,
	}
}
