package storage

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

func TestRunFromSnapshot(t *testing.T) {
	g := drill.NewWithRand(rand.New(rand.NewSource(5)))

	if Worth(g.Snapshot()) {
		t.Error("Unselected game should not be recorded")
	}

	if err := g.SelectLevel(4); err != nil {
		t.Fatalf("SelectLevel() failed: %v", err)
	}
	if Worth(g.Snapshot()) {
		t.Error("Game without answers should not be recorded")
	}

	g.Submit("nope")
	g.Submit("-50")
	snap := g.Snapshot()
	if !Worth(snap) {
		t.Fatal("Game with answers should be recorded")
	}

	run := RunFromSnapshot("ada", FrontendSSH, snap, time.Now().Add(-3*time.Second))
	if run.Player != "ada" || run.Frontend != FrontendSSH {
		t.Errorf("Unexpected identity: %+v", run)
	}
	if run.StartLevel != 4 || run.FinalLevel != 4 {
		t.Errorf("Expected levels 4/4, got %d/%d", run.StartLevel, run.FinalLevel)
	}
	if run.Invalid != 1 || run.Incorrect != 1 || run.Restarts != 1 {
		t.Errorf("Unexpected counters: %+v", run)
	}
	if run.DurationSecs < 2 || run.DurationSecs > 4 {
		t.Errorf("Expected about 3 seconds, got %d", run.DurationSecs)
	}
	if run.Won {
		t.Error("Run should not be won")
	}

	if d := RunFromSnapshot("", FrontendWeb, snap, time.Time{}).DurationSecs; d != 0 {
		t.Errorf("Expected zero duration without a start time, got %d", d)
	}
}
