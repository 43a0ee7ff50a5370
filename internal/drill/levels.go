// Package drill implements the addition-facts drill: a deck of addend pairs
// per level and the score/level progression rules around it.
//
// The package has no UI dependencies. Presentation layers call SelectLevel and
// Submit and render from Snapshot.
package drill

import "fmt"

const (
	// MinLevel is the first level.
	MinLevel = 1
	// MaxLevel is the final, mixed level.
	MaxLevel = 14
	// TargetScore is the score that clears a level.
	TargetScore = 15
	// MaxAddend is the largest addend used by any problem.
	MaxAddend = 12
)

// Level describes a single drill level.
type Level struct {
	ID   int
	Name string
}

// Levels lists all levels in order. Levels 1-13 fix the first addend at
// ID-1; level 14 mixes every pair.
var Levels = buildLevels()

func buildLevels() []Level {
	levels := make([]Level, 0, MaxLevel)
	for id := MinLevel; id < MaxLevel; id++ {
		levels = append(levels, Level{ID: id, Name: fmt.Sprintf("Plus %d", id-1)})
	}
	return append(levels, Level{ID: MaxLevel, Name: "Mixed Facts"})
}

// LevelCount returns the number of levels.
func LevelCount() int {
	return len(Levels)
}

// ValidLevel reports whether level is in [MinLevel, MaxLevel].
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// GetLevel returns the level with the given ID, or nil if out of range.
func GetLevel(id int) *Level {
	if !ValidLevel(id) {
		return nil
	}
	return &Levels[id-MinLevel]
}

// LevelName returns the display name for a level, or "" if out of range.
func LevelName(id int) string {
	if lvl := GetLevel(id); lvl != nil {
		return lvl.Name
	}
	return ""
}

// DeckSize returns how many problems a fresh deck for level holds.
func DeckSize(level int) int {
	switch {
	case !ValidLevel(level):
		return 0
	case level == MaxLevel:
		return (MaxAddend + 1) * (MaxAddend + 1)
	default:
		return MaxAddend + 1
	}
}
