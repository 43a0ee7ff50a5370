package drill

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidLevel is returned for a level outside [MinLevel, MaxLevel].
	ErrInvalidLevel = errors.New("drill: invalid level")
	// ErrNoLevelSelected is returned by Submit before SelectLevel.
	ErrNoLevelSelected = errors.New("drill: no level selected")
	// ErrLevelAlreadySelected is returned by SelectLevel once play has started.
	ErrLevelAlreadySelected = errors.New("drill: level already selected")
	// ErrGameWon is returned by any command after the final level is cleared.
	ErrGameWon = errors.New("drill: game already won")
	// ErrInvalidAnswer marks answer text that is not an integer.
	ErrInvalidAnswer = errors.New("drill: answer is not a number")
)

// ParseAnswer converts raw answer text to an integer. Surrounding whitespace
// and a leading sign are accepted.
func ParseAnswer(raw string) (int, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, ErrInvalidAnswer
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAnswer, text)
	}
	return value, nil
}
