package drill

import (
	"fmt"
	"math/rand"
)

// Problem is an ordered pair of addends.
type Problem struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Sum returns the expected answer.
func (p Problem) Sum() int {
	return p.A + p.B
}

// String renders the problem as "A + B".
func (p Problem) String() string {
	return fmt.Sprintf("%d + %d", p.A, p.B)
}

// Deck is the ordered list of unanswered problems for a level.
type Deck []Problem

// Head returns the first problem and true, or false if the deck is empty.
func (d Deck) Head() (Problem, bool) {
	if len(d) == 0 {
		return Problem{}, false
	}
	return d[0], true
}

// Generate builds a shuffled deck for level, using rng for the permutation.
// Every level-appropriate pair appears exactly once.
func Generate(level int, rng *rand.Rand) (Deck, error) {
	if !ValidLevel(level) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return buildDeck(level, rng), nil
}

// buildDeck is Generate without the range check.
func buildDeck(level int, rng *rand.Rand) Deck {
	deck := make(Deck, 0, DeckSize(level))
	if level == MaxLevel {
		for a := 0; a <= MaxAddend; a++ {
			for b := 0; b <= MaxAddend; b++ {
				deck = append(deck, Problem{A: a, B: b})
			}
		}
	} else {
		base := level - 1
		for b := 0; b <= MaxAddend; b++ {
			deck = append(deck, Problem{A: base, B: b})
		}
	}

	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
