package drill

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedDeck(d Deck) Deck {
	out := append(Deck(nil), d...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func TestGenerateFixedAddendLevels(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for level := 1; level < MaxLevel; level++ {
		deck, err := Generate(level, rng)
		require.NoError(t, err)
		require.Len(t, deck, 13, "level %d", level)

		seen := make(map[int]bool)
		for _, p := range deck {
			assert.Equal(t, level-1, p.A, "level %d first addend", level)
			assert.False(t, seen[p.B], "level %d repeats %v", level, p)
			seen[p.B] = true
		}
		for b := 0; b <= MaxAddend; b++ {
			assert.True(t, seen[b], "level %d missing second addend %d", level, b)
		}
	}
}

func TestGenerateMixedLevel(t *testing.T) {
	deck, err := Generate(MaxLevel, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.Len(t, deck, 169)

	seen := make(map[Problem]bool)
	for _, p := range deck {
		require.False(t, seen[p], "duplicate pair %v", p)
		require.GreaterOrEqual(t, p.A, 0)
		require.LessOrEqual(t, p.A, MaxAddend)
		require.GreaterOrEqual(t, p.B, 0)
		require.LessOrEqual(t, p.B, MaxAddend)
		seen[p] = true
	}
	assert.Len(t, seen, 169)
}

func TestGenerateInvalidLevel(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, level := range []int{-1, 0, 15, 100} {
		deck, err := Generate(level, rng)
		assert.Nil(t, deck)
		assert.True(t, errors.Is(err, ErrInvalidLevel), "level %d: %v", level, err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	d1, err := Generate(MaxLevel, rand.New(rand.NewSource(12345)))
	require.NoError(t, err)
	d2, err := Generate(MaxLevel, rand.New(rand.NewSource(12345)))
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "same seed should produce the same order")
}

func TestGenerateIsPermutation(t *testing.T) {
	// The multiset of pairs does not depend on the shuffle.
	for _, level := range []int{1, 7, MaxLevel} {
		d1, err := Generate(level, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		d2, err := Generate(level, rand.New(rand.NewSource(99)))
		require.NoError(t, err)

		assert.Equal(t, sortedDeck(d1), sortedDeck(d2), "level %d", level)
	}
}

func TestDeckHead(t *testing.T) {
	var empty Deck
	_, ok := empty.Head()
	assert.False(t, ok)

	d := Deck{{A: 3, B: 4}, {A: 1, B: 1}}
	p, ok := d.Head()
	assert.True(t, ok)
	assert.Equal(t, Problem{A: 3, B: 4}, p)
	assert.Equal(t, 7, p.Sum())
	assert.Equal(t, "3 + 4", p.String())
}

func TestLevels(t *testing.T) {
	assert.Equal(t, 14, LevelCount())
	assert.Equal(t, "Plus 0", LevelName(1))
	assert.Equal(t, "Plus 12", LevelName(13))
	assert.Equal(t, "Mixed Facts", LevelName(14))
	assert.Equal(t, "", LevelName(0))
	assert.Nil(t, GetLevel(15))

	assert.Equal(t, 13, DeckSize(1))
	assert.Equal(t, 169, DeckSize(14))
	assert.Equal(t, 0, DeckSize(15))
}
