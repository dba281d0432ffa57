package pvp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/pvp"
)

func TestRankFor_Boundaries(t *testing.T) {
	assert.Equal(t, "Novice", pvp.RankFor(0).Name)
	assert.Equal(t, "Novice", pvp.RankFor(49).Name)
	assert.Equal(t, "Apprentice", pvp.RankFor(50).Name)
	assert.Equal(t, "Veteran", pvp.RankFor(599).Name)
	assert.Equal(t, "Grandmaster", pvp.RankFor(2500).Name)
	assert.Equal(t, "Grandmaster", pvp.RankFor(1_000_000).Name)
	assert.Equal(t, "Novice", pvp.RankFor(-5).Name)
}

func TestRank_Next(t *testing.T) {
	next, ok := pvp.RankFor(0).Next()
	assert.True(t, ok)
	assert.Equal(t, 50, next.Threshold)

	_, ok = pvp.RankFor(3000).Next()
	assert.False(t, ok)
}

func TestProperty_RankMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 5000).Draw(rt, "a")
		b := rapid.IntRange(a, 5000).Draw(rt, "b")
		if pvp.RankFor(a).Tier > pvp.RankFor(b).Tier {
			rt.Fatalf("rank(%d) above rank(%d)", a, b)
		}
	})
}
