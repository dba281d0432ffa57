package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

func TestSnapshot_NormalizeFillsDefaults(t *testing.T) {
	cbt := character.Snapshot{ID: "x"}.Normalize(ruleset.DefaultRegistry())
	assert.Equal(t, 1, cbt.Level)
	assert.Equal(t, "x", cbt.Name)
	assert.Empty(t, cbt.Class)
	assert.Equal(t, stats.DefaultAttribute, cbt.Attributes.Dexterity)
	assert.Equal(t, cbt.Stats.HealthCap(), cbt.Health)
}

func TestSnapshot_NormalizeKeepsExplicitZero(t *testing.T) {
	zero := 0
	cbt := character.Snapshot{ID: "x", Attributes: stats.PartialAttributes{Agility: &zero, Luck: &zero}}.
		Normalize(ruleset.DefaultRegistry())
	assert.Zero(t, cbt.Attributes.Agility)
	assert.Zero(t, cbt.Stats.DodgeChance)
	assert.Zero(t, cbt.Stats.CriticalChance)
}

func TestSnapshot_UnknownClassIsUnclassed(t *testing.T) {
	cbt := character.Snapshot{ID: "x", Class: "bard"}.Normalize(ruleset.DefaultRegistry())
	assert.Empty(t, cbt.Class)
}

func TestLoadSnapshots(t *testing.T) {
	snaps, err := character.LoadSnapshots([]byte(`
- id: a
  name: Ayla
  class: archer
  level: 4
  attributes:
    dexterity: 18
  equipment:
    luck: 2
  health: 30
- id: b
`))
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	cbt := snaps[0].Normalize(ruleset.DefaultRegistry())
	assert.Equal(t, 4, cbt.Level)
	assert.Equal(t, 18, cbt.Attributes.Dexterity)
	assert.Equal(t, stats.DefaultAttribute+2, cbt.Attributes.Luck)
	assert.Equal(t, 30, cbt.Health)
}

func TestLoadSnapshots_RequiresID(t *testing.T) {
	_, err := character.LoadSnapshots([]byte("- name: nobody\n"))
	assert.Error(t, err)
}
