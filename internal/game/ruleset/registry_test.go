package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

func TestDefaultRegistry_HasThreeClasses(t *testing.T) {
	reg := ruleset.DefaultRegistry()
	assert.Equal(t, []string{ruleset.Warrior, ruleset.Mage, ruleset.Archer}, reg.IDs())
}

func TestDefaultRegistry_WarriorProfile(t *testing.T) {
	p := ruleset.DefaultRegistry().Profile(ruleset.Warrior)
	require.NotNil(t, p)
	assert.Equal(t, 15.0, p.HealthPerLevel)
	assert.Equal(t, 2.0, p.Attack.Strength)
	assert.Equal(t, 0.5, p.DefenseStrength)
}

func TestDefaultRegistry_MageAndArcherWeights(t *testing.T) {
	reg := ruleset.DefaultRegistry()
	assert.Equal(t, 2.5, reg.Profile(ruleset.Mage).Attack.Magic)
	assert.Equal(t, 2.0, reg.Profile(ruleset.Archer).Attack.Dexterity)
	assert.Zero(t, reg.Profile(ruleset.Mage).DefenseStrength)
}

func TestRegistry_ProfileUnknownIsNil(t *testing.T) {
	reg := ruleset.DefaultRegistry()
	assert.Nil(t, reg.Profile(""))
	assert.Nil(t, reg.Profile("bard"))
}

func TestRegistry_ProfileIsACopy(t *testing.T) {
	reg := ruleset.DefaultRegistry()
	p := reg.Profile(ruleset.Warrior)
	p.HealthPerLevel = 999
	assert.Equal(t, 15.0, reg.Profile(ruleset.Warrior).HealthPerLevel)
}

func TestScenario_WarriorLevelOneHealth(t *testing.T) {
	d := stats.Derive(stats.Attributes{Strength: 15}, 1, ruleset.DefaultRegistry().Profile(ruleset.Warrior))
	assert.Equal(t, 150.0, d.MaxHealth)
}

func TestLoadClasses_FromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(`
- id: paladin
  name: Paladin
  health_per_level: 12
  attack:
    strength: 1.5
    magic: 1
  defense_strength: 0.25
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	classes, err := ruleset.LoadClasses(dir)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "paladin", classes[0].ID)
	assert.Equal(t, 1.5, classes[0].Attack.Strength)
}

func TestLoadClassesFromBytes_RejectsUnknownField(t *testing.T) {
	_, err := ruleset.LoadClassesFromBytes([]byte("- id: x\n  name: X\n  mana_per_level: 3\n"))
	assert.Error(t, err)
}

func TestLoadClassesFromBytes_RejectsNegativeWeights(t *testing.T) {
	_, err := ruleset.LoadClassesFromBytes([]byte("- id: x\n  name: X\n  health_per_level: -1\n"))
	assert.Error(t, err)
}
