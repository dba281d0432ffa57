package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

func TestDefaultCatalog_ThreeSkillsPerClass(t *testing.T) {
	cat := skill.DefaultCatalog()
	for _, class := range ruleset.DefaultRegistry().IDs() {
		skills := cat.ForClass(class)
		require.Len(t, skills, 3, class)
		effects := map[skill.EffectType]bool{}
		for _, s := range skills {
			assert.Equal(t, 1, s.MinLevel, s.ID)
			effects[s.Effect] = true
		}
		assert.True(t, effects[skill.EffectDamage], "%s needs a damage skill", class)
		assert.True(t, effects[skill.EffectBuff], "%s needs a buff skill", class)
		assert.True(t, effects[skill.EffectHeal] || effects[skill.EffectDebuff], "%s needs a heal or debuff", class)
	}
}

func TestCatalog_Get(t *testing.T) {
	s, ok := skill.DefaultCatalog().Get("fireball")
	require.True(t, ok)
	assert.Equal(t, ruleset.Mage, s.Class)
	assert.Equal(t, skill.EffectDamage, s.Effect)

	_, ok = skill.DefaultCatalog().Get("meteor")
	assert.False(t, ok)
}

func TestCatalog_AllSortedByID(t *testing.T) {
	all := skill.DefaultCatalog().All()
	require.Len(t, all, 9)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestLoadSkillsFromBytes_RejectsUnknownField(t *testing.T) {
	_, err := skill.LoadSkillsFromBytes([]byte(`
- id: x
  name: X
  class: warrior
  min_level: 1
  effect: damage
  value: 1
  splash: true
`))
	assert.Error(t, err)
}

func TestLoadSkillsFromBytes_RejectsBuffWithoutDuration(t *testing.T) {
	_, err := skill.LoadSkillsFromBytes([]byte(`
- id: x
  name: X
  class: warrior
  min_level: 1
  effect: buff
  modifier: attack
  value: 0.2
`))
	assert.ErrorContains(t, err, "duration")
}

func TestLoadSkillsFromBytes_RejectsStatDebuff(t *testing.T) {
	_, err := skill.LoadSkillsFromBytes([]byte(`
- id: x
  name: X
  class: mage
  min_level: 1
  effect: debuff
  modifier: defense
  value: 0.2
  duration: 2
`))
	assert.Error(t, err)
}

func TestLoadSkills_FromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yml"), []byte(`
- id: cleave
  name: Cleave
  class: warrior
  min_level: 5
  mana_cost: 25
  cooldown: 3
  effect: damage
  value: 2.0
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	skills, err := skill.LoadSkills(dir)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, 5, skills[0].MinLevel)
}

func TestCooldowns_TickRemovesExpired(t *testing.T) {
	cds := skill.NewCooldowns()
	cds.Start("a", 2)
	cds.Start("b", 1)
	cds.Tick()
	assert.Equal(t, 1, cds.Remaining("a"))
	assert.Zero(t, cds.Remaining("b"))
	assert.Equal(t, map[string]int{"a": 1}, cds.Snapshot())
	cds.Tick()
	assert.Empty(t, cds.Snapshot())
}

func TestCooldowns_StartZeroClears(t *testing.T) {
	cds := skill.NewCooldowns()
	cds.Start("a", 3)
	cds.Start("a", 0)
	assert.Zero(t, cds.Remaining("a"))
	cds.Start("b", 3)
	cds.Clear()
	assert.Empty(t, cds.Snapshot())
}
