package skill_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/effect"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

type fixed int

func (f fixed) Intn(n int) int { return int(f) % n }

// scripted returns its values in order and repeats the last one.
type scripted struct {
	vals []int
	n    int
}

func (s *scripted) Intn(n int) int {
	v := s.vals[min(s.n, len(s.vals)-1)]
	s.n++
	return v % n
}

var attrs = stats.Attributes{Strength: 10, Magic: 10, Dexterity: 10, Agility: 10, Luck: 10}

func hero(class string, level int) *combat.Combatant {
	return combat.NewCombatant("p1", "Hero", combat.KindPlayer, class, level, attrs, ruleset.DefaultRegistry().Profile(class))
}

func dummy() *combat.Combatant {
	return combat.NewCombatant("m1", "Dummy", combat.KindMonster, "", 1, attrs, nil)
}

func mustSkill(t *testing.T, id string) *skill.Skill {
	t.Helper()
	s, ok := skill.DefaultCatalog().Get(id)
	require.True(t, ok, id)
	return s
}

func requireReason(t *testing.T, err error, want skill.Reason) {
	t.Helper()
	require.True(t, errors.Is(err, skill.ErrSkillUnavailable), "got %v", err)
	var ue *skill.UnavailableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, want, ue.Reason)
}

func TestUse_RejectsWrongClass(t *testing.T) {
	caster := hero(ruleset.Warrior, 1)
	mana := caster.Mana
	_, err := skill.Use(caster, dummy(), mustSkill(t, "fireball"), 1, skill.NewCooldowns(), fixed(0))
	requireReason(t, err, skill.ReasonClass)
	assert.Equal(t, mana, caster.Mana)
}

func TestUse_RejectsLowLevel(t *testing.T) {
	s := *mustSkill(t, "power_strike")
	s.MinLevel = 5
	_, err := skill.Use(hero(ruleset.Warrior, 4), dummy(), &s, 1, skill.NewCooldowns(), fixed(0))
	requireReason(t, err, skill.ReasonLevel)
}

func TestUse_RejectsLowMana(t *testing.T) {
	caster := hero(ruleset.Warrior, 1)
	caster.Mana = 9
	_, err := skill.Use(caster, dummy(), mustSkill(t, "power_strike"), 1, skill.NewCooldowns(), fixed(0))
	requireReason(t, err, skill.ReasonMana)
	assert.Equal(t, 9, caster.Mana)
}

func TestUse_RejectsOnCooldown(t *testing.T) {
	caster := hero(ruleset.Warrior, 1)
	target := dummy()
	cds := skill.NewCooldowns()
	cds.Start("power_strike", 1)
	hp := target.Health
	_, err := skill.Use(caster, target, mustSkill(t, "power_strike"), 1, cds, fixed(0))
	requireReason(t, err, skill.ReasonCooldown)
	assert.Equal(t, hp, target.Health)
}

func TestUse_DamageDeductsManaAndStartsCooldown(t *testing.T) {
	caster := hero(ruleset.Warrior, 1)
	target := dummy()
	cds := skill.NewCooldowns()
	mana := caster.Mana
	s := mustSkill(t, "power_strike")

	res, err := skill.Use(caster, target, s, 1, cds, &scripted{vals: []int{0, 9999}})
	require.NoError(t, err)
	require.NotNil(t, res.Attack)
	assert.True(t, res.Attack.Hit)
	assert.Positive(t, res.Attack.Damage)
	assert.Equal(t, target.Stats.HealthCap()-res.Attack.Damage, target.Health)
	assert.Equal(t, mana-s.ManaCost, caster.Mana)
	assert.Equal(t, s.Cooldown, cds.Remaining(s.ID))
}

func TestUse_DamageMissStillConsumesMana(t *testing.T) {
	caster := hero(ruleset.Mage, 1)
	target := dummy()
	cds := skill.NewCooldowns()
	mana := caster.Mana

	res, err := skill.Use(caster, target, mustSkill(t, "fireball"), 1, cds, fixed(9999))
	require.NoError(t, err)
	assert.False(t, res.Attack.Hit)
	assert.Equal(t, target.Stats.HealthCap(), target.Health)
	assert.Less(t, caster.Mana, mana)
	assert.Positive(t, cds.Remaining("fireball"))
}

func TestUse_HealFormulaCapped(t *testing.T) {
	caster := hero(ruleset.Warrior, 1)
	caster.Health = 1
	res, err := skill.Use(caster, dummy(), mustSkill(t, "second_wind"), 1, skill.NewCooldowns(), fixed(0))
	require.NoError(t, err)
	// floor(maxHP·0.2 + 10·1.5 + 1·3)
	want := int(caster.Stats.MaxHealth*0.2) + 15 + 3
	assert.Equal(t, want, res.Healed)
	assert.Equal(t, 1+want, caster.Health)

	caster.Health = caster.Stats.HealthCap() - 1
	cds := skill.NewCooldowns()
	res, err = skill.Use(caster, dummy(), mustSkill(t, "second_wind"), 1, cds, fixed(0))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Healed)
	assert.Equal(t, caster.Stats.HealthCap(), caster.Health)
}

func TestUse_BuffLandsOnCaster(t *testing.T) {
	caster := hero(ruleset.Warrior, 1)
	target := dummy()
	res, err := skill.Use(caster, target, mustSkill(t, "battle_cry"), 3, skill.NewCooldowns(), fixed(0))
	require.NoError(t, err)
	require.NotNil(t, res.Applied)

	got, ok := caster.Effects.Get("battle_cry")
	require.True(t, ok)
	assert.Equal(t, effect.ModAttack, got.Modifier)
	assert.InDelta(t, 0.36, got.Value, 1e-9)
	assert.Equal(t, 3, got.Remaining)
	assert.Zero(t, target.Effects.Len())
}

func TestUse_DebuffLandsOnTargetWithFixedTick(t *testing.T) {
	caster := hero(ruleset.Mage, 1)
	target := dummy()
	_, err := skill.Use(caster, target, mustSkill(t, "ignite"), 1, skill.NewCooldowns(), fixed(0))
	require.NoError(t, err)

	got, ok := target.Effects.Get("ignite")
	require.True(t, ok)
	assert.Equal(t, effect.Debuff, got.Kind)
	assert.Equal(t, int(caster.Stats.Attack*0.3), got.TickDamage)
	assert.Zero(t, caster.Effects.Len())
}
