package battle

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/effect"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

// Round resolves one full round: the player's action, the monster's
// response, damage-over-time ticks, and end-of-round cooldown and effect
// decay.
//
// A rejected skill returns a *skill.UnavailableError and consumes no round.
//
// Precondition: the session is not over.
// Postcondition: on success the round counter is incremented and every
// cooldown and effect duration has decreased by one.
func (s *Session) Round(a Action) (RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over() {
		return RoundResult{}, ErrEncounterOver
	}

	var sk *skill.Skill
	if a.Kind == ActionSkill {
		var ok bool
		if sk, ok = s.rules.Skills.Get(a.SkillID); !ok {
			return RoundResult{}, &skill.UnavailableError{SkillID: a.SkillID, Reason: skill.ReasonUnknown}
		}
		if err := skill.Check(s.player, sk, s.cooldowns); err != nil {
			return RoundResult{}, err
		}
	}

	s.state = InProgress
	s.round++
	log := []string{fmt.Sprintf("Round %d", s.round)}
	out := RoundResult{}

	missed, err := s.playerAction(sk, &log)
	if err != nil {
		return RoundResult{}, err
	}

	s.resolveRound(missed, &log, &out)
	s.endOfRound(&log)

	if s.state != PlayerDefeated {
		s.character.SyncVitals(s.player)
	}
	res := s.result(log)
	res.Spoils, res.Defeated, res.ExperienceLost = out.Spoils, out.Defeated, out.ExperienceLost
	return res, nil
}

func (s *Session) resolveRound(missed bool, log *[]string, out *RoundResult) {
	if missed {
		s.monsterAttack(log)
		if s.player.IsDead() {
			out.ExperienceLost = s.playerDies(progression.DeathInRound, log)
			return
		}
	}

	if s.monster.Combatant.IsDead() {
		s.monsterDies(log, out)
		return
	}

	for _, dot := range effect.DamageOverTime(s.monster.Combatant.Effects) {
		s.monster.Combatant.ApplyDamage(dot.TickDamage)
		*log = append(*log, fmt.Sprintf("%s suffers %d damage from %s.", s.monster.Name(), dot.TickDamage, dot.Name))
	}
	if s.monster.Combatant.IsDead() {
		s.monsterDies(log, out)
		return
	}

	s.monsterAttack(log)
	if s.player.IsDead() {
		out.ExperienceLost = s.playerDies(progression.DeathInRound, log)
	}
}

// playerAction resolves the basic attack or skill and reports whether it
// was a damaging action that missed.
func (s *Session) playerAction(sk *skill.Skill, log *[]string) (bool, error) {
	m := s.monster.Combatant
	if sk == nil {
		res := combat.ResolveAttack(s.player, m, 1, s.src)
		m.ApplyDamage(res.Damage)
		*log = append(*log, combat.DescribeAttack(s.player, m, res, ""))
		return !res.Hit, nil
	}

	r, err := skill.Use(s.player, m, sk, s.character.MasteryOf(sk.ID), s.cooldowns, s.src)
	if err != nil {
		return false, err
	}
	switch sk.Effect {
	case skill.EffectDamage:
		*log = append(*log, combat.DescribeAttack(s.player, m, *r.Attack, sk.Name))
		return !r.Attack.Hit, nil
	case skill.EffectHeal:
		*log = append(*log, fmt.Sprintf("%s uses %s and recovers %d health.", s.player.Name, sk.Name, r.Healed))
	case skill.EffectBuff:
		*log = append(*log, fmt.Sprintf("%s uses %s: %s +%.0f%% for %d turns.",
			s.player.Name, sk.Name, sk.Modifier, math.Round(r.Value*100), sk.Duration))
	case skill.EffectDebuff:
		*log = append(*log, fmt.Sprintf("%s uses %s on %s: %d damage per turn for %d turns.",
			s.player.Name, sk.Name, m.Name, r.Applied.TickDamage, sk.Duration))
	}
	return false, nil
}

// monsterDies grants rewards and loot, then replaces the monster with a
// fresh one of the same level.
func (s *Session) monsterDies(log *[]string, out *RoundResult) {
	dead := s.monster
	reward := progression.ApplyLevelPenalty(dead.Experience, dead.Gold, dead.Level(), s.character.Level)
	if s.rules.Rewards != nil {
		reward = s.rules.Rewards.ModifyReward(RewardInput{
			Base:         reward,
			TemplateID:   dead.TemplateID,
			MonsterLevel: dead.Level(),
			PlayerLevel:  s.character.Level,
			PlayerClass:  s.character.Class,
		})
	}
	loot := npc.GenerateLoot(dead.Loot, s.src)

	s.character.Gold += reward.Gold
	up := progression.GrantExperience(s.character, reward.Experience, s.rules.Curve, s.rules.Classes)

	*log = append(*log, fmt.Sprintf("%s is defeated! %s gains %d experience and %d gold.",
		dead.Name(), s.player.Name, reward.Experience, reward.Gold))
	if reward.PenaltyPercent > 0 {
		*log = append(*log, fmt.Sprintf("Rewards reduced by %d%% for the level gap.", reward.PenaltyPercent))
	}
	for _, item := range loot {
		*log = append(*log, fmt.Sprintf("%s dropped %s.", dead.Name(), item.ItemID))
	}
	if up.Gained() {
		s.player.Level = s.character.Level
		s.player.Rederive(s.rules.Classes.Profile(s.character.Class))
		s.player.RestoreFull()
		*log = append(*log, fmt.Sprintf("%s reaches level %d and gains %d attribute points!",
			s.player.Name, up.To, up.Points))
	}

	s.state = MonsterDefeated
	next, err := s.rules.Spawner.Replace(dead, s.src)
	if err != nil {
		s.exhausted = true
		*log = append(*log, "No other monsters remain.")
	} else {
		s.monster = next
		*log = append(*log, fmt.Sprintf("A level %d %s appears!", next.Level(), next.Name()))
	}
	out.Defeated = dead
	out.Spoils = &Spoils{Reward: reward, Loot: loot, LevelUp: up}
}

// endOfRound decrements every cooldown and effect duration by one.
func (s *Session) endOfRound(log *[]string) {
	s.cooldowns.Tick()
	for _, id := range s.player.Effects.Tick() {
		*log = append(*log, fmt.Sprintf("%s wears off.", s.effectName(id)))
	}
	s.monster.Combatant.Effects.Tick()
}

func (s *Session) effectName(id string) string {
	if sk, ok := s.rules.Skills.Get(id); ok {
		return sk.Name
	}
	return id
}

func (s *Session) view() View {
	v := View{
		SessionID:    s.ID,
		State:        s.state,
		Round:        s.round,
		Player:       vitalsOf(s.player),
		MonsterName:  s.monster.Name(),
		MonsterLevel: s.monster.Level(),
		Monster:      vitalsOf(s.monster.Combatant),
		Cooldowns:    s.cooldowns.Snapshot(),
	}
	for _, e := range s.player.Effects.All() {
		v.Effects = append(v.Effects, fmt.Sprintf("%s (%d)", e.Name, e.Remaining))
	}
	return v
}

func (s *Session) result(log []string) RoundResult {
	return RoundResult{View: s.view(), Log: log}
}
