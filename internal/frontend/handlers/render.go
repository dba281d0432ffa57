// Package handlers implements the text front end shared by the arena CLI
// and the telnet server: rendering, the hunt command loop, and the lobby.
package handlers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cory-johannsen/arena/internal/frontend/telnet"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/gameserver"
)

// Renderer formats game state as text. Color enables ANSI styling.
//
// Precondition: Classes must be non-nil for Sheet.
type Renderer struct {
	Classes *ruleset.Registry
	Curve   progression.Curve
	Color   bool
}

func (r Renderer) paint(s telnet.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Paint(text)
}

// View writes a one-line summary of an encounter plus cooldowns and effects.
func (r Renderer) View(w io.Writer, v battle.View) {
	fmt.Fprintf(w, "[%s] round %d  you %s hp %s mp  |  %s (level %d) %s hp\n",
		v.State, v.Round,
		r.paint(telnet.BrightGreen, fmt.Sprintf("%d/%d", v.Player.Health, v.Player.MaxHealth)),
		r.paint(telnet.BrightCyan, fmt.Sprintf("%d/%d", v.Player.Mana, v.Player.MaxMana)),
		r.paint(telnet.BrightYellow, v.MonsterName), v.MonsterLevel,
		r.paint(telnet.BrightRed, fmt.Sprintf("%d/%d", v.Monster.Health, v.Monster.MaxHealth)))
	if len(v.Cooldowns) > 0 {
		ids := make([]string, 0, len(v.Cooldowns))
		for id := range v.Cooldowns {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf("%s:%d", id, v.Cooldowns[id])
		}
		fmt.Fprintf(w, "  cooldowns %s\n", strings.Join(parts, " "))
	}
	if len(v.Effects) > 0 {
		fmt.Fprintf(w, "  effects   %s\n", strings.Join(v.Effects, ", "))
	}
}

// Round writes the battle log, spoils, and resulting view of one round.
func (r Renderer) Round(w io.Writer, res battle.RoundResult) {
	for _, line := range res.Log {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if s := res.Spoils; s != nil {
		line := fmt.Sprintf("+%d exp +%d gold", s.Experience, s.Gold)
		if s.PenaltyPercent > 0 {
			line += fmt.Sprintf(" (level penalty %d%%)", s.PenaltyPercent)
		}
		fmt.Fprintf(w, "  %s\n", r.paint(telnet.Yellow, line))
		for _, item := range s.Loot {
			fmt.Fprintf(w, "  loot: %s\n", item.ItemID)
		}
		if s.LevelUp.Gained() {
			fmt.Fprintf(w, "  %s\n", r.paint(telnet.Bold, fmt.Sprintf("level up! %d -> %d (+%d attribute points)",
				s.LevelUp.From, s.LevelUp.To, s.LevelUp.Points)))
		}
	}
	if res.ExperienceLost > 0 {
		fmt.Fprintf(w, "  %s\n", r.paint(telnet.Red, fmt.Sprintf("lost %d exp", res.ExperienceLost)))
	}
	r.View(w, res.View)
}

// Sheet writes a character sheet. position is the ladder position, 0 when
// unranked.
func (r Renderer) Sheet(w io.Writer, c *character.Character, position int) {
	class := c.Class
	if class == "" {
		class = "unclassed"
	}
	d := c.Derived(r.Classes)
	fmt.Fprintf(w, "%s (#%d) level %d %s\n", r.paint(telnet.BrightWhite, c.Name), c.ID, c.Level, class)
	fmt.Fprintf(w, "  experience  %d/%d\n", c.Experience, r.Curve.ToNext(c.Level))
	fmt.Fprintf(w, "  health      %d/%d\n", c.Health, d.HealthCap())
	fmt.Fprintf(w, "  mana        %d/%d\n", c.Mana, d.ManaCap())
	fmt.Fprintf(w, "  gold        %d\n", c.Gold)
	a := c.EffectiveAttributes()
	fmt.Fprintf(w, "  str %d  mag %d  dex %d  agi %d  luk %d  (unspent %d)\n",
		a.Strength, a.Magic, a.Dexterity, a.Agility, a.Luck, c.AttributePoints)
	fmt.Fprintf(w, "  attack %.1f  defense %.1f  dodge %.1f%%  crit %.1f%%\n",
		d.Attack, d.Defense, d.DodgeChance, d.CriticalChance)
	rank := c.PvP.Rank()
	fmt.Fprintf(w, "  honor       %d (%s)  %d-%d  streak %d best %d\n",
		c.PvP.HonorPoints, rank.Name, c.PvP.Wins, c.PvP.Losses, c.PvP.WinStreak, c.PvP.BestStreak)
	if next, ok := rank.Next(); ok {
		fmt.Fprintf(w, "  next rank   %s at %d\n", next.Name, next.Threshold)
	}
	if position > 0 {
		fmt.Fprintf(w, "  ladder      #%d\n", position)
	}
}

// Skills writes one line per class skill.
func (r Renderer) Skills(w io.Writer, skills []gameserver.SkillStatus) {
	if len(skills) == 0 {
		fmt.Fprintln(w, "no skills for this class")
		return
	}
	for _, s := range skills {
		state := r.paint(telnet.Dim, "locked")
		if s.Unlocked {
			state = r.paint(telnet.Green, "ready")
		}
		cost := "max"
		if s.UpgradeCost > 0 {
			cost = fmt.Sprintf("%dg", s.UpgradeCost)
		}
		fmt.Fprintf(w, "%-14s %-18s lvl %-2d mastery %-2d next %-5s %s\n",
			s.Skill.ID, s.Skill.Name, s.Skill.MinLevel, s.Mastery, cost, state)
	}
}

// Monsters lists the spawnable templates.
func (r Renderer) Monsters(w io.Writer, spawner *npc.Spawner) {
	for _, id := range spawner.IDs() {
		t, _ := spawner.Template(id)
		fmt.Fprintf(w, "%-16s level %-3d %s\n", t.ID, t.Level, t.Name)
	}
}

// Outcome writes a PvP battle log.
func (r Renderer) Outcome(w io.Writer, out pvp.Outcome) {
	for _, line := range out.Log {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// Verdict writes the one-line result of a PvP battle between named sides.
func (r Renderer) Verdict(w io.Writer, winner, loser string, out pvp.Outcome) {
	how := "knockout"
	if out.Decision {
		how = "decision"
	}
	fmt.Fprintf(w, "%s defeats %s by %s after %d rounds\n", r.paint(telnet.BrightWhite, winner), loser, how, out.Rounds)
}

// Duel writes a duel report. verbose includes the battle log.
func (r Renderer) Duel(w io.Writer, rep gameserver.DuelReport, verbose bool) {
	if verbose {
		r.Outcome(w, rep.Outcome)
	}
	r.Verdict(w, rep.Winner.Name, rep.Loser.Name, rep.Outcome)
	fmt.Fprintf(w, "  %s %s honor (%d, %s)\n", rep.Winner.Name,
		r.paint(telnet.Green, fmt.Sprintf("%+d", rep.Honor.WinnerGain)), rep.Winner.PvP.HonorPoints, rep.Honor.WinnerRank.Name)
	fmt.Fprintf(w, "  %s %s honor (%d, %s)\n", rep.Loser.Name,
		r.paint(telnet.Red, fmt.Sprintf("%+d", rep.Honor.LoserLoss)), rep.Loser.PvP.HonorPoints, rep.Honor.LoserRank.Name)
	if rep.Honor.Promoted {
		fmt.Fprintf(w, "  %s was promoted to %s\n", rep.Winner.Name, rep.Honor.WinnerRank.Name)
	}
	if rep.Honor.Demoted {
		fmt.Fprintf(w, "  %s was demoted to %s\n", rep.Loser.Name, rep.Honor.LoserRank.Name)
	}
}

// Ladder writes the honor ladder.
func (r Renderer) Ladder(w io.Writer, entries []gameserver.LadderEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "nobody has fought yet")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%3d. %-32s %6d  %s\n", e.Position, e.Name, e.Honor, e.Rank.Name)
	}
}
