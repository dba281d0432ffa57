package handlers_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/content"
	"github.com/cory-johannsen/arena/internal/frontend/handlers"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

// lines feeds scripted input and then io.EOF.
type lines struct {
	mu   sync.Mutex
	next []string
}

func input(ls ...string) *lines { return &lines{next: ls} }

func (l *lines) ReadLine() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.next) == 0 {
		return "", io.EOF
	}
	s := l.next[0]
	l.next = l.next[1:]
	return s, nil
}

// scriptedHunter records actions and ends the encounter on demand.
type scriptedHunter struct {
	started     []string
	actions     []battle.Action
	strikes     int
	fled        bool
	open        bool
	finishAfter int
	rejectSkill string
}

func (h *scriptedHunter) Start(_ context.Context, _ int64, templateID string, _ int) (battle.View, error) {
	if h.open {
		return battle.View{}, gameserver.ErrInBattle
	}
	h.open = true
	h.started = append(h.started, templateID)
	return battle.View{State: battle.InProgress, MonsterName: "Goblin", MonsterLevel: 1}, nil
}

func (h *scriptedHunter) View(int64) (battle.View, error) {
	if !h.open {
		return battle.View{}, gameserver.ErrNoEncounter
	}
	return battle.View{State: battle.InProgress, MonsterName: "Goblin"}, nil
}

func (h *scriptedHunter) Round(_ context.Context, _ int64, a battle.Action) (battle.RoundResult, error) {
	if !h.open {
		return battle.RoundResult{}, gameserver.ErrNoEncounter
	}
	if a.Kind == battle.ActionSkill && a.SkillID == h.rejectSkill {
		return battle.RoundResult{}, errors.New("not enough mana")
	}
	h.actions = append(h.actions, a)
	res := battle.RoundResult{Log: []string{"you hit"}}
	res.State = battle.InProgress
	if h.finishAfter > 0 && len(h.actions) >= h.finishAfter {
		res.State = battle.PlayerDefeated
		res.ExperienceLost = 3
		h.open = false
	}
	return res, nil
}

func (h *scriptedHunter) Strike(context.Context, int64) (battle.RoundResult, error) {
	h.strikes++
	return battle.RoundResult{Log: []string{"the goblin hits"}, View: battle.View{State: battle.InProgress}}, nil
}

func (h *scriptedHunter) Flee(context.Context, int64) (battle.RoundResult, error) {
	h.fled = true
	h.open = false
	return battle.RoundResult{View: battle.View{State: battle.Fled}}, nil
}

func (h *scriptedHunter) End(int64) { h.open = false }

// roster is an in-memory Characters and Trainer.
type roster struct {
	mu     sync.Mutex
	byName map[string]*character.Character
	nextID int64
	spent  []string
	raised map[string]int
}

func newRoster() *roster {
	return &roster{byName: make(map[string]*character.Character), nextID: 1, raised: make(map[string]int)}
}

func (r *roster) add(name, class string) *character.Character {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := character.New(name, class, ruleset.DefaultRegistry())
	if err != nil {
		panic(err)
	}
	c.ID = r.nextID
	r.nextID++
	r.byName[name] = c
	return c
}

func (r *roster) GetByName(_ context.Context, name string) (*character.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byName[name]
	if !ok {
		return nil, postgres.ErrCharacterNotFound
	}
	return c, nil
}

func (r *roster) Create(_ context.Context, name, class string) (*character.Character, error) {
	r.mu.Lock()
	_, taken := r.byName[name]
	r.mu.Unlock()
	if taken {
		return nil, postgres.ErrCharacterNameTaken
	}
	if _, ok := ruleset.DefaultRegistry().Class(class); !ok {
		return nil, errors.New("unknown class")
	}
	return r.add(name, class), nil
}

func (r *roster) Skills(context.Context, int64) ([]gameserver.SkillStatus, error) {
	return nil, nil
}

func (r *roster) UpgradeSkill(_ context.Context, _ int64, skillID string) (gameserver.Upgrade, error) {
	r.spent = append(r.spent, skillID)
	return gameserver.Upgrade{SkillID: skillID, Mastery: 2, Spent: 100, Gold: 0}, nil
}

func (r *roster) Allocate(_ context.Context, id int64, attr string, n int) (*character.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raised[attr] += n
	for _, c := range r.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, postgres.ErrCharacterNotFound
}

// arbiter is a Dueler where the challenger always wins.
type arbiter struct {
	duels [][2]int64
}

func (a *arbiter) Duel(_ context.Context, challengerID, defenderID int64) (gameserver.DuelReport, error) {
	if challengerID == defenderID {
		return gameserver.DuelReport{}, gameserver.ErrSelfDuel
	}
	a.duels = append(a.duels, [2]int64{challengerID, defenderID})
	return gameserver.DuelReport{
		Outcome: pvp.Outcome{Rounds: 3},
		Honor:   pvp.Result{WinnerGain: 25, LoserLoss: -15, WinnerRank: pvp.Ranks[0], LoserRank: pvp.Ranks[0]},
		Winner:  &character.Character{ID: challengerID, Name: "winner", PvP: pvp.Stats{HonorPoints: 25}},
		Loser:   &character.Character{ID: defenderID, Name: "loser"},
	}, nil
}

func (a *arbiter) Ladder(_ context.Context, n int) ([]gameserver.LadderEntry, error) {
	return []gameserver.LadderEntry{{Position: 1, CharacterID: 1, Name: "ada", Honor: 120, Rank: pvp.RankFor(120)}}, nil
}

func (a *arbiter) Standing(context.Context, int64) (int, error) { return 1, nil }

// safeBuffer is a concurrency-safe strings.Builder.
type safeBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func renderer() handlers.Renderer {
	return handlers.Renderer{Classes: ruleset.DefaultRegistry(), Curve: progression.CurveStandard}
}

type fixture struct {
	roster  *roster
	hunter  *scriptedHunter
	arbiter *arbiter
	handler *handlers.ArenaHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	classes := ruleset.DefaultRegistry()
	spawner, err := content.Spawner(config.ContentConfig{}, classes)
	require.NoError(t, err)

	f := &fixture{roster: newRoster(), hunter: &scriptedHunter{}, arbiter: &arbiter{}}
	f.handler = handlers.NewArenaHandler(f.roster, f.hunter, f.roster, f.arbiter, spawner, renderer(), zaptest.NewLogger(t))
	return f
}
