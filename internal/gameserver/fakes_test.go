package gameserver_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

// zeroSource answers every draw with 0: every attack hits and every pick
// takes the first option.
type zeroSource struct{}

func (zeroSource) Intn(int) int { return 0 }

func zeroSources() gameserver.SourceFactory {
	return func() dice.Source { return zeroSource{} }
}

type memStore struct {
	mu          sync.Mutex
	next        int64
	chars       map[int64]*character.Character
	vitalsSaves int
}

func newMemStore() *memStore {
	return &memStore{chars: make(map[int64]*character.Character)}
}

func clone(c *character.Character) *character.Character {
	cp := *c
	cp.Mastery = maps.Clone(c.Mastery)
	return &cp
}

func (m *memStore) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.chars {
		if existing.Name == c.Name {
			return nil, postgres.ErrCharacterNameTaken
		}
	}
	m.next++
	cp := clone(c)
	cp.ID = m.next
	m.chars[cp.ID] = cp
	return clone(cp), nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chars[id]
	if !ok {
		return nil, postgres.ErrCharacterNotFound
	}
	return clone(c), nil
}

func (m *memStore) GetByName(_ context.Context, name string) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.chars {
		if c.Name == name {
			return clone(c), nil
		}
	}
	return nil, postgres.ErrCharacterNotFound
}

func (m *memStore) List(_ context.Context) ([]*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*character.Character, 0, len(m.chars))
	for _, id := range slices.Sorted(maps.Keys(m.chars)) {
		out = append(out, clone(m.chars[id]))
	}
	return out, nil
}

func (m *memStore) update(id int64, fn func(c *character.Character)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chars[id]
	if !ok {
		return postgres.ErrCharacterNotFound
	}
	fn(c)
	return nil
}

func (m *memStore) SaveVitals(_ context.Context, id int64, health, mana int) error {
	return m.update(id, func(c *character.Character) {
		c.Health, c.Mana = health, mana
		m.vitalsSaves++
	})
}

func (m *memStore) SaveProgress(_ context.Context, p *character.Character) error {
	return m.update(p.ID, func(c *character.Character) {
		c.Level, c.Experience, c.AttributePoints = p.Level, p.Experience, p.AttributePoints
		c.Attributes = p.Attributes
		c.Health, c.Mana, c.Gold = p.Health, p.Mana, p.Gold
	})
}

func (m *memStore) SaveMastery(_ context.Context, id int64, skillID string, mastery, gold int) error {
	return m.update(id, func(c *character.Character) {
		c.SetMastery(skillID, mastery)
		c.Gold = gold
	})
}

func (m *memStore) SaveDuel(_ context.Context, winnerID int64, winner pvp.Stats, loserID int64, loser pvp.Stats) error {
	if err := m.update(winnerID, func(c *character.Character) { c.PvP = winner }); err != nil {
		return err
	}
	return m.update(loserID, func(c *character.Character) { c.PvP = loser })
}

func (m *memStore) ListHonor(_ context.Context, limit int) ([]postgres.HonorEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]postgres.HonorEntry, 0, len(m.chars))
	for _, c := range m.chars {
		out = append(out, postgres.HonorEntry{CharacterID: c.ID, Name: c.Name, Honor: c.PvP.HonorPoints})
	}
	slices.SortFunc(out, func(a, b postgres.HonorEntry) int {
		if a.Honor != b.Honor {
			return b.Honor - a.Honor
		}
		return int(a.CharacterID - b.CharacterID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mutate edits a stored character directly.
func (m *memStore) mutate(t *testing.T, id int64, fn func(c *character.Character)) {
	t.Helper()
	require.NoError(t, m.update(id, fn))
}

type memBoard struct {
	mu    sync.Mutex
	honor map[int64]int
	locks map[int64]bool
}

func newMemBoard() *memBoard {
	return &memBoard{honor: make(map[int64]int), locks: make(map[int64]bool)}
}

func (b *memBoard) SetHonor(_ context.Context, id int64, honor int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.honor[id] = honor
	return nil
}

func (b *memBoard) sorted() []redis.Standing {
	out := make([]redis.Standing, 0, len(b.honor))
	for id, h := range b.honor {
		out = append(out, redis.Standing{CharacterID: id, Honor: h})
	}
	slices.SortFunc(out, func(x, y redis.Standing) int {
		if x.Honor != y.Honor {
			return y.Honor - x.Honor
		}
		return int(y.CharacterID - x.CharacterID)
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

func (b *memBoard) Top(_ context.Context, n int) ([]redis.Standing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.sorted()
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (b *memBoard) Position(_ context.Context, id int64) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sorted() {
		if s.CharacterID == id {
			return s.Position, nil
		}
	}
	return 0, redis.ErrNotRanked
}

func (b *memBoard) Rebuild(_ context.Context, entries []redis.HonorSource) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.honor = make(map[int64]int)
	for _, e := range entries {
		b.honor[e.CharacterID] = e.Honor
	}
	return nil
}

func (b *memBoard) LockBattle(_ context.Context, ids ...int64) (redis.Unlock, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		if b.locks[id] {
			return nil, fmt.Errorf("%w: %d", redis.ErrBattleLocked, id)
		}
	}
	for _, id := range ids {
		b.locks[id] = true
	}
	return func(context.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, id := range ids {
			delete(b.locks, id)
		}
		return nil
	}, nil
}

const sparringYAML = `
id: sparring
name: Sparring Dummy
names: [Dummy]
classes: [warrior]
level: 1
attributes: {strength: 1, magic: 1, dexterity: 1, agility: 1, luck: 0}
experience: 40
gold: 10
`

type env struct {
	classes  *ruleset.Registry
	rules    battle.Rules
	store    *memStore
	board    *memBoard
	sessions *battle.Registry
	logger   *zap.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	classes := ruleset.DefaultRegistry()
	tmpl, err := npc.LoadTemplateFromBytes([]byte(sparringYAML))
	require.NoError(t, err)
	return &env{
		classes: classes,
		rules: battle.Rules{
			Classes: classes,
			Skills:  skill.DefaultCatalog(),
			Spawner: npc.NewSpawner([]*npc.Template{tmpl}, classes),
			Curve:   progression.CurveStandard,
		},
		store:    newMemStore(),
		board:    newMemBoard(),
		sessions: battle.NewRegistry(),
		logger:   zap.NewNop(),
	}
}

func (e *env) hero(t *testing.T, name, class string) *character.Character {
	t.Helper()
	c, err := character.New(name, class, e.classes)
	require.NoError(t, err)
	created, err := e.store.Create(context.Background(), c)
	require.NoError(t, err)
	return created
}

func (e *env) training() *gameserver.TrainingService {
	return gameserver.NewTrainingService(e.classes, e.rules.Skills, e.store, e.sessions, e.logger)
}
