package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

// ErrWrongClass is returned when training a skill of another class.
var ErrWrongClass = errors.New("skill belongs to another class")

// TrainingService creates characters and spends their gold and attribute
// points outside of battle.
type TrainingService struct {
	classes *ruleset.Registry
	skills  *skill.Catalog
	chars   CharacterStore
	hunts   *battle.Registry
	logger  *zap.Logger
}

// NewTrainingService creates a TrainingService. hunts is consulted so that a
// character cannot train while an encounter holds its record.
//
// Precondition: all arguments must be non-nil.
func NewTrainingService(
	classes *ruleset.Registry,
	skills *skill.Catalog,
	chars CharacterStore,
	hunts *battle.Registry,
	logger *zap.Logger,
) *TrainingService {
	return &TrainingService{classes: classes, skills: skills, chars: chars, hunts: hunts, logger: logger}
}

// Create builds and stores a new level 1 character.
func (t *TrainingService) Create(ctx context.Context, name, class string) (*character.Character, error) {
	c, err := character.New(name, class, t.classes)
	if err != nil {
		return nil, err
	}
	created, err := t.chars.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	t.logger.Info("character created",
		zap.Int64("character_id", created.ID),
		zap.String("name", created.Name),
		zap.String("class", created.Class),
	)
	return created, nil
}

// SkillStatus describes one class skill from a character's point of view.
type SkillStatus struct {
	Skill   *skill.Skill
	Mastery int
	// UpgradeCost is 0 when the skill is at skill.MaxMastery.
	UpgradeCost int
	Unlocked    bool
}

// Skills lists the character's class skills in catalog order.
func (t *TrainingService) Skills(ctx context.Context, characterID int64) ([]SkillStatus, error) {
	c, err := t.chars.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	list := t.skills.ForClass(c.Class)
	out := make([]SkillStatus, 0, len(list))
	for _, s := range list {
		m := c.MasteryOf(s.ID)
		st := SkillStatus{Skill: s, Mastery: m, Unlocked: c.Level >= s.MinLevel}
		if m < skill.MaxMastery {
			st.UpgradeCost = skill.UpgradeCost(m)
		}
		out = append(out, st)
	}
	return out, nil
}

// Upgrade is the result of a mastery purchase.
type Upgrade struct {
	SkillID string
	Mastery int
	Spent   int
	Gold    int
}

// UpgradeSkill raises the character's mastery of skillID by one level.
//
// Postcondition: Returns ErrInBattle, ErrWrongClass, skill.ErrNotEnoughGold
// or skill.ErrMasteryMaxed without writing anything.
func (t *TrainingService) UpgradeSkill(ctx context.Context, characterID int64, skillID string) (Upgrade, error) {
	c, err := t.load(ctx, characterID)
	if err != nil {
		return Upgrade{}, err
	}
	s, ok := t.skills.Get(skillID)
	if !ok {
		return Upgrade{}, fmt.Errorf("unknown skill %q", skillID)
	}
	if s.Class != c.Class {
		return Upgrade{}, fmt.Errorf("%w: %s is a %s skill", ErrWrongClass, s.Name, s.Class)
	}

	gold, mastery, err := skill.Upgrade(c.Gold, c.MasteryOf(skillID))
	if err != nil {
		return Upgrade{}, err
	}
	if err := t.chars.SaveMastery(ctx, characterID, skillID, mastery, gold); err != nil {
		return Upgrade{}, fmt.Errorf("saving mastery: %w", err)
	}
	t.logger.Info("skill upgraded",
		zap.Int64("character_id", characterID),
		zap.String("skill", skillID),
		zap.Int("mastery", mastery),
	)
	return Upgrade{SkillID: skillID, Mastery: mastery, Spent: c.Gold - gold, Gold: gold}, nil
}

// Allocate spends n attribute points on attribute.
//
// Postcondition: Returns the updated character, or an error and no write.
func (t *TrainingService) Allocate(ctx context.Context, characterID int64, attribute string, n int) (*character.Character, error) {
	c, err := t.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if err := progression.Allocate(c, attribute, n); err != nil {
		return nil, err
	}
	if err := t.chars.SaveProgress(ctx, c); err != nil {
		return nil, fmt.Errorf("saving progress: %w", err)
	}
	return c, nil
}

// load fetches a character that is not in an open encounter.
func (t *TrainingService) load(ctx context.Context, characterID int64) (*character.Character, error) {
	if sess, ok := t.hunts.Get(characterID); ok && !sess.Over() {
		return nil, ErrInBattle
	}
	return t.chars.GetByID(ctx, characterID)
}
