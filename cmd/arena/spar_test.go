package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/gameserver"
)

func TestSpar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshots.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: brute
  class: warrior
  level: 10
  attributes: {strength: 40, agility: 15}
- id: dummy
  level: 1
  attributes: {strength: 0, magic: 0, dexterity: 0, agility: 0, luck: 0}
`), 0o644))
	combat := config.CombatConfig{PvPRoundCap: 5, Seed: 42}

	out, err := spar(combat, config.ContentConfig{}, path, "brute", "dummy", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "brute", out.WinnerID)
	assert.Equal(t, "dummy", out.LoserID)
	assert.LessOrEqual(t, out.Rounds, 5)

	_, err = spar(combat, config.ContentConfig{}, path, "brute", "ghost", zap.NewNop())
	assert.ErrorContains(t, err, "ghost")

	_, err = spar(combat, config.ContentConfig{}, path, "brute", "brute", zap.NewNop())
	assert.ErrorIs(t, err, gameserver.ErrSelfDuel)
}

func TestSpar_MissingFile(t *testing.T) {
	_, err := spar(config.CombatConfig{}, config.ContentConfig{}, filepath.Join(t.TempDir(), "nope.yaml"), "a", "b", zap.NewNop())
	assert.ErrorContains(t, err, "reading snapshots")
}
