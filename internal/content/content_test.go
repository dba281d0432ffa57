package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/content"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	return dir
}

func TestDefaults(t *testing.T) {
	cfg := config.ContentConfig{}
	classes, err := content.Classes(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"warrior", "mage", "archer"}, classes.IDs())

	skills, err := content.Skills(cfg, classes)
	require.NoError(t, err)
	assert.Len(t, skills.All(), 9)

	spawner, err := content.Spawner(cfg, classes)
	require.NoError(t, err)
	assert.Equal(t, []string{"goblin", "wolf", "skeleton_mage"}, spawner.IDs())
}

func TestSkills_OverlayAddsAndRejectsUnknownClass(t *testing.T) {
	classes, err := content.Classes(config.ContentConfig{})
	require.NoError(t, err)

	dir := write(t, t.TempDir(), "extra.yaml", `
- id: cleave
  name: Cleave
  class: warrior
  min_level: 5
  mana_cost: 25
  cooldown: 3
  effect: damage
  value: 2.0
`)
	skills, err := content.Skills(config.ContentConfig{SkillDir: dir}, classes)
	require.NoError(t, err)
	assert.Len(t, skills.ForClass("warrior"), 4)

	bad := write(t, t.TempDir(), "bad.yaml", `
- id: sing
  name: Sing
  class: bard
  min_level: 1
  mana_cost: 5
  cooldown: 1
  effect: damage
  value: 1.0
`)
	_, err = content.Skills(config.ContentConfig{SkillDir: bad}, classes)
	assert.ErrorContains(t, err, "bard")
}

func TestSpawner_OverlayReplacesByID(t *testing.T) {
	classes, err := content.Classes(config.ContentConfig{})
	require.NoError(t, err)

	dir := write(t, t.TempDir(), "goblin.yaml", `
id: goblin
name: Goblin Chief
level: 4
attributes: {strength: 14}
experience: 90
gold: 30
`)
	spawner, err := content.Spawner(config.ContentConfig{MonsterDir: dir}, classes)
	require.NoError(t, err)
	tmpl, ok := spawner.Template("goblin")
	require.True(t, ok)
	assert.Equal(t, "Goblin Chief", tmpl.Name)
	assert.Len(t, spawner.IDs(), 3)
}

func TestSpawner_RejectsUnknownClass(t *testing.T) {
	classes, err := content.Classes(config.ContentConfig{})
	require.NoError(t, err)
	dir := write(t, t.TempDir(), "imp.yaml", `
id: imp
name: Imp
classes: [bard]
level: 2
experience: 10
gold: 1
`)
	_, err = content.Spawner(config.ContentConfig{MonsterDir: dir}, classes)
	assert.ErrorContains(t, err, "bard")
}

func TestMissingDirsFail(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := content.Classes(config.ContentConfig{ClassDir: missing})
	assert.Error(t, err)
	classes, err := content.Classes(config.ContentConfig{})
	require.NoError(t, err)
	_, err = content.Skills(config.ContentConfig{SkillDir: missing}, classes)
	assert.Error(t, err)
	_, err = content.Spawner(config.ContentConfig{MonsterDir: missing}, classes)
	assert.Error(t, err)
}
