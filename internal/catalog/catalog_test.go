package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TablesAreIndexedAndConsistent(t *testing.T) {
	c := Default()

	seen := map[string]bool{}
	for _, g := range c.Generators {
		assert.False(t, seen[g.ID], "duplicate generator id %q", g.ID)
		seen[g.ID] = true
		assert.Greater(t, g.BaseCost, 0.0, "%s", g.ID)
		assert.Greater(t, g.CostScaling, 1.0, "%s", g.ID)
		got, ok := c.Generator(g.ID)
		require.True(t, ok)
		assert.Equal(t, g, got)
	}
	for _, u := range c.Upgrades {
		assert.False(t, seen[u.ID], "duplicate upgrade id %q", u.ID)
		seen[u.ID] = true
		got, ok := c.Upgrade(u.ID)
		require.True(t, ok)
		assert.Equal(t, u, got)
	}
	for _, th := range c.Themes {
		got, ok := c.Theme(th.ID)
		require.True(t, ok)
		assert.Equal(t, th, got)
	}

	starters := 0
	for _, th := range c.Themes {
		if th.Starter {
			starters++
			assert.Zero(t, th.Cost, "starter theme must be free")
		}
	}
	assert.Equal(t, 1, starters)
}

func TestDefault_ExactlyOneFreeStartingGenerator(t *testing.T) {
	c := Default()
	unlockedFromStart := 0
	for _, g := range c.Generators {
		if g.UnlockAt <= 0 {
			unlockedFromStart++
		}
	}
	assert.Equal(t, 1, unlockedFromStart)
}

func TestLookup_UnknownID(t *testing.T) {
	c := Default()
	_, ok := c.Generator("nope")
	assert.False(t, ok)
	_, ok = c.Upgrade("nope")
	assert.False(t, ok)
	_, ok = c.Theme("nope")
	assert.False(t, ok)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, len(Default().Generators), len(c.Generators))
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generators:
  - id: widget
    name: Widget
    base_yield_per_second: 1.5
    base_cost: 20
    cost_scaling: 1.2
upgrades:
  - id: boost
    name: Boost
    cost: 5
    effect:
      type: clickMultiplier
      value: 1.1
    max_level: 3
themes:
  - id: base
    name: Base
    bonus_multiplier: 1
    starter: true
achievements:
  - id: start
    condition: total_clicks
    threshold: 1
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	g, ok := c.Generator("widget")
	require.True(t, ok)
	assert.Equal(t, 1.5, g.BaseYieldPerSecond)

	u, ok := c.Upgrade("boost")
	require.True(t, ok)
	assert.True(t, u.Leveled())
	assert.Equal(t, EffectClickMultiplier, u.Effect.Type)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
