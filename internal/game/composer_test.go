package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
)

func testCatalog() *catalog.Catalog {
	return catalog.FromDefinitions(
		[]catalog.GeneratorDef{
			{ID: "gen_a", Name: "Gen A", BaseYieldPerSecond: 1, BaseCost: 10, CostScaling: 1.15},
			{ID: "gen_b", Name: "Gen B", BaseYieldPerSecond: 2, BaseCost: 50, CostScaling: 1.15, UnlockAt: 100},
		},
		[]catalog.UpgradeDef{
			{ID: "tier2", Name: "Tier Two", Cost: 10, Effect: catalog.Effect{Type: catalog.EffectClickAdditive, Value: 2}, Tier: 2},
			{ID: "flat3", Name: "Flat Three", Cost: 10, Effect: catalog.Effect{Type: catalog.EffectClickAdditive, Value: 3}},
			{ID: "expo", Name: "Expo", Cost: 10, CostScaling: 2, Effect: catalog.Effect{Type: catalog.EffectClickMultiplier, Value: 1.1}, MaxLevel: 5},
			{ID: "gen_boost", Name: "Gen Boost", Cost: 10, CostScaling: 2, Effect: catalog.Effect{Type: catalog.EffectGeneratorMultiplier, Value: 1.5}, MaxLevel: 3},
			{ID: "keep", Name: "Keeper", Cost: 10, Effect: catalog.Effect{Type: catalog.EffectGlobalMultiplier, Value: 2}, Permanent: true},
		},
		[]catalog.ThemeDef{
			{ID: "default", Name: "Default", BonusMultiplier: 1, Starter: true},
			{ID: "boost", Name: "Boost", Cost: 1, BonusMultiplier: 1.2},
			{ID: "clicky", Name: "Clicky", Cost: 1, BonusMultiplier: 1.1, BonusClickPower: 2},
		},
		[]catalog.AchievementDef{
			{ID: "first_click", Condition: "total_clicks", Threshold: 1},
		},
	)
}

func testComposer() Composer {
	return Composer{Catalog: testCatalog(), Balance: config.DefaultBalance()}
}

func TestClickPower_CompositionOrder(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))

	s.Upgrade("tier2").Purchased = true
	s.Upgrade("flat3").Purchased = true
	s.Upgrade("expo").Level = 2
	s.Prestige = 1
	s.Theme("boost").Unlocked = true
	for i := range s.Themes {
		s.Themes[i].Active = s.Themes[i].ID == "boost"
	}

	// ((1 + 2 + 3) × 1.1²) × 1.1 × 1.2
	want := ((1.0 + 2 + 3) * 1.1 * 1.1) * 1.1 * 1.2
	assert.InDelta(t, want, comp.ClickPower(&s), 1e-9)
}

func TestClickPower_LevelZeroMultiplierIsNoop(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))

	s.Upgrade("expo").Level = 0
	assert.InDelta(t, 1.0, comp.ClickPower(&s), 1e-9)
}

func TestClickPower_TierPastTableContributesZero(t *testing.T) {
	cat := catalog.FromDefinitions(
		nil,
		[]catalog.UpgradeDef{
			{ID: "tier99", Cost: 1, Effect: catalog.Effect{Type: catalog.EffectClickAdditive, Value: 5}, Tier: 99},
		},
		nil, nil,
	)
	comp := Composer{Catalog: cat, Balance: config.DefaultBalance()}
	s := NewGameState(cat, time.Unix(0, 0))
	s.Upgrade("tier99").Purchased = true

	assert.InDelta(t, 1.0, comp.ClickPower(&s), 1e-9)
}

func TestClickPower_ThemeFlatBonusIsAdditive(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))

	s.Theme("clicky").Unlocked = true
	for i := range s.Themes {
		s.Themes[i].Active = s.Themes[i].ID == "clicky"
	}

	// (1 + 2) × 1.1
	assert.InDelta(t, 3.3, comp.ClickPower(&s), 1e-9)
}

func TestCredsPerSecond_SumsOwnedGenerators(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))

	s.Generator("gen_a").Owned = 3
	s.Generator("gen_b").Owned = 2
	assert.InDelta(t, 7.0, comp.CredsPerSecond(&s), 1e-9)
}

func TestCredsPerSecond_GeneratorMultiplierAndPrestige(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))

	s.Generator("gen_a").Owned = 2
	s.Upgrade("gen_boost").Level = 1
	s.Prestige = 2

	// 2 × 1.5 × (1 + 2×0.1)
	assert.InDelta(t, 2*1.5*1.2, comp.CredsPerSecond(&s), 1e-9)
}

func TestCredsPerSecond_MissingDefinitionIsInert(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))
	s.Generators = append(s.Generators, Generator{ID: "ghost", Owned: 100, Unlocked: true})

	assert.InDelta(t, 0.0, comp.CredsPerSecond(&s), 1e-9)
}

func TestClickBreakdown_ReplaysToFinalValue(t *testing.T) {
	comp := testComposer()
	s := NewGameState(comp.Catalog, time.Unix(0, 0))

	s.Upgrade("tier2").Purchased = true
	s.Upgrade("flat3").Purchased = true
	s.Upgrade("expo").Level = 3
	s.Prestige = 2
	s.Theme("boost").Unlocked = true
	for i := range s.Themes {
		s.Themes[i].Active = s.Themes[i].ID == "boost"
	}

	steps := comp.ClickBreakdown(&s)
	require.NotEmpty(t, steps)

	// Replay the recorded steps in order; the running totals must agree at
	// every step and end at ClickPower.
	total := 0.0
	for _, st := range steps {
		switch st.Op {
		case "+":
			total += st.Value
		case "x":
			total *= st.Value
		default:
			t.Fatalf("unexpected op %q", st.Op)
		}
		assert.InDelta(t, st.Total, total, 1e-9)
	}
	assert.InDelta(t, comp.ClickPower(&s), total, 1e-9)
}
