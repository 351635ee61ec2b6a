package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

func testCatalog() *catalog.Catalog {
	return catalog.FromDefinitions(
		[]catalog.GeneratorDef{
			{ID: "gen_a", BaseYieldPerSecond: 1, BaseCost: 10, CostScaling: 1.15},
			{ID: "gen_b", BaseYieldPerSecond: 2, BaseCost: 50, CostScaling: 1.15, UnlockAt: 100},
		},
		nil,
		[]catalog.ThemeDef{
			{ID: "default", BonusMultiplier: 1, Starter: true},
			{ID: "boost", Cost: 1, BonusMultiplier: 1.2},
		},
		[]catalog.AchievementDef{
			{ID: "ten_clicks", Condition: "total_clicks", Threshold: 10},
			{ID: "rich", Condition: "creds_balance", Threshold: 1000},
			{ID: "collector", Condition: "all_generators_unlocked"},
			{ID: "meta_two", Condition: "achievements_unlocked", Threshold: 2},
			{ID: "mystery", Condition: "moon_phase", Threshold: 1},
			{ID: "welcome_back", Condition: ConditionReturnVisit},
		},
	)
}

func newState(cat *catalog.Catalog) game.GameState {
	return game.NewGameState(cat, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestCheck_UnlocksMetConditionsOnce(t *testing.T) {
	cat := testCatalog()
	clock := game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ev := NewEvaluator(cat, clock, nil)
	s := newState(cat)
	s.Stats.TotalClicks = 10

	out := ev.Check(&s)
	require.Equal(t, []string{"ten_clicks"}, out.NewlyUnlocked)

	entry := ledgerEntry(t, out.Ledger, "ten_clicks")
	assert.True(t, entry.Unlocked)
	require.NotNil(t, entry.UnlockedAt)
	assert.Equal(t, clock.Now(), *entry.UnlockedAt)

	// Second pass over the committed ledger unlocks nothing.
	s.Achievements = out.Ledger
	again := ev.Check(&s)
	assert.Empty(t, again.NewlyUnlocked)
	entry = ledgerEntry(t, again.Ledger, "ten_clicks")
	assert.True(t, entry.Unlocked, "unlocks never revert")
}

func TestCheck_UnknownConditionStaysLockedAndSurfaced(t *testing.T) {
	cat := testCatalog()
	ev := NewEvaluator(cat, nil, nil)
	s := newState(cat)

	out := ev.Check(&s)
	assert.Contains(t, out.UnknownConditions, "moon_phase")
	assert.False(t, ledgerEntry(t, out.Ledger, "mystery").Unlocked)
}

func TestCheck_ReturnVisitSkippedByGenericScan(t *testing.T) {
	cat := testCatalog()
	ev := NewEvaluator(cat, nil, nil)
	s := newState(cat)

	out := ev.Check(&s)
	assert.False(t, ledgerEntry(t, out.Ledger, "welcome_back").Unlocked)
	assert.NotContains(t, out.UnknownConditions, ConditionReturnVisit)
}

func TestCheck_AllGeneratorsUnlocked(t *testing.T) {
	cat := testCatalog()
	ev := NewEvaluator(cat, nil, nil)
	s := newState(cat)

	out := ev.Check(&s)
	assert.False(t, ledgerEntry(t, out.Ledger, "collector").Unlocked, "gen_b still locked")

	s.Generator("gen_b").Unlocked = true
	out = ev.Check(&s)
	assert.True(t, ledgerEntry(t, out.Ledger, "collector").Unlocked)
}

func TestCheck_MetaCountIsExactMatch(t *testing.T) {
	cat := testCatalog()
	ev := NewEvaluator(cat, nil, nil)
	s := newState(cat)

	s.Achievements[0].Unlocked = true // ten_clicks
	out := ev.Check(&s)
	assert.NotContains(t, out.NewlyUnlocked, "meta_two", "one unlocked, needs exactly two")

	s.Achievements[1].Unlocked = true // rich
	out = ev.Check(&s)
	assert.Contains(t, out.NewlyUnlocked, "meta_two")

	s.Achievements[2].Unlocked = true // collector, now three unlocked
	out = ev.Check(&s)
	assert.NotContains(t, out.NewlyUnlocked, "meta_two")
}

func TestCheckReturnVisit_GapThreshold(t *testing.T) {
	cat := testCatalog()
	ev := NewEvaluator(cat, nil, nil)
	s := newState(cat)

	out := ev.CheckReturnVisit(&s, 23*time.Hour, 24*time.Hour)
	assert.Empty(t, out.NewlyUnlocked)

	out = ev.CheckReturnVisit(&s, 25*time.Hour, 24*time.Hour)
	assert.Equal(t, []string{"welcome_back"}, out.NewlyUnlocked)
	assert.True(t, ledgerEntry(t, out.Ledger, "welcome_back").Unlocked)

	// Already unlocked: a later qualifying gap is a no-op.
	s.Achievements = out.Ledger
	out = ev.CheckReturnVisit(&s, 48*time.Hour, 24*time.Hour)
	assert.Empty(t, out.NewlyUnlocked)
}

func TestCheck_StaleLedgerEntryIsInert(t *testing.T) {
	cat := testCatalog()
	ev := NewEvaluator(cat, nil, nil)
	s := newState(cat)
	s.Achievements = append(s.Achievements, game.Achievement{ID: "removed_from_catalog"})

	out := ev.Check(&s)
	assert.False(t, ledgerEntry(t, out.Ledger, "removed_from_catalog").Unlocked)
	assert.Empty(t, out.UnknownConditions)
}

func ledgerEntry(t *testing.T, ledger []game.Achievement, id string) game.Achievement {
	t.Helper()
	for _, a := range ledger {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not in ledger", id)
	return game.Achievement{}
}
