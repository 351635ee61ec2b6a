package game

import (
	"math"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
)

// Composer folds every active bonus into the click and per-second yields.
// It is stateless; both the engine and the UI breakdown consult it.
//
// The composition order is fixed and not commutative in outcome:
//
//	((base + additives) × Π leveled^level) × (1 + prestige×bonus) × theme
//
// Click yield is floored to an integer at click time, after variance;
// per-second yield stays fractional.
type Composer struct {
	Catalog *catalog.Catalog
	Balance config.Balance
}

// BreakdownStep is one recorded composition step. Replaying the steps in order
// reconstructs the final value; the per-click variance is applied only at
// click time and never appears here.
type BreakdownStep struct {
	Label string  `json:"label"`
	Op    string  `json:"op"` // "+" or "x"
	Value float64 `json:"value"`
	Total float64 `json:"total"`
}

// ClickPower returns the pre-variance click yield.
func (c Composer) ClickPower(s *GameState) float64 {
	v, _ := c.composeClick(s, false)
	return v
}

// ClickBreakdown returns the per-step composition of the click yield.
func (c Composer) ClickBreakdown(s *GameState) []BreakdownStep {
	_, steps := c.composeClick(s, true)
	return steps
}

func (c Composer) composeClick(s *GameState, record bool) (float64, []BreakdownStep) {
	var steps []BreakdownStep
	add := func(label, op string, value, total float64) {
		if record {
			steps = append(steps, BreakdownStep{Label: label, Op: op, Value: value, Total: total})
		}
	}

	total := 1.0
	add("Base click", "+", 1, total)

	// Additive contributions first: tier bonuses, flat upgrades, theme flat bonus.
	for _, u := range s.Upgrades {
		def, ok := c.Catalog.Upgrade(u.ID)
		if !ok || def.Effect.Type != catalog.EffectClickAdditive {
			continue
		}
		bonus := c.additiveBonus(def, u)
		if bonus == 0 {
			continue
		}
		total += bonus
		add(def.Name, "+", bonus, total)
	}
	if t := s.ActiveTheme(); t != nil {
		if def, ok := c.Catalog.Theme(t.ID); ok && def.BonusClickPower != 0 {
			total += def.BonusClickPower
			add(def.Name+" (theme)", "+", def.BonusClickPower, total)
		}
	}

	// Leveled exponential multipliers, one factor per qualifying upgrade.
	for _, u := range s.Upgrades {
		def, ok := c.Catalog.Upgrade(u.ID)
		if !ok {
			continue
		}
		switch def.Effect.Type {
		case catalog.EffectClickMultiplier, catalog.EffectGlobalMultiplier:
			f := c.multiplierFactor(def, u)
			if f == 1 {
				continue
			}
			total *= f
			add(def.Name, "x", f, total)
		case catalog.EffectClickAdditive, catalog.EffectGeneratorMultiplier:
			// handled elsewhere
		}
	}

	// Prestige multiplier.
	if s.Prestige > 0 {
		f := 1 + float64(s.Prestige)*c.Balance.PrestigeBonus
		total *= f
		add("Prestige", "x", f, total)
	}

	// Active theme multiplier last.
	if t := s.ActiveTheme(); t != nil {
		if def, ok := c.Catalog.Theme(t.ID); ok && def.BonusMultiplier != 0 && def.BonusMultiplier != 1 {
			total *= def.BonusMultiplier
			add(def.Name+" (theme)", "x", def.BonusMultiplier, total)
		}
	}

	return total, steps
}

// CredsPerSecond returns the fractional automated yield per second.
func (c Composer) CredsPerSecond(s *GameState) float64 {
	total := 0.0
	for _, g := range s.Generators {
		def, ok := c.Catalog.Generator(g.ID)
		if !ok {
			// Definition gone from the catalogue: the owned units are inert.
			continue
		}
		total += float64(g.Owned) * def.BaseYieldPerSecond
	}
	if total <= 0 {
		return 0
	}

	for _, u := range s.Upgrades {
		def, ok := c.Catalog.Upgrade(u.ID)
		if !ok {
			continue
		}
		switch def.Effect.Type {
		case catalog.EffectGeneratorMultiplier, catalog.EffectGlobalMultiplier:
			total *= c.multiplierFactor(def, u)
		case catalog.EffectClickAdditive, catalog.EffectClickMultiplier:
		}
	}

	if s.Prestige > 0 {
		total *= 1 + float64(s.Prestige)*c.Balance.PrestigeBonus
	}
	if t := s.ActiveTheme(); t != nil {
		if def, ok := c.Catalog.Theme(t.ID); ok && def.BonusMultiplier > 0 {
			total *= def.BonusMultiplier
		}
	}
	return total
}

// additiveBonus resolves a clickAdditive upgrade's flat contribution. Tiered
// upgrades read the tier table (a tier past the table contributes 0); untiered
// ones contribute their value, scaled by level when repeatable.
func (c Composer) additiveBonus(def catalog.UpgradeDef, u Upgrade) float64 {
	if def.Tier > 0 {
		if !u.Purchased && u.Level == 0 {
			return 0
		}
		if def.Tier >= len(c.Balance.TierBonuses) {
			return 0
		}
		return c.Balance.TierBonuses[def.Tier]
	}
	if def.Leveled() {
		return def.Effect.Value * float64(u.Level)
	}
	if !u.Purchased {
		return 0
	}
	return def.Effect.Value
}

// multiplierFactor resolves a multiplicative upgrade's factor. Leveled
// upgrades contribute value^level (level 0 is a no-op factor of 1).
func (c Composer) multiplierFactor(def catalog.UpgradeDef, u Upgrade) float64 {
	if def.Leveled() {
		if u.Level <= 0 {
			return 1
		}
		return math.Pow(def.Effect.Value, float64(u.Level))
	}
	if !u.Purchased {
		return 1
	}
	return def.Effect.Value
}
