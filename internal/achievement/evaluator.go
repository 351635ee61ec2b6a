// Package achievement re-derives the per-save unlock ledger from game state.
// Evaluation is idempotent and side-effect-free: the evaluator only returns
// the updated ledger, the caller commits it.
package achievement

import (
	"time"

	"go.uber.org/zap"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/game"
)

// Evaluator scans not-yet-unlocked achievements against derived state.
type Evaluator struct {
	cat    *catalog.Catalog
	clock  game.Clock
	logger *zap.Logger
}

func NewEvaluator(cat *catalog.Catalog, clock game.Clock, logger *zap.Logger) *Evaluator {
	if clock == nil {
		clock = game.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{cat: cat, clock: clock, logger: logger}
}

// Outcome is the result of one evaluation pass.
type Outcome struct {
	NewlyUnlocked []string           `json:"newlyUnlocked"`
	Ledger        []game.Achievement `json:"ledger"`
	// UnknownConditions lists condition keys the evaluator did not recognize.
	// Those achievements stay locked; the keys are surfaced for diagnostics.
	UnknownConditions []string `json:"unknownConditions,omitempty"`
}

// Check evaluates every locked achievement against the current state. Already
// unlocked entries are never re-evaluated or reverted, so calling Check twice
// on the same state unlocks nothing the second time.
func (ev *Evaluator) Check(s *game.GameState) Outcome {
	out := Outcome{Ledger: append([]game.Achievement(nil), s.Achievements...)}
	now := ev.clock.Now()

	for i := range out.Ledger {
		a := &out.Ledger[i]
		if a.Unlocked {
			continue
		}
		def, ok := ev.definition(a.ID)
		if !ok {
			// Ledger entry from an older catalogue; leave it locked and inert.
			continue
		}
		if def.Condition == ConditionReturnVisit {
			// Depends on two load-time timestamps; unlocked only via
			// CheckReturnVisit during slot load.
			continue
		}

		met, known := ev.conditionMet(def, s)
		if !known {
			out.UnknownConditions = append(out.UnknownConditions, def.Condition)
			ev.logger.Warn("unknown achievement condition",
				zap.String("achievement", def.ID),
				zap.String("condition", def.Condition))
			continue
		}
		if met {
			t := now
			a.Unlocked = true
			a.UnlockedAt = &t
			out.NewlyUnlocked = append(out.NewlyUnlocked, a.ID)
		}
	}
	return out
}

// ConditionReturnVisit is the one key the generic scan skips; it is evaluated
// from the load-time gap between LastSeenAt and now.
const ConditionReturnVisit = "return_after_24h"

// CheckReturnVisit unlocks the return-visit achievement when the away gap is
// at least minGap. Called once per slot load, before any state mutation.
func (ev *Evaluator) CheckReturnVisit(s *game.GameState, awayFor, minGap time.Duration) Outcome {
	out := Outcome{Ledger: append([]game.Achievement(nil), s.Achievements...)}
	if awayFor < minGap {
		return out
	}
	now := ev.clock.Now()
	for i := range out.Ledger {
		a := &out.Ledger[i]
		if a.Unlocked {
			continue
		}
		def, ok := ev.definition(a.ID)
		if !ok || def.Condition != ConditionReturnVisit {
			continue
		}
		t := now
		a.Unlocked = true
		a.UnlockedAt = &t
		out.NewlyUnlocked = append(out.NewlyUnlocked, a.ID)
	}
	return out
}

func (ev *Evaluator) definition(id string) (catalog.AchievementDef, bool) {
	for _, def := range ev.cat.Achievements {
		if def.ID == id {
			return def, true
		}
	}
	return catalog.AchievementDef{}, false
}

// conditionMet maps a condition key to its comparator. Most keys are numeric
// >= thresholds; achievements_unlocked is an exact match and
// all_generators_unlocked is a set-completeness check.
func (ev *Evaluator) conditionMet(def catalog.AchievementDef, s *game.GameState) (met, known bool) {
	switch def.Condition {
	case "total_clicks":
		return float64(s.Stats.TotalClicks) >= def.Threshold, true
	case "total_creds_earned":
		return s.Stats.TotalCredsEarned >= def.Threshold, true
	case "creds_balance":
		return s.Creds >= def.Threshold, true
	case "generators_purchased":
		return float64(s.Stats.TotalGeneratorsPurchased) >= def.Threshold, true
	case "upgrades_purchased":
		return float64(s.Stats.TotalUpgradesPurchased) >= def.Threshold, true
	case "awards_earned":
		return float64(s.Stats.AwardsEarned) >= def.Threshold, true
	case "prestige_count":
		return float64(s.Stats.PrestigeCount) >= def.Threshold, true
	case "notoriety":
		return s.Notoriety >= def.Threshold, true
	case "play_time":
		return s.Stats.PlayTimeSeconds >= def.Threshold, true
	case "themes_unlocked":
		n := 0
		for _, t := range s.Themes {
			if t.Unlocked {
				n++
			}
		}
		return float64(n) >= def.Threshold, true
	case "all_generators_unlocked":
		for _, g := range s.Generators {
			if !g.Unlocked {
				return false, true
			}
		}
		return len(s.Generators) > 0, true
	case "achievements_unlocked":
		n := 0
		for _, a := range s.Achievements {
			if a.Unlocked {
				n++
			}
		}
		return float64(n) == def.Threshold, true
	default:
		return false, false
	}
}
