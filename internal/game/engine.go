package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
)

// Result classifies the outcome of an engine operation. Rule failures are
// results, not errors: every operation is total and returns the input state
// unchanged when it does not apply.
type Result string

const (
	ResultOK                Result = "ok"
	ResultThrottled         Result = "throttled"
	ResultInsufficientFunds Result = "insufficient_funds"
	ResultInvalidTarget     Result = "invalid_target"
)

// Engine applies player intents and elapsed time to a GameState. All methods
// are pure transforms over the value they receive; the engine itself carries
// no per-save state, so one engine serves any number of slots.
type Engine struct {
	Composer
	Clock Clock
	rng   *rand.Rand
}

func NewEngine(cat *catalog.Catalog, bal config.Balance, clock Clock, rng *rand.Rand) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		Composer: Composer{Catalog: cat, Balance: bal},
		Clock:    clock,
		rng:      rng,
	}
}

// ClickOutcome reports what an accepted click produced.
type ClickOutcome struct {
	Result       Result  `json:"result"`
	Yield        float64 `json:"yield"`
	AwardDropped bool    `json:"awardDropped"`
}

// Click applies one manual click. Clicks inside the throttle window are
// silently dropped. Accepted clicks roll the uniform variance, floor the
// yield, and may drop an award.
func (e *Engine) Click(s GameState) (GameState, ClickOutcome) {
	now := e.Clock.Now()
	if !s.LastClickAt.IsZero() && now.Sub(s.LastClickAt) < e.Balance.ClickThrottle {
		return s, ClickOutcome{Result: ResultThrottled}
	}

	out := s.Clone()
	out.LastClickAt = now

	power := e.ClickPower(&out)
	variance := 1 + (e.rng.Float64()*2-1)*e.Balance.ClickVariance
	yield := math.Floor(power * variance)
	if yield < 1 {
		yield = 1
	}

	out.Creds += yield
	out.Stats.TotalClicks++
	out.Stats.TotalCredsEarned += yield

	oc := ClickOutcome{Result: ResultOK, Yield: yield}
	if e.Balance.AwardDropChance > 0 && e.rng.Float64() < e.Balance.AwardDropChance {
		out.Awards++
		out.Stats.AwardsEarned++
		oc.AwardDropped = true
	}

	e.refreshUnlocks(&out)
	return out, oc
}

// TickOutcome reports what one elapsed-time integration produced.
type TickOutcome struct {
	CredsGained     float64 `json:"credsGained"`
	NotorietyGained float64 `json:"notorietyGained"`
}

// AdvanceTime integrates automated production over the given delta. Offline
// progress is the same operation with a large delta; the caller is responsible
// for capping pathological deltas before calling.
func (e *Engine) AdvanceTime(s GameState, delta time.Duration) (GameState, TickOutcome) {
	if delta <= 0 {
		return s, TickOutcome{}
	}

	out := s.Clone()
	secs := delta.Seconds()

	cps := e.CredsPerSecond(&out)
	var tick TickOutcome
	if cps > 0 {
		tick.CredsGained = cps * secs
		out.Creds += tick.CredsGained
		out.Stats.TotalCredsEarned += tick.CredsGained

		// Notoriety only accrues while net production is positive.
		tick.NotorietyGained = cps * e.Balance.NotorietyFactor * secs
		out.Notoriety += tick.NotorietyGained
	}
	out.Stats.PlayTimeSeconds += secs

	e.refreshUnlocks(&out)
	return out, tick
}

// PurchaseGenerator buys one unit of a generator and advances its cost along
// the geometric curve cost(n) = floor(base × scaling^owned).
func (e *Engine) PurchaseGenerator(s GameState, id string) (GameState, Result) {
	def, ok := e.Catalog.Generator(id)
	if !ok {
		return s, ResultInvalidTarget
	}
	g := s.Generator(id)
	if g == nil || !g.Unlocked {
		return s, ResultInvalidTarget
	}
	if s.Creds < g.Cost {
		return s, ResultInsufficientFunds
	}

	out := s.Clone()
	og := out.Generator(id)
	out.Creds -= og.Cost
	og.Owned++
	og.Cost = math.Floor(def.BaseCost * math.Pow(def.CostScaling, float64(og.Owned)))
	out.Stats.TotalGeneratorsPurchased++

	e.refreshUnlocks(&out)
	return out, ResultOK
}

// PurchaseUpgrade buys a one-shot upgrade or the next level of a leveled one.
func (e *Engine) PurchaseUpgrade(s GameState, id string) (GameState, Result) {
	def, ok := e.Catalog.Upgrade(id)
	if !ok {
		return s, ResultInvalidTarget
	}
	u := s.Upgrade(id)
	if u == nil {
		return s, ResultInvalidTarget
	}
	if def.Leveled() {
		if u.Level >= def.MaxLevel {
			return s, ResultInvalidTarget
		}
	} else if u.Purchased {
		return s, ResultInvalidTarget
	}
	if s.Creds < u.Cost {
		return s, ResultInsufficientFunds
	}

	out := s.Clone()
	ou := out.Upgrade(id)
	out.Creds -= ou.Cost
	if def.Leveled() {
		ou.Level++
		scaling := def.CostScaling
		if scaling <= 0 {
			scaling = 1
		}
		ou.Cost = math.Floor(def.Cost * math.Pow(scaling, float64(ou.Level)))
	} else {
		ou.Purchased = true
	}
	out.Stats.TotalUpgradesPurchased++

	e.refreshUnlocks(&out)
	return out, ResultOK
}

// PurchaseTheme unlocks a theme, spending awards. Buying an already-unlocked
// theme is an invalid target, not a refund.
func (e *Engine) PurchaseTheme(s GameState, id string) (GameState, Result) {
	def, ok := e.Catalog.Theme(id)
	if !ok {
		return s, ResultInvalidTarget
	}
	t := s.Theme(id)
	if t == nil || t.Unlocked {
		return s, ResultInvalidTarget
	}
	if s.Awards < def.Cost {
		return s, ResultInsufficientFunds
	}

	out := s.Clone()
	out.Awards -= def.Cost
	out.Theme(id).Unlocked = true
	return out, ResultOK
}

// ActivateTheme makes the given owned theme the single active one.
func (e *Engine) ActivateTheme(s GameState, id string) (GameState, Result) {
	t := s.Theme(id)
	if t == nil || !t.Unlocked {
		return s, ResultInvalidTarget
	}

	out := s.Clone()
	for i := range out.Themes {
		out.Themes[i].Active = out.Themes[i].ID == id
	}
	return out, ResultOK
}

// Prestige resets run progress for a permanent multiplier step.
//
// Reset to factory: creds, notoriety, generator ownership/unlocks/costs, and
// every non-permanent upgrade. Preserved: awards, themes, achievements, stats,
// settings, and the prestige counter itself (incremented). The boundary is
// kept symmetric with NewGameState.
func (e *Engine) Prestige(s GameState) (GameState, Result) {
	out := s.Clone()
	out.Creds = 0
	out.Notoriety = 0

	for i := range out.Generators {
		def, ok := e.Catalog.Generator(out.Generators[i].ID)
		if !ok {
			continue
		}
		out.Generators[i].Owned = 0
		out.Generators[i].Unlocked = def.UnlockAt <= 0
		out.Generators[i].Cost = def.BaseCost
	}
	for i := range out.Upgrades {
		def, ok := e.Catalog.Upgrade(out.Upgrades[i].ID)
		if !ok || def.Permanent {
			continue
		}
		out.Upgrades[i].Purchased = false
		out.Upgrades[i].Level = 0
		out.Upgrades[i].Cost = def.Cost
	}

	out.Prestige++
	out.Stats.PrestigeCount++
	return out, ResultOK
}

// refreshUnlocks reveals generators whose lifetime-creds threshold has been
// reached. Unlocks never revert.
func (e *Engine) refreshUnlocks(s *GameState) {
	for i := range s.Generators {
		if s.Generators[i].Unlocked {
			continue
		}
		def, ok := e.Catalog.Generator(s.Generators[i].ID)
		if !ok {
			continue
		}
		if s.Stats.TotalCredsEarned >= def.UnlockAt {
			s.Generators[i].Unlocked = true
		}
	}
}
