// Package game is the simulation core: the GameState aggregate, the multiplier
// composer and the progression engine. Everything here is deterministic given
// a clock and an RNG; nothing here schedules, persists or renders.
package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
)

// GameState is one save's complete progress. It is mutated only through engine
// operations, which take a value and return the transformed value.
type GameState struct {
	ID string `json:"id"`

	// Creds is the primary currency. Never negative.
	Creds float64 `json:"creds"`
	// Awards is the premium currency, earned via drops, spent on themes.
	Awards int `json:"awards"`
	// Prestige counts completed resets. Only ever increases.
	Prestige int `json:"prestige"`
	// Notoriety accrues only while creds production is positive.
	Notoriety float64 `json:"notoriety"`

	Generators   []Generator   `json:"generators"`
	Upgrades     []Upgrade     `json:"upgrades"`
	Themes       []Theme       `json:"themes"`
	Achievements []Achievement `json:"achievements"`

	Stats    Statistics `json:"stats"`
	Settings Settings   `json:"settings"`

	LastClickAt time.Time `json:"lastClickAt"`
	// LastSeenAt is stamped on every persist; the gap to the next load drives
	// offline progress and the return-visit unlock.
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Generator is the owned portion of a generator definition.
type Generator struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
	Owned    int    `json:"owned"`
	// Cost is the price of the next unit, maintained by the engine from the
	// definition's scaling curve.
	Cost float64 `json:"cost"`
}

// Upgrade is the owned portion of an upgrade definition. One-shot upgrades use
// Purchased; leveled upgrades use Level.
type Upgrade struct {
	ID        string `json:"id"`
	Purchased bool   `json:"purchased"`
	Level     int    `json:"level"`
	// Cost is the price of the next purchase/level.
	Cost float64 `json:"cost"`
}

// Theme is the owned portion of a theme definition. At most one theme is
// active at a time.
type Theme struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
	Active   bool   `json:"active"`
}

// Achievement is one entry in the per-save unlock ledger. Unlocked never
// reverts to false.
type Achievement struct {
	ID         string     `json:"id"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// Statistics are monotonic counters. They feed both display and achievement
// conditions, and they survive prestige.
type Statistics struct {
	TotalClicks              int     `json:"totalClicks"`
	TotalCredsEarned         float64 `json:"totalCredsEarned"`
	AwardsEarned             int     `json:"awardsEarned"`
	TotalGeneratorsPurchased int     `json:"totalGeneratorsPurchased"`
	TotalUpgradesPurchased   int     `json:"totalUpgradesPurchased"`
	PrestigeCount            int     `json:"prestigeCount"`
	// PlayTimeSeconds is integrated play time, including capped offline time.
	PlayTimeSeconds float64 `json:"playTime"`
	SessionCount    int     `json:"sessionCount"`
}

type Settings struct {
	TutorialCompleted bool `json:"tutorialCompleted"`
}

// NewGameState builds the canonical zero-progress save from the catalogue.
// The prestige reset boundary in Engine.Prestige is defined against this shape.
func NewGameState(cat *catalog.Catalog, now time.Time) GameState {
	s := GameState{
		ID:         uuid.NewString(),
		LastSeenAt: now,
		CreatedAt:  now,
	}
	for _, def := range cat.Generators {
		s.Generators = append(s.Generators, Generator{
			ID:       def.ID,
			Unlocked: def.UnlockAt <= 0,
			Cost:     def.BaseCost,
		})
	}
	for _, def := range cat.Upgrades {
		s.Upgrades = append(s.Upgrades, Upgrade{ID: def.ID, Cost: def.Cost})
	}
	activeSet := false
	for _, def := range cat.Themes {
		t := Theme{ID: def.ID, Unlocked: def.Starter}
		if def.Starter && !activeSet {
			t.Active = true
			activeSet = true
		}
		s.Themes = append(s.Themes, t)
	}
	for _, def := range cat.Achievements {
		s.Achievements = append(s.Achievements, Achievement{ID: def.ID})
	}
	return s
}

// Clone deep-copies the state so engine transforms never alias the caller's
// slices.
func (s GameState) Clone() GameState {
	out := s
	out.Generators = append([]Generator(nil), s.Generators...)
	out.Upgrades = append([]Upgrade(nil), s.Upgrades...)
	out.Themes = append([]Theme(nil), s.Themes...)
	out.Achievements = append([]Achievement(nil), s.Achievements...)
	return out
}

// Generator returns a pointer into s for the given ID, or nil.
func (s *GameState) Generator(id string) *Generator {
	for i := range s.Generators {
		if s.Generators[i].ID == id {
			return &s.Generators[i]
		}
	}
	return nil
}

func (s *GameState) Upgrade(id string) *Upgrade {
	for i := range s.Upgrades {
		if s.Upgrades[i].ID == id {
			return &s.Upgrades[i]
		}
	}
	return nil
}

func (s *GameState) Theme(id string) *Theme {
	for i := range s.Themes {
		if s.Themes[i].ID == id {
			return &s.Themes[i]
		}
	}
	return nil
}

// ActiveTheme returns the single active theme, or nil if none is active.
func (s *GameState) ActiveTheme() *Theme {
	for i := range s.Themes {
		if s.Themes[i].Active {
			return &s.Themes[i]
		}
	}
	return nil
}
