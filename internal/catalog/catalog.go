// Package catalog holds the immutable content tables the simulation reads:
// generator, upgrade, theme and achievement definitions, keyed by stable string
// IDs. The engine never writes these; saves reference them by ID and must
// tolerate an ID whose definition has since disappeared.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EffectType tags what an upgrade's effect applies to. The composer matches on
// it exhaustively; an unknown tag (from an older catalogue) is inert.
type EffectType string

const (
	EffectClickAdditive       EffectType = "clickAdditive"
	EffectClickMultiplier     EffectType = "clickMultiplier"
	EffectGeneratorMultiplier EffectType = "generatorMultiplier"
	EffectGlobalMultiplier    EffectType = "globalMultiplier"
)

type Effect struct {
	Type  EffectType `yaml:"type" json:"type"`
	Value float64    `yaml:"value" json:"value"`
}

// GeneratorDef describes one automated producer.
type GeneratorDef struct {
	ID                 string  `yaml:"id" json:"id"`
	Name               string  `yaml:"name" json:"name"`
	BaseYieldPerSecond float64 `yaml:"base_yield_per_second" json:"base_yield_per_second"`
	BaseCost           float64 `yaml:"base_cost" json:"base_cost"`
	CostScaling        float64 `yaml:"cost_scaling" json:"cost_scaling"`
	// UnlockAt is the lifetime creds total that reveals the generator.
	// Zero means available from the start.
	UnlockAt float64 `yaml:"unlock_at" json:"unlock_at"`
}

// UpgradeDef describes a purchasable yield modifier. MaxLevel 0 means a
// one-shot purchase; MaxLevel > 0 means a repeatable leveled upgrade whose
// effect scales as value^level and whose cost scales geometrically.
type UpgradeDef struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Cost        float64 `yaml:"cost" json:"cost"`
	CostScaling float64 `yaml:"cost_scaling" json:"cost_scaling"`
	Effect      Effect  `yaml:"effect" json:"effect"`

	// Tier indexes the flat click-bonus table for clickAdditive upgrades.
	// Zero means the upgrade contributes its Effect.Value directly.
	Tier     int `yaml:"tier" json:"tier"`
	MaxLevel int `yaml:"max_level" json:"max_level"`

	// Permanent upgrades survive a prestige reset.
	Permanent bool `yaml:"permanent" json:"permanent"`
}

func (d UpgradeDef) Leveled() bool { return d.MaxLevel > 0 }

// ThemeDef describes a cosmetic unlock. Themes are bought with awards and at
// most one is active per save.
type ThemeDef struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Cost            int     `yaml:"cost" json:"cost"`
	BonusMultiplier float64 `yaml:"bonus_multiplier" json:"bonus_multiplier"`
	BonusClickPower float64 `yaml:"bonus_click_power" json:"bonus_click_power"`
	// Starter themes are unlocked (and the first one active) in a fresh save.
	Starter bool `yaml:"starter" json:"starter"`
}

// AchievementDef describes one unlockable. Condition is a key the evaluator
// understands; Threshold is the comparator operand.
type AchievementDef struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Condition   string  `yaml:"condition" json:"condition"`
	Threshold   float64 `yaml:"threshold" json:"threshold"`
}

type Catalog struct {
	Generators   []GeneratorDef   `yaml:"generators" json:"generators"`
	Upgrades     []UpgradeDef     `yaml:"upgrades" json:"upgrades"`
	Themes       []ThemeDef       `yaml:"themes" json:"themes"`
	Achievements []AchievementDef `yaml:"achievements" json:"achievements"`

	generatorsByID map[string]GeneratorDef
	upgradesByID   map[string]UpgradeDef
	themesByID     map[string]ThemeDef
}

// FromDefinitions assembles an indexed catalogue from in-memory tables.
// Mostly useful for tests and tooling; the server loads YAML or defaults.
func FromDefinitions(gens []GeneratorDef, ups []UpgradeDef, themes []ThemeDef, achs []AchievementDef) *Catalog {
	c := &Catalog{Generators: gens, Upgrades: ups, Themes: themes, Achievements: achs}
	c.index()
	return c
}

// Load reads a YAML catalogue file. An empty path returns the compiled-in
// default catalogue.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c.index()
	return &c, nil
}

func (c *Catalog) index() {
	c.generatorsByID = make(map[string]GeneratorDef, len(c.Generators))
	for _, g := range c.Generators {
		c.generatorsByID[g.ID] = g
	}
	c.upgradesByID = make(map[string]UpgradeDef, len(c.Upgrades))
	for _, u := range c.Upgrades {
		c.upgradesByID[u.ID] = u
	}
	c.themesByID = make(map[string]ThemeDef, len(c.Themes))
	for _, t := range c.Themes {
		c.themesByID[t.ID] = t
	}
}

func (c *Catalog) Generator(id string) (GeneratorDef, bool) {
	d, ok := c.generatorsByID[id]
	return d, ok
}

func (c *Catalog) Upgrade(id string) (UpgradeDef, bool) {
	d, ok := c.upgradesByID[id]
	return d, ok
}

func (c *Catalog) Theme(id string) (ThemeDef, bool) {
	d, ok := c.themesByID[id]
	return d, ok
}
