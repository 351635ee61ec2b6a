package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration: process settings plus the game
// balance tables. Balance values are tuning knobs; changing them never changes
// the shape of a save.
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Auth    AuthConfig    `yaml:"auth" json:"auth"`
	Balance Balance       `yaml:"balance" json:"balance"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret" json:"-"`
	TokenTTL    time.Duration `yaml:"-" json:"token_ttl"`
}

// yaml.v3 has no native time.Duration support, so duration fields are decoded
// from "250ms" / "8h" strings by hand. Absent keys leave the existing value
// (usually the default) in place.
func (a *AuthConfig) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		TokenSecret *string `yaml:"token_secret"`
		TokenTTL    string  `yaml:"token_ttl"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	if raw.TokenSecret != nil {
		a.TokenSecret = *raw.TokenSecret
	}
	return setDuration(&a.TokenTTL, raw.TokenTTL, "auth.token_ttl")
}

func setDuration(dst *time.Duration, s, key string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// CatalogConfig points at optional YAML catalogue overrides. Empty paths mean
// the compiled-in catalogues are used.
type CatalogConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Balance holds every gameplay tuning constant the simulation core reads.
type Balance struct {
	// ClickThrottle is the minimum interval between accepted clicks. Clicks
	// arriving earlier are dropped, not queued.
	ClickThrottle time.Duration `yaml:"-" json:"click_throttle"`

	// ClickVariance is the half-width of the uniform per-click variance.
	// 0.05 means every accepted click rolls a factor in [0.95, 1.05].
	ClickVariance float64 `yaml:"click_variance" json:"click_variance"`

	// TierBonuses maps an upgrade tier to its flat click bonus. Tiers past the
	// end of the table contribute nothing.
	TierBonuses []float64 `yaml:"tier_bonuses" json:"tier_bonuses"`

	// PrestigeBonus is the per-prestige multiplier step: x(1 + n*PrestigeBonus).
	PrestigeBonus float64 `yaml:"prestige_bonus" json:"prestige_bonus"`

	// NotorietyFactor converts creds/sec into notoriety/sec while production
	// is positive.
	NotorietyFactor float64 `yaml:"notoriety_factor" json:"notoriety_factor"`

	// AwardDropChance is the probability of an award dropping on an accepted click.
	AwardDropChance float64 `yaml:"award_drop_chance" json:"award_drop_chance"`

	// OfflineCap bounds the elapsed time integrated on slot load. Pathological
	// deltas (clock skew, year-old saves) are clamped to this.
	OfflineCap time.Duration `yaml:"-" json:"offline_cap"`

	// ReturnVisitGap is the away time that counts as a "return visit" for the
	// welcome-back unlock.
	ReturnVisitGap time.Duration `yaml:"-" json:"return_visit_gap"`
}

func (b *Balance) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		ClickThrottle   string    `yaml:"click_throttle"`
		ClickVariance   *float64  `yaml:"click_variance"`
		TierBonuses     []float64 `yaml:"tier_bonuses"`
		PrestigeBonus   *float64  `yaml:"prestige_bonus"`
		NotorietyFactor *float64  `yaml:"notoriety_factor"`
		AwardDropChance *float64  `yaml:"award_drop_chance"`
		OfflineCap      string    `yaml:"offline_cap"`
		ReturnVisitGap  string    `yaml:"return_visit_gap"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	if raw.ClickVariance != nil {
		b.ClickVariance = *raw.ClickVariance
	}
	if raw.TierBonuses != nil {
		b.TierBonuses = raw.TierBonuses
	}
	if raw.PrestigeBonus != nil {
		b.PrestigeBonus = *raw.PrestigeBonus
	}
	if raw.NotorietyFactor != nil {
		b.NotorietyFactor = *raw.NotorietyFactor
	}
	if raw.AwardDropChance != nil {
		b.AwardDropChance = *raw.AwardDropChance
	}
	if err := setDuration(&b.ClickThrottle, raw.ClickThrottle, "balance.click_throttle"); err != nil {
		return err
	}
	if err := setDuration(&b.OfflineCap, raw.OfflineCap, "balance.offline_cap"); err != nil {
		return err
	}
	return setDuration(&b.ReturnVisitGap, raw.ReturnVisitGap, "balance.return_visit_gap")
}

// Default returns the configuration the server runs with when no file is given.
func Default() Config {
	return Config{
		Version: "1",
		Server: ServerConfig{
			Addr:    ":8080",
			DataDir: "data",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Balance: DefaultBalance(),
	}
}

func DefaultBalance() Balance {
	return Balance{
		ClickThrottle:   100 * time.Millisecond,
		ClickVariance:   0.05,
		TierBonuses:     []float64{0, 1, 2, 3, 5, 8, 15, 25},
		PrestigeBonus:   0.1,
		NotorietyFactor: 0.01,
		AwardDropChance: 0.005,
		OfflineCap:      8 * time.Hour,
		ReturnVisitGap:  24 * time.Hour,
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Balance.ClickThrottle < 0 {
		return fmt.Errorf("balance.click_throttle must be >= 0")
	}
	if c.Balance.ClickVariance < 0 || c.Balance.ClickVariance >= 1 {
		return fmt.Errorf("balance.click_variance must be in [0, 1)")
	}
	if c.Balance.AwardDropChance < 0 || c.Balance.AwardDropChance > 1 {
		return fmt.Errorf("balance.award_drop_chance must be in [0, 1]")
	}
	if c.Balance.OfflineCap < 0 {
		return fmt.Errorf("balance.offline_cap must be >= 0")
	}
	return nil
}
