// Package config loads cabinet and server tuning: built-in defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"maps"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"snag-frenzy/assets"
	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/claw"
	"snag-frenzy/internal/game"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"
	"snag-frenzy/internal/rng"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Cabinet is the session tuning.
type Cabinet struct {
	StartCoins   int           `yaml:"start_coins"`
	RoundSeconds int           `yaml:"round_seconds"`
	ClawStart    float64       `yaml:"claw_start"`
	ClawMin      float64       `yaml:"claw_min"`
	ClawMax      float64       `yaml:"claw_max"`
	ClawStep     float64       `yaml:"claw_step"`
	TickInterval time.Duration `yaml:"tick_interval"`
	DescendDelay time.Duration `yaml:"descend_delay"`
	AscendDelay  time.Duration `yaml:"ascend_delay"`
	ResetDelay   time.Duration `yaml:"reset_delay"`
}

// Claw is the grab tuning. Chances are keyed by rarity name.
type Claw struct {
	Threshold float64            `yaml:"threshold"`
	Chances   map[string]float64 `yaml:"chances"`
	Fallback  float64            `yaml:"fallback"`
}

// Bin is the populator tuning.
type Bin struct {
	MinItems  int            `yaml:"min_items"`
	MaxItems  int            `yaml:"max_items"`
	MaxCustom int            `yaml:"max_custom"`
	FillMode  string         `yaml:"fill_mode"`
	Weights   map[string]int `yaml:"weights"`
	Seed      int64          `yaml:"seed"` // 0 seeds from crypto/rand
}

// Config is everything a binary needs.
type Config struct {
	Cabinet     Cabinet        `yaml:"cabinet"`
	Claw        Claw           `yaml:"claw"`
	Bin         Bin            `yaml:"bin"`
	Rewards     map[string]int `yaml:"rewards"`
	DataDir     string         `yaml:"data_dir"`
	SSHAddr     string         `yaml:"ssh_addr"`
	HTTPAddr    string         `yaml:"http_addr"`
	HostKey     string         `yaml:"host_key"`
	DatabaseURL string         `yaml:"database_url"`
	LogLevel    string         `yaml:"log_level"`
}

// Default returns the stock cabinet.
func Default() *Config {
	s := game.DefaultSettings()
	chances := make(map[string]float64, len(claw.DefaultChances))
	for r, p := range claw.DefaultChances {
		chances[r.String()] = p
	}
	rewards := make(map[string]int)
	for r, n := range inventory.DefaultRewards() {
		rewards[r.String()] = n
	}
	weights := make(map[string]int)
	for r, w := range assets.RarityWeights {
		weights[r.String()] = w
	}
	return &Config{
		Cabinet: Cabinet{
			StartCoins:   s.StartCoins,
			RoundSeconds: s.RoundSeconds,
			ClawStart:    s.ClawStart,
			ClawMin:      s.ClawMin,
			ClawMax:      s.ClawMax,
			ClawStep:     s.ClawStep,
			TickInterval: s.TickInterval,
			DescendDelay: s.DescendDelay,
			AscendDelay:  s.AscendDelay,
			ResetDelay:   s.ResetDelay,
		},
		Claw: Claw{
			Threshold: claw.DefaultThreshold,
			Chances:   chances,
			Fallback:  claw.DefaultFallback,
		},
		Bin: Bin{
			MinItems:  5,
			MaxItems:  8,
			MaxCustom: 2,
			FillMode:  bin.FillUniform.String(),
			Weights:   weights,
		},
		Rewards:  rewards,
		SSHAddr:  ":2222",
		HTTPAddr: ":8080",
		HostKey:  "server_host_key",
		LogLevel: "info",
	}
}

// LoadEnv reads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := cfg.overlayYAML(data); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayYAML decodes data over c. Rarity-keyed sections are decoded on their
// own and merged under canonical names, so "ultrarare" replaces the default
// "ultraRare" instead of sitting next to it.
func (c *Config) overlayYAML(data []byte) error {
	chances, weights, rewards := c.Claw.Chances, c.Bin.Weights, c.Rewards
	c.Claw.Chances, c.Bin.Weights, c.Rewards = nil, nil, nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	var err1, err2, err3 error
	c.Claw.Chances, err1 = overlayRarities("claw.chances", chances, c.Claw.Chances)
	c.Bin.Weights, err2 = overlayRarities("bin.weights", weights, c.Bin.Weights)
	c.Rewards, err3 = overlayRarities("rewards", rewards, c.Rewards)
	return errors.Join(err1, err2, err3)
}

// overlayRarities lays file values over defaults. Known rarity names are
// rewritten to their canonical spelling; unknown ones are kept for Validate.
func overlayRarities[V any](section string, defaults, file map[string]V) (map[string]V, error) {
	out := make(map[string]V, len(defaults)+len(file))
	maps.Copy(out, defaults)
	seen := make(map[string]string, len(file))
	for name, v := range file {
		key := name
		if r, ok := prize.ParseRarity(name); ok {
			key = r.String()
		}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s: %q and %q name the same rarity", section, prev, name)
		}
		seen[key] = name
		out[key] = v
	}
	return out, nil
}

// applyEnv overlays SNAG_* variables, DATABASE_URL and PORT.
func (c *Config) applyEnv() error {
	var errs []string
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setInt("SNAG_START_COINS", &c.Cabinet.StartCoins)
	setInt("SNAG_ROUND_SECONDS", &c.Cabinet.RoundSeconds)
	setInt("SNAG_MAX_CUSTOM", &c.Bin.MaxCustom)
	setStr("SNAG_FILL_MODE", &c.Bin.FillMode)
	setStr("SNAG_DATA_DIR", &c.DataDir)
	setStr("SNAG_SSH_ADDR", &c.SSHAddr)
	setStr("SNAG_HTTP_ADDR", &c.HTTPAddr)
	setStr("SNAG_HOST_KEY", &c.HostKey)
	setStr("SNAG_LOG_LEVEL", &c.LogLevel)
	setStr("DATABASE_URL", &c.DatabaseURL)
	if v := os.Getenv("SNAG_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SNAG_SEED: %q is not an integer", v))
		} else {
			c.Bin.Seed = seed
		}
	}
	// PORT is what hosting platforms set; it wins over SNAG_HTTP_ADDR.
	if p := os.Getenv("PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			c.HTTPAddr = ":" + p
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config env: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string
	cab := c.Cabinet
	if cab.StartCoins < 0 {
		errs = append(errs, "cabinet.start_coins must be >= 0")
	}
	if cab.RoundSeconds <= 0 {
		errs = append(errs, "cabinet.round_seconds must be > 0")
	}
	if cab.ClawMin >= cab.ClawMax {
		errs = append(errs, "cabinet.claw_min must be < claw_max")
	}
	if cab.ClawStart < cab.ClawMin || cab.ClawStart > cab.ClawMax {
		errs = append(errs, "cabinet.claw_start must lie within [claw_min, claw_max]")
	}
	if cab.ClawStep <= 0 {
		errs = append(errs, "cabinet.claw_step must be > 0")
	}
	if cab.TickInterval <= 0 {
		errs = append(errs, "cabinet.tick_interval must be > 0")
	}
	if cab.DescendDelay < 0 || cab.AscendDelay < 0 || cab.ResetDelay < 0 {
		errs = append(errs, "cabinet phase delays must be >= 0")
	}

	if c.Claw.Threshold <= 0 {
		errs = append(errs, "claw.threshold must be > 0")
	}
	if c.Claw.Fallback < 0 || c.Claw.Fallback > 1 {
		errs = append(errs, "claw.fallback must be in [0,1]")
	}
	for name, p := range c.Claw.Chances {
		if _, ok := prize.ParseRarity(name); !ok {
			errs = append(errs, fmt.Sprintf("claw.chances: unknown rarity %q", name))
		}
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Sprintf("claw.chances.%s must be in [0,1]", name))
		}
	}

	if c.Bin.MinItems < 0 || c.Bin.MinItems > c.Bin.MaxItems {
		errs = append(errs, "bin.min_items must be in [0, max_items]")
	}
	if c.Bin.MaxCustom < 0 {
		errs = append(errs, "bin.max_custom must be >= 0")
	}
	if m := c.Bin.FillMode; m != bin.FillUniform.String() && m != bin.FillWeighted.String() {
		errs = append(errs, fmt.Sprintf("bin.fill_mode %q must be uniform or weighted", m))
	}
	for name, w := range c.Bin.Weights {
		if _, ok := prize.ParseRarity(name); !ok {
			errs = append(errs, fmt.Sprintf("bin.weights: unknown rarity %q", name))
		}
		if w < 0 {
			errs = append(errs, fmt.Sprintf("bin.weights.%s must be >= 0", name))
		}
	}
	for name, n := range c.Rewards {
		if _, ok := prize.ParseRarity(name); !ok {
			errs = append(errs, fmt.Sprintf("rewards: unknown rarity %q", name))
		}
		if n < 0 {
			errs = append(errs, fmt.Sprintf("rewards.%s must be >= 0", name))
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("log_level %q is not a level", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Settings converts the cabinet section.
func (c *Config) Settings() game.Settings {
	cab := c.Cabinet
	return game.Settings{
		StartCoins:   cab.StartCoins,
		RoundSeconds: cab.RoundSeconds,
		ClawStart:    cab.ClawStart,
		ClawMin:      cab.ClawMin,
		ClawMax:      cab.ClawMax,
		ClawStep:     cab.ClawStep,
		TickInterval: cab.TickInterval,
		DescendDelay: cab.DescendDelay,
		AscendDelay:  cab.AscendDelay,
		ResetDelay:   cab.ResetDelay,
	}
}

// Rand returns a generator seeded from bin.seed, or from crypto/rand when
// the seed is zero.
func (c *Config) Rand() *rand.Rand {
	if c.Bin.Seed != 0 {
		return rng.NewSeeded(c.Bin.Seed)
	}
	return rng.New()
}

// BinConfig converts the bin section. Each cabinet needs its own r.
func (c *Config) BinConfig(r *rand.Rand, log zerolog.Logger) *bin.Config {
	return &bin.Config{
		MinItems:  c.Bin.MinItems,
		MaxItems:  c.Bin.MaxItems,
		MaxCustom: c.Bin.MaxCustom,
		Fill:      bin.ParseFillMode(c.Bin.FillMode),
		Weights:   byRarity(c.Bin.Weights),
		Rand:      r,
		Logger:    log,
	}
}

// Resolver converts the claw section.
func (c *Config) Resolver() *claw.Resolver {
	return &claw.Resolver{
		Threshold: c.Claw.Threshold,
		Chances:   byRarity(c.Claw.Chances),
		Fallback:  c.Claw.Fallback,
	}
}

// RewardTable converts the rewards section.
func (c *Config) RewardTable() inventory.Rewards {
	return inventory.Rewards(byRarity(c.Rewards))
}

func byRarity[V any](in map[string]V) map[prize.Rarity]V {
	out := make(map[prize.Rarity]V, len(in))
	for name, v := range in {
		if r, ok := prize.ParseRarity(name); ok {
			out[r] = v
		}
	}
	return out
}
