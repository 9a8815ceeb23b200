package tetra

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// TimerPolicy selects what happens to the fall timer after it overflows.
type TimerPolicy string

const (
	// TimerReset zeroes the fall timer after a descent step, so a stalled
	// frame yields at most one descent.
	TimerReset TimerPolicy = "reset"
	// TimerCarry subtracts one interval per descent step, so a stalled frame
	// catches up every interval it missed.
	TimerCarry TimerPolicy = "carry"
)

// Config holds the tunable rules of a game.
type Config struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
	Depth  int `yaml:"depth" toml:"depth"`

	BaseIntervalMs int `yaml:"base_interval_ms" toml:"base_interval_ms"`
	MinIntervalMs  int `yaml:"min_interval_ms" toml:"min_interval_ms"`
	IntervalStepMs int `yaml:"interval_step_ms" toml:"interval_step_ms"`
	LinesPerLevel  int `yaml:"lines_per_level" toml:"lines_per_level"`

	// Points is indexed by the number of layers cleared by one placement.
	Points []int `yaml:"points" toml:"points"`

	TimerPolicy TimerPolicy `yaml:"timer_policy" toml:"timer_policy"`

	// Seed feeds the default RandomSource. Zero picks a time-based seed.
	Seed int64 `yaml:"seed" toml:"seed"`
}

// DefaultConfig returns the standard 10x20x10 rules.
func DefaultConfig() Config {
	return Config{
		Width:          10,
		Height:         20,
		Depth:          10,
		BaseIntervalMs: 1000,
		MinIntervalMs:  100,
		IntervalStepMs: 100,
		LinesPerLevel:  10,
		Points:         []int{0, 100, 300, 500, 800},
		TimerPolicy:    TimerReset,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 || c.Depth <= 0 {
		errs = append(errs, fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", c.Width, c.Height, c.Depth))
	}
	if c.BaseIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("base_interval_ms must be positive, got %d", c.BaseIntervalMs))
	}
	if c.MinIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("min_interval_ms must be positive, got %d", c.MinIntervalMs))
	}
	if c.MinIntervalMs > c.BaseIntervalMs {
		errs = append(errs, fmt.Errorf("min_interval_ms (%d) exceeds base_interval_ms (%d)", c.MinIntervalMs, c.BaseIntervalMs))
	}
	if c.IntervalStepMs < 0 {
		errs = append(errs, fmt.Errorf("interval_step_ms must not be negative, got %d", c.IntervalStepMs))
	}
	if c.LinesPerLevel <= 0 {
		errs = append(errs, fmt.Errorf("lines_per_level must be positive, got %d", c.LinesPerLevel))
	}
	if len(c.Points) == 0 {
		errs = append(errs, errors.New("points table must not be empty"))
	}
	for i, p := range c.Points {
		if p < 0 {
			errs = append(errs, fmt.Errorf("points[%d] must not be negative, got %d", i, p))
		}
	}
	switch c.TimerPolicy {
	case TimerReset, TimerCarry:
	default:
		errs = append(errs, fmt.Errorf("unknown timer_policy %q", c.TimerPolicy))
	}
	return errors.Join(errs...)
}

// Level returns the level reached after clearing lines layers.
func (c Config) Level(lines int) int {
	return lines/c.LinesPerLevel + 1
}

// DropInterval returns the automatic fall interval at level.
func (c Config) DropInterval(level int) time.Duration {
	ms := max(c.MinIntervalMs, c.BaseIntervalMs-(level-1)*c.IntervalStepMs)
	return time.Duration(ms) * time.Millisecond
}

// Award returns the points for clearing n layers at once at level.
// Counts beyond the table use its last entry.
func (c Config) Award(n, level int) int {
	if n <= 0 || len(c.Points) == 0 {
		return 0
	}
	return c.Points[min(n, len(c.Points)-1)] * level
}

// LoadConfig reads a YAML or TOML file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
