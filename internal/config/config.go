package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr           string        `env:"RUN_ADDRESS" env-default:"localhost:8081"`
	BotToken       string        `env:"BOT_TOKEN"`
	PanelDSN       string        `env:"PANEL_DSN"`
	BindingsPath   string        `env:"BINDINGS_PATH" env-default:"bot_data.db"`
	Timezone       string        `env:"TIMEZONE" env-default:"Local"`
	Workers        int           `env:"WORKERS" env-default:"3"`
	QueryTimeout   time.Duration `env:"QUERY_TIMEOUT" env-default:"5s"`
	BaseMinMB      int           `env:"BASE_MIN_MB" env-default:"100"`
	BaseMaxMB      int           `env:"BASE_MAX_MB" env-default:"500"`
	CritRate       float64       `env:"CRIT_RATE" env-default:"0.1"`
	CritMultiplier float64       `env:"CRIT_MULTIPLIER" env-default:"1.5"`
	Milestones     string        `env:"MILESTONES" env-default:"7:2,14:3,21:4"`
	AllowedPlanIDs []int64       `env:"ALLOWED_PLAN_IDS" env-separator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "a", "localhost:8081", "address of the ops HTTP endpoint")
	flag.StringVar(&cfg.PanelDSN, "d", "", "panel database DSN")
	flag.StringVar(&cfg.BindingsPath, "b", "bot_data.db", "path to the local bindings database")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	if cfg.BaseMinMB <= 0 || cfg.BaseMaxMB < cfg.BaseMinMB {
		return nil, fmt.Errorf("invalid base reward range: [%d, %d]", cfg.BaseMinMB, cfg.BaseMaxMB)
	}
	if cfg.CritRate < 0 || cfg.CritRate > 1 {
		return nil, fmt.Errorf("critical rate must be within [0, 1], got %v", cfg.CritRate)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", cfg.Workers)
	}

	return cfg, nil
}

// Location resolves the reference timezone used for calendar-day comparisons.
// It must be called once at startup and the result shared process-wide so that
// streak semantics stay consistent.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("couldn't load timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// MilestoneTable parses the milestone setting ("7:2,14:3,21:4") into a
// streak → multiplier table.
func (c *Config) MilestoneTable() (map[int]float64, error) {
	table := make(map[int]float64)

	for _, entry := range strings.Split(c.Milestones, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		day, mult, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid milestone entry %q", entry)
		}

		d, err := strconv.Atoi(strings.TrimSpace(day))
		if err != nil || d < 1 {
			return nil, fmt.Errorf("invalid milestone day in %q", entry)
		}

		m, err := strconv.ParseFloat(strings.TrimSpace(mult), 64)
		if err != nil || m < 1 {
			return nil, fmt.Errorf("invalid milestone multiplier in %q", entry)
		}

		table[d] = m
	}

	return table, nil
}
