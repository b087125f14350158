package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/memorygrid/internal/playback"
)

// Config is read from the environment after .env has been loaded.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"./data/memory.log"`
	DBPath   string `env:"MEMORY_DB" envDefault:"./data/memory.db"`
	Locale   string `env:"MEMORY_LOCALE" envDefault:"fr"`

	// Ephemeral keeps scores in memory only.
	Ephemeral bool   `env:"MEMORY_EPHEMERAL" envDefault:"false"`
	// Seed fixes the step generator; 0 seeds from the runtime.
	Seed      uint64 `env:"MEMORY_SEED" envDefault:"0"`

	LeadIn     time.Duration `env:"MEMORY_LEAD_IN" envDefault:"1s"`
	Gap        time.Duration `env:"MEMORY_GAP" envDefault:"500ms"`
	Show       time.Duration `env:"MEMORY_SHOW" envDefault:"600ms"`
	RoundPause time.Duration `env:"MEMORY_ROUND_PAUSE" envDefault:"1500ms"`
	TapFlash   time.Duration `env:"MEMORY_TAP_FLASH" envDefault:"300ms"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Gap <= 0 || cfg.Show <= 0 {
		return Config{}, fmt.Errorf("MEMORY_GAP and MEMORY_SHOW must be positive")
	}
	if cfg.TapFlash >= cfg.RoundPause+cfg.LeadIn+cfg.Gap {
		return Config{}, fmt.Errorf("MEMORY_TAP_FLASH %s outlasts the pause before the next highlight", cfg.TapFlash)
	}
	return cfg, nil
}

func (c Config) timings() playback.Timings {
	return playback.Timings{
		LeadIn:     c.LeadIn,
		Gap:        c.Gap,
		Show:       c.Show,
		RoundPause: c.RoundPause,
		TapFlash:   c.TapFlash,
	}
}
