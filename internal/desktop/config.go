package desktop

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIURL       string        `env:"TURKGPT_API_URL" envDefault:"http://localhost:8001/api"`
	SessionTitle string        `env:"TURKGPT_SESSION_TITLE" envDefault:"Desktop Sohbet"`
	HTTPTimeout  time.Duration `env:"TURKGPT_HTTP_TIMEOUT" envDefault:"30s"`
	Workers      int           `env:"TURKGPT_WORKERS" envDefault:"1"`
	CallerID     string        `env:"TURKGPT_CALLER_ID" envDefault:"desktop"`
	// any non-empty NO_COLOR turns colors off, see no-color.org
	NoColor      string        `env:"NO_COLOR"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse desktop config: %w", err)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("TURKGPT_WORKERS must be at least 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

func (c *Config) ColorDisabled() bool {
	return c.NoColor != ""
}
