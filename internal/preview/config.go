package preview

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the preview server settings, loaded from CHARTSMITH_*
// environment variables. Command flags override parsed values.
type Config struct {
	Addr              string        `env:"CHARTSMITH_ADDR"                envDefault:"127.0.0.1:8470"`
	WatchInterval     time.Duration `env:"CHARTSMITH_WATCH_INTERVAL"      envDefault:"500ms"`
	ReadHeaderTimeout time.Duration `env:"CHARTSMITH_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"CHARTSMITH_SHUTDOWN_TIMEOUT"    envDefault:"5s"`

	// Watch re-reads the chart file while serving. Set by the preview
	// command, not the environment.
	Watch bool `env:"-"`
}

// LoadConfig parses configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
