package main

import (
	"fmt"
	"time"

	"homestead/internal/domain/economy"

	"github.com/caarlos0/env/v11"
)

type config struct {
	HTTPAddr         string         `env:"FARM_HTTP_ADDR"         envDefault:":8080"`
	DatabaseDSN      string         `env:"FARM_DB_DSN"`
	AutoMigrate      bool           `env:"FARM_AUTO_MIGRATE"      envDefault:"true"`
	MigrationsDir    string         `env:"FARM_MIGRATIONS_DIR"`
	CatalogPath      string         `env:"FARM_CATALOG_PATH"`
	SweepInterval    time.Duration  `env:"FARM_SWEEP_INTERVAL"    envDefault:"1m"`
	StarterResources map[string]int `env:"FARM_STARTER_RESOURCES" envDefault:"gold:500,wood:200,stone:150,food:100,energy:100,agrobucks:10" envSeparator:","`
	LogLevel         string         `env:"FARM_LOG_LEVEL"         envDefault:"info"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SweepInterval < 0 {
		return config{}, fmt.Errorf("FARM_SWEEP_INTERVAL must not be negative")
	}
	for name, n := range cfg.StarterResources {
		if n < 0 {
			return config{}, fmt.Errorf("FARM_STARTER_RESOURCES: %s must not be negative", name)
		}
	}
	return cfg, nil
}

func (c config) starter() economy.Balance {
	return economy.FromStrings(c.StarterResources)
}
