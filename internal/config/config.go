// Package config loads the server configuration: world generation
// parameters, market model parameters, the commodity catalog, and server
// settings. Values come from defaults, then an optional YAML file, then
// environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"starlanes/internal/market"
	"starlanes/internal/worldgen"
)

// Config is the full configuration surface.
type Config struct {
	World   worldgen.Config    `yaml:"world"`
	Market  market.Config      `yaml:"market"`
	Catalog []market.Commodity `yaml:"catalog"`
	Server  Server             `yaml:"server"`
}

// Server holds HTTP and storage settings.
type Server struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		World:   worldgen.DefaultConfig(),
		Market:  market.DefaultConfig(),
		Catalog: market.DefaultCatalog(),
		Server: Server{
			Port:   8080,
			DBPath: "data/session.db",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment:
// STARLANES_PORT, STARLANES_DB_PATH, STARLANES_WORLD_SEED.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STARLANES_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STARLANES_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("STARLANES_DB_PATH"); v != "" {
		c.Server.DBPath = v
	}
	if v := os.Getenv("STARLANES_WORLD_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STARLANES_WORLD_SEED: %w", err)
		}
		c.World.WorldSeed = seed
	}
	return nil
}
