// Command starsim serves the starlanes procedural world and market API.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"starlanes/internal/api"
	"starlanes/internal/config"
	"starlanes/internal/market"
	"starlanes/internal/session"
	"starlanes/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to YAML config (defaults apply if unset)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		slog.Error("invalid environment override", "error", err)
		os.Exit(1)
	}

	world, err := worldgen.New(cfg.World)
	if err != nil {
		slog.Error("invalid world config", "error", err)
		os.Exit(1)
	}
	slog.Info("world generator ready",
		"seed", cfg.World.WorldSeed,
		"cell_size", cfg.World.CellSize,
		"station_probability", cfg.World.StationProbability,
	)

	markets, err := market.NewGenerator(cfg.Catalog, cfg.Market)
	if err != nil {
		slog.Error("invalid market config", "error", err)
		os.Exit(1)
	}
	slog.Info("market generator ready", "commodities", len(cfg.Catalog))

	if dir := filepath.Dir(cfg.Server.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}
	store, err := session.Open(cfg.Server.DBPath)
	if err != nil {
		slog.Error("failed to open session store", "path", cfg.Server.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("session store opened", "path", cfg.Server.DBPath)

	server := &api.Server{
		World:   world,
		Markets: markets,
		Store:   store,
		Port:    cfg.Server.Port,
	}
	server.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down", "cells_cached", world.CachedCells())
}
