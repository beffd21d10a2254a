package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fatih/color"

	"seguimiento/internal/config"
	"seguimiento/internal/console"
	"seguimiento/internal/dashboard"
	"seguimiento/pkg/cache"
	"seguimiento/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	opts := storage.Options{
		Backend: cfg.StorageBackend,
		Path:    cfg.StoragePath,
		MaxSize: cfg.StorageMaxSize,
		APIURL:  cfg.APIURL,
	}
	if cfg.StorageBackend == storage.BackendRedis {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		opts.RedisClient = cache.Connect(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if opts.RedisClient != nil {
			defer opts.RedisClient.Close()
		}
	}

	store, err := storage.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}

	state, err := dashboard.Load(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load dashboard data: %v", err)
	}
	color.Green("Datos cargados: %d cursos, %d grupos (%s)", len(state.Cursos), len(state.Grupos), cfg.StorageBackend)

	if err := console.New(state, store, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Fatalf("Dashboard error: %v", err)
	}
}
