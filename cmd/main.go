package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"seguimiento/internal/config"
	"seguimiento/internal/handlers"
	"seguimiento/internal/repository"
	"seguimiento/internal/services"
	"seguimiento/pkg/cache"
	"seguimiento/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rdb := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cancel()
	if rdb != nil {
		defer rdb.Close()
	}
	statsCache := cache.New(rdb, "estadisticas:", cfg.StatsCacheTTL)

	router := gin.Default()
	router.Use(handlers.CORSMiddleware(cfg.CORSOrigins))

	// Without a database the server still answers /health and /api/status.
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Printf("Database unavailable, starting in degraded mode: %v", err)
		handlers.RegisterRoutes(router, handlers.Handlers{
			System: handlers.NewSystemHandler(cfg, nil, statsCache),
		})
	} else {
		defer db.Close()
		log.Printf("Connected to %s", cfg.DatabaseLabel())

		if cfg.SeedOnInit {
			if seeded, err := db.SeedIfEmpty(context.Background()); err != nil {
				log.Printf("Failed to seed sample data: %v", err)
			} else if seeded {
				log.Printf("Loaded sample data into empty database")
			}
		}

		cursoRepo := repository.NewCursoRepository(db.DB)
		grupoRepo := repository.NewGrupoRepository(db.DB)

		cursoService := services.NewCursoService(cursoRepo, grupoRepo, statsCache)
		grupoService := services.NewGrupoService(grupoRepo, cursoRepo, statsCache)
		statsService := services.NewStatsService(cursoRepo, grupoRepo, statsCache)
		reportService := services.NewReportService(grupoRepo)

		handlers.RegisterRoutes(router, handlers.Handlers{
			System: handlers.NewSystemHandler(cfg, db, statsCache),
			Cursos: handlers.NewCursoHandler(cursoService),
			Grupos: handlers.NewGrupoHandler(grupoService),
			Stats:  handlers.NewStatsHandler(statsService, reportService),
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting server on %s (%s)", addr, cfg.Environment)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
