package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"seguimiento/internal/config"
	"seguimiento/internal/models"
	"seguimiento/pkg/database"
)

func main() {
	reset := flag.Bool("reset", false, "drop every table before loading the sample data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if *reset {
		if err := db.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
	} else {
		seeded, err := db.SeedIfEmpty(ctx)
		if err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		if !seeded {
			fmt.Println("Database already has data, nothing to do (use -reset to start over)")
			return
		}
	}

	var cursos, grupos, historial int64
	db.DB.Model(&models.Curso{}).Count(&cursos)
	db.DB.Model(&models.Grupo{}).Count(&grupos)
	db.DB.Model(&models.HistorialEntry{}).Count(&historial)

	fmt.Printf("Sample data loaded into %s:\n", cfg.DatabaseLabel())
	fmt.Printf("  cursos:    %d\n", cursos)
	fmt.Printf("  grupos:    %d\n", grupos)
	fmt.Printf("  historial: %d\n", historial)
}
