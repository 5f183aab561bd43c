package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"starwars/internal/catalog"
	"starwars/internal/config"
	"starwars/internal/db"
	"starwars/internal/logger"
	"starwars/internal/model"
	"starwars/internal/repository"
	"starwars/internal/service"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	appLog := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(gormDB)
	log.Println("Connected to database")

	if err := db.RunMigrations(gormDB, cfg.DBDriver, appLog); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	client, err := catalog.NewClient(cfg.CatalogBaseURL, catalog.Options{
		RateLimit: cfg.CatalogRateLimit,
		RateBurst: cfg.CatalogRateBurst,
		Timeout:   cfg.CatalogTimeout,
		Logger:    appLog,
	})
	if err != nil {
		log.Fatalf("Failed to create catalog client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.NewStore(gormDB)

	if err := seed(ctx, client, catalog.ResourcePeople, service.NewCharacterService(store, appLog)); err != nil {
		log.Fatalf("Failed to seed characters: %v", err)
	}
	if err := seed(ctx, client, catalog.ResourcePlanets, service.NewPlanetService(store, appLog)); err != nil {
		log.Fatalf("Failed to seed planets: %v", err)
	}

	log.Printf("Seed completed successfully!")
}

// seed fetches resource from the catalog and imports it, logging every skipped record.
func seed[T model.CatalogEntity](ctx context.Context, client *catalog.Client, resource string, svc service.CatalogService[T]) error {
	log.Printf("Fetching %s from catalog", resource)
	records, err := client.FetchAll(ctx, resource)
	if err != nil {
		return err
	}
	log.Printf("Fetched %d %s records", len(records), resource)

	result, err := svc.BulkImport(ctx, records)
	if err != nil {
		return err
	}

	for _, s := range result.Skipped {
		log.Printf("  - skipped #%d %q: %s", s.Index, s.Name, s.Reason)
	}
	log.Printf("  - %s created: %d", resource, len(result.Created))
	log.Printf("  - %s skipped: %d", resource, len(result.Skipped))
	return nil
}
