package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/bootstrap"
	"github.com/CodeTanzania/emis-feature/internal/config"
	"github.com/CodeTanzania/emis-feature/internal/repository/specification"
	"github.com/CodeTanzania/emis-feature/internal/repository/unitofwork"
	"github.com/CodeTanzania/emis-feature/pkg/database"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

func main() {
	purge := flag.Bool("purge", false, "hard-delete all features (including soft-deleted) before seeding")
	flag.Parse()

	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *purge {
		if err := purgeFeatures(ctx, db); err != nil {
			log.Fatal("Error: Failed to purge features:", err)
		}
	}

	container := bootstrap.NewContainer(db, cfg)

	color.Cyan("Seeding features from %s ...", cfg.Feature.SeedsPath)
	start := time.Now()

	seeded, err := container.SeedService.Seed(ctx)
	if err != nil {
		color.Red("Seeding finished with errors after %s:", time.Since(start).Round(time.Millisecond))
		color.Red("%v", err)
	}

	for _, f := range seeded {
		color.White("  %s/%s/%s/%s (%s)", f.Nature, f.Family, f.Type, f.Name, f.Id)
	}
	if err == nil {
		color.Green("Seeded %d features in %s", len(seeded), time.Since(start).Round(time.Millisecond))
	}
}

func purgeFeatures(ctx context.Context, db *gorm.DB) error {
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).FeatureRepository()

	features, err := repo.FindAll(ctx, specification.WithDeleted{})
	if err != nil {
		return err
	}
	for _, f := range features {
		if err := repo.Purge(ctx, f.Id); err != nil {
			return err
		}
	}
	color.Yellow("Purged %d features", len(features))
	return nil
}
