package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dm0114/capacitor-push-prototype/internal/config"
	"github.com/dm0114/capacitor-push-prototype/internal/repository/postgres"
	"github.com/dm0114/capacitor-push-prototype/internal/seed"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only migrate the schema, don't load fixtures")
	clearData := flag.Bool("clear-data", false, "Empty all workspace tables (keep schema)")
	fixturesPath := flag.String("fixtures", "", "YAML fixture file (default: built-in starter workspace)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger := config.NewLogger(os.Stdout, true, cfg.Debug)
	logger.Info("seeding database", "environment", cfg.Environment, "table_prefix", cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropAll(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("tables dropped")
	}

	if err := postgres.Migrate(ctx, pool, tables, logger); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	if *schemaOnly {
		return
	}

	if *clearData {
		if err := postgres.ClearData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		logger.Info("data cleared")
		return
	}

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	repos := seed.Repositories{
		Users:      postgres.NewUserRepository(repoConfig),
		Pages:      postgres.NewPageRepository(repoConfig),
		Blocks:     postgres.NewBlockRepository(repoConfig),
		Properties: postgres.NewPropertyRepository(repoConfig),
		Rows:       postgres.NewRowRepository(repoConfig),
		Views:      postgres.NewViewRepository(repoConfig),
	}

	if _, err := fixtures.Apply(ctx, repos, logger); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	logger.Info("seeding complete")
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
