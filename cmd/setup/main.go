package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Ascend_Go/internal/bootstrap"
	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/database"
	"github.com/osse101/Ascend_Go/internal/logger"
)

const setupTimeout = 2 * time.Minute

func main() {
	startSeason := flag.Bool("start-season", false, "start a season from the catalog season template if none is active")
	forceSeason := flag.Bool("force-season", false, "with -start-season, replace the active season")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, bootstrap.ServiceName+"-setup", cfg.Version, cfg.Environment, false))

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	// 1. Create the database if it does not exist yet
	if err := ensureDatabase(ctx, cfg); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	// 2. Apply migrations
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", cfg.DBName, err)
	}
	defer pool.Close()

	applied, err := database.Migrate(ctx, pool)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	fmt.Printf("Migrations applied: %d\n", applied)

	// 3. Sync the catalog seed files
	repos := bootstrap.InitializeRepositories(pool, cfg)
	result, err := bootstrap.SyncCatalog(ctx, cfg, repos.Store)
	if err != nil {
		log.Fatalf("Failed to sync catalog: %v", err)
	}
	fmt.Printf("Catalog synced: %d items, %d recipes, %d pets\n", result.Items, result.Recipes, result.Pets)

	// 4. Optionally start a season from the template
	if *startSeason {
		services := bootstrap.InitializeServices(repos.Store, repos.Catalog)
		started, err := bootstrap.StartSeasonFromTemplate(ctx, cfg, services.Season, *forceSeason)
		if err != nil {
			log.Fatalf("Failed to start season: %v", err)
		}
		fmt.Printf("Active season: %s (#%d) ends %s\n", started.Name, started.SeasonNumber, started.EndsAt.Format(time.RFC3339))
	}

	fmt.Println("Setup completed successfully.")
}

// ensureDatabase connects to the default 'postgres' database and creates
// cfg.DBName when missing
func ensureDatabase(ctx context.Context, cfg *config.Config) error {
	defaultConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, defaultConnString)
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
		return nil
	}

	fmt.Printf("Creating database %s...\n", cfg.DBName)
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	fmt.Println("Database created successfully.")
	return nil
}
