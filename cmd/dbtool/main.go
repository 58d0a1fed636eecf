package main

import (
	"bikeroute-service/internal/adapters/repositories"
	"bikeroute-service/internal/config"
	"bikeroute-service/internal/platform/db"
	"context"
	"database/sql"
	"flag"
	"log"
)

func main() {
	seedOnly := flag.Bool("seed-only", false, "skip schema initialization")
	seedPath := flag.String("seed", "", "seed file (defaults to SEED_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *seedPath != "" {
		cfg.SeedPath = *seedPath
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(conn, cfg, !*seedOnly); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, cfg config.Config, withSchema bool) error {
	ctx := context.Background()

	if withSchema {
		log.Println("Initializing database schema...")
		if err := repositories.InitSchema(ctx, conn, cfg.DBDriver); err != nil {
			return err
		}
		log.Println("Schema ready.")
	}

	log.Println("Seeding database...")
	repo := repositories.NewSQLRouteRepository(conn, cfg.DBDriver)
	n, err := repositories.SeedFromJSON(ctx, repo, cfg.SeedPath)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete. routes=%d", n)

	return nil
}
