package main

import (
	"bikeroute-service/internal/adapters/cache"
	"bikeroute-service/internal/adapters/geocode"
	"bikeroute-service/internal/adapters/repositories"
	"bikeroute-service/internal/adapters/valhalla"
	"bikeroute-service/internal/api"
	"bikeroute-service/internal/config"
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/db"
	"bikeroute-service/internal/ports"
	"bikeroute-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Valhalla, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, cfg); err != nil {
		log.Fatal(err)
	}

	var responseCache ports.ResponseCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, route cache disabled: addr=%s err=%v", cfg.RedisAddr, err)
		} else {
			responseCache = cache.NewRedisResponseCache(rdb)
		}
	}

	engine, err := valhalla.NewClient(cfg.ValhallaURL, responseCache, cfg.RouteCacheTTL)
	if err != nil {
		log.Fatal(err)
	}

	// Geocoding is optional; search insertion answers 503 without a key.
	var geocoder ports.Geocoder
	if cfg.ORSAPIKey != "" {
		g, err := geocode.NewORSGeocoder(cfg.ORSAPIKey, cache.NewSQLGeocodeCache(conn, cfg.DBDriver))
		if err != nil {
			log.Fatal(err)
		}
		geocoder = g
	}

	repo := repositories.NewSQLRouteRepository(conn, cfg.DBDriver)
	planner := services.NewPlanner(engine, repo, geocoder, cfg.DefaultOptions)

	current := &services.CurrentRoute{}
	unsubscribe := current.Subscribe(func(r *domain.MultiWaypointRoute) {
		if r == nil {
			log.Printf("current route cleared")
			return
		}
		log.Printf("current route updated waypoints=%d distance_km=%.2f duration_s=%.0f",
			len(r.Waypoints), r.TotalDistance, r.TotalDuration)
	})
	defer unsubscribe()

	router := api.NewRouter(planner, current)

	// Write timeout covers a cold engine call including retries.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening addr=:%s engine=%s db=%s", cfg.Port, cfg.ValhallaURL, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

func initAndSeed(conn *sql.DB, cfg config.Config) error {
	ctx := context.Background()

	if err := repositories.InitSchema(ctx, conn, cfg.DBDriver); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(cfg.SeedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file not found, skipping: path=%s", cfg.SeedPath)
		return nil
	}

	repo := repositories.NewSQLRouteRepository(conn, cfg.DBDriver)
	n, err := repositories.SeedFromJSON(ctx, repo, cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("seeded routes=%d", n)

	return nil
}
