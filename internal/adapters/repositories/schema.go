package repositories

import (
	"bikeroute-service/internal/platform/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema for the given dialect.
// created_at is stored as unix milliseconds so both drivers scan it the same way.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == db.Postgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS routes (
		%s,
		name TEXT NOT NULL,
		costing TEXT NOT NULL,
		bicycle_type TEXT NOT NULL DEFAULT '',
		total_distance DOUBLE PRECISION NOT NULL,
		estimated_duration DOUBLE PRECISION NOT NULL,
		created_at BIGINT NOT NULL
	);
	`, idColumn)

	createRoutePointsQuery := `
	CREATE TABLE IF NOT EXISTS route_points (
		route_id BIGINT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		point_type TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (route_id, sequence)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_created_at
	ON routes(created_at);
	`

	statements := []string{
		createRoutesQuery,
		createRoutePointsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
