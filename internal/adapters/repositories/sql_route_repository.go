package repositories

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/db"
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the RouteRepository port.
// The same queries serve sqlite and postgres through Dialect.Rebind.
type SQLRouteRepository struct {
	DB      *sql.DB
	Dialect db.Dialect

	now func() time.Time
}

func NewSQLRouteRepository(conn *sql.DB, dialect db.Dialect) *SQLRouteRepository {
	return &SQLRouteRepository{DB: conn, Dialect: dialect, now: time.Now}
}

// Persist a route and its points in one transaction.
func (s *SQLRouteRepository) SaveRoute(ctx context.Context, route domain.SavedRoute) (_ int64, err error) {
	defer obs.Time(ctx, "repo.SaveRoute")(&err)

	if s.DB == nil {
		return 0, errors.New("route repository: DB is nil")
	}

	createdAt := route.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save route: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRoute := s.Dialect.Rebind(`
	INSERT INTO routes (
		name,
		costing,
		bicycle_type,
		total_distance,
		estimated_duration,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)

	var id int64
	err = tx.QueryRowContext(ctx, insertRoute,
		route.Name,
		string(route.Costing),
		string(route.BicycleType),
		route.TotalDistance,
		route.EstimatedDuration,
		createdAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save route: insert route: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO route_points (
		route_id,
		sequence,
		latitude,
		longitude,
		point_type,
		name
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return 0, fmt.Errorf("save route: prepare points: %w", err)
	}
	defer stmt.Close()

	for _, p := range route.Points {
		_, err := stmt.ExecContext(ctx, id, p.Sequence, p.Latitude, p.Longitude, string(p.PointType), p.Name)
		if err != nil {
			return 0, fmt.Errorf("save route: insert point sequence=%d: %w", p.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save route: commit: %w", err)
	}

	return id, nil
}

// Return the route with points ordered by sequence.
func (s *SQLRouteRepository) GetRoute(ctx context.Context, id int64) (_ *domain.SavedRoute, err error) {
	defer obs.Time(ctx, "repo.GetRoute")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	q := s.Dialect.Rebind(`
	SELECT
		id,
		name,
		costing,
		bicycle_type,
		total_distance,
		estimated_duration,
		created_at
	FROM routes
	WHERE id = ?;
	`)

	var route domain.SavedRoute
	var costing, bicycleType string
	var createdAt int64
	err = s.DB.QueryRowContext(ctx, q, id).Scan(
		&route.ID,
		&route.Name,
		&costing,
		&bicycleType,
		&route.TotalDistance,
		&route.EstimatedDuration,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route id=%d: %w", id, ports.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route id=%d: query routes table: %w", id, err)
	}
	route.Costing = domain.Costing(costing)
	route.BicycleType = domain.BicycleType(bicycleType)
	route.CreatedAt = time.UnixMilli(createdAt).UTC()

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(`
	SELECT
		sequence,
		latitude,
		longitude,
		point_type,
		name
	FROM route_points
	WHERE route_id = ?
	ORDER BY sequence;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("get route id=%d: query route_points table: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.SavedPoint
		var pointType string
		if err := rows.Scan(&p.Sequence, &p.Latitude, &p.Longitude, &pointType, &p.Name); err != nil {
			return nil, fmt.Errorf("get route id=%d: scan point: %w", id, err)
		}
		p.PointType = domain.PointType(pointType)
		route.Points = append(route.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route id=%d: row iteration: %w", id, err)
	}

	return &route, nil
}

// Return summaries of all routes, newest first.
func (s *SQLRouteRepository) ListRoutes(ctx context.Context) (_ []domain.SavedRouteSummary, err error) {
	defer obs.Time(ctx, "repo.ListRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := `
	SELECT
		r.id,
		r.name,
		r.total_distance,
		r.estimated_duration,
		r.created_at,
		(SELECT COUNT(*) FROM route_points p WHERE p.route_id = r.id)
	FROM routes r
	ORDER BY r.created_at DESC, r.id DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SavedRouteSummary, 0, 16)
	for rows.Next() {
		var sum domain.SavedRouteSummary
		var createdAt int64
		err := rows.Scan(&sum.ID, &sum.Name, &sum.TotalDistance, &sum.EstimatedDuration, &createdAt, &sum.PointCount)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return out, nil
}

// Remove a route and its points.
func (s *SQLRouteRepository) DeleteRoute(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "repo.DeleteRoute")(&err)

	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete route: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Points go first; sqlite only cascades with foreign_keys enabled.
	if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM route_points WHERE route_id = ?;`), id); err != nil {
		return fmt.Errorf("delete route id=%d: delete points: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM routes WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("delete route id=%d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete route id=%d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete route id=%d: %w", id, ports.ErrRouteNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete route: commit: %w", err)
	}

	return nil
}
