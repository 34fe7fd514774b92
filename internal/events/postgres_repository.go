package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routecast/routecast/internal/geo"
)

// haversineSQL computes the great-circle distance in kilometers between the
// bound reference point ($1 lat, $2 lon) and a stored row. Kept in plain SQL
// so proximity ordering happens in the database without a GIS extension.
const haversineSQL = `
	2 * 6371 * ASIN(SQRT(
		POWER(SIN(RADIANS(lat - $1) / 2), 2) +
		COS(RADIANS($1)) * COS(RADIANS(lat)) *
		POWER(SIN(RADIANS(lon - $2) / 2), 2)
	))
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL event repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateBraking stores a new braking event.
func (r *PostgresRepository) CreateBraking(ctx context.Context, event *BrakingEvent) error {
	query := `
		INSERT INTO braking_events (id, lat, lon, recorded_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Lat,
		event.Lon,
		event.RecordedAt,
	)
	return err
}

// NearestBraking returns up to limit braking events ordered by distance from
// the given point.
func (r *PostgresRepository) NearestBraking(ctx context.Context, from geo.Point, limit int) ([]BrakingEvent, error) {
	query := `
		SELECT id, lat, lon, recorded_at, ` + haversineSQL + ` AS distance_km
		FROM braking_events
		ORDER BY distance_km
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, from.Lat, from.Lon, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []BrakingEvent
	for rows.Next() {
		var event BrakingEvent
		err := rows.Scan(
			&event.ID,
			&event.Lat,
			&event.Lon,
			&event.RecordedAt,
			&event.DistanceKM,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// AccidentsInBox returns every accident cluster inside the bounding box.
func (r *PostgresRepository) AccidentsInBox(ctx context.Context, box geo.BoundingBox) ([]AccidentCluster, error) {
	query := `
		SELECT id, lat, lon, accident_count
		FROM accident_clusters
		WHERE lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4
	`

	rows, err := r.pool.Query(ctx, query, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []AccidentCluster
	for rows.Next() {
		var cluster AccidentCluster
		err := rows.Scan(
			&cluster.ID,
			&cluster.Lat,
			&cluster.Lon,
			&cluster.Count,
		)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}

	return clusters, rows.Err()
}

// NearestAccidents returns up to limit accident clusters ordered by distance
// from the given point.
func (r *PostgresRepository) NearestAccidents(ctx context.Context, from geo.Point, limit int) ([]AccidentCluster, error) {
	query := `
		SELECT id, lat, lon, accident_count, ` + haversineSQL + ` AS distance_km
		FROM accident_clusters
		ORDER BY distance_km
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, from.Lat, from.Lon, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []AccidentCluster
	for rows.Next() {
		var cluster AccidentCluster
		err := rows.Scan(
			&cluster.ID,
			&cluster.Lat,
			&cluster.Lon,
			&cluster.Count,
			&cluster.DistanceKM,
		)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}

	return clusters, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
