package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/logger"
)

// IRouteRepository defines the data access operations for bus routes
type IRouteRepository interface {
	Create(ctx context.Context, route *models.Route) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Route, error)
	List(ctx context.Context) ([]*models.Route, error)
	Delete(ctx context.Context, id int64) error
}

var routeColumns = []string{"id", "route_name", "start_location", "end_location", "driver_name", "capacity", "created_at"}

// RouteRepository handles bus route database operations
type RouteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanRoute(row pgx.Row) (*models.Route, error) {
	route := &models.Route{}
	err := row.Scan(&route.ID, &route.Name, &route.StartLocation, &route.EndLocation,
		&route.DriverName, &route.Capacity, &route.CreatedAt)
	if err != nil {
		return nil, err
	}
	return route, nil
}

// Create inserts a route and returns its id
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) (int64, error) {
	sql, args, err := r.sb.Insert("bus_routes").
		Columns("route_name", "start_location", "end_location", "driver_name", "capacity").
		Values(route.Name, route.StartLocation, route.EndLocation, route.DriverName, route.Capacity).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create route SQL")
		return 0, fmt.Errorf("failed to build create route query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&route.ID, &route.CreatedAt); err != nil {
		logger.Error().Err(err).Str("routeName", route.Name).Msg("Error executing create route query")
		return 0, fmt.Errorf("error creating route: %w", err)
	}

	return route.ID, nil
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	sql, args, err := r.sb.Select(routeColumns...).
		From("bus_routes").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get route by ID SQL")
		return nil, fmt.Errorf("failed to build get route query: %w", err)
	}

	route, err := scanRoute(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRouteNotFound
		}
		logger.Error().Err(err).Int64("routeID", id).Msg("Error scanning route row")
		return nil, fmt.Errorf("error getting route by ID: %w", err)
	}

	return route, nil
}

// List returns every route ordered by name
func (r *RouteRepository) List(ctx context.Context) ([]*models.Route, error) {
	sql, args, err := r.sb.Select(routeColumns...).
		From("bus_routes").
		OrderBy("route_name ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list routes SQL")
		return nil, fmt.Errorf("failed to build list routes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list routes query")
		return nil, fmt.Errorf("error querying routes: %w", err)
	}
	defer rows.Close()

	routes := []*models.Route{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning route row")
			return nil, fmt.Errorf("error scanning route: %w", err)
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	return routes, nil
}

// Delete removes a route. Students on it keep their record with no route.
func (r *RouteRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("bus_routes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete route SQL")
		return fmt.Errorf("failed to build delete route query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("routeID", id).Msg("Error executing delete route query")
		return fmt.Errorf("error deleting route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRouteNotFound
	}

	return nil
}
