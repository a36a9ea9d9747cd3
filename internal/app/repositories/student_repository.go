package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/dberrors"
	"github.com/yigit/buspass/internal/pkg/logger"
)

const (
	constraintRollNumber   = "students_roll_number_key"
	constraintStudentRoute = "students_bus_route_id_fkey"
)

// IStudentRepository defines the data access operations for students
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByRollNumber(ctx context.Context, rollNumber string) (bool, error)
	Count(ctx context.Context, query string) (int64, error)
	Search(ctx context.Context, query string, offset uint64, limit int) ([]*models.Student, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// baseSelect joins the optional route so listings can show it
func (r *StudentRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.name", "s.roll_number", "s.email", "s.bus_route_id", "s.created_at",
		"br.route_name", "br.start_location", "br.end_location", "br.driver_name", "br.capacity", "br.created_at",
	).
		From("students s").
		LeftJoin("bus_routes br ON br.id = s.bus_route_id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	var (
		routeName, routeStart, routeEnd *string
		driver                          *string
		capacity                        *int
		routeCreated                    *time.Time
	)

	err := row.Scan(&s.ID, &s.Name, &s.RollNumber, &s.Email, &s.RouteID, &s.CreatedAt,
		&routeName, &routeStart, &routeEnd, &driver, &capacity, &routeCreated)
	if err != nil {
		return nil, err
	}

	if s.RouteID != nil && routeName != nil {
		s.Route = &models.Route{
			ID:            *s.RouteID,
			Name:          *routeName,
			StartLocation: deref(routeStart),
			EndLocation:   deref(routeEnd),
			DriverName:    driver,
		}
		if capacity != nil {
			s.Route.Capacity = *capacity
		}
		if routeCreated != nil {
			s.Route.CreatedAt = *routeCreated
		}
	}

	return s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// escapeLike makes % and _ in user input match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// searchFilter matches the query case-insensitively against name, roll number or email
func searchFilter(query string) squirrel.Sqlizer {
	query = strings.TrimSpace(query)
	if query == "" {
		return squirrel.And{}
	}
	pattern := "%" + escapeLike(query) + "%"
	return squirrel.Or{
		squirrel.ILike{"s.name": pattern},
		squirrel.ILike{"s.roll_number": pattern},
		squirrel.ILike{"s.email": pattern},
	}
}

// Create inserts a student and returns its id
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "roll_number", "email", "bus_route_id").
		Values(student.Name, student.RollNumber, student.Email, student.RouteID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintRollNumber) {
			return 0, apperrors.ErrRollNumberExists
		}
		if dberrors.IsForeignKeyError(err, constraintStudentRoute) {
			return 0, apperrors.ErrRouteNotFound
		}
		logger.Error().Err(err).Str("rollNumber", student.RollNumber).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return student.ID, nil
}

// GetByID retrieves a student with its route
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// ExistsByRollNumber checks if a roll number is taken
func (r *StudentRepository) ExistsByRollNumber(ctx context.Context, rollNumber string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("students").
		Where(squirrel.Eq{"roll_number": rollNumber}).
		Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building roll number exists SQL")
		return false, fmt.Errorf("failed to build roll number exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("rollNumber", rollNumber).Msg("Error executing roll number exists query")
		return false, fmt.Errorf("error checking roll number: %w", err)
	}

	return exists, nil
}

// Count returns how many students match the search query
func (r *StudentRepository) Count(ctx context.Context, query string) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("students s").
		Where(searchFilter(query)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return 0, fmt.Errorf("failed to count students: %w", err)
	}

	return total, nil
}

// Search returns one window of students matching the query, oldest first
func (r *StudentRepository) Search(ctx context.Context, query string, offset uint64, limit int) ([]*models.Student, error) {
	sql, args, err := r.baseSelect().
		Where(searchFilter(query)).
		OrderBy("s.id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building search students SQL")
		return nil, fmt.Errorf("failed to build search students query: %w", err)
	}

	return r.collect(ctx, sql, args)
}

// ListAll returns every student ordered by name, for selection lists
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.baseSelect().
		OrderBy("s.name ASC", "s.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	return r.collect(ctx, sql, args)
}

func (r *StudentRepository) collect(ctx context.Context, sql string, args []interface{}) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// Delete removes a student together with all of their passes
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
