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
	"github.com/yigit/buspass/internal/pkg/dberrors"
	"github.com/yigit/buspass/internal/pkg/logger"
)

const (
	constraintPassNumber  = "bus_passes_pass_number_key"
	constraintPassStudent = "bus_passes_student_id_fkey"
	constraintPassExpiry  = "bus_passes_expiry_after_issue"
)

// IBusPassRepository defines the data access operations for bus passes
type IBusPassRepository interface {
	Create(ctx context.Context, pass *models.BusPass) (int64, error)
	LatestForStudent(ctx context.Context, studentID int64) (*models.BusPass, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.BusPass, error)
}

var passColumns = []string{"id", "student_id", "issue_date", "expiry_date", "pass_number", "is_active", "created_at"}

// BusPassRepository handles bus pass database operations
type BusPassRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBusPassRepository creates a new BusPassRepository
func NewBusPassRepository(db *pgxpool.Pool) *BusPassRepository {
	return &BusPassRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPass(row pgx.Row) (*models.BusPass, error) {
	p := &models.BusPass{}
	if err := row.Scan(&p.ID, &p.StudentID, &p.IssueDate, &p.ExpiryDate, &p.PassNumber, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.IssueDate = models.DateOf(p.IssueDate)
	p.ExpiryDate = models.DateOf(p.ExpiryDate)
	return p, nil
}

// Create inserts a pass. Dates are written as calendar dates.
func (r *BusPassRepository) Create(ctx context.Context, pass *models.BusPass) (int64, error) {
	sql, args, err := r.sb.Insert("bus_passes").
		Columns("student_id", "issue_date", "expiry_date", "pass_number", "is_active").
		Values(pass.StudentID,
			pass.IssueDate.Format(models.DateLayout),
			pass.ExpiryDate.Format(models.DateLayout),
			pass.PassNumber,
			pass.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create pass SQL")
		return 0, fmt.Errorf("failed to build create pass query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&pass.ID, &pass.CreatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintPassNumber):
			return 0, apperrors.ErrPassNumberExists
		case dberrors.IsForeignKeyError(err, constraintPassStudent):
			return 0, apperrors.ErrStudentNotFound
		case dberrors.IsCheckConstraintError(err, constraintPassExpiry):
			return 0, fmt.Errorf("%w: expiry date must be after issue date", apperrors.ErrValidationFailed)
		}
		logger.Error().Err(err).Int64("studentID", pass.StudentID).Msg("Error executing create pass query")
		return 0, fmt.Errorf("error creating pass: %w", err)
	}

	return pass.ID, nil
}

// LatestForStudent returns the most recently issued pass of a student
func (r *BusPassRepository) LatestForStudent(ctx context.Context, studentID int64) (*models.BusPass, error) {
	sql, args, err := r.sb.Select(passColumns...).
		From("bus_passes").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("issue_date DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building latest pass SQL")
		return nil, fmt.Errorf("failed to build latest pass query: %w", err)
	}

	pass, err := scanPass(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPassNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning pass row")
		return nil, fmt.Errorf("error getting latest pass: %w", err)
	}

	return pass, nil
}

// ListForStudent returns all passes of a student, most recent first
func (r *BusPassRepository) ListForStudent(ctx context.Context, studentID int64) ([]*models.BusPass, error) {
	sql, args, err := r.sb.Select(passColumns...).
		From("bus_passes").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("issue_date DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list passes SQL")
		return nil, fmt.Errorf("failed to build list passes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list passes query")
		return nil, fmt.Errorf("error querying passes: %w", err)
	}
	defer rows.Close()

	passes := []*models.BusPass{}
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning pass row")
			return nil, fmt.Errorf("error scanning pass: %w", err)
		}
		passes = append(passes, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating passes: %w", err)
	}

	return passes, nil
}
