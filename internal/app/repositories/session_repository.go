package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/logger"
)

// SessionStore keeps the server-side half of a login session
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	// Check returns nil for a live session, or ErrSessionRevoked /
	// ErrSessionExpired / ErrSessionInvalid.
	Check(ctx context.Context, sessionID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// SessionRepository stores sessions in the sessions table
type SessionRepository struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now: time.Now,
	}
}

// Create records a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "user_id", "expires_at", "revoked").
		Values(session.ID, session.UserID, session.ExpiresAt, false).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&session.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", session.UserID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Check verifies that a session exists, is not revoked and has not expired
func (r *SessionRepository) Check(ctx context.Context, sessionID string) error {
	sql, args, err := r.sb.Select("expires_at", "revoked").
		From("sessions").
		Where(squirrel.Eq{"id": sessionID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check session SQL")
		return fmt.Errorf("failed to build check session query: %w", err)
	}

	var (
		expiresAt time.Time
		revoked   bool
	)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&expiresAt, &revoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrSessionInvalid
		}
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error scanning session row")
		return fmt.Errorf("error checking session: %w", err)
	}

	if revoked {
		return apperrors.ErrSessionRevoked
	}
	if !expiresAt.After(r.now()) {
		return apperrors.ErrSessionExpired
	}
	return nil
}

// Revoke marks a session as logged out. Unknown ids are not an error.
func (r *SessionRepository) Revoke(ctx context.Context, sessionID string) error {
	sql, args, err := r.sb.Update("sessions").
		Set("revoked", true).
		Where(squirrel.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke session SQL")
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error executing revoke session query")
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired sessions and revoked ones older than a day
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := r.now()
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": now},
			squirrel.And{
				squirrel.Eq{"revoked": true},
				squirrel.Lt{"created_at": now.Add(-24 * time.Hour)},
			},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup sessions SQL")
		return 0, fmt.Errorf("failed to build cleanup sessions query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup sessions query")
		return 0, fmt.Errorf("error cleaning up sessions: %w", err)
	}

	deleted := tag.RowsAffected()
	logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired sessions")
	return deleted, nil
}
