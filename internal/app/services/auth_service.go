package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/metrics"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/auth"
)

// MsgInvalidLogin is shown on the login page for any failed attempt
const MsgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// Identity is the signed-in staff member behind a request
type Identity struct {
	UserID    int64
	Username  string
	SessionID string
	CSRFToken string
}

// Session is a freshly issued login
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// AuthService handles staff sign-in and sessions
type AuthService interface {
	// Login returns apperrors.ErrInvalidCredentials for unknown users,
	// wrong passwords and disabled accounts alike.
	Login(ctx context.Context, username, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo   repositories.IUserRepository
	sessions   repositories.SessionStore
	jwtService *auth.JWTService
	csrfSecret string
	now        func() time.Time
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	sessions repositories.SessionStore,
	jwtService *auth.JWTService,
	csrfSecret string,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtService: jwtService,
		csrfSecret: csrfSecret,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			s.logger.Info().Str("username", username).Msg("Login failed: unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		s.logger.Info().Str("username", username).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.Logins.WithLabelValues("failure").Inc()
		s.logger.Info().Str("username", username).Msg("Login failed: account disabled")
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwtService.SessionTTL()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(user, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// The session is already valid; a stale timestamp is not worth failing the login.
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not record last login")
	}

	metrics.Logins.WithLabelValues("success").Inc()
	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User logged in")
	return &Session{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Identity:  s.identity(user.ID, user.Username, session.ID),
	}, nil
}

// Authenticate resolves a session cookie to an identity. Any token or
// session problem is reported as one of the apperrors session errors.
func (s *authService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrSessionInvalid
	}

	if err := s.sessions.Check(ctx, claims.ID); err != nil {
		return nil, err
	}

	id := s.identity(claims.UserID, claims.Username, claims.ID)
	return &id, nil
}

// Logout revokes the session behind token. Tokens that no longer verify
// have nothing left to revoke.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	return nil
}

func (s *authService) identity(userID int64, username, sessionID string) Identity {
	return Identity{
		UserID:    userID,
		Username:  username,
		SessionID: sessionID,
		CSRFToken: auth.CSRFToken(s.csrfSecret, sessionID),
	}
}
