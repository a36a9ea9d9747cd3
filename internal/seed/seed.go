package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/auth"
)

// EnsureAdminUser creates the configured office account unless it exists.
// An existing account is left untouched, including its password.
func EnsureAdminUser(ctx context.Context, users repositories.IUserRepository, username, password string, lgr zerolog.Logger) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		lgr.Info().Msg("No admin credentials configured, skipping admin account seed")
		return nil
	}

	exists, err := users.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("error checking admin account: %w", err)
	}
	if exists {
		lgr.Debug().Str("username", username).Msg("Admin account already exists")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	_, err = users.Create(ctx, &models.User{Username: username, PasswordHash: hash, IsActive: true})
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameExists) {
			// Another instance seeded it first.
			return nil
		}
		return fmt.Errorf("error creating admin account: %w", err)
	}

	lgr.Info().Str("username", username).Msg("Admin account created")
	return nil
}
