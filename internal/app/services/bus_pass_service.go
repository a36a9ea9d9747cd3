package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/metrics"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/validation"
)

const (
	MsgPassIssued = "Bus pass issued successfully."

	// passNumberAttempts bounds regeneration after a pass number collision
	passNumberAttempts = 3
)

// BusPassService issues bus passes
type BusPassService interface {
	IssuePass(ctx context.Context, form dto.PassForm) (dto.FormResult, error)
}

type busPassService struct {
	passRepo    repositories.IBusPassRepository
	studentRepo repositories.IStudentRepository
	clock       helpers.Clock
	newNumber   func() string
	logger      zerolog.Logger
}

// NewBusPassService creates a new BusPassService. Issue dates come from clock.
func NewBusPassService(passRepo repositories.IBusPassRepository, studentRepo repositories.IStudentRepository, clock helpers.Clock, logger zerolog.Logger) BusPassService {
	return &busPassService{
		passRepo:    passRepo,
		studentRepo: studentRepo,
		clock:       clock,
		newNumber:   NewPassNumber,
		logger:      logger,
	}
}

// NewPassNumber returns the first eight hex digits of a random UUID, uppercased
func NewPassNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:models.PassNumberLength])
}

func (s *busPassService) IssuePass(ctx context.Context, form dto.PassForm) (dto.FormResult, error) {
	in, errs := ValidatePassForm(form)
	if errs.HasErrors() {
		return dto.Invalid(errs), nil
	}

	if _, err := s.studentRepo.GetByID(ctx, in.StudentID); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return dto.Invalid(dto.NewValidationErrors().AddError(FieldStudent, validation.MsgInvalidChoice)), nil
		}
		return dto.FormResult{}, fmt.Errorf("error checking student: %w", err)
	}

	pass := &models.BusPass{
		StudentID:  in.StudentID,
		IssueDate:  s.clock.Today(),
		ExpiryDate: in.ExpiryDate,
		IsActive:   true,
	}

	for attempt := 1; ; attempt++ {
		if errs := ValidatePass(pass); errs.HasErrors() {
			return dto.Invalid(errs), nil
		}

		pass.PassNumber = s.newNumber()
		_, err := s.passRepo.Create(ctx, pass)
		if err == nil {
			break
		}

		switch {
		case errors.Is(err, apperrors.ErrPassNumberExists) && attempt < passNumberAttempts:
			s.logger.Warn().Str("passNumber", pass.PassNumber).Int("attempt", attempt).Msg("Pass number collision, regenerating")
			continue
		case errors.Is(err, apperrors.ErrStudentNotFound):
			return dto.Invalid(dto.NewValidationErrors().AddError(FieldStudent, validation.MsgInvalidChoice)), nil
		case errors.Is(err, apperrors.ErrValidationFailed):
			return dto.Invalid(dto.NewValidationErrors().AddError(FieldExpiryDate, MsgExpiryNotAfter)), nil
		}
		return dto.FormResult{}, fmt.Errorf("error creating bus pass: %w", err)
	}

	metrics.PassesIssued.Inc()
	s.logger.Info().
		Int64("passID", pass.ID).
		Int64("studentID", pass.StudentID).
		Str("passNumber", pass.PassNumber).
		Msg("Bus pass issued")
	return dto.RedirectTo("/", MsgPassIssued), nil
}
