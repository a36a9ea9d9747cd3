package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/metrics"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/validation"
)

const MsgStudentAdded = "Student added successfully."

// StudentService handles the student listing and registration
type StudentService interface {
	ListStudents(ctx context.Context, query, page string) (*dto.StudentPage, error)
	CreateStudent(ctx context.Context, form dto.StudentForm) (dto.FormResult, error)
	// StudentOptions lists every student for the issue-pass select
	StudentOptions(ctx context.Context) ([]*models.Student, error)
}

type studentService struct {
	studentRepo repositories.IStudentRepository
	routeRepo   repositories.IRouteRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repositories.IStudentRepository, routeRepo repositories.IRouteRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		routeRepo:   routeRepo,
		logger:      logger,
	}
}

// ListStudents returns one page of students matching query. The page is
// clamped into the valid range.
func (s *studentService) ListStudents(ctx context.Context, query, page string) (*dto.StudentPage, error) {
	query = strings.TrimSpace(query)

	total, err := s.studentRepo.Count(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	info := helpers.NewPaginationInfo(total, helpers.ParsePage(page), helpers.DefaultPageSize)
	offset, limit := helpers.CalculateOffsetLimit(info)

	students := []*models.Student{}
	if total > 0 {
		students, err = s.studentRepo.Search(ctx, query, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("error listing students: %w", err)
		}
	}

	return &dto.StudentPage{
		Query:      query,
		Students:   students,
		Pagination: info,
	}, nil
}

// CreateStudent validates and stores a new student
func (s *studentService) CreateStudent(ctx context.Context, form dto.StudentForm) (dto.FormResult, error) {
	in, errs := ValidateStudentForm(form)
	if errs.HasErrors() {
		return dto.Invalid(errs), nil
	}

	errs = dto.NewValidationErrors()
	if in.RouteID != nil {
		if _, err := s.routeRepo.GetByID(ctx, *in.RouteID); err != nil {
			if !errors.Is(err, apperrors.ErrRouteNotFound) {
				return dto.FormResult{}, fmt.Errorf("error checking route: %w", err)
			}
			errs.AddError(FieldBusRoute, validation.MsgInvalidChoice)
		}
	}

	taken, err := s.studentRepo.ExistsByRollNumber(ctx, in.RollNumber)
	if err != nil {
		return dto.FormResult{}, fmt.Errorf("error checking roll number: %w", err)
	}
	if taken {
		errs.AddError(FieldRollNumber, MsgRollNumberTaken)
	}
	if errs.HasErrors() {
		return dto.Invalid(errs), nil
	}

	student := &models.Student{
		Name:       in.Name,
		RollNumber: in.RollNumber,
		Email:      in.Email,
		RouteID:    in.RouteID,
	}
	if _, err := s.studentRepo.Create(ctx, student); err != nil {
		// Lost a race with a concurrent insert of the same roll number or a route delete.
		switch {
		case errors.Is(err, apperrors.ErrRollNumberExists):
			return dto.Invalid(dto.NewValidationErrors().AddError(FieldRollNumber, MsgRollNumberTaken)), nil
		case errors.Is(err, apperrors.ErrRouteNotFound):
			return dto.Invalid(dto.NewValidationErrors().AddError(FieldBusRoute, validation.MsgInvalidChoice)), nil
		}
		return dto.FormResult{}, fmt.Errorf("error creating student: %w", err)
	}

	metrics.StudentsCreated.Inc()
	s.logger.Info().Int64("studentID", student.ID).Str("rollNumber", student.RollNumber).Msg("Student created")
	return dto.RedirectTo("/", MsgStudentAdded), nil
}

func (s *studentService) StudentOptions(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}
