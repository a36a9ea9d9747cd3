package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/metrics"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/passdoc"
)

// Receipt is a rendered pass document ready to send
type Receipt struct {
	Document passdoc.Document
	Filename string
	PDF      []byte
}

// ReceiptService renders the downloadable pass receipt
type ReceiptService interface {
	// BuildReceipt returns apperrors.ErrStudentNotFound for unknown ids
	BuildReceipt(ctx context.Context, studentID int64) (*Receipt, error)
}

type receiptService struct {
	studentRepo repositories.IStudentRepository
	passRepo    repositories.IBusPassRepository
	clock       helpers.Clock
	options     passdoc.Options
	logger      zerolog.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(studentRepo repositories.IStudentRepository, passRepo repositories.IBusPassRepository, clock helpers.Clock, options passdoc.Options, logger zerolog.Logger) ReceiptService {
	return &receiptService{
		studentRepo: studentRepo,
		passRepo:    passRepo,
		clock:       clock,
		options:     options,
		logger:      logger,
	}
}

func (s *receiptService) BuildReceipt(ctx context.Context, studentID int64) (*Receipt, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading student: %w", err)
	}

	var pass *models.BusPass
	latest, err := s.passRepo.LatestForStudent(ctx, studentID)
	switch {
	case err == nil:
		pass = latest
	case !errors.Is(err, apperrors.ErrPassNotFound):
		return nil, fmt.Errorf("error loading bus pass: %w", err)
	}

	today := s.clock.Today()
	doc := passdoc.NewDocument(student, student.Route, pass, today)

	opts := s.options
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = today
	}

	var buf bytes.Buffer
	if err := passdoc.Render(&buf, doc, opts); err != nil {
		return nil, fmt.Errorf("error rendering receipt: %w", err)
	}

	metrics.ReceiptsRendered.WithLabelValues(doc.State.String()).Inc()
	s.logger.Debug().Int64("studentID", studentID).Str("state", doc.State.String()).Msg("Receipt rendered")
	return &Receipt{
		Document: doc,
		Filename: doc.Filename(),
		PDF:      buf.Bytes(),
	}, nil
}
