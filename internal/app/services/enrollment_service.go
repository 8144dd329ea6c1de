package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
	"github.com/yigit/academia/internal/pkg/apperrors"
)

// EnrollmentService defines the capacity and enrollment operations
type EnrollmentService interface {
	AdjustCapacity(ctx context.Context, actor models.Actor, id string, newCapacity int) (*models.AcademicSession, error)
	// RecordEnrollment adds delta students; a negative delta records withdrawals.
	RecordEnrollment(ctx context.Context, actor models.Actor, id string, delta int) (*models.AcademicSession, error)
}

type enrollmentServiceImpl struct {
	mutator sessionMutator
	logger  zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(sessions repositories.SessionStore, clock Clock, logger zerolog.Logger) EnrollmentService {
	if clock == nil {
		clock = SystemClock
	}
	return &enrollmentServiceImpl{
		mutator: sessionMutator{sessions: sessions, clock: clock},
		logger:  logger,
	}
}

// AdjustCapacity sets a new intake capacity
func (s *enrollmentServiceImpl) AdjustCapacity(ctx context.Context, actor models.Actor, id string, newCapacity int) (*models.AcademicSession, error) {
	if newCapacity < 0 {
		return nil, apperrors.NewFieldValidationError("intakeCapacity", "intake capacity cannot be negative")
	}

	before, after, err := s.mutator.mutate(ctx, id, func(session *models.AcademicSession, _ time.Time) (*models.PromotionLogEntry, error) {
		return nil, applyCapacity(session, newCapacity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("sessionID", id).
		Int64("actorID", actor.ID).
		Int("from", before.IntakeCapacity).
		Int("to", after.IntakeCapacity).
		Msg("Intake capacity adjusted")
	return after, nil
}

// RecordEnrollment applies delta to the enrolled count as one step
func (s *enrollmentServiceImpl) RecordEnrollment(ctx context.Context, actor models.Actor, id string, delta int) (*models.AcademicSession, error) {
	if delta == 0 {
		return nil, apperrors.NewFieldValidationError("delta", "enrollment delta must not be zero")
	}

	before, after, err := s.mutator.mutate(ctx, id, func(session *models.AcademicSession, _ time.Time) (*models.PromotionLogEntry, error) {
		return nil, applyEnrollment(session, delta)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("sessionID", id).
		Int64("actorID", actor.ID).
		Int("from", before.TotalEnrolledStudents).
		Int("to", after.TotalEnrolledStudents).
		Msg("Enrollment recorded")
	return after, nil
}

func applyCapacity(session *models.AcademicSession, newCapacity int) error {
	switch session.Status {
	case models.SessionUpcoming, models.SessionActive:
	case models.SessionLocked:
		return apperrors.NewStateConflictError("capacity cannot change while the session is locked")
	case models.SessionCompleted:
		return apperrors.NewStateConflictError("capacity cannot change on a completed session")
	default:
		return errUnknownStatus(session)
	}

	if newCapacity < session.TotalEnrolledStudents {
		return apperrors.NewFieldValidationError("intakeCapacity",
			fmt.Sprintf("intake capacity %d is below the %d students already enrolled", newCapacity, session.TotalEnrolledStudents))
	}
	session.IntakeCapacity = newCapacity
	return nil
}

func applyEnrollment(session *models.AcademicSession, delta int) error {
	switch session.Status {
	case models.SessionUpcoming, models.SessionActive:
	case models.SessionLocked:
		return apperrors.NewStateConflictError("enrollment cannot change while the session is locked")
	case models.SessionCompleted:
		return apperrors.NewStateConflictError("enrollment is closed for a completed session")
	default:
		return errUnknownStatus(session)
	}

	if !session.EnrollmentOpen {
		return apperrors.NewStateConflictError("enrollment is closed for this session")
	}

	total := session.TotalEnrolledStudents + delta
	if total > session.IntakeCapacity {
		return apperrors.NewCapacityExceededError(
			fmt.Sprintf("enrolling %d would exceed the intake capacity of %d", delta, session.IntakeCapacity)).
			WithDetails(map[string]interface{}{
				"intakeCapacity":        session.IntakeCapacity,
				"totalEnrolledStudents": session.TotalEnrolledStudents,
				"delta":                 delta,
			})
	}
	if total < 0 {
		return apperrors.NewFieldValidationError("delta",
			fmt.Sprintf("cannot withdraw %d students from %d enrolled", -delta, session.TotalEnrolledStudents))
	}
	session.TotalEnrolledStudents = total
	return nil
}

// checkEnrollment is consulted by lifecycle commands before they commit a
// change that touches the enrollment window.
func checkEnrollment(session *models.AcademicSession) error {
	if session.TotalEnrolledStudents < 0 || session.TotalEnrolledStudents > session.IntakeCapacity {
		return fmt.Errorf("session %s holds %d students for a capacity of %d",
			session.ID, session.TotalEnrolledStudents, session.IntakeCapacity)
	}
	if session.Status == models.SessionCompleted && session.EnrollmentOpen {
		return fmt.Errorf("session %s is completed with enrollment open", session.ID)
	}
	return nil
}
