package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
	"github.com/yigit/academia/internal/pkg/apperrors"
)

// Defaults used when LifecycleConfig leaves a field zero.
const (
	DefaultPromotionInterval = 4380 * time.Hour
	DefaultMinStartYear      = 1950
	DefaultMaxYearsAhead     = 5
)

// LifecycleConfig tunes the session state machine
type LifecycleConfig struct {
	PromotionInterval time.Duration
	MinStartYear      int
	MaxYearsAhead     int
	Clock             Clock
}

func (c LifecycleConfig) withDefaults() LifecycleConfig {
	if c.PromotionInterval <= 0 {
		c.PromotionInterval = DefaultPromotionInterval
	}
	if c.MinStartYear <= 0 {
		c.MinStartYear = DefaultMinStartYear
	}
	if c.MaxYearsAhead <= 0 {
		c.MaxYearsAhead = DefaultMaxYearsAhead
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}
	return c
}

// LifecycleService defines the session state machine operations. It checks
// business rules only; who may call what is decided by the caller.
type LifecycleService interface {
	CreateSession(ctx context.Context, actor models.Actor, departmentID int64, startYear, intakeCapacity int) (*models.AcademicSession, error)
	Activate(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error)
	Lock(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error)
	Unlock(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error)
	CloseEnrollment(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error)
	PromoteSemester(ctx context.Context, actor models.Actor, id, reason string) (*models.AcademicSession, error)
	GetSession(ctx context.Context, departmentID int64, id string) (*models.AcademicSession, error)
	ListSessions(ctx context.Context, departmentID int64) ([]*models.AcademicSession, error)
}

type lifecycleServiceImpl struct {
	sessions    repositories.SessionStore
	departments repositories.DepartmentDirectory
	mutator     sessionMutator
	config      LifecycleConfig
	logger      zerolog.Logger
}

// NewLifecycleService creates a new lifecycle service instance
func NewLifecycleService(
	sessions repositories.SessionStore,
	departments repositories.DepartmentDirectory,
	config LifecycleConfig,
	logger zerolog.Logger,
) LifecycleService {
	config = config.withDefaults()
	return &lifecycleServiceImpl{
		sessions:    sessions,
		departments: departments,
		mutator:     sessionMutator{sessions: sessions, clock: config.Clock},
		config:      config,
		logger:      logger,
	}
}

// DeriveOverdue reports whether an active session has passed its promotion date.
// It depends only on its arguments.
func DeriveOverdue(session *models.AcademicSession, now time.Time) bool {
	if session == nil {
		return false
	}
	return session.Status == models.SessionActive && !session.NextPromotionDate.After(now)
}

// CreateSession approves a new intake at semester 1
func (s *lifecycleServiceImpl) CreateSession(ctx context.Context, actor models.Actor, departmentID int64, startYear, intakeCapacity int) (*models.AcademicSession, error) {
	now := s.config.Clock()

	maxYear := now.Year() + s.config.MaxYearsAhead
	if startYear < s.config.MinStartYear || startYear > maxYear {
		return nil, apperrors.NewFieldValidationError("startYear",
			fmt.Sprintf("start year must be between %d and %d", s.config.MinStartYear, maxYear))
	}
	if intakeCapacity < 0 {
		return nil, apperrors.NewFieldValidationError("intakeCapacity", "intake capacity cannot be negative")
	}
	if departmentID <= 0 {
		return nil, apperrors.NewFieldValidationError("departmentId", "department ID must be positive")
	}

	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewFieldValidationError("departmentId",
				fmt.Sprintf("department %d does not exist", departmentID))
		}
		return nil, fmt.Errorf("error checking department: %w", err)
	}

	status := models.SessionActive
	if startYear > now.Year() {
		status = models.SessionUpcoming
	}

	session := &models.AcademicSession{
		ID:                    uuid.NewString(),
		DepartmentID:          department.ID,
		InstituteID:           department.InstituteID,
		StartYear:             startYear,
		EndYear:               startYear + models.ProgramYears,
		CurrentSemester:       models.FirstSemester,
		Status:                status,
		IntakeCapacity:        intakeCapacity,
		TotalEnrolledStudents: 0,
		EnrollmentOpen:        true,
		NextPromotionDate:     now.Add(s.config.PromotionInterval),
		CreatedBy:             actor.ID,
		CreatedAt:             now,
		UpdatedAt:             now,
		PromotionLog:          []models.PromotionLogEntry{},
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		if apperrors.Kind(err) == nil {
			s.logger.Error().Err(err).Int64("departmentID", departmentID).Msg("Failed to store new session")
		}
		return nil, err
	}

	s.logger.Info().
		Str("sessionID", session.ID).
		Int64("actorID", actor.ID).
		Int64("departmentID", departmentID).
		Int("startYear", startYear).
		Str("to", string(session.Status)).
		Msg("Session created")
	return session, nil
}

// Activate moves an upcoming session to active
func (s *lifecycleServiceImpl) Activate(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
	return s.transition(ctx, actor, id, "Session activated", func(session *models.AcademicSession, _ time.Time) (*models.PromotionLogEntry, error) {
		switch session.Status {
		case models.SessionUpcoming:
			session.Status = models.SessionActive
			return nil, nil
		case models.SessionActive:
			return nil, apperrors.NewStateConflictError("session is already active")
		case models.SessionLocked:
			return nil, apperrors.NewStateConflictError("locked session must be unlocked first")
		case models.SessionCompleted:
			return nil, apperrors.NewStateConflictError("completed session cannot be activated")
		default:
			return nil, errUnknownStatus(session)
		}
	})
}

// Lock places an administrative hold and remembers the status it interrupts
func (s *lifecycleServiceImpl) Lock(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
	return s.transition(ctx, actor, id, "Session locked", func(session *models.AcademicSession, _ time.Time) (*models.PromotionLogEntry, error) {
		switch session.Status {
		case models.SessionUpcoming, models.SessionActive:
			previous := session.Status
			session.StatusBeforeLock = &previous
			session.Status = models.SessionLocked
			return nil, nil
		case models.SessionLocked:
			return nil, apperrors.NewStateConflictError("session is already locked")
		case models.SessionCompleted:
			return nil, apperrors.NewStateConflictError("completed session cannot be locked")
		default:
			return nil, errUnknownStatus(session)
		}
	})
}

// Unlock lifts the hold and restores the previous status
func (s *lifecycleServiceImpl) Unlock(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
	return s.transition(ctx, actor, id, "Session unlocked", func(session *models.AcademicSession, _ time.Time) (*models.PromotionLogEntry, error) {
		switch session.Status {
		case models.SessionLocked:
			restored := models.SessionActive
			if session.StatusBeforeLock != nil {
				restored = *session.StatusBeforeLock
			}
			session.Status = restored
			session.StatusBeforeLock = nil
			return nil, nil
		case models.SessionUpcoming, models.SessionActive, models.SessionCompleted:
			return nil, apperrors.NewStateConflictError("session is not locked")
		default:
			return nil, errUnknownStatus(session)
		}
	})
}

// CloseEnrollment stops further enrollment. Closing a closed session is a no-op.
func (s *lifecycleServiceImpl) CloseEnrollment(ctx context.Context, actor models.Actor, id string) (*models.AcademicSession, error) {
	return s.transition(ctx, actor, id, "Enrollment closed", func(session *models.AcademicSession, _ time.Time) (*models.PromotionLogEntry, error) {
		switch session.Status {
		case models.SessionUpcoming, models.SessionActive:
			if !session.EnrollmentOpen {
				return nil, errUnchanged
			}
			session.EnrollmentOpen = false
			return nil, checkEnrollment(session)
		case models.SessionLocked:
			return nil, apperrors.NewStateConflictError("enrollment cannot be closed while the session is locked")
		case models.SessionCompleted:
			return nil, apperrors.NewStateConflictError("completed session has no enrollment window")
		default:
			return nil, errUnknownStatus(session)
		}
	})
}

// PromoteSemester advances an active session one semester, or graduates it
// from the last semester. The audit entry and the field changes are one write.
func (s *lifecycleServiceImpl) PromoteSemester(ctx context.Context, actor models.Actor, id, reason string) (*models.AcademicSession, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewFieldValidationError("reason", "a promotion reason is required")
	}

	return s.transition(ctx, actor, id, "Session promoted", func(session *models.AcademicSession, now time.Time) (*models.PromotionLogEntry, error) {
		switch session.Status {
		case models.SessionActive:
		case models.SessionUpcoming:
			return nil, apperrors.NewStateConflictError("session must be activated before promotion")
		case models.SessionLocked:
			return nil, apperrors.NewStateConflictError("locked session cannot be promoted")
		case models.SessionCompleted:
			return nil, apperrors.NewStateConflictError("completed session cannot be promoted")
		default:
			return nil, errUnknownStatus(session)
		}

		entry := &models.PromotionLogEntry{
			Reason:       reason,
			ActorID:      actor.ID,
			ActorRole:    actor.Role,
			Timestamp:    now,
			FromSemester: session.CurrentSemester,
		}

		if session.CurrentSemester >= models.LastSemester {
			session.CurrentSemester = models.LastSemester
			session.Status = models.SessionCompleted
			session.EnrollmentOpen = false
			entry.ToSemester = models.LastSemester
			entry.Graduated = true
		} else {
			session.CurrentSemester++
			session.NextPromotionDate = now.Add(s.config.PromotionInterval)
			entry.ToSemester = session.CurrentSemester
		}

		if err := checkEnrollment(session); err != nil {
			return nil, err
		}
		return entry, nil
	})
}

// transition runs a command and logs the committed change.
func (s *lifecycleServiceImpl) transition(ctx context.Context, actor models.Actor, id, message string, apply mutation) (*models.AcademicSession, error) {
	before, after, err := s.mutator.mutate(ctx, id, apply)
	if err != nil {
		if apperrors.Kind(err) == nil {
			s.logger.Error().Err(err).Str("sessionID", id).Int64("actorID", actor.ID).Msg(message + " failed")
		}
		return nil, err
	}

	s.logger.Info().
		Str("sessionID", id).
		Int64("actorID", actor.ID).
		Str("actorRole", string(actor.Role)).
		Str("from", describe(before)).
		Str("to", describe(after)).
		Msg(message)
	return after, nil
}

func describe(session *models.AcademicSession) string {
	return fmt.Sprintf("%s/sem%d", session.Status, session.CurrentSemester)
}

// GetSession returns one session of a department
func (s *lifecycleServiceImpl) GetSession(ctx context.Context, departmentID int64, id string) (*models.AcademicSession, error) {
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.DepartmentID != departmentID {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

// ListSessions returns every session of a department ordered by start year
func (s *lifecycleServiceImpl) ListSessions(ctx context.Context, departmentID int64) ([]*models.AcademicSession, error) {
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.sessions.ListByDepartment(ctx, departmentID)
}
