package models

import (
	"fmt"
	"time"

	"github.com/yigit/academia/internal/pkg/apperrors"
)

// Program shape shared by every session.
const (
	ProgramYears  = 4
	FirstSemester = 1
	LastSemester  = 8
)

// SessionStatus is the lifecycle status of an academic session
type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionActive    SessionStatus = "active"
	SessionLocked    SessionStatus = "locked"
	SessionCompleted SessionStatus = "completed"
)

// SessionStatuses lists every status in display order.
var SessionStatuses = []SessionStatus{SessionUpcoming, SessionActive, SessionLocked, SessionCompleted}

// Valid reports whether s is one of the known statuses
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionUpcoming, SessionActive, SessionLocked, SessionCompleted:
		return true
	default:
		return false
	}
}

// ParseSessionStatus converts a stored string into a SessionStatus
func ParseSessionStatus(v string) (SessionStatus, error) {
	s := SessionStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown session status %q", v)
	}
	return s, nil
}

// PromotionLogEntry is one audited promotion. Entries are append-only.
type PromotionLogEntry struct {
	Reason       string    `json:"reason"`
	ActorID      int64     `json:"actorId"`
	ActorRole    RoleType  `json:"actorRole"`
	Timestamp    time.Time `json:"timestamp"`
	FromSemester int       `json:"fromSemester"`
	ToSemester   int       `json:"toSemester"`
	Graduated    bool      `json:"graduated"`
}

// AcademicSession is one intake cohort of a department
type AcademicSession struct {
	ID                    string              `json:"id"`
	DepartmentID          int64               `json:"departmentId"`
	InstituteID           int64               `json:"instituteId"`
	StartYear             int                 `json:"startYear"`
	EndYear               int                 `json:"endYear"`
	CurrentSemester       int                 `json:"currentSemester"`
	Status                SessionStatus       `json:"status"`
	StatusBeforeLock      *SessionStatus      `json:"statusBeforeLock,omitempty"`
	IntakeCapacity        int                 `json:"intakeCapacity"`
	TotalEnrolledStudents int                 `json:"totalEnrolledStudents"`
	EnrollmentOpen        bool                `json:"enrollmentOpen"`
	NextPromotionDate     time.Time           `json:"nextPromotionDate"`
	CreatedBy             int64               `json:"createdBy"`
	CreatedAt             time.Time           `json:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt"`
	Version               int64               `json:"version"`
	PromotionLog          []PromotionLogEntry `json:"promotionLog"`
}

// Clone returns a deep copy so callers can mutate a working copy without
// touching the value they read.
func (s *AcademicSession) Clone() *AcademicSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.StatusBeforeLock != nil {
		prev := *s.StatusBeforeLock
		c.StatusBeforeLock = &prev
	}
	c.PromotionLog = make([]PromotionLogEntry, len(s.PromotionLog))
	copy(c.PromotionLog, s.PromotionLog)
	return &c
}

// Validate checks the field-level invariants every stored session must hold.
func (s *AcademicSession) Validate() error {
	if s == nil {
		return apperrors.NewValidationError("session is nil")
	}
	if s.ID == "" {
		return apperrors.NewFieldValidationError("id", "session id is required")
	}
	if s.DepartmentID <= 0 {
		return apperrors.NewFieldValidationError("departmentId", "department ID must be positive")
	}
	if s.EndYear != s.StartYear+ProgramYears {
		return apperrors.NewFieldValidationError("endYear",
			fmt.Sprintf("end year must be start year + %d", ProgramYears))
	}
	if s.CurrentSemester < FirstSemester || s.CurrentSemester > LastSemester {
		return apperrors.NewFieldValidationError("currentSemester",
			fmt.Sprintf("current semester must be between %d and %d", FirstSemester, LastSemester))
	}
	if !s.Status.Valid() {
		return apperrors.NewFieldValidationError("status", fmt.Sprintf("unknown status %q", s.Status))
	}
	if s.Status == SessionLocked {
		if s.StatusBeforeLock == nil || !s.StatusBeforeLock.Valid() {
			return apperrors.NewFieldValidationError("statusBeforeLock", "locked session must remember its previous status")
		}
	} else if s.StatusBeforeLock != nil {
		return apperrors.NewFieldValidationError("statusBeforeLock", "only locked sessions carry a previous status")
	}
	if s.IntakeCapacity < 0 {
		return apperrors.NewFieldValidationError("intakeCapacity", "intake capacity cannot be negative")
	}
	if s.TotalEnrolledStudents < 0 || s.TotalEnrolledStudents > s.IntakeCapacity {
		return apperrors.NewFieldValidationError("totalEnrolledStudents",
			"enrolled students must be between 0 and the intake capacity")
	}
	if s.Status == SessionCompleted && s.EnrollmentOpen {
		return apperrors.NewFieldValidationError("enrollmentOpen", "completed session cannot have open enrollment")
	}
	return nil
}
