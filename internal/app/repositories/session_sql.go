package repositories

import (
	"database/sql"
	"fmt"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/pkg/helpers"
)

const (
	sessionTable      = "academic_sessions"
	promotionLogTable = "promotion_log"

	sessionPrimaryKey = "academic_sessions_pkey"
)

// Column order shared by every SQL session store. scanSession depends on it.
var sessionColumns = []string{
	"id",
	"department_id",
	"institute_id",
	"start_year",
	"end_year",
	"current_semester",
	"status",
	"status_before_lock",
	"intake_capacity",
	"total_enrolled_students",
	"enrollment_open",
	"next_promotion_date",
	"created_by",
	"created_at",
	"updated_at",
	"version",
}

var promotionLogColumns = []string{
	"session_id",
	"reason",
	"actor_id",
	"actor_role",
	"promoted_at",
	"from_semester",
	"to_semester",
	"graduated",
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.AcademicSession, error) {
	var (
		session models.AcademicSession
		status  string
		before  sql.NullString
	)
	err := row.Scan(
		&session.ID,
		&session.DepartmentID,
		&session.InstituteID,
		&session.StartYear,
		&session.EndYear,
		&session.CurrentSemester,
		&status,
		&before,
		&session.IntakeCapacity,
		&session.TotalEnrolledStudents,
		&session.EnrollmentOpen,
		&session.NextPromotionDate,
		&session.CreatedBy,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.Version,
	)
	if err != nil {
		return nil, err
	}

	if session.Status, err = models.ParseSessionStatus(status); err != nil {
		return nil, fmt.Errorf("session %s: %w", session.ID, err)
	}
	if prevRaw := helpers.NullStringPtr(before); prevRaw != nil {
		prev, err := models.ParseSessionStatus(*prevRaw)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", session.ID, err)
		}
		session.StatusBeforeLock = &prev
	}
	session.NextPromotionDate = session.NextPromotionDate.UTC()
	session.CreatedAt = session.CreatedAt.UTC()
	session.UpdatedAt = session.UpdatedAt.UTC()
	session.PromotionLog = []models.PromotionLogEntry{}
	return &session, nil
}

func scanPromotionLogEntry(row rowScanner) (string, models.PromotionLogEntry, error) {
	var (
		sessionID string
		entry     models.PromotionLogEntry
		role      string
	)
	err := row.Scan(
		&sessionID,
		&entry.Reason,
		&entry.ActorID,
		&role,
		&entry.Timestamp,
		&entry.FromSemester,
		&entry.ToSemester,
		&entry.Graduated,
	)
	if err != nil {
		return "", entry, err
	}
	entry.ActorRole = models.RoleType(role)
	entry.Timestamp = entry.Timestamp.UTC()
	return sessionID, entry, nil
}

func statusBeforeLockValue(session *models.AcademicSession) sql.NullString {
	if session.StatusBeforeLock == nil {
		return sql.NullString{}
	}
	prev := string(*session.StatusBeforeLock)
	return helpers.GetNullString(&prev)
}

// sessionInsertValues returns the values matching sessionColumns.
func sessionInsertValues(session *models.AcademicSession) []interface{} {
	return []interface{}{
		session.ID,
		session.DepartmentID,
		session.InstituteID,
		session.StartYear,
		session.EndYear,
		session.CurrentSemester,
		string(session.Status),
		statusBeforeLockValue(session),
		session.IntakeCapacity,
		session.TotalEnrolledStudents,
		session.EnrollmentOpen,
		session.NextPromotionDate.UTC(),
		session.CreatedBy,
		session.CreatedAt.UTC(),
		session.UpdatedAt.UTC(),
		session.Version,
	}
}

// sessionUpdateMap holds the mutable columns. Identity, ownership, years and
// creator are never rewritten.
func sessionUpdateMap(session *models.AcademicSession, newVersion int64) map[string]interface{} {
	return map[string]interface{}{
		"current_semester":        session.CurrentSemester,
		"status":                  string(session.Status),
		"status_before_lock":      statusBeforeLockValue(session),
		"intake_capacity":         session.IntakeCapacity,
		"total_enrolled_students": session.TotalEnrolledStudents,
		"enrollment_open":         session.EnrollmentOpen,
		"next_promotion_date":     session.NextPromotionDate.UTC(),
		"updated_at":              session.UpdatedAt.UTC(),
		"version":                 newVersion,
	}
}

func promotionLogValues(sessionID string, entry *models.PromotionLogEntry) []interface{} {
	return []interface{}{
		sessionID,
		entry.Reason,
		entry.ActorID,
		string(entry.ActorRole),
		entry.Timestamp.UTC(),
		entry.FromSemester,
		entry.ToSemester,
		entry.Graduated,
	}
}

// indexSessions maps sessions by ID for attaching log entries.
func indexSessions(sessions []*models.AcademicSession) ([]string, map[string]*models.AcademicSession) {
	ids := make([]string, 0, len(sessions))
	byID := make(map[string]*models.AcademicSession, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}
	return ids, byID
}
