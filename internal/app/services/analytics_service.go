package services

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
)

// StatusTotals counts sessions and their enrolled students
type StatusTotals struct {
	Count         int `json:"count" example:"3"`
	TotalEnrolled int `json:"totalEnrolled" example:"174"`
}

func (t *StatusTotals) add(session *models.AcademicSession) {
	t.Count++
	t.TotalEnrolled += session.TotalEnrolledStudents
}

// DepartmentBreakdown is the rollup of one department
type DepartmentBreakdown struct {
	DepartmentID   int64                                 `json:"departmentId" example:"1"`
	DepartmentName string                                `json:"departmentName,omitempty" example:"Computer Engineering"`
	ByStatus       map[models.SessionStatus]StatusTotals `json:"byStatus"`
	Totals         StatusTotals                          `json:"totals"`
	Overdue        int                                   `json:"overdue" example:"1"`
}

// AnalyticsReport is a rollup of the store at GeneratedAt. It is never cached.
type AnalyticsReport struct {
	InstituteID int64                                 `json:"instituteId" example:"0"`
	ByStatus    map[models.SessionStatus]StatusTotals `json:"byStatus"`
	Departments []DepartmentBreakdown                 `json:"departments"`
	Totals      StatusTotals                          `json:"totals"`
	Overdue     int                                   `json:"overdue" example:"2"`
	GeneratedAt time.Time                             `json:"generatedAt"`
}

// AnalyticsService defines the read-only rollup operations
type AnalyticsService interface {
	// Aggregate summarises one institute's sessions; instituteID 0 covers every institute.
	Aggregate(ctx context.Context, instituteID int64) (*AnalyticsReport, error)
}

type analyticsServiceImpl struct {
	sessions    repositories.SessionStore
	departments repositories.DepartmentDirectory
	clock       Clock
}

// NewAnalyticsService creates a new analytics service instance
func NewAnalyticsService(sessions repositories.SessionStore, departments repositories.DepartmentDirectory, clock Clock) AnalyticsService {
	if clock == nil {
		clock = SystemClock
	}
	return &analyticsServiceImpl{
		sessions:    sessions,
		departments: departments,
		clock:       clock,
	}
}

func emptyStatusTotals() map[models.SessionStatus]StatusTotals {
	totals := make(map[models.SessionStatus]StatusTotals, len(models.SessionStatuses))
	for _, status := range models.SessionStatuses {
		totals[status] = StatusTotals{}
	}
	return totals
}

func (s *analyticsServiceImpl) Aggregate(ctx context.Context, instituteID int64) (*AnalyticsReport, error) {
	sessions, err := s.sessions.ListByInstitute(ctx, instituteID)
	if err != nil {
		return nil, err
	}

	departments, err := s.departments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	now := s.clock()
	report := &AnalyticsReport{
		InstituteID: instituteID,
		ByStatus:    emptyStatusTotals(),
		Departments: []DepartmentBreakdown{},
		GeneratedAt: now,
	}
	byDepartment := map[int64]*DepartmentBreakdown{}

	for _, session := range sessions {
		dept, ok := byDepartment[session.DepartmentID]
		if !ok {
			dept = &DepartmentBreakdown{
				DepartmentID:   session.DepartmentID,
				DepartmentName: names[session.DepartmentID],
				ByStatus:       emptyStatusTotals(),
			}
			byDepartment[session.DepartmentID] = dept
		}

		status := report.ByStatus[session.Status]
		status.add(session)
		report.ByStatus[session.Status] = status
		report.Totals.add(session)

		deptStatus := dept.ByStatus[session.Status]
		deptStatus.add(session)
		dept.ByStatus[session.Status] = deptStatus
		dept.Totals.add(session)

		if DeriveOverdue(session, now) {
			report.Overdue++
			dept.Overdue++
		}
	}

	for _, dept := range byDepartment {
		report.Departments = append(report.Departments, *dept)
	}
	sort.Slice(report.Departments, func(i, j int) bool {
		return report.Departments[i].DepartmentID < report.Departments[j].DepartmentID
	})
	return report, nil
}
