package services

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
)

// PromotionAdvisor lists sessions whose promotion is overdue. It never writes.
type PromotionAdvisor interface {
	// ListOverdue re-reads the store on every call, ordered by NextPromotionDate.
	ListOverdue(ctx context.Context, departmentID int64, now time.Time) ([]*models.AcademicSession, error)
}

type promotionAdvisorImpl struct {
	sessions    repositories.SessionStore
	departments repositories.DepartmentDirectory
}

// NewPromotionAdvisor creates a new promotion advisor
func NewPromotionAdvisor(sessions repositories.SessionStore, departments repositories.DepartmentDirectory) PromotionAdvisor {
	return &promotionAdvisorImpl{
		sessions:    sessions,
		departments: departments,
	}
}

func (a *promotionAdvisorImpl) ListOverdue(ctx context.Context, departmentID int64, now time.Time) ([]*models.AcademicSession, error) {
	if _, err := a.departments.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}

	sessions, err := a.sessions.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	overdue := make([]*models.AcademicSession, 0, len(sessions))
	for _, session := range sessions {
		if DeriveOverdue(session, now) {
			overdue = append(overdue, session)
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].NextPromotionDate.Before(overdue[j].NextPromotionDate)
	})
	return overdue, nil
}
