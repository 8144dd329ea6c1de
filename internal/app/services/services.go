package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
)

// Services defined in this package:
// - LifecycleService: session state machine and audited promotions
// - EnrollmentService: intake capacity and enrollment counts
// - PromotionAdvisor: read-only overdue detection
// - AnalyticsService: read-only rollups by status and department

// Clock returns the current time. Services take one so tests control "now".
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time { return time.Now().UTC() }

// errUnchanged tells mutate the command was a no-op.
var errUnchanged = errors.New("session unchanged")

// mutation applies a command to a working copy of a session. A non-nil entry
// is appended to the promotion log in the same store write.
type mutation func(session *models.AcademicSession, now time.Time) (*models.PromotionLogEntry, error)

// sessionMutator runs read-modify-write cycles against the store. The working
// copy carries the version that was read; a stale version fails the update.
type sessionMutator struct {
	sessions repositories.SessionStore
	clock    Clock
}

func (m sessionMutator) mutate(ctx context.Context, id string, apply mutation) (before, after *models.AcademicSession, err error) {
	current, err := m.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	working := current.Clone()
	now := m.clock()
	entry, err := apply(working, now)
	if errors.Is(err, errUnchanged) {
		return current, current, nil
	}
	if err != nil {
		return nil, nil, err
	}

	working.UpdatedAt = now
	if err := m.sessions.Update(ctx, working, entry); err != nil {
		return nil, nil, err
	}
	return current, working, nil
}

// errUnknownStatus is returned by every exhaustive status switch.
func errUnknownStatus(session *models.AcademicSession) error {
	return fmt.Errorf("session %s has unknown status %q", session.ID, session.Status)
}
