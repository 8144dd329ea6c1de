package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
	"github.com/yigit/academia/internal/pkg/apperrors"
)

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, field, custom.Details["field"])
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t)

	session := f.create(t, f.ceng, 2021, 60)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, f.ceng, session.DepartmentID)
	assert.Equal(t, f.engInstitute, session.InstituteID)
	assert.Equal(t, 2021, session.StartYear)
	assert.Equal(t, 2025, session.EndYear)
	assert.Equal(t, 1, session.CurrentSemester)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.Nil(t, session.StatusBeforeLock)
	assert.Equal(t, 60, session.IntakeCapacity)
	assert.Zero(t, session.TotalEnrolledStudents)
	assert.True(t, session.EnrollmentOpen)
	assert.Equal(t, f.clock.now.Add(180*24*time.Hour), session.NextPromotionDate)
	assert.Equal(t, principal.ID, session.CreatedBy)
	assert.Equal(t, int64(1), session.Version)
	assert.Empty(t, session.PromotionLog)

	stored := f.stored(t, session.ID)
	assert.Equal(t, session, stored)
}

func TestCreateSessionFutureIntakeIsUpcoming(t *testing.T) {
	f := newFixture(t)

	session := f.create(t, f.ceng, 2026, 40)
	assert.Equal(t, models.SessionUpcoming, session.Status)
	assert.Equal(t, 2030, session.EndYear)

	current := f.create(t, f.ceng, 2025, 40)
	assert.Equal(t, models.SessionActive, current.Status)
}

func TestCreateSessionRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		department func(f *fixture) int64
		startYear  int
		capacity   int
		field      string
	}{
		{"start year too old", func(f *fixture) int64 { return f.ceng }, 1949, 60, "startYear"},
		{"start year too far ahead", func(f *fixture) int64 { return f.ceng }, 2031, 60, "startYear"},
		{"negative capacity", func(f *fixture) int64 { return f.ceng }, 2024, -1, "intakeCapacity"},
		{"unknown department", func(*fixture) int64 { return 999 }, 2024, 60, "departmentId"},
		{"zero department", func(*fixture) int64 { return 0 }, 2024, 60, "departmentId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.lifecycle.CreateSession(context.Background(), principal, tt.department(f), tt.startYear, tt.capacity)
			requireField(t, err, tt.field)

			all, err := f.repos.Sessions.ListByInstitute(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestCreateSessionAllowsBoundaryYears(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, models.SessionActive, f.create(t, f.ceng, 1950, 10).Status)
	assert.Equal(t, models.SessionUpcoming, f.create(t, f.ceng, 2030, 10).Status)
	assert.Equal(t, 0, f.create(t, f.ceng, 2024, 0).IntakeCapacity)
}

func TestPromoteSemester(t *testing.T) {
	f := newFixture(t)
	session := f.create(t, f.ceng, 2024, 60)
	f.clock.Advance(200 * 24 * time.Hour)

	promoted, err := f.lifecycle.PromoteSemester(context.Background(), hod, session.ID, "  Semester 1 results published  ")
	require.NoError(t, err)

	assert.Equal(t, 2, promoted.CurrentSemester)
	assert.Equal(t, models.SessionActive, promoted.Status)
	assert.Equal(t, f.clock.now.Add(180*24*time.Hour), promoted.NextPromotionDate)
	assert.Equal(t, int64(2), promoted.Version)
	require.Len(t, promoted.PromotionLog, 1)
	assert.Equal(t, models.PromotionLogEntry{
		Reason:       "Semester 1 results published",
		ActorID:      hod.ID,
		ActorRole:    models.RoleHOD,
		Timestamp:    f.clock.now,
		FromSemester: 1,
		ToSemester:   2,
	}, promoted.PromotionLog[0])

	assert.Equal(t, promoted.PromotionLog, f.stored(t, session.ID).PromotionLog)
}

func TestPromoteFromLastSemesterCompletesSession(t *testing.T) {
	f := newFixture(t)
	session := f.create(t, f.ceng, 2021, 60)

	atLast := f.promoteTo(t, session.ID, models.LastSemester)
	require.Equal(t, 8, atLast.CurrentSemester)
	require.Len(t, atLast.PromotionLog, 7)

	done, err := f.lifecycle.PromoteSemester(context.Background(), hod, session.ID, "final results published")
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, done.Status)
	assert.Equal(t, 8, done.CurrentSemester)
	assert.False(t, done.EnrollmentOpen)
	require.Len(t, done.PromotionLog, 8)
	last := done.PromotionLog[7]
	assert.Equal(t, 8, last.FromSemester)
	assert.Equal(t, 8, last.ToSemester)
	assert.True(t, last.Graduated)

	_, err = f.lifecycle.PromoteSemester(context.Background(), hod, session.ID, "again")
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Len(t, f.stored(t, session.ID).PromotionLog, 8)
}

func TestPromoteRequiresReason(t *testing.T) {
	f := newFixture(t)
	session := f.create(t, f.ceng, 2024, 60)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := f.lifecycle.PromoteSemester(context.Background(), hod, session.ID, reason)
		requireField(t, err, "reason")
	}

	assert.Equal(t, session, f.stored(t, session.ID))
}

func TestPromoteRejectsNonActiveSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	upcoming := f.create(t, f.ceng, 2027, 60)
	_, err := f.lifecycle.PromoteSemester(ctx, hod, upcoming.ID, "early")
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	locked := f.create(t, f.ceng, 2024, 60)
	locked, err = f.lifecycle.Lock(ctx, hod, locked.ID)
	require.NoError(t, err)

	_, err = f.lifecycle.PromoteSemester(ctx, hod, locked.ID, "results published")
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	after := f.stored(t, locked.ID)
	assert.Equal(t, locked, after)
	assert.Empty(t, after.PromotionLog)
}

func TestLockUnlockRestoresPreviousStatus(t *testing.T) {
	for _, startYear := range []int{2024, 2027} {
		f := newFixture(t)
		ctx := context.Background()
		session := f.create(t, f.ceng, startYear, 60)

		locked, err := f.lifecycle.Lock(ctx, hod, session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionLocked, locked.Status)
		require.NotNil(t, locked.StatusBeforeLock)
		assert.Equal(t, session.Status, *locked.StatusBeforeLock)

		unlocked, err := f.lifecycle.Unlock(ctx, hod, session.ID)
		require.NoError(t, err)

		// Only bookkeeping fields move across the round trip.
		expected := session.Clone()
		expected.Version = 3
		expected.UpdatedAt = unlocked.UpdatedAt
		assert.Equal(t, expected, unlocked)
	}
}

func TestLockTransitionsRejectInvalidStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)

	_, err := f.lifecycle.Unlock(ctx, hod, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	_, err = f.lifecycle.Lock(ctx, hod, session.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.Lock(ctx, hod, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	_, err = f.lifecycle.Activate(ctx, hod, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	graduated := f.create(t, f.ceng, 2021, 60)
	f.promoteTo(t, graduated.ID, models.LastSemester)
	_, err = f.lifecycle.PromoteSemester(ctx, hod, graduated.ID, "final results")
	require.NoError(t, err)

	_, err = f.lifecycle.Lock(ctx, hod, graduated.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	_, err = f.lifecycle.Unlock(ctx, hod, graduated.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
}

func TestActivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2026, 60)

	active, err := f.lifecycle.Activate(ctx, principal, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, active.Status)
	assert.Equal(t, 1, active.CurrentSemester)

	_, err = f.lifecycle.Activate(ctx, principal, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
}

func TestCloseEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)

	closed, err := f.lifecycle.CloseEnrollment(ctx, hod, session.ID)
	require.NoError(t, err)
	assert.False(t, closed.EnrollmentOpen)
	assert.Equal(t, int64(2), closed.Version)

	again, err := f.lifecycle.CloseEnrollment(ctx, hod, session.ID)
	require.NoError(t, err)
	assert.Equal(t, closed, again)
	assert.Equal(t, int64(2), f.stored(t, session.ID).Version)

	_, err = f.lifecycle.Lock(ctx, hod, session.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.CloseEnrollment(ctx, hod, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
}

func TestCommandsOnUnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const id = "9b2f1f3e-0000-4000-8000-000000000000"

	commands := map[string]func() error{
		"activate": func() error { _, err := f.lifecycle.Activate(ctx, hod, id); return err },
		"lock":     func() error { _, err := f.lifecycle.Lock(ctx, hod, id); return err },
		"unlock":   func() error { _, err := f.lifecycle.Unlock(ctx, hod, id); return err },
		"close":    func() error { _, err := f.lifecycle.CloseEnrollment(ctx, hod, id); return err },
		"promote":  func() error { _, err := f.lifecycle.PromoteSemester(ctx, hod, id, "results"); return err },
		"capacity": func() error { _, err := f.enrollment.AdjustCapacity(ctx, hod, id, 10); return err },
		"enroll":   func() error { _, err := f.enrollment.RecordEnrollment(ctx, hod, id, 1); return err },
	}
	for name, run := range commands {
		t.Run(name, func(t *testing.T) {
			err := run()
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
			assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		})
	}
}

func TestGetSessionIsScopedToDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)

	got, err := f.lifecycle.GetSession(ctx, f.ceng, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	_, err = f.lifecycle.GetSession(ctx, f.eee, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = f.lifecycle.GetSession(ctx, 999, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
}

func TestListSessionsOrdersByStartYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, f.ceng, 2024, 60)
	f.create(t, f.ceng, 2021, 60)
	f.create(t, f.ceng, 2026, 60)
	f.create(t, f.eee, 2022, 60)

	sessions, err := f.lifecycle.ListSessions(ctx, f.ceng)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, 2021, sessions[0].StartYear)
	assert.Equal(t, 2024, sessions[1].StartYear)
	assert.Equal(t, 2026, sessions[2].StartYear)

	empty, err := f.lifecycle.ListSessions(ctx, f.math)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.lifecycle.ListSessions(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

// racingStore writes to a session right after the service reads it.
type racingStore struct {
	repositories.SessionStore
	armed bool
}

func (s *racingStore) GetByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	session, err := s.SessionStore.GetByID(ctx, id)
	if err != nil || !s.armed {
		return session, err
	}
	s.armed = false

	concurrent := session.Clone()
	concurrent.EnrollmentOpen = false
	if err := s.SessionStore.Update(ctx, concurrent, nil); err != nil {
		return nil, err
	}
	return session, nil
}

func TestConcurrentWriteIsRejected(t *testing.T) {
	racer := &racingStore{}
	f := newFixtureWithStore(t, func(inner repositories.SessionStore) repositories.SessionStore {
		racer.SessionStore = inner
		return racer
	})
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)

	racer.armed = true
	_, err := f.lifecycle.PromoteSemester(ctx, hod, session.ID, "results published")
	require.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)

	stored := f.stored(t, session.ID)
	assert.Equal(t, 1, stored.CurrentSemester)
	assert.Empty(t, stored.PromotionLog)
	assert.False(t, stored.EnrollmentOpen)
	assert.Equal(t, int64(2), stored.Version)

	retried, err := f.lifecycle.PromoteSemester(ctx, hod, session.ID, "results published")
	require.NoError(t, err)
	assert.Equal(t, 2, retried.CurrentSemester)
}

func TestSimultaneousPromotionsAdvanceOnce(t *testing.T) {
	fixtures := map[string]func(t *testing.T) *fixture{
		"memory": newFixture,
		"sqlite": newSQLiteFixture,
	}
	const callers = 6

	for name, build := range fixtures {
		t.Run(name, func(t *testing.T) {
			f := build(t)
			ctx := context.Background()
			session := f.create(t, f.ceng, 2024, 60)

			start := make(chan struct{})
			errs := make(chan error, callers)
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := f.lifecycle.PromoteSemester(ctx, hod, session.ID, "semester results published")
					errs <- err
				}()
			}
			close(start)
			wg.Wait()
			close(errs)

			promoted := 0
			for err := range errs {
				if err == nil {
					promoted++
					continue
				}
				assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
			}
			require.GreaterOrEqual(t, promoted, 1)

			stored := f.stored(t, session.ID)
			assert.Equal(t, 1+promoted, stored.CurrentSemester)
			assert.Len(t, stored.PromotionLog, promoted)
			assert.Equal(t, int64(1+promoted), stored.Version)
			for i, entry := range stored.PromotionLog {
				assert.Equal(t, i+1, entry.FromSemester)
				assert.Equal(t, i+2, entry.ToSemester)
			}
		})
	}
}

func TestDeriveOverdue(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status models.SessionStatus
		due    time.Time
		want   bool
	}{
		{"active past due", models.SessionActive, now.Add(-time.Hour), true},
		{"active due now", models.SessionActive, now, true},
		{"active not yet due", models.SessionActive, now.Add(time.Hour), false},
		{"upcoming past due", models.SessionUpcoming, now.Add(-time.Hour), false},
		{"locked past due", models.SessionLocked, now.Add(-time.Hour), false},
		{"completed past due", models.SessionCompleted, now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &models.AcademicSession{Status: tt.status, NextPromotionDate: tt.due}
			assert.Equal(t, tt.want, DeriveOverdue(session, now))
			assert.Equal(t, tt.want, DeriveOverdue(session, now), "same inputs give the same answer")
		})
	}

	assert.False(t, DeriveOverdue(nil, now))
}

func TestLifecycleConfigDefaults(t *testing.T) {
	c := LifecycleConfig{}.withDefaults()

	assert.Equal(t, DefaultPromotionInterval, c.PromotionInterval)
	assert.Equal(t, DefaultMinStartYear, c.MinStartYear)
	assert.Equal(t, DefaultMaxYearsAhead, c.MaxYearsAhead)
	assert.NotNil(t, c.Clock)
}
