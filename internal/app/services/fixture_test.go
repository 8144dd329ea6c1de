package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/academia/internal/app/migrations"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/repositories"
	"github.com/yigit/academia/internal/db"
)

var (
	principal = models.Actor{ID: 10, Role: models.RolePrincipal}
	hod       = models.Actor{ID: 20, Role: models.RoleHOD}
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	repos      *repositories.Repositories
	clock      *fakeClock
	lifecycle  LifecycleService
	enrollment EnrollmentService
	advisor    PromotionAdvisor
	analytics  AnalyticsService

	engInstitute int64
	sciInstitute int64
	ceng         int64
	eee          int64
	math         int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, nil)
}

// newFixtureWithStore lets a test wrap the session store.
func newFixtureWithStore(t *testing.T, wrap func(repositories.SessionStore) repositories.SessionStore) *fixture {
	t.Helper()
	return buildFixture(t, repositories.NewMemoryRepositories(), wrap)
}

// newSQLiteFixture runs the services over a migrated in-memory SQLite database.
func newSQLiteFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := db.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, migrations.NewSQLiteMigrator(database, zerolog.Nop()).Migrate(context.Background()))

	repos := repositories.NewSQLiteRepositories(database)
	t.Cleanup(func() { _ = repos.Close() })
	return buildFixture(t, repos, nil)
}

func buildFixture(t *testing.T, repos *repositories.Repositories, wrap func(repositories.SessionStore) repositories.SessionStore) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		repos: repos,
		clock: &fakeClock{now: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)},
	}

	eng := &models.Institute{Name: "Institute of Engineering", Code: "ENG"}
	require.NoError(t, f.repos.Directory.CreateInstitute(ctx, eng))
	sci := &models.Institute{Name: "Institute of Science", Code: "SCI"}
	require.NoError(t, f.repos.Directory.CreateInstitute(ctx, sci))
	f.engInstitute, f.sciInstitute = eng.ID, sci.ID

	for _, d := range []struct {
		target      *int64
		instituteID int64
		name, code  string
	}{
		{&f.ceng, eng.ID, "Computer Engineering", "CENG"},
		{&f.eee, eng.ID, "Electrical Engineering", "EEE"},
		{&f.math, sci.ID, "Mathematics", "MATH"},
	} {
		department := &models.Department{InstituteID: d.instituteID, Name: d.name, Code: d.code}
		require.NoError(t, f.repos.Directory.CreateDepartment(ctx, department))
		*d.target = department.ID
	}

	sessions := f.repos.Sessions
	if wrap != nil {
		sessions = wrap(sessions)
	}

	lgr := zerolog.Nop()
	f.lifecycle = NewLifecycleService(sessions, f.repos.Departments, LifecycleConfig{
		PromotionInterval: 180 * 24 * time.Hour,
		Clock:             f.clock.Now,
	}, lgr)
	f.enrollment = NewEnrollmentService(sessions, f.clock.Now, lgr)
	f.advisor = NewPromotionAdvisor(sessions, f.repos.Departments)
	f.analytics = NewAnalyticsService(sessions, f.repos.Departments, f.clock.Now)
	return f
}

func (f *fixture) create(t *testing.T, departmentID int64, startYear, capacity int) *models.AcademicSession {
	t.Helper()
	session, err := f.lifecycle.CreateSession(context.Background(), principal, departmentID, startYear, capacity)
	require.NoError(t, err)
	return session
}

func (f *fixture) stored(t *testing.T, id string) *models.AcademicSession {
	t.Helper()
	session, err := f.repos.Sessions.GetByID(context.Background(), id)
	require.NoError(t, err)
	return session
}

// promoteTo promotes an active session until it reaches semester.
func (f *fixture) promoteTo(t *testing.T, id string, semester int) *models.AcademicSession {
	t.Helper()
	session := f.stored(t, id)
	for session.CurrentSemester < semester {
		var err error
		session, err = f.lifecycle.PromoteSemester(context.Background(), hod, id, "results published")
		require.NoError(t, err)
	}
	return session
}
