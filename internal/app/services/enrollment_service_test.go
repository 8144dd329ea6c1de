package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/pkg/apperrors"
)

func TestRecordEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)

	enrolled, err := f.enrollment.RecordEnrollment(ctx, hod, session.ID, 58)
	require.NoError(t, err)
	assert.Equal(t, 58, enrolled.TotalEnrolledStudents)

	withdrawn, err := f.enrollment.RecordEnrollment(ctx, hod, session.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 55, withdrawn.TotalEnrolledStudents)
	assert.Equal(t, int64(3), withdrawn.Version)
}

func TestRecordEnrollmentOverCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)
	_, err := f.enrollment.RecordEnrollment(ctx, hod, session.ID, 58)
	require.NoError(t, err)

	_, err = f.enrollment.RecordEnrollment(ctx, hod, session.ID, 5)
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, 60, custom.Details["intakeCapacity"])
	assert.Equal(t, 58, custom.Details["totalEnrolledStudents"])
	assert.Equal(t, 5, custom.Details["delta"])

	stored := f.stored(t, session.ID)
	assert.Equal(t, 58, stored.TotalEnrolledStudents)

	filled, err := f.enrollment.RecordEnrollment(ctx, hod, session.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 60, filled.TotalEnrolledStudents)
}

func TestRecordEnrollmentRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)

	_, err := f.enrollment.RecordEnrollment(ctx, hod, session.ID, 0)
	requireField(t, err, "delta")

	_, err = f.enrollment.RecordEnrollment(ctx, hod, session.ID, -1)
	requireField(t, err, "delta")

	_, err = f.lifecycle.CloseEnrollment(ctx, hod, session.ID)
	require.NoError(t, err)
	_, err = f.enrollment.RecordEnrollment(ctx, hod, session.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	locked := f.create(t, f.ceng, 2023, 60)
	_, err = f.lifecycle.Lock(ctx, hod, locked.ID)
	require.NoError(t, err)
	_, err = f.enrollment.RecordEnrollment(ctx, hod, locked.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Zero(t, f.stored(t, locked.ID).TotalEnrolledStudents)
}

func TestEnrollmentOpenForUpcomingSession(t *testing.T) {
	f := newFixture(t)
	session := f.create(t, f.ceng, 2026, 30)

	updated, err := f.enrollment.RecordEnrollment(context.Background(), hod, session.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.TotalEnrolledStudents)
	assert.Equal(t, models.SessionUpcoming, updated.Status)
}

func TestAdjustCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.create(t, f.ceng, 2024, 60)
	_, err := f.enrollment.RecordEnrollment(ctx, hod, session.ID, 40)
	require.NoError(t, err)

	raised, err := f.enrollment.AdjustCapacity(ctx, principal, session.ID, 72)
	require.NoError(t, err)
	assert.Equal(t, 72, raised.IntakeCapacity)

	lowered, err := f.enrollment.AdjustCapacity(ctx, principal, session.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, lowered.IntakeCapacity)

	_, err = f.enrollment.AdjustCapacity(ctx, principal, session.ID, 39)
	requireField(t, err, "intakeCapacity")

	_, err = f.enrollment.AdjustCapacity(ctx, principal, session.ID, -1)
	requireField(t, err, "intakeCapacity")

	assert.Equal(t, 40, f.stored(t, session.ID).IntakeCapacity)
}

func TestAdjustCapacityRejectsHeldAndFinishedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	locked := f.create(t, f.ceng, 2024, 60)
	_, err := f.lifecycle.Lock(ctx, hod, locked.ID)
	require.NoError(t, err)
	_, err = f.enrollment.AdjustCapacity(ctx, principal, locked.ID, 80)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)

	graduated := f.create(t, f.ceng, 2021, 60)
	f.promoteTo(t, graduated.ID, models.LastSemester)
	_, err = f.lifecycle.PromoteSemester(ctx, hod, graduated.ID, "final results")
	require.NoError(t, err)
	_, err = f.enrollment.AdjustCapacity(ctx, principal, graduated.ID, 80)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
}

func TestCheckEnrollment(t *testing.T) {
	valid := &models.AcademicSession{ID: "s", Status: models.SessionActive, IntakeCapacity: 10, TotalEnrolledStudents: 10, EnrollmentOpen: true}
	assert.NoError(t, checkEnrollment(valid))

	over := valid.Clone()
	over.TotalEnrolledStudents = 11
	assert.Error(t, checkEnrollment(over))

	openCompleted := valid.Clone()
	openCompleted.Status = models.SessionCompleted
	assert.Error(t, checkEnrollment(openCompleted))
}
