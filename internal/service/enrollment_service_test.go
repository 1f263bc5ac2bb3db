package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name          string
		completed     int64
		total         int64
		wantProgress  float64
		wantCompleted bool
	}{
		{"empty course", 0, 0, 0, false},
		{"nothing done", 0, 4, 0, false},
		{"quarter done", 1, 4, 25, false},
		{"half done", 2, 4, 50, false},
		{"all done", 4, 4, 100, true},
		{"single item done", 1, 1, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, completed, err := ComputeProgress(tt.completed, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProgress, progress)
			assert.Equal(t, tt.wantCompleted, completed)
		})
	}
}

func TestComputeProgressThirds(t *testing.T) {
	// 3x 100/3 must still reach the completed flag despite float division.
	progress, completed, err := ComputeProgress(3, 3)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.InDelta(t, 100, progress, 1e-9)

	progress, completed, err = ComputeProgress(2, 3)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.InDelta(t, 66.666, progress, 0.001)
}

func TestComputeProgressInvariants(t *testing.T) {
	_, _, err := ComputeProgress(-1, 4)
	require.Error(t, err)
	assert.True(t, util.IsInvariantViolation(err))

	_, _, err = ComputeProgress(0, -1)
	require.Error(t, err)
	assert.True(t, util.IsInvariantViolation(err))

	_, _, err = ComputeProgress(5, 4)
	require.Error(t, err)
	assert.True(t, util.IsInvariantViolation(err))
}

func TestEnrollCreatesSingleEnrollment(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	svc := newMemEnrollmentService(m)

	result, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyEnrolled)
	require.Len(t, m.enrollments, 1)

	enrollment := m.enrollments[[2]uint{10, course.ID}]
	require.NotNil(t, enrollment)
	assert.Zero(t, enrollment.Progress)
	assert.False(t, enrollment.Completed)
}

func TestEnrollIsIdempotent(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	svc := newMemEnrollmentService(m)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	// Accumulate some progress before re-enrolling; it must survive.
	enrollment := m.enrollments[[2]uint{10, course.ID}]
	enrollment.Progress = 40

	result, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyEnrolled)
	assert.Len(t, m.enrollments, 1)
	assert.Equal(t, 40.0, m.enrollments[[2]uint{10, course.ID}].Progress)
}

func TestEnrollUnknownCourse(t *testing.T) {
	m := newMemStores()
	svc := newMemEnrollmentService(m)

	_, err := svc.Enroll(10, 999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestEnrollLosingRaceReportsAlreadyEnrolled(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	svc := newMemEnrollmentService(m)

	// A concurrent enroll commits between the existence check and the
	// insert; the unique index rejects the second insert.
	m.enrollCreateErr = gorm.ErrDuplicatedKey

	result, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyEnrolled)
}

func TestRecordSimpleCompletionUpdatesProgress(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	first := m.addItem(module.ID, model.ContentText)
	second := m.addItem(module.ID, model.ContentVideo)
	svc := newMemEnrollmentService(m)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	result, err := svc.RecordSimpleCompletion(10, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Progress)
	assert.False(t, result.Completed)

	result, err = svc.RecordSimpleCompletion(10, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Progress)
	assert.True(t, result.Completed)

	enrollment := m.enrollments[[2]uint{10, course.ID}]
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.True(t, enrollment.Completed)
}

func TestRepeatedCompletionKeepsProgress(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentText)
	m.addItem(module.ID, model.ContentVideo)
	svc := newMemEnrollmentService(m)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	result, err := svc.RecordSimpleCompletion(10, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Progress)
	require.Len(t, m.responses, 1)

	// Completing the same item again overwrites the single response row
	// and leaves progress where it was.
	result, err = svc.RecordSimpleCompletion(10, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Progress)
	assert.False(t, result.Completed)
	assert.Len(t, m.responses, 1)
	assert.Equal(t, 50.0, m.enrollments[[2]uint{10, course.ID}].Progress)
}

func TestRecordSimpleCompletionRejectsQuizItems(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentQuiz, model.QuizQuestion{
		Text: "q", Kind: model.OpenEnded, CorrectAnswer: "a", Order: 1,
	})
	svc := newMemEnrollmentService(m)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	_, err = svc.RecordSimpleCompletion(10, item.ID)
	assert.ErrorIs(t, err, util.ErrQuizContent)
	assert.Empty(t, m.responses)
}

func TestCompletionRequiresEnrollment(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(1)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentText)
	svc := newMemEnrollmentService(m)

	_, err := svc.RecordSimpleCompletion(10, item.ID)
	require.Error(t, err)
	assert.True(t, util.IsInvariantViolation(err))
	assert.Empty(t, m.responses)
}
