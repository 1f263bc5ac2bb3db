package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// completionEpsilon guards the completed flag against float division
// artifacts: three items at 100/3 percent each must still sum to a
// completed course.
const completionEpsilon = 1e-9

// TxRunner runs a function inside a database transaction. *gorm.DB satisfies
// it; tests substitute a pass-through.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type EnrollmentService struct {
	DB          TxRunner
	Courses     repository.CourseStore
	Contents    repository.ContentStore
	Enrollments repository.EnrollmentStore
	Responses   repository.ResponseStore
}

func NewEnrollmentService(
	courses repository.CourseStore,
	contents repository.ContentStore,
	enrollments repository.EnrollmentStore,
	responses repository.ResponseStore,
	db TxRunner,
) *EnrollmentService {
	return &EnrollmentService{
		DB:          db,
		Courses:     courses,
		Contents:    contents,
		Enrollments: enrollments,
		Responses:   responses,
	}
}

// EnrollResult reports whether the student was already enrolled; re-enrolling
// is informational, not an error.
type EnrollResult struct {
	AlreadyEnrolled bool `json:"alreadyEnrolled"`
}

// CompletionResult is the refreshed enrollment state after a completion
// event.
type CompletionResult struct {
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// Enroll creates the enrollment for (student, course) unless one already
// exists. Idempotent.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*EnrollResult, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	_, err := s.Enrollments.FindByStudentAndCourse(studentID, courseID)
	if err == nil {
		return &EnrollResult{AlreadyEnrolled: true}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	enrollment := &model.CourseEnrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		Progress:   0,
		Completed:  false,
	}
	if err := s.Enrollments.Create(enrollment); err != nil {
		// A concurrent enroll can commit between the existence check and
		// the insert; the unique (student, course) index reports it here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &EnrollResult{AlreadyEnrolled: true}, nil
		}
		return nil, err
	}

	logger.Log.Info("student enrolled",
		zap.Uint("studentId", studentID),
		zap.Uint("courseId", courseID))

	return &EnrollResult{AlreadyEnrolled: false}, nil
}

// RecordSimpleCompletion marks a text, video or file item completed for the
// student and refreshes course progress. Quiz items must go through grading
// instead.
func (s *EnrollmentService) RecordSimpleCompletion(studentID, itemID uint) (*CompletionResult, error) {
	item, err := s.Contents.FindByID(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if item.Kind == model.ContentQuiz {
		return nil, util.ErrQuizContent
	}

	return s.recordCompletion(studentID, itemID, "{}", nil)
}

// recordCompletion upserts the student's response and recomputes the
// enrollment's progress, all in one transaction. A missing enrollment is an
// invariant violation: an unenrolled student should never have been able to
// reach content.
func (s *EnrollmentService) recordCompletion(studentID, itemID uint, payload string, score *float64) (*CompletionResult, error) {
	courseID, err := s.Contents.CourseIDForItem(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	var result *CompletionResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		enrollments := s.Enrollments.WithTx(tx)

		enrollment, err := enrollments.FindByStudentAndCourse(studentID, courseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.NewInvariantViolation(fmt.Sprintf(
					"completion recorded for unenrolled student %d in course %d", studentID, courseID))
			}
			return err
		}

		if _, err := s.Responses.WithTx(tx).Upsert(studentID, itemID, payload, score); err != nil {
			return err
		}

		progress, completed, err := s.refreshProgress(tx, enrollment)
		if err != nil {
			return err
		}

		result = &CompletionResult{Progress: progress, Completed: completed}
		return nil
	})
	if err != nil {
		if util.IsInvariantViolation(err) {
			logger.Log.Error("completion rejected", zap.Error(err),
				zap.Uint("studentId", studentID),
				zap.Uint("contentItemId", itemID))
		}
		return nil, err
	}

	return result, nil
}

// refreshProgress recomputes the enrollment's progress from persisted state
// and writes it back. Always recomputed in full: content can be added or
// removed between calls, retroactively re-weighting prior completions.
func (s *EnrollmentService) refreshProgress(tx *gorm.DB, enrollment *model.CourseEnrollment) (float64, bool, error) {
	enrollments := s.Enrollments.WithTx(tx)

	total, err := enrollments.CountCourseItems(enrollment.CourseID)
	if err != nil {
		return 0, false, err
	}
	completed, err := enrollments.CountCompletedItems(enrollment.StudentID, enrollment.CourseID)
	if err != nil {
		return 0, false, err
	}

	progress, done, err := ComputeProgress(completed, total)
	if err != nil {
		return 0, false, err
	}

	enrollment.Progress = progress
	enrollment.Completed = done
	if err := enrollments.Save(enrollment); err != nil {
		return 0, false, err
	}

	return progress, done, nil
}

// ComputeProgress derives the completion percentage and flag from the two
// aggregate counts. A course with no content is 0% and never completed.
func ComputeProgress(completedItems, totalItems int64) (float64, bool, error) {
	if completedItems < 0 || totalItems < 0 {
		return 0, false, util.NewInvariantViolation(fmt.Sprintf(
			"negative completion counts: completed=%d total=%d", completedItems, totalItems))
	}
	if completedItems > totalItems {
		return 0, false, util.NewInvariantViolation(fmt.Sprintf(
			"completed count %d exceeds total %d", completedItems, totalItems))
	}
	if totalItems == 0 {
		return 0, false, nil
	}

	progress := float64(completedItems) / float64(totalItems) * 100
	return progress, progress >= 100-completionEpsilon, nil
}
