package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// EnrollmentStore is the enrollment access surface the services consume.
type EnrollmentStore interface {
	WithTx(tx *gorm.DB) EnrollmentStore
	Create(enrollment *model.CourseEnrollment) error
	FindByStudentAndCourse(studentID, courseID uint) (*model.CourseEnrollment, error)
	ListByStudent(studentID uint) ([]model.CourseEnrollment, error)
	Save(enrollment *model.CourseEnrollment) error
	CountCourseItems(courseID uint) (int64, error)
	CountCompletedItems(studentID, courseID uint) (int64, error)
}

type EnrollmentRepository struct {
	DB *gorm.DB
}

var _ EnrollmentStore = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// WithTx returns a copy of the repository bound to tx, so callers can join
// an enclosing transaction.
func (r *EnrollmentRepository) WithTx(tx *gorm.DB) EnrollmentStore {
	return &EnrollmentRepository{DB: tx}
}

func (r *EnrollmentRepository) Create(enrollment *model.CourseEnrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.CourseEnrollment, error) {
	var enrollment model.CourseEnrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	err := r.DB.Where("student_id = ?", studentID).Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Save(enrollment *model.CourseEnrollment) error {
	return r.DB.Save(enrollment).Error
}

// CountCourseItems counts the content items across all modules of a course.
func (r *EnrollmentRepository) CountCourseItems(courseID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.ContentItem{}).
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL", courseID).
		Count(&total).Error
	return total, err
}

// CountCompletedItems counts the student's completed responses restricted to
// the course's modules.
func (r *EnrollmentRepository) CountCompletedItems(studentID, courseID uint) (int64, error) {
	var completed int64
	err := r.DB.Model(&model.StudentResponse{}).
		Joins("JOIN content_items ON content_items.id = student_responses.content_item_id").
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("course_modules.course_id = ? AND student_responses.student_id = ? AND student_responses.completed = ?",
			courseID, studentID, true).
		Where("content_items.deleted_at IS NULL AND course_modules.deleted_at IS NULL").
		Count(&completed).Error
	return completed, err
}
