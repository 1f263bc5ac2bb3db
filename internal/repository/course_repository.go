package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// CourseStore is the course access surface the services consume; satisfied
// by CourseRepository and by test fakes.
type CourseStore interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithContent(id uint) (*model.Course, error)
	List(page, limit int) ([]model.Course, int64, error)
	ListByInstructor(instructorID uint) ([]model.Course, error)
	Update(course *model.Course) error
	DeleteCascade(courseID uint) error
}

type CourseRepository struct {
	DB *gorm.DB
}

var _ CourseStore = (*CourseRepository)(nil)

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindByIDWithContent loads the course with its modules and content items in
// display order. Quiz questions are loaded too; correct answers stay out of
// JSON output at the model level.
func (r *CourseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.`order` asc")
		}).
		Preload("Modules.ContentItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_items.`order` asc")
		}).
		Preload("Modules.ContentItems.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.`order` asc")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Preload("Instructor").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// DeleteCascade removes a course and everything below it, children first:
// questions, responses, content items, modules, enrollments, then the course
// row itself. Runs in a single transaction.
func (r *CourseRepository) DeleteCascade(courseID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.CourseModule{}).
			Where("course_id = ?", courseID).
			Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}

		if len(moduleIDs) > 0 {
			var itemIDs []uint
			if err := tx.Model(&model.ContentItem{}).
				Where("module_id IN ?", moduleIDs).
				Pluck("id", &itemIDs).Error; err != nil {
				return err
			}

			if len(itemIDs) > 0 {
				if err := tx.Unscoped().
					Where("content_item_id IN ?", itemIDs).
					Delete(&model.QuizQuestion{}).Error; err != nil {
					return err
				}
				if err := tx.Unscoped().
					Where("content_item_id IN ?", itemIDs).
					Delete(&model.StudentResponse{}).Error; err != nil {
					return err
				}
				if err := tx.Unscoped().
					Where("id IN ?", itemIDs).
					Delete(&model.ContentItem{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Unscoped().
				Where("id IN ?", moduleIDs).
				Delete(&model.CourseModule{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().
			Where("course_id = ?", courseID).
			Delete(&model.CourseEnrollment{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&model.Course{}, courseID).Error
	})
}
