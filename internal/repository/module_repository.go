package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// ModuleStore is the module access surface the services consume.
type ModuleStore interface {
	Create(module *model.CourseModule) error
	FindByID(id uint) (*model.CourseModule, error)
	FindByIDWithItems(id uint) (*model.CourseModule, error)
	Update(module *model.CourseModule) error
	NextOrder(courseID uint) (int, error)
	DeleteCascade(moduleID, courseID uint) error
}

type ModuleRepository struct {
	DB *gorm.DB
}

var _ ModuleStore = (*ModuleRepository)(nil)

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) FindByIDWithItems(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.
		Preload("ContentItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_items.`order` asc")
		}).
		First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) Update(module *model.CourseModule) error {
	return r.DB.Save(module).Error
}

// NextOrder returns the 1-based position a new module should take within
// the course.
func (r *ModuleRepository) NextOrder(courseID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return int(count) + 1, err
}

// DeleteCascade removes the module with its content items, questions and
// responses, then renumbers the surviving siblings so their order values
// stay a contiguous 1-based sequence.
func (r *ModuleRepository) DeleteCascade(moduleID, courseID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&model.ContentItem{}).
			Where("module_id = ?", moduleID).
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

		if err := tx.Unscoped().Delete(&model.CourseModule{}, moduleID).Error; err != nil {
			return err
		}

		return renumberModules(tx, courseID)
	})
}

// renumberModules rewrites the order column of a course's modules into a
// contiguous 1-based sequence, preserving relative order.
func renumberModules(tx *gorm.DB, courseID uint) error {
	var modules []model.CourseModule
	if err := tx.Where("course_id = ?", courseID).
		Order("`order` asc").Find(&modules).Error; err != nil {
		return err
	}

	for i := range modules {
		want := i + 1
		if modules[i].Order != want {
			if err := tx.Model(&model.CourseModule{}).
				Where("id = ?", modules[i].ID).
				Update("order", want).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
