package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// ContentStore is the content-item access surface the services consume.
type ContentStore interface {
	Create(item *model.ContentItem) error
	FindByID(id uint) (*model.ContentItem, error)
	CourseIDForItem(itemID uint) (uint, error)
	Update(item *model.ContentItem) error
	ReplaceQuestions(itemID uint, questions []model.QuizQuestion) error
	NextOrder(moduleID uint) (int, error)
	DeleteCascade(itemID, moduleID uint) error
}

type ContentRepository struct {
	DB *gorm.DB
}

var _ ContentStore = (*ContentRepository)(nil)

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

// Create inserts the content item together with its quiz questions, if any.
func (r *ContentRepository) Create(item *model.ContentItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		questions := item.Questions
		item.Questions = nil
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ContentItemID = item.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		item.Questions = questions
		return nil
	})
}

func (r *ContentRepository) FindByID(id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.`order` asc")
		}).
		First(&item, id).Error
	return &item, err
}

// CourseIDForItem resolves the course owning a content item through its
// module.
func (r *ContentRepository) CourseIDForItem(itemID uint) (uint, error) {
	var courseID uint
	err := r.DB.Model(&model.ContentItem{}).
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("content_items.id = ?", itemID).
		Select("course_modules.course_id").
		Scan(&courseID).Error
	if err != nil {
		return 0, err
	}
	if courseID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return courseID, nil
}

func (r *ContentRepository) Update(item *model.ContentItem) error {
	return r.DB.Save(item).Error
}

// ReplaceQuestions swaps a quiz item's question set atomically.
func (r *ContentRepository) ReplaceQuestions(itemID uint, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("content_item_id = ?", itemID).
			Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].ContentItemID = itemID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextOrder returns the 1-based position a new item should take within the
// module.
func (r *ContentRepository) NextOrder(moduleID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.ContentItem{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error
	return int(count) + 1, err
}

// DeleteCascade removes a content item with its questions and responses,
// then renumbers the module's surviving items.
func (r *ContentRepository) DeleteCascade(itemID, moduleID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("content_item_id = ?", itemID).
			Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("content_item_id = ?", itemID).
			Delete(&model.StudentResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.ContentItem{}, itemID).Error; err != nil {
			return err
		}

		var items []model.ContentItem
		if err := tx.Where("module_id = ?", moduleID).
			Order("`order` asc").Find(&items).Error; err != nil {
			return err
		}
		for i := range items {
			want := i + 1
			if items[i].Order != want {
				if err := tx.Model(&model.ContentItem{}).
					Where("id = ?", items[i].ID).
					Update("order", want).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
