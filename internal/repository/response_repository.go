package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// ResponseStore is the student-response access surface the services consume.
type ResponseStore interface {
	WithTx(tx *gorm.DB) ResponseStore
	FindByStudentAndItem(studentID, itemID uint) (*model.StudentResponse, error)
	Upsert(studentID, itemID uint, payload string, score *float64) (*model.StudentResponse, error)
	ListByStudentAndItems(studentID uint, itemIDs []uint) (map[uint]model.StudentResponse, error)
}

type ResponseRepository struct {
	DB *gorm.DB
}

var _ ResponseStore = (*ResponseRepository)(nil)

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) WithTx(tx *gorm.DB) ResponseStore {
	return &ResponseRepository{DB: tx}
}

func (r *ResponseRepository) FindByStudentAndItem(studentID, itemID uint) (*model.StudentResponse, error) {
	var response model.StudentResponse
	err := r.DB.Where("student_id = ? AND content_item_id = ?", studentID, itemID).
		First(&response).Error
	return &response, err
}

// Upsert creates or overwrites the single response row for the
// (student, content item) pair and marks it completed.
func (r *ResponseRepository) Upsert(studentID, itemID uint, payload string, score *float64) (*model.StudentResponse, error) {
	now := time.Now()

	var existing model.StudentResponse
	err := r.DB.Where("student_id = ? AND content_item_id = ?", studentID, itemID).
		First(&existing).Error

	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		response := &model.StudentResponse{
			StudentID:      studentID,
			ContentItemID:  itemID,
			Response:       payload,
			Score:          score,
			Completed:      true,
			CompletionDate: &now,
		}
		if err := r.DB.Create(response).Error; err != nil {
			return nil, err
		}
		return response, nil
	}

	existing.Response = payload
	if score != nil {
		existing.Score = score
	}
	existing.Completed = true
	existing.CompletionDate = &now
	if err := r.DB.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *ResponseRepository) ListByStudentAndItems(studentID uint, itemIDs []uint) (map[uint]model.StudentResponse, error) {
	var responses []model.StudentResponse
	err := r.DB.Where("student_id = ? AND content_item_id IN ?", studentID, itemIDs).
		Find(&responses).Error
	if err != nil {
		return nil, err
	}

	byItem := make(map[uint]model.StudentResponse, len(responses))
	for _, resp := range responses {
		byItem[resp.ContentItemID] = resp
	}
	return byItem, nil
}
