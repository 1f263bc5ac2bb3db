package model

import "time"

// StudentResponse records a student's submission for one content item. At
// most one row exists per (student, content item); resubmission overwrites
// the existing row.
//
// swagger:model StudentResponse
type StudentResponse struct {
	BaseModel
	StudentID      uint        `gorm:"uniqueIndex:idx_student_content;not null" json:"studentId"`
	ContentItemID  uint        `gorm:"uniqueIndex:idx_student_content;not null" json:"contentItemId"`
	Response       string      `gorm:"type:text" json:"response"` // submitted answers, JSON-serialized
	Score          *float64    `json:"score,omitempty"`           // 0-10, quiz content only
	Completed      bool        `gorm:"default:false" json:"completed"`
	CompletionDate *time.Time  `json:"completionDate,omitempty"`
	ContentItem    ContentItem `gorm:"foreignKey:ContentItemID" json:"-"`
}

func (StudentResponse) TableName() string {
	return "student_responses"
}
