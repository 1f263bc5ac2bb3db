package model

import "encoding/json"

type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	OpenEnded      QuestionKind = "open_ended"
)

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	ContentItemID uint            `gorm:"index;not null" json:"contentItemId"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Kind          QuestionKind    `gorm:"type:enum('multiple_choice','open_ended');not null" json:"kind"`
	CorrectAnswer string          `gorm:"size:255;not null" json:"-"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"` // JSON string array, multiple_choice only
	Order         int             `gorm:"not null" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
