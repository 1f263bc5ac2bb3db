package model

type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentVideo ContentKind = "video"
	ContentFile  ContentKind = "file"
	ContentQuiz  ContentKind = "quiz"
)

// ContentItem is a single unit of course material. Payload holds the text
// body, video URL or stored file path depending on Kind; quiz items own
// their questions instead.
//
// swagger:model ContentItem
type ContentItem struct {
	BaseModel
	ModuleID  uint           `gorm:"index:idx_module_content_order;not null" json:"moduleId"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Kind      ContentKind    `gorm:"type:enum('text','video','file','quiz');not null" json:"kind"`
	Payload   string         `gorm:"type:text" json:"payload"`
	Order     int            `gorm:"index:idx_module_content_order;not null" json:"order"`
	Duration  float64        `gorm:"default:0" json:"duration,omitempty"` // seconds, video kind only
	Questions []QuizQuestion `gorm:"foreignKey:ContentItemID" json:"questions,omitempty"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
