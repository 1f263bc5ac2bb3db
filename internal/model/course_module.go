package model

// CourseModule is an ordered grouping of content items within a course.
// Order values form a contiguous 1-based sequence among siblings; the
// storage layer renumbers survivors after a delete.
//
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID     uint          `gorm:"index:idx_course_module_order;not null" json:"courseId"`
	Title        string        `gorm:"size:200;not null" json:"title"`
	Description  string        `gorm:"size:255" json:"description"`
	Order        int           `gorm:"index:idx_course_module_order;not null" json:"order"`
	ContentItems []ContentItem `gorm:"foreignKey:ModuleID" json:"contentItems,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
