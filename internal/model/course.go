package model

// swagger:model Course
type Course struct {
	BaseModel
	Name         string         `gorm:"size:100;not null" json:"name"`
	Description  string         `gorm:"size:255" json:"description"`
	InstructorID uint           `gorm:"index;not null" json:"instructorId"`
	Instructor   *User          `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Modules      []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
