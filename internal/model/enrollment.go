package model

import "time"

// CourseEnrollment links one student to one course. Progress is always a
// recomputed aggregate over the student's completed responses, never an
// incrementally maintained counter.
//
// swagger:model CourseEnrollment
type CourseEnrollment struct {
	BaseModel
	StudentID  uint      `gorm:"uniqueIndex:idx_student_course;not null" json:"studentId"`
	CourseID   uint      `gorm:"uniqueIndex:idx_student_course;not null" json:"courseId"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolledAt"`
	Progress   float64   `gorm:"default:0" json:"progress"`
	Completed  bool      `gorm:"default:false" json:"completed"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
