package service

import (
	"context"
	"encoding/json"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "course_catalog"
	catalogCacheTTL = 5 * time.Minute
)

// LearningService serves the student-facing read paths: the course catalog,
// enrolled course content and individual content items with the student's
// own response.
type LearningService struct {
	Courses     repository.CourseStore
	Contents    repository.ContentStore
	Enrollments repository.EnrollmentStore
	Responses   repository.ResponseStore
	Redis       *redis.Client
}

func NewLearningService(
	courses repository.CourseStore,
	contents repository.ContentStore,
	enrollments repository.EnrollmentStore,
	responses repository.ResponseStore,
	rdb *redis.Client,
) *LearningService {
	return &LearningService{
		Courses:     courses,
		Contents:    contents,
		Enrollments: enrollments,
		Responses:   responses,
		Redis:       rdb,
	}
}

// CatalogCourse is a catalog row decorated with the requesting student's
// enrollment state.
type CatalogCourse struct {
	model.Course
	Enrolled  bool    `json:"enrolled"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// ListCourses returns the course catalog with the student's enrollment state
// merged in. The raw course list is cached; enrollment state is per student
// and always read live.
func (s *LearningService) ListCourses(studentID uint, page, limit int) ([]CatalogCourse, int64, error) {
	courses, total, err := s.cachedCourseList(page, limit)
	if err != nil {
		return nil, 0, err
	}

	enrollments, err := s.Enrollments.ListByStudent(studentID)
	if err != nil {
		return nil, 0, err
	}
	byCourse := make(map[uint]model.CourseEnrollment, len(enrollments))
	for _, e := range enrollments {
		byCourse[e.CourseID] = e
	}

	catalog := make([]CatalogCourse, len(courses))
	for i, course := range courses {
		row := CatalogCourse{Course: course}
		if e, ok := byCourse[course.ID]; ok {
			row.Enrolled = true
			row.Progress = e.Progress
			row.Completed = e.Completed
		}
		catalog[i] = row
	}
	return catalog, total, nil
}

// cachedCourseList serves the default first catalog page from Redis when
// possible; authoring writes invalidate the key.
func (s *LearningService) cachedCourseList(page, limit int) ([]model.Course, int64, error) {
	type cachedCatalog struct {
		Courses []model.Course `json:"courses"`
		Total   int64          `json:"total"`
	}

	cacheable := s.Redis != nil && page == 1 && limit == 20

	if cacheable {
		raw, err := s.Redis.Get(context.Background(), catalogCacheKey).Result()
		if err == nil {
			var cached cachedCatalog
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached.Courses, cached.Total, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("course catalog cache read failed", zap.Error(err))
		}
	}

	courses, total, err := s.Courses.List(page, limit)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if raw, err := json.Marshal(cachedCatalog{Courses: courses, Total: total}); err == nil {
			s.Redis.Set(context.Background(), catalogCacheKey, raw, catalogCacheTTL)
		}
	}
	return courses, total, nil
}

// GetCourseContent returns the full course tree for an enrolled student,
// with per-item completion state.
func (s *LearningService) GetCourseContent(studentID, courseID uint) (*model.Course, *model.CourseEnrollment, map[uint]model.StudentResponse, error) {
	enrollment, err := s.Enrollments.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil, util.ErrNotEnrolled
		}
		return nil, nil, nil, err
	}

	course, err := s.Courses.FindByIDWithContent(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil, util.ErrNotFound
		}
		return nil, nil, nil, err
	}

	var itemIDs []uint
	for _, module := range course.Modules {
		for _, item := range module.ContentItems {
			itemIDs = append(itemIDs, item.ID)
		}
	}

	responses := map[uint]model.StudentResponse{}
	if len(itemIDs) > 0 {
		responses, err = s.Responses.ListByStudentAndItems(studentID, itemIDs)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return course, enrollment, responses, nil
}

// GetContentItem returns one content item together with the student's own
// response, if any. The student must be enrolled in the owning course.
func (s *LearningService) GetContentItem(studentID, itemID uint) (*model.ContentItem, *model.StudentResponse, error) {
	item, err := s.Contents.FindByID(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, util.ErrNotFound
		}
		return nil, nil, err
	}

	courseID, err := s.Contents.CourseIDForItem(itemID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.Enrollments.FindByStudentAndCourse(studentID, courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, util.ErrNotEnrolled
		}
		return nil, nil, err
	}

	response, err := s.Responses.FindByStudentAndItem(studentID, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return item, nil, nil
		}
		return nil, nil, err
	}
	return item, response, nil
}
