package service

import (
	"context"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService covers instructor authoring of courses, modules, content
// items and quiz questions, plus the admin-side course operations.
type CourseService struct {
	Courses  repository.CourseStore
	Modules  repository.ModuleStore
	Contents repository.ContentStore
	Redis    *redis.Client
}

func NewCourseService(
	courses repository.CourseStore,
	modules repository.ModuleStore,
	contents repository.ContentStore,
	rdb *redis.Client,
) *CourseService {
	return &CourseService{
		Courses:  courses,
		Modules:  modules,
		Contents: contents,
		Redis:    rdb,
	}
}

type CourseReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ModuleReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// ownedCourse loads a course and enforces instructor ownership. NotFound and
// PermissionDenied stay distinct so the boundary can decide what to
// disclose.
func (s *CourseService) ownedCourse(instructorID, courseID uint) (*model.Course, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

func (s *CourseService) CreateCourse(instructorID uint, req CourseReq) (*model.Course, error) {
	course := &model.Course{
		Name:         req.Name,
		Description:  req.Description,
		InstructorID: instructorID,
	}
	if err := s.Courses.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

func (s *CourseService) UpdateCourse(instructorID, courseID uint, req CourseReq) (*model.Course, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, err
	}

	course.Name = req.Name
	course.Description = req.Description
	if err := s.Courses.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

// DeleteCourse removes the course and all content beneath it. Admins may
// delete any course; instructors only their own.
func (s *CourseService) DeleteCourse(actorID uint, isAdmin bool, courseID uint) error {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrNotFound
		}
		return err
	}
	if !isAdmin && course.InstructorID != actorID {
		return util.ErrPermissionDenied
	}

	if err := s.Courses.DeleteCascade(courseID); err != nil {
		return err
	}

	logger.Log.Info("course deleted",
		zap.Uint("courseId", courseID),
		zap.Uint("actorId", actorID))
	s.invalidateCatalog()
	return nil
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.Courses.ListByInstructor(instructorID)
}

func (s *CourseService) GetCourseDetail(instructorID, courseID uint) (*model.Course, error) {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}
	return s.Courses.FindByIDWithContent(courseID)
}

func (s *CourseService) ListAll(page, limit int) ([]model.Course, int64, error) {
	return s.Courses.List(page, limit)
}

func (s *CourseService) CreateModule(instructorID, courseID uint, req ModuleReq) (*model.CourseModule, error) {
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}

	order, err := s.Modules.NextOrder(courseID)
	if err != nil {
		return nil, err
	}

	module := &model.CourseModule{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       order,
	}
	if err := s.Modules.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) UpdateModule(instructorID, moduleID uint, req ModuleReq) (*model.CourseModule, error) {
	module, err := s.ownedModule(instructorID, moduleID)
	if err != nil {
		return nil, err
	}

	module.Title = req.Title
	module.Description = req.Description
	if err := s.Modules.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

// DeleteModule cascades through the module's content and renumbers the
// course's surviving modules.
func (s *CourseService) DeleteModule(instructorID, moduleID uint) error {
	module, err := s.ownedModule(instructorID, moduleID)
	if err != nil {
		return err
	}
	return s.Modules.DeleteCascade(module.ID, module.CourseID)
}

func (s *CourseService) ownedModule(instructorID, moduleID uint) (*model.CourseModule, error) {
	module, err := s.Modules.FindByID(moduleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedCourse(instructorID, module.CourseID); err != nil {
		return nil, err
	}
	return module, nil
}

// CreateContent validates the request into a tagged payload and persists the
// item (with its questions for quiz kind) at the next position in the
// module.
func (s *CourseService) CreateContent(instructorID, moduleID uint, req ContentItemReq, videoDuration float64) (*model.ContentItem, error) {
	module, err := s.ownedModule(instructorID, moduleID)
	if err != nil {
		return nil, err
	}

	payload, err := ParseContentPayload(req)
	if err != nil {
		return nil, err
	}

	order, err := s.Contents.NextOrder(module.ID)
	if err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		ModuleID:  module.ID,
		Title:     req.Title,
		Kind:      payload.Kind,
		Payload:   payload.Body,
		Order:     order,
		Duration:  videoDuration,
		Questions: payload.Questions,
	}
	if err := s.Contents.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CourseService) UpdateContent(instructorID, itemID uint, req ContentItemReq) (*model.ContentItem, error) {
	item, err := s.ownedContent(instructorID, itemID)
	if err != nil {
		return nil, err
	}

	payload, err := ParseContentPayload(req)
	if err != nil {
		return nil, err
	}

	item.Title = req.Title
	item.Kind = payload.Kind
	item.Payload = payload.Body
	if err := s.Contents.Update(item); err != nil {
		return nil, err
	}

	// Non-quiz payloads carry no questions, so this also drops the question
	// set left behind when an item changes kind away from quiz.
	if err := s.Contents.ReplaceQuestions(item.ID, payload.Questions); err != nil {
		return nil, err
	}
	item.Questions = payload.Questions
	return item, nil
}

func (s *CourseService) DeleteContent(instructorID, itemID uint) error {
	item, err := s.ownedContent(instructorID, itemID)
	if err != nil {
		return err
	}
	return s.Contents.DeleteCascade(item.ID, item.ModuleID)
}

func (s *CourseService) ownedContent(instructorID, itemID uint) (*model.ContentItem, error) {
	item, err := s.Contents.FindByID(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.ownedModule(instructorID, item.ModuleID); err != nil {
		return nil, err
	}
	return item, nil
}

// invalidateCatalog drops the cached public course list after any authoring
// write that changes it.
func (s *CourseService) invalidateCatalog() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), catalogCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("failed to invalidate course catalog cache", zap.Error(err))
	}
}
