package service

import (
	"database/sql"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"gorm.io/gorm"
)

// memStores is the shared in-memory state behind the fake repositories the
// service tests inject. Each fake store wraps the same *memStores, so the
// orchestration under test sees one consistent dataset.
type memStores struct {
	nextID      uint
	courses     map[uint]*model.Course
	modules     map[uint]*model.CourseModule
	items       map[uint]*model.ContentItem
	enrollments map[[2]uint]*model.CourseEnrollment // keyed (student, course)
	responses   map[[2]uint]*model.StudentResponse  // keyed (student, item)

	enrollCreateErr error // consumed by the next enrollment Create
}

func newMemStores() *memStores {
	return &memStores{
		courses:     map[uint]*model.Course{},
		modules:     map[uint]*model.CourseModule{},
		items:       map[uint]*model.ContentItem{},
		enrollments: map[[2]uint]*model.CourseEnrollment{},
		responses:   map[[2]uint]*model.StudentResponse{},
	}
}

func (m *memStores) id() uint {
	m.nextID++
	return m.nextID
}

// Transaction satisfies TxRunner; the fakes have no transactional state, so
// the function runs directly.
func (m *memStores) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

func (m *memStores) addCourse(instructorID uint) *model.Course {
	course := &model.Course{
		BaseModel:    model.BaseModel{ID: m.id()},
		Name:         "Course",
		InstructorID: instructorID,
	}
	m.courses[course.ID] = course
	return course
}

func (m *memStores) addModule(courseID uint) *model.CourseModule {
	module := &model.CourseModule{
		BaseModel: model.BaseModel{ID: m.id()},
		CourseID:  courseID,
		Title:     "Module",
		Order:     1,
	}
	m.modules[module.ID] = module
	return module
}

func (m *memStores) addItem(moduleID uint, kind model.ContentKind, questions ...model.QuizQuestion) *model.ContentItem {
	item := &model.ContentItem{
		BaseModel: model.BaseModel{ID: m.id()},
		ModuleID:  moduleID,
		Title:     "Item",
		Kind:      kind,
		Order:     1,
	}
	for i := range questions {
		questions[i].ID = m.id()
		questions[i].ContentItemID = item.ID
	}
	item.Questions = questions
	m.items[item.ID] = item
	return item
}

type memCourseStore struct{ m *memStores }

var _ repository.CourseStore = memCourseStore{}

func (s memCourseStore) Create(course *model.Course) error {
	course.ID = s.m.id()
	s.m.courses[course.ID] = course
	return nil
}

func (s memCourseStore) FindByID(id uint) (*model.Course, error) {
	course, ok := s.m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (s memCourseStore) FindByIDWithContent(id uint) (*model.Course, error) {
	course, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	out := *course
	out.Modules = nil
	for _, module := range s.m.modules {
		if module.CourseID != id {
			continue
		}
		mod := *module
		mod.ContentItems = nil
		for _, item := range s.m.items {
			if item.ModuleID == module.ID {
				mod.ContentItems = append(mod.ContentItems, *item)
			}
		}
		out.Modules = append(out.Modules, mod)
	}
	return &out, nil
}

func (s memCourseStore) List(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	for _, course := range s.m.courses {
		courses = append(courses, *course)
	}
	return courses, int64(len(courses)), nil
}

func (s memCourseStore) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	for _, course := range s.m.courses {
		if course.InstructorID == instructorID {
			courses = append(courses, *course)
		}
	}
	return courses, nil
}

func (s memCourseStore) Update(course *model.Course) error {
	s.m.courses[course.ID] = course
	return nil
}

func (s memCourseStore) DeleteCascade(courseID uint) error {
	delete(s.m.courses, courseID)
	for id, module := range s.m.modules {
		if module.CourseID != courseID {
			continue
		}
		for itemID, item := range s.m.items {
			if item.ModuleID == module.ID {
				delete(s.m.items, itemID)
			}
		}
		delete(s.m.modules, id)
	}
	for key := range s.m.enrollments {
		if key[1] == courseID {
			delete(s.m.enrollments, key)
		}
	}
	return nil
}

type memModuleStore struct{ m *memStores }

var _ repository.ModuleStore = memModuleStore{}

func (s memModuleStore) Create(module *model.CourseModule) error {
	module.ID = s.m.id()
	s.m.modules[module.ID] = module
	return nil
}

func (s memModuleStore) FindByID(id uint) (*model.CourseModule, error) {
	module, ok := s.m.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return module, nil
}

func (s memModuleStore) FindByIDWithItems(id uint) (*model.CourseModule, error) {
	module, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	out := *module
	out.ContentItems = nil
	for _, item := range s.m.items {
		if item.ModuleID == id {
			out.ContentItems = append(out.ContentItems, *item)
		}
	}
	return &out, nil
}

func (s memModuleStore) Update(module *model.CourseModule) error {
	s.m.modules[module.ID] = module
	return nil
}

func (s memModuleStore) NextOrder(courseID uint) (int, error) {
	count := 0
	for _, module := range s.m.modules {
		if module.CourseID == courseID {
			count++
		}
	}
	return count + 1, nil
}

func (s memModuleStore) DeleteCascade(moduleID, courseID uint) error {
	for itemID, item := range s.m.items {
		if item.ModuleID == moduleID {
			delete(s.m.items, itemID)
		}
	}
	delete(s.m.modules, moduleID)
	return nil
}

type memContentStore struct{ m *memStores }

var _ repository.ContentStore = memContentStore{}

func (s memContentStore) Create(item *model.ContentItem) error {
	item.ID = s.m.id()
	for i := range item.Questions {
		item.Questions[i].ID = s.m.id()
		item.Questions[i].ContentItemID = item.ID
	}
	s.m.items[item.ID] = item
	return nil
}

func (s memContentStore) FindByID(id uint) (*model.ContentItem, error) {
	item, ok := s.m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s memContentStore) CourseIDForItem(itemID uint) (uint, error) {
	item, ok := s.m.items[itemID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	module, ok := s.m.modules[item.ModuleID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return module.CourseID, nil
}

func (s memContentStore) Update(item *model.ContentItem) error {
	s.m.items[item.ID] = item
	return nil
}

func (s memContentStore) ReplaceQuestions(itemID uint, questions []model.QuizQuestion) error {
	item, ok := s.m.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range questions {
		questions[i].ID = s.m.id()
		questions[i].ContentItemID = itemID
	}
	item.Questions = questions
	return nil
}

func (s memContentStore) NextOrder(moduleID uint) (int, error) {
	count := 0
	for _, item := range s.m.items {
		if item.ModuleID == moduleID {
			count++
		}
	}
	return count + 1, nil
}

func (s memContentStore) DeleteCascade(itemID, moduleID uint) error {
	delete(s.m.items, itemID)
	return nil
}

type memEnrollmentStore struct{ m *memStores }

var _ repository.EnrollmentStore = memEnrollmentStore{}

func (s memEnrollmentStore) WithTx(tx *gorm.DB) repository.EnrollmentStore { return s }

func (s memEnrollmentStore) Create(enrollment *model.CourseEnrollment) error {
	if err := s.m.enrollCreateErr; err != nil {
		s.m.enrollCreateErr = nil
		return err
	}
	key := [2]uint{enrollment.StudentID, enrollment.CourseID}
	if _, ok := s.m.enrollments[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	enrollment.ID = s.m.id()
	s.m.enrollments[key] = enrollment
	return nil
}

func (s memEnrollmentStore) FindByStudentAndCourse(studentID, courseID uint) (*model.CourseEnrollment, error) {
	enrollment, ok := s.m.enrollments[[2]uint{studentID, courseID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return enrollment, nil
}

func (s memEnrollmentStore) ListByStudent(studentID uint) ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	for key, enrollment := range s.m.enrollments {
		if key[0] == studentID {
			enrollments = append(enrollments, *enrollment)
		}
	}
	return enrollments, nil
}

func (s memEnrollmentStore) Save(enrollment *model.CourseEnrollment) error {
	s.m.enrollments[[2]uint{enrollment.StudentID, enrollment.CourseID}] = enrollment
	return nil
}

func (s memEnrollmentStore) CountCourseItems(courseID uint) (int64, error) {
	var total int64
	for _, item := range s.m.items {
		module, ok := s.m.modules[item.ModuleID]
		if ok && module.CourseID == courseID {
			total++
		}
	}
	return total, nil
}

func (s memEnrollmentStore) CountCompletedItems(studentID, courseID uint) (int64, error) {
	var completed int64
	for key, response := range s.m.responses {
		if key[0] != studentID || !response.Completed {
			continue
		}
		item, ok := s.m.items[response.ContentItemID]
		if !ok {
			continue
		}
		module, ok := s.m.modules[item.ModuleID]
		if ok && module.CourseID == courseID {
			completed++
		}
	}
	return completed, nil
}

type memResponseStore struct{ m *memStores }

var _ repository.ResponseStore = memResponseStore{}

func (s memResponseStore) WithTx(tx *gorm.DB) repository.ResponseStore { return s }

func (s memResponseStore) FindByStudentAndItem(studentID, itemID uint) (*model.StudentResponse, error) {
	response, ok := s.m.responses[[2]uint{studentID, itemID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return response, nil
}

func (s memResponseStore) Upsert(studentID, itemID uint, payload string, score *float64) (*model.StudentResponse, error) {
	now := time.Now()
	key := [2]uint{studentID, itemID}

	if existing, ok := s.m.responses[key]; ok {
		existing.Response = payload
		if score != nil {
			existing.Score = score
		}
		existing.Completed = true
		existing.CompletionDate = &now
		return existing, nil
	}

	response := &model.StudentResponse{
		BaseModel:      model.BaseModel{ID: s.m.id()},
		StudentID:      studentID,
		ContentItemID:  itemID,
		Response:       payload,
		Score:          score,
		Completed:      true,
		CompletionDate: &now,
	}
	s.m.responses[key] = response
	return response, nil
}

func (s memResponseStore) ListByStudentAndItems(studentID uint, itemIDs []uint) (map[uint]model.StudentResponse, error) {
	byItem := map[uint]model.StudentResponse{}
	for _, itemID := range itemIDs {
		if response, ok := s.m.responses[[2]uint{studentID, itemID}]; ok {
			byItem[itemID] = *response
		}
	}
	return byItem, nil
}

func newMemEnrollmentService(m *memStores) *EnrollmentService {
	return NewEnrollmentService(
		memCourseStore{m},
		memContentStore{m},
		memEnrollmentStore{m},
		memResponseStore{m},
		m,
	)
}
