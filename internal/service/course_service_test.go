package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemCourseService(m *memStores) *CourseService {
	return NewCourseService(memCourseStore{m}, memModuleStore{m}, memContentStore{m}, nil)
}

func TestUpdateContentKindChangeClearsQuestions(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(7)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentQuiz, model.QuizQuestion{
		Text: "capital of France", Kind: model.OpenEnded, CorrectAnswer: "Paris", Order: 1,
	})
	svc := newMemCourseService(m)

	updated, err := svc.UpdateContent(7, item.ID, ContentItemReq{
		Title: "Reading instead",
		Kind:  "text",
		Text:  "Read chapter one.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContentText, updated.Kind)
	assert.Empty(t, updated.Questions)

	stored, err := memContentStore{m}.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentText, stored.Kind)
	assert.Empty(t, stored.Questions)
}

func TestUpdateContentReplacesQuizQuestions(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(7)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentQuiz, model.QuizQuestion{
		Text: "old question", Kind: model.OpenEnded, CorrectAnswer: "old", Order: 1,
	})
	svc := newMemCourseService(m)

	updated, err := svc.UpdateContent(7, item.ID, ContentItemReq{
		Title: "Quiz v2",
		Kind:  "quiz",
		Questions: []QuestionReq{
			{Text: "new question", Kind: "open_ended", CorrectAnswer: "new"},
			{Text: "another", Kind: "open_ended", CorrectAnswer: "also new"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Questions, 2)
	assert.Equal(t, "new question", updated.Questions[0].Text)

	stored, err := memContentStore{m}.FindByID(item.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 2)
	for _, q := range stored.Questions {
		assert.NotEqual(t, "old question", q.Text)
	}
}

func TestUpdateContentByOtherInstructor(t *testing.T) {
	m := newMemStores()
	course := m.addCourse(7)
	module := m.addModule(course.ID)
	item := m.addItem(module.ID, model.ContentText)
	svc := newMemCourseService(m)

	_, err := svc.UpdateContent(99, item.ID, ContentItemReq{
		Title: "Hijacked",
		Kind:  "text",
		Text:  "nope",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
